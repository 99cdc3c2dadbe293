package main

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/odvcencio/strand/pkg/object"
	"github.com/odvcencio/strand/pkg/repo"
)

const commitSignaturePrefix = "strand-sshsig"

var defaultSigningKeys = []string{"id_ed25519", "id_ecdsa", "id_rsa"}

// commitSignature is the decoded form of
// "strand-sshsig:<commit id>:<format>:<pubkey b64>:<sig b64>".
type commitSignature struct {
	commit object.ID
	key    ssh.PublicKey
	sig    *ssh.Signature
}

// signedCommitMessage is what the key actually signs: the commit ID line
// followed by the canonical payload, so a signature never verifies against
// another commit.
func signedCommitMessage(id object.ID, payload []byte) []byte {
	var b bytes.Buffer
	b.WriteString("strand commit ")
	b.WriteString(id.String())
	b.WriteByte('\n')
	b.Write(payload)
	return b.Bytes()
}

// newSSHCommitSigner loads an SSH private key and returns a signer for
// commit payloads. An empty keyPath picks the first default key in ~/.ssh.
func newSSHCommitSigner(keyPath string) (repo.CommitSigner, string, error) {
	resolvedPath, err := resolveSigningKeyPath(keyPath)
	if err != nil {
		return nil, "", err
	}
	raw, err := os.ReadFile(resolvedPath)
	if err != nil {
		return nil, "", fmt.Errorf("read signing key %q: %w", resolvedPath, err)
	}
	key, err := ssh.ParsePrivateKey(raw)
	if err != nil {
		return nil, "", fmt.Errorf("parse signing key %q: %w", resolvedPath, err)
	}
	pubB64 := base64.StdEncoding.EncodeToString(key.PublicKey().Marshal())

	return func(payload []byte) (string, error) {
		id, err := object.ComputeID(payload)
		if err != nil {
			return "", err
		}
		sig, err := key.Sign(rand.Reader, signedCommitMessage(id, payload))
		if err != nil {
			return "", err
		}
		return strings.Join([]string{
			commitSignaturePrefix,
			id.String(),
			sig.Format,
			pubB64,
			base64.StdEncoding.EncodeToString(sig.Blob),
		}, ":"), nil
	}, resolvedPath, nil
}

func parseCommitSignature(s string) (*commitSignature, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 5 || parts[0] != commitSignaturePrefix {
		return nil, errors.New("parse signature: not a strand SSH signature")
	}
	pubBytes, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil {
		return nil, fmt.Errorf("parse signature: public key: %w", err)
	}
	key, err := ssh.ParsePublicKey(pubBytes)
	if err != nil {
		return nil, fmt.Errorf("parse signature: public key: %w", err)
	}
	blob, err := base64.StdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, fmt.Errorf("parse signature: blob: %w", err)
	}
	return &commitSignature{
		commit: object.ID(parts[1]),
		key:    key,
		sig:    &ssh.Signature{Format: parts[2], Blob: blob},
	}, nil
}

// verifyCommitSignature checks a signature against the commit payload it
// claims to cover and returns the signing key.
func verifyCommitSignature(signature string, payload []byte) (ssh.PublicKey, error) {
	cs, err := parseCommitSignature(signature)
	if err != nil {
		return nil, err
	}
	id, err := object.ComputeID(payload)
	if err != nil {
		return nil, err
	}
	if cs.commit != id {
		return nil, fmt.Errorf("verify signature: signed commit %s, payload is %s", cs.commit, id)
	}
	if err := cs.key.Verify(signedCommitMessage(id, payload), cs.sig); err != nil {
		return nil, fmt.Errorf("verify signature: %w", err)
	}
	return cs.key, nil
}

func resolveSigningKeyPath(path string) (string, error) {
	if path = strings.TrimSpace(path); path != "" {
		return expandUserPath(path)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	for _, name := range defaultSigningKeys {
		candidate := filepath.Join(home, ".ssh", name)
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no default SSH private key in ~/.ssh (%s)", strings.Join(defaultSigningKeys, ", "))
}

func expandUserPath(path string) (string, error) {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		path = filepath.Join(home, rest)
	}
	return filepath.Abs(path)
}
