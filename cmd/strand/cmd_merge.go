package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wI2L/jsondiff"
	"golang.org/x/crypto/ssh"

	"github.com/odvcencio/strand/pkg/config"
	"github.com/odvcencio/strand/pkg/merge"
	"github.com/odvcencio/strand/pkg/object"
	"github.com/odvcencio/strand/pkg/repo"
)

// commitMeta is the metadata merge3 records on each commit.
type commitMeta struct {
	Author  string `json:"author,omitempty"`
	Message string `json:"message"`
}

// policyFlag returns --policy when given, else the configured policy.
func policyFlag(cmd *cobra.Command, cfg *config.Config, name string) (merge.Policy, error) {
	if !cmd.Flags().Changed("policy") {
		return cfg.Policy(), nil
	}
	return merge.ParsePolicy(name)
}

func newMerge3Cmd(opts *rootOptions) *cobra.Command {
	var policyName, signKey, author string
	var sign, archive, lines, markers bool

	cmd := &cobra.Command{
		Use:   "merge3 <origin> <left> <right>",
		Short: "Three-way merge two edited copies of a text",
		Long: "Commits origin, then left and right on their own branches, and merges right into left.\n" +
			"The merged text is written to stdout. With --lines the texts merge line by line;\n" +
			"--markers also keeps conflicting regions as marker blocks instead of failing.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			policy, err := policyFlag(cmd, cfg, policyName)
			if err != nil {
				return err
			}
			texts, err := readInputs(cmd, args...)
			if err != nil {
				return err
			}
			logger := opts.logger(cmd)

			if markers {
				merged, n := merge.LinesWithMarkers(texts[0], texts[1], texts[2], cfg.DiffOptions())
				fmt.Fprint(cmd.OutOrStdout(), merged)
				if n > 0 {
					return fmt.Errorf("merge3: %d conflicting regions", n)
				}
				return nil
			}

			handler := merge.StringHandler(cfg.DiffOptions())
			if lines {
				handler = merge.LinesHandler(cfg.DiffOptions())
			}
			repoOpts := []repo.Option[string, commitMeta]{
				repo.WithPolicy[string, commitMeta](policy),
				repo.WithHandler[string, commitMeta](handler),
				repo.WithLogger[string, commitMeta](logger),
				repo.WithMergeMeta(func(ours, theirs *repo.Commit[string, commitMeta]) commitMeta {
					return commitMeta{Author: author, Message: "merge right into left"}
				}),
			}
			if sign || signKey != "" {
				signer, keyPath, err := newSSHCommitSigner(signKey)
				if err != nil {
					return err
				}
				logger.Debug("signing commits", "key", keyPath)
				repoOpts = append(repoOpts, repo.WithSigner[string, commitMeta](signer))
			}
			if archive {
				repoOpts = append(repoOpts, repo.WithArchive[string, commitMeta](object.NewFileStore(cfg.Store.Dir)))
			}

			r, err := repo.New(repoOpts...)
			if err != nil {
				return err
			}
			head, err := replayMerge3(r, texts[0], texts[1], texts[2], author)
			if err != nil {
				return err
			}
			if sign || signKey != "" {
				key, err := verifyCommitSignature(head.Signature(), head.Payload())
				if err != nil {
					return fmt.Errorf("merge3: commit %s: %w", head.ID(), err)
				}
				logger.Debug("verified commit signature", "commit", head.ID(), "key", ssh.FingerprintSHA256(key))
			}
			fmt.Fprint(cmd.OutOrStdout(), head.Value())
			return nil
		},
	}

	cmd.Flags().StringVar(&policyName, "policy", "", "conflict policy: raise, left, right or cheaper (default from config)")
	cmd.Flags().StringVar(&author, "author", "", "author recorded on each commit")
	cmd.Flags().BoolVar(&sign, "sign", false, "sign commits with the default SSH key")
	cmd.Flags().StringVar(&signKey, "sign-key", "", "sign commits with this SSH private key")
	cmd.Flags().BoolVar(&archive, "archive", false, "store commit payloads in the object store")
	cmd.Flags().BoolVar(&lines, "lines", false, "merge line by line")
	cmd.Flags().BoolVar(&markers, "markers", false, "merge line by line and write conflict markers")
	cmd.MarkFlagsMutuallyExclusive("markers", "policy")
	return cmd
}

// replayMerge3 commits origin on the default branch, left and right on
// branches of the same names, and merges right into left.
func replayMerge3(r *repo.Repository[string, commitMeta], origin, left, right, author string) (*repo.Commit[string, commitMeta], error) {
	if _, err := r.Commit(origin, commitMeta{Author: author, Message: "origin"}); err != nil {
		return nil, err
	}
	lb, err := r.CreateBranch("left")
	if err != nil {
		return nil, err
	}
	rb, err := r.CreateBranch("right")
	if err != nil {
		return nil, err
	}
	if _, err := lb.Commit(left, commitMeta{Author: author, Message: "left"}); err != nil {
		return nil, err
	}
	if _, err := rb.Commit(right, commitMeta{Author: author, Message: "right"}); err != nil {
		return nil, err
	}
	res, err := lb.Merge(rb)
	if err != nil {
		return nil, err
	}
	return res.Head, nil
}

func newMergeJSONCmd(opts *rootOptions) *cobra.Command {
	var policyName string
	var asPatch bool

	cmd := &cobra.Command{
		Use:   "merge-json <origin> <left> <right>",
		Short: "Three-way merge the top-level keys of JSON objects",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			policy, err := policyFlag(cmd, cfg, policyName)
			if err != nil {
				return err
			}
			docs := make([]map[string]any, len(args))
			for i, path := range args {
				raw, err := readInput(cmd, path)
				if err != nil {
					return err
				}
				if err := json.Unmarshal([]byte(raw), &docs[i]); err != nil {
					return fmt.Errorf("merge-json: %s: %w", path, err)
				}
			}

			merged, err := merge.DictionaryFunc(docs[0], docs[1], docs[2], policy, jsonEqual)
			if err != nil {
				return fmt.Errorf("merge-json: %w", err)
			}

			var out []byte
			if asPatch {
				out, err = jsonPatch(docs[0], merged)
			} else {
				out, err = json.MarshalIndent(merged, "", "  ")
			}
			if err != nil {
				return fmt.Errorf("merge-json: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&policyName, "policy", "", "conflict policy: raise, left, right or cheaper (default from config)")
	cmd.Flags().BoolVar(&asPatch, "patch", false, "print an RFC 6902 patch from origin to the merge")
	return cmd
}

// jsonEqual compares decoded JSON values by their encoding; map keys are
// encoded in sorted order.
func jsonEqual(a, b any) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	return errA == nil && errB == nil && bytes.Equal(ja, jb)
}

func jsonPatch(origin, merged map[string]any) ([]byte, error) {
	src, err := json.Marshal(origin)
	if err != nil {
		return nil, err
	}
	dst, err := json.Marshal(merged)
	if err != nil {
		return nil, err
	}
	ops, err := jsondiff.CompareJSON(src, dst)
	if err != nil {
		return nil, err
	}
	if len(ops) == 0 {
		return []byte("[]"), nil
	}
	return json.MarshalIndent(ops, "", "  ")
}
