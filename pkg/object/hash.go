package object

import (
	"fmt"

	gocid "github.com/ipfs/go-cid"
	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multihash"
)

// ComputeCID returns the CIDv1 (raw codec, sha2-256) of data.
func ComputeCID(data []byte) (gocid.Cid, error) {
	mh, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return gocid.Undef, fmt.Errorf("multihash: %w", err)
	}
	return gocid.NewCidV1(gocid.Raw, mh), nil
}

// ComputeID returns the content address of data in base32 text form.
func ComputeID(data []byte) (ID, error) {
	c, err := ComputeCID(data)
	if err != nil {
		return "", err
	}
	return FromCID(c)
}

// FromCID encodes c as an ID.
func FromCID(c gocid.Cid) (ID, error) {
	encoded, err := multibase.Encode(multibase.Base32, c.Bytes())
	if err != nil {
		return "", fmt.Errorf("multibase: %w", err)
	}
	return ID(encoded), nil
}

// ParseID decodes a content address produced by ComputeID.
func ParseID(id ID) (gocid.Cid, error) {
	c, err := gocid.Decode(string(id))
	if err != nil {
		return gocid.Undef, fmt.Errorf("parse id %q: %w", id, err)
	}
	return c, nil
}

// Verify reports whether data hashes to id.
func Verify(id ID, data []byte) bool {
	got, err := ComputeID(data)
	return err == nil && got == id
}
