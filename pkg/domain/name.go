package domain

import (
	"encoding/hex"

	dErrors "leasehold/pkg/domain-errors"
)

// NameID is the fixed-width identifier of a name node: the hash of a parent
// namespace node and a label hash. It is the key for every lease lookup and
// must match the derivation the external registry performs on its side.
type NameID [32]byte

// ParseNameID decodes a 64-character hex string into a NameID.
//
// Usage: call at trust boundaries (config, HTTP, storage rows); internal code
// passes NameID values around directly.
func ParseNameID(s string) (NameID, error) {
	var id NameID
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, dErrors.New(dErrors.CodeValidation, "name id must be hex encoded")
	}
	if len(b) != len(id) {
		return id, dErrors.New(dErrors.CodeValidation, "name id must be 32 bytes")
	}
	copy(id[:], b)
	return id, nil
}

// Hex returns the lowercase hex encoding used for storage keys and logs.
func (n NameID) Hex() string {
	return hex.EncodeToString(n[:])
}

func (n NameID) String() string {
	return n.Hex()
}

// LabelHash is the hash of a single label, combined with a parent NameID to
// derive the child NameID.
type LabelHash [32]byte

// Hex returns the lowercase hex encoding of the label hash.
func (l LabelHash) Hex() string {
	return hex.EncodeToString(l[:])
}

// TokenID is a unique, strictly increasing ownership token identifier.
// Token ids start at 1; zero is never issued.
type TokenID uint64
