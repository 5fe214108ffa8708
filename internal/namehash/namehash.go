// Package namehash derives name node identifiers.
//
// The derivation must agree byte for byte with the external naming registry,
// which computes the same identifier independently: both sides hash the label
// with Keccak-256 and then hash the parent node together with that label
// hash. Neither function validates label length; that happens at the service
// boundary via domain.ParseLabel.
package namehash

import (
	"golang.org/x/crypto/sha3"

	"leasehold/pkg/domain"
)

// LabelHash returns the Keccak-256 hash of a single label.
func LabelHash(label domain.Label) domain.LabelHash {
	var out domain.LabelHash
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(label))
	h.Sum(out[:0])
	return out
}

// Derive combines a parent node with a label into the child node identifier:
// keccak256(parent || keccak256(label)).
func Derive(parent domain.NameID, label domain.Label) domain.NameID {
	return DeriveFromHash(parent, LabelHash(label))
}

// DeriveFromHash is Derive for a label hash computed elsewhere, as when the
// wire protocol carries label hashes instead of cleartext labels.
func DeriveFromHash(parent domain.NameID, labelHash domain.LabelHash) domain.NameID {
	var out domain.NameID
	h := sha3.NewLegacyKeccak256()
	h.Write(parent[:])
	h.Write(labelHash[:])
	h.Sum(out[:0])
	return out
}
