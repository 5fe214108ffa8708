// Package registry adapts the external naming registry.
//
// The registry is the authoritative record of which identity owns a name
// node. It is an untrusted collaborator: a bind request may synchronously
// call back into this process, which is why the registrar holds its
// reentrancy guard across every call made through this package.
package registry

import (
	"context"

	"leasehold/pkg/domain"
)

// Client is the capability set the registrar consumes.
type Client interface {
	// OwnerOf returns the recorded owner of a node, or domain.Nobody when
	// the node has never been claimed.
	OwnerOf(ctx context.Context, node domain.NameID) (domain.Identity, error)

	// BindLabel asks the registry to record owner as the holder of the
	// child node derived from parent and labelHash.
	BindLabel(ctx context.Context, parent domain.NameID, labelHash domain.LabelHash, owner domain.Identity) error

	// SetNamespaceOwner reassigns ownership of a node itself, used when the
	// administrator hands the parent namespace to a successor.
	SetNamespaceOwner(ctx context.Context, node domain.NameID, owner domain.Identity) error
}
