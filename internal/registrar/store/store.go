// Package store persists the registrar's two authoritative tables: the
// NameID to Lease mapping and the NameID to token-id binding.
//
// Implementations return sentinel.ErrNotFound for missing records; the
// service layer translates that into domain errors. The token binding is set
// once at first registration and survives expiry, so a re-registration can
// find and rebind the existing token instead of minting another.
package store

import (
	"context"

	"leasehold/internal/registrar/models"
	"leasehold/pkg/domain"
)

// Store owns the lease and token-binding tables.
type Store interface {
	// GetLease returns the current lease for a node.
	GetLease(ctx context.Context, node domain.NameID) (models.Lease, error)

	// PutLease records a lease, replacing any previous record for the node.
	PutLease(ctx context.Context, lease models.Lease) error

	// TokenID returns the token bound to a node.
	TokenID(ctx context.Context, node domain.NameID) (domain.TokenID, error)

	// BindTokenID records the token bound to a node. Called once per node.
	BindTokenID(ctx context.Context, node domain.NameID, id domain.TokenID) error
}
