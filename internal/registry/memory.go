package registry

import (
	"context"
	"sync"

	"leasehold/internal/namehash"
	"leasehold/pkg/domain"
)

// InMemory is a self-contained registry used in standalone mode and tests.
//
// BindHook, when set, runs before the ownership write of every BindLabel
// call. Tests use it to simulate a malicious registry that calls back into
// the registrar mid-bind; returning an error simulates a rejected bind.
type InMemory struct {
	mu       sync.RWMutex
	owners   map[domain.NameID]domain.Identity
	BindHook func(ctx context.Context, parent domain.NameID, labelHash domain.LabelHash, owner domain.Identity) error
}

// NewInMemory constructs an empty in-memory registry.
func NewInMemory() *InMemory {
	return &InMemory{owners: make(map[domain.NameID]domain.Identity)}
}

func (r *InMemory) OwnerOf(_ context.Context, node domain.NameID) (domain.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.owners[node], nil
}

func (r *InMemory) BindLabel(ctx context.Context, parent domain.NameID, labelHash domain.LabelHash, owner domain.Identity) error {
	if r.BindHook != nil {
		if err := r.BindHook(ctx, parent, labelHash, owner); err != nil {
			return err
		}
	}

	node := childNode(parent, labelHash)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners[node] = owner
	return nil
}

func (r *InMemory) SetNamespaceOwner(_ context.Context, node domain.NameID, owner domain.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners[node] = owner
	return nil
}

// SetOwner records an owner directly, bypassing BindLabel. Tests use it to
// model ownership changes that happen outside this registrar.
func (r *InMemory) SetOwner(node domain.NameID, owner domain.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners[node] = owner
}

// childNode mirrors namehash.Derive for a label hash the caller has already
// computed. Both sides of the interface must agree on this derivation.
func childNode(parent domain.NameID, labelHash domain.LabelHash) domain.NameID {
	return namehash.DeriveFromHash(parent, labelHash)
}
