// Package token issues ownership tokens for leases.
//
// The issuer exclusively owns the monotonic token-id counter and the
// token-to-owner mapping. The lease ledger holds only the Mint/OwnerOf/Rebind
// capabilities; it never mutates owner identity directly.
package token

import (
	"sync"

	"leasehold/pkg/domain"
	dErrors "leasehold/pkg/domain-errors"
)

// Issuer mints unique, strictly increasing token ids and tracks their owners.
// Ids start at 1 and are never reused, even after a rebind.
type Issuer struct {
	mu     sync.RWMutex
	last   domain.TokenID
	owners map[domain.TokenID]domain.Identity
}

// NewIssuer constructs an Issuer with no tokens outstanding.
func NewIssuer() *Issuer {
	return &Issuer{owners: make(map[domain.TokenID]domain.Identity)}
}

// Mint issues the next token id to owner.
func (i *Issuer) Mint(owner domain.Identity) domain.TokenID {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.last++
	i.owners[i.last] = owner
	return i.last
}

// OwnerOf returns the current owner of a token.
//
// Errors: CodeUnknownToken when the id was never minted.
func (i *Issuer) OwnerOf(id domain.TokenID) (domain.Identity, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	owner, ok := i.owners[id]
	if !ok {
		return domain.Nobody, dErrors.New(dErrors.CodeUnknownToken, "token was never minted")
	}
	return owner, nil
}

// Rebind reassigns a token to a new owner without minting. The ledger uses
// this on re-registration after expiry so the name keeps its token id.
//
// Errors: CodeUnknownToken when the id was never minted.
func (i *Issuer) Rebind(id domain.TokenID, owner domain.Identity) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.owners[id]; !ok {
		return dErrors.New(dErrors.CodeUnknownToken, "token was never minted")
	}
	i.owners[id] = owner
	return nil
}

// Transfer moves a token between identities. Only the current owner may
// transfer; the lease itself follows the token.
//
// Errors: CodeUnknownToken when the id was never minted, CodeUnauthorized
// when from is not the current owner.
func (i *Issuer) Transfer(id domain.TokenID, from, to domain.Identity) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	owner, ok := i.owners[id]
	if !ok {
		return dErrors.New(dErrors.CodeUnknownToken, "token was never minted")
	}
	if owner != from {
		return dErrors.New(dErrors.CodeUnauthorized, "only the token owner may transfer it")
	}
	i.owners[id] = to
	return nil
}

// Issued returns the highest id minted so far. Zero means no tokens exist.
func (i *Issuer) Issued() domain.TokenID {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.last
}
