// Package gate holds the registrar's access controls: the single
// administrator identity, the pause flag, and the reentrancy guard.
package gate

import (
	"sync"
	"sync/atomic"

	"leasehold/pkg/domain"
	dErrors "leasehold/pkg/domain-errors"
)

// Gate gates mutating registrar operations.
//
// The reentrancy guard is deliberately non-blocking: the external registry
// can synchronously call back into the registrar during a bind, and that
// nested call must fail immediately rather than deadlock or observe
// half-committed state.
type Gate struct {
	mu     sync.RWMutex
	admin  domain.Identity
	paused atomic.Bool
	busy   atomic.Bool
}

// New constructs a Gate with the given administrator.
func New(admin domain.Identity) *Gate {
	return &Gate{admin: admin}
}

// Admin returns the current administrator identity.
func (g *Gate) Admin() domain.Identity {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.admin
}

// RequireAdmin fails with CodeUnauthorized unless caller is the
// administrator. A simple equality check, not a role hierarchy.
func (g *Gate) RequireAdmin(caller domain.Identity) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if caller.IsZero() || caller != g.admin {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not the administrator")
	}
	return nil
}

// TransferAdmin hands the administrator role to next. Only the current
// administrator may do this.
func (g *Gate) TransferAdmin(caller, next domain.Identity) error {
	if err := g.RequireAdmin(caller); err != nil {
		return err
	}
	if next.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "administrator cannot be empty")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.admin = next
	return nil
}

// Pause blocks lease registration and renewal. Administrative operations and
// read-only queries stay available.
func (g *Gate) Pause(caller domain.Identity) error {
	if err := g.RequireAdmin(caller); err != nil {
		return err
	}
	g.paused.Store(true)
	return nil
}

// Unpause re-enables lease registration and renewal.
func (g *Gate) Unpause(caller domain.Identity) error {
	if err := g.RequireAdmin(caller); err != nil {
		return err
	}
	g.paused.Store(false)
	return nil
}

// Paused reports the pause flag without taking any lock.
func (g *Gate) Paused() bool {
	return g.paused.Load()
}

// RequireRunning fails with CodePaused while the registrar is paused.
func (g *Gate) RequireRunning() error {
	if g.paused.Load() {
		return dErrors.New(dErrors.CodePaused, "registrar is paused")
	}
	return nil
}

// Enter acquires the reentrancy guard and returns its release func. The
// release runs on every exit path of the caller, success or failure.
//
// Errors: CodeReentrant immediately when the guard is already held.
func (g *Gate) Enter() (func(), error) {
	if !g.busy.CompareAndSwap(false, true) {
		return nil, dErrors.New(dErrors.CodeReentrant, "operation already in progress")
	}
	return func() { g.busy.Store(false) }, nil
}
