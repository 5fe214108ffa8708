// Package treasury tracks the registration fee and the value it accumulates.
//
// Value is an accounted integer, not a platform transfer: deposits add to a
// balance and withdrawal drains it. Overpayment is retained with no refund
// and no partial credit; that simplification is deliberate and tested.
package treasury

import (
	"sync"

	dErrors "leasehold/pkg/domain-errors"
)

// Treasury holds the configured fee and the accumulated balance.
type Treasury struct {
	mu      sync.RWMutex
	fee     uint64
	balance uint64
}

// New constructs a Treasury with the given starting fee.
func New(fee uint64) *Treasury {
	return &Treasury{fee: fee}
}

// Fee returns the currently configured fee.
func (t *Treasury) Fee() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.fee
}

// SetFee replaces the configured fee. Admin gating happens in the service.
func (t *Treasury) SetFee(fee uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fee = fee
}

// RequirePayment fails with CodeInsufficientFee when paid is below the fee.
func (t *Treasury) RequirePayment(paid uint64) error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if paid < t.fee {
		return dErrors.New(dErrors.CodeInsufficientFee, "payment is below the configured fee")
	}
	return nil
}

// Deposit adds a full payment, overpayment included, to the balance.
func (t *Treasury) Deposit(paid uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.balance += paid
}

// Withdraw drains and returns the full accumulated balance.
func (t *Treasury) Withdraw() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	amount := t.balance
	t.balance = 0
	return amount
}

// Balance reports the accumulated balance without draining it.
func (t *Treasury) Balance() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.balance
}
