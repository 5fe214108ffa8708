package models

import (
	"time"

	"leasehold/pkg/domain"
)

// Lease is the time-bounded right to a name node.
//
// Invariants:
//   - EndTime = StartTime + lease duration at creation
//   - renewal extends EndTime by exactly one lease duration, from the prior
//     EndTime even when that is already in the past
//   - EndTime never decreases
//
// Exactly one Lease is current per NameID; re-registration after expiry
// overwrites the old record rather than keeping history.
type Lease struct {
	NameID    domain.NameID `json:"name_id"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
}

// Active reports whether the lease covers now. The zero Lease has a zero
// EndTime and so reports inactive for any real clock.
func (l Lease) Active(now time.Time) bool {
	return !now.After(l.EndTime)
}

// Registration is the outcome of a successful registration: the recorded
// lease plus the ownership token bound to the name.
type Registration struct {
	Lease   Lease           `json:"lease"`
	Label   domain.Label    `json:"label"`
	Owner   domain.Identity `json:"owner"`
	TokenID domain.TokenID  `json:"token_id"`
}
