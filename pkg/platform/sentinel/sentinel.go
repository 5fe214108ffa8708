package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and registry adapters
// return these (optionally wrapped) so services can translate them into coded
// domain errors.
//
// These represent factual states about resources, not validation failures:
//   - ErrNotFound: record does not exist in the store
//   - ErrUnavailable: backing service temporarily unreachable
//
// For validation errors (bad labels, short payments), use pkg/domain-errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)
