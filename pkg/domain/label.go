package domain

import dErrors "leasehold/pkg/domain-errors"

// Label is a validated child name under the parent namespace.
//
// Invariant: 4 <= len(label) < 255 bytes. The bound is enforced here, at the
// service boundary, so the hashing layer can stay a pure function.
type Label string

const (
	minLabelLength = 4
	maxLabelLength = 255 // exclusive
)

// ParseLabel constructs a Label from external input.
//
// Errors: returns CodeInvalidLabel when the length is out of range; no other
// errors are expected.
func ParseLabel(s string) (Label, error) {
	if len(s) < minLabelLength {
		return "", dErrors.New(dErrors.CodeInvalidLabel, "label must be at least 4 bytes")
	}
	if len(s) >= maxLabelLength {
		return "", dErrors.New(dErrors.CodeInvalidLabel, "label must be shorter than 255 bytes")
	}
	return Label(s), nil
}

func (l Label) String() string {
	return string(l)
}
