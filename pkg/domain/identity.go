package domain

import (
	"strings"

	dErrors "leasehold/pkg/domain-errors"
)

// Identity is the opaque principal an external registry or token records as
// an owner. The zero value means "no owner" and is what the external registry
// reports for an unclaimed name.
//
// Usage: construct via ParseIdentity at trust boundaries; direct casting
// bypasses validation.
type Identity string

// Nobody is the "no owner" sentinel.
const Nobody Identity = ""

// ParseIdentity constructs an Identity from external input.
//
// Errors: returns CodeValidation when the value is empty, padded, or longer
// than 128 bytes.
func ParseIdentity(s string) (Identity, error) {
	if s == "" {
		return Nobody, dErrors.New(dErrors.CodeValidation, "identity cannot be empty")
	}
	if strings.TrimSpace(s) != s {
		return Nobody, dErrors.New(dErrors.CodeValidation, "identity cannot contain leading or trailing whitespace")
	}
	if len(s) > 128 {
		return Nobody, dErrors.New(dErrors.CodeValidation, "identity must be 128 bytes or less")
	}
	return Identity(s), nil
}

// IsZero reports whether the identity is the "no owner" sentinel.
func (i Identity) IsZero() bool {
	return i == Nobody
}

func (i Identity) String() string {
	return string(i)
}
