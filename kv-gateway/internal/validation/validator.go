// Package validation decides whether a key/value pair may be accepted.
package validation

import (
	"regexp"

	"github.com/jonesrussell/north-cloud/kv-gateway/internal/domain"
)

var (
	// at least three ASCII letters, digits, colons, dashes or underscores
	keyPattern = regexp.MustCompile(`^[A-Za-z0-9:_-]{3,}$`)
	// non-empty, no line breaks
	valuePattern = regexp.MustCompile(`^.+$`)
)

// Validator checks pairs against the key and value rules. The zero value is
// ready to use and safe for concurrent use.
type Validator struct{}

// New creates a Validator.
func New() *Validator {
	return &Validator{}
}

// Validate returns Accepted with pair unchanged, or Rejected with the reason
// of the first failing rule. The key is checked before the value.
func (v *Validator) Validate(pair domain.KeyValuePair) domain.ValidationOutcome {
	if !keyPattern.MatchString(pair.Key) {
		return domain.Rejected{Reason: domain.ReasonInvalidKey}
	}
	if !valuePattern.MatchString(pair.Value) {
		return domain.Rejected{Reason: domain.ReasonInvalidValue}
	}
	return domain.Accepted{Pair: pair}
}
