// Package domain holds the value types exchanged by the kv-gateway handlers.
package domain

// KeyValuePair is a candidate or accepted entry.
type KeyValuePair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Reason identifies why a pair was rejected.
type Reason string

// Rejection reasons.
const (
	ReasonInvalidKey   Reason = "invalid_key"
	ReasonInvalidValue Reason = "invalid_value"
)

// ValidationOutcome is either Accepted or Rejected.
type ValidationOutcome interface {
	isValidationOutcome()
}

// Accepted carries the pair exactly as it was submitted.
type Accepted struct {
	Pair KeyValuePair
}

// Rejected carries the first rule the pair violated.
type Rejected struct {
	Reason Reason
}

func (Accepted) isValidationOutcome() {}
func (Rejected) isValidationOutcome() {}
