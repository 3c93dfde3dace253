// Package health probes an external dependency with a single pooled round trip.
package health

// Status is the outcome of one probe. It is either Healthy or Unhealthy;
// callers switch on the concrete type.
type Status interface {
	isStatus()
}

// Healthy reports a dependency that answered with the expected token.
// Message is a fixed confirmation, never the raw reply.
type Healthy struct {
	Message string
}

// Unhealthy reports a failed probe. Cause is one of the Cause* codes.
type Unhealthy struct {
	Cause string
	// Err is the underlying error, if any. It is meant for logs, not clients.
	Err error
}

func (Healthy) isStatus()   {}
func (Unhealthy) isStatus() {}

// Failure causes reported by Unhealthy.
const (
	CauseAcquireFailed   = "acquire_failed"
	CauseTimeout         = "timeout"
	CauseCommandFailed   = "command_failed"
	CauseUnexpectedReply = "unexpected_reply"
)

// IsHealthy reports whether s is Healthy.
func IsHealthy(s Status) bool {
	_, ok := s.(Healthy)
	return ok
}
