package pinger

import (
	"net/http"
	"time"
)

// Kind classifies the result of a ping.
type Kind int

const (
	Success Kind = iota
	FailureStatus
	Transport
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case FailureStatus:
		return "failure_status"
	case Transport:
		return "exception_or_timeout"
	default:
		return "unknown"
	}
}

// Outcome is the result of one ping.
type Outcome struct {
	Kind Kind

	// StatusCode is zero when Kind is Transport.
	StatusCode int

	// Err is set only when Kind is Transport.
	Err error

	Latency time.Duration
}

// Classify maps a received status code to Success or FailureStatus.
// Only 2xx counts as success. Redirects are followed by the client before
// classification, so a 3xx seen here could not be followed.
func Classify(statusCode int) Kind {
	if statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices {
		return Success
	}
	return FailureStatus
}
