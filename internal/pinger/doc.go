// Package pinger performs a single keep-alive request against a target.
//
// A ping is one HTTP GET bounded by a timeout. Its result is classified into
// an Outcome and reported as exactly one log record:
//
//   - Success: a 2xx response was received
//   - FailureStatus: any other response status was received
//   - Transport: no response (network error, DNS failure, timeout, cancellation)
//
// Ping never returns an error. Failures are values so that one target cannot
// affect any other target pinged in the same round.
package pinger
