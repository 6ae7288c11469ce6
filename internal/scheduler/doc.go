// Package scheduler runs the keep-alive rounds.
//
// After an initial grace period the RoundScheduler pings every target
// concurrently, waits for all of them to finish, then sleeps for the round
// interval before starting again. Rounds never overlap. One shared context
// cancels the grace period, the inter-round delay and every in-flight ping.
//
// Every target is pinged in every round. The per-target interval is carried
// for reference only and does not change the cadence.
package scheduler
