// Package target defines the endpoints kept warm by the scheduler.
// A PingTarget is built once at startup from configuration and never
// changes afterwards.
package target
