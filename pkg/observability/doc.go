/*
Package observability provides tools for monitoring the Abacus engine.

It turns engine lifecycle hooks into Prometheus metrics and structured log
lines, and offers helpers to compose several hook sets into one.
*/
package observability
