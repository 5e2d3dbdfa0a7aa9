// Package observability turns collection lifecycle events into Prometheus
// metrics and structured log records.
//
// Both are delivered as domain.LifecycleHooks; use Merge to install several
// at once.
package observability
