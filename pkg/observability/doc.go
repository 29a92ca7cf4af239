/*
Package observability turns flow lifecycle events into metrics and logs.

Both Metrics.Hooks and AuditHooks return domain.LifecycleHooks; combine them
with Merge and hand the result to the engine and dispatcher.
*/
package observability
