// Package memory persists per-module run summaries across orchestrator
// invocations. Records are keyed by (scope, module), written unconditionally
// after every module and silently overwritten on the next run; there is no
// expiry or deletion.
package memory
