// Package agent defines the validation agent contract and the registry of
// named agents the orchestrator schedules.
//
// An agent is an independent check with a pass/fail outcome and free-text
// detail. Expected check failures are data (Result.Passed=false), never
// errors; a non-nil error from Check is an unexpected condition and aborts
// the run.
package agent
