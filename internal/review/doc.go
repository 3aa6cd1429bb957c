// Package review escalates modules with failing agents to a human-review
// channel. Escalation is fire-and-forget: the orchestrator logs escalation
// errors but they never affect a module's result or the run's exit code.
package review
