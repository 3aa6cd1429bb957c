// Package orchestrator coordinates validation agents across modules.
//
// For each module, sequentially: load the previous run's memory record,
// reorder agents so previously-failed ones run first, run all agents
// concurrently to completion, pick a best answer, persist an updated record,
// and escalate failures for human review. After all modules, the report
// decides the process exit code.
//
// Agents within a module run in parallel; modules run strictly one after
// another, bounding concurrency at agents-per-module.
package orchestrator
