package orchestrator

import "github.com/fyrsmithlabs/vetgate/internal/memory"

// Prioritize reorders candidates so agents that failed in the previous run
// come first, each sublist keeping its relative order. It returns the new
// order and the promoted names. A nil record (first run) leaves the order
// unchanged.
//
// This only changes feedback latency: regressions surface first in logs.
// Every agent still runs, so aggregation is unaffected.
func Prioritize(rec *memory.Record, candidates []string) (ordered, promoted []string) {
	if rec == nil || len(rec.FailedAgents) == 0 {
		return candidates, nil
	}

	inCandidates := make(map[string]struct{}, len(candidates))
	for _, name := range candidates {
		inCandidates[name] = struct{}{}
	}

	promotedSet := make(map[string]struct{}, len(rec.FailedAgents))
	for _, name := range rec.FailedAgents {
		if _, ok := inCandidates[name]; !ok {
			continue // stale history from a wider run
		}
		if _, dup := promotedSet[name]; dup {
			continue
		}
		promotedSet[name] = struct{}{}
		promoted = append(promoted, name)
	}

	if len(promoted) == 0 {
		return candidates, nil
	}

	ordered = make([]string, 0, len(candidates))
	ordered = append(ordered, promoted...)
	for _, name := range candidates {
		if _, ok := promotedSet[name]; !ok {
			ordered = append(ordered, name)
		}
	}
	return ordered, promoted
}
