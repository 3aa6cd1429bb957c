package orchestrator

import "github.com/fyrsmithlabs/vetgate/internal/agent"

// aggregate reduces a module's results to a single best answer plus the
// failure list.
//
// The first passing agent in prioritized order wins. If none passed, the
// agent with the longest details wins, earlier agents winning ties. The
// longest-details fallback is a documented heuristic carried over from the
// previous system, not a quality judgment. The failure list holds every
// failing agent in prioritized order regardless of which rule chose the best.
func aggregate(ordered []string, results map[string]agent.Result) (bestAgent, bestAnswer string, failed []string) {
	for _, name := range ordered {
		res, ok := results[name]
		if !ok {
			continue
		}
		if !res.Passed {
			failed = append(failed, name)
		}
		if bestAgent == "" && res.Passed {
			bestAgent = name
			bestAnswer = res.Details
		}
	}
	if bestAgent != "" {
		return bestAgent, bestAnswer, failed
	}

	longest := -1
	for _, name := range ordered {
		res, ok := results[name]
		if !ok {
			continue
		}
		if len(res.Details) > longest {
			longest = len(res.Details)
			bestAgent = name
			bestAnswer = res.Details
		}
	}
	return bestAgent, bestAnswer, failed
}
