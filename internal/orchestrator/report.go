package orchestrator

import (
	"fmt"
	"io"
	"time"
)

// Render writes the human-readable run summary CI consumers scrape from the
// build log: per-module best answers and agent outcomes, then an aggregate
// banner.
func (r *Report) Render(w io.Writer, universe []string) {
	fmt.Fprintf(w, "vetgate run %s\n", r.RunID)

	if r.Global != nil {
		fmt.Fprintf(w, "global check %s: %s (%s)\n",
			r.Global.Agent, passFail(r.Global.Result.Passed), r.Global.Result.Details)
	}

	for _, mr := range r.Modules {
		fmt.Fprintf(w, "\nmodule %s (%s)\n", mr.Module, roundDuration(mr.Duration))
		fmt.Fprintf(w, "  best answer [%s]: %s\n", mr.BestAgent, mr.BestAnswer)
		for _, name := range mr.Order {
			res := mr.AgentResults[name]
			fmt.Fprintf(w, "  %-12s %s\n", name, passFail(res.Passed))
		}
		if len(mr.Failed) > 0 {
			fmt.Fprintf(w, "  escalated for review: %v\n", mr.Failed)
		}
	}

	fmt.Fprintf(w, "\n")
	if r.Passed(universe) {
		fmt.Fprintf(w, "RESULT: PASS - all %d module(s) passed all %d agent(s) in %s\n",
			len(r.Modules), len(universe), roundDuration(r.Duration))
	} else {
		fmt.Fprintf(w, "RESULT: FAIL - at least one module is missing a passing result (ran %d module(s) in %s)\n",
			len(r.Modules), roundDuration(r.Duration))
	}
}

func passFail(ok bool) string {
	if ok {
		return "PASS"
	}
	return "FAIL"
}

// roundDuration keeps short test runs readable without truncating long ones
// to zero.
func roundDuration(d time.Duration) time.Duration {
	switch {
	case d < time.Millisecond:
		return d.Round(time.Microsecond)
	case d < time.Second:
		return d.Round(time.Millisecond)
	default:
		return d.Round(10 * time.Millisecond)
	}
}
