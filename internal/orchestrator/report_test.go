package orchestrator

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fyrsmithlabs/vetgate/internal/agent"
)

func TestReportRender_Pass(t *testing.T) {
	report := &Report{
		RunID:    "run-1",
		Duration: 1250 * time.Millisecond,
		Global: &GlobalResult{
			Agent:  "systems",
			Result: agent.Result{Passed: true, Details: "docker reachable"},
		},
		Modules: []ModuleResult{
			{
				Module:     "suppliers",
				Order:      []string{"lint", "unittest"},
				BestAgent:  "lint",
				BestAnswer: "clean",
				AgentResults: map[string]agent.Result{
					"lint":     {Passed: true, Details: "clean"},
					"unittest": {Passed: true, Details: "12 tests"},
				},
				Duration: 300 * time.Millisecond,
			},
		},
	}

	var buf strings.Builder
	report.Render(&buf, []string{"lint", "unittest"})
	out := buf.String()

	assert.Contains(t, out, "vetgate run run-1")
	assert.Contains(t, out, "global check systems: PASS (docker reachable)")
	assert.Contains(t, out, "module suppliers")
	assert.Contains(t, out, "best answer [lint]: clean")
	assert.Contains(t, out, "RESULT: PASS")
	assert.NotContains(t, out, "escalated for review")
}

func TestReportRender_Fail(t *testing.T) {
	report := &Report{
		RunID: "run-2",
		Modules: []ModuleResult{
			{
				Module:     "customers",
				Order:      []string{"unittest"},
				BestAgent:  "unittest",
				BestAnswer: "2 failed",
				Failed:     []string{"unittest"},
				AgentResults: map[string]agent.Result{
					"unittest": {Passed: false, Details: "2 failed"},
				},
			},
		},
	}

	var buf strings.Builder
	report.Render(&buf, []string{"unittest"})
	out := buf.String()

	assert.Contains(t, out, "RESULT: FAIL")
	assert.Contains(t, out, "escalated for review: [unittest]")
}

func TestReportPassed_UniverseRule(t *testing.T) {
	report := &Report{
		Modules: []ModuleResult{
			{
				Module: "suppliers",
				AgentResults: map[string]agent.Result{
					"lint": {Passed: true},
				},
			},
		},
	}

	assert.True(t, report.Passed([]string{"lint"}))
	// A result missing for any universe agent blocks success, even if every
	// result that exists passed.
	assert.False(t, report.Passed([]string{"lint", "unittest"}))
	assert.Equal(t, 1, report.ExitCode([]string{"lint", "unittest"}))
}

func TestReportPassed_NoModules(t *testing.T) {
	report := &Report{}
	assert.True(t, report.Passed([]string{"lint"}),
		"an empty module list has no failing module")
}
