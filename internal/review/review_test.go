package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSummary(t *testing.T) {
	got := summary("suppliers", []string{"lint: 3 issues", "unittest: 2 failed"})
	assert.Equal(t,
		"Validation failures in module \"suppliers\" (2 issue(s)):\n"+
			"- lint: 3 issues\n"+
			"- unittest: 2 failed\n",
		got)
}

func TestLogEscalator(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	esc := NewLogEscalator(zap.New(core))

	err := esc.Escalate(context.Background(), "customers", []string{"unittest: 2 failed"})
	require.NoError(t, err)

	entries := logs.FilterMessage("human review requested").All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, "customers", fields["module"])
	assert.Equal(t, int64(1), fields["issue_count"])
}

func TestNewLogEscalator_NilLogger(t *testing.T) {
	esc := NewLogEscalator(nil)
	require.NoError(t, esc.Escalate(context.Background(), "suppliers", nil))
}
