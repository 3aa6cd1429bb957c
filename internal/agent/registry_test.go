package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func named(name string) Agent {
	return Func{
		AgentName: name,
		Fn: func(context.Context, string) (Result, error) {
			return Result{Passed: true}, nil
		},
	}
}

func TestNewRegistry_PreservesOrder(t *testing.T) {
	reg, err := NewRegistry(named("typecheck"), named("lint"), named("unittest"))
	require.NoError(t, err)
	assert.Equal(t, []string{"typecheck", "lint", "unittest"}, reg.Names())
}

func TestNewRegistry_Rejections(t *testing.T) {
	_, err := NewRegistry(named("lint"), named("lint"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate agent name "lint"`)

	_, err = NewRegistry(named(""))
	require.Error(t, err)

	_, err = NewRegistry(nil)
	require.Error(t, err)
}

func TestRegistry_Lookup(t *testing.T) {
	reg, err := NewRegistry(named("lint"))
	require.NoError(t, err)

	a, err := reg.Lookup("lint")
	require.NoError(t, err)
	assert.Equal(t, "lint", a.Name())

	_, err = reg.Lookup("fuzzer")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown agent "fuzzer"`)

	assert.True(t, reg.Has("lint"))
	assert.False(t, reg.Has("fuzzer"))
}

func TestRegistry_NamesReturnsCopy(t *testing.T) {
	reg, err := NewRegistry(named("lint"), named("unittest"))
	require.NoError(t, err)

	names := reg.Names()
	names[0] = "mutated"
	assert.Equal(t, []string{"lint", "unittest"}, reg.Names())
}
