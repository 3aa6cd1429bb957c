package review

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewNATSEscalator_Validation(t *testing.T) {
	_, err := NewNATSEscalator("", "vetgate.review", nil)
	require.Error(t, err)

	_, err = NewNATSEscalator("nats://localhost:4222", "", nil)
	require.Error(t, err)
}
