package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStats(t *testing.T) {
	t.Run("Success_PrintsUninitializedSnapshot", func(t *testing.T) {
		var out bytes.Buffer
		err := RunStats(context.Background(), IOTuple{Writer: &out})
		require.NoError(t, err)

		var snapshot map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &snapshot))

		assert.Equal(t, "uninitialized", snapshot["state"])
		assert.Equal(t, float64(0), snapshot["totalKeys"])
		assert.Equal(t, float64(1000), snapshot["auditCapacity"])
	})
}
