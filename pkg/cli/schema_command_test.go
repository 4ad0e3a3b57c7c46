//go:build !integration

package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSchema(t *testing.T) {
	tests := []struct {
		kind     string
		wantType string
		wantProp string
	}{
		{kind: "config", wantType: "object", wantProp: "sources"},
		{kind: "report", wantType: "object", wantProp: "artifacts"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, RunSchema(&buf, tt.kind))

			var schema map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &schema))
			assert.Equal(t, tt.wantType, schema["type"])
			props, ok := schema["properties"].(map[string]any)
			require.True(t, ok, "schema should have properties")
			assert.Contains(t, props, tt.wantProp)
		})
	}

	t.Run("list", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RunSchema(&buf, "list"))
		var schema map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &schema))
		items, ok := schema["items"].(map[string]any)
		require.True(t, ok, "list schema should describe its items")
		assert.Contains(t, items["properties"], "compiled")
	})

	t.Run("unknown", func(t *testing.T) {
		err := RunSchema(&bytes.Buffer{}, "workflow")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown schema")
	})
}
