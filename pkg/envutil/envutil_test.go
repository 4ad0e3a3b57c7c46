//go:build !integration

package envutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupInt(t *testing.T) {
	const envVar = "SHADERBUILD_TEST_INT"

	tests := []struct {
		name    string
		value   string
		want    int
		wantOK  bool
		wantErr bool
	}{
		{name: "blank", value: ""},
		{name: "whitespace only", value: "   "},
		{name: "valid value", value: "8", want: 8, wantOK: true},
		{name: "surrounding spaces", value: " 12 ", want: 12, wantOK: true},
		{name: "lower bound", value: "1", want: 1, wantOK: true},
		{name: "upper bound", value: "16", want: 16, wantOK: true},
		{name: "not a number", value: "many", wantErr: true},
		{name: "below minimum", value: "0", wantErr: true},
		{name: "above maximum", value: "17", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(envVar, tt.value)
			got, ok, err := LookupInt(envVar, 1, 16)
			if tt.wantErr {
				var rangeErr *RangeError
				require.True(t, errors.As(err, &rangeErr), "expected a RangeError, got %v", err)
				assert.Equal(t, envVar, rangeErr.Name)
				assert.Contains(t, err.Error(), "between 1 and 16")
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookupIntUnset(t *testing.T) {
	_, ok, err := LookupInt("SHADERBUILD_TEST_INT_NEVER_SET", 1, 16)
	require.NoError(t, err)
	assert.False(t, ok)
}
