//go:build !integration

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stardust-engine/shaderbuild/pkg/config"
	"github.com/stardust-engine/shaderbuild/pkg/shader"
	"github.com/stretchr/testify/assert"
)

func TestFormatCommandError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantHint    string
		wantNoHints bool
	}{
		{
			name:     "missing source directory",
			err:      &shader.DiscoveryError{Dir: "Resources/Shaders", Err: fs.ErrNotExist},
			wantHint: "from the project root",
		},
		{
			name:     "unreadable source directory",
			err:      &shader.DiscoveryError{Dir: "Resources/Shaders", Err: fs.ErrPermission},
			wantHint: "Check the sources list",
		},
		{
			name:     "schema violation",
			err:      &shader.ConfigError{Message: "shaderbuild.yml", Err: &config.SchemaError{Issues: []config.Issue{{Path: "/bogus", Message: "not allowed"}}}},
			wantHint: "schema' to see every accepted key",
		},
		{
			name:     "artifact collision",
			err:      &shader.ConfigError{Message: "a.vert and a.VERT both compile to out/a.vert.spv", Err: shader.ErrArtifactCollision},
			wantHint: "need different file names",
		},
		{
			name:     "missing configuration file",
			err:      fmt.Errorf("failed to read configuration file x.yml: %w", fs.ErrNotExist),
			wantHint: "pass --config",
		},
		{
			name:        "build failure",
			err:         errors.New("1 of 3 shaders failed to compile"),
			wantNoHints: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := FormatCommandError(tt.err)
			assert.Contains(t, out, tt.err.Error())
			if tt.wantNoHints {
				assert.NotContains(t, out, "Suggestions:")
				return
			}
			assert.Contains(t, out, "Suggestions:")
			assert.Contains(t, out, tt.wantHint)
		})
	}
}
