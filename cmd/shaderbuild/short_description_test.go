//go:build !integration

package main

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestShortDescriptionConsistency verifies that command Short descriptions
// carry no trailing punctuation, like git, kubectl and gh.
func TestShortDescriptionConsistency(t *testing.T) {
	allCommands := append([]*cobra.Command{rootCmd}, rootCmd.Commands()...)

	for _, cmd := range allCommands {
		t.Run("command "+cmd.Name()+" has no trailing punctuation", func(t *testing.T) {
			short := cmd.Short
			if short == "" {
				t.Skip("Command has no Short description")
			}
			last := short[len(short)-1:]
			assert.NotContains(t, []string{".", "!", "?"}, last,
				"Command '%s' Short description should not end with punctuation", cmd.Name())
		})
	}
}

// TestLongDescriptionHasSentences logs commands whose Long description has
// no sentence punctuation.
func TestLongDescriptionHasSentences(t *testing.T) {
	for _, cmd := range append([]*cobra.Command{rootCmd}, rootCmd.Commands()...) {
		t.Run("command "+cmd.Name()+" Long description uses sentences", func(t *testing.T) {
			long := strings.TrimSpace(cmd.Long)
			if long == "" {
				t.Skip("Command has no Long description")
			}
			if !strings.Contains(long, ".") && !strings.Contains(long, ":") {
				t.Logf("Note: Command '%s' Long description may benefit from sentence punctuation", cmd.Name())
			}
		})
	}
}

func TestRootCommandWiring(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"compile", "list", "schema", "mcp-server", "completion", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}

	for _, flag := range []string{"out", "copy-to", "workers", "dry-run", "json", "watch"} {
		assert.NotNil(t, rootCmd.Flags().Lookup(flag), "root command should accept --%s", flag)
		assert.NotNil(t, compileCmd.Flags().Lookup(flag), "compile command should accept --%s", flag)
	}

	config := rootCmd.PersistentFlags().Lookup("config")
	require.NotNil(t, config)
	assert.Equal(t, "shaderbuild.yml", config.DefValue)
}
