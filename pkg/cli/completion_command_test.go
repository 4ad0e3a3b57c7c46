//go:build !integration

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoot() *cobra.Command {
	root := &cobra.Command{Use: "shaderbuild"}
	root.PersistentFlags().String("config", "shaderbuild.yml", "")
	root.PersistentFlags().Bool("verbose", false, "")
	root.AddCommand(NewCompletionCommand(), NewListCommand())
	return root
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			root := newTestRoot()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetArgs([]string{"completion", shell})
			require.NoError(t, root.Execute())
			assert.Contains(t, out.String(), "shaderbuild")
		})
	}

	t.Run("unsupported shell", func(t *testing.T) {
		root := newTestRoot()
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		root.SetArgs([]string{"completion", "tcsh"})
		assert.Error(t, root.Execute())
	})
}

func TestCompleteShaderNames(t *testing.T) {
	p := newTestProject(t, map[string]string{
		"sky.vert":   "void main() {}\n",
		"Sky.frag":   "void main() {}\n",
		"water.frag": "void main() {}\n",
	}, "")

	root := newTestRoot()
	list, _, err := root.Find([]string{"list"})
	require.NoError(t, err)
	require.NoError(t, root.PersistentFlags().Set("config", p.ConfigPath))

	completions, directive := CompleteShaderNames(list, nil, "sk")
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
	require.Len(t, completions, 2)
	for _, c := range completions {
		name, stage, ok := strings.Cut(c, "\t")
		require.True(t, ok, "completion %q should carry a description", c)
		assert.True(t, strings.HasPrefix(strings.ToLower(name), "sk"))
		assert.Contains(t, []string{"vertex", "fragment"}, stage)
	}

	none, _ := CompleteShaderNames(list, []string{"already"}, "")
	assert.Empty(t, none, "only one pattern argument is completed")
}
