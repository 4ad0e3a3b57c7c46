package cli

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stardust-engine/shaderbuild/pkg/config"
	"github.com/stardust-engine/shaderbuild/pkg/constants"
	"github.com/stardust-engine/shaderbuild/pkg/logger"
	"github.com/stardust-engine/shaderbuild/pkg/shader"
)

var completionLog = logger.New("cli:completion")

// NewCompletionCommand creates the completion command
func NewCompletionCommand() *cobra.Command {
	name := constants.CLIName
	cmd := &cobra.Command{
		Use:   "completion [shell]",
		Short: "Generate shell completion scripts for " + name + " commands",
		Long: `Generate shell completion scripts to enable tab completion for ` + name + ` commands.

Tab completion provides:
- Command name completion (compile, list, schema, etc.)
- Shader name completion for the list command
- Schema name completion for the schema command

Supported shells: bash, zsh, fish, powershell

Examples:
  # Generate completion script for bash
  ` + name + ` completion bash > ~/.bash_completion.d/` + name + `
  source ~/.bash_completion.d/` + name + `

  # Generate completion script for zsh
  ` + name + ` completion zsh > "${fpath[1]}/_` + name + `"
  compinit

  # Generate completion script for fish
  ` + name + ` completion fish > ~/.config/fish/completions/` + name + `.fish

  # Generate completion script for PowerShell
  ` + name + ` completion powershell | Out-String | Invoke-Expression`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := args[0]
			completionLog.Printf("Generating %s completion script", shell)

			out := cmd.OutOrStdout()
			switch shell {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletion(out)
			default:
				return fmt.Errorf("unsupported shell: %s", shell)
			}
		},
	}
	return cmd
}

// CompleteShaderNames completes shader file names from the configured
// source directories, annotated with their stage.
func CompleteShaderNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	// Flag also searches the persistent flags of parent commands, which are
	// not merged into cmd.Flags() during completion.
	configPath, explicit := "", false
	if flag := cmd.Flag("config"); flag != nil {
		configPath, explicit = flag.Value.String(), flag.Changed
	}
	fileCfg, err := config.Load(configPath, explicit)
	if err != nil {
		completionLog.Printf("Completion config error: %v", err)
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	opts, err := fileCfg.ShaderOptions(runtime.GOOS)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = shader.DefaultExtensions()
	}
	shaders, err := shader.Scan(opts.Sources, exts, opts.Scan)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var completions []string
	for _, sh := range shaders {
		if strings.HasPrefix(strings.ToLower(sh.Name), strings.ToLower(toComplete)) {
			completions = append(completions, sh.Name+"\t"+sh.Stage.String())
		}
	}
	completionLog.Printf("Completing %q: %d candidates", toComplete, len(completions))
	return completions, cobra.ShellCompDirectiveNoFileComp
}
