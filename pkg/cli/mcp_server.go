package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"github.com/stardust-engine/shaderbuild/pkg/console"
	"github.com/stardust-engine/shaderbuild/pkg/constants"
	"github.com/stardust-engine/shaderbuild/pkg/logger"
	"github.com/stardust-engine/shaderbuild/pkg/shader"
)

var mcpLog = logger.New("cli:mcp_server")

// CompileToolInput is the argument of the compile tool.
type CompileToolInput struct {
	DryRun  bool `json:"dry_run,omitempty" jsonschema:"Plan the compiler invocations without running them"`
	Workers int  `json:"workers,omitempty" jsonschema:"Number of shaders compiled in parallel; 0 uses the configured value"`
}

// ListToolInput is the argument of the list tool.
type ListToolInput struct {
	Pattern string `json:"pattern,omitempty" jsonschema:"Case-insensitive substring the shader file name must contain"`
}

// ListToolOutput is the result of the list tool.
type ListToolOutput struct {
	Shaders []ShaderListItem `json:"shaders" jsonschema:"Shaders found in the source directories"`
}

// NewMCPServerCommand creates the mcp-server command
func NewMCPServerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp-server",
		Short: "Run an MCP server exposing the compile and list tools",
		Long: `Run a Model Context Protocol server over stdio.

The server exposes two tools:
  compile   Build every shader and return the build report
  list      Return the shaders found in the source directories

Compiler output is not streamed; stdout carries only protocol messages.

Example:
  ` + constants.CLIName + ` mcp-server --config shaderbuild.yml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			return runMCPServer(cmd.Context(), configPath, cmd.Flags().Changed("config"))
		},
	}
	return cmd
}

func runMCPServer(ctx context.Context, configPath string, explicit bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	fmt.Fprintln(os.Stderr, console.FormatInfoMessage("Starting MCP server on stdio"))
	server := createMCPServer(configPath, explicit)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// createMCPServer builds the server and registers its tools. The
// configuration is read on every call so edits take effect without a restart.
func createMCPServer(configPath string, explicit bool) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    constants.CLIName,
		Version: GetVersion(),
	}, nil)

	// Arguments may be absent; both fields default to their zero values.
	mcp.AddTool(server, &mcp.Tool{
		Name:        "compile",
		Description: "Compile every shader in the configured source directories to SPIR-V and return the build report. Failing shaders are listed in the report rather than reported as a tool error.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in CompileToolInput) (*mcp.CallToolResult, shader.BuildReport, error) {
		mcpLog.Printf("compile tool called: dry_run=%v, workers=%d", in.DryRun, in.Workers)
		_, opts, err := loadBuildOptions(CompileConfig{
			ConfigPath:     configPath,
			ConfigExplicit: explicit,
			Workers:        in.Workers,
			Retries:        -1,
			DryRun:         in.DryRun,
		})
		if err != nil {
			return nil, shader.BuildReport{}, err
		}
		summary, err := shader.Run(ctx, opts, shader.DiscardLines)
		if err != nil {
			return nil, shader.BuildReport{}, err
		}
		return nil, summary.Report(), nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list",
		Description: "List the shaders found in the configured source directories with their stage, language, artifact path and artifact state.",
	}, func(_ context.Context, _ *mcp.CallToolRequest, in ListToolInput) (*mcp.CallToolResult, ListToolOutput, error) {
		mcpLog.Printf("list tool called: pattern=%s", in.Pattern)
		_, opts, err := loadBuildOptions(CompileConfig{
			ConfigPath:     configPath,
			ConfigExplicit: explicit,
			Retries:        -1,
		})
		if err != nil {
			return nil, ListToolOutput{}, err
		}
		items, err := listShaders(opts, in.Pattern)
		if err != nil {
			return nil, ListToolOutput{}, err
		}
		return nil, ListToolOutput{Shaders: items}, nil
	})

	return server
}
