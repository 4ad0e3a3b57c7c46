package cli

import (
	"errors"
	"io/fs"

	"github.com/stardust-engine/shaderbuild/pkg/config"
	"github.com/stardust-engine/shaderbuild/pkg/console"
	"github.com/stardust-engine/shaderbuild/pkg/constants"
	"github.com/stardust-engine/shaderbuild/pkg/shader"
)

// FormatCommandError renders an error returned by a command for the
// terminal, adding suggestions for the failures users can fix themselves.
func FormatCommandError(err error) string {
	var suggestions []string

	var discoveryErr *shader.DiscoveryError
	var schemaErr *config.SchemaError
	switch {
	case errors.As(err, &discoveryErr):
		if errors.Is(err, fs.ErrNotExist) {
			suggestions = append(suggestions, "Run "+constants.CLIName+" from the project root")
		}
		suggestions = append(suggestions, "Check the sources list in "+constants.DefaultConfigFile)
	case errors.As(err, &schemaErr):
		suggestions = []string{
			"Run '" + constants.CLIName + " schema' to see every accepted key",
		}
	case errors.Is(err, shader.ErrArtifactCollision):
		suggestions = []string{
			"Artifacts are named after the source file, so shaders in different source directories need different file names",
		}
	case errors.Is(err, fs.ErrNotExist):
		suggestions = []string{
			"Create " + constants.DefaultConfigFile + " or pass --config with an existing file",
		}
	}

	if len(suggestions) == 0 {
		return console.FormatErrorMessage(err.Error())
	}
	return console.FormatErrorWithSuggestions(err.Error(), suggestions)
}
