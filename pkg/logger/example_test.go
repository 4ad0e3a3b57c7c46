//go:build !integration

package logger_test

import (
	"fmt"
	"os"

	"github.com/stardust-engine/shaderbuild/pkg/logger"
)

// Examples have no *testing.T, so DEBUG is set with os.Setenv.

func ExampleNew() {
	os.Setenv("DEBUG", "shader:*")
	defer os.Unsetenv("DEBUG")

	scan := logger.New("shader:scan")
	watch := logger.New("cli:compile_watch")
	fmt.Println(scan.Namespace(), scan.Enabled())
	fmt.Println(watch.Namespace(), watch.Enabled())

	// Output:
	// shader:scan true
	// cli:compile_watch false
}

func ExampleNew_exclusion() {
	// Everything under shader: except the per-process executor.
	os.Setenv("DEBUG", "shader:*,-shader:execute")
	defer os.Unsetenv("DEBUG")

	for _, ns := range []string{"shader:run", "shader:execute", "config:config"} {
		fmt.Printf("%-15s %v\n", ns, logger.New(ns).Enabled())
	}

	// Output:
	// shader:run      true
	// shader:execute  false
	// config:config   false
}

func ExampleLogger_Printf() {
	os.Setenv("DEBUG", "*")
	defer os.Unsetenv("DEBUG")

	// Written to stderr as "shader:run Compiling 3 shaders +0ns".
	logger.New("shader:run").Printf("Compiling %d shaders", 3)
}
