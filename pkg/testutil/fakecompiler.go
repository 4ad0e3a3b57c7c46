package testutil

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// FakeCompilerEnv turns a test binary into a stand-in shader compiler. A
// package opts in by calling RunFakeCompilerIfRequested from its TestMain;
// jobs then point their compiler at FakeCompilerPath and run with this
// variable set to "1".
const FakeCompilerEnv = "SHADERBUILD_FAKE_COMPILER"

// FakeModuleHeader is the SPIR-V header the fake compiler writes: magic,
// version 1.6, generator, bound, schema.
var FakeModuleHeader = []uint32{0x07230203, 0x00010600, 0, 1, 0}

// RunFakeCompilerIfRequested exits the process after acting as the compiler
// when FakeCompilerEnv is set. Call it first thing in TestMain.
func RunFakeCompilerIfRequested() {
	if os.Getenv(FakeCompilerEnv) == "1" {
		os.Exit(fakeCompiler(os.Args[1:]))
	}
}

// FakeCompilerPath returns the running test binary.
func FakeCompilerPath(t testing.TB) string {
	t.Helper()
	exe, err := os.Executable()
	if err != nil {
		t.Fatalf("failed to locate test binary: %v", err)
	}
	return exe
}

// stockSuffixes are the extensions the real compilers infer a stage from.
var stockSuffixes = map[string]bool{
	"vert": true, "frag": true, "geom": true, "comp": true,
	"rgen": true, "rchit": true, "rmiss": true,
}

// fakeCompiler understands the glslangValidator and glslc argument forms and
// rejects the same misuse the real ones do: an input whose suffix names no
// stage when no stage flag is given, and a language flag after the input.
// Source directives:
//
//	#error   print a diagnostic and exit 2
//	#sleep   hang until killed
//	#noisy   print three lines on stdout and one on stderr
func fakeCompiler(args []string) int {
	var output, input string
	stageGiven := false
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "-o", "--target-env", "-e", "-x", "-S":
			switch arg {
			case "-o":
				if i+1 < len(args) {
					output = args[i+1]
				}
			case "-S":
				stageGiven = true
			case "-x":
				if input != "" {
					fmt.Fprintf(os.Stderr, "ERROR: -x must precede input %s\n", input)
					return 1
				}
			}
			i++
		default:
			if strings.HasPrefix(arg, "-fshader-stage=") {
				stageGiven = true
			}
			if !strings.HasPrefix(arg, "-") && input == "" {
				input = arg
			}
		}
	}

	source, err := os.ReadFile(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: cannot open file %s\n", input)
		return 1
	}
	if ext := strings.TrimPrefix(filepath.Ext(input), "."); !stageGiven && !stockSuffixes[ext] {
		fmt.Fprintf(os.Stderr, "ERROR: %s: cannot infer shader stage from .%s\n", input, ext)
		return 1
	}
	text := string(source)

	switch {
	case strings.Contains(text, "#error"):
		fmt.Printf("ERROR: %s:1: '#error' : compilation terminated\n", input)
		fmt.Fprintln(os.Stderr, "1 compilation errors.  No code generated.")
		return 2
	case strings.Contains(text, "#sleep"):
		time.Sleep(30 * time.Second)
		return 0
	case strings.Contains(text, "#noisy"):
		fmt.Println("line one")
		fmt.Println("line two")
		fmt.Fprintln(os.Stderr, "warning: noisy shader")
		fmt.Print("line three")
	default:
		fmt.Println(input)
	}

	f, err := os.Create(output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: cannot write %s\n", output)
		return 1
	}
	defer f.Close()
	if err := binary.Write(f, binary.LittleEndian, FakeModuleHeader); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: cannot write %s: %v\n", output, err)
		return 1
	}
	return 0
}
