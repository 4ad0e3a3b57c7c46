package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/stardust-engine/shaderbuild/pkg/logger"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var schemaLog = logger.New("config:schema")

//go:embed schemas/config.json
var configSchema []byte

const configSchemaURL = "shaderbuild.json"

var messagePrinter = message.NewPrinter(language.English)

var (
	compiledSchema     *jsonschema.Schema
	compiledSchemaErr  error
	compiledSchemaOnce sync.Once
)

// Schema returns the raw JSON schema of shaderbuild.yml.
func Schema() []byte {
	return configSchema
}

func getSchema() (*jsonschema.Schema, error) {
	compiledSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(configSchema))
		if err != nil {
			compiledSchemaErr = fmt.Errorf("failed to parse embedded schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(configSchemaURL, doc); err != nil {
			compiledSchemaErr = fmt.Errorf("failed to add embedded schema: %w", err)
			return
		}
		compiledSchema, compiledSchemaErr = compiler.Compile(configSchemaURL)
	})
	return compiledSchema, compiledSchemaErr
}

// Issue is one schema violation.
type Issue struct {
	// Path is the JSON pointer of the offending value, e.g. "/sources/1".
	Path    string
	Message string
	// Line is the 1-based line in the YAML source, 0 if unknown.
	Line int
}

func (i Issue) String() string {
	loc := i.Path
	if loc == "" {
		loc = "/"
	}
	if i.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", i.Line, loc, i.Message)
	}
	return fmt.Sprintf("%s: %s", loc, i.Message)
}

// SchemaError lists every violation found in a configuration file.
type SchemaError struct {
	Issues []Issue
}

func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return "invalid configuration:\n  " + strings.Join(parts, "\n  ")
}

// validateSchema converts YAML content to JSON and validates it.
func validateSchema(content []byte) error {
	schema, err := getSchema()
	if err != nil {
		return err
	}

	if len(bytes.TrimSpace(content)) == 0 {
		return nil
	}
	jsonBytes, err := yaml.YAMLToJSON(content)
	if err != nil {
		return errors.New(yaml.FormatError(err, false, true))
	}

	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonBytes))
	if err != nil {
		return fmt.Errorf("failed to decode configuration: %w", err)
	}
	if instance == nil {
		// A file with only comments.
		return nil
	}

	err = schema.Validate(instance)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return err
	}

	issues := collectIssues(verr, string(content))
	schemaLog.Printf("Configuration has %d schema violations", len(issues))
	return &SchemaError{Issues: issues}
}

// collectIssues flattens a validation error tree into its leaf causes.
func collectIssues(verr *jsonschema.ValidationError, source string) []Issue {
	var leaves []*jsonschema.ValidationError
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			leaves = append(leaves, e)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(verr)

	seen := make(map[string]bool)
	issues := make([]Issue, 0, len(leaves))
	for _, leaf := range leaves {
		path := instancePath(leaf.InstanceLocation)
		msg := leafMessage(leaf)
		key := path + "\x00" + msg
		if seen[key] {
			continue
		}
		seen[key] = true
		issues = append(issues, Issue{
			Path:    path,
			Message: msg,
			Line:    locateLine(source, path, msg),
		})
	}
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Line < issues[j].Line })
	return issues
}

// leafMessage renders only the error kind, without the location prefix the
// library adds in Error().
func leafMessage(e *jsonschema.ValidationError) string {
	return e.ErrorKind.LocalizedString(messagePrinter)
}

func instancePath(location []string) string {
	if len(location) == 0 {
		return ""
	}
	return "/" + strings.Join(location, "/")
}

// MarshalSchemaIndent returns the schema re-indented for display.
func MarshalSchemaIndent() ([]byte, error) {
	var doc any
	if err := json.Unmarshal(configSchema, &doc); err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}
