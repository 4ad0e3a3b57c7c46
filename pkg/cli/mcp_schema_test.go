//go:build !integration

package cli

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stardust-engine/shaderbuild/pkg/shader"
)

func TestGenerateOutputSchema(t *testing.T) {
	t.Run("generates schema for simple struct", func(t *testing.T) {
		type SimpleOutput struct {
			Name  string `json:"name" jsonschema:"Name of the item"`
			Count int    `json:"count" jsonschema:"Number of items"`
		}

		schema, err := GenerateOutputSchema[SimpleOutput]()
		if err != nil {
			t.Fatalf("GenerateOutputSchema failed: %v", err)
		}
		if schema.Type != "object" {
			t.Errorf("Expected schema type to be 'object', got '%s'", schema.Type)
		}
		for _, prop := range []string{"name", "count"} {
			if _, ok := schema.Properties[prop]; !ok {
				t.Errorf("Expected '%s' property to be defined", prop)
			}
		}
	})

	t.Run("generates schema for slice field", func(t *testing.T) {
		schema, err := GenerateOutputSchema[ListToolOutput]()
		if err != nil {
			t.Fatalf("GenerateOutputSchema failed: %v", err)
		}

		shadersProp, ok := schema.Properties["shaders"]
		if !ok {
			t.Fatal("Expected 'shaders' property to be defined")
		}
		// Nullable slices use Types ["null", "array"] instead of Type "array"
		if shadersProp.Type != "array" && !slices.Contains(shadersProp.Types, "array") {
			t.Errorf("Expected shaders to be an array type, got Type='%s', Types=%v", shadersProp.Type, shadersProp.Types)
		}
		if shadersProp.Items == nil {
			t.Fatal("Expected shaders to have an items schema")
		}
		for _, prop := range []string{"shader", "stage", "language", "output", "compiled"} {
			if _, ok := shadersProp.Items.Properties[prop]; !ok {
				t.Errorf("Expected item property '%s' to be defined", prop)
			}
		}
	})

	t.Run("generates schema for BuildReport", func(t *testing.T) {
		schema, err := GenerateOutputSchema[shader.BuildReport]()
		if err != nil {
			t.Fatalf("GenerateOutputSchema failed for BuildReport: %v", err)
		}
		expectedProps := []string{"total", "succeeded", "failed", "artifacts", "copied", "duration_ms"}
		for _, prop := range expectedProps {
			if _, ok := schema.Properties[prop]; !ok {
				t.Errorf("Expected '%s' property to be defined", prop)
			}
		}
		if slices.Contains(schema.Required, "copy_errors") {
			t.Error("copy_errors is omitted when empty and must not be required")
		}
	})
}

func TestCompileToolInputSchema(t *testing.T) {
	schema, err := GenerateOutputSchema[CompileToolInput]()
	if err != nil {
		t.Fatalf("GenerateOutputSchema failed: %v", err)
	}

	if len(schema.Required) != 0 {
		t.Errorf("compile takes no required arguments, got %v", schema.Required)
	}
	for _, name := range []string{"dry_run", "workers"} {
		prop, ok := schema.Properties[name]
		if !ok {
			t.Fatalf("Expected property %q in schema", name)
		}
		if prop.Default != nil {
			t.Errorf("Property %q should not declare a default, got %s", name, prop.Default)
		}
	}
}

func TestGeneratedSchemasValidateRealOutput(t *testing.T) {
	validate := func(t *testing.T, schema *jsonschema.Schema, data any) {
		t.Helper()
		resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
		if err != nil {
			t.Fatalf("Schema.Resolve failed: %v", err)
		}
		// Marshal to JSON and then to map[string]any for validation
		jsonBytes, err := json.Marshal(data)
		if err != nil {
			t.Fatalf("json.Marshal failed: %v", err)
		}
		var jsonValue map[string]any
		if err := json.Unmarshal(jsonBytes, &jsonValue); err != nil {
			t.Fatalf("json.Unmarshal failed: %v", err)
		}
		if err := resolved.Validate(jsonValue); err != nil {
			t.Errorf("Schema validation failed for real data: %v", err)
		}
	}

	t.Run("validates BuildReport schema against a summary report", func(t *testing.T) {
		schema, err := GenerateOutputSchema[shader.BuildReport]()
		if err != nil {
			t.Fatalf("GenerateOutputSchema failed: %v", err)
		}
		sky := shader.ShaderFile{Dir: "Resources/Shaders", Name: "sky.frag", Stage: shader.StageFragment}
		summary := &shader.BuildSummary{
			Total:     2,
			Succeeded: 1,
			Failed: []shader.Failure{{
				Shader: sky,
				Err:    &shader.CompilationError{Shader: sky, ExitCode: 2},
			}},
			Artifacts: []string{"cmake-build-debug/sky.vert.spv"},
		}
		validate(t, schema, summary.Report())
	})

	t.Run("validates ListToolOutput schema against an empty list", func(t *testing.T) {
		schema, err := GenerateOutputSchema[ListToolOutput]()
		if err != nil {
			t.Fatalf("GenerateOutputSchema failed: %v", err)
		}
		validate(t, schema, ListToolOutput{Shaders: []ShaderListItem{}})
	})
}
