package cli

import "github.com/google/jsonschema-go/jsonschema"

// GenerateOutputSchema infers a JSON schema for T. Property descriptions come
// from the jsonschema struct tag.
func GenerateOutputSchema[T any]() (*jsonschema.Schema, error) {
	return jsonschema.For[T](nil)
}
