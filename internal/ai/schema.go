package ai

import (
	"github.com/sashabaranov/go-openai/jsonschema"
	"google.golang.org/genai"

	"easyapp_server/internal/types"
)

// SchemaName is the name the response schema is registered under with providers that ask for one.
const SchemaName = "project_files"

// FieldSchema describes one property of the response object.
type FieldSchema struct {
	Key         string
	Description string
}

// Schema is the provider independent response contract: an object whose properties are all
// strings and all required.
type Schema struct {
	Fields []FieldSchema
}

// Keys returns the property names in declaration order.
func (s Schema) Keys() []string {
	keys := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		keys[i] = f.Key
	}
	return keys
}

var fieldDescriptions = map[string]string{
	types.PathGoogleServices: "Placeholder Firebase google-services.json content.",
	types.PathAppIcon:        "Android VectorDrawable XML for the app icon.",
	types.PathItem1Icon:      "Android VectorDrawable XML for the first feature item.",
	types.PathItem2Icon:      "Android VectorDrawable XML for the second feature item.",
	types.PathSettings:       "Android VectorDrawable XML for the settings icon.",
	types.PathAppTree:        "The app.easy description serialized as a JSON string.",
}

// ResponseSchema returns the fixed six-field schema. It never depends on the request.
func ResponseSchema() Schema {
	fields := make([]FieldSchema, 0, len(types.ProjectFilePaths))
	for _, path := range types.ProjectFilePaths {
		fields = append(fields, FieldSchema{Key: path, Description: fieldDescriptions[path]})
	}
	return Schema{Fields: fields}
}

// GenAISchema renders the schema for the Gemini API.
func (s Schema) GenAISchema() *genai.Schema {
	props := make(map[string]*genai.Schema, len(s.Fields))
	for _, f := range s.Fields {
		props[f.Key] = &genai.Schema{Type: genai.TypeString, Description: f.Description}
	}
	return &genai.Schema{
		Type:             genai.TypeObject,
		Properties:       props,
		Required:         s.Keys(),
		PropertyOrdering: s.Keys(),
	}
}

// JSONSchema renders the schema for OpenAI structured outputs.
func (s Schema) JSONSchema() jsonschema.Definition {
	props := make(map[string]jsonschema.Definition, len(s.Fields))
	for _, f := range s.Fields {
		props[f.Key] = jsonschema.Definition{Type: jsonschema.String, Description: f.Description}
	}
	return jsonschema.Definition{
		Type:                 jsonschema.Object,
		Properties:           props,
		Required:             s.Keys(),
		AdditionalProperties: false,
	}
}
