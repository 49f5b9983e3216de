package models

import "github.com/invopop/jsonschema"

// TurnResponseSchema reflects the JSON Schema of the oracle wire contract.
func TurnResponseSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
	schema := reflector.Reflect(new(wireTurnResponse))
	schema.Title = "Aeterna Turn Response"
	schema.Description = "Structured reply the Narrative Oracle returns for every turn."
	return schema
}
