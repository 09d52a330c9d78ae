package output

import "github.com/invopop/jsonschema"

// Schema describes the JSON document written by the json format.
func Schema() *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.DoNotReference = true

	return reflector.Reflect(&Result{})
}
