package stdmsg

import (
	"github.com/xeipuuv/gojsonschema"
)

const envelopeSchemaJSON = `{
	"type": "object",
	"required": ["address", "chainId", "domain", "message", "nonce", "timestamp", "version"],
	"properties": {
		"address":   { "type": "string" },
		"chainId":   { "type": "string" },
		"domain":    { "type": "string" },
		"message":   { "type": "string" },
		"nonce":     { "type": "string" },
		"timestamp": { "type": "integer" },
		"version":   { "type": "string" }
	}
}`

var envelopeSchema = mustCompileSchema(envelopeSchemaJSON)

func mustCompileSchema(schema string) *gojsonschema.Schema {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(err)
	}
	return compiled
}

// IsWellFormed reports whether serialized parses as an envelope with all
// seven fields present and of the right JSON type. Field values are not
// inspected.
func IsWellFormed(serialized string) bool {
	result, err := envelopeSchema.Validate(gojsonschema.NewStringLoader(serialized))
	if err != nil {
		return false
	}

	return result.Valid()
}
