package types

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/xeipuuv/gojsonschema"
)

const (
	hexAddressPattern   = `^0x[0-9a-fA-F]{40}$`
	hexHashPattern      = `^0x[0-9a-fA-F]{64}$`
	hexSignaturePattern = `^0x([0-9a-fA-F]{2})+$`
)

// VerifyRequestSchema is the JSON schema for VerifyRequest bodies
var VerifyRequestSchema = []byte(`{
	"type": "object",
	"properties": {
		"identity": {"type": "string", "minLength": 1},
		"address": {"type": "string", "pattern": "` + hexAddressPattern + `"},
		"hash": {"type": "string", "pattern": "` + hexHashPattern + `"},
		"message": {"type": "string"},
		"typedData": {"type": "object"},
		"signature": {"type": "string", "pattern": "` + hexSignaturePattern + `"}
	},
	"required": ["signature"],
	"allOf": [
		{"oneOf": [{"required": ["identity"]}, {"required": ["address"]}]},
		{"oneOf": [{"required": ["hash"]}, {"required": ["message"]}, {"required": ["typedData"]}]}
	],
	"additionalProperties": false
}`)

// FormatRequestSchema is the JSON schema for FormatRequest bodies
var FormatRequestSchema = []byte(`{
	"type": "object",
	"properties": {
		"identity": {"type": "string", "minLength": 1},
		"signature": {"type": "string", "pattern": "` + hexSignaturePattern + `"}
	},
	"required": ["identity", "signature"],
	"additionalProperties": false
}`)

var (
	verifyRequestSchema = mustLoadSchema(VerifyRequestSchema)
	formatRequestSchema = mustLoadSchema(FormatRequestSchema)
)

func mustLoadSchema(schema []byte) *gojsonschema.Schema {
	loaded, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schema))
	if err != nil {
		panic(fmt.Errorf("invalid request schema: %w", err))
	}
	return loaded
}

// SchemaError lists every violation found in a request body
type SchemaError struct {
	Errors []string
}

func (e *SchemaError) Error() string {
	return "invalid request: " + strings.Join(e.Errors, "; ")
}

// ValidateVerifyRequest checks a raw VerifyRequest body against VerifyRequestSchema
func ValidateVerifyRequest(body []byte) error {
	return validate(verifyRequestSchema, body)
}

// ValidateFormatRequest checks a raw FormatRequest body against FormatRequestSchema
func ValidateFormatRequest(body []byte) error {
	return validate(formatRequestSchema, body)
}

func validate(schema *gojsonschema.Schema, body []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &SchemaError{Errors: []string{fmt.Sprintf("body is not valid JSON: %v", err)}}
	}
	if result.Valid() {
		return nil
	}

	return &SchemaError{
		Errors: lo.Map(result.Errors(), func(desc gojsonschema.ResultError, _ int) string {
			return fmt.Sprintf("%s: %s", desc.Context().String(), desc.Description())
		}),
	}
}
