// Package validation checks JSON request bodies against the embedded
// schemas before they are decoded into typed requests.
package validation

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	CodeMissingField = "MISSING_FIELD"
	CodeInvalid      = "VALIDATION_ERROR"
)

// Error is a client-facing validation failure
type Error struct {
	Code    string
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func missing(field string) *Error {
	return &Error{Code: CodeMissingField, Field: field, Message: fmt.Sprintf("Field %s is required", field)}
}

func invalid(field, msg string) *Error {
	return &Error{Code: CodeInvalid, Field: field, Message: msg}
}

type compiledSchema struct {
	required []string
	schema   *jsonschema.Schema
}

// Validator compiles schemas on first use and caches them
type Validator struct {
	mu       sync.RWMutex
	compiled map[string]*compiledSchema
}

func New() *Validator {
	return &Validator{compiled: make(map[string]*compiledSchema)}
}

func (v *Validator) schemaFor(name string) (*compiledSchema, error) {
	v.mu.RLock()
	cs, ok := v.compiled[name]
	v.mu.RUnlock()
	if ok {
		return cs, nil
	}

	file := "schemas/" + name + ".json"
	data, err := schemaFS.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("validation: unknown schema %s: %w", name, err)
	}

	var head struct {
		Required []string `json:"required"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("validation: read schema %s: %w", name, err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(file, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("validation: load schema %s: %w", name, err)
	}
	schema, err := compiler.Compile(file)
	if err != nil {
		return nil, fmt.Errorf("validation: compile schema %s: %w", name, err)
	}

	cs = &compiledSchema{required: head.Required, schema: schema}
	v.mu.Lock()
	v.compiled[name] = cs
	v.mu.Unlock()
	return cs, nil
}

// Validate checks payload against the named schema. Required fields are
// checked first so a missing field reports MISSING_FIELD; a required field
// that is null or an empty string also counts as missing.
func (v *Validator) Validate(name string, payload map[string]any) error {
	cs, err := v.schemaFor(name)
	if err != nil {
		return err
	}
	if payload == nil {
		payload = map[string]any{}
	}

	for _, field := range cs.required {
		val, ok := payload[field]
		if !ok || val == nil {
			return missing(field)
		}
		if s, isString := val.(string); isString && strings.TrimSpace(s) == "" {
			return missing(field)
		}
	}

	if err := cs.schema.Validate(payload); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			leaf := deepest(ve)
			field := strings.TrimPrefix(leaf.InstanceLocation, "/")
			msg := leaf.Message
			if field != "" {
				msg = fmt.Sprintf("%s: %s", field, leaf.Message)
			}
			return invalid(field, msg)
		}
		return invalid("", err.Error())
	}
	return nil
}

// Decode reads a JSON object from body, validates it and decodes it into dest
func (v *Validator) Decode(name string, body io.Reader, dest any) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("validation: read body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		data = []byte("{}")
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return invalid("", "Request body must be a JSON object")
	}
	if err := v.Validate(name, payload); err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return invalid("", fmt.Sprintf("Malformed request body: %v", err))
	}
	return nil
}

func deepest(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}
