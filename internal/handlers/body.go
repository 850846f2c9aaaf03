package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hay-kot/criterio"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// maxBodyBytes bounds every request body.
const maxBodyBytes = 1 << 20

// ValidationError is a rejected request body. Fields maps the offending
// field to its problem.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	if len(parts) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

// decodeBody reads the JSON body, checks it against schema and decodes it
// into v. An empty body is treated as an empty object.
func decodeBody(r *http.Request, schema *jsonschema.Schema, v any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		data = []byte("{}")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return schemaError(err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// schemaError flattens the leaves of a jsonschema validation error into
// field messages keyed by instance path.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &ValidationError{Message: "invalid request body", Fields: map[string]string{"body": err.Error()}}
	}

	fields := make(map[string]string)
	collectSchemaErrors(ve, fields)
	return &ValidationError{Message: "invalid request body", Fields: fields}
}

func collectSchemaErrors(ve *jsonschema.ValidationError, fields map[string]string) {
	if len(ve.Causes) == 0 {
		field := strings.TrimPrefix(ve.InstanceLocation, "/")
		if field == "" {
			field = "body"
		}
		if _, ok := fields[field]; !ok {
			fields[field] = ve.Message
		}
		return
	}

	for _, cause := range ve.Causes {
		collectSchemaErrors(cause, fields)
	}
}

// fieldError converts criterio field errors into a ValidationError.
func fieldError(err error) error {
	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Message: "validation failed", Fields: map[string]string{"body": err.Error()}}
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field] = fe.Err.Error()
	}
	return &ValidationError{Message: "validation failed", Fields: fields}
}
