package schema

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Builder is the interface implemented by all schema builders.
type Builder interface {
	// Build serializes the schema to json.RawMessage.
	// Returns an error if the schema is invalid.
	Build() (json.RawMessage, error)

	// MustBuild is like Build but panics on error.
	MustBuild() json.RawMessage

	// schema returns the internal representation for composition.
	schema() *schemaNode
}

// schemaNode is the internal representation of a JSON Schema.
type schemaNode struct {
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`

	// String constraints
	MinLength *int `json:"minLength,omitempty"`

	// Array constraints
	Items *schemaNode `json:"items,omitempty"`

	// Object constraints
	Properties       map[string]*schemaNode `json:"properties,omitempty"`
	Required         []string               `json:"required,omitempty"`
	PropertyOrdering []string               `json:"propertyOrdering,omitempty"`
}

// Sentinel errors for schema validation.
var (
	// ErrInvalidRange is returned when a length bound is negative.
	ErrInvalidRange = errors.New("schema: invalid length bound")

	// ErrNilItems is returned when an array has no items schema.
	ErrNilItems = errors.New("schema: array requires items schema")
)

// ValidationError represents a schema validation failure.
type ValidationError struct {
	Field   string // The field name (for objects)
	Message string // Human-readable error message
	Err     error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("schema: field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("schema: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// validate checks the schema for internal consistency.
func (s *schemaNode) validate() error {
	switch s.Type {
	case "string":
		if s.MinLength != nil && *s.MinLength < 0 {
			return &ValidationError{
				Message: fmt.Sprintf("minLength %d is negative", *s.MinLength),
				Err:     ErrInvalidRange,
			}
		}

	case "array":
		if s.Items == nil {
			return &ValidationError{
				Message: "array requires items schema",
				Err:     ErrNilItems,
			}
		}
		if err := s.Items.validate(); err != nil {
			return &ValidationError{
				Message: fmt.Sprintf("invalid items schema: %v", err),
				Err:     err,
			}
		}

	case "object":
		for name, prop := range s.Properties {
			if err := prop.validate(); err != nil {
				return &ValidationError{
					Field:   name,
					Message: err.Error(),
					Err:     err,
				}
			}
		}
	}
	return nil
}

// build validates and marshals a node.
func build(n *schemaNode) (json.RawMessage, error) {
	if err := n.validate(); err != nil {
		return nil, err
	}
	return json.Marshal(n)
}

// mustBuild is like build but panics on error.
func mustBuild(n *schemaNode) json.RawMessage {
	data, err := build(n)
	if err != nil {
		panic(err)
	}
	return data
}

// StripKeyword returns a copy of a decoded schema document with every
// occurrence of the given keyword removed, recursing into properties and
// items.
func StripKeyword(doc map[string]any, keyword string) map[string]any {
	if doc == nil {
		return nil
	}
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == keyword {
			continue
		}
		out[k] = v
	}
	if props, ok := out["properties"].(map[string]any); ok {
		stripped := make(map[string]any, len(props))
		for name, p := range props {
			if pm, ok := p.(map[string]any); ok {
				stripped[name] = StripKeyword(pm, keyword)
			} else {
				stripped[name] = p
			}
		}
		out["properties"] = stripped
	}
	if items, ok := out["items"].(map[string]any); ok {
		out["items"] = StripKeyword(items, keyword)
	}
	return out
}

// ptr returns a pointer to the value.
func ptr[T any](v T) *T {
	return &v
}
