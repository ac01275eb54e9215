package llm

// Type is a JSON schema primitive.
type Type string

const (
	TypeObject  Type = "object"
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
)

// Schema is a vendor-neutral description of a structured output contract.
// Object properties are listed in Properties and every property is required; optional values
// are expressed with Nullable.
type Schema struct {
	Type        Type
	Description string
	Nullable    bool
	Enum        []string
	Properties  []Property
}

// Property is a named object member.
type Property struct {
	Name   string
	Schema *Schema
}

// JSONSchema renders s as a strict JSON schema: nullable types become ["t","null"], all
// properties are required, and additional properties are forbidden.
func (s *Schema) JSONSchema() map[string]any {
	out := map[string]any{}
	if s.Nullable {
		out["type"] = []string{string(s.Type), "null"}
	} else {
		out["type"] = string(s.Type)
	}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		enum := make([]any, 0, len(s.Enum)+1)
		for _, v := range s.Enum {
			enum = append(enum, v)
		}
		if s.Nullable {
			enum = append(enum, nil)
		}
		out["enum"] = enum
	}
	if s.Type == TypeObject {
		props := make(map[string]any, len(s.Properties))
		required := make([]string, 0, len(s.Properties))
		for _, p := range s.Properties {
			props[p.Name] = p.Schema.JSONSchema()
			required = append(required, p.Name)
		}
		out["properties"] = props
		out["required"] = required
		out["additionalProperties"] = false
	}
	return out
}
