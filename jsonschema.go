package formflow

import (
	"strings"

	js "github.com/reoring/formflow/jsonschema"
)

// JSONSchema projects the schema into a JSON Schema representation. Checks
// are mapped through their code and params; custom checks are not
// expressible and are left out.
func (s *Schema) JSONSchema() *js.Schema {
	out := &js.Schema{
		Type:                 "object",
		Properties:           make(map[string]*js.Schema, len(s.fields)),
		AdditionalProperties: false,
	}
	for _, f := range s.fields {
		out.Properties[f.Name()] = fieldJSONSchema(f)
		out.PropertyOrder = append(out.PropertyOrder, f.Name())
		if f.Required() {
			out.Required = append(out.Required, f.Name())
		}
	}
	return out
}

func fieldJSONSchema(f Field) *js.Schema {
	switch t := f.(type) {
	case *TextField:
		s := &js.Schema{Type: "string"}
		switch t.kind {
		case KindEmail:
			s.Format = "email"
		case KindPassword:
			s.Format = "password"
			s.WriteOnly = true
		}
		if t.required {
			one := 1
			s.MinLength = &one
		}
		for _, c := range t.checks {
			switch c.Code {
			case CodeTooShort:
				if n, ok := intParam(c.Params, "min"); ok {
					s.MinLength = &n
				}
			case CodeTooLong:
				if n, ok := intParam(c.Params, "max"); ok {
					s.MaxLength = &n
				}
			case CodePattern:
				if p, ok := c.Params["pattern"].(string); ok {
					s.Pattern = p
				}
			}
		}
		return s
	case *NumericField:
		s := &js.Schema{Type: "number"}
		for _, c := range t.checks {
			if c.Code == CodeTooSmall || c.Code == CodeOutOfRange {
				if n, ok := floatParam(c.Params, "min"); ok {
					s.Minimum = &n
				}
			}
			if c.Code == CodeTooBig || c.Code == CodeOutOfRange {
				if n, ok := floatParam(c.Params, "max"); ok {
					s.Maximum = &n
				}
			}
		}
		return s
	case *AssetField:
		s := &js.Schema{Type: "string", Format: "binary"}
		for _, c := range t.checks {
			switch c.Code {
			case CodeFileTooLarge:
				if n, ok := floatParam(c.Params, "max"); ok {
					b := int64(n)
					s.MaxBytes = &b
				}
			case CodeInvalidContentType:
				if types, ok := c.Params["types"].([]string); ok {
					s.ContentMediaType = strings.Join(types, ",")
				}
			}
		}
		return s
	case *ListField:
		s := &js.Schema{Type: "array", Items: t.item.JSONSchema()}
		for _, c := range t.checks {
			switch c.Code {
			case CodeTooFewItems:
				if n, ok := intParam(c.Params, "min"); ok {
					s.MinItems = &n
				}
			case CodeTooManyItems:
				if n, ok := intParam(c.Params, "max"); ok {
					s.MaxItems = &n
				}
			}
		}
		return s
	default:
		return &js.Schema{}
	}
}

func floatParam(params map[string]any, key string) (float64, bool) {
	switch v := params[key].(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

func intParam(params map[string]any, key string) (int, bool) {
	f, ok := floatParam(params, key)
	return int(f), ok
}
