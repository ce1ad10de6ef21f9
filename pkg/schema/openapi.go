package schema

import (
	"github.com/getkin/kin-openapi/openapi3"
)

const formatExtensionKey = "x-format"

// OpenAPISchema exports s as an OpenAPI object schema. Declaration order is
// not representable in OpenAPI properties; it survives in the Required list.
func OpenAPISchema(s Schema) *openapi3.Schema {
	out := openapi3.NewObjectSchema()
	out.Title = s.Name
	out.Description = s.Description
	open := s.Open
	out.AdditionalProperties = openapi3.AdditionalProperties{Has: &open}

	for _, field := range s.Fields {
		out.WithProperty(field.Name, openAPIRule(field.Rule))
		if field.Required && field.Default == nil {
			out.Required = append(out.Required, field.Name)
		}
	}
	return out
}

// OpenAPI exports every schema in the catalog keyed by name.
func (c *Catalog) OpenAPI() openapi3.Schemas {
	out := make(openapi3.Schemas)
	for _, name := range c.Names() {
		s, err := c.Get(name)
		if err != nil {
			continue
		}
		out[name] = openapi3.NewSchemaRef("", OpenAPISchema(s))
	}
	return out
}

func openAPIRule(rule Rule) *openapi3.Schema {
	var out *openapi3.Schema
	switch rule.Kind {
	case KindNumber:
		out = openapi3.NewFloat64Schema()
	case KindInteger:
		out = openapi3.NewInt64Schema()
	case KindBoolean:
		out = openapi3.NewBoolSchema()
	case KindObject:
		out = openapi3.NewObjectSchema()
	case KindArray:
		out = openapi3.NewArraySchema()
		if rule.Items != nil {
			out.WithItems(openAPIRule(*rule.Items))
		}
	case KindEnum:
		values := make([]any, len(rule.Enum))
		for i, v := range rule.Enum {
			values[i] = v
		}
		out = openapi3.NewStringSchema().WithEnum(values...)
	case KindLiteral:
		out = openapi3.NewStringSchema().WithEnum(rule.Literal)
	default:
		out = openapi3.NewStringSchema()
	}

	switch rule.Kind {
	case KindUUID:
		out.Format = "uuid"
	case KindEmail:
		out.Format = "email"
	case KindURL:
		out.Format = "uri"
	case KindSwissPostalCode:
		out.Pattern = postalCodePattern.String()
		out.Extensions = map[string]any{formatExtensionKey: string(rule.Kind)}
	case KindSwissPhone:
		out.Extensions = map[string]any{formatExtensionKey: string(rule.Kind)}
	}

	if rule.Pattern != "" {
		out.Pattern = rule.Pattern
	}
	if rule.Min != nil {
		lo := *rule.Min
		out.Min = &lo
	}
	if rule.Max != nil {
		hi := *rule.Max
		out.Max = &hi
	}
	if rule.MinLength != nil && *rule.MinLength > 0 {
		if rule.Kind == KindArray {
			out.MinItems = uint64(*rule.MinLength)
		} else {
			out.MinLength = uint64(*rule.MinLength)
		}
	}
	if rule.MaxLength != nil && *rule.MaxLength >= 0 {
		limit := uint64(*rule.MaxLength)
		if rule.Kind == KindArray {
			out.MaxItems = &limit
		} else {
			out.MaxLength = &limit
		}
	}
	if rule.Default != nil {
		if value, issues := checkValue("", rule, rule.Default); len(issues) == 0 {
			out.WithDefault(value)
		} else {
			out.WithDefault(rule.Default)
		}
	}
	if rule.Message != "" {
		out.Description = rule.Message
	}
	return out
}
