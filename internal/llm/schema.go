package llm

// Schema is a minimal JSON-schema subset shared by every provider.
// Gemini needs its own typed schema and explicit property ordering; OpenAI and
// Anthropic accept a plain JSON-schema map. Keeping one definition here means
// the idea shape is declared exactly once.
type Schema struct {
	Type             string // "object", "array", "string"
	Description      string
	Properties       map[string]*Schema
	Items            *Schema
	Required         []string
	PropertyOrdering []string
}

// Map renders the schema as a JSON-schema map, ready to be marshaled.
func (s *Schema) Map() map[string]any {
	if s == nil {
		return nil
	}

	m := map[string]any{"type": s.Type}
	if s.Description != "" {
		m["description"] = s.Description
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = prop.Map()
		}
		m["properties"] = props
	}
	if s.Items != nil {
		m["items"] = s.Items.Map()
	}
	if len(s.Required) > 0 {
		m["required"] = s.Required
	}
	return m
}

// PropertiesMap renders only the properties, for APIs that take them separately.
func (s *Schema) PropertiesMap() map[string]any {
	props := make(map[string]any, len(s.Properties))
	for name, prop := range s.Properties {
		props[name] = prop.Map()
	}
	return props
}
