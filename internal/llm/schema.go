package llm

import (
	"fmt"
	"strings"

	genai "google.golang.org/genai"
)

// responseSchema describes the JSON envelope the model must return:
// {"entities": [{"type": <name>, "attributes": {...}}]}.
func (s *Schema) responseSchema() *genai.Schema {
	attributes := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: make(map[string]*genai.Schema),
	}
	for _, t := range s.Types {
		for _, f := range t.Fields {
			if _, ok := attributes.Properties[f.Name]; ok {
				continue
			}
			attributes.Properties[f.Name] = fieldSchema(f)
			attributes.PropertyOrdering = append(attributes.PropertyOrdering, f.Name)
		}
	}

	entity := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"type":       {Type: genai.TypeString, Enum: s.Names()},
			"attributes": attributes,
		},
		PropertyOrdering: []string{"type", "attributes"},
		Required:         []string{"type", "attributes"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"entities": {Type: genai.TypeArray, Items: entity},
		},
		Required: []string{"entities"},
	}
}

func fieldSchema(f Field) *genai.Schema {
	switch f.Kind {
	case FieldStringList:
		return &genai.Schema{
			Type:        genai.TypeArray,
			Description: f.Description,
			Items:       &genai.Schema{Type: genai.TypeString},
		}
	default:
		return &genai.Schema{Type: genai.TypeString, Description: f.Description}
	}
}

// prompt renders the extraction instructions followed by the document.
func (s *Schema) prompt(doc Document) string {
	var b strings.Builder
	b.WriteString("Extract structured information from the document below.\n")
	b.WriteString("Return JSON with an \"entities\" array. Each entity has a \"type\" and an \"attributes\" object.\n\n")
	b.WriteString("Entity types:\n")
	for _, t := range s.Types {
		fmt.Fprintf(&b, "- %s\n", t.Name)
		for _, f := range t.Fields {
			kind := "string"
			if f.Kind == FieldStringList {
				kind = "array of strings"
			}
			fmt.Fprintf(&b, "  - %s (%s): %s\n", f.Name, kind, f.Description)
		}
	}
	fmt.Fprintf(&b, "\nDocument %s:\n%s\n", doc.ID, doc.Content)
	return b.String()
}
