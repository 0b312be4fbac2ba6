package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// FieldKind is the JSON shape of a schema field.
type FieldKind int

const (
	FieldString     FieldKind = iota // plain string
	FieldStringList                  // array of strings
)

// Field describes one attribute of an entity type.
type Field struct {
	Name        string
	Description string
	Kind        FieldKind
}

// EntityType is a named group of fields the model is asked to fill.
type EntityType struct {
	Name   string
	Fields []Field
}

// Schema is the set of entity types an extraction may return.
type Schema struct {
	Types []EntityType
}

// Names returns the entity type names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.Types))
	for _, t := range s.Types {
		names = append(names, t.Name)
	}
	return names
}

// SchemaBuilder collects entity types and validates them on Build.
type SchemaBuilder struct {
	types []EntityType
	seen  map[string]struct{}
	err   error
}

func NewSchemaBuilder() *SchemaBuilder {
	return &SchemaBuilder{seen: make(map[string]struct{})}
}

// AddEntityType registers an entity type. The first invalid registration is
// reported by Build.
func (b *SchemaBuilder) AddEntityType(name string, fields ...Field) *SchemaBuilder {
	if b.err != nil {
		return b
	}
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		b.err = errors.New("entity type name is empty")
	case len(fields) == 0:
		b.err = fmt.Errorf("entity type %q has no fields", name)
	default:
		if _, dup := b.seen[name]; dup {
			b.err = fmt.Errorf("entity type %q registered twice", name)
			return b
		}
		for _, f := range fields {
			if strings.TrimSpace(f.Name) == "" {
				b.err = fmt.Errorf("entity type %q has a field without a name", name)
				return b
			}
		}
		b.seen[name] = struct{}{}
		b.types = append(b.types, EntityType{Name: name, Fields: fields})
	}
	return b
}

func (b *SchemaBuilder) Build() (*Schema, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.types) == 0 {
		return nil, errors.New("schema has no entity types")
	}
	return &Schema{Types: b.types}, nil
}

// Document is the unit of text handed to the extractor.
type Document struct {
	ID      string
	Content string
}

// NewDocument creates a document with a generated "<prefix>_<uuid>" id.
func NewDocument(prefix, content string) (Document, error) {
	if strings.TrimSpace(content) == "" {
		return Document{}, errors.New("document content is empty")
	}
	return Document{
		ID:      prefix + "_" + uuid.NewString(),
		Content: content,
	}, nil
}

// Entity is one extracted object.
type Entity struct {
	Type       string         `json:"type"`
	Attributes map[string]any `json:"attributes"`
}
