package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	genai "google.golang.org/genai"
)

func TestSchemaBuilder_Errors(t *testing.T) {
	_, err := NewSchemaBuilder().Build()
	assert.Error(t, err, "empty schema")

	_, err = NewSchemaBuilder().AddEntityType("").Build()
	assert.Error(t, err, "empty name")

	_, err = NewSchemaBuilder().AddEntityType("NoFields").Build()
	assert.Error(t, err, "no fields")

	_, err = NewSchemaBuilder().
		AddEntityType("Dup", Field{Name: "a"}).
		AddEntityType("Dup", Field{Name: "b"}).
		Build()
	assert.Error(t, err, "duplicate type")

	_, err = NewSchemaBuilder().AddEntityType("Blank", Field{Name: " "}).Build()
	assert.Error(t, err, "blank field")
}

func TestSchema_ResponseSchemaShape(t *testing.T) {
	schema := summarySchema(t)
	rs := schema.responseSchema()

	require.Equal(t, genai.TypeObject, rs.Type)
	entities := rs.Properties["entities"]
	require.NotNil(t, entities)
	assert.Equal(t, genai.TypeArray, entities.Type)

	entity := entities.Items
	require.NotNil(t, entity)
	assert.Equal(t, []string{"SearchSummary"}, entity.Properties["type"].Enum)

	attrs := entity.Properties["attributes"]
	require.NotNil(t, attrs)
	assert.Equal(t, genai.TypeString, attrs.Properties["main_topic"].Type)
	assert.Equal(t, genai.TypeArray, attrs.Properties["key_points"].Type)
	assert.Equal(t, genai.TypeString, attrs.Properties["key_points"].Items.Type)
	assert.Equal(t, []string{"main_topic", "key_points"}, attrs.PropertyOrdering)
}

func TestSchema_PromptIncludesDocumentAndFields(t *testing.T) {
	schema := summarySchema(t)
	p := schema.prompt(Document{ID: "search_1", Content: "Result body"})
	assert.True(t, strings.HasSuffix(p, "Result body\n"))
	assert.Contains(t, p, "- SearchSummary")
	assert.Contains(t, p, "key_points (array of strings): points")
	assert.Contains(t, p, "Document search_1:")
}

func TestNewDocument(t *testing.T) {
	_, err := NewDocument("search", "   ")
	assert.Error(t, err)

	doc, err := NewDocument("search", "content")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(doc.ID, "search_"))
	assert.Equal(t, "content", doc.Content)
}
