package summary

import (
	"fmt"
	"strings"

	"search-summarizer/internal/llm"
	"search-summarizer/internal/webtext"
)

// EntityTypeName is the schema entity carrying a summary.
const EntityTypeName = "SearchSummary"

const resultDelimiter = "--------------------------------------------------"

// SummarySchema is the extraction schema for SearchSummary.
func SummarySchema() (*llm.Schema, error) {
	return llm.NewSchemaBuilder().
		AddEntityType(EntityTypeName,
			llm.Field{Name: "main_topic", Description: "The main topic or subject of the search query"},
			llm.Field{Name: "key_points", Description: "3-5 key points from the search results", Kind: llm.FieldStringList},
			llm.Field{Name: "comprehensive_summary", Description: "A comprehensive 2-3 paragraph summary of all search results"},
			llm.Field{Name: "key_entities", Description: "Important entities mentioned (people, companies, technologies)", Kind: llm.FieldStringList},
			llm.Field{Name: "main_conclusion", Description: "The main conclusion or takeaway from the search results"},
		).
		Build()
}

// BuildDocument combines the query and results into the text handed to the
// structured extractor.
func BuildDocument(query string, results []SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Search Query: %s\n\n", query)
	b.WriteString("Search Results:\n")
	for i, r := range results {
		fmt.Fprintf(&b, "\nResult %d:\n", i+1)
		fmt.Fprintf(&b, "Title: %s\n", webtext.PlainText(r.Title))
		fmt.Fprintf(&b, "URL: %s\n", r.URL)
		fmt.Fprintf(&b, "Content: %s\n", webtext.PlainText(r.Snippet))
		b.WriteString(resultDelimiter + "\n")
	}
	return b.String()
}

// BuildFallbackPrompt is the direct prompt used when structured extraction
// fails. It asks for the five summary fields as a JSON object.
func BuildFallbackPrompt(query string, results []SearchResult) string {
	var b strings.Builder
	b.WriteString("Based on the following search query and results, provide a comprehensive summary.\n\n")
	fmt.Fprintf(&b, "Search Query: %s\n\n", query)
	b.WriteString("Search Results:\n")
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, webtext.PlainText(r.Title), webtext.PlainText(r.Snippet))
	}
	b.WriteString(`
Please provide:
1. Main topic (one sentence)
2. 3-5 key points (bullet points)
3. A comprehensive 2-3 paragraph summary
4. Key entities mentioned (people, companies, technologies)
5. Main conclusion or takeaway

Format your response as JSON with keys: main_topic, key_points (array), comprehensive_summary, key_entities (array), main_conclusion
`)
	return b.String()
}
