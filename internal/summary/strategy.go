package summary

import (
	"context"
	"fmt"

	"search-summarizer/internal/llm"
)

// Strategy names, also reported as the summary source.
const (
	SourceStructured = "structured"
	SourceDirect     = "direct"
	SourceDegraded   = "degraded"
	SourceStatic     = "static"
)

// Fixed texts for the degraded and static summaries.
const (
	DegradedSummaryFailed = "Summary generation failed"
	DegradedConclusion    = "Please refer to the search results for more details."
	StaticKeyPoint        = "Summary generation failed"
	StaticSummaryText     = "Unable to generate summary at this time."
	StaticConclusion      = "Please review the search results directly."
)

// Strategy is one way of producing a summary. The chain tries strategies in
// order until one returns without error.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, query string, results []SearchResult) (*SearchSummary, error)
}

// Extractor performs schema-driven extraction (implemented by *llm.Client).
type Extractor interface {
	Extract(ctx context.Context, doc llm.Document, schema *llm.Schema, opts llm.ExtractOptions) ([]llm.Entity, error)
}

// Generator returns the model's raw text reply (implemented by *llm.Client).
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// StructuredStrategy asks the extractor for a SearchSummary entity.
type StructuredStrategy struct {
	extractor Extractor
}

func NewStructuredStrategy(extractor Extractor) *StructuredStrategy {
	return &StructuredStrategy{extractor: extractor}
}

func (s *StructuredStrategy) Name() string { return SourceStructured }

// Attempt returns the first SearchSummary entity with attributes merged onto
// an empty summary. No matching entity yields the empty summary, not an error.
func (s *StructuredStrategy) Attempt(ctx context.Context, query string, results []SearchResult) (*SearchSummary, error) {
	if s.extractor == nil {
		return nil, llm.ErrNotConfigured
	}
	doc, err := llm.NewDocument("search", BuildDocument(query, results))
	if err != nil {
		return nil, fmt.Errorf("build document: %w", err)
	}
	schema, err := SummarySchema()
	if err != nil {
		return nil, fmt.Errorf("build schema: %w", err)
	}
	entities, err := s.extractor.Extract(ctx, doc, schema, llm.SummaryOptions())
	if err != nil {
		return nil, fmt.Errorf("structured extraction: %w", err)
	}

	summary := NewSearchSummary()
	for _, e := range entities {
		if e.Type == EntityTypeName && len(e.Attributes) > 0 {
			summary.merge(e.Attributes)
			break
		}
	}
	return summary, nil
}

// DirectPromptStrategy prompts the model without a schema and parses JSON out
// of the reply. An unparseable reply still succeeds with a degraded summary;
// only a failed remote call is an error.
type DirectPromptStrategy struct {
	generator Generator
}

func NewDirectPromptStrategy(generator Generator) *DirectPromptStrategy {
	return &DirectPromptStrategy{generator: generator}
}

func (s *DirectPromptStrategy) Name() string { return SourceDirect }

func (s *DirectPromptStrategy) Attempt(ctx context.Context, query string, results []SearchResult) (*SearchSummary, error) {
	if s.generator == nil {
		return nil, llm.ErrNotConfigured
	}
	reply, err := s.generator.Generate(ctx, BuildFallbackPrompt(query, results))
	if err != nil {
		return nil, fmt.Errorf("direct prompt: %w", err)
	}
	parsed, err := ParseSummary(reply)
	if err != nil {
		return DegradedSummary(query, results, reply), nil
	}
	return parsed, nil
}

// StaticStrategy always succeeds with the placeholder summary.
type StaticStrategy struct{}

func (StaticStrategy) Name() string { return SourceStatic }

func (StaticStrategy) Attempt(_ context.Context, query string, _ []SearchResult) (*SearchSummary, error) {
	return StaticSummary(query), nil
}

// DegradedSummary is built from the inputs when the model's reply could not
// be parsed.
func DegradedSummary(query string, results []SearchResult, reply string) *SearchSummary {
	s := NewSearchSummary()
	s.degraded = true
	s.MainTopic = query
	for i, r := range results {
		if i == 3 {
			break
		}
		s.KeyPoints = append(s.KeyPoints, truncateRunes(r.Snippet, 100))
	}
	s.ComprehensiveSummary = DegradedSummaryFailed
	if reply != "" {
		s.ComprehensiveSummary = truncateRunes(reply, 500)
	}
	s.MainConclusion = DegradedConclusion
	return s
}

// StaticSummary is the last-resort placeholder.
func StaticSummary(query string) *SearchSummary {
	s := NewSearchSummary()
	s.MainTopic = query
	s.KeyPoints = []string{StaticKeyPoint}
	s.ComprehensiveSummary = StaticSummaryText
	s.MainConclusion = StaticConclusion
	return s
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
