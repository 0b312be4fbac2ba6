package summary

import (
	"fmt"
	"strings"
)

// SearchResult is one search hit supplied by the caller. Missing fields are
// empty strings.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// SearchSummary is the fixed summary schema returned to clients. All five
// keys are always present in its JSON form.
type SearchSummary struct {
	MainTopic            string   `json:"main_topic"`
	KeyPoints            []string `json:"key_points"`
	ComprehensiveSummary string   `json:"comprehensive_summary"`
	KeyEntities          []string `json:"key_entities"`
	MainConclusion       string   `json:"main_conclusion"`

	degraded bool
}

// NewSearchSummary returns an all-empty summary whose lists marshal as [].
func NewSearchSummary() *SearchSummary {
	return &SearchSummary{KeyPoints: []string{}, KeyEntities: []string{}}
}

// FormatText renders the summary for display.
func (s *SearchSummary) FormatText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "📌 **%s**\n\n", s.MainTopic)
	b.WriteString("**Key Points:**\n")
	for _, p := range s.KeyPoints {
		fmt.Fprintf(&b, "• %s\n", p)
	}
	fmt.Fprintf(&b, "\n**Summary:**\n%s\n\n", s.ComprehensiveSummary)

	entities := "None identified"
	if len(s.KeyEntities) > 0 {
		entities = strings.Join(s.KeyEntities, ", ")
	}
	fmt.Fprintf(&b, "**Key Entities:** %s\n\n", entities)
	fmt.Fprintf(&b, "**Conclusion:** %s", s.MainConclusion)
	return strings.TrimSpace(b.String())
}

// merge copies known attributes onto s. Unknown keys are ignored; list fields
// accept either an array or a single string.
func (s *SearchSummary) merge(attrs map[string]any) {
	for key, v := range attrs {
		switch key {
		case "main_topic":
			s.MainTopic = asString(v)
		case "key_points":
			s.KeyPoints = asStringList(v)
		case "comprehensive_summary":
			s.ComprehensiveSummary = asString(v)
		case "key_entities":
			s.KeyEntities = asStringList(v)
		case "main_conclusion":
			s.MainConclusion = asString(v)
		}
	}
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any:
		return strings.Join(asStringList(t), " ")
	default:
		return fmt.Sprint(t)
	}
}

func asStringList(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if item == nil {
				continue
			}
			out = append(out, asString(item))
		}
	case []string:
		out = append(out, t...)
	case string:
		if strings.TrimSpace(t) != "" {
			out = append(out, t)
		}
	case nil:
	default:
		out = append(out, fmt.Sprint(t))
	}
	return out
}
