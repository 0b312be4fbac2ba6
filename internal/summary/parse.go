package summary

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/yosuke-furukawa/json5/encoding/json5"
)

var ErrNoJSON = errors.New("no JSON object found in model reply")

var fenceRe = regexp.MustCompile("(?s)```(?:json|JSON)?[ \t]*\\n?(.*?)```")

// ParseSummary recovers a summary from free-form model output in three steps:
//  1. strict JSON, first the whole reply and then the body of the first
//     Markdown code fence;
//  2. the first balanced {...} span, strictly and then as JSON5 (single
//     quotes, trailing commas, comments);
//  3. otherwise ErrNoJSON, and the caller builds a degraded summary.
func ParseSummary(reply string) (*SearchSummary, error) {
	text := strings.TrimSpace(reply)
	if text == "" {
		return nil, ErrNoJSON
	}

	candidates := []string{text}
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	for _, c := range candidates {
		var attrs map[string]any
		if err := json.Unmarshal([]byte(c), &attrs); err == nil && attrs != nil {
			return fromAttributes(attrs), nil
		}
	}

	span, ok := firstBalancedObject(text)
	if !ok {
		return nil, ErrNoJSON
	}
	var attrs map[string]any
	if err := json.Unmarshal([]byte(span), &attrs); err == nil && attrs != nil {
		return fromAttributes(attrs), nil
	}
	if err := json5.Unmarshal([]byte(span), &attrs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoJSON, err)
	}
	if attrs == nil {
		return nil, ErrNoJSON
	}
	return fromAttributes(attrs), nil
}

func fromAttributes(attrs map[string]any) *SearchSummary {
	s := NewSearchSummary()
	s.merge(attrs)
	return s
}

// firstBalancedObject returns the first {...} span whose braces balance,
// ignoring braces inside JSON strings.
func firstBalancedObject(text string) (string, bool) {
	for start := strings.IndexByte(text, '{'); start >= 0; {
		if end := matchBrace(text, start); end > 0 {
			return text[start : end+1], true
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

// matchBrace returns the index of the brace closing text[start], or -1.
func matchBrace(text string, start int) int {
	depth := 0
	var quote byte
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == quote:
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			quote = ch
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
