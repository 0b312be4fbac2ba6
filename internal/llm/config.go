package llm

// ExtractOptions controls a single structured extraction call.
type ExtractOptions struct {
	MaxOutputTokens int32
	Temperature     float32
}

// DefaultTemperature keeps output close to deterministic.
const DefaultTemperature float32 = 0.3

// SummaryOptions are used when extracting a summary from search results.
func SummaryOptions() ExtractOptions {
	return ExtractOptions{MaxOutputTokens: 2000, Temperature: DefaultTemperature}
}

// RawTextOptions are used by the raw-text extraction endpoint.
func RawTextOptions() ExtractOptions {
	return ExtractOptions{MaxOutputTokens: 1500, Temperature: DefaultTemperature}
}
