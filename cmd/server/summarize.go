package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"search-summarizer/internal/summary"
)

var (
	summarizeQuery   string
	summarizeResults string
	summarizeJSON    bool
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize a results file once and print the summary",
	Long: "Reads search results from a JSON file (either an array of {title,url,snippet} " +
		"or an object {query, results}) and prints the summary. Use - to read stdin.",
	RunE: runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
	summarizeCmd.Flags().StringVar(&summarizeQuery, "query", "", "Search query (overrides the file's query)")
	summarizeCmd.Flags().StringVar(&summarizeResults, "results", "", "Results JSON file, or - for stdin")
	summarizeCmd.Flags().BoolVar(&summarizeJSON, "json", false, "Print the summary as JSON instead of formatted text")
	_ = summarizeCmd.MarkFlagRequired("results")
}

func runSummarize(cmd *cobra.Command, _ []string) error {
	input, err := readResults(cmd.InOrStdin(), summarizeResults)
	if err != nil {
		return err
	}
	if summarizeQuery != "" {
		input.Query = summarizeQuery
	}
	if input.Query == "" {
		return fmt.Errorf("query is required")
	}
	if len(input.Results) == 0 {
		return fmt.Errorf("no search results provided")
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	res := a.chain.Summarize(cmd.Context(), input.Query, input.Results)
	a.log.Debug().Str("source", res.Source).Bool("cached", res.Cached).Msg("summary ready")

	out := cmd.OutOrStdout()
	if summarizeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Summary)
	}
	_, err = fmt.Fprintln(out, res.Summary.FormatText())
	return err
}

type resultsFile struct {
	Query   string                 `json:"query"`
	Results []summary.SearchResult `json:"results"`
}

func readResults(stdin io.Reader, path string) (*resultsFile, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}

	var list []summary.SearchResult
	if err := json.Unmarshal(data, &list); err == nil {
		return &resultsFile{Results: list}, nil
	}
	var file resultsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &file, nil
}
