package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/cvdoc/internal/observability"
	"github.com/jonathan/cvdoc/internal/textparse"
)

var (
	parseInputFile  string
	parseOutputFile string
	parseHTML       bool
	parseVerbose    bool
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Heuristically parse raw CV text into structured JSON",
	Long:  "Parse a raw CV text file (or HTML export) into structured JSON using the bilingual section and date heuristics. Parsing never fails; unrecognized text is simply dropped.",
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseInputFile, "in", "i", "", "Path to CV text file (required)")
	parseCmd.Flags().StringVarP(&parseOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	parseCmd.Flags().BoolVar(&parseHTML, "html", false, "Strip HTML markup before parsing")
	parseCmd.Flags().BoolVarP(&parseVerbose, "verbose", "v", false, "Print a summary of the parse")
	_ = parseCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(parseCmd)
}

func runParse(_ *cobra.Command, _ []string) error {
	raw, err := os.ReadFile(parseInputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	text := string(raw)
	if parseHTML || looksLikeHTML(text) {
		text = textparse.ExtractText(text)
	}

	parsed := textparse.Parse(text)
	if parseVerbose {
		observability.NewPrinter(os.Stderr).PrintParsedCV(&parsed)
	}

	return writeJSON(parseOutputFile, parsed)
}

// looksLikeHTML is a cheap sniff for HTML exports passed without --html
func looksLikeHTML(text string) bool {
	head := strings.ToLower(strings.TrimSpace(text))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}

// writeJSON marshals v to the output path, or stdout when path is empty
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
