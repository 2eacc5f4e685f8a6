package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cvdoc/internal/assist"
	"github.com/jonathan/cvdoc/internal/normalizer"
	"github.com/jonathan/cvdoc/internal/observability"
	"github.com/jonathan/cvdoc/internal/types"
)

var (
	normalizeContextID  string
	normalizeTextFile   string
	normalizeSourceFile string
	normalizeOutputFile string
	normalizeUseAI      bool
	normalizeVerbose    bool
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Normalize raw CV sources into a document",
	Long: `Reconcile raw CV sources into one editable document. Sources can be a
plain text file (--text), a JSON file with structured or legacy extracted data
(--sources), or both. With --ai the text is first structured through Gemini.`,
	RunE: runNormalize,
}

func init() {
	normalizeCmd.Flags().StringVar(&normalizeContextID, "context", "", "Job context id (required)")
	normalizeCmd.Flags().StringVarP(&normalizeTextFile, "text", "t", "", "Path to raw CV text file")
	normalizeCmd.Flags().StringVarP(&normalizeSourceFile, "sources", "s", "", "Path to JSON file with raw sources (cv_text, summary, legacy_extracted, ai_structured)")
	normalizeCmd.Flags().StringVarP(&normalizeOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	normalizeCmd.Flags().BoolVar(&normalizeUseAI, "ai", false, "Structure the raw text through Gemini before normalizing")
	normalizeCmd.Flags().BoolVarP(&normalizeVerbose, "verbose", "v", false, "Print a summary of the document")
	_ = normalizeCmd.MarkFlagRequired("context")
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(_ *cobra.Command, _ []string) error {
	if normalizeTextFile == "" && normalizeSourceFile == "" {
		return fmt.Errorf("at least one of --text or --sources is required")
	}

	var raw normalizer.RawData
	if normalizeSourceFile != "" {
		data, err := os.ReadFile(normalizeSourceFile)
		if err != nil {
			return fmt.Errorf("failed to read sources file: %w", err)
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("failed to parse sources JSON: %w", err)
		}
	}
	if normalizeTextFile != "" {
		data, err := os.ReadFile(normalizeTextFile)
		if err != nil {
			return fmt.Errorf("failed to read text file: %w", err)
		}
		raw.CVText = string(data)
	}

	if normalizeUseAI {
		structured, err := structureWithAI(raw.CVText)
		if err != nil {
			return err
		}
		raw.AIStructured = structured
	}

	doc := normalizer.New().Normalize(normalizeContextID, raw, nil)
	if normalizeVerbose {
		observability.NewPrinter(os.Stderr).PrintDocument(doc)
	}
	return writeJSON(normalizeOutputFile, doc)
}

// structureWithAI runs the raw text through Gemini extraction
func structureWithAI(cvText string) (*types.StructuredCVData, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("--ai requires the GEMINI_API_KEY environment variable")
	}

	ctx := context.Background()
	generator, err := assist.NewGemini(ctx, apiKey, os.Getenv("CVDOC_MODEL"))
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}
	defer generator.Close()

	return assist.New(generator).ExtractStructured(ctx, cvText)
}
