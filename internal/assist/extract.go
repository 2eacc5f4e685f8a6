package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/cvdoc/internal/types"
)

// ExtractStructured asks the provider to lift a raw CV text into the
// structured shape the normalizer consumes. Fields the text does not contain
// come back empty; the prompt forbids invention.
func (a *Assistant) ExtractStructured(ctx context.Context, cvText string) (*types.StructuredCVData, error) {
	if strings.TrimSpace(cvText) == "" {
		return nil, fmt.Errorf("empty CV text")
	}

	raw, err := a.generator.GenerateJSON(ctx, buildExtractionPrompt(cvText))
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}

	var data types.StructuredCVData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("invalid extraction response: %w", err)
	}
	return &data, nil
}

func buildExtractionPrompt(cvText string) string {
	var sb strings.Builder
	sb.WriteString("Extract the structured content of the CV below.\n\n")
	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n")
	sb.WriteString(`{
  "professional_intro": string, // the summary or profile paragraph, empty if none
  "experience": [
    {
      "title": string,
      "company": string,
      "location": string,
      "start_date": string, // "YYYY-MM" or "YYYY" exactly as stated, empty if absent
      "end_date": string, // "YYYY-MM", "YYYY", an ongoing marker like "Present", or empty
      "key_milestones": string,
      "bullets": [string]
    }
  ],
  "education": [{ "title": string, "institution": string, "year": string }],
  "skills": [string],
  "languages": [{ "language": string, "level": string }]
}`)
	sb.WriteString("\n\nIMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent or summarize.\n")
	sb.WriteString("- Leave fields the text does not state empty. Never fabricate dates, employers, or levels.\n")
	sb.WriteString("- Keep the CV's own language; do not translate.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")
	sb.WriteString("CV text:\n")
	sb.WriteString(cvText)
	return sb.String()
}
