// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/cvdoc/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintParsedCV outputs a human-readable summary of a heuristic parse.
func (p *Printer) PrintParsedCV(parsed *types.ParsedCVData) {
	if parsed == nil {
		return
	}

	var sb strings.Builder

	if parsed.Summary != "" {
		sb.WriteString(fmt.Sprintf("Summary:  %s\n\n", parsed.Summary))
	}

	if len(parsed.Experience) > 0 {
		sb.WriteString(fmt.Sprintf("Experience (%d):\n", len(parsed.Experience)))
		count := min(len(parsed.Experience), maxItemsToShow)
		for i := 0; i < count; i++ {
			entry := parsed.Experience[i]
			sb.WriteString(fmt.Sprintf("  • %s", entry.Title))
			if entry.Company != "" {
				sb.WriteString(fmt.Sprintf(" — %s", entry.Company))
			}
			sb.WriteString("\n")
			if entry.StartDate != "" || entry.EndDate != "" {
				end := entry.EndDate
				if end == "" {
					end = "ongoing"
				}
				sb.WriteString(fmt.Sprintf("    %s to %s", entry.StartDate, end))
				if len(entry.Bullets) > 0 {
					sb.WriteString(fmt.Sprintf(", %d bullets", len(entry.Bullets)))
				}
				sb.WriteString("\n")
			}
		}
		if len(parsed.Experience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(parsed.Experience)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(parsed.Education) > 0 {
		sb.WriteString(fmt.Sprintf("Education entries: %d\n", len(parsed.Education)))
	}
	if len(parsed.Skills) > 0 {
		skills := strings.Join(parsed.Skills, ", ")
		if len(skills) > 40 {
			skills = skills[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("Skills:   %s\n", skills))
	}
	if len(parsed.Languages) > 0 {
		sb.WriteString(fmt.Sprintf("Languages: %d\n", len(parsed.Languages)))
	}

	p.printBox("PARSED CV", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDocument outputs a human-readable summary of a normalized document.
func (p *Printer) PrintDocument(doc *types.CVDocument) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Document: %s\n", doc.ID))
	sb.WriteString(fmt.Sprintf("Context:  %s\n", doc.JobContextID))
	sb.WriteString(fmt.Sprintf("Language: %s\n\n", doc.Language))

	if doc.RightColumn.ProfessionalIntro.Content != "" {
		sb.WriteString(fmt.Sprintf("Intro:    %s\n\n", doc.RightColumn.ProfessionalIntro.Content))
	}

	if len(doc.RightColumn.Experience) > 0 {
		sb.WriteString(fmt.Sprintf("Experience (%d):\n", len(doc.RightColumn.Experience)))
		count := min(len(doc.RightColumn.Experience), maxItemsToShow)
		for i := 0; i < count; i++ {
			block := doc.RightColumn.Experience[i]
			end := block.EndDate
			if block.IsOngoing() {
				end = "ongoing"
			}
			sb.WriteString(fmt.Sprintf("  #%d %s — %s\n", i+1, block.Title, block.Company))
			sb.WriteString(fmt.Sprintf("     %s to %s, %d bullets\n", block.StartDate, end, len(block.Bullets)))
		}
		if len(doc.RightColumn.Experience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(doc.RightColumn.Experience)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Education: %d  Skills: %d  Languages: %d\n",
		len(doc.LeftColumn.Education), len(doc.LeftColumn.Skills), len(doc.LeftColumn.Languages)))
	if len(doc.Checkpoints) > 0 {
		sb.WriteString(fmt.Sprintf("Checkpoints: %d\n", len(doc.Checkpoints)))
	}

	p.printBox("NORMALIZED DOCUMENT", strings.TrimSuffix(sb.String(), "\n"))
}
