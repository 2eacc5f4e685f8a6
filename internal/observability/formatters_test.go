package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/cvdoc/internal/types"
)

func TestPrintParsedCV(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	parsed := &types.ParsedCVData{
		Summary: "Experienced coordinator.",
		Experience: []types.ParsedExperience{
			{Title: "Coordinator", Company: "Acme", StartDate: "2020", Bullets: []string{"Led X"}},
			{Title: "Assistant", Company: "Acme", StartDate: "2017", EndDate: "2020"},
		},
		Education: []types.ParsedEducation{{Degree: "BSc", Institution: "CBS"}},
		Skills:    []string{"Planning", "Budgeting"},
		Languages: []types.ParsedLanguage{{Language: "Danish", Level: "Native"}},
	}

	p.PrintParsedCV(parsed)
	output := buf.String()

	assert.Contains(t, output, "PARSED CV")
	assert.Contains(t, output, "Experienced coordinator.")
	assert.Contains(t, output, "Coordinator")
	assert.Contains(t, output, "ongoing")
	assert.Contains(t, output, "Planning")
}

func TestPrintParsedCV_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintParsedCV(nil)

	assert.Empty(t, buf.String())
}

func TestPrintDocument(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	doc := &types.CVDocument{
		ID:           "doc-1",
		JobContextID: "job-1",
		Language:     "en",
		LeftColumn: types.LeftColumn{
			Skills: []types.SkillItem{{ID: "sk-1", Name: "Planning"}},
		},
		RightColumn: types.RightColumn{
			ProfessionalIntro: types.IntroSection{Content: "Intro text"},
			Experience: []types.ExperienceBlock{
				{ID: "exp-1", Title: "Coordinator", Company: "Acme", StartDate: "January 2020"},
			},
		},
		Checkpoints: []types.Checkpoint{{ID: "cp-1", Name: "saved"}},
	}

	p.PrintDocument(doc)
	output := buf.String()

	assert.Contains(t, output, "NORMALIZED DOCUMENT")
	assert.Contains(t, output, "doc-1")
	assert.Contains(t, output, "job-1")
	assert.Contains(t, output, "Coordinator")
	assert.Contains(t, output, "ongoing")
	assert.Contains(t, output, "Checkpoints: 1")
}

func TestPrintDocument_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	doc := &types.CVDocument{
		ID: "doc-1",
		RightColumn: types.RightColumn{
			ProfessionalIntro: types.IntroSection{Content: strings.Repeat("long ", 40)},
		},
	}

	p.PrintDocument(doc)
	for _, line := range strings.Split(buf.String(), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth, "every line fits the box")
	}
}
