package textparse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEndToEndScenario(t *testing.T) {
	cvText := `Experience

Project Coordinator | Acme | 2020 – Present
• Led X
• Coordinated Y

Assistant | Acme | 2017 – 2020
Supported the operations team with scheduling and vendor follow-ups.
`

	data := Parse(cvText)
	require.Len(t, data.Experience, 2)

	first := data.Experience[0]
	assert.Equal(t, "Project Coordinator", first.Title)
	assert.Equal(t, "Acme", first.Company)
	assert.Equal(t, "2020", first.StartDate)
	assert.Empty(t, first.EndDate, "Present should normalize to an absent end date")
	assert.Equal(t, []string{"Led X", "Coordinated Y"}, first.Bullets)

	second := data.Experience[1]
	assert.Equal(t, "Assistant", second.Title)
	assert.Equal(t, "Acme", second.Company)
	assert.Equal(t, "2017", second.StartDate)
	assert.Equal(t, "2020", second.EndDate)
	assert.Empty(t, second.Bullets)
	assert.Contains(t, second.Description, "Supported the operations team")
}

func TestParseDanishCV(t *testing.T) {
	cvText := `Profil
Erfaren koordinator med ti års erfaring fra byggebranchen.

Erhvervserfaring

Projektleder hos Byggefirma A/S, januar 2019 – nu
• Styrede tre sideløbende byggeprojekter
• Ansvarlig for budget på 12 mio. kr.

Uddannelse
Cand.merc., Copenhagen Business School, 2014

Kompetencer
Projektledelse, Budgettering, Forhandling

Sprog
Dansk – modersmål
Engelsk – flydende
`

	data := Parse(cvText)

	assert.Contains(t, data.Summary, "Erfaren koordinator")

	require.Len(t, data.Experience, 1)
	job := data.Experience[0]
	assert.Equal(t, "Projektleder", job.Title)
	assert.Equal(t, "Byggefirma A/S", job.Company)
	assert.Equal(t, "januar 2019", job.StartDate)
	assert.Empty(t, job.EndDate)
	assert.Len(t, job.Bullets, 2)

	require.Len(t, data.Education, 1)
	assert.Equal(t, "2014", data.Education[0].Year)
	assert.Equal(t, "Cand.merc.", data.Education[0].Degree)
	assert.Equal(t, "Copenhagen Business School", data.Education[0].Institution)

	assert.Equal(t, []string{"Projektledelse", "Budgettering", "Forhandling"}, data.Skills)

	require.Len(t, data.Languages, 2)
	assert.Equal(t, "Dansk", data.Languages[0].Language)
	assert.Equal(t, "modersmål", data.Languages[0].Level)
	assert.Equal(t, "Engelsk", data.Languages[1].Language)
	assert.Equal(t, "flydende", data.Languages[1].Level)
}

func TestParseNeverFailsOnMalformedInput(t *testing.T) {
	inputs := []string{
		"",
		"   \n\n\t\n",
		"no headers at all, just prose that goes on and on",
		"Experience",
		"Experience\n• bullet with no job entry above",
		strings.Repeat("•|–@,", 1000),
		"Skills\n,,,;;;",
		"Languages\n:-()",
	}

	for _, input := range inputs {
		data := Parse(input)
		// Worst case is an empty structure, never a panic
		_ = data
	}
}

func TestParseDateOnFollowingLine(t *testing.T) {
	cvText := `Work Experience
Senior Developer at Initech
2015 – 2018
• Shipped the TPS reporting module
`

	data := Parse(cvText)
	require.Len(t, data.Experience, 1)
	job := data.Experience[0]
	assert.Equal(t, "Senior Developer", job.Title)
	assert.Equal(t, "Initech", job.Company)
	assert.Equal(t, "2015", job.StartDate)
	assert.Equal(t, "2018", job.EndDate)
	assert.Equal(t, []string{"Shipped the TPS reporting module"}, job.Bullets)
}

func TestParseLongNarrativeBecomesDescriptionNotBullets(t *testing.T) {
	cvText := `Experience
Operations Manager | Globex | 2012 – 2016
Ran the day-to-day operations of a forty-person warehouse team.
Introduced a new shift-planning process adopted across three sites.
`

	data := Parse(cvText)
	require.Len(t, data.Experience, 1)
	job := data.Experience[0]
	assert.Empty(t, job.Bullets)
	assert.Contains(t, job.Description, "forty-person warehouse team")
	assert.Contains(t, job.Description, "shift-planning process")
}

func TestParseSectionHeaderClosesEntry(t *testing.T) {
	cvText := `Experience
Analyst | Hooli | 2019 – 2021
• Built dashboards
Education
BSc Economics, University of Copenhagen, 2016 – 2019
`

	data := Parse(cvText)
	require.Len(t, data.Experience, 1)
	assert.Equal(t, []string{"Built dashboards"}, data.Experience[0].Bullets)
	require.Len(t, data.Education, 1)
	assert.Equal(t, "2016 – 2019", data.Education[0].Year)
	assert.Equal(t, "BSc Economics", data.Education[0].Degree)
	assert.Equal(t, "University of Copenhagen", data.Education[0].Institution)
}

func TestParseSkillsOnBulletLines(t *testing.T) {
	cvText := `Skills
• Stakeholder management
• Data analysis, SQL
Negotiation; Procurement
`

	data := Parse(cvText)
	assert.Equal(t, []string{
		"Stakeholder management",
		"Data analysis", "SQL",
		"Negotiation", "Procurement",
	}, data.Skills)
}

func TestParseNumberedBullets(t *testing.T) {
	cvText := `Experience
Consultant | Umbrella | 2018 – 2020
1. Advised on supply chain resilience
2) Cut logistics costs by 8%
`

	data := Parse(cvText)
	require.Len(t, data.Experience, 1)
	assert.Equal(t, []string{
		"Advised on supply chain resilience",
		"Cut logistics costs by 8%",
	}, data.Experience[0].Bullets)
}

func TestParseLanguageWithoutLevel(t *testing.T) {
	cvText := "Languages\nGerman\nFrench - conversational\n"

	data := Parse(cvText)
	require.Len(t, data.Languages, 2)
	assert.Equal(t, "German", data.Languages[0].Language)
	assert.Empty(t, data.Languages[0].Level)
	assert.Equal(t, "French", data.Languages[1].Language)
	assert.Equal(t, "conversational", data.Languages[1].Level)
}

func TestParseUnclassifiableLinesAreDropped(t *testing.T) {
	cvText := `Experience
Coordinator | Acme | 2020 – 2022
ok
x
`
	data := Parse(cvText)
	require.Len(t, data.Experience, 1)
	// Short non-bulleted lines are neither bullets nor narrative
	assert.Empty(t, data.Experience[0].Description)
	assert.Empty(t, data.Experience[0].Bullets)
}

func TestParseSingleLocale(t *testing.T) {
	parser := NewParser(EnglishLocale())

	data := parser.Parse("Erhvervserfaring\nProjektleder hos Byggefirma, 2019 – nu\n")
	assert.Empty(t, data.Experience, "Danish headers should not match an English-only parser")

	data = parser.Parse("Experience\nCoordinator | Acme | 2019 – 2021\n")
	assert.Len(t, data.Experience, 1)
}

func TestExtractText(t *testing.T) {
	html := `<html><head><style>p{color:red}</style></head><body>
	<h2>Experience</h2>
	<p>Coordinator | Acme | 2020 – Present</p>
	<ul><li>Led X</li><li>Coordinated Y</li></ul>
	<script>alert("hi")</script>
	</body></html>`

	text := ExtractText(html)
	assert.Contains(t, text, "Experience\n")
	assert.Contains(t, text, "Coordinator | Acme | 2020 – Present")
	assert.NotContains(t, text, "alert")
	assert.NotContains(t, text, "color:red")

	data := Parse(text)
	if assert.Len(t, data.Experience, 1) {
		assert.Equal(t, "Coordinator", data.Experience[0].Title)
	}
}

func TestExtractTextMalformedHTML(t *testing.T) {
	out := ExtractText("<<<not html>>>")
	assert.NotPanics(t, func() { Parse(out) })
}
