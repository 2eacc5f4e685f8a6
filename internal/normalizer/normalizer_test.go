package normalizer

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cvdoc/internal/types"
)

var fixedNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestNormalizer() *Normalizer {
	return New(WithNow(func() time.Time { return fixedNow }))
}

func structuredFixture() *types.StructuredCVData {
	return &types.StructuredCVData{
		ProfessionalIntro: "Experienced coordinator.",
		Experience: []types.StructuredExperience{
			{
				Title:     "Assistant",
				Company:   "Acme",
				StartDate: "2017-03",
				EndDate:   "2020-01",
				Bullets:   []string{"Scheduled meetings"},
			},
			{
				Title:         "Project Coordinator",
				Company:       "Acme",
				StartDate:     "2020-01",
				EndDate:       "Present",
				KeyMilestones: "Grew the PMO from two to eight people.",
				Bullets:       []string{"Led X", "Coordinated Y"},
			},
		},
		Education: []types.StructuredEducation{{Title: "BSc", Institution: "CBS", Year: "2016"}},
		Skills:    []string{"Planning", "Budgeting"},
		Languages: []types.StructuredLanguage{{Language: "Danish", Level: "Native"}},
	}
}

func TestNormalizeFromStructured(t *testing.T) {
	n := newTestNormalizer()
	doc := n.Normalize("job-1", RawData{AIStructured: structuredFixture()}, nil)

	require.NotNil(t, doc)
	assert.Equal(t, "job-1", doc.JobContextID)
	assert.Equal(t, "Experienced coordinator.", doc.RightColumn.ProfessionalIntro.Content)

	require.Len(t, doc.RightColumn.Experience, 2)
	// Sorted: ongoing role first even though the source listed it second
	first := doc.RightColumn.Experience[0]
	assert.Equal(t, "Project Coordinator", first.Title)
	assert.Empty(t, first.EndDate, "Present must normalize to an absent end date")
	assert.Equal(t, "January 2020", first.StartDate, "machine dates render as display text")
	require.Len(t, first.Bullets, 2)
	assert.Equal(t, "Led X", first.Bullets[0].Content)

	second := doc.RightColumn.Experience[1]
	assert.Equal(t, "Assistant", second.Title)
	assert.Equal(t, "January 2020", second.EndDate)
	assert.Equal(t, "March 2017", second.StartDate)

	require.Len(t, doc.LeftColumn.Education, 1)
	assert.Equal(t, "BSc", doc.LeftColumn.Education[0].Title)
	assert.Len(t, doc.LeftColumn.Skills, 2)
	require.Len(t, doc.LeftColumn.Languages, 1)
	assert.Equal(t, "Native", doc.LeftColumn.Languages[0].Level, "level is stored verbatim")
}

func TestNormalizePrecedenceUserEditsWin(t *testing.T) {
	n := newTestNormalizer()
	existing := &types.CVDocument{
		ID:           "existing",
		JobContextID: "job-1",
		CreatedAt:    fixedNow,
		UpdatedAt:    fixedNow,
		RightColumn: types.RightColumn{
			ProfessionalIntro: types.IntroSection{Content: "Hand-written intro"},
		},
		Checkpoints: []types.Checkpoint{{ID: "cp-1", Name: "my edit"}},
	}

	doc := n.Normalize("job-1", RawData{AIStructured: structuredFixture()}, existing)

	assert.Equal(t, existing, doc, "a checkpointed document must win over re-extraction")
	assert.NotSame(t, existing, doc, "the returned document is a copy, not the same pointer")
}

func TestNormalizePrecedenceElapsedTimeCountsAsEdit(t *testing.T) {
	n := newTestNormalizer()
	existing := &types.CVDocument{
		ID:        "existing",
		CreatedAt: fixedNow,
		UpdatedAt: fixedNow.Add(2 * time.Minute),
		RightColumn: types.RightColumn{
			ProfessionalIntro: types.IntroSection{Content: "Edited intro"},
		},
	}

	doc := n.Normalize("job-1", RawData{AIStructured: structuredFixture()}, existing)
	assert.Equal(t, "Edited intro", doc.RightColumn.ProfessionalIntro.Content)
}

func TestNormalizeStructuredBeatsUneditedExisting(t *testing.T) {
	n := newTestNormalizer()
	existing := &types.CVDocument{
		ID:        "existing",
		CreatedAt: fixedNow,
		UpdatedAt: fixedNow.Add(time.Second), // inside the auto-load window
		RightColumn: types.RightColumn{
			ProfessionalIntro: types.IntroSection{Content: "Auto-loaded intro"},
		},
	}

	doc := n.Normalize("job-1", RawData{AIStructured: structuredFixture()}, existing)
	assert.Equal(t, "Experienced coordinator.", doc.RightColumn.ProfessionalIntro.Content)
}

func TestNormalizeExistingBeatsLegacyAndRaw(t *testing.T) {
	n := newTestNormalizer()
	existing := &types.CVDocument{
		ID: "existing",
		LeftColumn: types.LeftColumn{
			Skills: []types.SkillItem{{ID: "s1", Name: "Carpentry"}},
		},
	}
	raw := RawData{
		CVText:          "Experience\nCoordinator | Acme | 2020 – 2022\n",
		LegacyExtracted: &types.LegacyExtractedData{Skills: []string{"Legacy skill"}},
	}

	doc := n.Normalize("job-1", raw, existing)
	require.Len(t, doc.LeftColumn.Skills, 1)
	assert.Equal(t, "Carpentry", doc.LeftColumn.Skills[0].Name)
}

func TestNormalizeLegacyBeatsRawText(t *testing.T) {
	n := newTestNormalizer()
	raw := RawData{
		CVText: "Experience\nCoordinator | Acme | 2020 – 2022\n",
		LegacyExtracted: &types.LegacyExtractedData{
			Experience: []types.ParsedExperience{{Title: "Legacy Title", Company: "Legacy Co", StartDate: "2019"}},
		},
	}

	doc := n.Normalize("job-1", raw, nil)
	require.Len(t, doc.RightColumn.Experience, 1)
	assert.Equal(t, "Legacy Title", doc.RightColumn.Experience[0].Title)
}

func TestNormalizeRawTextLastResort(t *testing.T) {
	n := newTestNormalizer()
	raw := RawData{CVText: "Experience\nCoordinator | Acme | 2020 – Present\n• Led X\n"}

	doc := n.Normalize("job-1", raw, nil)
	require.Len(t, doc.RightColumn.Experience, 1)
	block := doc.RightColumn.Experience[0]
	assert.Equal(t, "Coordinator", block.Title)
	assert.Equal(t, "Acme", block.Company)
	assert.Empty(t, block.EndDate)
	require.Len(t, block.Bullets, 1)
}

func TestNormalizeAllSourcesEmpty(t *testing.T) {
	n := newTestNormalizer()
	doc := n.Normalize("job-1", RawData{}, nil)

	require.NotNil(t, doc)
	assert.False(t, doc.HasContent())
	assert.Empty(t, doc.RightColumn.Experience)
	assert.Empty(t, doc.Checkpoints)
}

func TestNormalizeNeverFabricates(t *testing.T) {
	n := newTestNormalizer()
	doc := n.Normalize("job-1", RawData{
		AIStructured: &types.StructuredCVData{
			Experience: []types.StructuredExperience{{Title: "Dev"}},
		},
	}, nil)

	require.Len(t, doc.RightColumn.Experience, 1)
	block := doc.RightColumn.Experience[0]
	assert.Equal(t, "Dev", block.Title)
	assert.Empty(t, block.Company, "missing company stays empty, no placeholder")
	assert.Empty(t, block.StartDate)
	assert.Empty(t, block.KeyMilestones)
	assert.Empty(t, doc.RightColumn.ProfessionalIntro.Content)
	assert.Empty(t, doc.LeftColumn.Skills)
}

func TestNormalizeIdempotent(t *testing.T) {
	n := newTestNormalizer()
	raw := RawData{CVText: "Experience\nCoordinator | Acme | 2020 – Present\n• Led X\n"}

	first := n.Normalize("job-1", raw, nil)
	second := n.Normalize("job-1", raw, nil)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b), "normalization must be deterministic")
}

func TestNormalizeDeterministicIDsDifferAcrossContexts(t *testing.T) {
	n := newTestNormalizer()
	raw := RawData{AIStructured: structuredFixture()}

	doc1 := n.Normalize("job-1", raw, nil)
	doc2 := n.Normalize("job-2", raw, nil)
	assert.NotEqual(t, doc1.ID, doc2.ID)
	assert.NotEqual(t, doc1.RightColumn.Experience[0].ID, doc2.RightColumn.Experience[0].ID)
}

func TestNormalizeDanishLanguageDetection(t *testing.T) {
	n := newTestNormalizer()
	raw := RawData{
		CVText: "Erhvervserfaring\nProjektleder hos Byggefirma A/S, januar 2019 – nu\n",
	}

	doc := n.Normalize("job-1", raw, nil)
	assert.Equal(t, "da", doc.Language)
}

func TestNormalizeDanishDisplayDates(t *testing.T) {
	n := newTestNormalizer()
	raw := RawData{
		CVText: "Erhvervserfaring og profil",
		AIStructured: &types.StructuredCVData{
			Experience: []types.StructuredExperience{
				{Title: "Udvikler", StartDate: "2020-06", EndDate: "nuværende"},
			},
		},
	}

	doc := n.Normalize("job-1", raw, nil)
	require.Len(t, doc.RightColumn.Experience, 1)
	assert.Equal(t, "juni 2020", doc.RightColumn.Experience[0].StartDate)
	assert.Empty(t, doc.RightColumn.Experience[0].EndDate)
}

func TestNormalizeSummaryFallback(t *testing.T) {
	n := newTestNormalizer()
	raw := RawData{
		CVText:  "Experience\nCoordinator | Acme | 2020 – 2022\n",
		Summary: "Provided summary text.",
	}

	doc := n.Normalize("job-1", raw, nil)
	assert.Equal(t, "Provided summary text.", doc.RightColumn.ProfessionalIntro.Content)
}

func TestHasUserEdits(t *testing.T) {
	n := newTestNormalizer()

	assert.False(t, n.HasUserEdits(nil))
	assert.False(t, n.HasUserEdits(&types.CVDocument{CreatedAt: fixedNow, UpdatedAt: fixedNow}))
	assert.True(t, n.HasUserEdits(&types.CVDocument{Checkpoints: []types.Checkpoint{{ID: "cp"}}}))
	assert.True(t, n.HasUserEdits(&types.CVDocument{
		CreatedAt: fixedNow,
		UpdatedAt: fixedNow.Add(DefaultEditThreshold + time.Second),
	}))
	assert.False(t, n.HasUserEdits(&types.CVDocument{
		CreatedAt: fixedNow,
		UpdatedAt: fixedNow.Add(DefaultEditThreshold - time.Second),
	}))
}
