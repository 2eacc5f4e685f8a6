package schemas

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cvdoc/internal/types"
)

func validDocument() *types.CVDocument {
	return &types.CVDocument{
		ID:           "doc-1",
		JobContextID: "job-1",
		Language:     "en",
		CreatedAt:    time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		LeftColumn: types.LeftColumn{
			Skills: []types.SkillItem{{ID: "sk-1", Name: "Planning"}},
		},
		RightColumn: types.RightColumn{
			ProfessionalIntro: types.IntroSection{Content: "Intro"},
			Experience: []types.ExperienceBlock{
				{
					ID: "exp-1", Title: "Coordinator", StartDate: "January 2020",
					Bullets: []types.BulletItem{{ID: "b-1", Content: "Led X"}},
				},
			},
		},
	}
}

func marshalDocument(t *testing.T, doc *types.CVDocument) string {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	return string(data)
}

func TestValidateDocumentAccepts(t *testing.T) {
	assert.NoError(t, ValidateDocument(marshalDocument(t, validDocument())))
}

func TestValidateDocumentMissingIdentity(t *testing.T) {
	doc := validDocument()
	doc.JobContextID = ""

	err := ValidateDocument(marshalDocument(t, doc))
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.NotEmpty(t, ve.Errors)
	assert.Contains(t, ve.Error(), "job_context_id")
}

func TestValidateDocumentBadSuggestionStatus(t *testing.T) {
	doc := validDocument()
	doc.RightColumn.ProfessionalIntro.AISuggestion = &types.AISuggestion{
		ID:     "sug-1",
		Status: "maybe",
	}

	err := ValidateDocument(marshalDocument(t, doc))
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestValidateDocumentBadLanguage(t *testing.T) {
	doc := validDocument()
	doc.Language = "fr"
	assert.Error(t, ValidateDocument(marshalDocument(t, doc)))
}

func TestValidateDocumentNotJSON(t *testing.T) {
	assert.Error(t, ValidateDocument("{not json"))
}
