// Package normalizer reconciles up to four candidate CV sources into one
// document under a strict precedence order and a never-fabricate contract:
// no title, company, date, or skill appears in the output unless it was
// present in some input field.
package normalizer

import (
	"time"

	"github.com/jonathan/cvdoc/internal/dates"
	"github.com/jonathan/cvdoc/internal/textparse"
	"github.com/jonathan/cvdoc/internal/types"
)

// DefaultEditThreshold is how much updatedAt must trail createdAt before an
// existing document counts as user-edited. A pure auto-load finishes well
// inside this window.
const DefaultEditThreshold = 30 * time.Second

// RawData bundles the candidate sources for one job context
type RawData struct {
	CVText          string                     `json:"cv_text,omitempty"`
	Summary         string                     `json:"summary,omitempty"`
	LegacyExtracted *types.LegacyExtractedData `json:"legacy_extracted,omitempty"`
	AIStructured    *types.StructuredCVData    `json:"ai_structured,omitempty"`
}

// Normalizer builds CVDocuments from raw sources. The clock is injectable so
// normalization is reproducible in tests.
type Normalizer struct {
	now           func() time.Time
	parser        *textparse.Parser
	editThreshold time.Duration
}

// Option configures a Normalizer
type Option func(*Normalizer)

// WithNow overrides the clock used for document timestamps
func WithNow(now func() time.Time) Option {
	return func(n *Normalizer) { n.now = now }
}

// WithParser overrides the raw-text parser, e.g. to restrict locales
func WithParser(p *textparse.Parser) Option {
	return func(n *Normalizer) { n.parser = p }
}

// WithEditThreshold overrides the user-edit detection window
func WithEditThreshold(d time.Duration) Option {
	return func(n *Normalizer) { n.editThreshold = d }
}

// New creates a Normalizer with the default bilingual parser and system clock
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		now:           time.Now,
		parser:        textparse.NewParser(),
		editThreshold: DefaultEditThreshold,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize reconciles the sources into one document. Precedence, highest
// first: AI-structured data, the existing document with content, legacy
// extracted data, and finally a heuristic parse of the raw text. An existing
// document that shows evidence of user edits always wins over re-extraction.
func (n *Normalizer) Normalize(jobContextID string, raw RawData, existing *types.CVDocument) *types.CVDocument {
	if !raw.AIStructured.IsEmpty() {
		if n.HasUserEdits(existing) {
			return existing.Clone()
		}
		return n.fromStructured(jobContextID, raw)
	}

	if existing.HasContent() {
		return existing.Clone()
	}

	if !raw.LegacyExtracted.IsEmpty() {
		return n.fromLegacy(jobContextID, raw)
	}

	if parsed := n.parser.Parse(raw.CVText); !parsed.IsEmpty() {
		return n.fromParsed(jobContextID, raw, parsed)
	}

	return n.emptyDocument(jobContextID, detectLanguage(raw.CVText, raw.Summary))
}

// HasUserEdits applies the conservative manual-edit heuristic: at least one
// checkpoint, or an updatedAt that trails createdAt by more than the threshold.
// It has known false positives and negatives; it deliberately does not try to
// diff content.
func (n *Normalizer) HasUserEdits(doc *types.CVDocument) bool {
	if doc == nil {
		return false
	}
	if len(doc.Checkpoints) > 0 {
		return true
	}
	return doc.UpdatedAt.Sub(doc.CreatedAt) > n.editThreshold
}

func (n *Normalizer) emptyDocument(jobContextID, language string) *types.CVDocument {
	now := n.now()
	return &types.CVDocument{
		ID:           DocumentID(jobContextID),
		JobContextID: jobContextID,
		Language:     language,
		CreatedAt:    now,
		UpdatedAt:    now,
		LeftColumn: types.LeftColumn{
			Education: []types.EducationItem{},
			Skills:    []types.SkillItem{},
			Languages: []types.LanguageItem{},
		},
		RightColumn: types.RightColumn{
			Experience: []types.ExperienceBlock{},
		},
		Checkpoints: []types.Checkpoint{},
	}
}

func (n *Normalizer) fromStructured(jobContextID string, raw RawData) *types.CVDocument {
	src := raw.AIStructured
	lang := detectLanguage(raw.CVText, src.ProfessionalIntro)
	doc := n.emptyDocument(jobContextID, lang)

	doc.RightColumn.ProfessionalIntro.Content = src.ProfessionalIntro

	for i, exp := range src.Experience {
		block := types.ExperienceBlock{
			ID:            itemID(jobContextID, "experience", i),
			Title:         exp.Title,
			Company:       exp.Company,
			Location:      exp.Location,
			StartDate:     dates.FormatDisplay(exp.StartDate, lang),
			EndDate:       normalizeEndDate(exp.EndDate, lang),
			KeyMilestones: exp.KeyMilestones,
		}
		for j, bullet := range exp.Bullets {
			if bullet == "" {
				continue
			}
			block.Bullets = append(block.Bullets, types.BulletItem{
				ID:      bulletID(jobContextID, i, j),
				Content: bullet,
			})
		}
		doc.RightColumn.Experience = append(doc.RightColumn.Experience, block)
	}

	for i, edu := range src.Education {
		doc.LeftColumn.Education = append(doc.LeftColumn.Education, types.EducationItem{
			ID:          itemID(jobContextID, "education", i),
			Title:       edu.Title,
			Institution: edu.Institution,
			Year:        edu.Year,
		})
	}
	for i, skill := range src.Skills {
		if skill == "" {
			continue
		}
		doc.LeftColumn.Skills = append(doc.LeftColumn.Skills, types.SkillItem{
			ID:   itemID(jobContextID, "skill", i),
			Name: skill,
		})
	}
	for i, language := range src.Languages {
		doc.LeftColumn.Languages = append(doc.LeftColumn.Languages, types.LanguageItem{
			ID:       itemID(jobContextID, "language", i),
			Language: language.Language,
			Level:    language.Level,
		})
	}

	doc.RightColumn.Experience = dates.SortExperience(doc.RightColumn.Experience)
	return doc
}

func (n *Normalizer) fromLegacy(jobContextID string, raw RawData) *types.CVDocument {
	src := raw.LegacyExtracted
	parsed := types.ParsedCVData{
		Summary:    src.Summary,
		Experience: src.Experience,
		Education:  src.Education,
		Skills:     src.Skills,
		Languages:  src.Languages,
	}
	return n.fromParsed(jobContextID, raw, parsed)
}

func (n *Normalizer) fromParsed(jobContextID string, raw RawData, parsed types.ParsedCVData) *types.CVDocument {
	lang := detectLanguage(raw.CVText, parsed.Summary)
	doc := n.emptyDocument(jobContextID, lang)

	intro := parsed.Summary
	if intro == "" {
		intro = raw.Summary
	}
	doc.RightColumn.ProfessionalIntro.Content = intro

	for i, exp := range parsed.Experience {
		block := types.ExperienceBlock{
			ID:            itemID(jobContextID, "experience", i),
			Title:         exp.Title,
			Company:       exp.Company,
			StartDate:     dates.FormatDisplay(exp.StartDate, lang),
			EndDate:       normalizeEndDate(exp.EndDate, lang),
			KeyMilestones: exp.Description,
		}
		for j, bullet := range exp.Bullets {
			if bullet == "" {
				continue
			}
			block.Bullets = append(block.Bullets, types.BulletItem{
				ID:      bulletID(jobContextID, i, j),
				Content: bullet,
			})
		}
		doc.RightColumn.Experience = append(doc.RightColumn.Experience, block)
	}

	for i, edu := range parsed.Education {
		doc.LeftColumn.Education = append(doc.LeftColumn.Education, types.EducationItem{
			ID:          itemID(jobContextID, "education", i),
			Title:       edu.Degree,
			Institution: edu.Institution,
			Year:        edu.Year,
		})
	}
	for i, skill := range parsed.Skills {
		if skill == "" {
			continue
		}
		doc.LeftColumn.Skills = append(doc.LeftColumn.Skills, types.SkillItem{
			ID:   itemID(jobContextID, "skill", i),
			Name: skill,
		})
	}
	for i, language := range parsed.Languages {
		doc.LeftColumn.Languages = append(doc.LeftColumn.Languages, types.LanguageItem{
			ID:       itemID(jobContextID, "language", i),
			Language: language.Language,
			Level:    language.Level,
		})
	}

	doc.RightColumn.Experience = dates.SortExperience(doc.RightColumn.Experience)
	return doc
}

// normalizeEndDate maps present/current/ongoing markers to an absent end date
// and renders anything else for display. Absence is load-bearing: it means
// "ongoing", never "missing data".
func normalizeEndDate(endDate, lang string) string {
	if dates.IsOngoingMarker(endDate) {
		return ""
	}
	return dates.FormatDisplay(endDate, lang)
}
