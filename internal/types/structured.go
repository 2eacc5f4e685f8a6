//nolint:revive // types is a standard Go package name pattern
package types

// StructuredCVData is the upstream structuring collaborator's cleaned,
// field-separated CV representation. It is the most trusted normalizer source.
type StructuredCVData struct {
	ProfessionalIntro string                 `json:"professional_intro,omitempty"`
	Experience        []StructuredExperience `json:"experience,omitempty"`
	Education         []StructuredEducation  `json:"education,omitempty"`
	Skills            []string               `json:"skills,omitempty"`
	Languages         []StructuredLanguage   `json:"languages,omitempty"`
}

// StructuredExperience is one work entry as delivered by the structuring collaborator
type StructuredExperience struct {
	Title         string   `json:"title"`
	Company       string   `json:"company"`
	Location      string   `json:"location,omitempty"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date,omitempty"`
	KeyMilestones string   `json:"key_milestones,omitempty"`
	Bullets       []string `json:"bullets,omitempty"`
}

// StructuredEducation is one education entry from the structuring collaborator
type StructuredEducation struct {
	Title       string `json:"title"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

// StructuredLanguage is a language plus verbatim level from the structuring collaborator
type StructuredLanguage struct {
	Language string `json:"language"`
	Level    string `json:"level"`
}

// IsEmpty reports whether the structured data carries nothing usable:
// no experience, education, or skill entry and no intro.
func (s *StructuredCVData) IsEmpty() bool {
	if s == nil {
		return true
	}
	return s.ProfessionalIntro == "" &&
		len(s.Experience) == 0 &&
		len(s.Education) == 0 &&
		len(s.Skills) == 0
}

// ParsedCVData is the heuristic text parser's best-effort output.
// Every field is optional; an empty value means the text did not yield it.
type ParsedCVData struct {
	Summary    string             `json:"summary,omitempty"`
	Experience []ParsedExperience `json:"experience,omitempty"`
	Education  []ParsedEducation  `json:"education,omitempty"`
	Skills     []string           `json:"skills,omitempty"`
	Languages  []ParsedLanguage   `json:"languages,omitempty"`
}

// ParsedExperience is one job entry detected in raw CV text
type ParsedExperience struct {
	Title       string   `json:"title"`
	Company     string   `json:"company,omitempty"`
	StartDate   string   `json:"start_date,omitempty"`
	EndDate     string   `json:"end_date,omitempty"`
	Description string   `json:"description,omitempty"` // free narrative, not bullets
	Bullets     []string `json:"bullets,omitempty"`
}

// ParsedEducation is one education line detected in raw CV text
type ParsedEducation struct {
	Degree      string `json:"degree,omitempty"`
	Institution string `json:"institution,omitempty"`
	Year        string `json:"year,omitempty"`
}

// ParsedLanguage is a language/level pair detected in raw CV text
type ParsedLanguage struct {
	Language string `json:"language"`
	Level    string `json:"level,omitempty"`
}

// IsEmpty reports whether the parse yielded nothing usable
func (p *ParsedCVData) IsEmpty() bool {
	if p == nil {
		return true
	}
	return p.Summary == "" &&
		len(p.Experience) == 0 &&
		len(p.Education) == 0 &&
		len(p.Skills) == 0 &&
		len(p.Languages) == 0
}

// LegacyExtractedData is structured data produced by an earlier extraction
// pipeline and persisted alongside the raw text. It maps field-for-field onto
// the document and sits below the existing document in normalizer precedence.
type LegacyExtractedData struct {
	Summary    string             `json:"summary,omitempty"`
	Experience []ParsedExperience `json:"experience,omitempty"`
	Education  []ParsedEducation  `json:"education,omitempty"`
	Skills     []string           `json:"skills,omitempty"`
	Languages  []ParsedLanguage   `json:"languages,omitempty"`
}

// IsEmpty reports whether the legacy extraction carries nothing usable
func (l *LegacyExtractedData) IsEmpty() bool {
	if l == nil {
		return true
	}
	return l.Summary == "" &&
		len(l.Experience) == 0 &&
		len(l.Education) == 0 &&
		len(l.Skills) == 0 &&
		len(l.Languages) == 0
}
