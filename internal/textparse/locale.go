package textparse

import "regexp"

// Section identifies which CV section the scanner is currently inside
type Section int

// Scanner sections. SectionNone means no header has been seen yet.
const (
	SectionNone Section = iota
	SectionExperience
	SectionEducation
	SectionSkills
	SectionLanguages
	SectionSummary
)

// Locale maps parser concepts to the pattern sets of one language, keeping the
// scanning algorithm itself language-agnostic. Parse merges all active locales.
type Locale struct {
	Name string

	// SectionHeaders matches a whole line that opens a section
	SectionHeaders map[Section][]*regexp.Regexp

	// TitleKeywords mark a line as a likely job-entry boundary even without dates
	TitleKeywords []string

	// AtWords split "title at company" phrasings
	AtWords []string

	// LanguageLevels is the proficiency vocabulary, matched verbatim and
	// subtracted from a language line to leave the language name
	LanguageLevels []string
}

func headerPatterns(alternatives ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(alternatives))
	for _, alt := range alternatives {
		out = append(out, regexp.MustCompile(`(?i)^\s*`+alt+`\s*:?\s*$`))
	}
	return out
}

// EnglishLocale returns the English pattern table
func EnglishLocale() Locale {
	return Locale{
		Name: "en",
		SectionHeaders: map[Section][]*regexp.Regexp{
			SectionExperience: headerPatterns(
				`(work\s+)?experience`, `employment(\s+history)?`, `professional\s+experience`, `career(\s+history)?`,
			),
			SectionEducation: headerPatterns(`education`, `academic\s+background`, `qualifications`),
			SectionSkills:    headerPatterns(`(core\s+|key\s+|technical\s+)?skills`, `competenc(ies|es)`),
			SectionLanguages: headerPatterns(`languages?`),
			SectionSummary:   headerPatterns(`summary`, `profile`, `professional\s+summary`, `about(\s+me)?`, `objective`),
		},
		TitleKeywords: []string{
			"manager", "director", "engineer", "developer", "designer", "consultant",
			"coordinator", "assistant", "specialist", "analyst", "lead", "head of",
			"senior", "junior", "intern", "officer", "administrator", "architect",
		},
		AtWords: []string{"at"},
		LanguageLevels: []string{
			"native", "mother tongue", "bilingual", "fluent", "proficient",
			"advanced", "intermediate", "conversational", "basic", "beginner", "elementary",
		},
	}
}

// DanishLocale returns the Danish pattern table
func DanishLocale() Locale {
	return Locale{
		Name: "da",
		SectionHeaders: map[Section][]*regexp.Regexp{
			SectionExperience: headerPatterns(
				`erhvervserfaring`, `arbejdserfaring`, `erfaring`, `ansættelser`,
			),
			SectionEducation: headerPatterns(`uddannelse(r)?`, `kurser\s+og\s+uddannelse`),
			SectionSkills:    headerPatterns(`kompetencer`, `færdigheder`, `kvalifikationer`),
			SectionLanguages: headerPatterns(`sprog(kundskaber)?`),
			SectionSummary:   headerPatterns(`profil`, `resumé?`, `om\s+mig`, `kort\s+om\s+mig`),
		},
		TitleKeywords: []string{
			"chef", "leder", "udvikler", "konsulent", "koordinator", "assistent",
			"specialist", "analytiker", "ingeniør", "medarbejder", "ansvarlig",
			"direktør", "praktikant", "elev",
		},
		AtWords: []string{"hos", "ved"},
		LanguageLevels: []string{
			"modersmål", "flydende", "forhandlingsniveau", "øvet", "godt kendskab",
			"grundlæggende", "begynder", "letøvet",
		},
	}
}

// DefaultLocales are the locales active when the caller does not supply any
func DefaultLocales() []Locale {
	return []Locale{EnglishLocale(), DanishLocale()}
}
