// Package textparse turns raw, loosely-structured CV text into best-effort
// structured data. It is a pure heuristic scanner: no side effects, no network,
// and no failure mode beyond returning an empty structure.
package textparse

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/cvdoc/internal/dates"
	"github.com/jonathan/cvdoc/internal/types"
)

// minNarrativeLen is the shortest non-bulleted line that still counts as part
// of a job entry's narrative description.
const minNarrativeLen = 25

var (
	bulletRe = regexp.MustCompile(`^\s*(?:[•▪‣◦·*]|[-–—]|\d{1,2}[.)])\s+`)

	// dateRangeRe finds a candidate "start – end" token. Both sides are
	// validated with dates.Parse afterwards, so a loose left alternative like
	// "Word 2020" does not need to be a real month here.
	dateRangeRe = regexp.MustCompile(
		`(?i)([A-Za-zæøåÆØÅ]+\.?\s+\d{4}|\d{4}(?:-\d{2})?)\s*[–—−-]\s*` +
			`([A-Za-zæøåÆØÅ]+\.?\s+\d{4}|\d{4}(?:-\d{2})?|[A-Za-zæøåÆØÅ]+\.?(?:\s+[A-Za-zæøåÆØÅ]+)?)`)

	yearTokenRe  = regexp.MustCompile(`\d{4}(?:\s*[–—−-]\s*\d{4})?`)
	skillSplitRe = regexp.MustCompile(`[,;•·|]`)
)

// Parser is a locale-driven CV text scanner
type Parser struct {
	locales []Locale
}

// NewParser creates a parser with the given locale tables. With no arguments
// it scans bilingually using the default English and Danish tables.
func NewParser(locales ...Locale) *Parser {
	if len(locales) == 0 {
		locales = DefaultLocales()
	}
	return &Parser{locales: locales}
}

// Parse runs the default bilingual parser over raw CV text
func Parse(cvText string) types.ParsedCVData {
	return NewParser().Parse(cvText)
}

// Parse scans the text line by line, switching sections on header lines and
// collecting entries with each section's per-line parser. Lines that cannot be
// classified are dropped; nothing is guessed beyond what is textually present.
func (p *Parser) Parse(cvText string) types.ParsedCVData {
	var (
		data         types.ParsedCVData
		section      = SectionNone
		current      *types.ParsedExperience
		summaryLines []string
	)

	flush := func() {
		if current != nil {
			data.Experience = append(data.Experience, *current)
			current = nil
		}
	}

	for _, rawLine := range strings.Split(cvText, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		if next, ok := p.matchSectionHeader(line); ok {
			flush()
			section = next
			continue
		}

		switch section {
		case SectionExperience:
			p.scanExperienceLine(line, &current, flush)
		case SectionEducation:
			if item, ok := parseEducationLine(line); ok {
				data.Education = append(data.Education, item)
			}
		case SectionSkills:
			data.Skills = append(data.Skills, splitSkills(line)...)
		case SectionLanguages:
			if item, ok := p.parseLanguageLine(line); ok {
				data.Languages = append(data.Languages, item)
			}
		case SectionSummary:
			if !isBulletLine(line) {
				summaryLines = append(summaryLines, line)
			}
		}
	}
	flush()

	if len(summaryLines) > 0 {
		data.Summary = strings.Join(summaryLines, " ")
	}
	return data
}

// scanExperienceLine classifies one line inside the experience section
func (p *Parser) scanExperienceLine(line string, current **types.ParsedExperience, flush func()) {
	if isBulletLine(line) {
		if *current != nil {
			(*current).Bullets = append((*current).Bullets, stripBullet(line))
		}
		return
	}

	start, end, rest, hasRange := findDateRange(line)

	if hasRange && rest == "" && *current != nil && (*current).StartDate == "" {
		// Date line belonging to the entry opened on the previous line
		(*current).StartDate = start
		(*current).EndDate = end
		return
	}

	if hasRange || p.looksLikeJobTitle(line) {
		flush()
		entry := types.ParsedExperience{StartDate: start, EndDate: end}
		entry.Title, entry.Company = p.splitTitleCompany(rest)
		if !hasRange {
			entry.Title, entry.Company = p.splitTitleCompany(line)
		}
		*current = &entry
		return
	}

	if *current != nil && len(line) >= minNarrativeLen {
		if (*current).Description != "" {
			(*current).Description += " "
		}
		(*current).Description += line
	}
}

// matchSectionHeader checks the line against every active locale's header table
func (p *Parser) matchSectionHeader(line string) (Section, bool) {
	for _, locale := range p.locales {
		for section, patterns := range locale.SectionHeaders {
			for _, re := range patterns {
				if re.MatchString(line) {
					return section, true
				}
			}
		}
	}
	return SectionNone, false
}

// looksLikeJobTitle reports whether a line matches the seniority/role keyword tables
func (p *Parser) looksLikeJobTitle(line string) bool {
	lower := strings.ToLower(line)
	for _, locale := range p.locales {
		for _, keyword := range locale.TitleKeywords {
			if strings.Contains(lower, keyword) {
				return true
			}
		}
	}
	return false
}

// findDateRange extracts the first valid "start – end" token from the line.
// Validity is decided by the date interpreter: the left side must parse to a
// real calendar order and the right side to a calendar order or an ongoing
// marker. The returned rest is the line with the range removed.
func findDateRange(line string) (start, end, rest string, ok bool) {
	for _, m := range dateRangeRe.FindAllStringSubmatchIndex(line, -1) {
		s := line[m[2]:m[3]]
		e := line[m[4]:m[5]]
		if dates.Parse(s).Order == dates.OrderUnknown || dates.Parse(s).IsOngoing {
			continue
		}
		if dates.Parse(e).Order == dates.OrderUnknown && !dates.IsOngoingMarker(e) {
			continue
		}
		if dates.IsOngoingMarker(e) {
			end = ""
		} else {
			end = e
		}
		rest = strings.TrimSpace(line[:m[0]] + " " + line[m[1]:])
		rest = strings.Trim(rest, "|,@-–— \t")
		return s, end, strings.TrimSpace(rest), true
	}
	return "", "", line, false
}

// splitTitleCompany splits the non-date remainder of a job-entry line into
// title and company on the usual separators.
func (p *Parser) splitTitleCompany(s string) (title, company string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ""
	}

	for _, sep := range []string{"|", "@"} {
		if idx := strings.Index(s, sep); idx >= 0 {
			return trimEntryPart(s[:idx]), trimEntryPart(s[idx+len(sep):])
		}
	}

	lower := strings.ToLower(s)
	for _, locale := range p.locales {
		for _, at := range locale.AtWords {
			needle := " " + at + " "
			if idx := strings.Index(lower, needle); idx >= 0 {
				return trimEntryPart(s[:idx]), trimEntryPart(s[idx+len(needle):])
			}
		}
	}

	if idx := strings.Index(s, ","); idx >= 0 {
		return trimEntryPart(s[:idx]), trimEntryPart(s[idx+1:])
	}

	return trimEntryPart(s), ""
}

func trimEntryPart(s string) string {
	return strings.Trim(strings.TrimSpace(s), "|,@-–—")
}

func isBulletLine(line string) bool {
	return bulletRe.MatchString(line)
}

func stripBullet(line string) string {
	return strings.TrimSpace(bulletRe.ReplaceAllString(line, ""))
}

// parseEducationLine pulls a year or year-range token out of the line and
// splits the remainder into degree and institution.
func parseEducationLine(line string) (types.ParsedEducation, bool) {
	if isBulletLine(line) {
		line = stripBullet(line)
	}
	if line == "" {
		return types.ParsedEducation{}, false
	}

	var item types.ParsedEducation
	rest := line
	if loc := yearTokenRe.FindStringIndex(line); loc != nil {
		item.Year = strings.TrimSpace(line[loc[0]:loc[1]])
		rest = strings.TrimSpace(line[:loc[0]] + " " + line[loc[1]:])
	}

	rest = strings.Trim(rest, "|,–—- \t()")
	if rest == "" {
		if item.Year == "" {
			return types.ParsedEducation{}, false
		}
		return item, true
	}

	for _, sep := range []string{"|", ",", " - ", " – "} {
		if idx := strings.Index(rest, sep); idx >= 0 {
			item.Degree = strings.TrimSpace(rest[:idx])
			item.Institution = strings.Trim(strings.TrimSpace(rest[idx+len(sep):]), ",|")
			return item, true
		}
	}

	item.Degree = rest
	return item, true
}

// splitSkills splits a skills line on commas, semicolons, and bullet glyphs
func splitSkills(line string) []string {
	if isBulletLine(line) {
		line = stripBullet(line)
	}
	var out []string
	for _, part := range skillSplitRe.Split(line, -1) {
		if skill := strings.TrimSpace(part); skill != "" {
			out = append(out, skill)
		}
	}
	return out
}

// parseLanguageLine matches the proficiency vocabulary against the line and
// subtracts the matched keyword, leaving the language name. The level keeps
// the casing it had in the source text.
func (p *Parser) parseLanguageLine(line string) (types.ParsedLanguage, bool) {
	if isBulletLine(line) {
		line = stripBullet(line)
	}
	if line == "" {
		return types.ParsedLanguage{}, false
	}

	lower := strings.ToLower(line)
	var levels []string
	for _, locale := range p.locales {
		levels = append(levels, locale.LanguageLevels...)
	}
	// Longest keyword first so "mother tongue" wins over shorter matches
	sort.Slice(levels, func(i, j int) bool { return len(levels[i]) > len(levels[j]) })

	for _, keyword := range levels {
		idx := strings.Index(lower, keyword)
		if idx < 0 {
			continue
		}
		level := line[idx : idx+len(keyword)]
		language := strings.Trim(strings.TrimSpace(line[:idx]+line[idx+len(keyword):]), ":,-–—()| \t")
		if language == "" {
			continue
		}
		return types.ParsedLanguage{Language: language, Level: level}, true
	}

	language := strings.Trim(line, ":,-–—()| \t")
	if language == "" {
		return types.ParsedLanguage{}, false
	}
	return types.ParsedLanguage{Language: language}, true
}
