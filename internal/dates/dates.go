// Package dates interprets the heterogeneous date strings found in CVs and
// keeps work history in reverse-chronological order.
package dates

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/cvdoc/internal/types"
)

// Order sentinels. Ongoing roles sort before everything; unparsable dates
// sort after every dated entry instead of failing.
const (
	OrderOngoing int64 = math.MaxInt64
	OrderUnknown int64 = math.MinInt64
)

// DateValue is the comparable form of a CV date string
type DateValue struct {
	Order     int64
	IsOngoing bool
}

// ongoingMarkers are the textual "still employed" markers in both supported locales
var ongoingMarkers = map[string]struct{}{
	"present":       {},
	"current":       {},
	"now":           {},
	"ongoing":       {},
	"today":         {},
	"nu":            {},
	"nuværende":     {},
	"i dag":         {},
	"idag":          {},
	"igangværende":  {},
	"stadig ansat":  {},
	"til nu":        {},
	"present day":   {},
	"until present": {},
}

// monthIndex maps lowercase English and Danish month names and common
// abbreviations to their calendar month.
var monthIndex = map[string]time.Month{
	"january": time.January, "jan": time.January, "januar": time.January,
	"february": time.February, "feb": time.February, "februar": time.February,
	"march": time.March, "mar": time.March, "marts": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May, "maj": time.May,
	"june": time.June, "jun": time.June, "juni": time.June,
	"july": time.July, "jul": time.July, "juli": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October, "oktober": time.October, "okt": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// displayMonths are the month names used when rendering a machine date for display
var displayMonths = map[string][12]string{
	"en": {"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"},
	"da": {"januar", "februar", "marts", "april", "maj", "juni",
		"juli", "august", "september", "oktober", "november", "december"},
}

var (
	monthYearRe   = regexp.MustCompile(`^([a-zA-ZæøåÆØÅ]+)\.?\s+(\d{4})$`)
	bareYearRe    = regexp.MustCompile(`^\d{4}$`)
	machineDateRe = regexp.MustCompile(`^(\d{4})-(\d{2})$`)
)

// fallbackLayouts are tried when the string matches none of the known CV forms
var fallbackLayouts = []string{
	"2006-01-02",
	"2006-01",
	"01/2006",
	"2006/01",
	"02.01.2006",
	"January 2, 2006",
}

// Parse interprets a free-form date string. It never fails: an empty string or
// an ongoing marker yields an ongoing value, and anything unrecognizable
// yields OrderUnknown so it sorts last among finished entries.
func Parse(s string) DateValue {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return DateValue{Order: OrderOngoing, IsOngoing: true}
	}

	lower := strings.ToLower(trimmed)
	if _, ok := ongoingMarkers[lower]; ok {
		return DateValue{Order: OrderOngoing, IsOngoing: true}
	}

	if m := monthYearRe.FindStringSubmatch(trimmed); m != nil {
		if month, ok := monthIndex[strings.ToLower(m[1])]; ok {
			year, _ := strconv.Atoi(m[2])
			t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
			return DateValue{Order: t.Unix()}
		}
	}

	if bareYearRe.MatchString(trimmed) {
		year, _ := strconv.Atoi(trimmed)
		t := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return DateValue{Order: t.Unix()}
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return DateValue{Order: t.Unix()}
		}
	}

	return DateValue{Order: OrderUnknown}
}

// IsOngoingMarker reports whether the string is a textual "present/current"
// marker in either supported locale. An empty string is not a marker; absence
// already means ongoing.
func IsOngoingMarker(s string) bool {
	_, ok := ongoingMarkers[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// SortExperience returns the blocks sorted under the standing invariant:
// ongoing roles first (most recent start first), then finished roles by end
// date descending, ties broken by start date descending. The sort is stable,
// so undated entries keep their relative order at the bottom.
func SortExperience(blocks []types.ExperienceBlock) []types.ExperienceBlock {
	sorted := make([]types.ExperienceBlock, len(blocks))
	copy(sorted, blocks)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := &sorted[i], &sorted[j]
		aEnd, bEnd := Parse(a.EndDate), Parse(b.EndDate)

		if aEnd.IsOngoing && bEnd.IsOngoing {
			return Parse(a.StartDate).Order > Parse(b.StartDate).Order
		}
		if aEnd.IsOngoing != bEnd.IsOngoing {
			return aEnd.IsOngoing
		}
		if aEnd.Order != bEnd.Order {
			return aEnd.Order > bEnd.Order
		}
		return Parse(a.StartDate).Order > Parse(b.StartDate).Order
	})

	return sorted
}

// FormatDisplay renders a date string for display in the given language.
// A machine "YYYY-MM" form becomes a localized month-name/year string; a
// string that already contains letters is passed through with whitespace and
// punctuation normalized; a bare year passes through unchanged.
func FormatDisplay(s, lang string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}

	if m := machineDateRe.FindStringSubmatch(trimmed); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 {
			names, ok := displayMonths[lang]
			if !ok {
				names = displayMonths["en"]
			}
			return fmt.Sprintf("%s %d", names[month-1], year)
		}
		return trimmed
	}

	if strings.ContainsFunc(trimmed, isLetter) {
		return normalizeDisplay(trimmed)
	}

	return trimmed
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		strings.ContainsRune("æøåÆØÅ", r)
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// normalizeDisplay collapses whitespace runs and strips trailing punctuation
func normalizeDisplay(s string) string {
	out := whitespaceRe.ReplaceAllString(s, " ")
	out = strings.TrimSpace(out)
	return strings.TrimRight(out, ".,;:")
}
