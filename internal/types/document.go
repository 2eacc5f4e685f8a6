// Package types provides type definitions for the CV document model used throughout the engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// SuggestionStatus represents the lifecycle state of an AI suggestion
type SuggestionStatus string

// Valid suggestion statuses. A suggestion is never merged into the document
// silently; it has to pass through an explicit accept/edit/reject transition.
const (
	SuggestionPending  SuggestionStatus = "pending"
	SuggestionAccepted SuggestionStatus = "accepted"
	SuggestionEdited   SuggestionStatus = "edited"
	SuggestionRejected SuggestionStatus = "rejected"
)

// CVDocument is the root aggregate, one per job-application context
type CVDocument struct {
	ID           string           `json:"id"`
	JobContextID string           `json:"job_context_id"`
	Language     string           `json:"language"` // two-letter code, e.g. "en", "da"
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	LeftColumn   LeftColumn       `json:"left_column"`
	RightColumn  RightColumn      `json:"right_column"`
	Settings     DocumentSettings `json:"settings"`
	Checkpoints  []Checkpoint     `json:"checkpoints"`
}

// LeftColumn holds the factual sidebar of the document
type LeftColumn struct {
	ShowProfilePhoto bool            `json:"show_profile_photo"`
	PersonalData     *PersonalData   `json:"personal_data,omitempty"`
	Education        []EducationItem `json:"education"`
	Skills           []SkillItem     `json:"skills"`
	Languages        []LanguageItem  `json:"languages"`
}

// RightColumn holds the persuasive content of the document
type RightColumn struct {
	ProfessionalIntro IntroSection      `json:"professional_intro"`
	Experience        []ExperienceBlock `json:"experience"`
}

// IntroSection is the professional intro text with an optional pending suggestion
type IntroSection struct {
	Content      string        `json:"content"`
	AISuggestion *AISuggestion `json:"ai_suggestion,omitempty"`
}

// PersonalData holds contact fields, each individually toggle-enabled
type PersonalData struct {
	Name    PersonalField `json:"name"`
	Email   PersonalField `json:"email"`
	Phone   PersonalField `json:"phone"`
	Address PersonalField `json:"address"`
}

// PersonalField is a single personal-data value with a visibility toggle
type PersonalField struct {
	Value   string `json:"value"`
	Enabled bool   `json:"enabled"`
}

// ExperienceBlock represents one work-history entry.
// An absent EndDate means the role is ongoing, not that the date is missing.
type ExperienceBlock struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Company       string        `json:"company"`
	Location      string        `json:"location,omitempty"`
	StartDate     string        `json:"start_date"` // free-form display string
	EndDate       string        `json:"end_date,omitempty"`
	KeyMilestones string        `json:"key_milestones"`
	AISuggestion  *AISuggestion `json:"ai_suggestion,omitempty"` // suggestion for key milestones
	Bullets       []BulletItem  `json:"bullets"`
}

// BulletItem is a single achievement bullet, independently AI-suggestible
type BulletItem struct {
	ID           string        `json:"id"`
	Content      string        `json:"content"`
	AISuggestion *AISuggestion `json:"ai_suggestion,omitempty"`
}

// EducationItem represents one education entry.
// Year is stored as display text (single year or range), not parsed further.
type EducationItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

// SkillItem is a named skill. No levels; the list is unordered.
type SkillItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LanguageItem is a spoken language with a verbatim proficiency level.
// Level is display text taken from the source CV, not an enum.
type LanguageItem struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	Level    string `json:"level"`
}

// AISuggestion is a proposed rewrite for intro, milestones, or a bullet
type AISuggestion struct {
	ID               string           `json:"id"`
	OriginalContent  string           `json:"original_content"`
	SuggestedContent string           `json:"suggested_content"`
	Rationale        string           `json:"rationale,omitempty"`
	Status           SuggestionStatus `json:"status"`
	CreatedAt        time.Time        `json:"created_at"`
}

// DocumentSettings holds presentation-only choices; never affects content invariants
type DocumentSettings struct {
	FontFamily string `json:"font_family"`
	TextSize   string `json:"text_size"` // preset name: "small", "medium", "large"
}

// Checkpoint is a named, user-triggered full snapshot of the document
type Checkpoint struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Snapshot  string    `json:"snapshot"` // serialized CVDocument at creation time
}

// HasContent reports whether the document carries any user-visible content:
// a non-empty intro, or at least one experience, education, or skill entry.
func (d *CVDocument) HasContent() bool {
	if d == nil {
		return false
	}
	return d.RightColumn.ProfessionalIntro.Content != "" ||
		len(d.RightColumn.Experience) > 0 ||
		len(d.LeftColumn.Education) > 0 ||
		len(d.LeftColumn.Skills) > 0
}

// IsOngoing reports whether the experience block has no end date
func (b *ExperienceBlock) IsOngoing() bool {
	return b.EndDate == ""
}
