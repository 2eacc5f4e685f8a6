// Package engine implements the document state machine: a pure reducer over a
// closed action set, bounded undo/redo snapshot stacks, and named checkpoints.
package engine

import "github.com/jonathan/cvdoc/internal/types"

// ActionType discriminates the closed action set
type ActionType string

// The closed action set. Every mutating action replaces the document with a
// new value; nothing is mutated in place.
const (
	ActionLoad           ActionType = "load"
	ActionCreateEmpty    ActionType = "create_empty"
	ActionUpdateDocument ActionType = "update_document"

	ActionToggleProfilePhoto ActionType = "toggle_profile_photo"
	ActionUpdatePersonalData ActionType = "update_personal_data"

	ActionAddEducation     ActionType = "add_education"
	ActionUpdateEducation  ActionType = "update_education"
	ActionRemoveEducation  ActionType = "remove_education"
	ActionReorderEducation ActionType = "reorder_education"

	ActionAddSkill      ActionType = "add_skill"
	ActionUpdateSkill   ActionType = "update_skill"
	ActionRemoveSkill   ActionType = "remove_skill"
	ActionReorderSkills ActionType = "reorder_skills"

	ActionAddLanguage      ActionType = "add_language"
	ActionUpdateLanguage   ActionType = "update_language"
	ActionRemoveLanguage   ActionType = "remove_language"
	ActionReorderLanguages ActionType = "reorder_languages"

	ActionAddExperience     ActionType = "add_experience"
	ActionUpdateExperience  ActionType = "update_experience"
	ActionRemoveExperience  ActionType = "remove_experience"
	ActionReorderExperience ActionType = "reorder_experience"

	ActionAddBullet    ActionType = "add_bullet"
	ActionUpdateBullet ActionType = "update_bullet"
	ActionRemoveBullet ActionType = "remove_bullet"

	ActionUpdateIntro    ActionType = "update_intro"
	ActionUpdateSettings ActionType = "update_settings"

	ActionSetSuggestion     ActionType = "set_suggestion"
	ActionClearSuggestion   ActionType = "clear_suggestion"
	ActionResolveSuggestion ActionType = "resolve_suggestion"
)

// SuggestionField names where a suggestion is attached
type SuggestionField string

// Suggestion attachment points
const (
	SuggestionFieldIntro      SuggestionField = "intro"
	SuggestionFieldMilestones SuggestionField = "milestones"
	SuggestionFieldBullet     SuggestionField = "bullet"
)

// SuggestionRef addresses one suggestion slot in the document
type SuggestionRef struct {
	Field        SuggestionField `json:"field"`
	ExperienceID string          `json:"experience_id,omitempty"`
	BulletID     string          `json:"bullet_id,omitempty"`
}

// DocumentPatch is the payload of the generic partial update. Nil fields are
// left untouched.
type DocumentPatch struct {
	Language     *string                 `json:"language,omitempty"`
	IntroContent *string                 `json:"intro_content,omitempty"`
	Settings     *types.DocumentSettings `json:"settings,omitempty"`
}

// Action is the tagged union the reducer switches over. Only the fields
// relevant to the Type are read; the rest stay zero.
type Action struct {
	Type ActionType `json:"type"`

	// Load
	Document *types.CVDocument `json:"document,omitempty"`

	// Generic partial update
	Patch *DocumentPatch `json:"patch,omitempty"`

	// Collection payloads
	Education  *types.EducationItem   `json:"education,omitempty"`
	Skill      *types.SkillItem       `json:"skill,omitempty"`
	Language   *types.LanguageItem    `json:"language,omitempty"`
	Experience *types.ExperienceBlock `json:"experience,omitempty"`
	Bullet     *types.BulletItem      `json:"bullet,omitempty"`

	// Addressing
	TargetID     string `json:"target_id,omitempty"`     // item to update or remove
	ExperienceID string `json:"experience_id,omitempty"` // owning block for bullet actions
	FromIndex    int    `json:"from_index,omitempty"`
	ToIndex      int    `json:"to_index,omitempty"`

	// Simple field updates
	Content      string                  `json:"content,omitempty"`
	PersonalData *types.PersonalData     `json:"personal_data,omitempty"`
	Settings     *types.DocumentSettings `json:"settings,omitempty"`

	// Suggestions
	Suggestion    *types.AISuggestion    `json:"suggestion,omitempty"`
	Ref           *SuggestionRef         `json:"ref,omitempty"`
	Resolution    types.SuggestionStatus `json:"resolution,omitempty"`
	EditedContent string                 `json:"edited_content,omitempty"`
}

// IsContentMutation reports whether dispatching the action must push the
// current document onto the undo stack. Suggestion attach/detach is ephemeral
// UI state, not a content edit; a rejected resolution leaves content alone.
// Load and create-empty establish a fresh baseline instead of editing one.
func (a Action) IsContentMutation() bool {
	switch a.Type {
	case ActionLoad, ActionCreateEmpty, ActionSetSuggestion, ActionClearSuggestion:
		return false
	case ActionResolveSuggestion:
		return a.Resolution == types.SuggestionAccepted || a.Resolution == types.SuggestionEdited
	default:
		return true
	}
}
