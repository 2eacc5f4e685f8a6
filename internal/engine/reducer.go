package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/cvdoc/internal/dates"
	"github.com/jonathan/cvdoc/internal/types"
)

// Reducer errors. ErrNotFound covers any action addressing an id that is not
// in the document.
var (
	ErrNotFound       = errors.New("target not found")
	ErrMissingPayload = errors.New("action payload missing")
)

// Apply is the state transition function: it takes the current document and
// an action and returns the next document as a new value. The input document
// is never modified. Content mutations refresh UpdatedAt; ephemeral
// suggestion attach/detach does not, so an auto-attached suggestion cannot
// masquerade as a manual edit. Any action that can touch experience dates
// re-sorts the work history so the reverse-chronological invariant holds
// after every transition.
func Apply(doc *types.CVDocument, action Action, now time.Time) (*types.CVDocument, error) {
	switch action.Type {
	case ActionLoad:
		if action.Document == nil {
			return nil, fmt.Errorf("load: %w", ErrMissingPayload)
		}
		next := action.Document.Clone()
		next.RightColumn.Experience = dates.SortExperience(next.RightColumn.Experience)
		return next, nil
	case ActionCreateEmpty:
		return createEmpty(doc, now), nil
	}

	if doc == nil {
		return nil, fmt.Errorf("%s: no document loaded", action.Type)
	}

	next := doc.Clone()
	if err := mutate(next, action); err != nil {
		return nil, err
	}
	if action.IsContentMutation() {
		next.UpdatedAt = now
	}
	return next, nil
}

// createEmpty keeps the identity of the current document (if any) and resets
// all content. Absent fields stay empty; nothing is filled with placeholders.
func createEmpty(doc *types.CVDocument, now time.Time) *types.CVDocument {
	next := &types.CVDocument{
		CreatedAt: now,
		UpdatedAt: now,
		LeftColumn: types.LeftColumn{
			Education: []types.EducationItem{},
			Skills:    []types.SkillItem{},
			Languages: []types.LanguageItem{},
		},
		RightColumn: types.RightColumn{Experience: []types.ExperienceBlock{}},
		Checkpoints: []types.Checkpoint{},
	}
	if doc != nil {
		next.ID = doc.ID
		next.JobContextID = doc.JobContextID
		next.Language = doc.Language
		next.CreatedAt = doc.CreatedAt
	}
	return next
}

//nolint:gocyclo // a reducer is one switch over the whole action set by design
func mutate(next *types.CVDocument, action Action) error {
	switch action.Type {
	case ActionUpdateDocument:
		return applyPatch(next, action.Patch)

	case ActionToggleProfilePhoto:
		next.LeftColumn.ShowProfilePhoto = !next.LeftColumn.ShowProfilePhoto
		return nil

	case ActionUpdatePersonalData:
		if action.PersonalData == nil {
			next.LeftColumn.PersonalData = nil
			return nil
		}
		pd := *action.PersonalData
		next.LeftColumn.PersonalData = &pd
		return nil

	case ActionAddEducation:
		if action.Education == nil {
			return fmt.Errorf("add_education: %w", ErrMissingPayload)
		}
		next.LeftColumn.Education = append(next.LeftColumn.Education, *action.Education)
		return nil
	case ActionUpdateEducation:
		if action.Education == nil {
			return fmt.Errorf("update_education: %w", ErrMissingPayload)
		}
		for i := range next.LeftColumn.Education {
			if next.LeftColumn.Education[i].ID == action.Education.ID {
				next.LeftColumn.Education[i] = *action.Education
				return nil
			}
		}
		return fmt.Errorf("update_education %s: %w", action.Education.ID, ErrNotFound)
	case ActionRemoveEducation:
		kept, removed := removeByID(next.LeftColumn.Education, action.TargetID,
			func(item types.EducationItem) string { return item.ID })
		if !removed {
			return fmt.Errorf("remove_education %s: %w", action.TargetID, ErrNotFound)
		}
		next.LeftColumn.Education = kept
		return nil
	case ActionReorderEducation:
		return move(next.LeftColumn.Education, action.FromIndex, action.ToIndex)

	case ActionAddSkill:
		if action.Skill == nil {
			return fmt.Errorf("add_skill: %w", ErrMissingPayload)
		}
		next.LeftColumn.Skills = append(next.LeftColumn.Skills, *action.Skill)
		return nil
	case ActionUpdateSkill:
		if action.Skill == nil {
			return fmt.Errorf("update_skill: %w", ErrMissingPayload)
		}
		for i := range next.LeftColumn.Skills {
			if next.LeftColumn.Skills[i].ID == action.Skill.ID {
				next.LeftColumn.Skills[i] = *action.Skill
				return nil
			}
		}
		return fmt.Errorf("update_skill %s: %w", action.Skill.ID, ErrNotFound)
	case ActionRemoveSkill:
		kept, removed := removeByID(next.LeftColumn.Skills, action.TargetID,
			func(item types.SkillItem) string { return item.ID })
		if !removed {
			return fmt.Errorf("remove_skill %s: %w", action.TargetID, ErrNotFound)
		}
		next.LeftColumn.Skills = kept
		return nil
	case ActionReorderSkills:
		return move(next.LeftColumn.Skills, action.FromIndex, action.ToIndex)

	case ActionAddLanguage:
		if action.Language == nil {
			return fmt.Errorf("add_language: %w", ErrMissingPayload)
		}
		next.LeftColumn.Languages = append(next.LeftColumn.Languages, *action.Language)
		return nil
	case ActionUpdateLanguage:
		if action.Language == nil {
			return fmt.Errorf("update_language: %w", ErrMissingPayload)
		}
		for i := range next.LeftColumn.Languages {
			if next.LeftColumn.Languages[i].ID == action.Language.ID {
				next.LeftColumn.Languages[i] = *action.Language
				return nil
			}
		}
		return fmt.Errorf("update_language %s: %w", action.Language.ID, ErrNotFound)
	case ActionRemoveLanguage:
		kept, removed := removeByID(next.LeftColumn.Languages, action.TargetID,
			func(item types.LanguageItem) string { return item.ID })
		if !removed {
			return fmt.Errorf("remove_language %s: %w", action.TargetID, ErrNotFound)
		}
		next.LeftColumn.Languages = kept
		return nil
	case ActionReorderLanguages:
		return move(next.LeftColumn.Languages, action.FromIndex, action.ToIndex)

	case ActionAddExperience, ActionUpdateExperience, ActionRemoveExperience, ActionReorderExperience:
		if err := mutateExperience(next, action); err != nil {
			return err
		}
		next.RightColumn.Experience = dates.SortExperience(next.RightColumn.Experience)
		return nil

	case ActionAddBullet, ActionUpdateBullet, ActionRemoveBullet:
		return mutateBullet(next, action)

	case ActionUpdateIntro:
		next.RightColumn.ProfessionalIntro.Content = action.Content
		return nil

	case ActionUpdateSettings:
		if action.Settings == nil {
			return fmt.Errorf("update_settings: %w", ErrMissingPayload)
		}
		next.Settings = *action.Settings
		return nil

	case ActionSetSuggestion, ActionClearSuggestion, ActionResolveSuggestion:
		return mutateSuggestion(next, action)

	default:
		return fmt.Errorf("unknown action type %q", action.Type)
	}
}

func applyPatch(next *types.CVDocument, patch *DocumentPatch) error {
	if patch == nil {
		return fmt.Errorf("update_document: %w", ErrMissingPayload)
	}
	if patch.Language != nil {
		next.Language = *patch.Language
	}
	if patch.IntroContent != nil {
		next.RightColumn.ProfessionalIntro.Content = *patch.IntroContent
	}
	if patch.Settings != nil {
		next.Settings = *patch.Settings
	}
	return nil
}

func mutateExperience(next *types.CVDocument, action Action) error {
	switch action.Type {
	case ActionAddExperience:
		if action.Experience == nil {
			return fmt.Errorf("add_experience: %w", ErrMissingPayload)
		}
		next.RightColumn.Experience = append(next.RightColumn.Experience, action.Experience.Clone())
		return nil
	case ActionUpdateExperience:
		if action.Experience == nil {
			return fmt.Errorf("update_experience: %w", ErrMissingPayload)
		}
		for i := range next.RightColumn.Experience {
			if next.RightColumn.Experience[i].ID == action.Experience.ID {
				next.RightColumn.Experience[i] = action.Experience.Clone()
				return nil
			}
		}
		return fmt.Errorf("update_experience %s: %w", action.Experience.ID, ErrNotFound)
	case ActionRemoveExperience:
		kept, removed := removeByID(next.RightColumn.Experience, action.TargetID,
			func(block types.ExperienceBlock) string { return block.ID })
		if !removed {
			return fmt.Errorf("remove_experience %s: %w", action.TargetID, ErrNotFound)
		}
		next.RightColumn.Experience = kept
		return nil
	default: // ActionReorderExperience
		// The chronological sort still runs afterwards, so reordering can
		// only rearrange blocks whose dates compare equal.
		return move(next.RightColumn.Experience, action.FromIndex, action.ToIndex)
	}
}

func mutateBullet(next *types.CVDocument, action Action) error {
	block := findExperience(next, action.ExperienceID)
	if block == nil {
		return fmt.Errorf("%s: experience %s: %w", action.Type, action.ExperienceID, ErrNotFound)
	}

	switch action.Type {
	case ActionAddBullet:
		if action.Bullet == nil {
			return fmt.Errorf("add_bullet: %w", ErrMissingPayload)
		}
		block.Bullets = append(block.Bullets, *action.Bullet)
		return nil
	case ActionUpdateBullet:
		if action.Bullet == nil {
			return fmt.Errorf("update_bullet: %w", ErrMissingPayload)
		}
		for i := range block.Bullets {
			if block.Bullets[i].ID == action.Bullet.ID {
				block.Bullets[i] = *action.Bullet
				return nil
			}
		}
		return fmt.Errorf("update_bullet %s: %w", action.Bullet.ID, ErrNotFound)
	default: // ActionRemoveBullet
		kept, removed := removeByID(block.Bullets, action.TargetID,
			func(bullet types.BulletItem) string { return bullet.ID })
		if !removed {
			return fmt.Errorf("remove_bullet %s: %w", action.TargetID, ErrNotFound)
		}
		block.Bullets = kept
		return nil
	}
}

func mutateSuggestion(next *types.CVDocument, action Action) error {
	if action.Ref == nil {
		return fmt.Errorf("%s: %w", action.Type, ErrMissingPayload)
	}
	slot, setContent, err := findSuggestionSlot(next, action.Ref)
	if err != nil {
		return err
	}

	switch action.Type {
	case ActionSetSuggestion:
		if action.Suggestion == nil {
			return fmt.Errorf("set_suggestion: %w", ErrMissingPayload)
		}
		suggestion := *action.Suggestion
		if suggestion.Status == "" {
			suggestion.Status = types.SuggestionPending
		}
		*slot = &suggestion
		return nil
	case ActionClearSuggestion:
		*slot = nil
		return nil
	default: // ActionResolveSuggestion
		if *slot == nil {
			return fmt.Errorf("resolve_suggestion: no suggestion attached: %w", ErrNotFound)
		}
		switch action.Resolution {
		case types.SuggestionAccepted:
			setContent((*slot).SuggestedContent)
			(*slot).Status = types.SuggestionAccepted
		case types.SuggestionEdited:
			setContent(action.EditedContent)
			(*slot).Status = types.SuggestionEdited
		case types.SuggestionRejected:
			(*slot).Status = types.SuggestionRejected
		default:
			return fmt.Errorf("resolve_suggestion: invalid resolution %q", action.Resolution)
		}
		return nil
	}
}

// findSuggestionSlot returns the suggestion pointer slot the ref addresses
// and a setter for the content field the suggestion targets.
func findSuggestionSlot(doc *types.CVDocument, ref *SuggestionRef) (**types.AISuggestion, func(string), error) {
	switch ref.Field {
	case SuggestionFieldIntro:
		intro := &doc.RightColumn.ProfessionalIntro
		return &intro.AISuggestion, func(s string) { intro.Content = s }, nil
	case SuggestionFieldMilestones:
		block := findExperience(doc, ref.ExperienceID)
		if block == nil {
			return nil, nil, fmt.Errorf("suggestion: experience %s: %w", ref.ExperienceID, ErrNotFound)
		}
		return &block.AISuggestion, func(s string) { block.KeyMilestones = s }, nil
	case SuggestionFieldBullet:
		block := findExperience(doc, ref.ExperienceID)
		if block == nil {
			return nil, nil, fmt.Errorf("suggestion: experience %s: %w", ref.ExperienceID, ErrNotFound)
		}
		for i := range block.Bullets {
			if block.Bullets[i].ID == ref.BulletID {
				bullet := &block.Bullets[i]
				return &bullet.AISuggestion, func(s string) { bullet.Content = s }, nil
			}
		}
		return nil, nil, fmt.Errorf("suggestion: bullet %s: %w", ref.BulletID, ErrNotFound)
	default:
		return nil, nil, fmt.Errorf("suggestion: unknown field %q", ref.Field)
	}
}

func findExperience(doc *types.CVDocument, id string) *types.ExperienceBlock {
	for i := range doc.RightColumn.Experience {
		if doc.RightColumn.Experience[i].ID == id {
			return &doc.RightColumn.Experience[i]
		}
	}
	return nil
}

// removeByID filters out the item with the given id, reporting whether it existed
func removeByID[T any](items []T, id string, idOf func(T) string) ([]T, bool) {
	kept := make([]T, 0, len(items))
	removed := false
	for _, item := range items {
		if idOf(item) == id {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	return kept, removed
}

// move relocates the element at from to position to, shifting the rest
func move[T any](items []T, from, to int) error {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return fmt.Errorf("reorder: index out of range (from %d, to %d, len %d)", from, to, len(items))
	}
	item := items[from]
	if from < to {
		copy(items[from:], items[from+1:to+1])
	} else {
		copy(items[to+1:], items[to:from])
	}
	items[to] = item
	return nil
}
