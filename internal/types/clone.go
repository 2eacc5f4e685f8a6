//nolint:revive // types is a standard Go package name pattern
package types

// Clone returns a deep copy of the document. The reducer relies on this to
// keep every state transition a replacement rather than an in-place mutation.
func (d *CVDocument) Clone() *CVDocument {
	if d == nil {
		return nil
	}
	out := *d
	out.LeftColumn = d.LeftColumn.clone()
	out.RightColumn = d.RightColumn.clone()
	if d.Checkpoints != nil {
		out.Checkpoints = make([]Checkpoint, len(d.Checkpoints))
		copy(out.Checkpoints, d.Checkpoints)
	}
	return &out
}

func (c LeftColumn) clone() LeftColumn {
	out := c
	if c.PersonalData != nil {
		pd := *c.PersonalData
		out.PersonalData = &pd
	}
	if c.Education != nil {
		out.Education = make([]EducationItem, len(c.Education))
		copy(out.Education, c.Education)
	}
	if c.Skills != nil {
		out.Skills = make([]SkillItem, len(c.Skills))
		copy(out.Skills, c.Skills)
	}
	if c.Languages != nil {
		out.Languages = make([]LanguageItem, len(c.Languages))
		copy(out.Languages, c.Languages)
	}
	return out
}

func (c RightColumn) clone() RightColumn {
	out := c
	out.ProfessionalIntro.AISuggestion = c.ProfessionalIntro.AISuggestion.clone()
	if c.Experience != nil {
		out.Experience = make([]ExperienceBlock, len(c.Experience))
		for i, block := range c.Experience {
			out.Experience[i] = block.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the experience block
func (b ExperienceBlock) Clone() ExperienceBlock {
	out := b
	out.AISuggestion = b.AISuggestion.clone()
	if b.Bullets != nil {
		out.Bullets = make([]BulletItem, len(b.Bullets))
		for i, bullet := range b.Bullets {
			out.Bullets[i] = bullet
			out.Bullets[i].AISuggestion = bullet.AISuggestion.clone()
		}
	}
	return out
}

func (s *AISuggestion) clone() *AISuggestion {
	if s == nil {
		return nil
	}
	out := *s
	return &out
}
