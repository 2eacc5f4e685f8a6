package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cvdoc/internal/types"
)

// maxConcurrentSuggestions caps the provider fan-out when rewriting all
// bullets of an experience block at once.
const maxConcurrentSuggestions = 4

// Assistant turns document fields into pending rewrite suggestions
type Assistant struct {
	generator Generator
	now       func() time.Time
}

// Option configures an Assistant
type Option func(*Assistant)

// WithNow overrides the clock used for suggestion timestamps
func WithNow(now func() time.Time) Option {
	return func(a *Assistant) { a.now = now }
}

// New creates an assistant on top of a generator
func New(generator Generator, opts ...Option) *Assistant {
	a := &Assistant{generator: generator, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// suggestionPayload is the JSON shape the provider is asked to return
type suggestionPayload struct {
	SuggestedContent string `json:"suggested_content"`
	Rationale        string `json:"rationale"`
}

// SuggestIntro proposes a rewrite of the professional intro targeted at the
// given job description
func (a *Assistant) SuggestIntro(ctx context.Context, doc *types.CVDocument, jobDescription string) (*types.AISuggestion, error) {
	original := doc.RightColumn.ProfessionalIntro.Content
	prompt := buildRewritePrompt("professional introduction", original, jobDescription)
	return a.suggest(ctx, prompt, original)
}

// SuggestMilestones proposes a rewrite of one experience block's key milestones
func (a *Assistant) SuggestMilestones(ctx context.Context, block *types.ExperienceBlock, jobDescription string) (*types.AISuggestion, error) {
	prompt := buildRewritePrompt(
		fmt.Sprintf("key milestones for the role %q at %q", block.Title, block.Company),
		block.KeyMilestones, jobDescription)
	return a.suggest(ctx, prompt, block.KeyMilestones)
}

// SuggestBullet proposes a rewrite of a single achievement bullet
func (a *Assistant) SuggestBullet(ctx context.Context, block *types.ExperienceBlock, bullet *types.BulletItem, jobDescription string) (*types.AISuggestion, error) {
	prompt := buildRewritePrompt(
		fmt.Sprintf("achievement bullet under the role %q at %q", block.Title, block.Company),
		bullet.Content, jobDescription)
	return a.suggest(ctx, prompt, bullet.Content)
}

// SuggestBullets proposes rewrites for every bullet of a block concurrently.
// The result maps bullet id to its suggestion; one failed bullet fails the
// whole batch.
func (a *Assistant) SuggestBullets(ctx context.Context, block *types.ExperienceBlock, jobDescription string) (map[string]*types.AISuggestion, error) {
	results := make([]*types.AISuggestion, len(block.Bullets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSuggestions)
	for i := range block.Bullets {
		g.Go(func() error {
			suggestion, err := a.SuggestBullet(ctx, block, &block.Bullets[i], jobDescription)
			if err != nil {
				return fmt.Errorf("bullet %s: %w", block.Bullets[i].ID, err)
			}
			results[i] = suggestion
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byBullet := make(map[string]*types.AISuggestion, len(results))
	for i, suggestion := range results {
		byBullet[block.Bullets[i].ID] = suggestion
	}
	return byBullet, nil
}

func (a *Assistant) suggest(ctx context.Context, prompt, original string) (*types.AISuggestion, error) {
	raw, err := a.generator.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("suggestion request failed: %w", err)
	}

	var payload suggestionPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("invalid suggestion response: %w", err)
	}
	if strings.TrimSpace(payload.SuggestedContent) == "" {
		return nil, fmt.Errorf("suggestion response has no content")
	}

	return &types.AISuggestion{
		ID:               uuid.NewString(),
		OriginalContent:  original,
		SuggestedContent: strings.TrimSpace(payload.SuggestedContent),
		Rationale:        strings.TrimSpace(payload.Rationale),
		Status:           types.SuggestionPending,
		CreatedAt:        a.now(),
	}, nil
}

func buildRewritePrompt(field, original, jobDescription string) string {
	var sb strings.Builder
	sb.WriteString("You are helping tailor a CV to a specific job posting.\n\n")
	sb.WriteString(fmt.Sprintf("Rewrite the candidate's %s so it speaks to the posting below.\n", field))
	sb.WriteString("Keep every fact from the original. Never invent employers, dates, numbers, or achievements.\n")
	sb.WriteString("If the original is empty, propose a first draft grounded only in the job posting's vocabulary, without claiming concrete experience.\n\n")
	sb.WriteString("Job posting:\n")
	sb.WriteString(jobDescription)
	sb.WriteString("\n\nOriginal text:\n")
	sb.WriteString(original)
	sb.WriteString("\n\nReturn ONLY valid JSON matching this exact structure:\n")
	sb.WriteString("{\n  \"suggested_content\": string, // the rewritten text\n  \"rationale\": string // one sentence on what was improved\n}\n")
	sb.WriteString("\nReturn ONLY the JSON object, no markdown, no explanation, no code blocks.\n")
	return sb.String()
}
