package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cvdoc/internal/normalizer"
	"github.com/jonathan/cvdoc/internal/store"
	"github.com/jonathan/cvdoc/internal/types"
)

func newTestEngine(t *testing.T) (*Engine, *store.Memory) {
	t.Helper()
	memory := store.NewMemory()
	e := New(memory, "job-1", WithClock(func() time.Time { return testNow }))
	_, err := e.Dispatch(context.Background(), Action{Type: ActionLoad, Document: baseDocument()})
	require.NoError(t, err)
	return e, memory
}

func TestDispatchPersists(t *testing.T) {
	ctx := context.Background()
	e, memory := newTestEngine(t)

	_, err := e.Dispatch(ctx, Action{Type: ActionUpdateIntro, Content: "Persisted intro"})
	require.NoError(t, err)

	stored, ok, err := memory.Get(ctx, store.Key("job-1"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, stored, "Persisted intro")
}

func TestDispatchFailedActionLeavesStateAlone(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	_, err := e.Dispatch(ctx, Action{Type: ActionRemoveSkill, TargetID: "missing"})
	require.Error(t, err)
	assert.False(t, e.CanUndo(), "a failed action must not create history")
	assert.Len(t, e.Document().LeftColumn.Skills, 2)
}

func TestUndoRedoRoundTrip(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	_, err := e.Dispatch(ctx, Action{Type: ActionUpdateIntro, Content: "v2"})
	require.NoError(t, err)
	_, err = e.Dispatch(ctx, Action{Type: ActionUpdateIntro, Content: "v3"})
	require.NoError(t, err)

	doc, ok := e.Undo(ctx)
	require.True(t, ok)
	assert.Equal(t, "v2", doc.RightColumn.ProfessionalIntro.Content)

	doc, ok = e.Undo(ctx)
	require.True(t, ok)
	assert.Equal(t, "Intro text", doc.RightColumn.ProfessionalIntro.Content)

	_, ok = e.Undo(ctx)
	assert.False(t, ok, "empty undo stack is a no-op")

	doc, ok = e.Redo(ctx)
	require.True(t, ok)
	assert.Equal(t, "v2", doc.RightColumn.ProfessionalIntro.Content)
	doc, ok = e.Redo(ctx)
	require.True(t, ok)
	assert.Equal(t, "v3", doc.RightColumn.ProfessionalIntro.Content)
	_, ok = e.Redo(ctx)
	assert.False(t, ok)
}

func TestDispatchClearsRedo(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	_, err := e.Dispatch(ctx, Action{Type: ActionUpdateIntro, Content: "v2"})
	require.NoError(t, err)
	_, ok := e.Undo(ctx)
	require.True(t, ok)
	require.True(t, e.CanRedo())

	_, err = e.Dispatch(ctx, Action{Type: ActionUpdateIntro, Content: "forked"})
	require.NoError(t, err)
	assert.False(t, e.CanRedo(), "a new mutation discards the redo branch")
}

func TestBoundedHistory(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	for i := 0; i < 60; i++ {
		_, err := e.Dispatch(ctx, Action{Type: ActionUpdateIntro, Content: fmt.Sprintf("v%d", i)})
		require.NoError(t, err)
	}
	assert.Equal(t, MaxHistory, e.undo.len())

	undone := 0
	for {
		if _, ok := e.Undo(ctx); !ok {
			break
		}
		undone++
	}
	assert.Equal(t, MaxHistory, undone)
	// The oldest reachable state is the one right before the last 50 edits.
	assert.Equal(t, "v9", e.Document().RightColumn.ProfessionalIntro.Content)
}

func TestSuggestionActionsSkipHistory(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	ref := &SuggestionRef{Field: SuggestionFieldIntro}

	_, err := e.Dispatch(ctx, Action{
		Type: ActionSetSuggestion, Ref: ref,
		Suggestion: &types.AISuggestion{ID: "sug", SuggestedContent: "Better intro"},
	})
	require.NoError(t, err)
	assert.False(t, e.CanUndo(), "attaching a suggestion is not undoable")

	_, err = e.Dispatch(ctx, Action{Type: ActionResolveSuggestion, Ref: ref, Resolution: types.SuggestionAccepted})
	require.NoError(t, err)
	assert.True(t, e.CanUndo(), "accepting a suggestion is a content edit")

	doc, ok := e.Undo(ctx)
	require.True(t, ok)
	assert.Equal(t, "Intro text", doc.RightColumn.ProfessionalIntro.Content)
}

func TestLoadResetsHistory(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	_, err := e.Dispatch(ctx, Action{Type: ActionUpdateIntro, Content: "v2"})
	require.NoError(t, err)
	require.True(t, e.CanUndo())

	_, err = e.Dispatch(ctx, Action{Type: ActionLoad, Document: baseDocument()})
	require.NoError(t, err)
	assert.False(t, e.CanUndo())
	assert.False(t, e.CanRedo())
}

func TestCorruptUndoSnapshotIsNoOp(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	e.undo.push("{not json")

	doc, ok := e.Undo(ctx)
	assert.False(t, ok)
	assert.Equal(t, "Intro text", doc.RightColumn.ProfessionalIntro.Content)
	assert.Equal(t, 1, e.undo.len(), "the corrupt snapshot is left in place")
}

func TestSchemaInvalidUndoSnapshotIsNoOp(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	// Parses fine but violates the document schema: empty id.
	e.undo.push(`{"id":"","job_context_id":"job-1","left_column":{},"right_column":{}}`)

	doc, ok := e.Undo(ctx)
	assert.False(t, ok)
	assert.Equal(t, "Intro text", doc.RightColumn.ProfessionalIntro.Content)
	assert.Equal(t, 1, e.undo.len())
}

func TestCheckpointLifecycle(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	checkpoint, err := e.CreateCheckpoint(ctx, "before rewrite")
	require.NoError(t, err)
	assert.Equal(t, "before rewrite", checkpoint.Name)
	assert.False(t, e.CanUndo(), "creating a checkpoint is not a content edit")

	_, err = e.Dispatch(ctx, Action{Type: ActionUpdateIntro, Content: "rewritten"})
	require.NoError(t, err)
	second, err := e.CreateCheckpoint(ctx, "after rewrite")
	require.NoError(t, err)

	doc, err := e.RestoreCheckpoint(ctx, checkpoint.ID)
	require.NoError(t, err)
	assert.Equal(t, "Intro text", doc.RightColumn.ProfessionalIntro.Content)
	require.Len(t, doc.Checkpoints, 2, "restoring keeps the full checkpoint list")

	// The restore itself is undoable.
	doc, ok := e.Undo(ctx)
	require.True(t, ok)
	assert.Equal(t, "rewritten", doc.RightColumn.ProfessionalIntro.Content)

	require.NoError(t, e.DeleteCheckpoint(ctx, second.ID))
	require.Len(t, e.Document().Checkpoints, 1)
	assert.ErrorIs(t, e.DeleteCheckpoint(ctx, "missing"), ErrNotFound)
}

func TestRestoreUnknownCheckpoint(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.RestoreCheckpoint(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRestoreCorruptCheckpointIsNoOp(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	checkpoint, err := e.CreateCheckpoint(ctx, "bad")
	require.NoError(t, err)
	doc := e.Document()
	doc.Checkpoints[0].Snapshot = "{not json"
	_, err = e.Dispatch(ctx, Action{Type: ActionLoad, Document: doc})
	require.NoError(t, err)

	_, err = e.RestoreCheckpoint(ctx, checkpoint.ID)
	require.Error(t, err)
	assert.Equal(t, "Intro text", e.Document().RightColumn.ProfessionalIntro.Content)
	assert.False(t, e.CanUndo(), "a failed restore must not create history")
}

func TestUndoPreservesCheckpoints(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	_, err := e.Dispatch(ctx, Action{Type: ActionUpdateIntro, Content: "v2"})
	require.NoError(t, err)
	_, err = e.CreateCheckpoint(ctx, "kept")
	require.NoError(t, err)

	doc, ok := e.Undo(ctx)
	require.True(t, ok)
	require.Len(t, doc.Checkpoints, 1, "checkpoints live outside undo history")
	assert.Equal(t, "kept", doc.Checkpoints[0].Name)
}

func TestHydrate(t *testing.T) {
	ctx := context.Background()
	memory := store.NewMemory()

	first := New(memory, "job-1", WithClock(func() time.Time { return testNow }))
	_, err := first.Dispatch(ctx, Action{Type: ActionLoad, Document: baseDocument()})
	require.NoError(t, err)
	_, err = first.Dispatch(ctx, Action{Type: ActionUpdateIntro, Content: "survives restart"})
	require.NoError(t, err)
	_, err = first.CreateCheckpoint(ctx, "saved")
	require.NoError(t, err)

	second := New(memory, "job-1")
	doc, ok, err := second.Hydrate(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "survives restart", doc.RightColumn.ProfessionalIntro.Content)
	require.Len(t, doc.Checkpoints, 1)
	assert.False(t, second.CanUndo(), "hydration is a fresh baseline")

	third := New(memory, "job-unknown")
	_, ok, err = third.Hydrate(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHydrateCorruptDocumentDegrades(t *testing.T) {
	ctx := context.Background()
	memory := store.NewMemory()
	require.NoError(t, memory.Set(ctx, store.Key("job-1"), "{not json"))

	e := New(memory, "job-1")
	doc, ok, err := e.Hydrate(ctx)
	require.NoError(t, err, "a corrupt stored document must not make the context unusable")
	assert.False(t, ok)
	assert.Nil(t, doc)

	// The context stays editable: a fresh document replaces the corrupt one.
	created, err := e.Dispatch(ctx, Action{Type: ActionCreateEmpty})
	require.NoError(t, err)
	assert.Equal(t, "job-1", created.JobContextID)
}

func TestDispatchCreateEmptyMintsIdentity(t *testing.T) {
	ctx := context.Background()
	e := New(store.NewMemory(), "job-new", WithClock(func() time.Time { return testNow }))

	doc, err := e.Dispatch(ctx, Action{Type: ActionCreateEmpty})
	require.NoError(t, err)
	assert.Equal(t, "job-new", doc.JobContextID)
	require.NotEmpty(t, doc.ID)
	assert.Equal(t, normalizer.DocumentID("job-new"), doc.ID, "empty and normalized documents share one id per context")

	// The same context always mints the same identity.
	other, err := New(store.NewMemory(), "job-new").Dispatch(ctx, Action{Type: ActionCreateEmpty})
	require.NoError(t, err)
	assert.Equal(t, doc.ID, other.ID)
}

func TestDocumentReturnsCopy(t *testing.T) {
	e, _ := newTestEngine(t)
	doc := e.Document()
	doc.RightColumn.ProfessionalIntro.Content = "mutated copy"
	assert.Equal(t, "Intro text", e.Document().RightColumn.ProfessionalIntro.Content)
}

func TestHistoryStack(t *testing.T) {
	h := newHistoryStack(3)
	h.push("a")
	h.push("b")
	h.push("c")
	h.push("d")
	assert.Equal(t, 3, h.len())

	top, ok := h.pop()
	require.True(t, ok)
	assert.Equal(t, "d", top)
	top, _ = h.pop()
	assert.Equal(t, "c", top)
	top, _ = h.pop()
	assert.Equal(t, "b", top, "the oldest entry fell off")
	_, ok = h.pop()
	assert.False(t, ok)
}
