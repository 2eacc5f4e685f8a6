package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/cvdoc/internal/normalizer"
	"github.com/jonathan/cvdoc/internal/schemas"
	"github.com/jonathan/cvdoc/internal/store"
	"github.com/jonathan/cvdoc/internal/types"
)

// Engine drives one job context's document through the reducer and keeps its
// undo/redo history and checkpoints. All methods are safe for concurrent use.
type Engine struct {
	mu           sync.Mutex
	store        store.Store
	jobContextID string
	key          string
	now          func() time.Time

	doc  *types.CVDocument
	undo *historyStack
	redo *historyStack
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithClock overrides the wall clock, mainly for tests
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// New creates an engine for one job context backed by the given store
func New(s store.Store, jobContextID string, opts ...EngineOption) *Engine {
	e := &Engine{
		store:        s,
		jobContextID: jobContextID,
		key:          store.Key(jobContextID),
		now:          time.Now,
		undo:         newHistoryStack(MaxHistory),
		redo:         newHistoryStack(MaxHistory),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Document returns a copy of the current document, or nil before any load
func (e *Engine) Document() *types.CVDocument {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Clone()
}

// Hydrate loads the persisted document for this job context, if one exists.
// It establishes a fresh baseline: history is reset, nothing is undoable.
// A corrupt stored document is logged and treated as absent, so the context
// stays usable and a fresh document can replace it.
func (e *Engine) Hydrate(ctx context.Context) (*types.CVDocument, bool, error) {
	snapshot, ok, err := e.store.Get(ctx, e.key)
	if err != nil {
		return nil, false, fmt.Errorf("hydrate: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	doc, err := parseSnapshot(snapshot)
	if err != nil {
		log.Printf("warning: ignoring corrupt persisted document for %s: %v", e.key, err)
		return nil, false, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.doc = doc
	e.undo.clear()
	e.redo.clear()
	return doc.Clone(), true, nil
}

// Dispatch runs one action through the reducer. On success the previous state
// is pushed onto the undo stack (for content mutations), the redo stack is
// cleared, and the new state is persisted best-effort.
func (e *Engine) Dispatch(ctx context.Context, action Action) (*types.CVDocument, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := Apply(e.doc, action, e.now())
	if err != nil {
		return nil, err
	}

	switch action.Type {
	case ActionLoad, ActionCreateEmpty:
		// Creating on a fresh context mints identity: the reducer has no
		// document to inherit it from, so the engine stamps its job context
		// and the deterministic document id.
		if action.Type == ActionCreateEmpty {
			if next.JobContextID == "" {
				next.JobContextID = e.jobContextID
			}
			if next.ID == "" {
				next.ID = normalizer.DocumentID(next.JobContextID)
			}
		}
		e.undo.clear()
		e.redo.clear()
	default:
		if action.IsContentMutation() && e.doc != nil {
			snapshot, err := marshalSnapshot(e.doc)
			if err != nil {
				return nil, fmt.Errorf("dispatch: snapshot failed: %w", err)
			}
			e.undo.push(snapshot)
			e.redo.clear()
		}
	}

	e.doc = next
	e.persist(ctx)
	return next.Clone(), nil
}

// Undo reverts the last content mutation. It reports false when there is
// nothing to undo or the stored snapshot cannot be parsed; the document is
// left untouched in both cases.
func (e *Engine) Undo(ctx context.Context) (*types.CVDocument, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shift(ctx, e.undo, e.redo)
}

// Redo re-applies the last undone mutation
func (e *Engine) Redo(ctx context.Context) (*types.CVDocument, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shift(ctx, e.redo, e.undo)
}

// shift pops a snapshot from one stack, pushes the current state onto the
// other, and makes the snapshot current. Checkpoints live outside history, so
// the current checkpoint list survives the swap.
func (e *Engine) shift(ctx context.Context, from, to *historyStack) (*types.CVDocument, bool) {
	snapshot, ok := from.peek()
	if !ok {
		return e.doc.Clone(), false
	}
	restored, err := parseSnapshot(snapshot)
	if err != nil {
		log.Printf("warning: skipping corrupt history snapshot for %s: %v", e.key, err)
		return e.doc.Clone(), false
	}
	from.pop()

	if e.doc != nil {
		if current, err := marshalSnapshot(e.doc); err == nil {
			to.push(current)
		}
		restored.Checkpoints = cloneCheckpoints(e.doc.Checkpoints)
	}

	e.doc = restored
	e.persist(ctx)
	return restored.Clone(), true
}

// CanUndo reports whether the undo stack is non-empty
func (e *Engine) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.undo.len() > 0
}

// CanRedo reports whether the redo stack is non-empty
func (e *Engine) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.redo.len() > 0
}

// CreateCheckpoint snapshots the current document under a user-visible name.
// Creating a checkpoint is metadata, not a content edit: it does not touch
// the undo stack.
func (e *Engine) CreateCheckpoint(ctx context.Context, name string) (types.Checkpoint, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return types.Checkpoint{}, fmt.Errorf("checkpoint: no document loaded")
	}
	snapshot, err := marshalSnapshot(e.doc)
	if err != nil {
		return types.Checkpoint{}, fmt.Errorf("checkpoint: snapshot failed: %w", err)
	}

	checkpoint := types.Checkpoint{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: e.now(),
		Snapshot:  snapshot,
	}
	e.doc.Checkpoints = append(e.doc.Checkpoints, checkpoint)
	e.persist(ctx)
	return checkpoint, nil
}

// RestoreCheckpoint replaces the document content with the named checkpoint's
// snapshot. The restore itself is undoable, and the live checkpoint list is
// kept so restoring one checkpoint never discards the others.
func (e *Engine) RestoreCheckpoint(ctx context.Context, checkpointID string) (*types.CVDocument, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return nil, fmt.Errorf("restore: no document loaded")
	}
	var found *types.Checkpoint
	for i := range e.doc.Checkpoints {
		if e.doc.Checkpoints[i].ID == checkpointID {
			found = &e.doc.Checkpoints[i]
			break
		}
	}
	if found == nil {
		return nil, fmt.Errorf("restore: checkpoint %s: %w", checkpointID, ErrNotFound)
	}

	restored, err := parseSnapshot(found.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("restore: corrupt checkpoint %s: %w", checkpointID, err)
	}

	current, err := marshalSnapshot(e.doc)
	if err != nil {
		return nil, fmt.Errorf("restore: snapshot failed: %w", err)
	}
	e.undo.push(current)
	e.redo.clear()

	restored.Checkpoints = cloneCheckpoints(e.doc.Checkpoints)
	restored.UpdatedAt = e.now()
	e.doc = restored
	e.persist(ctx)
	return restored.Clone(), nil
}

// DeleteCheckpoint removes the named checkpoint. Deletion is not undoable.
func (e *Engine) DeleteCheckpoint(ctx context.Context, checkpointID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return fmt.Errorf("delete checkpoint: no document loaded")
	}
	kept := make([]types.Checkpoint, 0, len(e.doc.Checkpoints))
	removed := false
	for _, checkpoint := range e.doc.Checkpoints {
		if checkpoint.ID == checkpointID {
			removed = true
			continue
		}
		kept = append(kept, checkpoint)
	}
	if !removed {
		return fmt.Errorf("delete checkpoint %s: %w", checkpointID, ErrNotFound)
	}
	e.doc.Checkpoints = kept
	e.persist(ctx)
	return nil
}

// persist writes the current document through the store. Persistence is
// best-effort: a failed write is logged, not surfaced, so an unreachable
// backend never blocks editing.
func (e *Engine) persist(ctx context.Context) {
	if e.store == nil || e.doc == nil {
		return
	}
	data, err := json.Marshal(e.doc)
	if err != nil {
		log.Printf("warning: failed to serialize document for %s: %v", e.key, err)
		return
	}
	if err := e.store.Set(ctx, e.key, string(data)); err != nil {
		log.Printf("warning: failed to persist document for %s: %v", e.key, err)
	}
}

// marshalSnapshot serializes a document without its checkpoint list, so
// snapshots stored inside checkpoints do not nest.
func marshalSnapshot(doc *types.CVDocument) (string, error) {
	trimmed := doc.Clone()
	trimmed.Checkpoints = nil
	data, err := json.Marshal(trimmed)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// parseSnapshot checks a serialized document against the document schema
// before decoding it. Snapshots come back from storage, the history stacks,
// and checkpoint entries; a schema violation is treated the same as
// unparsable JSON.
func parseSnapshot(snapshot string) (*types.CVDocument, error) {
	if err := schemas.ValidateDocument(snapshot); err != nil {
		return nil, err
	}
	var doc types.CVDocument
	if err := json.Unmarshal([]byte(snapshot), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func cloneCheckpoints(checkpoints []types.Checkpoint) []types.Checkpoint {
	if checkpoints == nil {
		return nil
	}
	out := make([]types.Checkpoint, len(checkpoints))
	copy(out, checkpoints)
	return out
}
