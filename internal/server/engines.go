package server

import (
	"context"
	"sync"

	"github.com/jonathan/cvdoc/internal/engine"
	"github.com/jonathan/cvdoc/internal/store"
)

// engineRegistry holds one engine per job context. Engines are created
// lazily, hydrated from the store on first use, and kept for the lifetime of
// the process so undo history survives across requests.
type engineRegistry struct {
	mu      sync.Mutex
	store   store.Store
	engines map[string]*engine.Engine
}

func newEngineRegistry(s store.Store) *engineRegistry {
	return &engineRegistry{
		store:   s,
		engines: make(map[string]*engine.Engine),
	}
}

// get returns the engine for a job context, creating and hydrating it on
// first access. The bool reports whether a persisted or live document exists.
func (r *engineRegistry) get(ctx context.Context, jobContextID string) (*engine.Engine, bool, error) {
	r.mu.Lock()
	e, ok := r.engines[jobContextID]
	if !ok {
		e = engine.New(r.store, jobContextID)
		r.engines[jobContextID] = e
	}
	r.mu.Unlock()

	if e.Document() != nil {
		return e, true, nil
	}
	_, found, err := e.Hydrate(ctx)
	if err != nil {
		return nil, false, err
	}
	return e, found, nil
}
