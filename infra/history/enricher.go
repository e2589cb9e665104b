package history

import (
	"context"

	"github.com/aurelh/chronoplan/core/logger"
	"github.com/aurelh/chronoplan/core/model"
	corerefine "github.com/aurelh/chronoplan/core/refine"
)

// Enricher decorates a refinement service with the user's recent history.
// A store failure only costs the history signal, never the refinement call.
type Enricher struct {
	next   corerefine.Service
	store  *SQLiteStore
	limit  int
	logger logger.Logger
}

// NewEnricher wraps next so refinement requests carry recent history.
func NewEnricher(next corerefine.Service, store *SQLiteStore, limit int, log logger.Logger) *Enricher {
	return &Enricher{next: next, store: store, limit: limit, logger: log}
}

// Refine loads the user's history, attaches it to the context and delegates.
func (e *Enricher) Refine(ctx context.Context, skeleton []model.PlacedTask, rc corerefine.Context) ([]model.Block, error) {
	if e.store != nil && rc.History == nil {
		hist, err := e.store.Recent(rc.UserID, e.limit)
		if err != nil {
			if e.logger != nil {
				e.logger.Warnf("history lookup failed for %s: %v", rc.UserID, err)
			}
		} else {
			rc.History = hist
		}
	}
	return e.next.Refine(ctx, skeleton, rc)
}
