package searchdb

import (
	"context"
	"fmt"

	"github.com/meghashyamc/docsearch/config"
	"github.com/meghashyamc/docsearch/logger"
)

const defaultSearchLimit = 100

type DB interface {
	Index(ctx context.Context, documents []Document) error
	Delete(ctx context.Context, documentIDs []string) error
	Search(ctx context.Context, query Query) ([]Candidate, error)
	GetDocCount() (uint64, error)
	Close() error
}

// Open returns the search backend selected in the config.
func Open(ctx context.Context, logger logger.Logger, cfg *config.Config) (DB, error) {
	switch backend := cfg.GetSearchBackend(); backend {
	case config.BackendBleve:
		return New(logger, cfg)
	case config.BackendPostgres:
		return NewPostgres(ctx, logger, cfg.GetPostgresDSN())
	default:
		logger.Error("unknown search backend", "backend", backend)
		return nil, fmt.Errorf("unknown search backend %q", backend)
	}
}

func searchLimit(query Query) int {
	if query.Limit <= 0 {
		return defaultSearchLimit
	}

	return query.Limit
}
