package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/meghashyamc/docsearch/config"
	"github.com/meghashyamc/docsearch/db/kvdb"
	"github.com/meghashyamc/docsearch/db/searchdb"
	"github.com/meghashyamc/docsearch/logger"
	"github.com/meghashyamc/docsearch/morph"
	"github.com/meghashyamc/docsearch/services/documents"
	"github.com/meghashyamc/docsearch/services/search"
	"github.com/meghashyamc/docsearch/validation"
)

// Dependencies holds the stores and services shared by the HTTP server and
// the command line.
type Dependencies struct {
	KVDB      kvdb.DB
	SearchDB  searchdb.DB
	Analyzer  *morph.CachedAnalyzer
	Search    *search.Service
	Documents *documents.Service
	Validator *validation.Validator
}

func NewDependencies(ctx context.Context, logger logger.Logger, cfg *config.Config) (*Dependencies, error) {
	deps := &Dependencies{}

	var err error
	deps.KVDB, err = kvdb.New(logger, cfg)
	if err != nil {
		logger.Error("error creating kvDB", "err", err.Error())
		return nil, err
	}

	deps.SearchDB, err = searchdb.Open(ctx, logger, cfg)
	if err != nil {
		logger.Error("error creating searchDB", "err", err.Error())
		deps.Close()
		return nil, err
	}

	if count, err := deps.SearchDB.GetDocCount(); err == nil {
		logger.Info("search index opened", "backend", cfg.GetSearchBackend(), "documents", count)
	}

	deps.Analyzer, err = morph.NewCachedAnalyzer(morph.NewSnowballAnalyzer(), cfg.GetMorphCacheEntries())
	if err != nil {
		logger.Error("error creating morphological analyzer", "err", err.Error())
		deps.Close()
		return nil, err
	}

	deps.Search, err = search.New(logger, deps.SearchDB, morph.New(deps.Analyzer), search.Options{
		Limit:   cfg.GetSearchLimit(),
		Timeout: cfg.GetSearchTimeout(),
		Workers: cfg.GetSearchWorkers(),
	})
	if err != nil {
		logger.Error("error creating search service", "err", err.Error())
		deps.Close()
		return nil, err
	}

	deps.Documents = documents.New(logger, deps.SearchDB, deps.KVDB, documents.Options{
		MaxFileSize:      cfg.GetMaxFileSize(),
		AllowedFileTypes: cfg.GetAllowedFileTypes(),
	})

	deps.Validator, err = validation.New(logger)
	if err != nil {
		logger.Error("error creating validator", "err", err.Error())
		deps.Close()
		return nil, err
	}

	return deps, nil
}

func (d *Dependencies) Close() error {
	var errs []error

	if d.Search != nil {
		d.Search.Release()
	}
	if d.Analyzer != nil {
		d.Analyzer.Close()
	}
	if d.SearchDB != nil {
		if err := d.SearchDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close search database: %w", err))
		}
	}
	if d.KVDB != nil {
		if err := d.KVDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close key-value database: %w", err))
		}
	}

	return errors.Join(errs...)
}
