package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/meghashyamc/docsearch/db/searchdb"
	"github.com/meghashyamc/docsearch/fragment"
	"github.com/meghashyamc/docsearch/logger"
	"github.com/meghashyamc/docsearch/morph"
	"github.com/panjf2000/ants/v2"
)

var ErrSearchUnavailable = errors.New("search is unavailable")

const (
	defaultLimit   = 100
	defaultTimeout = 10 * time.Second
	defaultWorkers = 8

	minWarmWindowWords = 3
)

// Provider returns ranked candidates whose headline is the document content
// with every match wrapped in highlight markers.
type Provider interface {
	Search(ctx context.Context, query searchdb.Query) ([]searchdb.Candidate, error)
}

type Options struct {
	Limit   int
	Timeout time.Duration
	Workers int
}

type Service struct {
	logger     logger.Logger
	provider   Provider
	normalizer *morph.Normalizer
	merger     *fragment.Merger
	parser     *fragment.Parser
	pool       *ants.Pool
	limit      int
	timeout    time.Duration
}

func New(logger logger.Logger, provider Provider, normalizer *morph.Normalizer, options Options) (*Service, error) {
	if options.Limit <= 0 {
		options.Limit = defaultLimit
	}
	if options.Timeout <= 0 {
		options.Timeout = defaultTimeout
	}
	if options.Workers <= 0 {
		options.Workers = defaultWorkers
	}

	pool, err := ants.NewPool(options.Workers)
	if err != nil {
		logger.Error("could not create fragment worker pool", "err", err.Error())
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	markers := fragment.DefaultMarkers

	return &Service{
		logger:     logger,
		provider:   provider,
		normalizer: normalizer,
		merger:     fragment.NewMerger(normalizer, markers),
		parser:     fragment.NewParser(markers),
		pool:       pool,
		limit:      options.Limit,
		timeout:    options.Timeout,
	}, nil
}

// Search returns the documents matching the query with their highlighted
// fragments, ordered by descending rank. Documents left without fragments
// after filtering are dropped.
func (s *Service) Search(ctx context.Context, req Request) ([]Result, error) {
	if strings.TrimSpace(req.Query) == "" {
		return []Result{}, nil
	}

	start := time.Now()

	candidates, err := s.fetchCandidates(ctx, req)
	if err != nil {
		return nil, err
	}

	s.normalizer.Warm(s.warmTexts(candidates, req)...)

	fragmentsPerCandidate := make([][]fragment.Fragment, len(candidates))

	var wg sync.WaitGroup
	for i, candidate := range candidates {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			fragmentsPerCandidate[i] = s.buildFragments(candidate.Headline, req)
		}
		if err := s.pool.Submit(task); err != nil {
			s.logger.Warn("could not submit fragment task, processing inline", "document_id", candidate.Document.ID, "err", err.Error())
			task()
		}
	}
	wg.Wait()

	results := make([]Result, 0, len(candidates))
	for i, candidate := range candidates {
		if len(fragmentsPerCandidate[i]) == 0 {
			continue
		}
		results = append(results, Result{
			Document:  candidate.Document,
			Fragments: fragmentsPerCandidate[i],
			Rank:      candidate.Rank,
		})
	}

	s.logger.Info("search finished",
		"candidates", len(candidates),
		"results", len(results),
		"exact", req.Exact,
		"took", time.Since(start).String())

	return results, nil
}

func (s *Service) fetchCandidates(ctx context.Context, req Request) ([]searchdb.Candidate, error) {
	providerCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	candidates, err := s.provider.Search(providerCtx, searchdb.Query{
		Text:       req.Query,
		UserID:     req.UserID,
		DocumentID: req.DocumentID,
		Limit:      s.limit,
	})
	if err != nil {
		s.logger.Error("search provider failed", "err", err.Error())
		return nil, fmt.Errorf("%w: %w", ErrSearchUnavailable, err)
	}

	return candidates, nil
}

// warmTexts returns the query and the words around every highlight.
// Headlines hold whole documents, so they are never warmed in full.
func (s *Service) warmTexts(candidates []searchdb.Candidate, req Request) []string {
	wordsBefore := max(req.ContextWordsBefore, minWarmWindowWords)
	wordsAfter := max(req.ContextWordsAfter, minWarmWindowWords)

	texts := []string{req.Query}
	for _, candidate := range candidates {
		texts = append(texts, s.parser.HighlightWindows(candidate.Headline, wordsBefore, wordsAfter)...)
	}

	return texts
}

func (s *Service) buildFragments(headline string, req Request) []fragment.Fragment {
	merged := s.merger.MergePhraseHighlights(headline)
	fragments := s.parser.ParseFragments(merged, req.ContextWordsBefore, req.ContextWordsAfter)

	return s.filterFragments(fragments, req.Query, req.Exact)
}

// Release stops the worker pool. Search must not be called afterwards.
func (s *Service) Release() {
	s.pool.Release()
}
