package morph

import (
	"fmt"

	"github.com/dgraph-io/ristretto/v2"
)

type cachedParse struct {
	parse Parse
	err   error
}

// CachedAnalyzer memoises the parses of another analyzer.
type CachedAnalyzer struct {
	analyzer Analyzer
	cache    *ristretto.Cache[string, cachedParse]
}

func NewCachedAnalyzer(analyzer Analyzer, maxEntries int) (*CachedAnalyzer, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, cachedParse]{
		NumCounters: int64(maxEntries) * 10,
		MaxCost:     int64(maxEntries),
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create morph cache: %w", err)
	}

	return &CachedAnalyzer{analyzer: analyzer, cache: cache}, nil
}

func (c *CachedAnalyzer) Parse(word string) (Parse, error) {
	if cached, ok := c.cache.Get(word); ok {
		return cached.parse, cached.err
	}

	parse, err := c.analyzer.Parse(word)
	c.cache.Set(word, cachedParse{parse: parse, err: err}, 1)

	return parse, err
}

// Warm parses every word not yet cached and waits until the cache has
// absorbed them.
func (c *CachedAnalyzer) Warm(words []string) {
	for _, word := range words {
		if _, ok := c.cache.Get(word); ok {
			continue
		}
		parse, err := c.analyzer.Parse(word)
		c.cache.Set(word, cachedParse{parse: parse, err: err}, 1)
	}
	c.cache.Wait()
}

func (c *CachedAnalyzer) Close() {
	c.cache.Close()
}
