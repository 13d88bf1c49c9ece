package search

import (
	"github.com/meghashyamc/docsearch/db/searchdb"
	"github.com/meghashyamc/docsearch/fragment"
)

type Request struct {
	Query              string
	UserID             string
	DocumentID         string
	ContextWordsBefore int
	ContextWordsAfter  int
	Exact              bool
}

// Result is one matching document with its fragments in order of appearance.
type Result struct {
	Document  searchdb.SearchDocument `json:"document"`
	Fragments []fragment.Fragment     `json:"fragments"`
	Rank      float64                 `json:"rank"`
}

func CountFragments(results []Result) int {
	total := 0
	for _, result := range results {
		total += len(result.Fragments)
	}

	return total
}
