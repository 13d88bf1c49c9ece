package search

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/meghashyamc/docsearch/db/searchdb"
	"github.com/meghashyamc/docsearch/logger"
	"github.com/meghashyamc/docsearch/morph"
	"github.com/stretchr/testify/require"
)

const testUserID = "0b7c2f1e-8a7d-4f0e-9a37-4b0d2f9f1a01"

type fakeProvider struct {
	candidates []searchdb.Candidate
	err        error
	queries    []searchdb.Query
}

func (p *fakeProvider) Search(ctx context.Context, query searchdb.Query) ([]searchdb.Candidate, error) {
	p.queries = append(p.queries, query)
	if p.err != nil {
		return nil, p.err
	}

	return p.candidates, nil
}

type blockingProvider struct{}

func (blockingProvider) Search(ctx context.Context, query searchdb.Query) ([]searchdb.Candidate, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func newTestLogger() logger.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func setupTestService(t *testing.T, assert *require.Assertions, provider Provider, options Options) *Service {
	service, err := New(newTestLogger(), provider, morph.New(morph.NewSnowballAnalyzer()), options)
	assert.NoError(err)
	t.Cleanup(service.Release)

	return service
}

func candidate(id string, headline string, rank float64) searchdb.Candidate {
	return searchdb.Candidate{
		Document: searchdb.SearchDocument{ID: id, UserID: testUserID, FileName: id + ".txt", FileType: "txt"},
		Headline: headline,
		Rank:     rank,
	}
}

type recordingAnalyzer struct {
	morph.Analyzer
	warmed map[string]bool
}

func (r *recordingAnalyzer) Warm(words []string) {
	for _, word := range words {
		r.warmed[word] = true
	}
}

func resultIDs(results []Result) []string {
	ids := make([]string, 0, len(results))
	for _, result := range results {
		ids = append(ids, result.Document.ID)
	}
	return ids
}

func TestSearchKeepsOrderAndDropsEmpty(t *testing.T) {
	assert := require.New(t)
	provider := &fakeProvider{candidates: []searchdb.Candidate{
		candidate("first", "<mark>Продажи</mark> выросли", 3),
		candidate("second", "<mark>Отдел</mark> кадров", 2),
		candidate("third", "Итоги <mark>продаж</mark> за год", 1),
	}}
	service := setupTestService(t, assert, provider, Options{})

	results, err := service.Search(context.Background(), Request{Query: "продажи", ContextWordsBefore: 5, ContextWordsAfter: 5})
	assert.NoError(err)
	assert.Equal([]string{"first", "third"}, resultIDs(results))
	assert.Equal(3.0, results[0].Rank)
	assert.Equal("Продажи", results[0].Fragments[0].Text)
	assert.Equal("Итоги продаж за год", results[1].Fragments[0].Context.Text)
	assert.Equal(2, CountFragments(results))
}

func TestSearchPassesFiltersToProvider(t *testing.T) {
	assert := require.New(t)
	provider := &fakeProvider{}
	service := setupTestService(t, assert, provider, Options{Limit: 7})

	results, err := service.Search(context.Background(), Request{Query: "отчет", UserID: testUserID, DocumentID: "doc"})
	assert.NoError(err)
	assert.Empty(results)
	assert.Equal([]searchdb.Query{{Text: "отчет", UserID: testUserID, DocumentID: "doc", Limit: 7}}, provider.queries)
}

func TestSearchBlankQuery(t *testing.T) {
	assert := require.New(t)
	provider := &fakeProvider{}
	service := setupTestService(t, assert, provider, Options{})

	results, err := service.Search(context.Background(), Request{Query: "  "})
	assert.NoError(err)
	assert.Empty(results)
	assert.Empty(provider.queries)
}

func TestSearchExactIsSubsetOfFuzzy(t *testing.T) {
	assert := require.New(t)
	provider := &fakeProvider{candidates: []searchdb.Candidate{
		candidate("doc", "<mark>Продажи</mark> за июнь. Отдел <mark>продаж</mark> доволен", 1),
	}}
	service := setupTestService(t, assert, provider, Options{})

	fuzzy, err := service.Search(context.Background(), Request{Query: "продажи", ContextWordsBefore: 2, ContextWordsAfter: 2})
	assert.NoError(err)
	assert.Len(fuzzy, 1)
	assert.Len(fuzzy[0].Fragments, 2)

	exact, err := service.Search(context.Background(), Request{Query: "продажи", ContextWordsBefore: 2, ContextWordsAfter: 2, Exact: true})
	assert.NoError(err)
	assert.Len(exact, 1)
	assert.Len(exact[0].Fragments, 1)
	assert.Equal("Продажи", exact[0].Fragments[0].Text)
	assert.Contains(fuzzy[0].Fragments, exact[0].Fragments[0])
}

func TestSearchExactDropsDocumentWithoutPhrase(t *testing.T) {
	assert := require.New(t)
	provider := &fakeProvider{candidates: []searchdb.Candidate{
		candidate("doc", "<mark>продажа</mark> квартиры", 1),
	}}
	service := setupTestService(t, assert, provider, Options{})

	results, err := service.Search(context.Background(), Request{Query: "продажи", Exact: true})
	assert.NoError(err)
	assert.Empty(results)
}

func TestSearchFunctionWordQueryPassesEveryFragment(t *testing.T) {
	assert := require.New(t)
	provider := &fakeProvider{candidates: []searchdb.Candidate{
		candidate("doc", "отчет <mark>по</mark> плану и <mark>по</mark> факту", 1),
	}}
	service := setupTestService(t, assert, provider, Options{})

	results, err := service.Search(context.Background(), Request{Query: "по", ContextWordsBefore: 1, ContextWordsAfter: 1})
	assert.NoError(err)
	assert.Len(results, 1)
	assert.Len(results[0].Fragments, 2)
}

func TestSearchMergesPhrase(t *testing.T) {
	assert := require.New(t)
	provider := &fakeProvider{candidates: []searchdb.Candidate{
		candidate("doc", "Итоговый <mark>отчет</mark> по <mark>продажам</mark> за июнь", 1),
	}}
	service := setupTestService(t, assert, provider, Options{})

	results, err := service.Search(context.Background(), Request{Query: "отчет по продажам", ContextWordsBefore: 1, ContextWordsAfter: 1, Exact: true})
	assert.NoError(err)
	assert.Len(results, 1)
	assert.Len(results[0].Fragments, 1)
	assert.Equal("отчет по продажам", results[0].Fragments[0].Text)
	assert.Equal("Итоговый отчет по продажам за", results[0].Fragments[0].Context.Text)
}

func TestSearchProviderError(t *testing.T) {
	assert := require.New(t)
	providerErr := errors.New("connection refused")
	service := setupTestService(t, assert, &fakeProvider{err: providerErr}, Options{})

	results, err := service.Search(context.Background(), Request{Query: "отчет"})
	assert.Nil(results)
	assert.ErrorIs(err, ErrSearchUnavailable)
	assert.ErrorIs(err, providerErr)
}

func TestSearchTimeout(t *testing.T) {
	assert := require.New(t)
	service := setupTestService(t, assert, blockingProvider{}, Options{Timeout: 20 * time.Millisecond})

	results, err := service.Search(context.Background(), Request{Query: "отчет"})
	assert.Nil(results)
	assert.ErrorIs(err, ErrSearchUnavailable)
	assert.ErrorIs(err, context.DeadlineExceeded)
}

func TestSearchManyCandidates(t *testing.T) {
	assert := require.New(t)
	candidates := make([]searchdb.Candidate, 0, 50)
	for i := range 50 {
		candidates = append(candidates, candidate(string(rune('a'+i%26))+string(rune('a'+i/26)), "<mark>отчет</mark> готов", float64(50-i)))
	}
	service := setupTestService(t, assert, &fakeProvider{candidates: candidates}, Options{Workers: 3})

	results, err := service.Search(context.Background(), Request{Query: "отчет", ContextWordsAfter: 1})
	assert.NoError(err)
	assert.Len(results, 50)
	for i, result := range results {
		assert.Equal(candidates[i].Document.ID, result.Document.ID)
	}
}

func TestSearchRoundTripThroughBleve(t *testing.T) {
	assert := require.New(t)
	ctx := context.Background()

	bleveDB, err := searchdb.NewInMemory(newTestLogger())
	assert.NoError(err)
	defer bleveDB.Close()

	assert.NoError(bleveDB.Index(ctx, []searchdb.Document{
		{
			ID:         "a5f0c1e2-0000-4000-8000-000000000001",
			UserID:     testUserID,
			FileName:   "query.txt",
			FileType:   "txt",
			FileSize:   100,
			UploadedAt: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
			Content:    "Это специальный поисковый запрос для проверки системы.",
		},
		{
			ID:         "a5f0c1e2-0000-4000-8000-000000000002",
			UserID:     testUserID,
			FileName:   "other.txt",
			FileType:   "txt",
			FileSize:   100,
			UploadedAt: time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC),
			Content:    "Обычный документ без нужных слов.",
		},
	}))

	service := setupTestService(t, assert, bleveDB, Options{})

	for _, exact := range []bool{false, true} {
		results, err := service.Search(ctx, Request{
			Query:              "специальный поисковый запрос",
			UserID:             testUserID,
			ContextWordsBefore: 1,
			ContextWordsAfter:  1,
			Exact:              exact,
		})
		assert.NoError(err)
		assert.Len(results, 1)
		assert.Equal("a5f0c1e2-0000-4000-8000-000000000001", results[0].Document.ID)
		assert.Len(results[0].Fragments, 1)

		found := results[0].Fragments[0]
		assert.Equal("специальный поисковый запрос", found.Text)
		assert.Equal("Это специальный поисковый запрос для", found.Context.Text)
		assert.Equal(4, found.Context.HighlightStart)
		assert.Equal(4, found.Context.Offset)
		assert.Equal(found.Text, found.Highlighted())
	}
}

func TestSearchWarmsOnlyHighlightNeighbourhood(t *testing.T) {
	assert := require.New(t)
	analyzer := &recordingAnalyzer{Analyzer: morph.NewSnowballAnalyzer(), warmed: map[string]bool{}}
	provider := &fakeProvider{candidates: []searchdb.Candidate{
		candidate("doc", "Пролог вступление раз два три <mark>продажи</mark> один два три хвост эпилог", 1),
	}}
	service, err := New(newTestLogger(), provider, morph.New(analyzer), Options{})
	assert.NoError(err)
	t.Cleanup(service.Release)

	results, err := service.Search(context.Background(), Request{Query: "продажи", ContextWordsBefore: 1, ContextWordsAfter: 1})
	assert.NoError(err)
	assert.Len(results, 1)

	for _, word := range []string{"продажи", "раз", "три", "один"} {
		assert.True(analyzer.warmed[word], word)
	}
	for _, word := range []string{"пролог", "вступление", "хвост", "эпилог"} {
		assert.False(analyzer.warmed[word], word)
	}
}
