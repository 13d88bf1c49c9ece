package searchdb

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const postgresTestDSNEnv = "DOCSEARCH_TEST_POSTGRES_DSN"

func TestBuildSearchSQL(t *testing.T) {
	assert := require.New(t)

	statement, args := buildSearchSQL(Query{Text: "  отдел продаж ", Limit: 5})
	assert.Equal(strings.Count(statement, "?"), len(args))
	assert.Contains(statement, "plainto_tsquery")
	assert.Contains(statement, "ORDER BY rank DESC")
	assert.NotContains(statement, "d.user_id = ?")
	assert.NotContains(statement, "d.id = ?")
	assert.Equal("отдел продаж", args[4])
	assert.Equal(`HighlightAll=true, StartSel="<mark>", StopSel="</mark>"`, args[1])
	assert.Equal(5, args[len(args)-1])

	statement, args = buildSearchSQL(Query{Text: "продажи", UserID: testUserA, DocumentID: testDocuments[0].ID})
	assert.Equal(strings.Count(statement, "?"), len(args))
	assert.Contains(statement, "d.user_id = ?")
	assert.Contains(statement, "d.id = ?")
	assert.Equal([]any{testUserA, testDocuments[0].ID, defaultSearchLimit}, args[len(args)-3:])
}

// TestPostgresSearch needs a database with the search_documents table.
func TestPostgresSearch(t *testing.T) {
	dsn := os.Getenv(postgresTestDSNEnv)
	if dsn == "" {
		t.Skipf("%s is not set", postgresTestDSNEnv)
	}

	assert := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	postgresDB, err := NewPostgres(ctx, newTestLogger(), dsn)
	assert.NoError(err)
	defer postgresDB.Close()

	ids := make([]string, 0, len(testDocuments))
	for _, doc := range testDocuments {
		ids = append(ids, doc.ID)
	}
	assert.NoError(postgresDB.Index(ctx, testDocuments))
	defer postgresDB.Delete(context.Background(), ids)

	candidates, err := postgresDB.Search(ctx, Query{Text: "продажа", UserID: testUserA})
	assert.NoError(err)
	assert.Equal([]string{testDocuments[0].ID}, candidateIDs(candidates))
	assert.Contains(candidates[0].Headline, "<mark>")
	assert.Equal("report.txt", candidates[0].Document.FileName)

	candidates, err = postgresDB.Search(ctx, Query{Text: "   "})
	assert.NoError(err)
	assert.Empty(candidates)
}
