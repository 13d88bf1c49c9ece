// Common test helpers
package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/docsearch/config"
	"github.com/meghashyamc/docsearch/db/kvdb"
	"github.com/meghashyamc/docsearch/db/searchdb"
	"github.com/meghashyamc/docsearch/logger"
	"github.com/meghashyamc/docsearch/morph"
	"github.com/meghashyamc/docsearch/services/documents"
	"github.com/meghashyamc/docsearch/services/search"
	"github.com/meghashyamc/docsearch/validation"
	"github.com/stretchr/testify/require"
)

const (
	testUserID      = "0b7c2f1e-8a7d-4f0e-9a37-4b0d2f9f1a01"
	testOtherUserID = "5d1c9e3a-2b4f-4c8e-8f61-7e2a9b3c4d02"
	testMissingID   = "a5f0c1e2-0000-4000-8000-00000000ffff"
)

var testFiles = map[string]string{
	"report.txt": "Отчет по продажам за июнь. Продажи выросли на десять процентов.",
	"plan.md":    "# План\n\nПлан продаж и рекламы на следующий квартал.",
	"query.txt":  "Это специальный поисковый запрос для проверки системы.",
}

type testCase struct {
	name           string
	queryParams    map[string]string
	expectedStatus int
}

type testResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []string        `json:"errors"`
}

func newTestLogger() logger.Logger {

	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

func setupTestServer(t *testing.T, assert *require.Assertions) *gin.Engine {

	t.Setenv("ENV", "test")

	cfg, err := config.Load("")
	assert.NoError(err, "could not load config")

	testLogger := newTestLogger()

	searchDB, err := searchdb.NewInMemory(testLogger)
	assert.NoError(err, "could not create search database")

	kvDB, err := kvdb.Open(testLogger, filepath.Join(t.TempDir(), "catalogue.db"))
	assert.NoError(err, "could not create kv database")

	validator, err := validation.New(testLogger)
	assert.NoError(err, "could not create validator")

	searchService, err := search.New(testLogger, searchDB, morph.New(morph.NewSnowballAnalyzer()), search.Options{
		Limit:   cfg.GetSearchLimit(),
		Timeout: cfg.GetSearchTimeout(),
		Workers: cfg.GetSearchWorkers(),
	})
	assert.NoError(err, "could not create search service")

	documentService := documents.New(testLogger, searchDB, kvDB, documents.Options{
		MaxFileSize:      cfg.GetMaxFileSize(),
		AllowedFileTypes: cfg.GetAllowedFileTypes(),
	})

	gin.SetMode(gin.TestMode)
	router := gin.New()

	SetupDocuments(router, testLogger, documentService, validator)
	SetupSearch(router, testLogger, searchService, validator)

	t.Cleanup(func() {
		searchService.Release()
		assert.NoError(searchDB.Close(), "could not close search database")
		assert.NoError(kvDB.Close(), "could not close kv database")
	})

	return router
}

func makeTestHTTPRequest(router *gin.Engine, assert *require.Assertions, method string, endpoint string, queryParams map[string]string) *httptest.ResponseRecorder {

	w := httptest.NewRecorder()

	if len(queryParams) > 0 {
		values := url.Values{}
		for key, value := range queryParams {
			values.Set(key, value)
		}
		endpoint = endpoint + "?" + values.Encode()
	}

	slog.Info("Making test request", "method", method, "endpoint", endpoint)

	req, err := http.NewRequest(method, endpoint, nil)
	assert.NoError(err)

	router.ServeHTTP(w, req)

	return w
}

func makeTestUploadRequest(router *gin.Engine, assert *require.Assertions, userID string, fileName string, content string) *httptest.ResponseRecorder {

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if fileName != "" {
		part, err := writer.CreateFormFile("file", fileName)
		assert.NoError(err)
		_, err = part.Write([]byte(content))
		assert.NoError(err)
	}
	assert.NoError(writer.Close())

	endpoint := "/api/v1/documents/upload?" + url.Values{"user_id": []string{userID}}.Encode()
	req, err := http.NewRequest(http.MethodPost, endpoint, &body)
	assert.NoError(err)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func decodeTestResponse(assert *require.Assertions, w *httptest.ResponseRecorder, data any) testResponse {
	var response testResponse
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &response), "response gotten was %s", w.Body.String())
	if data != nil {
		assert.NoError(json.Unmarshal(response.Data, data))
	}

	return response
}

func uploadTestFiles(router *gin.Engine, assert *require.Assertions, userID string) map[string]documents.Document {
	uploaded := make(map[string]documents.Document, len(testFiles))
	for fileName, content := range testFiles {
		w := makeTestUploadRequest(router, assert, userID, fileName, content)
		assert.Equal(http.StatusOK, w.Code, "response gotten was %s", w.Body.String())

		var doc documents.Document
		decodeTestResponse(assert, w, &doc)
		uploaded[fileName] = doc
	}

	return uploaded
}
