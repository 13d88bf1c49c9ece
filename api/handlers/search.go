package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/docsearch/logger"
	"github.com/meghashyamc/docsearch/services/search"
	"github.com/meghashyamc/docsearch/validation"
)

type Searcher interface {
	Search(ctx context.Context, req search.Request) ([]search.Result, error)
}

type SearchRequest struct {
	Query             string `form:"query" validate:"required,valid_query,min=1,max=1000"`
	UserID            string `form:"user_id" validate:"omitempty,uuid"`
	DocumentID        string `form:"document_id" validate:"omitempty,uuid"`
	ContextSizeBefore int    `form:"context_size_before,default=50" validate:"min=0,max=1000"`
	ContextSizeAfter  int    `form:"context_size_after,default=50" validate:"min=0,max=1000"`
	SearchExact       bool   `form:"search_exact"`
}

type SearchMeta struct {
	Query             string `json:"query"`
	SearchExact       bool   `json:"search_exact"`
	ContextSizeBefore int    `json:"context_size_before"`
	ContextSizeAfter  int    `json:"context_size_after"`
	TotalDocuments    int    `json:"total_documents"`
	TotalFragments    int    `json:"total_fragments"`
}

type SearchResponse struct {
	Meta    SearchMeta      `json:"meta"`
	Results []search.Result `json:"results"`
}

func SetupSearch(router *gin.Engine, logger logger.Logger, searcher Searcher, validator *validation.Validator) {
	router.GET("/api/v1/documents/search", handleSearch(searcher, logger, validator))
}

func handleSearch(searcher Searcher, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := SearchRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request query parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		results, err := searcher.Search(c.Request.Context(), search.Request{
			Query:              request.Query,
			UserID:             request.UserID,
			DocumentID:         request.DocumentID,
			ContextWordsBefore: request.ContextSizeBefore,
			ContextWordsAfter:  request.ContextSizeAfter,
			Exact:              request.SearchExact,
		})
		if err != nil {
			logger.Error("search failed", "err", err.Error())
			c.Abort()
			statusCode := http.StatusInternalServerError
			if errors.Is(err, search.ErrSearchUnavailable) {
				statusCode = http.StatusServiceUnavailable
			}
			writeResponse(c, nil, statusCode, []string{err.Error()})
			return
		}

		searchResponse := SearchResponse{
			Meta: SearchMeta{
				Query:             request.Query,
				SearchExact:       request.SearchExact,
				ContextSizeBefore: request.ContextSizeBefore,
				ContextSizeAfter:  request.ContextSizeAfter,
				TotalDocuments:    len(results),
				TotalFragments:    search.CountFragments(results),
			},
			Results: results,
		}

		writeResponse(c, searchResponse, http.StatusOK, nil)
	}
}
