package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/docsearch/logger"
	"github.com/meghashyamc/docsearch/services/documents"
	"github.com/meghashyamc/docsearch/validation"
)

const defaultDocumentsPerPage = 20

type DocumentService interface {
	Upload(ctx context.Context, upload documents.Upload) (*documents.Document, error)
	Get(ctx context.Context, documentID string) (*documents.Document, error)
	List(ctx context.Context, userID string) ([]*documents.Document, error)
	Delete(ctx context.Context, documentID string) error
}

type UploadRequest struct {
	UserID string `form:"user_id" validate:"required,uuid"`
}

type DocumentRequest struct {
	ID string `uri:"id" validate:"required,uuid"`
}

type ListDocumentsRequest struct {
	UserID  string `form:"user_id" validate:"required,uuid"`
	PerPage int    `form:"per_page" validate:"min=0,max=100"`
	Page    int    `form:"page" validate:"min=0"`
}

func (r *ListDocumentsRequest) setDefaults() {
	if r.PerPage == 0 {
		r.PerPage = defaultDocumentsPerPage
	}

	if r.Page == 0 {
		r.Page = 1
	}
}

// HeaderPaginationTotalCount carries the total number of listed documents.
const HeaderPaginationTotalCount = "X-Pagination-Total-Count"

type ListDocumentsResponse struct {
	Documents   []*documents.Document `json:"documents"`
	PageDetails Pagination            `json:"page_details"`
}

func SetupDocuments(router *gin.Engine, logger logger.Logger, service DocumentService, validator *validation.Validator) {
	group := router.Group("/api/v1/documents")
	group.POST("/upload", handleUpload(service, logger, validator))
	group.GET("", handleListDocuments(service, logger, validator))
	group.GET("/:id", handleGetDocument(service, logger, validator))
	group.DELETE("/:id", handleDeleteDocument(service, logger, validator))
}

func handleUpload(service DocumentService, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := UploadRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from upload request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request query parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate upload request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			logger.Warn("upload request has no file", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"missing multipart field 'file'"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			logger.Error("could not open uploaded file", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusBadRequest, []string{"could not read uploaded file"})
			return
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			logger.Error("could not read uploaded file", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusBadRequest, []string{"could not read uploaded file"})
			return
		}

		doc, err := service.Upload(c.Request.Context(), documents.Upload{
			UserID:   request.UserID,
			FileName: fileHeader.Filename,
			Content:  content,
		})
		if err != nil {
			c.Abort()
			writeResponse(c, nil, documentErrorStatus(err), []string{err.Error()})
			return
		}

		writeResponse(c, doc, http.StatusOK, nil)
	}
}

func handleListDocuments(service DocumentService, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := ListDocumentsRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from list request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request query parameters"})
			return
		}
		request.setDefaults()

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate list request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		docs, err := service.List(c.Request.Context(), request.UserID)
		if err != nil {
			c.Abort()
			writeResponse(c, nil, documentErrorStatus(err), []string{err.Error()})
			return
		}

		limit := request.PerPage
		offset := (request.Page - 1) * request.PerPage
		start := min(offset, len(docs))
		end := min(offset+limit, len(docs))

		c.Header(HeaderPaginationTotalCount, strconv.Itoa(len(docs)))
		writeResponse(c, ListDocumentsResponse{
			Documents:   docs[start:end],
			PageDetails: calculatePagination(len(docs), limit, offset),
		}, http.StatusOK, nil)
	}
}

func handleGetDocument(service DocumentService, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request, ok := bindDocumentRequest(c, logger, validator)
		if !ok {
			return
		}

		doc, err := service.Get(c.Request.Context(), request.ID)
		if err != nil {
			c.Abort()
			writeResponse(c, nil, documentErrorStatus(err), []string{err.Error()})
			return
		}

		writeResponse(c, doc, http.StatusOK, nil)
	}
}

func handleDeleteDocument(service DocumentService, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request, ok := bindDocumentRequest(c, logger, validator)
		if !ok {
			return
		}

		if err := service.Delete(c.Request.Context(), request.ID); err != nil {
			c.Abort()
			writeResponse(c, nil, documentErrorStatus(err), []string{err.Error()})
			return
		}

		writeResponse(c, nil, http.StatusNoContent, nil)
	}
}

func bindDocumentRequest(c *gin.Context, logger logger.Logger, validator *validation.Validator) (DocumentRequest, bool) {
	request := DocumentRequest{}
	if err := c.ShouldBindUri(&request); err != nil {
		logger.Warn("could not extract document id", "err", err.Error())
		c.Abort()
		writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract document id"})
		return request, false
	}

	if err := validator.Validate(request); err != nil {
		logger.Warn("could not validate document id", "err", err.Error())
		c.Abort()
		writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
		return request, false
	}

	return request, true
}

func documentErrorStatus(err error) int {
	switch {
	case errors.Is(err, documents.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, documents.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, documents.ErrInvalidFile), errors.Is(err, documents.ErrTextExtraction):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
