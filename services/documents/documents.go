package documents

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/meghashyamc/docsearch/db/kvdb"
	"github.com/meghashyamc/docsearch/db/searchdb"
	"github.com/meghashyamc/docsearch/logger"
)

// Indexer represents the search database operations the catalogue needs
type Indexer interface {
	Index(ctx context.Context, documents []searchdb.Document) error
	Delete(ctx context.Context, documentIDs []string) error
}

type Options struct {
	MaxFileSize      int64
	AllowedFileTypes []string
}

type Service struct {
	logger           logger.Logger
	indexer          Indexer
	metadataStore    MetadataStore
	maxFileSize      int64
	allowedFileTypes map[string]struct{}

	// serialises the duplicate check with the catalogue write
	uploadMu sync.Mutex
}

func New(logger logger.Logger, indexer Indexer, metadataStore MetadataStore, options Options) *Service {
	allowedFileTypes := make(map[string]struct{}, len(options.AllowedFileTypes))
	for _, allowedType := range options.AllowedFileTypes {
		allowedFileTypes[allowedType] = struct{}{}
	}

	return &Service{
		logger:           logger,
		indexer:          indexer,
		metadataStore:    metadataStore,
		maxFileSize:      options.MaxFileSize,
		allowedFileTypes: allowedFileTypes,
	}
}

// Upload adds a plain-text file to the catalogue and the search index.
// Files are deduplicated by the sha256 of their bytes across all users.
func (s *Service) Upload(ctx context.Context, upload Upload) (*Document, error) {
	s.uploadMu.Lock()
	defer s.uploadMu.Unlock()

	fileHash := calculateHash(upload.Content)

	existingID, err := s.metadataStore.Get(kvdb.HashesBucket, fileHash)
	switch {
	case err == nil:
		s.logger.Info("attempt to upload a duplicate document", "file_name", upload.FileName, "existing_id", existingID)
		return nil, newError(KindAlreadyExists, "a document with hash "+fileHash+" already exists", nil)
	case !errors.Is(err, kvdb.ErrNotFound):
		s.logger.Error("failed to check for duplicate document", "err", err.Error())
		return nil, newError(KindDatabase, "failed to check for duplicate document", err)
	}

	if err := s.validateFile(upload.FileName, upload.Content); err != nil {
		s.logger.Warn("rejected upload", "file_name", upload.FileName, "err", err.Error())
		return nil, err
	}

	text, err := extractText(fileType(upload.FileName), upload.Content)
	if err != nil {
		s.logger.Warn("could not extract text", "file_name", upload.FileName, "err", err.Error())
		return nil, err
	}

	doc := &Document{
		ID:         uuid.New().String(),
		UserID:     upload.UserID,
		FileName:   filepath.Base(upload.FileName),
		FileType:   fileType(upload.FileName),
		FileSize:   int64(len(upload.Content)),
		FileHash:   fileHash,
		UploadedAt: time.Now().UTC(),
	}

	if err := s.saveDocument(doc); err != nil {
		return nil, newError(KindDatabase, "failed to save document", err)
	}

	if err := s.indexer.Index(ctx, []searchdb.Document{doc.searchDocument(text)}); err != nil {
		s.logger.Error("failed to index document, rolling back", "document_id", doc.ID, "err", err.Error())
		s.removeDocument(doc)
		return nil, newError(KindDatabase, "failed to index document", err)
	}

	s.logger.Info("document uploaded", "document_id", doc.ID, "user_id", doc.UserID, "file_size", doc.FileSize)
	return doc, nil
}

// UploadFile reads a file from disk and uploads it.
func (s *Service) UploadFile(ctx context.Context, userID string, path string) (*Document, error) {
	content, err := readFile(path, s.maxFileSize)
	if err != nil {
		s.logger.Error("could not read file", "path", path, "err", err.Error())
		return nil, newError(KindInvalidFile, "could not read "+path, err)
	}

	return s.Upload(ctx, Upload{UserID: userID, FileName: path, Content: content})
}

func (s *Service) Get(ctx context.Context, documentID string) (*Document, error) {
	value, err := s.metadataStore.Get(kvdb.DocumentsBucket, documentID)
	if err != nil {
		if errors.Is(err, kvdb.ErrNotFound) || errors.Is(err, kvdb.ErrInvalidKey) {
			return nil, newError(KindNotFound, "document "+documentID+" not found", nil)
		}
		s.logger.Error("failed to get document", "document_id", documentID, "err", err.Error())
		return nil, newError(KindDatabase, "failed to get document", err)
	}

	var doc Document
	if err := json.Unmarshal([]byte(value), &doc); err != nil {
		s.logger.Error("failed to unmarshal document", "document_id", documentID, "err", err.Error())
		return nil, newError(KindDatabase, "failed to read document", err)
	}

	return &doc, nil
}

// List returns the documents of one user, oldest first.
func (s *Service) List(ctx context.Context, userID string) ([]*Document, error) {
	ids, err := s.metadataStore.GetAllKeys(kvdb.DocumentsBucket)
	if err != nil {
		s.logger.Error("failed to list documents", "err", err.Error())
		return nil, newError(KindDatabase, "failed to list documents", err)
	}

	docs := make([]*Document, 0)
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		doc, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if doc.UserID == userID {
			docs = append(docs, doc)
		}
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].UploadedAt.Before(docs[j].UploadedAt)
	})

	return docs, nil
}

func (s *Service) Delete(ctx context.Context, documentID string) error {
	doc, err := s.Get(ctx, documentID)
	if err != nil {
		return err
	}

	if err := s.indexer.Delete(ctx, []string{doc.ID}); err != nil {
		s.logger.Error("failed to delete document from search index", "document_id", doc.ID, "err", err.Error())
		return newError(KindDatabase, "failed to delete document from search index", err)
	}

	if err := s.metadataStore.Delete(kvdb.DocumentsBucket, doc.ID); err != nil {
		s.logger.Error("failed to delete document", "document_id", doc.ID, "err", err.Error())
		return newError(KindDatabase, "failed to delete document", err)
	}

	if err := s.metadataStore.Delete(kvdb.HashesBucket, doc.FileHash); err != nil {
		s.logger.Error("failed to delete document hash", "document_id", doc.ID, "err", err.Error())
	}

	s.logger.Info("document deleted", "document_id", doc.ID)
	return nil
}

func (s *Service) saveDocument(doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		s.logger.Error("failed to marshal document", "document_id", doc.ID, "err", err.Error())
		return err
	}

	if err := s.metadataStore.Set(kvdb.DocumentsBucket, doc.ID, string(data)); err != nil {
		s.logger.Error("failed to save document", "document_id", doc.ID, "err", err.Error())
		return err
	}

	if err := s.metadataStore.Set(kvdb.HashesBucket, doc.FileHash, doc.ID); err != nil {
		s.logger.Error("failed to save document hash", "document_id", doc.ID, "err", err.Error())
		s.removeDocument(doc)
		return err
	}

	return nil
}

func (s *Service) removeDocument(doc *Document) {
	if err := s.metadataStore.Delete(kvdb.DocumentsBucket, doc.ID); err != nil {
		s.logger.Error("failed to roll back document", "document_id", doc.ID, "err", err.Error())
	}
	if err := s.metadataStore.Delete(kvdb.HashesBucket, doc.FileHash); err != nil {
		s.logger.Error("failed to roll back document hash", "document_id", doc.ID, "err", err.Error())
	}
}

func (s *Service) allowedFileTypesList() []string {
	fileTypes := make([]string, 0, len(s.allowedFileTypes))
	for allowedType := range s.allowedFileTypes {
		fileTypes = append(fileTypes, allowedType)
	}
	sort.Strings(fileTypes)

	return fileTypes
}

func calculateHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
