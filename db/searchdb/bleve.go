package searchdb

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/analysis/lang/ru"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/meghashyamc/docsearch/config"
	"github.com/meghashyamc/docsearch/logger"
)

const indexingBatchSize = 100

const (
	indexFieldID         = "id"
	indexFieldUserID     = "user_id"
	indexFieldFileName   = "file_name"
	indexFieldFileType   = "file_type"
	indexFieldFileSize   = "file_size"
	indexFieldUploadedAt = "uploaded_at"
	indexFieldContent    = "content"
)

var storedFields = []string{
	indexFieldUserID,
	indexFieldFileName,
	indexFieldFileType,
	indexFieldFileSize,
	indexFieldUploadedAt,
	indexFieldContent,
}

type BleveDB struct {
	indexPath string
	logger    logger.Logger
	index     bleve.Index
}

func New(logger logger.Logger, cfg *config.Config) (*BleveDB, error) {
	if len(cfg.GetIndexPath()) == 0 {
		logger.Warn("no index path configured, using an in-memory index")
		return NewInMemory(logger)
	}

	mapping := createIndexMapping()
	indexPath := filepath.Join(cfg.GetStoragePath(), cfg.GetIndexPath())
	index, err := bleve.New(indexPath, mapping)
	if err != nil {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Error("could not open index", "err", err.Error())
			return nil, err
		}
	}
	return &BleveDB{indexPath: indexPath, logger: logger, index: index}, nil
}

func NewInMemory(logger logger.Logger) (*BleveDB, error) {
	index, err := bleve.NewMemOnly(createIndexMapping())
	if err != nil {
		logger.Error("could not create in-memory index", "err", err.Error())
		return nil, err
	}
	return &BleveDB{logger: logger, index: index}, nil
}

func (b *BleveDB) Index(ctx context.Context, documents []Document) error {

	batch := b.index.NewBatch()

	for i, doc := range documents {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := batch.Index(doc.ID, doc)
		if err != nil {
			b.logger.Error("could not index document", "document_id", doc.ID, "err", err.Error())
			return err
		}

		// Execute batch when it reaches the batch size
		if (i+1)%indexingBatchSize == 0 {
			err = b.index.Batch(batch)
			if err != nil {
				return err
			}
			batch = b.index.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := b.index.Batch(batch); err != nil {
			b.logger.Error("could not index document", "err", err.Error())
			return err
		}
	}

	return nil
}

func createIndexMapping() mapping.IndexMapping {

	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	// Identifiers - not analyzed (exact match)
	for _, field := range []string{indexFieldID, indexFieldUserID, indexFieldFileType} {
		keywordFieldMapping := bleve.NewTextFieldMapping()
		keywordFieldMapping.Analyzer = keyword.Name
		docMapping.AddFieldMappingsAt(field, keywordFieldMapping)
	}

	nameFieldMapping := bleve.NewTextFieldMapping()
	nameFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt(indexFieldFileName, nameFieldMapping)

	// Content field - stemmed, stored and with term vectors so that matches
	// can be marked up in the returned content
	contentFieldMapping := bleve.NewTextFieldMapping()
	contentFieldMapping.Analyzer = ru.AnalyzerName
	contentFieldMapping.Store = true
	contentFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt(indexFieldContent, contentFieldMapping)

	sizeFieldMapping := bleve.NewNumericFieldMapping()
	docMapping.AddFieldMappingsAt(indexFieldFileSize, sizeFieldMapping)

	uploadedAtFieldMapping := bleve.NewDateTimeFieldMapping()
	docMapping.AddFieldMappingsAt(indexFieldUploadedAt, uploadedAtFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}

func (b *BleveDB) Search(ctx context.Context, searchQuery Query) ([]Candidate, error) {
	start := time.Now()

	searchRequest := bleve.NewSearchRequestOptions(b.buildSearchQuery(searchQuery), searchLimit(searchQuery), 0, false)
	searchRequest.Fields = storedFields
	searchRequest.IncludeLocations = true

	searchResult, err := b.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		b.logger.Error("search failed", "err", err.Error())
		return nil, fmt.Errorf("search failed: %w", err)
	}

	candidates := make([]Candidate, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		content, _ := hit.Fields[indexFieldContent].(string)

		candidates = append(candidates, Candidate{
			Document: documentFromFields(hit.ID, hit.Fields),
			Headline: buildHeadline(content, contentMatchRanges(hit.Locations)),
			Rank:     hit.Score,
		})
	}

	b.logger.Debug("bleve search finished", "hits", len(candidates), "took", time.Since(start).String())

	return candidates, nil
}

func (b *BleveDB) buildSearchQuery(searchQuery Query) query.Query {

	queryString := strings.TrimSpace(searchQuery.Text)
	if queryString == "" {
		return bleve.NewMatchNoneQuery()
	}

	contentQuery := bleve.NewMatchQuery(queryString)
	contentQuery.SetField(indexFieldContent)
	contentQuery.SetOperator(query.MatchQueryOperatorAnd)

	conjunctQuery := bleve.NewConjunctionQuery(contentQuery)

	if len(searchQuery.UserID) > 0 {
		userQuery := bleve.NewTermQuery(searchQuery.UserID)
		userQuery.SetField(indexFieldUserID)
		conjunctQuery.AddQuery(userQuery)
	}

	if len(searchQuery.DocumentID) > 0 {
		conjunctQuery.AddQuery(bleve.NewDocIDQuery([]string{searchQuery.DocumentID}))
	}

	return conjunctQuery
}

func documentFromFields(id string, fields map[string]interface{}) SearchDocument {
	doc := SearchDocument{ID: id}

	if userID, ok := fields[indexFieldUserID].(string); ok {
		doc.UserID = userID
	}
	if fileName, ok := fields[indexFieldFileName].(string); ok {
		doc.FileName = fileName
	}
	if fileType, ok := fields[indexFieldFileType].(string); ok {
		doc.FileType = fileType
	}
	if size, ok := fields[indexFieldFileSize].(float64); ok {
		doc.FileSize = int64(size)
	}
	if uploadedAt, ok := fields[indexFieldUploadedAt].(string); ok {
		if parsed, err := time.Parse(time.RFC3339Nano, uploadedAt); err == nil {
			doc.UploadedAt = parsed.UTC()
		}
	}

	return doc
}

func contentMatchRanges(locations search.FieldTermLocationMap) []matchRange {
	contentLocations, ok := locations[indexFieldContent]
	if !ok {
		return nil
	}

	var ranges []matchRange
	for _, termLocations := range contentLocations {
		for _, location := range termLocations {
			if location == nil {
				continue
			}
			ranges = append(ranges, matchRange{start: int(location.Start), end: int(location.End)})
		}
	}

	return ranges
}

func (b *BleveDB) Delete(ctx context.Context, documentIDs []string) error {
	batch := b.index.NewBatch()

	for i, docID := range documentIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch.Delete(docID)

		// Execute batch when it reaches the batch size
		if (i+1)%indexingBatchSize == 0 {
			err := b.index.Batch(batch)
			if err != nil {
				return err
			}
			batch = b.index.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := b.index.Batch(batch); err != nil {
			b.logger.Error("could not delete documents", "err", err.Error())
			return err
		}
	}

	return nil
}

func (b *BleveDB) GetDocCount() (uint64, error) {
	return b.index.DocCount()
}

func (b *BleveDB) Close() error {

	if b.index != nil {
		if err := b.index.Close(); err != nil {
			b.logger.Error("could not close search index", "err", err.Error())
			return err
		}
	}
	return nil
}
