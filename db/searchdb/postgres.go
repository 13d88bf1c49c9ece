package searchdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/meghashyamc/docsearch/fragment"
	"github.com/meghashyamc/docsearch/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

const (
	postgresTextSearchConfig = "russian"
	postgresPingTimeout      = 5 * time.Second
)

// documentRow maps to an existing search_documents table:
//
//	id uuid primary key, user_id uuid, file_name text, file_type text,
//	file_size bigint, uploaded_at timestamptz, content text
type documentRow struct {
	ID         string    `gorm:"column:id;primaryKey"`
	UserID     string    `gorm:"column:user_id"`
	FileName   string    `gorm:"column:file_name"`
	FileType   string    `gorm:"column:file_type"`
	FileSize   int64     `gorm:"column:file_size"`
	UploadedAt time.Time `gorm:"column:uploaded_at"`
	Content    string    `gorm:"column:content"`
}

func (documentRow) TableName() string {
	return "search_documents"
}

type candidateRow struct {
	ID         string    `gorm:"column:id"`
	UserID     string    `gorm:"column:user_id"`
	FileName   string    `gorm:"column:file_name"`
	FileType   string    `gorm:"column:file_type"`
	FileSize   int64     `gorm:"column:file_size"`
	UploadedAt time.Time `gorm:"column:uploaded_at"`
	Headline   string    `gorm:"column:headline"`
	Rank       float64   `gorm:"column:rank"`
}

// PostgresDB searches with PostgreSQL full-text search: ts_rank for ordering
// and ts_headline with HighlightAll for marked-up content.
type PostgresDB struct {
	db     *gorm.DB
	logger logger.Logger
}

func NewPostgres(ctx context.Context, logger logger.Logger, dsn string) (*PostgresDB, error) {
	if len(dsn) == 0 {
		return nil, fmt.Errorf("postgres dsn is not configured")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		logger.Error("could not connect to postgres", "err", err.Error())
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, postgresPingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		logger.Error("could not ping postgres", "err", err.Error())
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &PostgresDB{db: db, logger: logger}, nil
}

func (p *PostgresDB) Index(ctx context.Context, documents []Document) error {
	if len(documents) == 0 {
		return nil
	}

	rows := make([]documentRow, 0, len(documents))
	for _, doc := range documents {
		rows = append(rows, documentRow(doc))
	}

	err := p.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		CreateInBatches(rows, indexingBatchSize).Error
	if err != nil {
		p.logger.Error("could not index documents", "err", err.Error())
		return fmt.Errorf("failed to index documents: %w", err)
	}

	return nil
}

func (p *PostgresDB) Delete(ctx context.Context, documentIDs []string) error {
	if len(documentIDs) == 0 {
		return nil
	}

	if err := p.db.WithContext(ctx).Where("id IN ?", documentIDs).Delete(&documentRow{}).Error; err != nil {
		p.logger.Error("could not delete documents", "err", err.Error())
		return fmt.Errorf("failed to delete documents: %w", err)
	}

	return nil
}

func (p *PostgresDB) Search(ctx context.Context, searchQuery Query) ([]Candidate, error) {
	if len(strings.TrimSpace(searchQuery.Text)) == 0 {
		return []Candidate{}, nil
	}

	statement, args := buildSearchSQL(searchQuery)

	var rows []candidateRow
	if err := p.db.WithContext(ctx).Raw(statement, args...).Scan(&rows).Error; err != nil {
		p.logger.Error("search failed", "err", err.Error())
		return nil, fmt.Errorf("search failed: %w", err)
	}

	candidates := make([]Candidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, Candidate{
			Document: SearchDocument{
				ID:         row.ID,
				UserID:     row.UserID,
				FileName:   row.FileName,
				FileType:   row.FileType,
				FileSize:   row.FileSize,
				UploadedAt: row.UploadedAt.UTC(),
			},
			Headline: row.Headline,
			Rank:     row.Rank,
		})
	}

	return candidates, nil
}

func buildSearchSQL(searchQuery Query) (string, []any) {
	markers := fragment.DefaultMarkers
	headlineOptions := fmt.Sprintf(`HighlightAll=true, StartSel="%s", StopSel="%s"`, markers.Start, markers.End)

	conditions := []string{"to_tsvector(?::regconfig, d.content) @@ q.query"}
	args := []any{
		postgresTextSearchConfig, headlineOptions,
		postgresTextSearchConfig,
		postgresTextSearchConfig, strings.TrimSpace(searchQuery.Text),
		postgresTextSearchConfig,
	}

	if len(searchQuery.UserID) > 0 {
		conditions = append(conditions, "d.user_id = ?")
		args = append(args, searchQuery.UserID)
	}
	if len(searchQuery.DocumentID) > 0 {
		conditions = append(conditions, "d.id = ?")
		args = append(args, searchQuery.DocumentID)
	}
	args = append(args, searchLimit(searchQuery))

	statement := `SELECT d.id, d.user_id, d.file_name, d.file_type, d.file_size, d.uploaded_at,
	ts_headline(?::regconfig, d.content, q.query, ?) AS headline,
	ts_rank(to_tsvector(?::regconfig, d.content), q.query) AS rank
FROM search_documents d, plainto_tsquery(?::regconfig, ?) AS q(query)
WHERE ` + strings.Join(conditions, " AND ") + `
ORDER BY rank DESC, d.uploaded_at ASC
LIMIT ?`

	return statement, args
}

func (p *PostgresDB) GetDocCount() (uint64, error) {
	var count int64
	if err := p.db.Model(&documentRow{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return uint64(count), nil
}

func (p *PostgresDB) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}

	if err := sqlDB.Close(); err != nil {
		p.logger.Error("could not close postgres connection", "err", err.Error())
		return err
	}

	return nil
}
