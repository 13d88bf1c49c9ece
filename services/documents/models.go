package documents

import (
	"time"

	"github.com/meghashyamc/docsearch/db/searchdb"
)

// Document is the catalogue record kept in the key-value store.
type Document struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	FileName   string    `json:"file_name"`
	FileType   string    `json:"file_type"`
	FileSize   int64     `json:"file_size"`
	FileHash   string    `json:"file_hash"`
	UploadedAt time.Time `json:"uploaded_at"`
}

func (d *Document) searchDocument(content string) searchdb.Document {
	return searchdb.Document{
		ID:         d.ID,
		UserID:     d.UserID,
		FileName:   d.FileName,
		FileType:   d.FileType,
		FileSize:   d.FileSize,
		UploadedAt: d.UploadedAt,
		Content:    content,
	}
}

type Upload struct {
	UserID   string
	FileName string
	Content  []byte
}
