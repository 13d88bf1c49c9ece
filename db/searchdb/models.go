package searchdb

import "time"

// Document is what gets indexed: catalogue metadata plus the full text.
type Document struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	FileName   string    `json:"file_name"`
	FileType   string    `json:"file_type"`
	FileSize   int64     `json:"file_size"`
	UploadedAt time.Time `json:"uploaded_at"`
	Content    string    `json:"content"`
}

// SearchDocument is the content-free snapshot of a document returned with
// search results.
type SearchDocument struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	FileName   string    `json:"file_name"`
	FileType   string    `json:"file_type"`
	FileSize   int64     `json:"file_size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Query asks for documents containing every word of Text, optionally limited
// to one owner and/or one document.
type Query struct {
	Text       string
	UserID     string
	DocumentID string
	Limit      int
}

// Candidate is one ranked match. Headline is the full document content with
// every matched term wrapped in highlight markers.
type Candidate struct {
	Document SearchDocument
	Headline string
	Rank     float64
}
