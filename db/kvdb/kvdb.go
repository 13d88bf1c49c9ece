package kvdb

const (
	// DocumentsBucket maps document id to the JSON catalogue record.
	DocumentsBucket = "documents"
	// HashesBucket maps the sha256 of uploaded bytes to the document id.
	HashesBucket = "hashes"
)

var buckets = []string{DocumentsBucket, HashesBucket}

type DB interface {
	Set(bucket string, key string, value string) error
	Get(bucket string, key string) (string, error)
	Delete(bucket string, key string) error
	GetAllKeys(bucket string) ([]string, error)
	Close() error
}
