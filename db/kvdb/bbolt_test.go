package kvdb

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/meghashyamc/docsearch/logger"
	"github.com/stretchr/testify/require"
)

func newTestLogger() logger.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func setupTestBoltDB(t *testing.T, assert *require.Assertions) *BoltDB {
	boltDB, err := Open(newTestLogger(), filepath.Join(t.TempDir(), "nested", "catalogue.db"))
	assert.NoError(err)
	t.Cleanup(func() {
		assert.NoError(boltDB.Close())
	})

	return boltDB
}

func TestBoltSetGetDelete(t *testing.T) {
	assert := require.New(t)
	boltDB := setupTestBoltDB(t, assert)

	assert.NoError(boltDB.Set(DocumentsBucket, "doc-1", `{"id":"doc-1"}`))

	value, err := boltDB.Get(DocumentsBucket, "doc-1")
	assert.NoError(err)
	assert.Equal(`{"id":"doc-1"}`, value)

	_, err = boltDB.Get(HashesBucket, "doc-1")
	assert.ErrorIs(err, ErrNotFound, "buckets are independent")

	assert.NoError(boltDB.Delete(DocumentsBucket, "doc-1"))
	_, err = boltDB.Get(DocumentsBucket, "doc-1")
	assert.ErrorIs(err, ErrNotFound)

	var notFoundErr *NotFoundError
	assert.ErrorAs(err, &notFoundErr)
	assert.Equal(DocumentsBucket, notFoundErr.Bucket)
}

func TestBoltEmptyKey(t *testing.T) {
	assert := require.New(t)
	boltDB := setupTestBoltDB(t, assert)

	assert.ErrorIs(boltDB.Set(DocumentsBucket, "", "value"), ErrInvalidKey)
	_, err := boltDB.Get(DocumentsBucket, "")
	assert.ErrorIs(err, ErrInvalidKey)
	assert.ErrorIs(boltDB.Delete(DocumentsBucket, ""), ErrInvalidKey)
}

func TestBoltUnknownBucket(t *testing.T) {
	assert := require.New(t)
	boltDB := setupTestBoltDB(t, assert)

	assert.Error(boltDB.Set("missing", "key", "value"))
	_, err := boltDB.GetAllKeys("missing")
	assert.Error(err)
}

func TestBoltGetAllKeys(t *testing.T) {
	assert := require.New(t)
	boltDB := setupTestBoltDB(t, assert)

	keys, err := boltDB.GetAllKeys(HashesBucket)
	assert.NoError(err)
	assert.Empty(keys)

	for _, key := range []string{"b", "a", "c"} {
		assert.NoError(boltDB.Set(HashesBucket, key, "doc"))
	}

	keys, err = boltDB.GetAllKeys(HashesBucket)
	assert.NoError(err)
	assert.Equal([]string{"a", "b", "c"}, keys)
}

func TestBoltReopenKeepsData(t *testing.T) {
	assert := require.New(t)
	path := filepath.Join(t.TempDir(), "catalogue.db")

	boltDB, err := Open(newTestLogger(), path)
	assert.NoError(err)
	assert.NoError(boltDB.Set(DocumentsBucket, "doc-1", "value"))
	assert.NoError(boltDB.Close())

	boltDB, err = Open(newTestLogger(), path)
	assert.NoError(err)
	defer boltDB.Close()

	value, err := boltDB.Get(DocumentsBucket, "doc-1")
	assert.NoError(err)
	assert.Equal("value", value)
}

func TestBoltOpenWithoutPath(t *testing.T) {
	assert := require.New(t)
	_, err := Open(newTestLogger(), "")
	assert.Error(err)
}
