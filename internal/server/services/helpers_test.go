package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/sheetglance/internal/logging"
	"github.com/dmitrijs2005/sheetglance/internal/server/kvstore"
	"github.com/dmitrijs2005/sheetglance/internal/server/models"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// failingStore delegates to an inner store but fails Put for keys with the
// configured prefix.
type failingStore struct {
	kvstore.Store
	failPutPrefix string
}

func (f *failingStore) Put(ctx context.Context, key string, value []byte) error {
	if f.failPutPrefix != "" && strings.HasPrefix(key, f.failPutPrefix) {
		return errors.New("store down")
	}
	return f.Store.Put(ctx, key, value)
}

// seedFile writes a canonical FileRecord directly into the store.
func seedFile(t *testing.T, store kvstore.Store, record *models.FileRecord) {
	t.Helper()
	if record.UploadedAt.IsZero() {
		record.UploadedAt = time.Now().UTC()
	}
	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal seed record: %v", err)
	}
	if err := store.Put(context.Background(), fileKey(record.ID), data); err != nil {
		t.Fatalf("seed canonical record: %v", err)
	}
}
