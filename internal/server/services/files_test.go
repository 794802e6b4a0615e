package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/dmitrijs2005/sheetglance/internal/common"
	"github.com/dmitrijs2005/sheetglance/internal/server/blob"
	"github.com/dmitrijs2005/sheetglance/internal/server/kvstore"
	"github.com/dmitrijs2005/sheetglance/internal/server/models"
)

const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type failingBlob struct {
	blob.Store
}

func (failingBlob) Put(ctx context.Context, key string, data []byte, contentType string) error {
	return errors.New("blob down")
}

func TestUpload_Success(t *testing.T) {
	t.Parallel()

	store := kvstore.NewMemoryStore()
	blobs := blob.NewMemoryStore()
	svc := NewFileService(store, blobs, testLogger())
	ctx := context.Background()

	record, err := svc.Upload(ctx, UploadRequest{
		UserID:      "u1",
		FileName:    "sales.xlsx",
		ContentType: xlsxType,
		Data:        bytes.Repeat([]byte("x"), 4096),
	})
	if err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	if record.ID == "" || record.UserID != "u1" || record.Size != 4096 {
		t.Fatalf("unexpected record: %+v", record)
	}

	// Canonical record and index entry must hold identical content.
	canonical, err := store.Get(ctx, fileKey(record.ID))
	if err != nil {
		t.Fatalf("canonical record missing: %v", err)
	}
	index, err := store.Get(ctx, userFileKey("u1", record.ID))
	if err != nil {
		t.Fatalf("index entry missing: %v", err)
	}
	if !bytes.Equal(canonical, index) {
		t.Fatalf("canonical and index entries differ")
	}

	// The bytes landed in the blob store under the record's storage path.
	stored, err := blobs.Get(ctx, record.StoragePath)
	if err != nil {
		t.Fatalf("blob missing: %v", err)
	}
	if len(stored) != 4096 {
		t.Fatalf("unexpected blob size: %d", len(stored))
	}
}

func TestUpload_Validation(t *testing.T) {
	t.Parallel()

	store := kvstore.NewMemoryStore()
	blobs := blob.NewMemoryStore()
	svc := NewFileService(store, blobs, testLogger())
	ctx := context.Background()

	cases := []struct {
		name string
		req  UploadRequest
	}{
		{"empty file", UploadRequest{UserID: "u1", FileName: "a.xlsx", ContentType: xlsxType}},
		{"oversize", UploadRequest{
			UserID: "u1", FileName: "big.xlsx", ContentType: xlsxType,
			Data: make([]byte, common.MaxUploadSizeBytes+1),
		}},
		{"wrong type", UploadRequest{
			UserID: "u1", FileName: "doc.pdf", ContentType: "application/pdf", Data: []byte("x"),
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Upload(ctx, tc.req)
			if !errors.Is(err, common.ErrValidation) {
				t.Fatalf("expected common.ErrValidation, got %v", err)
			}
		})
	}

	// Nothing may have been written.
	if blobs.Len() != 0 {
		t.Fatalf("expected no blobs, got %d", blobs.Len())
	}
	items, err := store.ScanPrefix(ctx, "")
	if err != nil {
		t.Fatalf("ScanPrefix error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no metadata, got %d items", len(items))
	}
}

func TestUpload_ExtensionFallback(t *testing.T) {
	t.Parallel()

	svc := NewFileService(kvstore.NewMemoryStore(), blob.NewMemoryStore(), testLogger())

	// Browsers frequently send a generic type; the extension decides.
	_, err := svc.Upload(context.Background(), UploadRequest{
		UserID: "u1", FileName: "report.csv", ContentType: "application/octet-stream", Data: []byte("a,b\n1,2\n"),
	})
	if err != nil {
		t.Fatalf("expected extension fallback to accept .csv, got %v", err)
	}
}

func TestUpload_BlobFailureWritesNoMetadata(t *testing.T) {
	t.Parallel()

	store := kvstore.NewMemoryStore()
	svc := NewFileService(store, failingBlob{}, testLogger())

	_, err := svc.Upload(context.Background(), UploadRequest{
		UserID: "u1", FileName: "sales.xlsx", ContentType: xlsxType, Data: []byte("x"),
	})
	if !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("expected common.ErrorInternal, got %v", err)
	}

	items, err := store.ScanPrefix(context.Background(), "")
	if err != nil {
		t.Fatalf("ScanPrefix error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no metadata after blob failure, got %d items", len(items))
	}
}

func TestUpload_IndexFailureCompensatesCanonical(t *testing.T) {
	t.Parallel()

	inner := kvstore.NewMemoryStore()
	store := &failingStore{Store: inner, failPutPrefix: "user_files:"}
	svc := NewFileService(store, blob.NewMemoryStore(), testLogger())
	ctx := context.Background()

	_, err := svc.Upload(ctx, UploadRequest{
		UserID: "u1", FileName: "sales.xlsx", ContentType: xlsxType, Data: []byte("x"),
	})
	if !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("expected common.ErrorInternal, got %v", err)
	}

	// The canonical record must have been deleted again.
	items, err := inner.ScanPrefix(ctx, filePrefix)
	if err != nil {
		t.Fatalf("ScanPrefix error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected compensated canonical record, found %d", len(items))
	}
}

func TestList_OnlyOwnersFiles(t *testing.T) {
	t.Parallel()

	store := kvstore.NewMemoryStore()
	blobs := blob.NewMemoryStore()
	svc := NewFileService(store, blobs, testLogger())
	ctx := context.Background()

	for _, owner := range []string{"u1", "u2", "u1"} {
		if _, err := svc.Upload(ctx, UploadRequest{
			UserID: owner, FileName: "f.csv", ContentType: "text/csv", Data: []byte("a\n"),
		}); err != nil {
			t.Fatalf("Upload error: %v", err)
		}
	}

	files, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files for u1, got %d", len(files))
	}
	for _, f := range files {
		if f.UserID != "u1" {
			t.Fatalf("foreign file in listing: %+v", f)
		}
	}

	empty, err := svc.List(ctx, "u3")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty listing, got %d", len(empty))
	}
}

func TestLoadOwnedFile(t *testing.T) {
	t.Parallel()

	store := kvstore.NewMemoryStore()
	ctx := context.Background()

	seedFile(t, store, &models.FileRecord{ID: "f1", UserID: "u1", FileName: "a.csv"})

	if _, err := loadOwnedFile(ctx, store, "u1", "f1"); err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if _, err := loadOwnedFile(ctx, store, "u2", "f1"); !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("expected common.ErrForbidden, got %v", err)
	}
	if _, err := loadOwnedFile(ctx, store, "u1", "missing"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestFileRecordJSONShape(t *testing.T) {
	t.Parallel()

	store := kvstore.NewMemoryStore()
	svc := NewFileService(store, blob.NewMemoryStore(), testLogger())

	record, err := svc.Upload(context.Background(), UploadRequest{
		UserID: "u1", FileName: "sales.xlsx", ContentType: xlsxType, Data: []byte("x"),
	})
	if err != nil {
		t.Fatalf("Upload error: %v", err)
	}

	raw, err := store.Get(context.Background(), fileKey(record.ID))
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, field := range []string{"id", "userId", "fileName", "originalName", "storagePath", "uploadedAt", "size", "type"} {
		if _, ok := m[field]; !ok {
			t.Fatalf("missing field %q in stored record: %v", field, m)
		}
	}
}
