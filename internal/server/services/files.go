// Package services contains the core business logic: file ingestion,
// insight generation and chart data extraction, all reading and writing
// through the metadata store abstraction.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/sheetglance/internal/common"
	"github.com/dmitrijs2005/sheetglance/internal/logging"
	"github.com/dmitrijs2005/sheetglance/internal/server/blob"
	"github.com/dmitrijs2005/sheetglance/internal/server/kvstore"
	"github.com/dmitrijs2005/sheetglance/internal/server/models"
)

// spreadsheetTypes are the accepted declared content types.
var spreadsheetTypes = map[string]struct{}{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
	"application/vnd.ms-excel":                                          {},
	"text/csv":                                                          {},
}

// spreadsheetExtensions is the fallback check when the declared type is
// missing or generic (browsers often send application/octet-stream).
var spreadsheetExtensions = map[string]struct{}{
	".xlsx": {},
	".xls":  {},
	".csv":  {},
}

// FileService implements the upload pipeline and per-owner listing.
type FileService struct {
	store  kvstore.Store
	blobs  blob.Store
	logger logging.Logger
}

// NewFileService constructs a FileService.
func NewFileService(store kvstore.Store, blobs blob.Store, logger logging.Logger) *FileService {
	return &FileService{
		store:  store,
		blobs:  blobs,
		logger: logger.With("module", "files"),
	}
}

// UploadRequest carries one validated-by-the-handler multipart upload.
type UploadRequest struct {
	UserID      string
	FileName    string
	ContentType string
	Data        []byte
}

// Upload validates the request, writes the bytes to the blob store, then
// writes the canonical FileRecord and its ownership-index entry.
//
// Write ordering: the blob write completes before any metadata write, so a
// failure never leaves metadata pointing at missing bytes. If the index
// write fails after the canonical write succeeded, the canonical record is
// deleted again (best effort) so listings and canonical truth cannot
// diverge; the blob remains as a harmless orphan.
func (s *FileService) Upload(ctx context.Context, req UploadRequest) (*models.FileRecord, error) {
	if len(req.Data) == 0 {
		return nil, fmt.Errorf("%w: no file provided", common.ErrValidation)
	}
	if int64(len(req.Data)) > common.MaxUploadSizeBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", common.ErrValidation, common.MaxUploadSizeBytes)
	}
	if !isSpreadsheet(req.ContentType, req.FileName) {
		return nil, fmt.Errorf("%w: not a spreadsheet: %s", common.ErrValidation, req.ContentType)
	}

	record := &models.FileRecord{
		ID:           uuid.New().String(),
		UserID:       req.UserID,
		FileName:     req.FileName,
		OriginalName: req.FileName,
		UploadedAt:   time.Now().UTC(),
		Size:         int64(len(req.Data)),
		Type:         req.ContentType,
	}
	record.StoragePath = fmt.Sprintf("%s/%s_%s", req.UserID, record.ID, req.FileName)

	if err := s.blobs.Put(ctx, record.StoragePath, req.Data, req.ContentType); err != nil {
		s.logger.Error(ctx, "blob write failed", "error", err)
		return nil, common.ErrorInternal
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.store.Put(ctx, fileKey(record.ID), data); err != nil {
		s.logger.Error(ctx, "canonical record write failed", "fileId", record.ID, "error", err)
		return nil, common.ErrorInternal
	}

	if err := s.store.Put(ctx, userFileKey(req.UserID, record.ID), data); err != nil {
		s.logger.Error(ctx, "index write failed, removing canonical record", "fileId", record.ID, "error", err)
		if delErr := s.store.Delete(ctx, fileKey(record.ID)); delErr != nil {
			s.logger.Error(ctx, "compensation failed, records diverged", "fileId", record.ID, "error", delErr)
		}
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "file uploaded", "fileId", record.ID, "size", record.Size)
	return record, nil
}

// List returns every file owned by userID via a prefix scan of the
// ownership index, ordered by file id.
func (s *FileService) List(ctx context.Context, userID string) ([]*models.FileRecord, error) {
	items, err := s.store.ScanPrefix(ctx, userFilesScanPrefix(userID))
	if err != nil {
		s.logger.Error(ctx, "listing scan failed", "error", err)
		return nil, common.ErrorInternal
	}

	result := make([]*models.FileRecord, 0, len(items))
	for _, item := range items {
		record := &models.FileRecord{}
		if err := json.Unmarshal(item.Value, record); err != nil {
			return nil, fmt.Errorf("corrupt index entry %q: %w", item.Key, err)
		}
		result = append(result, record)
	}
	return result, nil
}

// loadOwnedFile is the ownership gate shared by the derived-view services:
// it loads the canonical record and fails with ErrorNotFound when absent or
// ErrForbidden when owned by someone else.
func loadOwnedFile(ctx context.Context, store kvstore.Store, userID, fileID string) (*models.FileRecord, error) {
	data, err := store.Get(ctx, fileKey(fileID))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	record := &models.FileRecord{}
	if err := json.Unmarshal(data, record); err != nil {
		return nil, fmt.Errorf("corrupt file record %q: %w", fileID, err)
	}
	if record.UserID != userID {
		return nil, common.ErrForbidden
	}
	return record, nil
}

func isSpreadsheet(contentType, fileName string) bool {
	if _, ok := spreadsheetTypes[strings.ToLower(contentType)]; ok {
		return true
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	_, ok := spreadsheetExtensions[ext]
	return ok
}
