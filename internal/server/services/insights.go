package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/sheetglance/internal/common"
	"github.com/dmitrijs2005/sheetglance/internal/logging"
	"github.com/dmitrijs2005/sheetglance/internal/server/kvstore"
	"github.com/dmitrijs2005/sheetglance/internal/server/models"
)

// Generator computes insight strings for a file. The real analysis backend
// is not decided yet; StubGenerator stands in for it.
type Generator interface {
	Generate(ctx context.Context, file *models.FileRecord) ([]string, error)
}

// StubGenerator returns a fixed sample summary.
type StubGenerator struct{}

func (StubGenerator) Generate(ctx context.Context, file *models.FileRecord) ([]string, error) {
	return []string{
		"Your data shows a strong upward trend over time",
		"Peak performance occurs in Q3 consistently",
		"There's a 23% correlation between variables A and B",
		"Seasonal patterns suggest planning for Q4 dips",
	}, nil
}

// InsightService implements idempotent insight (re)generation: every call
// mints a record under a fresh id and republishes it under the per-file
// lookup key, replacing whatever was current. Callers must fetch by the
// per-file key, never by a remembered record id.
type InsightService struct {
	store     kvstore.Store
	generator Generator
	logger    logging.Logger
}

// NewInsightService constructs an InsightService.
func NewInsightService(store kvstore.Store, generator Generator, logger logging.Logger) *InsightService {
	return &InsightService{
		store:     store,
		generator: generator,
		logger:    logger.With("module", "insights"),
	}
}

// Generate (re)computes insights for fileID on behalf of userID.
func (s *InsightService) Generate(ctx context.Context, userID, fileID string) (*models.InsightRecord, error) {
	file, err := loadOwnedFile(ctx, s.store, userID, fileID)
	if err != nil {
		return nil, err
	}

	insights, err := s.generator.Generate(ctx, file)
	if err != nil {
		s.logger.Error(ctx, "insight generation failed", "fileId", fileID, "error", err)
		return nil, common.ErrorInternal
	}

	record := &models.InsightRecord{
		ID:          uuid.New().String(),
		FileID:      fileID,
		UserID:      userID,
		Insights:    insights,
		GeneratedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.store.Put(ctx, insightKey(record.ID), data); err != nil {
		s.logger.Error(ctx, "insight record write failed", "insightId", record.ID, "error", err)
		return nil, common.ErrorInternal
	}
	if err := s.store.Put(ctx, fileInsightsKey(fileID), data); err != nil {
		s.logger.Error(ctx, "insight republish failed", "fileId", fileID, "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "insights generated", "fileId", fileID, "insightId", record.ID)
	return record, nil
}

// Current returns the latest generated record for fileID, gated by
// ownership of the file.
func (s *InsightService) Current(ctx context.Context, userID, fileID string) (*models.InsightRecord, error) {
	if _, err := loadOwnedFile(ctx, s.store, userID, fileID); err != nil {
		return nil, err
	}

	data, err := s.store.Get(ctx, fileInsightsKey(fileID))
	if err != nil {
		return nil, err
	}

	record := &models.InsightRecord{}
	if err := json.Unmarshal(data, record); err != nil {
		return nil, fmt.Errorf("corrupt insight record for file %q: %w", fileID, err)
	}
	return record, nil
}
