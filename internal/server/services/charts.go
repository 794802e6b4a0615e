package services

import (
	"context"

	"github.com/dmitrijs2005/sheetglance/internal/common"
	"github.com/dmitrijs2005/sheetglance/internal/logging"
	"github.com/dmitrijs2005/sheetglance/internal/server/blob"
	"github.com/dmitrijs2005/sheetglance/internal/server/kvstore"
	"github.com/dmitrijs2005/sheetglance/internal/server/models"
)

// Extractor turns raw spreadsheet bytes into a tabular projection. Real
// parsing is not decided yet; StubExtractor stands in for it.
type Extractor interface {
	Extract(ctx context.Context, file *models.FileRecord, data []byte) (*models.ChartDataset, error)
}

// StubExtractor returns a fixed sample dataset.
type StubExtractor struct{}

func (StubExtractor) Extract(ctx context.Context, file *models.FileRecord, data []byte) (*models.ChartDataset, error) {
	return &models.ChartDataset{
		Columns: []string{"Month", "Sales", "Profit", "Customers"},
		Rows: []map[string]any{
			{"Month": "Jan", "Sales": 4000, "Profit": 2400, "Customers": 240},
			{"Month": "Feb", "Sales": 3000, "Profit": 1398, "Customers": 221},
			{"Month": "Mar", "Sales": 2000, "Profit": 9800, "Customers": 229},
			{"Month": "Apr", "Sales": 2780, "Profit": 3908, "Customers": 200},
			{"Month": "May", "Sales": 1890, "Profit": 4800, "Customers": 218},
			{"Month": "Jun", "Sales": 2390, "Profit": 3800, "Customers": 250},
		},
	}, nil
}

// ChartService serves the ownership-gated tabular projection of a file.
// Datasets are produced fresh per request and never persisted.
type ChartService struct {
	store     kvstore.Store
	blobs     blob.Store
	extractor Extractor
	logger    logging.Logger
}

// NewChartService constructs a ChartService.
func NewChartService(store kvstore.Store, blobs blob.Store, extractor Extractor, logger logging.Logger) *ChartService {
	return &ChartService{
		store:     store,
		blobs:     blobs,
		extractor: extractor,
		logger:    logger.With("module", "charts"),
	}
}

// ChartData verifies ownership of fileID, reads the stored bytes and hands
// them to the extractor.
func (s *ChartService) ChartData(ctx context.Context, userID, fileID string) (*models.ChartDataset, error) {
	file, err := loadOwnedFile(ctx, s.store, userID, fileID)
	if err != nil {
		return nil, err
	}

	data, err := s.blobs.Get(ctx, file.StoragePath)
	if err != nil {
		// A record without its blob means ingestion was interrupted; this
		// is a server-side inconsistency, not a caller error.
		s.logger.Error(ctx, "blob read failed", "fileId", fileID, "path", file.StoragePath, "error", err)
		return nil, common.ErrorInternal
	}

	dataset, err := s.extractor.Extract(ctx, file, data)
	if err != nil {
		s.logger.Error(ctx, "chart extraction failed", "fileId", fileID, "error", err)
		return nil, common.ErrorInternal
	}
	return dataset, nil
}
