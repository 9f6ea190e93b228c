package repository

import (
	"context"
	"time"

	"Kundali/internal/domain/models"
)

// FeatureStore persists feature vectors and predictions for model retraining.
type FeatureStore interface {
	Init(ctx context.Context) error
	Save(ctx context.Context, r *models.ChartRecord) error
	SaveBatch(ctx context.Context, rs []*models.ChartRecord) error
	Recent(ctx context.Context, since time.Time, limit int) ([]*models.ChartRecord, error)
	Health(ctx context.Context) error
	Close() error
}
