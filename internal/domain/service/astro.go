package service

import (
	"context"

	"Kundali/internal/domain/models"
)

// TropicalPositions maps each body to its tropical ecliptic longitude in degrees.
// Rahu holds the lunar ascending node; Ketu is derived by the caller.
type TropicalPositions map[models.Planet]float64

// Ephemeris produces tropical longitudes for a Julian day (UT).
// Implementations must be deterministic for a given Julian day.
type Ephemeris interface {
	Positions(ctx context.Context, julianDay float64) (TropicalPositions, error)
	Name() string
}

// Predictor scores a 53-element feature vector.
type Predictor interface {
	Predict(ctx context.Context, features []float64) (models.PredictionResult, error)
	Name() string
}
