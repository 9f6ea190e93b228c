package ephemeris

import (
	"context"
	"fmt"
	"math"

	"Kundali/internal/domain/models"
	"Kundali/internal/domain/service"
	"Kundali/internal/services/astro"
)

// speedWindow is the half-width, in days, of the central difference used for daily motion.
const speedWindow = 0.5

// Snapshot holds tropical longitude and daily motion for every graha.
type Snapshot struct {
	Longitudes [models.PlanetCount]float64
	Speeds     [models.PlanetCount]float64
}

// Take samples e at jd and around it, derives Ketu opposite Rahu and
// reports daily motion. Any missing or non-finite longitude is an
// ErrEphemerisUnavailable.
func Take(ctx context.Context, e service.Ephemeris, jd float64) (Snapshot, error) {
	var snap Snapshot
	now, err := sample(ctx, e, jd)
	if err != nil {
		return snap, err
	}
	before, err := sample(ctx, e, jd-speedWindow)
	if err != nil {
		return snap, err
	}
	after, err := sample(ctx, e, jd+speedWindow)
	if err != nil {
		return snap, err
	}
	for _, p := range models.AllPlanets {
		snap.Longitudes[p] = now[p]
		snap.Speeds[p] = astro.SignedDelta(before[p], after[p]) / (2 * speedWindow)
	}
	return snap, nil
}

func sample(ctx context.Context, e service.Ephemeris, jd float64) ([models.PlanetCount]float64, error) {
	var out [models.PlanetCount]float64
	pos, err := e.Positions(ctx, jd)
	if err != nil {
		if ce := models.CodeOf(err); ce != "" {
			return out, err
		}
		return out, models.NewChartError(models.CodeEphemerisUnavailable, "", "ephemeris lookup failed").WithError(err)
	}
	for _, p := range models.AllPlanets[:models.Ketu] {
		v, ok := pos[p]
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			return out, models.NewChartError(models.CodeEphemerisUnavailable, "",
				fmt.Sprintf("ephemeris returned no usable longitude for %s", p))
		}
		out[p] = astro.Normalize(v)
	}
	out[models.Ketu] = astro.Normalize(out[models.Rahu] + 180)
	return out, nil
}
