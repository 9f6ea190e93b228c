package ephemeris

import (
	"context"
	"fmt"
	"time"

	"Kundali/internal/domain/models"
	"Kundali/internal/domain/service"
	xhttp "Kundali/pkg/http"
)

type positionsRequest struct {
	JulianDay float64 `json:"julian_day"`
}

type positionsResponse struct {
	Positions map[string]float64 `json:"positions"`
}

// Remote queries an external ephemeris service:
// POST {base}/positions {"julian_day": jd} -> {"positions": {"Sun": 280.4, ...}}.
type Remote struct {
	base *xhttp.ServiceBase
}

var _ service.Ephemeris = (*Remote)(nil)

// NewRemote builds a remote ephemeris client.
func NewRemote(baseURL string, timeout time.Duration, opts ...xhttp.ClientOption) *Remote {
	return &Remote{base: xhttp.NewServiceBase(baseURL, timeout, opts...)}
}

func (r *Remote) Name() string { return "remote" }

func (r *Remote) Positions(ctx context.Context, jd float64) (service.TropicalPositions, error) {
	var resp positionsResponse
	if err := r.base.PostJSON(ctx, "/positions", positionsRequest{JulianDay: jd}, &resp); err != nil {
		return nil, models.NewChartError(models.CodeEphemerisUnavailable, "",
			"remote ephemeris request failed").WithError(err)
	}
	out := make(service.TropicalPositions, len(resp.Positions))
	for name, lon := range resp.Positions {
		p, err := models.ParsePlanet(name)
		if err != nil {
			continue
		}
		out[p] = lon
	}
	if len(out) == 0 {
		return nil, models.NewChartError(models.CodeEphemerisUnavailable, "",
			fmt.Sprintf("remote ephemeris returned no positions for jd %.5f", jd))
	}
	return out, nil
}

// Fallback tries primary and, on failure, secondary.
type Fallback struct {
	Primary   service.Ephemeris
	Secondary service.Ephemeris
	// OnFallback is called with the primary error before the secondary is tried.
	OnFallback func(err error)
}

var _ service.Ephemeris = (*Fallback)(nil)

func (f *Fallback) Name() string {
	return f.Primary.Name() + "+" + f.Secondary.Name()
}

func (f *Fallback) Positions(ctx context.Context, jd float64) (service.TropicalPositions, error) {
	pos, err := f.Primary.Positions(ctx, jd)
	if err == nil {
		return pos, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	if f.OnFallback != nil {
		f.OnFallback(err)
	}
	return f.Secondary.Positions(ctx, jd)
}
