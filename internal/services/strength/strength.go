package strength

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"Kundali/internal/domain/models"
	"Kundali/internal/services/astro"
)

// Calculator computes Shad Bala for the seven classical planets.
type Calculator struct {
	parallel bool
}

// NewCalculator returns a calculator; parallel evaluates planets concurrently.
func NewCalculator(parallel bool) *Calculator {
	return &Calculator{parallel: parallel}
}

// Compute returns one breakdown per classical planet, in ClassicalPlanets order.
// Results are identical whether or not evaluation is parallel.
func (c *Calculator) Compute(ctx context.Context, chart *models.Chart) ([]models.StrengthBreakdown, error) {
	if len(chart.Planets) != models.PlanetCount {
		return nil, fmt.Errorf("strength: chart has %d planets, want %d", len(chart.Planets), models.PlanetCount)
	}
	t := NewTemporal(chart.Moment.Local,
		chart.Planets[models.Sun].Longitude, chart.Planets[models.Moon].Longitude)

	out := make([]models.StrengthBreakdown, len(models.ClassicalPlanets))
	if !c.parallel {
		for i, p := range models.ClassicalPlanets {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out[i] = Planet(p, chart, t)
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range models.ClassicalPlanets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = Planet(p, chart, t)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Planet computes the breakdown of a single classical planet.
func Planet(p models.Planet, chart *models.Chart, t Temporal) models.StrengthBreakdown {
	pos := chart.Planets[p]
	b := models.StrengthBreakdown{
		Planet:     p,
		Sthana:     Sthana(p, pos),
		Dig:        Dig(p, pos, chart.Ascendant.Longitude),
		Kala:       Kala(p, t),
		Chesta:     Chesta(p, pos),
		Naisargika: Naisargika(p),
		Drishti:    Drishti(p, chart.Planets),
	}
	b.Total = b.Sthana + b.Dig + b.Kala + b.Chesta + b.Naisargika + b.Drishti
	b.Percentage = b.Total / 60 * 100
	b.Status = models.StatusFor(b.Percentage)
	return b
}

// HouseLords attributes each lord's percentage to the house it rules.
func HouseLords(chart *models.Chart, strengths []models.StrengthBreakdown) []models.HouseLordStrength {
	byPlanet := Percentages(strengths)
	out := make([]models.HouseLordStrength, 0, 12)
	for _, h := range chart.Houses {
		lord := astro.SignLord(h.Sign)
		pct := byPlanet[lord]
		out = append(out, models.HouseLordStrength{
			House:      h.Number,
			Sign:       h.Sign,
			Lord:       lord,
			Percentage: pct,
			Status:     models.StatusFor(pct),
		})
	}
	return out
}

// Percentages indexes strength percentages by planet; nodes are absent.
func Percentages(strengths []models.StrengthBreakdown) map[models.Planet]float64 {
	out := make(map[models.Planet]float64, len(strengths))
	for _, s := range strengths {
		out[s.Planet] = s.Percentage
	}
	return out
}
