package dasha

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"Kundali/internal/domain/models"
)

// CycleYears is the length of one full Vimshottari cycle.
const CycleYears = 120

// DefaultHorizonYears is how far past birth the timeline is generated by default.
const DefaultHorizonYears = 120

var order = [9]models.Planet{
	models.Ketu, models.Venus, models.Sun, models.Moon, models.Mars,
	models.Rahu, models.Jupiter, models.Saturn, models.Mercury,
}

var periodYears = [models.PlanetCount]int64{
	models.Ketu: 7, models.Venus: 20, models.Sun: 6, models.Moon: 10, models.Mars: 7,
	models.Rahu: 18, models.Jupiter: 16, models.Saturn: 19, models.Mercury: 17,
}

var (
	cycle          = decimal.NewFromInt(CycleYears)
	secondsPerYear = decimal.NewFromFloat(365.25).Mul(decimal.NewFromInt(86400))
	invariantTol   = decimal.New(1, -9)
)

// Order returns the Vimshottari sequence starting at Ketu.
func Order() [9]models.Planet { return order }

// Years returns the full Maha Dasha length of p.
func Years(p models.Planet) int64 { return periodYears[p] }

// Lord returns the Vimshottari ruler of a nakshatra.
func Lord(nakshatra int) models.Planet { return order[nakshatra%9] }

func indexOf(p models.Planet) int {
	for i, q := range order {
		if q == p {
			return i
		}
	}
	return 0
}

// Engine builds Vimshottari timelines.
type Engine struct {
	horizon decimal.Decimal
}

// NewEngine returns an engine covering horizonYears after birth (120 if <= 0).
func NewEngine(horizonYears int) *Engine {
	if horizonYears <= 0 {
		horizonYears = DefaultHorizonYears
	}
	return &Engine{horizon: decimal.NewFromInt(int64(horizonYears))}
}

// Generate computes the timeline for a Moon in nakshatra (0..26) with fraction
// (0..1) of it elapsed at birth. Every boundary is an offset from birth
// computed in decimal arithmetic, so nothing accumulates across periods.
func (e *Engine) Generate(nakshatra int, fraction float64, birth, ref time.Time) (models.DashaTimeline, error) {
	if nakshatra < 0 || nakshatra > 26 {
		return models.DashaTimeline{}, models.NewChartError(models.CodeInvalidMoonPosition, "moon",
			fmt.Sprintf("nakshatra index %d outside 0..26", nakshatra))
	}
	if math.IsNaN(fraction) || fraction < 0 || fraction >= 1 {
		return models.DashaTimeline{}, models.NewChartError(models.CodeInvalidMoonPosition, "moon",
			fmt.Sprintf("nakshatra fraction %v outside [0,1)", fraction))
	}

	birth = birth.UTC()
	first := nakshatra % 9
	startPlanet := order[first]
	balance := decimal.NewFromInt(periodYears[startPlanet]).
		Mul(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(fraction)))

	tl := models.DashaTimeline{
		MoonNakshatra:     nakshatra,
		NakshatraFraction: fraction,
		StartPlanet:       startPlanet,
		BalanceYears:      balance.InexactFloat64(),
		ReferenceDate:     ref,
	}

	offset := decimal.Zero
	for i := 0; offset.LessThan(e.horizon); i++ {
		idx := (first + i) % 9
		dur := decimal.NewFromInt(periodYears[order[idx]])
		if i == 0 {
			dur = balance
		}
		if !dur.IsPositive() {
			continue
		}
		maha, err := buildMaha(birth, idx, offset, dur)
		if err != nil {
			return models.DashaTimeline{}, err
		}
		tl.Periods = append(tl.Periods, maha)
		offset = offset.Add(dur)
	}

	tl.CurrentMaha, tl.CurrentAntar = Current(tl.Periods, ref)
	return tl, nil
}

// FromMoon derives nakshatra and elapsed fraction from the Moon's sidereal longitude.
func (e *Engine) FromMoon(moonLongitude float64, birth, ref time.Time) (models.DashaTimeline, error) {
	if math.IsNaN(moonLongitude) || math.IsInf(moonLongitude, 0) {
		return models.DashaTimeline{}, models.NewChartError(models.CodeInvalidMoonPosition, "moon",
			"moon longitude is not finite")
	}
	lon := math.Mod(moonLongitude, 360)
	if lon < 0 {
		lon += 360
	}
	span := 360.0 / 27
	nak := int(math.Floor(lon / span))
	frac := math.Mod(lon, span) / span
	if nak > 26 {
		nak = 26
	}
	if frac >= 1 {
		frac = 0
	}
	return e.Generate(nak, frac, birth, ref)
}

func buildMaha(epoch time.Time, idx int, start, dur decimal.Decimal) (models.DashaPeriod, error) {
	planet := order[idx]
	maha := newPeriod(epoch, planet, models.DashaMaha, start, dur)
	maha.Antar = make([]models.DashaPeriod, 0, 9)

	sum := decimal.Zero
	var elapsed int64
	for j := 0; j < 9; j++ {
		sub := order[(idx+j)%9]
		from := start.Add(dur.Mul(decimal.NewFromInt(elapsed)).Div(cycle))
		elapsed += periodYears[sub]
		to := start.Add(dur.Mul(decimal.NewFromInt(elapsed)).Div(cycle))
		if j == 8 {
			to = start.Add(dur)
		}
		antarDur := to.Sub(from)
		sum = sum.Add(antarDur)
		maha.Antar = append(maha.Antar, newPeriod(epoch, sub, models.DashaAntar, from, antarDur))
	}

	if sum.Sub(dur).Abs().GreaterThan(invariantTol) {
		return models.DashaPeriod{}, models.NewChartError(models.CodeDashaInvariantViolation, "",
			fmt.Sprintf("%s antar durations sum to %s, want %s", planet, sum, dur))
	}
	return maha, nil
}

func newPeriod(epoch time.Time, p models.Planet, level models.DashaLevel, start, dur decimal.Decimal) models.DashaPeriod {
	return models.DashaPeriod{
		Planet: p,
		Level:  level,
		Start:  at(epoch, start),
		End:    at(epoch, start.Add(dur)),
		Years:  dur.InexactFloat64(),
		Days:   dur.Mul(decimal.NewFromFloat(365.25)).InexactFloat64(),
	}
}

// at converts a year offset from epoch into an instant, using 365.25-day years.
func at(epoch time.Time, years decimal.Decimal) time.Time {
	secs := years.Mul(secondsPerYear)
	whole := secs.Floor()
	nanos := secs.Sub(whole).Shift(9).Round(0).IntPart()
	return time.Unix(epoch.Unix()+whole.IntPart(), int64(epoch.Nanosecond())+nanos).UTC()
}

// Current finds the Maha and Antar periods containing ref.
func Current(periods []models.DashaPeriod, ref time.Time) (*models.DashaPeriod, *models.DashaPeriod) {
	for i := range periods {
		if !periods[i].Contains(ref) {
			continue
		}
		maha := &periods[i]
		for j := range maha.Antar {
			if maha.Antar[j].Contains(ref) {
				return maha, &maha.Antar[j]
			}
		}
		return maha, nil
	}
	return nil, nil
}

// RemainingYears is the time left in p after ref, in 365.25-day years; 0 if p is nil or over.
func RemainingYears(p *models.DashaPeriod, ref time.Time) float64 {
	if p == nil || !ref.Before(p.End) {
		return 0
	}
	return p.End.Sub(ref).Hours() / 24 / 365.25
}
