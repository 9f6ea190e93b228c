package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"Kundali/internal/domain/models"
	drepo "Kundali/internal/domain/repository"
	domsvc "Kundali/internal/domain/service"
	"Kundali/internal/services/astro"
	"Kundali/internal/services/dasha"
	"Kundali/internal/services/ephemeris"
	"Kundali/internal/services/features"
	"Kundali/internal/services/strength"
	"Kundali/internal/services/varga"
	"Kundali/internal/services/yoga"
	"Kundali/pkg/cache"
	applogger "Kundali/pkg/logger"
	"Kundali/pkg/util"
)

// ErrInvalidOption marks a bad generation option (ayanamsa model, varga id).
var ErrInvalidOption = errors.New("invalid option")

// chartNamespace seeds name-based chart ids.
var chartNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:kundali:chart"))

// Options tunes one chart generation.
type Options struct {
	ReferenceDate time.Time // day the current dasha is evaluated for; zero means today
	Ayanamsa      string    // empty keeps the configured model
	Vargas        []string  // empty generates every divisional chart
	SkipCache     bool
}

// OptionsFrom maps the option fields of a chart request.
func OptionsFrom(r *models.ChartRequest) Options {
	return Options{
		ReferenceDate: util.ParseTimeDefault(r.ReferenceDate, time.Time{}),
		Ayanamsa:      r.Ayanamsa,
		Vargas:        r.Vargas,
		SkipCache:     r.NoCache,
	}
}

// Sink receives records of freshly generated charts.
type Sink interface {
	Submit(r *models.ChartRecord) error
}

// GeneratorConfig holds the policy knobs of chart generation.
type GeneratorConfig struct {
	Ayanamsa          string
	DashaHorizonYears int
	Parallel          bool
}

// ChartGenerator runs the full pipeline from birth details to feature vector.
type ChartGenerator struct {
	resolver *astro.TimeResolver
	eph      domsvc.Ephemeris
	ayanamsa *astro.Ayanamsa
	dasha    *dasha.Engine
	strength *strength.Calculator
	yogas    *yoga.Detector
	parallel bool

	cache    cache.Service
	cacheTTL time.Duration
	sink     Sink
	metrics  drepo.Metrics
	log      *applogger.Logger
	now      func() time.Time
}

type GeneratorOption func(*ChartGenerator)

// WithCache caches generated charts for ttl.
func WithCache(c cache.Service, ttl time.Duration) GeneratorOption {
	return func(g *ChartGenerator) {
		g.cache = c
		g.cacheTTL = ttl
	}
}

// WithSink forwards records of fresh charts to s.
func WithSink(s Sink) GeneratorOption {
	return func(g *ChartGenerator) { g.sink = s }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m drepo.Metrics) GeneratorOption {
	return func(g *ChartGenerator) {
		if m != nil {
			g.metrics = m
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *applogger.Logger) GeneratorOption {
	return func(g *ChartGenerator) {
		if l != nil {
			g.log = l
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *ChartGenerator) {
		if now != nil {
			g.now = now
		}
	}
}

// NewChartGenerator creates a generator over eph.
func NewChartGenerator(eph domsvc.Ephemeris, cfg GeneratorConfig, opts ...GeneratorOption) (*ChartGenerator, error) {
	if eph == nil {
		return nil, fmt.Errorf("chart generator: ephemeris is required")
	}
	ay, err := astro.NewAyanamsa(cfg.Ayanamsa)
	if err != nil {
		return nil, fmt.Errorf("chart generator: %w", err)
	}
	g := &ChartGenerator{
		resolver: astro.NewTimeResolver(),
		eph:      eph,
		ayanamsa: ay,
		dasha:    dasha.NewEngine(cfg.DashaHorizonYears),
		strength: strength.NewCalculator(cfg.Parallel),
		yogas:    yoga.NewDetector(),
		parallel: cfg.Parallel,
		metrics:  drepo.NopMetrics{},
		log:      applogger.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Ephemeris returns the name of the ephemeris in use.
func (g *ChartGenerator) Ephemeris() string {
	return g.eph.Name()
}

// Generate computes the complete chart for b. Side effects of a fresh chart
// are queued on the sink and never fail the call.
func (g *ChartGenerator) Generate(ctx context.Context, b models.BirthDetails, opts Options) (*models.Kundali, error) {
	k, fresh, err := g.generate(ctx, b, opts)
	if err != nil {
		return nil, err
	}
	if fresh {
		g.emit(models.NewChartRecord(k, nil))
	}
	return k, nil
}

func (g *ChartGenerator) generate(ctx context.Context, b models.BirthDetails, opts Options) (*models.Kundali, bool, error) {
	start := g.now()
	ay, err := g.ayanamsaFor(opts.Ayanamsa)
	if err != nil {
		return nil, false, err
	}
	for _, id := range opts.Vargas {
		if _, ok := varga.Lookup(id); !ok {
			return nil, false, fmt.Errorf("%w: unknown divisional chart %q", ErrInvalidOption, id)
		}
	}
	ref := referenceDay(opts.ReferenceDate, start)
	key := chartKey(b, ref, ay.Model(), opts.Vargas)

	if g.cache != nil && !opts.SkipCache {
		var cached models.Kundali
		err := g.cache.Get(ctx, key, &cached)
		g.metrics.RecordCache(err == nil)
		if err == nil {
			return &cached, false, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			g.log.Warn("chart cache get failed", applogger.Error(err))
		}
	}

	k, err := g.compute(ctx, b, ref, ay, opts.Vargas)
	if err != nil {
		code := models.CodeOf(err)
		if code == "" {
			code = "internal"
		}
		g.metrics.RecordError(string(code))
		if models.IsValidationError(err) {
			g.log.Debug("chart rejected", applogger.String("code", string(code)), applogger.Error(err))
		} else {
			g.log.Error("chart generation failed", applogger.String("code", string(code)), applogger.Error(err))
		}
		return nil, false, err
	}

	k.ID = uuid.NewSHA1(chartNamespace, []byte(key)).String()
	k.GeneratedAt = g.now().UTC()
	g.metrics.RecordChart(k.Approximate)
	g.metrics.RecordLatency("generate", g.now().Sub(start))

	if g.cache != nil {
		if err := g.cache.Set(ctx, key, k, g.cacheTTL); err != nil {
			g.log.Warn("chart cache set failed", applogger.String("chart_id", k.ID), applogger.Error(err))
		}
	}
	return k, true, nil
}

func (g *ChartGenerator) compute(ctx context.Context, b models.BirthDetails, ref time.Time, ay *astro.Ayanamsa, vargaIDs []string) (*models.Kundali, error) {
	moment, err := g.resolver.Resolve(b)
	if err != nil {
		return nil, err
	}
	chart, err := g.buildChart(ctx, b, moment, ay)
	if err != nil {
		return nil, err
	}

	k := &models.Kundali{Chart: *chart}
	if err := g.analyze(ctx, k, ref, vargaIDs); err != nil {
		return nil, err
	}

	fv, err := features.Extract(k)
	if err != nil {
		return nil, err
	}
	k.Features = fv
	return k, nil
}

// buildChart places every graha and the ascendant and assigns whole-sign houses.
func (g *ChartGenerator) buildChart(ctx context.Context, b models.BirthDetails, m models.JulianMoment, ay *astro.Ayanamsa) (*models.Chart, error) {
	jd := m.JulianDay
	snap, err := ephemeris.Take(ctx, g.eph, jd)
	if err != nil {
		return nil, err
	}

	planets := make([]models.PlanetPosition, models.PlanetCount)
	for _, p := range models.AllPlanets {
		pos, err := astro.NewPlanetPosition(p, ay.ToSidereal(snap.Longitudes[p], jd), snap.Speeds[p])
		if err != nil {
			return nil, err
		}
		planets[p] = pos
	}

	trop, err := astro.TropicalAscendant(m.LocalSiderealTime, b.Latitude, jd)
	if err != nil {
		return nil, err
	}
	asc, err := astro.NewAscendant(ay.ToSidereal(trop, jd))
	if err != nil {
		return nil, err
	}

	return &models.Chart{
		Birth:         b,
		Moment:        m,
		Approximate:   m.Approximate,
		AyanamsaModel: string(ay.Model()),
		Ayanamsa:      ay.Value(jd),
		Ascendant:     asc,
		Planets:       planets,
		Houses:        astro.AssignHouses(asc.Sign, planets),
	}, nil
}

// analyze fills dasha, strength, yogas and vargas. The stages only read
// k.Chart and write disjoint fields, so running them concurrently yields the
// same chart as running them in order.
func (g *ChartGenerator) analyze(ctx context.Context, k *models.Kundali, ref time.Time, vargaIDs []string) error {
	stages := []func(context.Context) error{
		func(context.Context) error {
			tl, err := g.dasha.FromMoon(k.Planets[models.Moon].Longitude, k.Moment.UTC, ref)
			if err != nil {
				return err
			}
			k.Dasha = tl
			return nil
		},
		func(ctx context.Context) error {
			strengths, err := g.strength.Compute(ctx, &k.Chart)
			if err != nil {
				return err
			}
			k.Strengths = strengths
			k.HouseLords = strength.HouseLords(&k.Chart, strengths)
			k.Yogas = g.yogas.Detect(&k.Chart, strength.Percentages(strengths))
			k.YogaSummary = models.Summarize(k.Yogas)
			return nil
		},
		func(context.Context) error {
			charts, err := varga.Generate(&k.Chart, vargaIDs...)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidOption, err)
			}
			k.Vargas = charts
			k.Vargottama = varga.Vargottama(&k.Chart)
			return nil
		},
	}

	if !g.parallel {
		for _, stage := range stages {
			if err := stage(ctx); err != nil {
				return err
			}
		}
		return nil
	}

	eg, egctx := errgroup.WithContext(ctx)
	for _, stage := range stages {
		eg.Go(func() error { return stage(egctx) })
	}
	return eg.Wait()
}

func (g *ChartGenerator) ayanamsaFor(name string) (*astro.Ayanamsa, error) {
	if strings.TrimSpace(name) == "" {
		return g.ayanamsa, nil
	}
	ay, err := astro.NewAyanamsa(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}
	return ay, nil
}

func (g *ChartGenerator) emit(r *models.ChartRecord) {
	if g.sink == nil {
		return
	}
	if err := g.sink.Submit(r); err != nil {
		g.log.Error("chart sink submit failed", applogger.String("chart_id", r.ChartID), applogger.Error(err))
	}
}

// referenceDay truncates the reference date to a UTC calendar day.
func referenceDay(ref, now time.Time) time.Time {
	if ref.IsZero() {
		ref = now
	}
	y, m, d := ref.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// chartKey hashes the normalized input; it doubles as the chart id seed.
func chartKey(b models.BirthDetails, ref time.Time, model astro.AyanamsaModel, vargaIDs []string) string {
	clock := strings.TrimSpace(b.Time)
	if b.TimeUnknown {
		clock = ""
	}
	return cache.GenerateKey("chart", cache.HashKey(
		strings.TrimSpace(b.Date),
		clock,
		strconv.FormatBool(b.TimeUnknown),
		strconv.FormatFloat(b.Latitude, 'f', -1, 64),
		strconv.FormatFloat(b.Longitude, 'f', -1, 64),
		strings.TrimSpace(b.Timezone),
		ref.Format(astro.DateLayout),
		string(model),
		strings.ToUpper(strings.Join(vargaIDs, ",")),
		features.Version,
	))
}
