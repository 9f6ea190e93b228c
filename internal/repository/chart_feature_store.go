package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"Kundali/internal/domain/models"
	domrepo "Kundali/internal/domain/repository"
	pkgch "Kundali/pkg/clickhouse"
	applogger "Kundali/pkg/logger"
)

// featureColumns is the insert and select column order of the feature table.
var featureColumns = []string{
	"chart_id", "request_id", "generated_at", "birth_date", "birth_time", "time_unknown",
	"latitude", "longitude", "timezone", "approximate", "ayanamsa_model",
	"ascendant_sign", "moon_nakshatra", "maha_dasha", "antar_dasha", "yoga_count",
	"feature_version", "features", "has_prediction", "model",
	"career_potential", "wealth_potential", "marriage_happiness", "children_prospects",
	"health_status", "spiritual_inclination", "chart_strength", "life_ease_score",
}

// CHFeatureStore keeps feature vectors and predictions in ClickHouse.
type CHFeatureStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

var _ domrepo.FeatureStore = (*CHFeatureStore)(nil)

// NewCHFeatureStore stores into database.table on ch.
func NewCHFeatureStore(ch *pkgch.Client, table string, l *applogger.Logger) *CHFeatureStore {
	if table == "" {
		table = "chart_features"
	}
	if l == nil {
		l = applogger.NewNop()
	}
	return &CHFeatureStore{db: ch.DB(), table: ch.Database() + "." + table, l: l}
}

// SchemaStatements returns the DDL for table in database.
func SchemaStatements(database, table string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
    chart_id String,
    request_id String,
    generated_at DateTime64(3, 'UTC'),
    birth_date String,
    birth_time String,
    time_unknown UInt8,
    latitude Float64,
    longitude Float64,
    timezone LowCardinality(String),
    approximate UInt8,
    ayanamsa_model LowCardinality(String),
    ascendant_sign UInt8,
    moon_nakshatra UInt8,
    maha_dasha UInt8,
    antar_dasha UInt8,
    yoga_count UInt16,
    feature_version LowCardinality(String),
    features Array(Float64),
    has_prediction UInt8,
    model LowCardinality(String),
    career_potential Float64,
    wealth_potential Float64,
    marriage_happiness Float64,
    children_prospects Float64,
    health_status Float64,
    spiritual_inclination Float64,
    chart_strength Float64,
    life_ease_score Float64
) ENGINE = ReplacingMergeTree
ORDER BY (generated_at, chart_id)`, database, table),
	}
}

func (s *CHFeatureStore) Init(ctx context.Context) error {
	db, table, _ := strings.Cut(s.table, ".")
	for _, stmt := range SchemaStatements(db, table) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("feature store init: %w", err)
		}
	}
	return nil
}

func (s *CHFeatureStore) Save(ctx context.Context, r *models.ChartRecord) error {
	return s.SaveBatch(ctx, []*models.ChartRecord{r})
}

// SaveBatch inserts records in one transaction, the clickhouse-go batch path.
func (s *CHFeatureStore) SaveBatch(ctx context.Context, rs []*models.ChartRecord) error {
	rows := make([][]interface{}, 0, len(rs))
	for _, r := range rs {
		if err := validateRecord(r); err != nil {
			return err
		}
		rows = append(rows, recordArgs(r))
	}
	if len(rows) == 0 {
		return nil
	}

	start := time.Now()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("feature store begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, insertQuery(s.table))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("feature store prepare: %w", err)
	}
	defer stmt.Close()

	for _, args := range rows {
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("feature store append: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("feature store commit: %w", err)
	}
	s.l.Debug("clickhouse features saved",
		applogger.String("table", s.table),
		applogger.Int("rows", len(rows)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return nil
}

// Recent returns up to limit records generated at or after since, newest first.
func (s *CHFeatureStore) Recent(ctx context.Context, since time.Time, limit int) ([]*models.ChartRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	q := fmt.Sprintf("SELECT %s FROM %s FINAL WHERE generated_at >= ? ORDER BY generated_at DESC LIMIT ?",
		strings.Join(featureColumns, ", "), s.table)
	rows, err := s.db.QueryContext(ctx, q, since, limit)
	if err != nil {
		s.l.Error("clickhouse recent features query error", applogger.String("table", s.table), applogger.Error(err))
		return nil, fmt.Errorf("recent features: %w", err)
	}
	defer rows.Close()

	out := make([]*models.ChartRecord, 0, limit)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan features: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *CHFeatureStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close is a no-op; the pool belongs to pkg/clickhouse.Client.
func (s *CHFeatureStore) Close() error { return nil }

func insertQuery(table string) string {
	return fmt.Sprintf("INSERT INTO %s (%s)", table, strings.Join(featureColumns, ", "))
}

func validateRecord(r *models.ChartRecord) error {
	if r == nil {
		return fmt.Errorf("feature store: nil record")
	}
	if r.ChartID == "" {
		return fmt.Errorf("feature store: empty chart id")
	}
	if len(r.Features) != models.FeatureCount {
		return models.NewChartError(models.CodeFeatureCountMismatch, "features",
			fmt.Sprintf("record %s has %d features, want %d", r.ChartID, len(r.Features), models.FeatureCount))
	}
	return nil
}

func recordArgs(r *models.ChartRecord) []interface{} {
	var scores [8]float64
	var hasPrediction uint8
	var model string
	if r.Prediction != nil {
		scores = r.Prediction.Values()
		hasPrediction = 1
		model = r.Prediction.Model
	}
	args := []interface{}{
		r.ChartID, r.RequestID, r.GeneratedAt.UTC(), r.Birth.Date, r.Birth.Time, boolToUint8(r.Birth.TimeUnknown),
		r.Birth.Latitude, r.Birth.Longitude, r.Birth.Timezone, boolToUint8(r.Approximate), r.AyanamsaModel,
		uint8(r.AscendantSign), uint8(r.MoonNakshatra), uint8(r.MahaDasha), uint8(r.AntarDasha), uint16(r.Yogas.Total),
		r.FeatureVersion, r.Features, hasPrediction, model,
	}
	for _, v := range scores {
		args = append(args, v)
	}
	return args
}

func scanRecord(rows *sql.Rows) (*models.ChartRecord, error) {
	var (
		r                            models.ChartRecord
		timeUnknown, approx, hasPred uint8
		ascSign, nak, maha, antar    uint8
		yogaCount                    uint16
		model                        string
		scores                       [8]float64
	)
	err := rows.Scan(
		&r.ChartID, &r.RequestID, &r.GeneratedAt, &r.Birth.Date, &r.Birth.Time, &timeUnknown,
		&r.Birth.Latitude, &r.Birth.Longitude, &r.Birth.Timezone, &approx, &r.AyanamsaModel,
		&ascSign, &nak, &maha, &antar, &yogaCount,
		&r.FeatureVersion, &r.Features, &hasPred, &model,
		&scores[0], &scores[1], &scores[2], &scores[3], &scores[4], &scores[5], &scores[6], &scores[7],
	)
	if err != nil {
		return nil, err
	}
	r.Birth.TimeUnknown = timeUnknown == 1
	r.Approximate = approx == 1
	r.AscendantSign = int(ascSign)
	r.MoonNakshatra = int(nak)
	r.MahaDasha = models.Planet(maha)
	r.AntarDasha = models.Planet(antar)
	r.Yogas.Total = int(yogaCount)
	if hasPred == 1 {
		p := models.NewPredictionResult(models.ScoresFromValues(scores), model)
		r.Prediction = &p
	}
	return &r, nil
}

func boolToUint8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
