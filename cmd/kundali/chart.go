package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"Kundali/internal/domain/models"
	"Kundali/internal/services/ephemeris"
	"Kundali/internal/usecase"
	"Kundali/pkg/config"
	xhttp "Kundali/pkg/http"
)

// birthFlags collects birth details shared by chart and predict.
type birthFlags struct {
	date, clock, timezone string
	lat, lon              float64
	unknownTime           bool
	referenceDate         string
	ayanamsa              string
	vargas                []string
}

// register adds the birth flags; requireDate makes cobra enforce --date.
func (f *birthFlags) register(cmd *cobra.Command, requireDate bool) {
	fl := cmd.Flags()
	fl.StringVar(&f.date, "date", "", "birth date, YYYY-MM-DD")
	fl.StringVar(&f.clock, "time", "", "birth time, HH:MM (omit when unknown)")
	fl.StringVar(&f.timezone, "tz", "UTC", "IANA timezone of the birth place")
	fl.Float64Var(&f.lat, "lat", 0, "latitude in degrees, north positive")
	fl.Float64Var(&f.lon, "lon", 0, "longitude in degrees, east positive")
	fl.BoolVar(&f.unknownTime, "unknown-time", false, "birth time is unknown")
	fl.StringVar(&f.referenceDate, "reference-date", "", "date the current dasha is evaluated for, YYYY-MM-DD")
	fl.StringVar(&f.ayanamsa, "ayanamsa", "", "ayanamsa model (lahiri, raman, krishnamurti, fagan_bradley)")
	fl.StringSliceVar(&f.vargas, "vargas", nil, "divisional charts to generate, e.g. D1,D9 (default all)")
	if requireDate {
		_ = cmd.MarkFlagRequired("date")
	}
}

// request validates the flags with the same rules as the HTTP API.
func (f *birthFlags) request(cmd *cobra.Command) (*models.ChartRequest, error) {
	lat, lon := f.lat, f.lon
	req := &models.ChartRequest{
		Date:          f.date,
		Time:          f.clock,
		TimeUnknown:   f.unknownTime,
		Latitude:      &lat,
		Longitude:     &lon,
		Timezone:      f.timezone,
		ReferenceDate: f.referenceDate,
		Ayanamsa:      f.ayanamsa,
		Vargas:        f.vargas,
	}
	if verrs := xhttp.ValidateStruct(cmd.Context(), req); len(verrs) > 0 {
		return nil, fmt.Errorf("invalid %s: %s", verrs[0].Field, verrs[0].Message)
	}
	return req, nil
}

// newGenerator builds an uncached generator over the analytic ephemeris.
func newGenerator(cfg *config.Config) (*usecase.ChartGenerator, error) {
	return usecase.NewChartGenerator(ephemeris.NewAnalytic(), usecase.GeneratorConfig{
		Ayanamsa:          cfg.Astro.Ayanamsa,
		DashaHorizonYears: cfg.Astro.DashaHorizonYears,
		Parallel:          cfg.Astro.Parallel,
	}, usecase.WithLogger(cliLogger()))
}

func chartCmd() *cobra.Command {
	var bf birthFlags
	var featuresOnly bool

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Print a birth chart as JSON",
		Long: `Compute the complete chart for the given birth details with the built-in
analytic ephemeris and print it as JSON.`,
		Example: `  kundali chart --date 1990-05-15 --time 14:30 --tz Asia/Kolkata --lat 28.6139 --lon 77.209`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			req, err := bf.request(cmd)
			if err != nil {
				return err
			}
			gen, err := newGenerator(cfg)
			if err != nil {
				return err
			}
			k, err := gen.Generate(cmd.Context(), req.Birth(), usecase.OptionsFrom(req))
			if err != nil {
				return err
			}
			if featuresOnly {
				return writeJSON(cmd.OutOrStdout(), k.Features)
			}
			return writeJSON(cmd.OutOrStdout(), k)
		},
	}
	bf.register(cmd, true)
	cmd.Flags().BoolVar(&featuresOnly, "features", false, "print only the feature vector")
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
