package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"Kundali/internal/domain/models"
	domsvc "Kundali/internal/domain/service"
	"Kundali/internal/services/prediction"
	"Kundali/internal/usecase"
)

type predictOutput struct {
	ChartID     string                  `json:"chart_id"`
	Approximate bool                    `json:"approximate"`
	Ascendant   string                  `json:"ascendant"`
	MoonSign    string                  `json:"moon_sign"`
	Nakshatra   string                  `json:"nakshatra"`
	Prediction  models.PredictionResult `json:"prediction"`
}

func predictCmd() *cobra.Command {
	var (
		bf          birthFlags
		weightsPath string
		modelURL    string
		timeout     time.Duration
		samplePath  string
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Score a birth chart with a prediction model",
		Long: `Generate the chart, extract its feature vector and score it with either a
linear weight file (--weights) or a model service (--model-url).

--write-sample writes a usable sample weight file and exits.`,
		Example: `  kundali predict --write-sample model.json
  kundali predict --weights model.json --date 1990-05-15 --time 14:30 --tz Asia/Kolkata --lat 28.6139 --lon 77.209`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if samplePath != "" {
				if err := prediction.WriteSampleModel(samplePath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "sample model written to %s\n", samplePath)
				return nil
			}

			var predictor domsvc.Predictor
			switch {
			case modelURL != "":
				predictor = prediction.NewHTTPPredictor(modelURL, timeout, 1)
			case weightsPath != "":
				m, err := prediction.LoadLinearModel(weightsPath)
				if err != nil {
					return err
				}
				predictor = m
			default:
				return errors.New("either --weights or --model-url is required")
			}

			if bf.date == "" {
				return errors.New(`required flag "date" not set`)
			}
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

			svc := usecase.NewPredictionService(gen, predictor, nil, cliLogger())
			out, err := svc.Predict(cmd.Context(), req.Birth(), usecase.OptionsFrom(req))
			if err != nil {
				return err
			}
			k := out.Kundali
			moon := k.Position(models.Moon)
			return writeJSON(cmd.OutOrStdout(), predictOutput{
				ChartID:     k.ID,
				Approximate: k.Approximate,
				Ascendant:   k.Ascendant.SignName,
				MoonSign:    moon.SignName,
				Nakshatra:   moon.NakshatraName,
				Prediction:  out.Result,
			})
		},
	}
	// --write-sample runs without birth details.
	bf.register(cmd, false)
	cmd.Flags().StringVar(&weightsPath, "weights", "", "linear model weight file (JSON)")
	cmd.Flags().StringVar(&modelURL, "model-url", "", "base URL of the prediction service")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "model service timeout")
	cmd.Flags().StringVar(&samplePath, "write-sample", "", "write a sample linear model to this path and exit")
	return cmd
}
