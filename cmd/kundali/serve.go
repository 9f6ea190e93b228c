package main

import (
	"github.com/spf13/cobra"

	"Kundali/internal/di"
	"Kundali/pkg/config"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the Kafka chart request consumer",
		Long: `Run the service with the configuration from --config, .env and KUNDALI_*
environment variables. Stops gracefully on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadWithEnv(cfgFile)
			if err != nil {
				return err
			}
			app, err := di.InitializeApp(cfg)
			if err != nil {
				return err
			}
			return app.RunContext(cmd.Context())
		},
	}
}
