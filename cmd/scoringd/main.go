package main

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"scoringd/internal/analytics"
	"scoringd/internal/di"
	"scoringd/internal/models"
	"scoringd/internal/providers"
	"scoringd/internal/structures"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "scoringd",
		Short:         "Engagement scoring daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand(), newForecastCommand())
	return root
}

func newServeCommand() *cobra.Command {
	flags := &structures.CliFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP scoring service",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := di.InitApp(flags)
			if err != nil {
				return err
			}
			defer cleanup()
			return app.Run()
		},
	}
	cmd.Flags().StringVarP(&flags.ConfigPath, "config", "c", "config/config.yaml", "path to the config file")
	cmd.Flags().BoolVarP(&flags.DebugMode, "debug", "d", false, "mirror logs to stdout")
	return cmd
}

func newForecastCommand() *cobra.Command {
	var seriesPath, configPath string
	var horizon int
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast search trend from a JSON series file",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := forecastConfig(configPath, horizon)
			if err != nil {
				return err
			}
			return runForecast(cmd, seriesPath, conf)
		},
	}
	cmd.Flags().StringVarP(&seriesPath, "file", "f", "", "JSON file with sales, visits, conversion and search_trend series")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "optional config file for the forecast section")
	cmd.Flags().IntVar(&horizon, "horizon", 0, "number of weekly periods to forecast, overrides the config")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// forecastConfig loads the forecast settings from configPath when given. A
// positive horizon takes precedence over the file.
func forecastConfig(configPath string, horizon int) (*structures.Config, error) {
	conf := &structures.Config{}
	if configPath != "" {
		loaded, err := providers.NewConfigProvider(&structures.CliFlags{ConfigPath: configPath})
		if err != nil {
			return nil, err
		}
		conf = loaded
	}
	if horizon > 0 {
		conf.Forecast.Horizon = horizon
	}
	return conf, nil
}

func runForecast(cmd *cobra.Command, seriesPath string, conf *structures.Config) error {
	data, err := os.ReadFile(seriesPath)
	if err != nil {
		return err
	}
	var raw map[string][]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode %s: %w", seriesPath, err)
	}
	series, err := models.ParseSeries(raw)
	if err != nil {
		return err
	}

	forecast, err := analytics.NewTrendForecaster(conf).Forecast(series)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(forecast, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
