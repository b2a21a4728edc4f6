package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scoringd/internal/models"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestForecastCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "series.json")
	body := `{"sales":[100,110,120,130],"visits":[500,520,540,560],"conversion":[2.0,2.1,2.2,2.3],"search_trend":[50,55,60,65]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	out, err := runRoot(t, "forecast", "-f", path, "--horizon", "2")
	require.NoError(t, err)

	var forecast models.TrendForecast
	require.NoError(t, json.Unmarshal([]byte(out), &forecast))
	assert.Len(t, forecast.Predictions.Dates, 2)
	assert.NotEmpty(t, forecast.Trends)
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const risingSeriesJSON = `{"sales":[100,110,120,130],"visits":[500,520,540,560],"conversion":[2.0,2.1,2.2,2.3],"search_trend":[50,55,60,65]}`

func trendMetrics(forecast models.TrendForecast) []string {
	metrics := make([]string, 0, len(forecast.Trends))
	for _, trend := range forecast.Trends {
		metrics = append(metrics, trend.Metric)
	}
	return metrics
}

func TestForecastCommand_UsesConfigFile(t *testing.T) {
	series := writeFile(t, "series.json", risingSeriesJSON)
	dir := t.TempDir()
	config := writeFile(t, "config.yaml", `
webServer:
  host: 127.0.0.1
  port: 9090
persistence:
  enabled: false
  filePath: `+filepath.Join(dir, "scoringd.dat")+`
  saveInterval: 30s
logger:
  level: info
  mode: 0644
  dir: `+dir+`
forecast:
  horizon: 3
  trendThreshold: 60
`)

	out, err := runRoot(t, "forecast", "-f", series, "-c", config)
	require.NoError(t, err)

	var forecast models.TrendForecast
	require.NoError(t, json.Unmarshal([]byte(out), &forecast))
	assert.Len(t, forecast.Predictions.Dates, 3)
	// sales moves by 50%, below the configured threshold
	assert.Equal(t, []string{models.MetricVisits, models.MetricConversion}, trendMetrics(forecast))

	out, err = runRoot(t, "forecast", "-f", series, "-c", config, "--horizon", "2")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &forecast))
	assert.Len(t, forecast.Predictions.Dates, 2)
}

func TestForecastCommand_DefaultThreshold(t *testing.T) {
	series := writeFile(t, "series.json", risingSeriesJSON)

	out, err := runRoot(t, "forecast", "-f", series)
	require.NoError(t, err)

	var forecast models.TrendForecast
	require.NoError(t, json.Unmarshal([]byte(out), &forecast))
	assert.Equal(t, []string{models.MetricSales, models.MetricVisits, models.MetricConversion}, trendMetrics(forecast))
}

func TestForecastCommand_MissingConfig(t *testing.T) {
	series := writeFile(t, "series.json", risingSeriesJSON)
	_, err := runRoot(t, "forecast", "-f", series, "-c", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestForecastCommand_RequiresFile(t *testing.T) {
	_, err := runRoot(t, "forecast")
	assert.Error(t, err)
}

func TestForecastCommand_InvalidSeries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "series.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"sales":[1,2]}`), 0o600))

	_, err := runRoot(t, "forecast", "-f", path)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestServeCommand_MissingConfig(t *testing.T) {
	_, err := runRoot(t, "serve", "-c", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
