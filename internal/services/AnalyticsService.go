package services

import (
	"context"
	"time"

	"scoringd/internal/analytics"
	"scoringd/internal/models"
)

type AnalyticsServiceInterface interface {
	AddMetrics(ctx context.Context, subject string, metrics models.EngagementMetrics, at time.Time) error
	GrowthRate(ctx context.Context, subject string, window time.Duration) (*models.GrowthMetrics, error)
	AnalyzePerformance(ctx context.Context, subject string) (*models.PerformanceReport, error)
	ScoreContent(text string, counters models.ContentCounters) *models.ContentAnalysis
	ForecastTrends(series *models.HistoricalSeries) (*models.TrendForecast, error)
	GetSubjects(ctx context.Context) ([]string, error)
	Prune(ctx context.Context, olderThan time.Time) (int, error)
	GetSnapshot(ctx context.Context) (*models.Storage, error)
	PutSnapshot(ctx context.Context, storage *models.Storage) error
}

type AnalyticsService struct {
	store       models.HistoryStore
	performance *analytics.PerformanceAnalyzer
	content     *analytics.ContentScorer
	forecaster  *analytics.TrendForecaster
}

func NewAnalyticsService(store models.HistoryStore, performance *analytics.PerformanceAnalyzer, content *analytics.ContentScorer, forecaster *analytics.TrendForecaster) AnalyticsServiceInterface {
	return &AnalyticsService{
		store:       store,
		performance: performance,
		content:     content,
		forecaster:  forecaster,
	}
}

// AddMetrics records metrics for subject. A zero at means now.
func (as *AnalyticsService) AddMetrics(ctx context.Context, subject string, metrics models.EngagementMetrics, at time.Time) error {
	if at.IsZero() {
		return as.performance.AddMetrics(ctx, subject, metrics)
	}
	return as.performance.AddMetricsAt(ctx, subject, metrics, at)
}

func (as *AnalyticsService) GrowthRate(ctx context.Context, subject string, window time.Duration) (*models.GrowthMetrics, error) {
	return as.performance.GrowthRate(ctx, subject, window)
}

func (as *AnalyticsService) AnalyzePerformance(ctx context.Context, subject string) (*models.PerformanceReport, error) {
	return as.performance.AnalyzePerformance(ctx, subject)
}

func (as *AnalyticsService) ScoreContent(text string, counters models.ContentCounters) *models.ContentAnalysis {
	return as.content.Score(text, counters)
}

func (as *AnalyticsService) ForecastTrends(series *models.HistoricalSeries) (*models.TrendForecast, error) {
	return as.forecaster.Forecast(series)
}

func (as *AnalyticsService) GetSubjects(ctx context.Context) ([]string, error) {
	return as.store.Subjects(ctx)
}

func (as *AnalyticsService) Prune(ctx context.Context, olderThan time.Time) (int, error) {
	return as.store.Prune(ctx, olderThan)
}

// GetSnapshot copies the whole history out of the store.
func (as *AnalyticsService) GetSnapshot(ctx context.Context) (*models.Storage, error) {
	if mem, ok := as.store.(*models.MemoryHistoryStore); ok {
		return &models.Storage{Version: models.StorageVersion, Subjects: mem.GetData()}, nil
	}

	subjects, err := as.store.Subjects(ctx)
	if err != nil {
		return nil, err
	}
	storage := &models.Storage{
		Version:  models.StorageVersion,
		Subjects: make(map[string][]models.Snapshot, len(subjects)),
	}
	for _, subject := range subjects {
		snaps, err := as.store.List(ctx, subject)
		if err != nil {
			return nil, err
		}
		storage.Subjects[subject] = snaps
	}
	return storage, nil
}

// PutSnapshot loads a persisted history. The memory store is replaced
// wholesale; other stores get the snapshots appended.
func (as *AnalyticsService) PutSnapshot(ctx context.Context, storage *models.Storage) error {
	if storage == nil {
		return nil
	}
	if mem, ok := as.store.(*models.MemoryHistoryStore); ok {
		mem.PutData(storage.Subjects)
		return nil
	}
	for subject, snaps := range storage.Subjects {
		for _, snap := range snaps {
			if err := as.store.Append(ctx, subject, snap); err != nil {
				return err
			}
		}
	}
	return nil
}
