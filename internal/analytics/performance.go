package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"scoringd/internal/models"
	"scoringd/internal/structures"
)

const defaultGrowthWindow = 30 * 24 * time.Hour

const (
	RecommendLowEngagement = "Engagement rate is below the ideal level. Interact more with your audience and publish more participative content."
	RecommendLowQuality    = "Interaction quality can improve. Focus on content that drives comments and shares rather than just likes."
	RecommendLowGrowth     = "Follower growth is low. Try collaborations and work on the visibility of your content."
	RecommendFewComments   = "The share of comments is low. Add calls to action and questions to your posts to start conversations."
)

// PerformanceAnalyzer derives growth and performance from a subject's history.
type PerformanceAnalyzer struct {
	store  models.HistoryStore
	window time.Duration
	now    func() time.Time
}

func NewPerformanceAnalyzer(store models.HistoryStore, conf *structures.Config) *PerformanceAnalyzer {
	window := conf.Analytics.GrowthWindow
	if window == 0 {
		window = defaultGrowthWindow
	}
	return &PerformanceAnalyzer{
		store:  store,
		window: window,
		now:    time.Now,
	}
}

// AddMetrics appends a snapshot stamped with the current time.
func (pa *PerformanceAnalyzer) AddMetrics(ctx context.Context, subject string, metrics models.EngagementMetrics) error {
	return pa.AddMetricsAt(ctx, subject, metrics, pa.now())
}

func (pa *PerformanceAnalyzer) AddMetricsAt(ctx context.Context, subject string, metrics models.EngagementMetrics, at time.Time) error {
	if strings.TrimSpace(subject) == "" {
		return fmt.Errorf("subject is empty: %w", models.ErrInvalidInput)
	}
	if err := metrics.Validate(); err != nil {
		return err
	}
	return pa.store.Append(ctx, subject, models.Snapshot{Metrics: metrics, RecordedAt: at})
}

// GrowthRate compares the latest snapshot with the earliest one recorded within
// window of it. A non-positive window compares against the very first snapshot.
func (pa *PerformanceAnalyzer) GrowthRate(ctx context.Context, subject string, window time.Duration) (*models.GrowthMetrics, error) {
	history, err := pa.store.List(ctx, subject)
	if err != nil {
		return nil, err
	}
	growth, err := growthRate(history, window)
	if err != nil {
		return nil, err
	}
	return roundGrowth(growth), nil
}

func growthRate(history []models.Snapshot, window time.Duration) (*models.GrowthMetrics, error) {
	if len(history) < 2 {
		return nil, fmt.Errorf("growth needs 2 snapshots, have %d: %w", len(history), models.ErrInsufficientData)
	}

	current := history[len(history)-1]
	baseline := 0
	if window > 0 {
		since := current.RecordedAt.Add(-window)
		baseline = len(history) - 1
		for i, snap := range history {
			if !snap.RecordedAt.Before(since) {
				baseline = i
				break
			}
		}
	}
	if baseline >= len(history)-1 {
		return nil, fmt.Errorf("no snapshot within %s of the latest one: %w", window, models.ErrInsufficientData)
	}
	previous := history[baseline]

	cur, prev := current.Metrics, previous.Metrics
	return &models.GrowthMetrics{
		FollowersGrowth:  percentChange(float64(prev.Followers), float64(cur.Followers)),
		EngagementGrowth: cur.EngagementRate() - prev.EngagementRate(),
		QualityGrowth:    cur.QualityScore() - prev.QualityScore(),
	}, nil
}

// AnalyzePerformance scores the latest snapshot of subject. A history too short
// for growth is scored with zero growth and reported without growth metrics.
func (pa *PerformanceAnalyzer) AnalyzePerformance(ctx context.Context, subject string) (*models.PerformanceReport, error) {
	history, err := pa.store.List(ctx, subject)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, models.ErrNoData
	}

	latest := history[len(history)-1].Metrics
	growth, err := growthRate(history, pa.window)
	switch {
	case errors.Is(err, models.ErrInsufficientData):
		growth = nil
	case err != nil:
		return nil, err
	}

	followersGrowth := 0.0
	if growth != nil {
		followersGrowth = growth.FollowersGrowth
	}
	engagementRate := latest.EngagementRate()
	qualityScore := latest.QualityScore()
	score := engagementRate*0.4 + qualityScore*0.3 + followersGrowth*0.3

	report := &models.PerformanceReport{
		Subject: subject,
		CurrentMetrics: models.CurrentMetrics{
			EngagementRate: round2(engagementRate),
			QualityScore:   round2(qualityScore),
			Followers:      latest.Followers,
		},
		PerformanceScore: round2(score),
		Recommendations:  performanceRecommendations(latest, followersGrowth),
	}
	if growth != nil {
		report.GrowthMetrics = roundGrowth(growth)
	}
	return report, nil
}

func performanceRecommendations(m models.EngagementMetrics, followersGrowth float64) []string {
	recommendations := make([]string, 0, 4)
	if m.EngagementRate() < 3.0 {
		recommendations = append(recommendations, RecommendLowEngagement)
	}
	if m.QualityScore() < 40 {
		recommendations = append(recommendations, RecommendLowQuality)
	}
	if followersGrowth < 5 {
		recommendations = append(recommendations, RecommendLowGrowth)
	}
	// not applicable without likes
	if m.Likes > 0 && float64(m.Comments)/float64(m.Likes) < 0.05 {
		recommendations = append(recommendations, RecommendFewComments)
	}
	return recommendations
}

func roundGrowth(g *models.GrowthMetrics) *models.GrowthMetrics {
	return &models.GrowthMetrics{
		FollowersGrowth:  round2(g.FollowersGrowth),
		EngagementGrowth: round2(g.EngagementGrowth),
		QualityGrowth:    round2(g.QualityGrowth),
	}
}
