package models

import (
	"fmt"
	"time"
)

// EngagementMetrics holds raw interaction counters for a subject at one point in time.
type EngagementMetrics struct {
	Likes     int64 `json:"likes"`
	Comments  int64 `json:"comments"`
	Shares    int64 `json:"shares"`
	Saves     int64 `json:"saves"`
	Views     int64 `json:"views"`
	Followers int64 `json:"followers"`
	Posts     int64 `json:"posts"`
}

// EngagementRate is the weighted interactions per post per follower, in percent.
func (m EngagementMetrics) EngagementRate() float64 {
	if m.Followers == 0 || m.Posts == 0 {
		return 0
	}
	interactions := float64(m.Likes) +
		float64(m.Comments)*2 +
		float64(m.Shares)*3 +
		float64(m.Saves)*4 +
		float64(m.Views)*0.1
	return interactions / float64(m.Posts) / float64(m.Followers) * 100
}

// QualityScore favours comments, shares and saves over likes. Likes only count
// towards the denominator.
func (m EngagementMetrics) QualityScore() float64 {
	total := m.Likes + m.Comments + m.Shares + m.Saves
	if total == 0 {
		return 0
	}
	t := float64(total)
	weighted := float64(m.Comments)/t*0.3 +
		float64(m.Shares)/t*0.4 +
		float64(m.Saves)/t*0.3
	return weighted * 100
}

func (m EngagementMetrics) Validate() error {
	counters := []struct {
		name  string
		value int64
	}{
		{"likes", m.Likes},
		{"comments", m.Comments},
		{"shares", m.Shares},
		{"saves", m.Saves},
		{"views", m.Views},
		{"followers", m.Followers},
		{"posts", m.Posts},
	}
	for _, c := range counters {
		if c.value < 0 {
			return fmt.Errorf("%s must be non-negative, got %d: %w", c.name, c.value, ErrInvalidInput)
		}
	}
	return nil
}

// Snapshot is one entry of a subject's history.
type Snapshot struct {
	Metrics    EngagementMetrics `json:"metrics"`
	RecordedAt time.Time         `json:"recorded_at"`
}
