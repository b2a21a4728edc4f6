package models

type GrowthMetrics struct {
	FollowersGrowth  float64 `json:"followers_growth"`
	EngagementGrowth float64 `json:"engagement_growth"`
	QualityGrowth    float64 `json:"quality_growth"`
}

type CurrentMetrics struct {
	EngagementRate float64 `json:"engagement_rate"`
	QualityScore   float64 `json:"quality_score"`
	Followers      int64   `json:"followers"`
}

type PerformanceReport struct {
	Subject          string         `json:"subject"`
	CurrentMetrics   CurrentMetrics `json:"current_metrics"`
	GrowthMetrics    *GrowthMetrics `json:"growth_metrics,omitempty"`
	PerformanceScore float64        `json:"performance_score"`
	Recommendations  []string       `json:"recommendations"`
}

// ContentCounters are the optional engagement counters attached to a piece of
// content. Absent counters do not take part in the engagement score.
type ContentCounters struct {
	Likes    *int64 `json:"likes,omitempty"`
	Comments *int64 `json:"comments,omitempty"`
	Shares   *int64 `json:"shares,omitempty"`
	Saves    *int64 `json:"saves,omitempty"`
}

type SentimentResult struct {
	Score          float64 `json:"score"`
	Classification string  `json:"classification"`
}

type HashtagResult struct {
	Count         int      `json:"count"`
	Effectiveness float64  `json:"effectiveness"`
	Suggestions   []string `json:"suggestions"`
}

type TextLength struct {
	Words     int `json:"words"`
	Sentences int `json:"sentences"`
	Chars     int `json:"chars"`
}

type StructureResult struct {
	Length      TextLength `json:"length"`
	Readability float64    `json:"readability"`
	Optimal     bool       `json:"optimal"`
}

type EngagementResult struct {
	Score float64 `json:"score"`
	Level string  `json:"level"`
}

type ContentAnalysis struct {
	Sentiment       SentimentResult  `json:"sentiment"`
	Hashtags        HashtagResult    `json:"hashtags"`
	Structure       StructureResult  `json:"structure"`
	Engagement      EngagementResult `json:"engagement"`
	Recommendations []string         `json:"recommendations"`
}

const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

type TrendRecord struct {
	Metric    string  `json:"metric"`
	Change    float64 `json:"change"`
	Direction string  `json:"direction"`
}

type Predictions struct {
	Dates  []string  `json:"dates"`
	Values []float64 `json:"values"`
}

type TrendForecast struct {
	Predictions     Predictions          `json:"predictions"`
	Drivers         map[string][]float64 `json:"drivers"`
	Trends          []TrendRecord        `json:"trends"`
	Recommendations []string             `json:"recommendations"`
}
