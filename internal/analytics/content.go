package analytics

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"scoringd/internal/models"
	"scoringd/internal/structures"
)

const (
	SentimentPositive = "Positive"
	SentimentNegative = "Negative"
	SentimentNeutral  = "Neutral"

	LevelExcellent        = "Excellent"
	LevelGood             = "Good"
	LevelRegular          = "Regular"
	LevelLow              = "Low"
	LevelInsufficientData = "insufficient data"
)

const (
	defaultSentimentThreshold = 0.1
	maxHashtags               = 30
	minOptimalWords           = 50
	maxOptimalWords           = 200
)

const (
	SuggestAddHashtags      = "Use relevant hashtags to increase visibility."
	SuggestMoreHashtags     = "Increase the number of relevant hashtags (5-15 recommended)."
	SuggestFewerHashtags    = "Reduce the number of hashtags below 30."
	RecommendPositiveTone   = "The tone of the content is negative. Consider a more positive framing to connect with your audience."
	RecommendMoreContext    = "The content is too short. Add more context and value for your audience."
	RecommendSplitContent   = "The content is very long. Consider splitting it into several posts or summarizing the main points."
	RecommendClearerActions = "Engagement is low. Include clearer calls to action and questions to encourage participation."
)

var (
	hashtagPattern  = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)
	sentencePattern = regexp.MustCompile(`[.!?]+(\s+|$)`)
)

// ContentScorer scores a single piece of generated content. It is a pure
// function of its inputs.
type ContentScorer struct {
	sentimentThreshold float64
}

func NewContentScorer(conf *structures.Config) *ContentScorer {
	threshold := conf.Content.SentimentThreshold
	if threshold <= 0 {
		threshold = defaultSentimentThreshold
	}
	return &ContentScorer{sentimentThreshold: threshold}
}

func (cs *ContentScorer) Score(text string, counters models.ContentCounters) *models.ContentAnalysis {
	polarity := Polarity(text)
	hashtags := analyzeHashtags(text)
	structure := analyzeStructure(text)
	engagement := engagementScore(counters)

	return &models.ContentAnalysis{
		Sentiment: models.SentimentResult{
			Score:          round2(polarity),
			Classification: cs.classifySentiment(polarity),
		},
		Hashtags:        hashtags,
		Structure:       structure,
		Engagement:      engagement,
		Recommendations: contentRecommendations(polarity, hashtags, structure, engagement),
	}
}

func (cs *ContentScorer) classifySentiment(polarity float64) string {
	switch {
	case polarity > cs.sentimentThreshold:
		return SentimentPositive
	case polarity < -cs.sentimentThreshold:
		return SentimentNegative
	}
	return SentimentNeutral
}

func analyzeHashtags(text string) models.HashtagResult {
	count := len(hashtagPattern.FindAllString(text, -1))
	if count == 0 {
		return models.HashtagResult{Suggestions: []string{SuggestAddHashtags}}
	}

	suggestions := []string{}
	switch {
	case count < 5:
		suggestions = append(suggestions, SuggestMoreHashtags)
	case count > maxHashtags:
		suggestions = append(suggestions, SuggestFewerHashtags)
	}
	return models.HashtagResult{
		Count:         count,
		Effectiveness: round2(math.Min(float64(count)/maxHashtags, 1) * 100),
		Suggestions:   suggestions,
	}
}

func analyzeStructure(text string) models.StructureResult {
	words := len(strings.Fields(text))
	sentences := countSentences(text)
	chars := utf8.RuneCountInString(text)

	return models.StructureResult{
		Length: models.TextLength{
			Words:     words,
			Sentences: sentences,
			Chars:     chars,
		},
		Readability: round2(readability(words, sentences, chars)),
		Optimal:     words >= minOptimalWords && words <= maxOptimalWords,
	}
}

// countSentences splits on runs of terminal punctuation followed by whitespace
// or end of text. Trailing text without punctuation is a sentence too.
func countSentences(text string) int {
	count := 0
	for _, part := range sentencePattern.Split(text, -1) {
		if strings.TrimSpace(part) != "" {
			count++
		}
	}
	return count
}

func readability(words, sentences, chars int) float64 {
	if sentences == 0 || words == 0 {
		return 0
	}
	avgSentenceLength := float64(words) / float64(sentences)
	avgWordLength := float64(chars) / float64(words)
	return clamp(100-(avgSentenceLength*0.5+avgWordLength*5), 0, 100)
}

func engagementScore(c models.ContentCounters) models.EngagementResult {
	weighted := []struct {
		value  *int64
		weight float64
	}{
		{c.Likes, 1},
		{c.Comments, 2},
		{c.Shares, 3},
		{c.Saves, 4},
	}

	var total, maxWeight float64
	for _, w := range weighted {
		if w.value == nil {
			continue
		}
		total += float64(*w.value) * w.weight
		maxWeight += w.weight
	}
	if maxWeight == 0 {
		return models.EngagementResult{Score: 0, Level: LevelInsufficientData}
	}

	score := total / maxWeight * 100
	return models.EngagementResult{
		Score: round2(score),
		Level: classifyEngagement(score),
	}
}

func classifyEngagement(score float64) string {
	switch {
	case score >= 75:
		return LevelExcellent
	case score >= 50:
		return LevelGood
	case score >= 25:
		return LevelRegular
	}
	return LevelLow
}

func contentRecommendations(polarity float64, hashtags models.HashtagResult, structure models.StructureResult, engagement models.EngagementResult) []string {
	recommendations := []string{}
	if polarity < 0 {
		recommendations = append(recommendations, RecommendPositiveTone)
	}
	switch words := structure.Length.Words; {
	case words < minOptimalWords:
		recommendations = append(recommendations, RecommendMoreContext)
	case words > maxOptimalWords:
		recommendations = append(recommendations, RecommendSplitContent)
	}
	if engagement.Score < 50 {
		recommendations = append(recommendations, RecommendClearerActions)
	}
	return append(recommendations, hashtags.Suggestions...)
}
