package analytics

import (
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}']+`)

// polarityLexicon maps lower-cased words to a polarity in [-1, 1].
var polarityLexicon = map[string]float64{
	"amazing": 0.6, "awesome": 1.0, "beautiful": 0.85, "best": 1.0, "better": 0.5,
	"brilliant": 0.9, "cheap": 0.4, "comfortable": 0.4, "cool": 0.35, "delicious": 1.0,
	"delighted": 0.7, "easy": 0.43, "effective": 0.6, "elegant": 0.5, "enjoy": 0.4,
	"excellent": 1.0, "exceptional": 0.67, "exciting": 0.3, "exclusive": 0.3, "fabulous": 0.4,
	"fantastic": 0.4, "fast": 0.2, "favorite": 0.5, "fine": 0.42, "free": 0.4,
	"fresh": 0.3, "fun": 0.3, "glad": 0.5, "good": 0.7, "gorgeous": 0.7,
	"great": 0.8, "happy": 0.8, "helpful": 0.5, "ideal": 0.9, "impressive": 1.0,
	"incredible": 0.9, "interesting": 0.5, "love": 0.5, "loved": 0.7, "lovely": 0.5,
	"nice": 0.6, "perfect": 1.0, "pleasant": 0.73, "popular": 0.6, "positive": 0.23,
	"powerful": 0.3, "premium": 0.5, "quality": 0.3, "recommend": 0.4, "reliable": 0.5,
	"safe": 0.5, "satisfied": 0.5, "special": 0.36, "stunning": 0.5, "super": 0.33,
	"superb": 1.0, "thanks": 0.2, "top": 0.5, "unique": 0.38, "useful": 0.3,
	"valuable": 0.5, "win": 0.8, "wonderful": 1.0, "worth": 0.3, "wow": 0.1,

	"angry": -0.5, "annoying": -0.8, "awful": -1.0, "bad": -0.7, "boring": -1.0,
	"broken": -0.4, "cheaply": -0.3, "complaint": -0.5, "confusing": -0.3, "damaged": -0.5,
	"dangerous": -0.6, "delay": -0.3, "delayed": -0.3, "difficult": -0.5, "dirty": -0.6,
	"disappointed": -0.75, "disappointing": -0.6, "dreadful": -1.0, "expensive": -0.5, "fail": -0.5,
	"failed": -0.5, "fake": -0.5, "faulty": -0.6, "hate": -0.8, "hated": -0.9,
	"horrible": -1.0, "late": -0.3, "lost": -0.3, "mediocre": -0.5, "negative": -0.3,
	"poor": -0.4, "problem": -0.3, "refund": -0.2, "sad": -0.5, "scam": -0.9,
	"slow": -0.3, "terrible": -1.0, "ugly": -0.7, "unhappy": -0.6, "unreliable": -0.5,
	"useless": -0.5, "waste": -0.6, "weak": -0.4, "worse": -0.4, "worst": -1.0,
	"wrong": -0.5,
}

// intensifiers scale the polarity of the next sentiment word.
var intensifiers = map[string]float64{
	"very": 1.3, "really": 1.3, "extremely": 1.5, "super": 1.3, "so": 1.2,
	"incredibly": 1.5, "truly": 1.2, "absolutely": 1.5, "totally": 1.3, "quite": 1.1,
	"slightly": 0.7, "somewhat": 0.8, "barely": 0.5,
}

var negators = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "neither": {}, "nor": {}, "without": {}, "hardly": {},
}

const negationFactor = -0.5

// Polarity returns the mean polarity of the sentiment-bearing words of text, in
// [-1, 1]. Text without any known sentiment word scores 0.
func Polarity(text string) float64 {
	tokens := wordPattern.FindAllString(strings.ToLower(text), -1)

	var sum float64
	var count int
	intensity := 1.0
	negated := false

	for i, token := range tokens {
		if isNegator(token) {
			negated = true
			continue
		}
		polarity, ok := polarityLexicon[token]
		// an intensifier that is itself in the lexicon ("super") only intensifies
		// when another sentiment word follows
		if mult, isIntensifier := intensifiers[token]; isIntensifier {
			if !ok || (i+1 < len(tokens) && isSentimentWord(tokens[i+1])) {
				intensity *= mult
				continue
			}
		}
		if !ok {
			continue
		}
		p := polarity * intensity
		if negated {
			p *= negationFactor
		}
		sum += clamp(p, -1, 1)
		count++
		intensity = 1.0
		negated = false
	}

	if count == 0 {
		return 0
	}
	return clamp(sum/float64(count), -1, 1)
}

func isNegator(token string) bool {
	if _, ok := negators[token]; ok {
		return true
	}
	return strings.HasSuffix(token, "n't")
}

func isSentimentWord(token string) bool {
	_, ok := polarityLexicon[token]
	return ok
}
