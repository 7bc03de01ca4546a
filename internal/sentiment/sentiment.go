package sentiment

import (
	"strings"
	"unicode"

	"motorline/internal/domain"
)

// Keyword-frequency scorer. Polarity is the share of known positive and
// negative tokens among all tokens; the remainder is neutral.

var positiveWords = map[string]struct{}{
	"amazing": {}, "awesome": {}, "best": {}, "comfortable": {}, "excellent": {},
	"fantastic": {}, "good": {}, "great": {}, "happy": {}, "love": {},
	"loved": {}, "nice": {}, "perfect": {}, "recommend": {}, "reliable": {},
	"smooth": {}, "wonderful": {},
}

var negativeWords = map[string]struct{}{
	"awful": {}, "bad": {}, "broken": {}, "disappointed": {}, "hate": {},
	"hated": {}, "horrible": {}, "noisy": {}, "poor": {}, "problem": {},
	"problems": {}, "terrible": {}, "unreliable": {}, "worst": {}, "worthless": {},
}

// neutralPolarity is returned for empty or neutral-only text.
var neutralPolarity = domain.Polarity{Pos: 0.33, Neg: 0.33, Neu: 0.34}

// Score returns the polarity distribution for text. Components are
// non-negative and sum to 1.0.
func Score(text string) domain.Polarity {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return neutralPolarity
	}
	var pos, neg int
	for _, tok := range tokens {
		if _, ok := positiveWords[tok]; ok {
			pos++
			continue
		}
		if _, ok := negativeWords[tok]; ok {
			neg++
		}
	}
	if pos == 0 && neg == 0 {
		return neutralPolarity
	}
	total := float64(len(tokens))
	p := domain.Polarity{
		Pos: float64(pos) / total,
		Neg: float64(neg) / total,
	}
	p.Neu = 1 - p.Pos - p.Neg
	return p
}

// Stars maps a polarity distribution to a 1-5 star rating using fixed
// thresholds.
func Stars(p domain.Polarity) int {
	switch {
	case p.Pos >= 0.75 && p.Neg <= 0.10:
		return 5
	case p.Pos >= 0.55 && p.Neg <= 0.20:
		return 4
	case p.Neg >= 0.55 && p.Pos <= 0.20:
		return 1
	case p.Neg >= 0.40 && p.Pos <= 0.35:
		return 2
	default:
		return 3
	}
}

// Analyze scores text and derives its star rating.
func Analyze(text string) domain.ReviewResult {
	p := Score(text)
	return domain.ReviewResult{
		Review:   text,
		Polarity: p,
		Stars:    Stars(p),
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
}
