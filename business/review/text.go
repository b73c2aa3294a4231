package review

import (
	"math"
	"sort"
	"strings"

	"smartShop/domain"
)

const (
	maxThemes     = 5
	noReviewsText = "No reviews yet."
)

var stopwords = wordSet(
	"the", "and", "a", "an", "is", "it", "this", "that", "to", "of", "for", "in", "on",
	"with", "very", "really", "my", "our", "your", "all", "at", "as", "was", "were", "be",
	"are", "but", "so", "if", "by", "from", "has", "have", "had", "its", "i", "me", "we",
	"you", "they",
)

var positiveWords = wordSet(
	"great", "excellent", "amazing", "love", "fast", "snappy", "beautiful", "clear",
	"crystal", "smooth", "awesome", "perfect", "good", "durable", "battery", "bright",
)

var negativeWords = wordSet(
	"bad", "poor", "slow", "broken", "cracked", "damage", "overheats", "lag", "laggy",
	"heavy", "dim", "terrible", "awful", "disappoint", "noisy",
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Tokenize lowercases text, blanks everything outside [a-z0-9] and whitespace, and
// drops stopwords.
func Tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '\t', r == '\n', r == '\r', r == '\v', r == '\f':
			return r
		default:
			return ' '
		}
	}, strings.ToLower(text))

	fields := strings.Fields(cleaned)
	tokens := fields[:0]
	for _, f := range fields {
		if _, skip := stopwords[f]; !skip {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// SentimentScore is the net count of positive minus negative lexicon tokens.
func SentimentScore(text string) int {
	score := 0
	for _, token := range Tokenize(text) {
		if _, ok := positiveWords[token]; ok {
			score++
		}
		if _, ok := negativeWords[token]; ok {
			score--
		}
	}
	return score
}

// Classify buckets one review. The rating is consulted first in each branch, so a 5-star
// review with negative wording is still positive.
func Classify(r domain.Review) string {
	score := SentimentScore(r.Text)
	switch {
	case r.Rating >= 4 || score > 0:
		return "positive"
	case r.Rating <= 2 || score < 0:
		return "negative"
	default:
		return "neutral"
	}
}

// TermFrequency counts tokens across reviews and remembers first-seen order.
type TermFrequency struct {
	counts map[string]int
	order  []string
}

func NewTermFrequency(reviews []domain.Review) *TermFrequency {
	tf := &TermFrequency{counts: make(map[string]int)}
	for _, r := range reviews {
		for _, token := range Tokenize(r.Text) {
			if _, seen := tf.counts[token]; !seen {
				tf.order = append(tf.order, token)
			}
			tf.counts[token]++
		}
	}
	return tf
}

// Count returns the frequency of word, or fallback when it never occurred.
func (tf *TermFrequency) Count(word string, fallback int) int {
	if n, ok := tf.counts[word]; ok {
		return n
	}
	return fallback
}

// Top returns the n most frequent words. Ties keep first-encountered order.
func (tf *TermFrequency) Top(n int) []domain.Theme {
	words := make([]string, len(tf.order))
	copy(words, tf.order)
	sort.SliceStable(words, func(i, j int) bool {
		return tf.counts[words[i]] > tf.counts[words[j]]
	})
	if len(words) > n {
		words = words[:n]
	}

	themes := make([]domain.Theme, 0, len(words))
	for _, w := range words {
		themes = append(themes, domain.Theme{Word: w, Count: tf.counts[w]})
	}
	return themes
}

// Summarize builds the heuristic summary. summary_text stays empty unless there are no
// reviews at all; a model may fill it in afterwards.
func Summarize(reviews []domain.Review) domain.ReviewSummary {
	if len(reviews) == 0 {
		return domain.ReviewSummary{
			Themes:      []domain.Theme{},
			SummaryText: noReviewsText,
		}
	}

	var total float64
	var sentiment domain.SentimentBreakdown
	for _, r := range reviews {
		total += r.Rating
		switch Classify(r) {
		case "positive":
			sentiment.Positive++
		case "negative":
			sentiment.Negative++
		default:
			sentiment.Neutral++
		}
	}

	return domain.ReviewSummary{
		AverageRating: round2(total / float64(len(reviews))),
		TotalReviews:  len(reviews),
		Sentiment:     sentiment,
		Themes:        NewTermFrequency(reviews).Top(maxThemes),
	}
}

func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
