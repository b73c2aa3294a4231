package chat

import (
	"regexp"
	"strconv"
	"strings"

	"smartShop/domain"
)

var (
	budgetPhrasePattern = regexp.MustCompile(`(under|below|less than)\s*\$?\s*(\d+(?:\.\d+)?)`)
	dollarPattern       = regexp.MustCompile(`\$\s*(\d+(?:\.\d+)?)`)
	productIDPattern    = regexp.MustCompile(`\b[A-Z]{2,4}\d{3,5}\b`)
)

// categoryVocabulary is checked in order; the first keyword group found wins.
var categoryVocabulary = []struct {
	category string
	keywords []string
}{
	{"smartphone", []string{"mobile", "phone", "smartphone"}},
	{"laptop", []string{"laptop"}},
	{"speaker", []string{"speaker"}},
	{"smart_tv", []string{"tv"}},
}

var intentKeywords = []struct {
	intent   string
	keywords []string
}{
	{domain.IntentPolicy, []string{"policy", "return", "warranty"}},
	{domain.IntentReview, []string{"review", "summary", "sentiment"}},
	{domain.IntentPrice, []string{"compare", "price", "cheaper"}},
	{domain.IntentRecommend, []string{"recommend", "suggest", "similar"}},
}

var cheapKeywords = []string{"cheap", "cheapest", "lowest", "budget", "affordable"}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// ExtractCategory maps keywords in message to a catalog category, or "".
// Matching is by substring, so "iphone" counts as a phone.
func ExtractCategory(message string) string {
	text := strings.ToLower(message)
	for _, entry := range categoryVocabulary {
		if containsAny(text, entry.keywords) {
			return entry.category
		}
	}
	return ""
}

// ExtractBudget finds a price ceiling such as "under $500", "below 300" or a bare "$250".
func ExtractBudget(message string) (float64, bool) {
	text := strings.ToLower(message)

	if m := budgetPhrasePattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[2], 64); err == nil {
			return v, true
		}
	}
	if m := dollarPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

// ExtractProductID returns the first product-id shaped token, e.g. "LAP1001".
func ExtractProductID(message string) string {
	return productIDPattern.FindString(message)
}

func ExtractProductIDs(message string) []string {
	return productIDPattern.FindAllString(message, -1)
}

func IsCheapestRequest(message string) bool {
	return containsAny(strings.ToLower(message), cheapKeywords)
}

// HeuristicIntent classifies by keyword. The first matching group wins and search is
// the default.
func HeuristicIntent(message string) string {
	text := strings.ToLower(message)
	for _, entry := range intentKeywords {
		if containsAny(text, entry.keywords) {
			return entry.intent
		}
	}
	return domain.IntentSearch
}
