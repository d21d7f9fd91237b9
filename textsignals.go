package roleplaysdk

import (
	"regexp"
	"strconv"
	"strings"
)

// ──────────────────────────────────────────────
// Text signal helpers — shared rule-based heuristics
// ──────────────────────────────────────────────

var (
	digitRe      = regexp.MustCompile(`\d`)
	percentageRe = regexp.MustCompile(`\d+(\.\d+)?\s*(%|percent)`)
	currencyRe   = regexp.MustCompile(`[$€£¥]\s?\d`)
	numberRe     = regexp.MustCompile(`\d+(\.\d+)?`)
	wordRe       = regexp.MustCompile(`[a-zA-Z']+`)
)

var timeframeWords = []string{
	"today", "tomorrow", "tonight", "deadline",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"week", "weeks", "day", "days", "month", "months",
	"quarter", "quarters", "hour", "hours", "year", "years",
}

var metricWords = []string{
	"metric", "metrics", "kpi", "kpis", "benchmark", "conversion",
	"throughput", "latency", "uptime", "revenue", "roi", "margin",
}

var exampleMarkers = []string{
	"for example", "for instance", "such as", "e.g.", "specifically", "in particular",
}

var evidenceWords = []string{
	"data", "research", "study", "studies", "statistics", "evidence",
	"survey", "report", "analysis", "measured",
}

func hasDigit(text string) bool {
	return digitRe.MatchString(text)
}

// hasSpecifics reports whether the text contains concrete detail: a number,
// percentage, currency amount, timeframe, metric vocabulary, or explicit
// example language.
func hasSpecifics(text string) bool {
	lower := strings.ToLower(text)
	return hasDigit(lower) || hasSpecificityMarker(lower)
}

// hasSpecificityMarker checks non-numeric specificity only: percentage,
// currency, timeframe, metric vocabulary, or example language. Used by
// importance scoring, where plain digits are weighted separately.
func hasSpecificityMarker(lower string) bool {
	if percentageRe.MatchString(lower) || currencyRe.MatchString(lower) {
		return true
	}
	if containsAnyWord(lower, timeframeWords) || containsAnyWord(lower, metricWords) {
		return true
	}
	return containsAnyPhrase(lower, exampleMarkers)
}

// hasEvidence reports whether the text pairs data/evidence vocabulary with
// an actual number.
func hasEvidence(text string) bool {
	lower := strings.ToLower(text)
	return containsAnyWord(lower, evidenceWords) && hasDigit(lower)
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}

// words returns the lower-cased alphabetic words of the text.
func words(text string) []string {
	return wordRe.FindAllString(strings.ToLower(text), -1)
}

// firstNumber extracts the first numeric value in the text, if any.
func firstNumber(text string) (float64, bool) {
	match := numberRe.FindString(text)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func containsAnyWord(lower string, wordsToFind []string) bool {
	fields := words(lower)
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	for _, w := range wordsToFind {
		if set[w] {
			return true
		}
	}
	return false
}

func containsAnyPhrase(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// summarize returns the first sentence of the content if it is at most 100
// characters, otherwise the first 100 characters plus an ellipsis.
func summarize(content string) string {
	trimmed := strings.TrimSpace(content)
	first := firstSentence(trimmed)
	if len([]rune(first)) <= 100 {
		return first
	}
	runes := []rune(trimmed)
	return string(runes[:100]) + "..."
}

func firstSentence(text string) string {
	for i, r := range text {
		switch r {
		case '.', '!', '?', '\n':
			return strings.TrimSpace(text[:i+1])
		}
	}
	return text
}
