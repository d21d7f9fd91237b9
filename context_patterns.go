package roleplaysdk

import "strings"

// ──────────────────────────────────────────────
// Context pattern tables — phrase matching for transcript mining
// ──────────────────────────────────────────────

// commitmentPatterns are first-person future/ability phrases. Matches are
// rejected when immediately negated ("i can't", "i will not").
var commitmentPatterns = []string{
	"i will", "i'll", "we will", "we'll",
	"i can", "we can", "let me",
	"i plan to", "we plan to",
	"i'm going to", "we're going to",
	"i promise", "i commit",
}

// concernPhrasePatterns mark worry/problem statements in persona turns.
var concernPhrasePatterns = []string{
	"i'm worried", "i am worried",
	"my concern", "i'm concerned", "i am concerned",
	"what if", "the problem is", "that worries me",
	"i fear", "the risk is", "i'm nervous about",
	"i'm not sure about",
}

// decisionPatterns mark explicit decision language.
var decisionPatterns = []string{
	"we decided", "we've decided", "i've decided", "i decided",
	"let's go with", "we're going with", "the decision is",
	"we agreed", "we'll proceed", "it's settled",
}

// callbackTemplates wrap referenceable points in natural phrasing.
var callbackTemplates = []string{
	"Going back to what you said about %s...",
	"You mentioned %s earlier.",
	"Earlier you brought up %s.",
	"To pick up on %s...",
	"I keep coming back to %s.",
}

// contextStopwords are filtered out of topic and overlap extraction.
// Only words long enough to pass the length gates matter here.
var contextStopwords = map[string]bool{
	"about": true, "above": true, "actually": true, "after": true,
	"again": true, "against": true, "because": true, "been": true,
	"before": true, "being": true, "between": true, "could": true,
	"doing": true, "during": true, "every": true, "going": true,
	"gonna": true, "having": true, "maybe": true, "might": true,
	"other": true, "really": true, "right": true, "should": true,
	"since": true, "something": true, "still": true, "their": true,
	"there": true, "these": true, "thing": true, "things": true,
	"think": true, "those": true, "through": true, "under": true,
	"until": true, "wanted": true, "we're": true, "where": true,
	"which": true, "while": true, "would": true, "you're": true,
}

// polarityClass pairs affirmative vocabulary with its negation.
type polarityClass struct {
	affirm []string
	negate []string
}

var polarityClasses = []polarityClass{
	{affirm: []string{"can"}, negate: []string{"can't", "cannot"}},
	{affirm: []string{"will"}, negate: []string{"won't"}},
	{affirm: []string{"should"}, negate: []string{"shouldn't"}},
	{affirm: []string{"is", "are"}, negate: []string{"isn't", "aren't"}},
	{affirm: []string{"do", "does"}, negate: []string{"don't", "doesn't"}},
	{affirm: []string{"have", "has"}, negate: []string{"haven't", "hasn't"}},
	{affirm: []string{"yes"}, negate: []string{"no"}},
}

// containsPhrase reports whether lower contains the phrase at a word
// boundary, skipping occurrences that are immediately negated.
func containsPhrase(lower, phrase string) bool {
	from := 0
	for {
		i := strings.Index(lower[from:], phrase)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(phrase)

		boundedLeft := start == 0 || !isLetter(lower[start-1])
		boundedRight := end == len(lower) || !isMidWord(lower[end:])
		negated := strings.HasPrefix(lower[end:], "'t") ||
			strings.HasPrefix(lower[end:], " not") ||
			strings.HasPrefix(lower[end:], "not ")

		if boundedLeft && boundedRight && !negated {
			return true
		}
		from = end
	}
}

func matchesAnyPhrase(lower string, patterns []string) bool {
	for _, p := range patterns {
		if containsPhrase(lower, p) {
			return true
		}
	}
	return false
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// isMidWord reports whether rest continues the previous word ("i can"
// followed by "not" would otherwise match inside "i cannot").
func isMidWord(rest string) bool {
	return len(rest) > 0 && isLetter(rest[0])
}

// wordSet builds the lower-cased word set of a turn.
func wordSet(content string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range words(content) {
		set[w] = true
	}
	return set
}

// sharedContentWords returns words of length ≥4 (stop-words excluded)
// present in both sets.
func sharedContentWords(a, b map[string]bool) []string {
	var shared []string
	for w := range a {
		if len(w) < 4 || contextStopwords[w] {
			continue
		}
		if b[w] {
			shared = append(shared, w)
		}
	}
	return shared
}

// polarityOpposed reports whether the two word sets take opposite sides of
// any polarity class (one affirms, the other negates).
func polarityOpposed(a, b map[string]bool) bool {
	for _, class := range polarityClasses {
		if affirms(a, class) && negates(b, class) {
			return true
		}
		if negates(a, class) && affirms(b, class) {
			return true
		}
	}
	return false
}

func affirms(set map[string]bool, class polarityClass) bool {
	if negates(set, class) {
		return false
	}
	for _, w := range class.affirm {
		if set[w] {
			return true
		}
	}
	return false
}

func negates(set map[string]bool, class polarityClass) bool {
	for _, w := range class.negate {
		if set[w] {
			return true
		}
	}
	// "will not", "can not" style split negation
	if set["not"] {
		for _, w := range class.affirm {
			if set[w] {
				return true
			}
		}
	}
	return false
}
