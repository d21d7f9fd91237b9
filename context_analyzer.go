package roleplaysdk

import (
	"fmt"
	"log"
	"sort"
	"strings"
)

// ──────────────────────────────────────────────
// Context Analyzer — transcript mining for referenceable context
// ──────────────────────────────────────────────

// Importance scoring weights. A turn is kept as a key point at ≥3.
const (
	weightDigit       = 2
	weightCommitment  = 3
	weightQuestion    = 1
	weightConcern     = 2
	weightDecision    = 3
	weightLongTurn    = 1
	weightSpecificity = 2

	keyPointThreshold = 3

	// Referenceable points come from the recent window or high importance.
	referenceWindow      = 10
	referenceMinScore    = 5
	defaultMaxReferences = 3
)

// KeyPoint is a transcript turn judged important enough to reference later.
type KeyPoint struct {
	TurnIndex       int     `json:"turn_index"`
	Speaker         Speaker `json:"speaker"`
	Content         string  `json:"content"`
	ImportanceScore int     `json:"importance_score"`
	Summary         string  `json:"summary"`
}

// Commitment is a first-person promise extracted from a user turn.
type Commitment struct {
	TurnIndex int    `json:"turn_index"`
	Text      string `json:"text"`
	Addressed bool   `json:"addressed"`
	Summary   string `json:"summary"`
}

// Concern is a worry statement extracted from a persona turn.
type Concern struct {
	TurnIndex int    `json:"turn_index"`
	Text      string `json:"text"`
	Addressed bool   `json:"addressed"`
	Summary   string `json:"summary"`
}

// Contradiction records two user turns that conflict on the same topic.
type Contradiction struct {
	TurnIndex1  int    `json:"turn_index_1"`
	TurnIndex2  int    `json:"turn_index_2"`
	Description string `json:"description"`
	Summary1    string `json:"summary_1"`
	Summary2    string `json:"summary_2"`
}

// ReferenceablePoint is a key point wrapped in natural callback phrasing.
type ReferenceablePoint struct {
	KeyPoint KeyPoint `json:"key_point"`
	Callback string   `json:"callback"`
}

// ContextAnalyzer scans the transcript once at construction and caches all
// derived collections; the accessors are pure reads over that cache.
type ContextAnalyzer struct {
	entries        []TranscriptEntry
	keyPoints      []KeyPoint
	commitments    []Commitment
	concerns       []Concern
	contradictions []Contradiction
	topics         []string
}

// NewContextAnalyzer analyzes the transcript. A nil transcript is treated
// as empty. Internal analysis failures are caught and logged, keeping
// whatever partial results were computed.
func NewContextAnalyzer(transcript []TranscriptEntry) *ContextAnalyzer {
	a := &ContextAnalyzer{
		entries:        make([]TranscriptEntry, len(transcript)),
		keyPoints:      []KeyPoint{},
		commitments:    []Commitment{},
		concerns:       []Concern{},
		contradictions: []Contradiction{},
		topics:         []string{},
	}
	copy(a.entries, transcript)
	a.analyze()
	return a
}

func (a *ContextAnalyzer) analyze() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Context] analysis panic: %v, keeping partial results", r)
		}
	}()

	a.extractKeyPoints()
	a.extractCommitments()
	a.extractConcerns()
	a.detectContradictions()
	a.extractTopics()
}

func (a *ContextAnalyzer) extractKeyPoints() {
	for i, entry := range a.entries {
		score := importanceScore(entry.Content)
		if score < keyPointThreshold {
			continue
		}
		a.keyPoints = append(a.keyPoints, KeyPoint{
			TurnIndex:       i,
			Speaker:         entry.Speaker,
			Content:         entry.Content,
			ImportanceScore: score,
			Summary:         summarize(entry.Content),
		})
	}
	// Stable: ties keep transcript order.
	sort.SliceStable(a.keyPoints, func(i, j int) bool {
		return a.keyPoints[i].ImportanceScore > a.keyPoints[j].ImportanceScore
	})
}

// importanceScore is the weighted signal sum for a single turn.
func importanceScore(content string) int {
	lower := strings.ToLower(content)
	score := 0
	if hasDigit(lower) {
		score += weightDigit
	}
	if matchesAnyPhrase(lower, commitmentPatterns) {
		score += weightCommitment
	}
	if strings.Contains(content, "?") {
		score += weightQuestion
	}
	if matchesAnyPhrase(lower, concernPhrasePatterns) {
		score += weightConcern
	}
	if matchesAnyPhrase(lower, decisionPatterns) {
		score += weightDecision
	}
	if wordCount(content) > 30 {
		score += weightLongTurn
	}
	if hasSpecificityMarker(lower) {
		score += weightSpecificity
	}
	return score
}

func (a *ContextAnalyzer) extractCommitments() {
	for i, entry := range a.entries {
		if entry.Speaker != SpeakerUser {
			continue
		}
		if matchesAnyPhrase(strings.ToLower(entry.Content), commitmentPatterns) {
			a.commitments = append(a.commitments, Commitment{
				TurnIndex: i,
				Text:      entry.Content,
				Addressed: false,
				Summary:   summarize(entry.Content),
			})
		}
	}
}

func (a *ContextAnalyzer) extractConcerns() {
	for i, entry := range a.entries {
		if entry.Speaker != SpeakerPersona {
			continue
		}
		if matchesAnyPhrase(strings.ToLower(entry.Content), concernPhrasePatterns) {
			a.concerns = append(a.concerns, Concern{
				TurnIndex: i,
				Text:      entry.Content,
				Addressed: false,
				Summary:   summarize(entry.Content),
			})
		}
	}
}

// detectContradictions compares every pair of user turns. Quadratic over
// user-turn count, fine for bounded role-play conversations.
func (a *ContextAnalyzer) detectContradictions() {
	indices := userIndices(a.entries)
	sets := make([]map[string]bool, len(indices))
	for k, idx := range indices {
		sets[k] = wordSet(a.entries[idx].Content)
	}

	for x := 0; x < len(indices); x++ {
		for y := x + 1; y < len(indices); y++ {
			i, j := indices[x], indices[y]
			shared := sharedContentWords(sets[x], sets[y])
			if len(shared) < 2 {
				continue // topically unrelated — never a contradiction
			}

			first := a.entries[i].Content
			second := a.entries[j].Content

			if polarityOpposed(sets[x], sets[y]) {
				a.contradictions = append(a.contradictions, Contradiction{
					TurnIndex1:  i,
					TurnIndex2:  j,
					Description: fmt.Sprintf("turn %d and turn %d take opposite positions on the same topic", i, j),
					Summary1:    summarize(first),
					Summary2:    summarize(second),
				})
				continue
			}

			if n1, ok1 := firstNumber(first); ok1 {
				if n2, ok2 := firstNumber(second); ok2 {
					diff := n1 - n2
					if diff < 0 {
						diff = -diff
					}
					if n1 != 0 && diff > 0.5*n1 {
						a.contradictions = append(a.contradictions, Contradiction{
							TurnIndex1:  i,
							TurnIndex2:  j,
							Description: fmt.Sprintf("turn %d says %v but turn %d says %v for the same topic", i, n1, j, n2),
							Summary1:    summarize(first),
							Summary2:    summarize(second),
						})
					}
				}
			}
		}
	}
}

func (a *ContextAnalyzer) extractTopics() {
	seen := make(map[string]bool)
	for _, entry := range a.entries {
		for _, w := range words(entry.Content) {
			if len(w) <= 4 || contextStopwords[w] || seen[w] {
				continue
			}
			seen[w] = true
			a.topics = append(a.topics, w)
		}
	}
}

// KeyPoints returns turns with importance ≥3, sorted by non-increasing score.
func (a *ContextAnalyzer) KeyPoints() []KeyPoint {
	out := make([]KeyPoint, len(a.keyPoints))
	copy(out, a.keyPoints)
	return out
}

// Commitments returns the user's extracted commitments in transcript order.
func (a *ContextAnalyzer) Commitments() []Commitment {
	out := make([]Commitment, len(a.commitments))
	copy(out, a.commitments)
	return out
}

// Concerns returns persona-side worry statements in transcript order.
func (a *ContextAnalyzer) Concerns() []Concern {
	out := make([]Concern, len(a.concerns))
	copy(out, a.concerns)
	return out
}

// Contradictions returns conflicting user-turn pairs.
func (a *ContextAnalyzer) Contradictions() []Contradiction {
	out := make([]Contradiction, len(a.contradictions))
	copy(out, a.contradictions)
	return out
}

// Topics returns deduplicated discussed topics in first-seen order.
func (a *ContextAnalyzer) Topics() []string {
	out := make([]string, len(a.topics))
	copy(out, a.topics)
	return out
}

// ReferenceablePoints returns up to max key points from the last 10 turns
// or with importance ≥5, each wrapped in a randomly chosen callback
// phrasing. max ≤ 0 uses the default cap of 3.
func (a *ContextAnalyzer) ReferenceablePoints(max int) []ReferenceablePoint {
	if max <= 0 {
		max = defaultMaxReferences
	}

	var out []ReferenceablePoint
	cutoff := len(a.entries) - referenceWindow
	for _, kp := range a.keyPoints {
		if kp.TurnIndex < cutoff && kp.ImportanceScore < referenceMinScore {
			continue
		}
		out = append(out, ReferenceablePoint{
			KeyPoint: kp,
			Callback: fmt.Sprintf(pickCallbackTemplate(), topicSnippet(kp.Content)),
		})
		if len(out) == max {
			break
		}
	}
	return out
}

func pickCallbackTemplate() string {
	phraseRngMu.Lock()
	defer phraseRngMu.Unlock()
	return callbackTemplates[getPhraseRng().Intn(len(callbackTemplates))]
}

// topicSnippet shortens a turn to a phrase that reads naturally inside a
// callback sentence.
func topicSnippet(content string) string {
	snippet := strings.TrimRight(firstSentence(strings.TrimSpace(content)), ".!?")
	runes := []rune(snippet)
	if len(runes) > 60 {
		snippet = string(runes[:60]) + "..."
	}
	return "\"" + snippet + "\""
}

// Summary renders the context block for the instruction payload: top-3 key
// points, unaddressed commitments, all contradictions with turn citations,
// up to 5 topics, and fixed usage guidance. Empty when there is nothing to
// reference.
func (a *ContextAnalyzer) Summary() string {
	if len(a.keyPoints) == 0 && len(a.commitments) == 0 &&
		len(a.contradictions) == 0 && len(a.topics) == 0 {
		return ""
	}

	var b strings.Builder

	if len(a.keyPoints) > 0 {
		b.WriteString("Key discussion points so far:\n")
		top := a.keyPoints
		if len(top) > 3 {
			top = top[:3]
		}
		for _, kp := range top {
			fmt.Fprintf(&b, "- (turn %d, %s) %s\n", kp.TurnIndex, kp.Speaker, kp.Summary)
		}
	}

	var open []Commitment
	for _, c := range a.commitments {
		if !c.Addressed {
			open = append(open, c)
		}
	}
	if len(open) > 0 {
		b.WriteString("Commitments the user has made:\n")
		for _, c := range open {
			fmt.Fprintf(&b, "- (turn %d) %s\n", c.TurnIndex, c.Summary)
		}
	}

	if len(a.contradictions) > 0 {
		b.WriteString("Inconsistencies in what the user has said:\n")
		for _, c := range a.contradictions {
			fmt.Fprintf(&b, "- %s: \"%s\" vs \"%s\"\n", c.Description, c.Summary1, c.Summary2)
		}
	}

	if len(a.topics) > 0 {
		topics := a.topics
		if len(topics) > 5 {
			topics = topics[:5]
		}
		fmt.Fprintf(&b, "Topics discussed: %s\n", strings.Join(topics, ", "))
	}

	b.WriteString("Reference these naturally in conversation; never recite them as a list.")
	return b.String()
}
