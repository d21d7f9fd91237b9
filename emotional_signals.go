package roleplaysdk

import (
	"fmt"
	"math"
	"strings"
)

// ──────────────────────────────────────────────
// Turn classification + transition policy — pure functions
// ──────────────────────────────────────────────

// turnSignals is the classified content of a single user turn.
type turnSignals struct {
	TurnIndex         int
	WordCount         int
	ConcernsAddressed []string // persona concerns this turn addressed
	HasSpecifics      bool
	HasEvidence       bool
	IsVague           bool
}

// classifyTurn derives signals from one user turn against the still
// unaddressed persona concerns.
func classifyTurn(content string, turnIndex int, unaddressed []string) turnSignals {
	sig := turnSignals{
		TurnIndex:    turnIndex,
		WordCount:    wordCount(content),
		HasSpecifics: hasSpecifics(content),
		HasEvidence:  hasEvidence(content),
	}

	turnWords := words(content)
	counts := make(map[string]int, len(turnWords))
	for _, w := range turnWords {
		counts[w]++
	}

	for _, concern := range unaddressed {
		hits := 0
		for _, kw := range words(concern) {
			hits += counts[kw]
		}
		// Two keyword hits, or one hit inside a substantial turn, counts
		// as engaging with the concern.
		if hits >= 2 || (hits >= 1 && sig.WordCount > 30) {
			sig.ConcernsAddressed = append(sig.ConcernsAddressed, concern)
		}
	}

	sig.IsVague = sig.WordCount < 15 && !sig.HasSpecifics
	return sig
}

// transition applies the priority-ordered policy to the classified turn.
// First matching rule wins; returns the new state, a short human-readable
// reason, and whether a transition happened.
func transition(current EmotionalState, sig turnSignals, addressedCount, totalConcerns, recordedTransitions, vagueStreak int) (EmotionalState, string, bool) {
	addressedThisTurn := len(sig.ConcernsAddressed)

	// 1. Most concerns addressed while already receptive → satisfied.
	if totalConcerns > 0 && addressedCount >= int(math.Ceil(0.6*float64(totalConcerns))) {
		if current == StateWarmingUp || current == StateCurious {
			return StateSatisfied, fmt.Sprintf("%d of %d concerns addressed", addressedCount, totalConcerns), true
		}
	}

	// 2. A concern addressed this turn softens negative states.
	if addressedThisTurn > 0 {
		reason := "addressed concern: " + strings.Join(sig.ConcernsAddressed, ", ")
		switch current {
		case StateSkeptical, StateConcerned, StateFrustrated:
			return StateWarmingUp, reason, true
		case StateNeutral:
			return StateCurious, reason, true
		}
	}

	// 3. Evidence draws interest from skeptical or neutral.
	if sig.HasEvidence && (current == StateSkeptical || current == StateNeutral) {
		return StateCurious, "user backed claims with evidence", true
	}

	// 4. Specifics alone draw interest from neutral or skeptical.
	if sig.HasSpecifics && (current == StateNeutral || current == StateSkeptical) {
		return StateCurious, "user gave specific details", true
	}

	// 5. Repeated vagueness erodes patience.
	if sig.IsVague && vagueStreak >= 2 {
		switch current {
		case StateConcerned, StateSkeptical:
			return StateFrustrated, fmt.Sprintf("%d vague answers in a row", vagueStreak), true
		case StateNeutral, StateCurious:
			return StateSkeptical, fmt.Sprintf("%d vague answers in a row", vagueStreak), true
		}
	}

	// 6. Concerns ignored deep into the conversation.
	if totalConcerns > 0 && addressedCount == 0 && recordedTransitions > 3 {
		switch current {
		case StateNeutral, StateCurious:
			return StateConcerned, "concerns still unaddressed", true
		case StateSkeptical, StateConcerned:
			return StateFrustrated, "concerns still unaddressed", true
		}
	}

	return current, "", false
}
