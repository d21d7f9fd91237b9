package roleplaysdk

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// ──────────────────────────────────────────────
// Pattern Library — phrase sets keyed by emotional state and category
// ──────────────────────────────────────────────

// Phrase categories.
const (
	CategoryAcknowledgment = "acknowledgment" // reacting to what the user said
	CategoryChallenge      = "challenge"      // pushing back or probing
	CategoryTransition     = "transition"     // steering the conversation
)

// PhraseCategories lists the supported categories in render order.
var PhraseCategories = []string{CategoryAcknowledgment, CategoryChallenge, CategoryTransition}

var (
	phraseRngOnce sync.Once
	phraseRng     *rand.Rand
	phraseRngMu   sync.Mutex
)

func getPhraseRng() *rand.Rand {
	phraseRngOnce.Do(func() {
		phraseRng = rand.New(rand.NewSource(time.Now().UnixNano()))
	})
	return phraseRng
}

// phraseLibrary is immutable read-only data; sampling always copies before
// drawing so the catalogue is never reordered.
var phraseLibrary = map[EmotionalState]map[string][]string{
	StateNeutral: {
		CategoryAcknowledgment: {
			"Okay, I follow.",
			"Understood. Go on.",
			"Right, that's clear enough.",
			"Noted.",
		},
		CategoryChallenge: {
			"What does that mean in practice?",
			"How does that affect us specifically?",
			"Is that your view or the team's?",
		},
		CategoryTransition: {
			"Let's move to the next item.",
			"Before we go further, one thing.",
			"Setting that aside for a moment.",
		},
	},
	StateSkeptical: {
		CategoryAcknowledgment: {
			"I hear you, but I'm not convinced yet.",
			"That's what was said last time, too.",
			"Mm. On paper, maybe.",
		},
		CategoryChallenge: {
			"What's actually backing that up?",
			"And if that assumption is wrong?",
			"Who has done this successfully before?",
			"That sounds optimistic. Walk me through it.",
		},
		CategoryTransition: {
			"Let's get concrete for a minute.",
			"Put the slides aside — what's the real state of things?",
			"Before anything else, I need the numbers.",
		},
	},
	StateCurious: {
		CategoryAcknowledgment: {
			"Now that's interesting.",
			"Huh, I hadn't looked at it that way.",
			"Okay, you've got my attention.",
		},
		CategoryChallenge: {
			"How far could we actually take that?",
			"What happens if we double down on it?",
			"Where did that idea come from?",
		},
		CategoryTransition: {
			"Tell me more about that part.",
			"Let's dig into that for a minute.",
			"Come back to that point — I want details.",
		},
	},
	StateWarmingUp: {
		CategoryAcknowledgment: {
			"That's a fair answer, honestly.",
			"Good — that's the kind of detail I needed.",
			"Okay, that does address my point.",
		},
		CategoryChallenge: {
			"One thing I'd still want nailed down.",
			"Almost there — what about the edge cases?",
			"I'm close. Convince me on the last piece.",
		},
		CategoryTransition: {
			"Alright, let's talk about how this would work.",
			"So assuming we did this, what's first?",
			"Let's sketch the plan, then.",
		},
	},
	StateConcerned: {
		CategoryAcknowledgment: {
			"I hear that, but it's not my main worry.",
			"Sure, though we keep skirting the real issue.",
			"Okay — but that's not what I asked about.",
		},
		CategoryChallenge: {
			"We still haven't talked about the part that worries me.",
			"What's the plan when this goes sideways?",
			"Who owns it when this slips?",
		},
		CategoryTransition: {
			"I need us to come back to the risks.",
			"Can we talk about the part nobody's mentioned yet?",
			"Before we move on — the open issues.",
		},
	},
	StateFrustrated: {
		CategoryAcknowledgment: {
			"We're going in circles.",
			"That's not an answer.",
			"I've heard this part already.",
		},
		CategoryChallenge: {
			"Give me one concrete commitment. Just one.",
			"Yes or no — can it be done?",
			"What exactly will be different this time?",
		},
		CategoryTransition: {
			"Let's stop here and get to the point.",
			"I have ten more minutes. Make them count.",
			"Cut to the part that matters.",
		},
	},
	StateSatisfied: {
		CategoryAcknowledgment: {
			"That settles it for me.",
			"Good. That's exactly what I needed to hear.",
			"I'm comfortable with that.",
		},
		CategoryChallenge: {
			"Last sanity check — anything you're still unsure about?",
			"What would make you come back to me early?",
		},
		CategoryTransition: {
			"Alright, let's lock it in.",
			"So — next steps.",
			"Send me the summary and let's get moving.",
		},
	},
}

// SamplePhrases returns up to n phrases for the given state and category,
// sampled without replacement from a local copy of the set. Unknown state
// or category returns an error so callers can substitute a fallback.
func SamplePhrases(state EmotionalState, category string, n int) ([]string, error) {
	byCategory, ok := phraseLibrary[state]
	if !ok {
		return nil, fmt.Errorf("unknown emotional state %q", state)
	}
	phrases, ok := byCategory[category]
	if !ok {
		return nil, fmt.Errorf("unknown phrase category %q", category)
	}
	if n <= 0 {
		return []string{}, nil
	}

	// Draw from a local copy so the library itself is never reordered.
	pool := make([]string, len(phrases))
	copy(pool, phrases)

	if n > len(pool) {
		n = len(pool)
	}

	phraseRngMu.Lock()
	rng := getPhraseRng()
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	phraseRngMu.Unlock()

	return pool[:n], nil
}
