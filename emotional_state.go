package roleplaysdk

import (
	"fmt"
	"log"
	"strings"

	"github.com/convoforge/roleplay-sdk-go/persona"
)

// ──────────────────────────────────────────────
// Emotional State Tracker — 7-state machine over the transcript
// ──────────────────────────────────────────────

// EmotionalState is the persona's current emotional disposition.
type EmotionalState string

const (
	StateNeutral    EmotionalState = "neutral"
	StateSkeptical  EmotionalState = "skeptical"
	StateCurious    EmotionalState = "curious"
	StateWarmingUp  EmotionalState = "warming_up"
	StateConcerned  EmotionalState = "concerned"
	StateFrustrated EmotionalState = "frustrated"
	StateSatisfied  EmotionalState = "satisfied"
)

// ValidStates lists the 7 states in positivity order (lowest first).
var ValidStates = []EmotionalState{
	StateFrustrated, StateConcerned, StateSkeptical, StateNeutral,
	StateCurious, StateWarmingUp, StateSatisfied,
}

// statePositivity ranks states for trajectory comparison.
var statePositivity = map[EmotionalState]int{
	StateFrustrated: 1,
	StateConcerned:  2,
	StateSkeptical:  3,
	StateNeutral:    4,
	StateCurious:    5,
	StateWarmingUp:  6,
	StateSatisfied:  7,
}

// stateProfiles hold the tone guidance rendered into instructions.
var stateProfiles = map[EmotionalState]struct {
	Description string
	ToneMarkers []string
}{
	StateNeutral: {
		Description: "You are professionally neutral: attentive, measured, neither won over nor put off.",
		ToneMarkers: []string{"even tone", "polite but reserved", "no strong reactions"},
	},
	StateSkeptical: {
		Description: "You are skeptical: you doubt what you are hearing and want proof before moving on.",
		ToneMarkers: []string{"questioning", "slightly guarded", "asks for evidence"},
	},
	StateCurious: {
		Description: "You are curious: something caught your interest and you want to hear more.",
		ToneMarkers: []string{"engaged", "leaning in", "follow-up questions"},
	},
	StateWarmingUp: {
		Description: "You are warming up: your doubts are easing and you are starting to cooperate.",
		ToneMarkers: []string{"friendlier", "more open", "acknowledges good points"},
	},
	StateConcerned: {
		Description: "You are concerned: important issues feel ignored and it is starting to show.",
		ToneMarkers: []string{"serious", "steers back to the issues", "less patience for small talk"},
	},
	StateFrustrated: {
		Description: "You are frustrated: the conversation is not addressing what matters to you.",
		ToneMarkers: []string{"short sentences", "audible impatience", "interrupts politely"},
	},
	StateSatisfied: {
		Description: "You are satisfied: your main concerns were addressed and you are ready to move forward.",
		ToneMarkers: []string{"warm", "constructive", "talks about next steps"},
	},
}

// StateHistoryEntry records one transition.
type StateHistoryEntry struct {
	State     EmotionalState `json:"state"`
	TurnIndex int            `json:"turn_index"`
	Reason    string         `json:"reason"`
}

// ConcernLedger partitions the persona's declared concerns.
// Addressed and Unaddressed are always disjoint and together cover the
// full declared list.
type ConcernLedger struct {
	Addressed   []string `json:"addressed"`
	Unaddressed []string `json:"unaddressed"`
}

// EmotionalStateTracker ingests the transcript and tracks the persona's
// evolving emotional state plus the concern ledger.
//
// Analyze replays turns it has not seen yet, so a fresh tracker fed the
// full transcript derives the same state as one carried across turns, and
// repeated calls on the same transcript are no-ops.
type EmotionalStateTracker struct {
	persona  *persona.PersonaProfile
	scenario *persona.ScenarioContext

	current     EmotionalState
	history     []StateHistoryEntry
	addressed   map[string]bool // concern → addressed
	vagueStreak int
	analyzed    int // transcript entries already processed
}

// NewEmotionalStateTracker creates a tracker. Both persona and scenario
// are required; nil inputs indicate a caller bug and fail fast.
func NewEmotionalStateTracker(p *persona.PersonaProfile, s *persona.ScenarioContext) (*EmotionalStateTracker, error) {
	if p == nil {
		return nil, fmt.Errorf("persona profile is required")
	}
	if s == nil {
		return nil, fmt.Errorf("scenario context is required")
	}

	t := &EmotionalStateTracker{
		persona:   p,
		scenario:  s,
		current:   StateNeutral,
		addressed: make(map[string]bool, len(p.Concerns)),
	}
	for _, c := range p.Concerns {
		t.addressed[c] = false
	}
	t.history = append(t.history, StateHistoryEntry{
		State:     StateNeutral,
		TurnIndex: 0,
		Reason:    "conversation start",
	})
	return t, nil
}

// Analyze processes the transcript and returns the current state.
// It never fails: internal panics are recovered and the state degrades to
// neutral so the conversation can continue.
func (t *EmotionalStateTracker) Analyze(transcript []TranscriptEntry) (state EmotionalState) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[StateTracker] analysis panic: %v, defaulting to neutral", r)
			t.current = StateNeutral
			state = StateNeutral
		}
	}()

	if len(transcript) <= t.analyzed {
		return t.current
	}

	for i := t.analyzed; i < len(transcript); i++ {
		if transcript[i].Speaker != SpeakerUser {
			continue
		}
		t.processUserTurn(i, transcript[i].Content)
	}
	t.analyzed = len(transcript)

	return t.current
}

func (t *EmotionalStateTracker) processUserTurn(turnIndex int, content string) {
	sig := classifyTurn(content, turnIndex, t.unaddressedList())

	for _, concern := range sig.ConcernsAddressed {
		t.addressed[concern] = true
	}

	if sig.IsVague {
		t.vagueStreak++
	} else {
		t.vagueStreak = 0
	}

	next, reason, changed := transition(
		t.current, sig,
		t.addressedCount(), len(t.persona.Concerns),
		len(t.history), t.vagueStreak,
	)
	if changed && next != t.current {
		t.current = next
		t.history = append(t.history, StateHistoryEntry{
			State:     next,
			TurnIndex: turnIndex,
			Reason:    reason,
		})
	}
}

// Current returns the current emotional state.
func (t *EmotionalStateTracker) Current() EmotionalState {
	return t.current
}

// StateHistory returns a copy of the transition history. The history is
// monotonically growing and never rewritten.
func (t *EmotionalStateTracker) StateHistory() []StateHistoryEntry {
	out := make([]StateHistoryEntry, len(t.history))
	copy(out, t.history)
	return out
}

// Ledger returns the concern ledger in declared-concern order.
func (t *EmotionalStateTracker) Ledger() ConcernLedger {
	ledger := ConcernLedger{
		Addressed:   []string{},
		Unaddressed: []string{},
	}
	for _, c := range t.persona.Concerns {
		if t.addressed[c] {
			ledger.Addressed = append(ledger.Addressed, c)
		} else {
			ledger.Unaddressed = append(ledger.Unaddressed, c)
		}
	}
	return ledger
}

// StateInstructions renders deterministic prose combining the current
// state's tone guidance with the concern ledger.
func (t *EmotionalStateTracker) StateInstructions() string {
	profile := stateProfiles[t.current]
	var b strings.Builder

	fmt.Fprintf(&b, "Current emotional state: %s.\n", t.current)
	b.WriteString(profile.Description)
	b.WriteString("\nTone: ")
	b.WriteString(strings.Join(profile.ToneMarkers, "; "))
	b.WriteString(".")

	ledger := t.Ledger()
	if len(ledger.Unaddressed) > 0 {
		b.WriteString("\nConcerns not yet addressed — surface these naturally rather than listing them: ")
		b.WriteString(strings.Join(ledger.Unaddressed, ", "))
		b.WriteString(".")
	}
	if len(ledger.Addressed) > 0 {
		b.WriteString("\nConcerns already addressed — you may acknowledge these if it fits: ")
		b.WriteString(strings.Join(ledger.Addressed, ", "))
		b.WriteString(".")
	}

	return b.String()
}

// Trajectory reports improving/declining/stable from the net positivity
// change across the last three recorded states. Introspection only; never
// rendered into instruction text.
func (t *EmotionalStateTracker) Trajectory() string {
	if len(t.history) < 2 {
		return "stable"
	}
	window := t.history
	if len(window) > 3 {
		window = window[len(window)-3:]
	}
	net := statePositivity[window[len(window)-1].State] - statePositivity[window[0].State]
	switch {
	case net > 0:
		return "improving"
	case net < 0:
		return "declining"
	default:
		return "stable"
	}
}

func (t *EmotionalStateTracker) unaddressedList() []string {
	var out []string
	for _, c := range t.persona.Concerns {
		if !t.addressed[c] {
			out = append(out, c)
		}
	}
	return out
}

func (t *EmotionalStateTracker) addressedCount() int {
	n := 0
	for _, done := range t.addressed {
		if done {
			n++
		}
	}
	return n
}
