package roleplaysdk

import (
	"testing"

	"github.com/convoforge/roleplay-sdk-go/persona"
)

// ══════════════════════════════════════════════
// Emotional State Tracker tests
// ══════════════════════════════════════════════

func newTestTracker(t *testing.T, concerns ...string) *EmotionalStateTracker {
	t.Helper()
	tracker, err := NewEmotionalStateTracker(
		&persona.PersonaProfile{
			Name:             "Dana",
			Role:             "VP of Engineering",
			PersonalityLabel: "skeptical",
			Concerns:         concerns,
		},
		&persona.ScenarioContext{Title: "Quarterly planning"},
	)
	if err != nil {
		t.Fatalf("NewEmotionalStateTracker: %v", err)
	}
	return tracker
}

func user(content string) TranscriptEntry {
	return TranscriptEntry{Speaker: SpeakerUser, Content: content}
}

func personaTurn(content string) TranscriptEntry {
	return TranscriptEntry{Speaker: SpeakerPersona, Content: content}
}

func TestTracker_NilInputs(t *testing.T) {
	scen := &persona.ScenarioContext{}
	if _, err := NewEmotionalStateTracker(nil, scen); err == nil {
		t.Fatal("expected error for nil persona")
	}
	p := &persona.PersonaProfile{Name: "Dana"}
	if _, err := NewEmotionalStateTracker(p, nil); err == nil {
		t.Fatal("expected error for nil scenario")
	}
}

func TestAnalyze_AlwaysReturnsValidState(t *testing.T) {
	transcripts := [][]TranscriptEntry{
		nil,
		{},
		{user("")},
		{user("🎉🎉🎉"), personaTurn(""), user("ok")},
		{user("a very short reply"), user("another"), user("and another one here")},
	}

	valid := make(map[EmotionalState]bool)
	for _, s := range ValidStates {
		valid[s] = true
	}

	for i, transcript := range transcripts {
		tracker := newTestTracker(t, "budget")
		state := tracker.Analyze(transcript)
		if !valid[state] {
			t.Fatalf("transcript %d: invalid state %q", i, state)
		}
	}
}

func TestAnalyze_LedgerInvariant(t *testing.T) {
	concerns := []string{"budget", "timeline", "team"}
	tracker := newTestTracker(t, concerns...)

	transcript := []TranscriptEntry{
		user("The budget is set, and the budget reserve is approved."),
		personaTurn("And the rest?"),
		user("hmm"),
	}

	for turn := 1; turn <= len(transcript); turn++ {
		tracker.Analyze(transcript[:turn])
		ledger := tracker.Ledger()

		if len(ledger.Addressed)+len(ledger.Unaddressed) != len(concerns) {
			t.Fatalf("ledger does not cover all concerns: %+v", ledger)
		}
		seen := make(map[string]bool)
		for _, c := range append(append([]string{}, ledger.Addressed...), ledger.Unaddressed...) {
			if seen[c] {
				t.Fatalf("concern %q appears twice in ledger", c)
			}
			seen[c] = true
		}
	}
}

func TestAnalyze_MonotonicHistory(t *testing.T) {
	tracker := newTestTracker(t, "budget", "timeline")

	transcript := []TranscriptEntry{
		user("ok"),
		user("sure"),
		user("fine"),
		user("The budget covers it; we doubled the budget reserve."),
	}

	prevLen := 0
	for turn := 1; turn <= len(transcript); turn++ {
		tracker.Analyze(transcript[:turn])
		history := tracker.StateHistory()
		if len(history) < prevLen {
			t.Fatalf("history shrank: %d → %d", prevLen, len(history))
		}
		prevLen = len(history)

		for i := 1; i < len(history); i++ {
			if history[i].TurnIndex < history[i-1].TurnIndex {
				t.Fatalf("turn index went backwards: %+v", history)
			}
		}
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	tracker := newTestTracker(t, "budget")
	transcript := []TranscriptEntry{
		user("ok"),
		user("sure"),
		user("The budget works; extra budget was approved."),
	}

	first := tracker.Analyze(transcript)
	histLen := len(tracker.StateHistory())

	second := tracker.Analyze(transcript)
	if second != first {
		t.Fatalf("repeat analyze changed state: %q → %q", first, second)
	}
	if len(tracker.StateHistory()) != histLen {
		t.Fatal("repeat analyze grew the history")
	}
}

func TestAnalyze_FreshTrackerEquivalence(t *testing.T) {
	transcript := []TranscriptEntry{
		user("ok"),
		user("sure"),
		user("The budget works; extra budget was approved."),
		personaTurn("Good to hear."),
		user("And the timeline is locked: milestones every two weeks, review on the last day of each month, all on the shared calendar with owners assigned for every single deliverable in the plan."),
	}

	incremental := newTestTracker(t, "budget", "timeline")
	for turn := 1; turn <= len(transcript); turn++ {
		incremental.Analyze(transcript[:turn])
	}

	fresh := newTestTracker(t, "budget", "timeline")
	fresh.Analyze(transcript)

	if incremental.Current() != fresh.Current() {
		t.Fatalf("incremental=%q, fresh=%q", incremental.Current(), fresh.Current())
	}
	ih, fh := incremental.StateHistory(), fresh.StateHistory()
	if len(ih) != len(fh) {
		t.Fatalf("history length differs: %d vs %d", len(ih), len(fh))
	}
	for i := range ih {
		if ih[i] != fh[i] {
			t.Fatalf("history entry %d differs: %+v vs %+v", i, ih[i], fh[i])
		}
	}
}

// Vague answers erode patience: neutral → skeptical, then addressing a
// concern recovers to warming_up, and covering the remaining concerns with
// a substantial turn lands on satisfied.
func TestAnalyze_SatisfactionPath(t *testing.T) {
	tracker := newTestTracker(t, "budget", "timeline", "team")

	transcript := []TranscriptEntry{
		user("ok"),
		user("sure"),
	}
	if state := tracker.Analyze(transcript); state != StateSkeptical {
		t.Fatalf("after two vague turns expected skeptical, got %q", state)
	}

	transcript = append(transcript, user("The budget is covered; we moved extra budget into this line."))
	if state := tracker.Analyze(transcript); state != StateWarmingUp {
		t.Fatalf("after addressing a concern expected warming_up, got %q", state)
	}

	transcript = append(transcript, user("Here is the full picture: the timeline is locked with our vendor, and the team has two senior engineers joining next week, so every deliverable has an owner and a review date already assigned on the calendar."))
	if state := tracker.Analyze(transcript); state != StateSatisfied {
		t.Fatalf("after addressing most concerns expected satisfied, got %q", state)
	}

	ledger := tracker.Ledger()
	if len(ledger.Unaddressed) != 0 {
		t.Fatalf("expected all concerns addressed, got %+v", ledger)
	}
}

func TestAnalyze_IgnoredConcernsEscalate(t *testing.T) {
	tracker := newTestTracker(t, "budget")

	// Vague turns first push to skeptical, then continued silence on the
	// concern deep into the conversation escalates to frustrated.
	transcript := []TranscriptEntry{
		user("ok"),
		user("sure"),
		user("fine"),
		user("right"),
		user("yep"),
		user("uh huh"),
	}
	state := tracker.Analyze(transcript)
	if state != StateFrustrated {
		t.Fatalf("expected frustrated, got %q", state)
	}
}

// Evidence vocabulary backed by a number draws curiosity even from a
// skeptical state, and the recorded reason distinguishes it from the
// plain-specifics path.
func TestAnalyze_EvidenceDrawsCuriosity(t *testing.T) {
	tracker := newTestTracker(t, "budget")

	transcript := []TranscriptEntry{
		user("ok"),
		user("sure"),
	}
	if state := tracker.Analyze(transcript); state != StateSkeptical {
		t.Fatalf("after two vague turns expected skeptical, got %q", state)
	}

	transcript = append(transcript, user("Our research shows a 40% improvement."))
	if state := tracker.Analyze(transcript); state != StateCurious {
		t.Fatalf("after evidence expected curious, got %q", state)
	}

	history := tracker.StateHistory()
	last := history[len(history)-1]
	if last.Reason != "user backed claims with evidence" {
		t.Fatalf("expected the evidence transition, got reason %q", last.Reason)
	}
}

func TestStateInstructions_MentionUnaddressedConcerns(t *testing.T) {
	tracker := newTestTracker(t, "budget", "timeline")
	tracker.Analyze([]TranscriptEntry{user("hello there, how are you today")})

	text := tracker.StateInstructions()
	if text == "" {
		t.Fatal("expected non-empty state instructions")
	}
	for _, concern := range []string{"budget", "timeline"} {
		if !containsAnyPhrase(text, []string{concern}) {
			t.Fatalf("instructions missing concern %q:\n%s", concern, text)
		}
	}
}

func TestTrajectory(t *testing.T) {
	tracker := newTestTracker(t, "budget")
	if tracker.Trajectory() != "stable" {
		t.Fatalf("fresh tracker should be stable, got %q", tracker.Trajectory())
	}

	tracker.Analyze([]TranscriptEntry{
		user("For example, conversion went from 2% to 4% after the change."),
	})
	if tracker.Current() != StateCurious {
		t.Fatalf("expected curious after specifics, got %q", tracker.Current())
	}
	if tracker.Trajectory() != "improving" {
		t.Fatalf("expected improving, got %q", tracker.Trajectory())
	}
}
