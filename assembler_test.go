package roleplaysdk

import (
	"strings"
	"testing"

	"github.com/convoforge/roleplay-sdk-go/persona"
)

// ══════════════════════════════════════════════
// Instruction Assembler tests
// ══════════════════════════════════════════════

func newTestAssembler(t *testing.T) *InstructionAssembler {
	t.Helper()
	a, err := NewInstructionAssembler(
		&persona.PersonaProfile{
			Name:             "Dana",
			Role:             "VP of Engineering",
			PersonalityLabel: "skeptical",
			Concerns:         []string{"budget", "timeline"},
			Motivations:      []string{"ship without surprises"},
		},
		&persona.ScenarioContext{
			Title:       "Quarterly planning review",
			Situation:   "The user is pitching a platform migration.",
			Objective:   "Get approval for the migration plan.",
			Constraints: []string{"decision needed this week"},
		},
		DefaultAssemblerConfig(),
	)
	if err != nil {
		t.Fatalf("NewInstructionAssembler: %v", err)
	}
	return a
}

func TestAssemble_AlwaysProducesPayload(t *testing.T) {
	a := newTestAssembler(t)

	for _, transcript := range [][]TranscriptEntry{
		nil,
		{},
		{user("")},
		{user("I can deliver on time."), user("I can't deliver on time.")},
	} {
		payload := a.Assemble(transcript)
		if payload == nil {
			t.Fatal("payload must never be nil")
		}
		if payload.Text == "" {
			t.Fatal("payload text must never be empty")
		}
		if payload.State == "" {
			t.Fatal("payload must carry a state")
		}
	}
}

func TestAssemble_SectionOrder(t *testing.T) {
	a := newTestAssembler(t)
	payload := a.Assemble([]TranscriptEntry{
		user("I will fund the migration with 50 thousand."),
	})

	markers := []string{
		"You are Dana",
		"Speaking style",
		"Current emotional state",
		"What matters to you",
		"Phrases that fit your current mood",
		"Never do the following",
		"Stay fully in character",
	}
	last := -1
	for _, marker := range markers {
		idx := strings.Index(payload.Text, marker)
		if idx < 0 {
			t.Fatalf("missing section %q in:\n%s", marker, payload.Text)
		}
		if idx < last {
			t.Fatalf("section %q out of order", marker)
		}
		last = idx
	}
}

func TestAssemble_NilProfileFails(t *testing.T) {
	if _, err := NewInstructionAssembler(nil, &persona.ScenarioContext{}, DefaultAssemblerConfig()); err == nil {
		t.Fatal("expected error for nil persona")
	}
}

func TestAssemble_UnknownLabelStillProduces(t *testing.T) {
	a, err := NewInstructionAssembler(
		&persona.PersonaProfile{Name: "Dana", PersonalityLabel: "xyz"},
		&persona.ScenarioContext{},
		DefaultAssemblerConfig(),
	)
	if err != nil {
		t.Fatalf("NewInstructionAssembler: %v", err)
	}

	payload := a.Assemble(nil)
	if payload.Text == "" {
		t.Fatal("expected non-empty instructions for unknown label")
	}
	if len(payload.Failures) != 0 {
		t.Fatalf("unknown label is not a failure: %v", payload.Failures)
	}
	if !strings.Contains(payload.Text, "balanced") {
		t.Fatalf("expected balanced style, got:\n%s", payload.Text)
	}
}

func TestAssemble_StyleFallback(t *testing.T) {
	a := newTestAssembler(t)
	a.mapper = nil // simulate mapper failure

	payload := a.Assemble(nil)
	if payload.Text == "" {
		t.Fatal("payload must survive a style failure")
	}
	if !strings.Contains(payload.Text, "balanced, professional style") {
		t.Fatalf("expected style fallback text, got:\n%s", payload.Text)
	}
	if !containsString(payload.Failures, "style") {
		t.Fatalf("style failure not recorded: %v", payload.Failures)
	}
}

func TestAssemble_StateFallback(t *testing.T) {
	a := newTestAssembler(t)
	a.tracker = nil // simulate tracker failure

	payload := a.Assemble([]TranscriptEntry{user("hello")})
	if !strings.Contains(payload.Text, "neutral, professional demeanor") {
		t.Fatalf("expected state fallback text, got:\n%s", payload.Text)
	}
	if payload.State != StateNeutral {
		t.Fatalf("fallback state must be neutral, got %q", payload.State)
	}
	if !containsString(payload.Failures, "state") {
		t.Fatalf("state failure not recorded: %v", payload.Failures)
	}
}

func TestAssemble_ContextOmittedWhenEmpty(t *testing.T) {
	a := newTestAssembler(t)
	payload := a.Assemble(nil)

	if strings.Contains(payload.Text, "Key discussion points") {
		t.Fatalf("context section should be omitted for empty transcript:\n%s", payload.Text)
	}
}

func TestAssemble_ContextIncludedWhenPresent(t *testing.T) {
	a := newTestAssembler(t)
	payload := a.Assemble([]TranscriptEntry{
		user("I will fund the migration with 50 thousand."),
	})
	if !strings.Contains(payload.Text, "Key discussion points") {
		t.Fatalf("expected context section:\n%s", payload.Text)
	}
	if !strings.Contains(payload.Text, "Commitments the user has made") {
		t.Fatalf("expected commitment block:\n%s", payload.Text)
	}
}

func TestAssemble_LedgerCarried(t *testing.T) {
	a := newTestAssembler(t)
	payload := a.Assemble([]TranscriptEntry{
		user("The budget is approved and the budget line is funded."),
	})

	total := len(payload.Ledger.Addressed) + len(payload.Ledger.Unaddressed)
	if total != 2 {
		t.Fatalf("ledger must cover both concerns: %+v", payload.Ledger)
	}
	if !containsString(payload.Ledger.Addressed, "budget") {
		t.Fatalf("budget should be addressed: %+v", payload.Ledger)
	}
}

func TestAssemble_StatsCounted(t *testing.T) {
	a := newTestAssembler(t)
	a.Assemble(nil)
	a.Assemble(nil)

	if got := a.Stats().Assemblies.Load(); got != 2 {
		t.Fatalf("expected 2 assemblies, got %d", got)
	}
	if got := a.Stats().ComponentFails.Load(); got != 0 {
		t.Fatalf("expected no component failures, got %d", got)
	}
}

func TestAssemble_TracerAttached(t *testing.T) {
	var exported []*TracingSpan
	tracer := NewEngineTracer(&CallbackSpanExporter{
		Fn: func(span *TracingSpan) { exported = append(exported, span) },
	}, true)

	config := DefaultAssemblerConfig()
	config.Tracer = tracer
	a, err := NewInstructionAssembler(
		&persona.PersonaProfile{Name: "Dana", PersonalityLabel: "direct"},
		&persona.ScenarioContext{},
		config,
	)
	if err != nil {
		t.Fatalf("NewInstructionAssembler: %v", err)
	}

	a.Assemble(nil)
	if len(exported) != 1 {
		t.Fatalf("expected 1 root span, got %d", len(exported))
	}
	if exported[0].Kind != SpanKindAssembler {
		t.Fatalf("wrong span kind: %q", exported[0].Kind)
	}
}

func TestAssemble_ComponentSpansRecorded(t *testing.T) {
	var exported []*TracingSpan
	tracer := NewEngineTracer(&CallbackSpanExporter{
		Fn: func(span *TracingSpan) { exported = append(exported, span) },
	}, true)

	config := DefaultAssemblerConfig()
	config.Tracer = tracer
	a, err := NewInstructionAssembler(
		&persona.PersonaProfile{Name: "Dana", PersonalityLabel: "skeptical", Concerns: []string{"budget"}},
		&persona.ScenarioContext{Title: "Quarterly planning"},
		config,
	)
	if err != nil {
		t.Fatalf("NewInstructionAssembler: %v", err)
	}

	a.Assemble([]TranscriptEntry{
		user("I will fund the migration with 50 thousand."),
	})

	if len(exported) != 1 {
		t.Fatalf("expected 1 root span, got %d", len(exported))
	}
	root := exported[0]
	if root.Kind != SpanKindAssembler {
		t.Fatalf("root span kind = %q, want %q", root.Kind, SpanKindAssembler)
	}

	kinds := make(map[SpanKindType]bool)
	for _, child := range root.Children {
		kinds[child.Kind] = true
		if child.Status != "ok" {
			t.Fatalf("child %s finished with status %q", child.Name, child.Status)
		}
	}
	for _, want := range []SpanKindType{SpanKindAnalyzer, SpanKindTracker, SpanKindSampler} {
		if !kinds[want] {
			t.Fatalf("no %q child span recorded, got children %v", want, kinds)
		}
	}
}

func TestFragments_TextJoinsSections(t *testing.T) {
	f := NewInstructionFragments()
	if f.Text() != "" {
		t.Fatal("empty fragments should render empty text")
	}
	f.AddSection("one")
	f.AddSection("")
	f.AddSection("two")
	if f.Text() != "one\n\ntwo" {
		t.Fatalf("unexpected join: %q", f.Text())
	}
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
