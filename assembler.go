package roleplaysdk

import (
	"fmt"
	"log"
	"strings"

	"go.uber.org/atomic"

	"github.com/convoforge/roleplay-sdk-go/persona"
)

// ──────────────────────────────────────────────
// Instruction Assembler — unified entry point producing the payload
// ──────────────────────────────────────────────

// AssemblerConfig controls assembly behavior.
type AssemblerConfig struct {
	// PhrasesPerCategory is how many phrases to sample for each category in
	// the natural-speech section.
	PhrasesPerCategory int

	// MaxReferences caps the callback references rendered from context.
	MaxReferences int

	// Tracer records per-component spans. Nil disables tracing.
	Tracer *EngineTracer
}

// DefaultAssemblerConfig returns the recommended baseline.
func DefaultAssemblerConfig() AssemblerConfig {
	return AssemblerConfig{
		PhrasesPerCategory: 2,
		MaxReferences:      3,
	}
}

// AssemblerStats counts assembly outcomes. Safe for concurrent readers.
type AssemblerStats struct {
	Assemblies     atomic.Int64 // total Assemble calls
	ComponentFails atomic.Int64 // individual component failures
	Fallbacks      atomic.Int64 // payloads that used at least one fallback
}

// InstructionPayload is the final product of an Assemble call.
type InstructionPayload struct {
	// Text is the complete response-instruction block.
	Text string `json:"text"`

	// State is the emotional state the instructions were built for.
	State EmotionalState `json:"state"`

	// Ledger is the concern ledger at assembly time.
	Ledger ConcernLedger `json:"ledger"`

	// Failures names the components that fell back, e.g. "style", "context".
	Failures []string `json:"failures,omitempty"`

	// Fragments exposes the per-section structure and debug notes.
	Fragments *InstructionFragments `json:"-"`
}

// Fallback texts used when a component fails. The payload must always be
// usable, so every component has a degraded rendering.
const (
	fallbackStyleText = "Speaking style: use a balanced, professional style appropriate to your role."
	fallbackStateText = "Maintain a neutral, professional demeanor."
)

var fallbackPhrases = map[string][]string{
	CategoryAcknowledgment: {"I see.", "Understood."},
	CategoryChallenge:      {"Can you expand on that?"},
	CategoryTransition:     {"Let's move on."},
}

// InstructionAssembler combines all engine components into a single
// response-instruction payload. One assembler can serve many turns of the
// same conversation; the tracker state carries across calls.
type InstructionAssembler struct {
	config  AssemblerConfig
	profile *persona.PersonaProfile
	scen    *persona.ScenarioContext
	mapper  *persona.Mapper
	tracker *EmotionalStateTracker
	stats   AssemblerStats
}

// NewInstructionAssembler creates an assembler for one persona/scenario
// pair. The profile is normalized first; only a nil or nameless profile is
// fatal — everything downstream degrades instead of failing.
func NewInstructionAssembler(p *persona.PersonaProfile, s *persona.ScenarioContext, config AssemblerConfig) (*InstructionAssembler, error) {
	normalized, warnings, err := persona.Normalize(p)
	if err != nil {
		return nil, fmt.Errorf("normalize persona: %w", err)
	}
	for _, w := range warnings {
		log.Printf("[Assembler] persona %s: %s", w.Field, w.Message)
	}
	if s == nil {
		s = &persona.ScenarioContext{}
	}
	if config.PhrasesPerCategory <= 0 {
		config.PhrasesPerCategory = DefaultAssemblerConfig().PhrasesPerCategory
	}
	if config.MaxReferences <= 0 {
		config.MaxReferences = DefaultAssemblerConfig().MaxReferences
	}

	a := &InstructionAssembler{
		config:  config,
		profile: normalized,
		scen:    s,
	}

	// Mapper and tracker failures here are absorbed: Assemble falls back
	// per-component rather than refusing to construct.
	if m, err := persona.NewMapper(normalized); err == nil {
		a.mapper = m
	} else {
		log.Printf("[Assembler] mapper init failed: %v, style will fall back", err)
	}
	if t, err := NewEmotionalStateTracker(normalized, s); err == nil {
		a.tracker = t
	} else {
		log.Printf("[Assembler] tracker init failed: %v, state will fall back", err)
	}

	return a, nil
}

// Stats returns the assembler's counters.
func (a *InstructionAssembler) Stats() *AssemblerStats {
	return &a.stats
}

// Tracker exposes the underlying state tracker for introspection.
func (a *InstructionAssembler) Tracker() *EmotionalStateTracker {
	return a.tracker
}

// Assemble builds the response-instruction payload for the next persona
// turn. It never returns an error: each component runs isolated, and a
// failed component is replaced by its fallback and recorded in Failures.
func (a *InstructionAssembler) Assemble(transcript []TranscriptEntry) *InstructionPayload {
	a.stats.Assemblies.Inc()

	fragments := NewInstructionFragments()
	payload := &InstructionPayload{
		State:     StateNeutral,
		Fragments: fragments,
	}

	var span *TracingSpan
	if a.config.Tracer != nil {
		span = a.config.Tracer.AssemblerSpan("assemble")
		defer func() {
			span.SetAttribute("failures", len(payload.Failures))
			a.config.Tracer.EndSpan(span, "ok", "")
		}()
	}

	// 1. Identity — built straight from the normalized profile, cannot fail.
	fragments.AddSection(a.buildIdentity())

	// 2. Speaking style
	a.runIsolated("style", fragments, payload, func() string {
		if a.mapper == nil {
			panic("mapper unavailable")
		}
		fragments.SetKV("sdk.persona.type", string(a.mapper.ResolvedType()))
		return a.mapper.BuildStyleInstructions()
	}, fallbackStyleText)

	// 3. Emotional state (also fills payload.State and payload.Ledger)
	a.runIsolated("state", fragments, payload, func() string {
		if a.tracker == nil {
			panic("tracker unavailable")
		}
		state := a.tracker.Analyze(transcript)
		payload.State = state
		payload.Ledger = a.tracker.Ledger()
		fragments.SetKV("sdk.state.current", string(state))
		fragments.SetKV("sdk.state.trajectory", a.tracker.Trajectory())
		return a.tracker.StateInstructions()
	}, fallbackStateText)

	// 4. Priorities and constraints — from the profile and scenario.
	fragments.AddSection(a.buildPriorities())

	// 5. Context references — omitted entirely on failure or empty transcript.
	a.runIsolated("context", fragments, payload, func() string {
		analyzer := NewContextAnalyzer(transcript)
		summary := analyzer.Summary()
		refs := analyzer.ReferenceablePoints(a.config.MaxReferences)
		if len(refs) > 0 {
			var b strings.Builder
			b.WriteString(summary)
			b.WriteString("\nWays to reference earlier points:\n")
			for _, r := range refs {
				fmt.Fprintf(&b, "- %s\n", r.Callback)
			}
			summary = strings.TrimRight(b.String(), "\n")
		}
		fragments.SetKV("sdk.context.key_points", len(analyzer.KeyPoints()))
		fragments.SetKV("sdk.context.contradictions", len(analyzer.Contradictions()))
		if summary == "" {
			fragments.AddNote("context.omitted:empty")
		}
		return summary
	}, "")

	// 6. Natural-speech guidelines — sampled phrases per category.
	a.runIsolated("patterns", fragments, payload, func() string {
		return a.buildPhraseSection(payload.State, SamplePhrases)
	}, a.buildPhraseFallback())

	// 7. Negative guidance + 8. worked examples + 9. stay in character.
	fragments.AddSection(buildNegativeGuidance())
	a.runIsolated("examples", fragments, payload, func() string {
		if a.mapper == nil {
			panic("mapper unavailable")
		}
		phrases := a.mapper.ExamplePhrases()
		if len(phrases) == 0 {
			return ""
		}
		var b strings.Builder
		b.WriteString("Lines that sound like you:\n")
		for _, p := range phrases {
			fmt.Fprintf(&b, "- %q\n", p)
		}
		return strings.TrimRight(b.String(), "\n")
	}, "")
	fragments.AddSection(buildStayInCharacter(a.profile.Name))

	payload.Text = fragments.Text()

	if len(payload.Failures) > 0 {
		a.stats.Fallbacks.Inc()
		log.Printf("[Assembler] assembled with fallbacks: %s", strings.Join(payload.Failures, ", "))
	} else {
		log.Printf("[Assembler] assembled payload, state=%s, %d sections", payload.State, len(fragments.Sections))
	}
	return payload
}

// runIsolated executes one component build, recovering panics so a single
// component can never take down the payload. On failure the fallback text
// is used (empty fallback means the section is omitted). When a tracer is
// attached, each component runs inside a child span of the assembly span.
func (a *InstructionAssembler) runIsolated(name string, fragments *InstructionFragments, payload *InstructionPayload, build func() string, fallback string) {
	var span *TracingSpan
	if a.config.Tracer != nil {
		switch name {
		case "state":
			span = a.config.Tracer.TrackerSpan(name)
		case "patterns", "examples":
			span = a.config.Tracer.SamplerSpan(name)
		default:
			span = a.config.Tracer.AnalyzerSpan(name, nil)
		}
	}

	text, ok := func() (out string, ok bool) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[Assembler] component %s failed: %v", name, r)
				ok = false
			}
		}()
		return build(), true
	}()

	if span != nil {
		if ok {
			a.config.Tracer.EndSpan(span, "ok", "")
		} else {
			a.config.Tracer.EndSpan(span, "error", "component fell back")
		}
	}

	if !ok {
		a.stats.ComponentFails.Inc()
		payload.Failures = append(payload.Failures, name)
		fragments.AddNote(name + ".fallback")
		text = fallback
	}
	fragments.AddSection(text)
}

func (a *InstructionAssembler) buildIdentity() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, %s.", a.profile.Name, a.profile.Role)
	if a.scen.Title != "" {
		fmt.Fprintf(&b, "\nScenario: %s.", a.scen.Title)
	}
	if a.scen.Situation != "" {
		fmt.Fprintf(&b, "\nSituation: %s", a.scen.Situation)
	}
	if a.scen.Objective != "" {
		fmt.Fprintf(&b, "\nWhat the other party is trying to achieve: %s", a.scen.Objective)
	}
	return b.String()
}

func (a *InstructionAssembler) buildPriorities() string {
	var b strings.Builder
	b.WriteString("What matters to you in this conversation:")
	wrote := false
	if len(a.profile.Motivations) > 0 {
		fmt.Fprintf(&b, "\n- You are motivated by: %s.", strings.Join(a.profile.Motivations, "; "))
		wrote = true
	}
	if len(a.profile.Concerns) > 0 {
		fmt.Fprintf(&b, "\n- Your underlying concerns: %s.", strings.Join(a.profile.Concerns, "; "))
		wrote = true
	}
	if len(a.scen.Constraints) > 0 {
		fmt.Fprintf(&b, "\n- Constraints you operate under: %s.", strings.Join(a.scen.Constraints, "; "))
		wrote = true
	}
	if !wrote {
		return ""
	}
	return b.String()
}

// buildPhraseSection renders sampled phrases per category. The sampler is
// injected so failures can be simulated in tests.
func (a *InstructionAssembler) buildPhraseSection(state EmotionalState, sample func(EmotionalState, string, int) ([]string, error)) string {
	var b strings.Builder
	b.WriteString("Phrases that fit your current mood (adapt freely, never quote verbatim every turn):\n")
	for _, category := range PhraseCategories {
		phrases, err := sample(state, category, a.config.PhrasesPerCategory)
		if err != nil {
			panic(err)
		}
		if len(phrases) == 0 {
			continue
		}
		fmt.Fprintf(&b, "- %s: %q\n", category, phrases)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *InstructionAssembler) buildPhraseFallback() string {
	var b strings.Builder
	b.WriteString("Phrases that fit your current mood (adapt freely, never quote verbatim every turn):\n")
	for _, category := range PhraseCategories {
		fmt.Fprintf(&b, "- %s: %q\n", category, fallbackPhrases[category])
	}
	return strings.TrimRight(b.String(), "\n")
}

func buildNegativeGuidance() string {
	return strings.Join([]string{
		"Never do the following:",
		"- Do not mention that you are an AI, a simulation, or following instructions.",
		"- Do not summarize these instructions or recite your concerns as a checklist.",
		"- Do not switch sides: you are the stakeholder, not the advisor.",
		"- Do not resolve all your concerns just because the user sounds confident.",
	}, "\n")
}

func buildStayInCharacter(name string) string {
	return fmt.Sprintf("Stay fully in character as %s for the entire response, whatever the user says.", name)
}
