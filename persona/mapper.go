package persona

import (
	"fmt"
	"log"
	"strings"
)

// ──────────────────────────────────────────────
// Personality Mapper — free-text label → stable style profile
// ──────────────────────────────────────────────

// knownTypes is the resolution order for label matching. Fixed order keeps
// substring resolution deterministic.
var knownTypes = []PersonalityType{
	TypeDirect, TypeCollaborative, TypeAnalytical,
	TypeCreative, TypeSupportive, TypeSkeptical,
}

// Mapper derives a StyleProfile from a PersonaProfile and renders the
// style section of the instruction payload. The derived profile is
// computed once and cached for the life of the Mapper.
type Mapper struct {
	profile  *PersonaProfile
	resolved PersonalityType
	style    *StyleProfile
}

// NewMapper creates a Mapper for the given persona.
// A nil persona is a caller bug and fails fast; an unrecognized
// personality label is a data-quality issue and falls back to balanced.
func NewMapper(profile *PersonaProfile) (*Mapper, error) {
	if profile == nil {
		return nil, fmt.Errorf("persona profile is required")
	}

	resolved := ResolveType(profile.PersonalityLabel)
	return &Mapper{
		profile:  profile,
		resolved: resolved,
		style:    builtinStyles[resolved],
	}, nil
}

// ResolveType normalizes a free-text personality label to a known type.
// Resolution: exact match → substring containment in either direction →
// balanced. Empty labels resolve to balanced without a warning.
func ResolveType(label string) PersonalityType {
	normalized := strings.ToLower(strings.TrimSpace(label))
	if normalized == "" {
		return TypeBalanced
	}

	for _, t := range knownTypes {
		if normalized == string(t) {
			return t
		}
	}

	// Substring containment: "analytical thinker" → analytical,
	// and a truncated label like "collab" still resolves.
	for _, t := range knownTypes {
		if strings.Contains(normalized, string(t)) || strings.Contains(string(t), normalized) {
			return t
		}
	}

	log.Printf("[Personality] unrecognized label %q, falling back to balanced", label)
	return TypeBalanced
}

// ResolvedType returns the normalized personality type.
func (m *Mapper) ResolvedType() PersonalityType {
	return m.resolved
}

// Style returns the derived style profile. Always non-nil.
func (m *Mapper) Style() *StyleProfile {
	return m.style
}

// ExamplePhrases returns the fixed few-shot phrases for the resolved type.
func (m *Mapper) ExamplePhrases() []string {
	phrases := builtinExamplePhrases[m.resolved]
	out := make([]string, len(phrases))
	copy(out, phrases)
	return out
}

// BuildStyleInstructions renders the style profile as deterministic prose
// for the instruction payload. No randomization: the same profile always
// produces the same text.
func (m *Mapper) BuildStyleInstructions() string {
	s := m.style
	var b strings.Builder

	fmt.Fprintf(&b, "Speaking style (%s personality):\n", m.resolved)
	fmt.Fprintf(&b, "- Sentence length: %s. %s\n", s.SentenceLength, sentenceLengthHint(s.SentenceLength))
	fmt.Fprintf(&b, "- Assertiveness: %s. %s\n", s.Assertiveness, assertivenessHint(s.Assertiveness))
	fmt.Fprintf(&b, "- Hedging: %s. %s\n", s.Hedging, hedgingHint(s.Hedging))
	fmt.Fprintf(&b, "- Questions: %s. %s\n", s.QuestionStyle, questionStyleHint(s.QuestionStyle))

	b.WriteString("Characteristic behavior:\n")
	for _, c := range s.Characteristics {
		fmt.Fprintf(&b, "- %s\n", c)
	}

	return strings.TrimRight(b.String(), "\n")
}

func sentenceLengthHint(length string) string {
	switch length {
	case "short":
		return "Keep sentences clipped, often under ten words."
	case "long":
		return "Use full, structured sentences that carry reasoning."
	case "varied":
		return "Mix short punchy lines with longer riffs."
	default:
		return "Use natural, conversational sentence lengths."
	}
}

func assertivenessHint(level string) string {
	switch level {
	case "high":
		return "State positions plainly and hold them under pushback."
	case "low":
		return "Offer views gently and defer when challenged hard."
	default:
		return "State positions clearly but stay open to persuasion."
	}
}

func hedgingHint(mode string) string {
	switch mode {
	case "minimal":
		return "Avoid qualifiers like \"maybe\" or \"I think\"."
	case "frequent":
		return "Soften statements with qualifiers and caveats."
	default:
		return "Qualify claims when genuinely uncertain, not by habit."
	}
}

func questionStyleHint(style string) string {
	switch style {
	case "pointed":
		return "Ask narrow questions that force a concrete answer."
	case "probing":
		return "Dig into how conclusions were reached."
	case "exploratory":
		return "Ask what-if questions that open new directions."
	case "clarifying":
		return "Ask to make sure you understood, not to challenge."
	case "challenging":
		return "Ask questions that test claims against evidence."
	default:
		return "Ask open questions that invite elaboration."
	}
}
