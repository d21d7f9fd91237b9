package persona

import (
	"strings"
	"testing"
)

// ══════════════════════════════════════════════
// Personality Mapper tests
// ══════════════════════════════════════════════

func TestResolveType_ExactMatch(t *testing.T) {
	for _, typ := range knownTypes {
		if got := ResolveType(string(typ)); got != typ {
			t.Fatalf("ResolveType(%q) = %q, want %q", typ, got, typ)
		}
	}
}

func TestResolveType_Normalization(t *testing.T) {
	if got := ResolveType("  Analytical  "); got != TypeAnalytical {
		t.Fatalf("expected analytical, got %q", got)
	}
	if got := ResolveType("SKEPTICAL"); got != TypeSkeptical {
		t.Fatalf("expected skeptical, got %q", got)
	}
}

func TestResolveType_Substring(t *testing.T) {
	if got := ResolveType("analytical thinker"); got != TypeAnalytical {
		t.Fatalf("expected analytical, got %q", got)
	}
	// Truncated label contained in a known type
	if got := ResolveType("collab"); got != TypeCollaborative {
		t.Fatalf("expected collaborative, got %q", got)
	}
}

func TestResolveType_FallbackToBalanced(t *testing.T) {
	for _, label := range []string{"", "xyz", "visionary dreamer", "!!!"} {
		if got := ResolveType(label); got != TypeBalanced {
			t.Fatalf("ResolveType(%q) = %q, want balanced", label, got)
		}
	}
}

func TestNewMapper_NilProfile(t *testing.T) {
	if _, err := NewMapper(nil); err == nil {
		t.Fatal("expected error for nil profile")
	}
}

func TestMapper_StyleAlwaysNonEmpty(t *testing.T) {
	labels := []string{"direct", "creative", "xyz", "", "analytical mind"}
	for _, label := range labels {
		m, err := NewMapper(&PersonaProfile{Name: "Dana", PersonalityLabel: label})
		if err != nil {
			t.Fatalf("NewMapper(%q): %v", label, err)
		}
		style := m.Style()
		if style == nil {
			t.Fatalf("nil style for label %q", label)
		}
		if len(style.Characteristics) == 0 {
			t.Fatalf("empty characteristics for label %q", label)
		}
	}
}

func TestMapper_UnknownLabelInstructions(t *testing.T) {
	m, err := NewMapper(&PersonaProfile{Name: "Dana", PersonalityLabel: "xyz"})
	if err != nil {
		t.Fatalf("NewMapper: %v", err)
	}
	if m.ResolvedType() != TypeBalanced {
		t.Fatalf("expected balanced, got %q", m.ResolvedType())
	}
	text := m.BuildStyleInstructions()
	if text == "" {
		t.Fatal("expected non-empty instructions for unknown label")
	}
	if !strings.Contains(text, "balanced") {
		t.Fatalf("instructions should name the resolved type, got:\n%s", text)
	}
}

func TestMapper_InstructionsDeterministic(t *testing.T) {
	m, err := NewMapper(&PersonaProfile{Name: "Dana", PersonalityLabel: "skeptical"})
	if err != nil {
		t.Fatalf("NewMapper: %v", err)
	}
	if m.BuildStyleInstructions() != m.BuildStyleInstructions() {
		t.Fatal("style instructions must be deterministic")
	}
}

func TestMapper_ExamplePhrasesCopied(t *testing.T) {
	m, err := NewMapper(&PersonaProfile{Name: "Dana", PersonalityLabel: "direct"})
	if err != nil {
		t.Fatalf("NewMapper: %v", err)
	}
	phrases := m.ExamplePhrases()
	if len(phrases) == 0 {
		t.Fatal("expected example phrases")
	}
	phrases[0] = "mutated"
	if m.ExamplePhrases()[0] == "mutated" {
		t.Fatal("ExamplePhrases must return a copy")
	}
}

// ══════════════════════════════════════════════
// Normalize tests
// ══════════════════════════════════════════════

func TestNormalize_NameRequired(t *testing.T) {
	if _, _, err := Normalize(nil); err == nil {
		t.Fatal("expected error for nil profile")
	}
	if _, _, err := Normalize(&PersonaProfile{Name: "   "}); err == nil {
		t.Fatal("expected error for blank name")
	}
}

func TestNormalize_RoleDefault(t *testing.T) {
	normalized, warnings, err := Normalize(&PersonaProfile{Name: "Dana"})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if normalized.Role != "stakeholder" {
		t.Fatalf("expected default role, got %q", normalized.Role)
	}
	if len(warnings) == 0 {
		t.Fatal("expected a warning for the defaulted role")
	}
}

func TestNormalize_ConcernsCapped(t *testing.T) {
	concerns := make([]string, 12)
	for i := range concerns {
		concerns[i] = "concern"
	}
	normalized, warnings, err := Normalize(&PersonaProfile{Name: "Dana", Concerns: concerns})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(normalized.Concerns) != 8 {
		t.Fatalf("expected 8 concerns, got %d", len(normalized.Concerns))
	}
	if len(warnings) == 0 {
		t.Fatal("expected a warning for capped concerns")
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	input := &PersonaProfile{Name: "Dana"}
	if _, _, err := Normalize(input); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if input.Role != "" {
		t.Fatal("Normalize must not mutate its input")
	}
}
