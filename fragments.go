package roleplaysdk

import "strings"

// ──────────────────────────────────────────────
// InstructionFragments — structured output of the assembly pipeline
// ──────────────────────────────────────────────

// InstructionFragments collects the instruction sections plus structured
// metadata produced while assembling a response-instruction payload.
type InstructionFragments struct {
	// Sections holds the instruction blocks in render order.
	// Joined with "\n\n" when calling Text().
	Sections []string

	// KV holds structured metadata with sdk.* namespaced keys.
	// Callers can read these without parsing instruction text.
	KV map[string]interface{}

	// Notes records per-component decisions and fallbacks for debugging
	// (never injected into the instruction text).
	// Examples: "style.fallback:mapper_error", "context.omitted:empty"
	Notes []string
}

// NewInstructionFragments creates an empty InstructionFragments.
func NewInstructionFragments() *InstructionFragments {
	return &InstructionFragments{
		KV: make(map[string]interface{}),
	}
}

// Text returns all sections joined as a single instruction string.
func (f *InstructionFragments) Text() string {
	if len(f.Sections) == 0 {
		return ""
	}
	return strings.Join(f.Sections, "\n\n")
}

// AddSection appends an instruction block. Empty blocks are skipped so
// omitted components leave no blank gaps.
func (f *InstructionFragments) AddSection(text string) {
	if text != "" {
		f.Sections = append(f.Sections, text)
	}
}

// AddNote records a debug message.
func (f *InstructionFragments) AddNote(msg string) {
	f.Notes = append(f.Notes, msg)
}

// SetKV sets a namespaced key-value pair.
func (f *InstructionFragments) SetKV(key string, value interface{}) {
	f.KV[key] = value
}
