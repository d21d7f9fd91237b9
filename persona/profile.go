// Package persona defines stakeholder persona profiles and the
// personality-to-style mapping used by the response-instruction engine.
package persona

import (
	"fmt"
	"strings"
)

// PersonaProfile is the caller's definition of a simulated stakeholder.
// It is immutable for the duration of a conversation.
type PersonaProfile struct {
	Name             string   `json:"name"`
	Role             string   `json:"role"`
	PersonalityLabel string   `json:"personality_label"` // free text, e.g. "analytical"
	Concerns         []string `json:"concerns,omitempty"`
	Motivations      []string `json:"motivations,omitempty"`
}

// ScenarioContext describes the situation the conversation takes place in.
type ScenarioContext struct {
	Title       string   `json:"title"`
	Situation   string   `json:"situation"`
	Objective   string   `json:"objective"`
	Constraints []string `json:"constraints,omitempty"`
}

// NormalizationWarning is a non-fatal issue found during normalization.
type NormalizationWarning struct {
	Field   string
	Message string
}

// Normalize validates a PersonaProfile and fills defaults.
// Name is required; everything else degrades with a warning.
func Normalize(profile *PersonaProfile) (*PersonaProfile, []NormalizationWarning, error) {
	if profile == nil {
		return nil, nil, fmt.Errorf("persona profile is required")
	}
	if strings.TrimSpace(profile.Name) == "" {
		return nil, nil, fmt.Errorf("persona name is required")
	}

	var warnings []NormalizationWarning

	// Copy to avoid mutating input
	normalized := *profile

	if normalized.Role == "" {
		warnings = append(warnings, NormalizationWarning{
			Field:   "role",
			Message: "role is empty, defaulting to \"stakeholder\"",
		})
		normalized.Role = "stakeholder"
	}

	// Concerns: cap at 8, drop empties
	normalized.Concerns = compactStrings(normalized.Concerns)
	if len(normalized.Concerns) > 8 {
		warnings = append(warnings, NormalizationWarning{
			Field:   "concerns",
			Message: fmt.Sprintf("concerns capped at 8, got %d", len(normalized.Concerns)),
		})
		normalized.Concerns = normalized.Concerns[:8]
	}

	normalized.Motivations = compactStrings(normalized.Motivations)
	if len(normalized.Motivations) > 8 {
		normalized.Motivations = normalized.Motivations[:8]
	}

	return &normalized, warnings, nil
}

func compactStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
