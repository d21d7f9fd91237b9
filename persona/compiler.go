package persona

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"
)

// CompiledPersona is the versioned, storable output of compiling a
// PersonaProfile. The per-turn engine never reads the store; compiled
// personas serve the calling scenario-configuration layer.
type CompiledPersona struct {
	ProfileID   string `json:"profile_id"`
	Version     string `json:"version"`
	ProfileHash string `json:"profile_hash"`

	Profile        PersonaProfile  `json:"profile"`
	ResolvedType   PersonalityType `json:"resolved_type"`
	Style          StyleProfile    `json:"style"`
	ExamplePhrases []string        `json:"example_phrases"`
}

// Compiler compiles a PersonaProfile into a CompiledPersona.
type Compiler struct{}

// NewCompiler creates a new Compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile runs the compilation pipeline:
// 1. Normalize → 2. Personality resolution → 3. Style derivation → 4. Versioning
func (c *Compiler) Compile(profile *PersonaProfile) (*CompiledPersona, []NormalizationWarning, error) {
	normalized, warnings, err := Normalize(profile)
	if err != nil {
		return nil, nil, fmt.Errorf("normalize: %w", err)
	}

	mapper, err := NewMapper(normalized)
	if err != nil {
		return nil, nil, fmt.Errorf("map personality: %w", err)
	}

	compiled := &CompiledPersona{
		ProfileID:      generateProfileID(),
		Version:        "1.0.0",
		ProfileHash:    computeProfileHash(normalized),
		Profile:        *normalized,
		ResolvedType:   mapper.ResolvedType(),
		Style:          *mapper.Style(),
		ExamplePhrases: mapper.ExamplePhrases(),
	}
	return compiled, warnings, nil
}

func generateProfileID() string {
	// Time-based prefix for ordering
	return fmt.Sprintf("sp_%x", time.Now().UnixMilli())
}

func computeProfileHash(profile *PersonaProfile) string {
	data, _ := json.Marshal(profile)
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
