package roleplaysdk

// ──────────────────────────────────────────────
// Persona re-exports — stable public API
// ──────────────────────────────────────────────
//
// Re-exports the most commonly used persona types so users can access them
// from the root package:
//
//	profile := roleplaysdk.PersonaProfile{Name: "Dana", Role: "VP of Engineering"}
//
// For the full persona API (compiler, stores, style profiles), import the
// sub-package directly:
//
//	import "github.com/convoforge/roleplay-sdk-go/persona"

import "github.com/convoforge/roleplay-sdk-go/persona"

// ─── Core types ───

// PersonaProfile is the caller's definition of a simulated stakeholder.
type PersonaProfile = persona.PersonaProfile

// ScenarioContext describes the situation the conversation takes place in.
type ScenarioContext = persona.ScenarioContext

// CompiledPersona is the versioned, storable output of persona compilation.
type CompiledPersona = persona.CompiledPersona

// StyleProfile is the derived speaking-style profile.
type StyleProfile = persona.StyleProfile

// PersonalityType is a normalized personality label.
type PersonalityType = persona.PersonalityType

// ProfileStore is the interface for persisting compiled personas.
type ProfileStore = persona.ProfileStore

// ─── Constructors ───

// NewPersonaCompiler creates a new persona compiler.
var NewPersonaCompiler = persona.NewCompiler

// NewPersonaMapper creates a personality mapper for a profile.
var NewPersonaMapper = persona.NewMapper

// NewPersonaFileStore creates a file-based profile store.
var NewPersonaFileStore = persona.NewFileStore

// NewInMemoryProfileStore creates an in-memory profile store (for testing).
var NewInMemoryProfileStore = persona.NewInMemoryProfileStore
