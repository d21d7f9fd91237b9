// Storage abstraction for compiled personas.
package persona

// ProfileStore is the interface for persisting and retrieving CompiledPersonas.
type ProfileStore interface {
	// Save persists a CompiledPersona. If the version already exists, returns error.
	Save(compiled *CompiledPersona) error

	// Get retrieves the latest version of a compiled persona.
	Get(profileID string) (*CompiledPersona, error)

	// GetVersion retrieves a specific version of a compiled persona.
	GetVersion(profileID string, version string) (*CompiledPersona, error)

	// GetByProfileHash returns a compiled persona with the same profile_hash
	// if one exists (idempotency check). Not found is (nil, nil).
	GetByProfileHash(profileHash string) (*CompiledPersona, error)

	// ListVersions returns all versions for a profile.
	ListVersions(profileID string) ([]string, error)
}
