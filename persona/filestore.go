package persona

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileStore persists CompiledPersonas as JSON files on disk.
// Layout: {baseDir}/{profile_id}/{version}.json
//
//	{baseDir}/{profile_id}/latest → version string
type FileStore struct {
	BaseDir string
}

// NewFileStore creates a FileStore at the given directory.
func NewFileStore(baseDir string) *FileStore {
	return &FileStore{BaseDir: baseDir}
}

func (s *FileStore) Save(compiled *CompiledPersona) error {
	dir := filepath.Join(s.BaseDir, compiled.ProfileID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	// Check if version already exists
	versionPath := filepath.Join(dir, compiled.Version+".json")
	if _, err := os.Stat(versionPath); err == nil {
		return fmt.Errorf("version %s already exists for profile %s", compiled.Version, compiled.ProfileID)
	}

	data, err := json.MarshalIndent(compiled, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(versionPath, data, 0644); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	// Update latest pointer
	latestPath := filepath.Join(dir, "latest")
	if err := os.WriteFile(latestPath, []byte(compiled.Version), 0644); err != nil {
		return fmt.Errorf("write latest: %w", err)
	}

	// Write profile_hash index
	hashDir := filepath.Join(s.BaseDir, ".hash_index")
	os.MkdirAll(hashDir, 0755)
	hashPath := filepath.Join(hashDir, compiled.ProfileHash)
	ref := fmt.Sprintf("%s/%s", compiled.ProfileID, compiled.Version)
	os.WriteFile(hashPath, []byte(ref), 0644)

	return nil
}

func (s *FileStore) Get(profileID string) (*CompiledPersona, error) {
	dir := filepath.Join(s.BaseDir, profileID)
	latestPath := filepath.Join(dir, "latest")
	versionBytes, err := os.ReadFile(latestPath)
	if err != nil {
		return nil, fmt.Errorf("profile %s not found: %w", profileID, err)
	}
	return s.GetVersion(profileID, string(versionBytes))
}

func (s *FileStore) GetVersion(profileID string, version string) (*CompiledPersona, error) {
	path := filepath.Join(s.BaseDir, profileID, version+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("version %s not found for profile %s: %w", version, profileID, err)
	}
	var compiled CompiledPersona
	if err := json.Unmarshal(data, &compiled); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return &compiled, nil
}

func (s *FileStore) GetByProfileHash(profileHash string) (*CompiledPersona, error) {
	hashPath := filepath.Join(s.BaseDir, ".hash_index", profileHash)
	refBytes, err := os.ReadFile(hashPath)
	if err != nil {
		return nil, nil // not found
	}
	ref := string(refBytes)
	idx := strings.IndexByte(ref, '/')
	if idx <= 0 || idx == len(ref)-1 {
		return nil, nil
	}
	return s.GetVersion(ref[:idx], ref[idx+1:])
}

func (s *FileStore) ListVersions(profileID string) ([]string, error) {
	dir := filepath.Join(s.BaseDir, profileID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("profile %s not found: %w", profileID, err)
	}
	var versions []string
	for _, e := range entries {
		name := e.Name()
		if filepath.Ext(name) == ".json" {
			versions = append(versions, name[:len(name)-5])
		}
	}
	sort.Strings(versions)
	return versions, nil
}
