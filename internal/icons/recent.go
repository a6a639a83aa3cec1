package icons

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// MaxRecent caps the persisted recently-used icon list.
const MaxRecent = 10

// Recents is the persisted most-recently-used icon list backing the
// icon picker. Storage failures are swallowed: a corrupt, missing, or
// unwritable file just reads as an empty list.
type Recents struct {
	path string
}

// NewRecents creates a recents list persisted at the given file.
func NewRecents(path string) *Recents {
	return &Recents{path: path}
}

// DefaultRecentsPath places the list next to the session file.
func DefaultRecentsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(home, ".local", "share")
	}

	capeDir := filepath.Join(dataDir, "cape")
	if err := os.MkdirAll(capeDir, 0700); err != nil {
		return "", err
	}

	return filepath.Join(capeDir, "recent_icons.json"), nil
}

// List returns the recent slugs, most recent first, at most MaxRecent.
func (r *Recents) List() []string {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil
	}

	var slugs []string
	if err := json.Unmarshal(data, &slugs); err != nil {
		return nil
	}

	if len(slugs) > MaxRecent {
		slugs = slugs[:MaxRecent]
	}
	return slugs
}

// Add front-inserts a slug, removing any earlier occurrence and
// evicting beyond the cap.
func (r *Recents) Add(slug string) {
	recent := make([]string, 0, MaxRecent)
	recent = append(recent, slug)
	for _, s := range r.List() {
		if s == slug {
			continue
		}
		recent = append(recent, s)
		if len(recent) == MaxRecent {
			break
		}
	}

	data, err := json.Marshal(recent)
	if err != nil {
		return
	}
	_ = os.WriteFile(r.path, data, 0600)
}
