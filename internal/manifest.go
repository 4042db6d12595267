package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const ManifestFilename = "package.json"

type ManifestRepository struct {
	Type string `json:"type,omitempty"`
	URL  string `json:"url,omitempty"`
}

// UnmarshalJSON accepts both the object form and the "repository": "url"
// shorthand.
func (r *ManifestRepository) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &r.URL)
	}
	type plain ManifestRepository
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = ManifestRepository(p)
	return nil
}

// Manifest is the subset of package.json the release decision needs.
type Manifest struct {
	Name       string      `json:"name"`
	Version    string      `json:"version,omitempty"`
	Private    bool        `json:"private,omitempty"`
	Repository *ManifestRepository `json:"repository,omitempty"`

	// Dir is the directory the manifest was loaded from.
	Dir string `json:"-"`
}

func (m Manifest) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidManifest)
	}
	if m.Repository == nil || strings.TrimSpace(m.Repository.URL) == "" {
		return fmt.Errorf("%w: %s has no repository url", ErrInvalidManifest, m.Name)
	}
	return nil
}

func LoadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFilename))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidManifest, filepath.Join(dir, ManifestFilename), err)
	}
	m.Dir = dir

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
