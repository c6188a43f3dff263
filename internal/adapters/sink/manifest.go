package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ManifestName is the file a run's manifest is written to.
const ManifestName = "manifest.yaml"

// File describes one written output file.
type File struct {
	Name    string `yaml:"name"`
	Dataset string `yaml:"dataset"`
	Year    int    `yaml:"year,omitempty"` // zero for multi-year files
	Format  Format `yaml:"format"`
	Rows    int    `yaml:"rows"`
	Bytes   int64  `yaml:"bytes"`
	SHA256  string `yaml:"sha256"`
}

// Manifest lists every file a run produced.
type Manifest struct {
	RunID     string    `yaml:"run_id"`
	CreatedAt time.Time `yaml:"created_at"`
	Version   string    `yaml:"version,omitempty"`
	Files     []File    `yaml:"files"`

	mu sync.Mutex
}

// NewManifest starts a manifest with a fresh run id.
func NewManifest(runID, version string) *Manifest {
	if runID == "" {
		runID = uuid.NewString()
	}
	return &Manifest{RunID: runID, CreatedAt: time.Now().UTC(), Version: version}
}

// Add records a file.
func (m *Manifest) Add(f File) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Files = append(m.Files, f)
}

// Write stores the manifest in dir, files sorted by name.
func (m *Manifest) Write(dir string) error {
	m.mu.Lock()
	slices.SortFunc(m.Files, func(a, b File) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	data, err := yaml.Marshal(m)
	m.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, ManifestName), data, 0o644)
}

// ReadManifest loads a manifest written by Write.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	return &m, nil
}
