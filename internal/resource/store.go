package resource

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"repograph/internal/infographic"
)

//go:embed assets/*.json
var embedded embed.FS

// ErrNotFound is the normal outcome for a name that resolves to nothing.
var ErrNotFound = errors.New("resource: not found")

// Store resolves named bundled documents. A disk directory, when configured,
// shadows the embedded defaults so deployments can ship extra samples without
// rebuilding.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: strings.TrimSpace(dir)}
}

// Load resolves name to bytes and decodes them. Bundled resources are
// complete documents with no wrapper envelope.
func (s *Store) Load(name string) (*infographic.Document, error) {
	raw, err := s.read(name)
	if err != nil {
		return nil, err
	}
	return infographic.Decode(raw)
}

func (s *Store) read(name string) ([]byte, error) {
	base := sanitizeName(name)
	if base == "" {
		return nil, ErrNotFound
	}
	if s != nil && s.dir != "" {
		raw, err := os.ReadFile(filepath.Join(s.dir, base))
		if err == nil {
			return raw, nil
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
	}
	raw, err := embedded.ReadFile("assets/" + base)
	if err != nil {
		return nil, ErrNotFound
	}
	return raw, nil
}

// Names lists available resource names (without the .json suffix), disk and
// embedded combined, sorted and deduplicated.
func (s *Store) Names() []string {
	seen := map[string]bool{}
	if s != nil && s.dir != "" {
		if entries, err := os.ReadDir(s.dir); err == nil {
			for _, e := range entries {
				if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
					seen[strings.TrimSuffix(e.Name(), ".json")] = true
				}
			}
		}
	}
	_ = fs.WalkDir(embedded, "assets", func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() && strings.HasSuffix(d.Name(), ".json") {
			seen[strings.TrimSuffix(d.Name(), ".json")] = true
		}
		return nil
	})
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// sanitizeName strips directory components and guarantees a .json suffix, so
// a name can never escape the resource root.
func sanitizeName(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return ""
	}
	if !strings.HasSuffix(base, ".json") {
		base += ".json"
	}
	return base
}
