package manifest

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Entry represents one generated artifact in the manifest.
type Entry struct {
	Type   string `yaml:"type" json:"type"`
	File   string `yaml:"file" json:"file"` // relative to the output root
	SHA256 string `yaml:"sha256" json:"sha256"`
}

// Manifest tracks the artifacts written by the last generation run.
type Manifest struct {
	TargetNamespace string  `yaml:"target_namespace" json:"target_namespace"`
	Entries         []Entry `yaml:"entries" json:"entries"`
}

// Changes summarizes how one manifest differs from an earlier one. Each list
// holds type names, sorted.
type Changes struct {
	Added     []string
	Updated   []string
	Unchanged []string
	Removed   []string
}

// Load reads a manifest from the provided path. If the file does not exist,
// an empty manifest is returned.
func Load(fs afero.Fs, path string) (*Manifest, error) {
	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read manifest")
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "unmarshal manifest %s", path)
	}

	return &m, nil
}

// Save writes the manifest to the provided path, creating parent directories as needed.
func (m *Manifest) Save(fs afero.Fs, path string) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create manifest directory")
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "marshal manifest")
	}

	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return errors.Wrap(err, "write manifest")
	}

	return nil
}

// Record adds e, replacing an existing entry for the same type.
func (m *Manifest) Record(e Entry) {
	for i := range m.Entries {
		if m.Entries[i].Type == e.Type {
			m.Entries[i] = e
			return
		}
	}

	m.Entries = append(m.Entries, e)
}

// Lookup returns the entry recorded for typ, if present.
func (m *Manifest) Lookup(typ string) (Entry, bool) {
	for _, e := range m.Entries {
		if e.Type == typ {
			return e, true
		}
	}
	return Entry{}, false
}

// Compare reports what changed between previous and m.
func (m *Manifest) Compare(previous *Manifest) Changes {
	var c Changes
	for _, e := range m.Entries {
		old, ok := previous.Lookup(e.Type)
		switch {
		case !ok:
			c.Added = append(c.Added, e.Type)
		case old.SHA256 != e.SHA256:
			c.Updated = append(c.Updated, e.Type)
		default:
			c.Unchanged = append(c.Unchanged, e.Type)
		}
	}
	for _, e := range previous.Entries {
		if _, ok := m.Lookup(e.Type); !ok {
			c.Removed = append(c.Removed, e.Type)
		}
	}
	for _, l := range [][]string{c.Added, c.Updated, c.Unchanged, c.Removed} {
		sort.Strings(l)
	}
	return c
}

// Stale returns the entries of previous whose file m no longer produces.
func (m *Manifest) Stale(previous *Manifest) []Entry {
	files := make(map[string]bool, len(m.Entries))
	for _, e := range m.Entries {
		files[e.File] = true
	}
	var stale []Entry
	for _, e := range previous.Entries {
		if !files[e.File] {
			stale = append(stale, e)
		}
	}
	return stale
}

// Prune deletes the files of entries below root. Files already gone are
// ignored.
func Prune(fs afero.Fs, root string, entries []Entry) error {
	var err error
	for _, e := range entries {
		if rmErr := fs.Remove(filepath.Join(root, e.File)); rmErr != nil && !os.IsNotExist(rmErr) {
			err = errors.CombineErrors(err, errors.Wrapf(rmErr, "prune %s", e.Type))
		}
	}
	return err
}
