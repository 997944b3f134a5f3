package status

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"

	"github.com/cmmoran/dtogen/pkg/manifest"
	"github.com/cmmoran/dtogen/pkg/options"
)

// State of a recorded artifact compared with what is on disk.
type State string

const (
	StateClean    State = "clean"
	StateModified State = "modified"
	StateMissing  State = "missing"
)

// Artifact is one manifest entry and its state.
type Artifact struct {
	manifest.Entry
	State State
}

// Check loads the manifest of opts.OutDir and verifies every recorded
// artifact against its checksum. The target namespace is not needed.
func Check(fs afero.Fs, opts *options.Options) ([]Artifact, error) {
	opts.ApplyDefaults()
	m, err := manifest.Load(fs, opts.ManifestPath())
	if err != nil {
		return nil, err
	}

	out := make([]Artifact, 0, len(m.Entries))
	for _, e := range m.Entries {
		data, err := afero.ReadFile(fs, filepath.Join(opts.OutDir, filepath.FromSlash(e.File)))
		switch {
		case errors.Is(err, os.ErrNotExist):
			out = append(out, Artifact{Entry: e, State: StateMissing})
		case err != nil:
			return nil, errors.Wrapf(err, "read %s", e.File)
		default:
			sum := sha256.Sum256(data)
			state := StateClean
			if hex.EncodeToString(sum[:]) != e.SHA256 {
				state = StateModified
			}
			out = append(out, Artifact{Entry: e, State: state})
		}
	}
	return out, nil
}

// Dirty filters artifacts down to those that are not clean.
func Dirty(artifacts []Artifact) []Artifact {
	var out []Artifact
	for _, a := range artifacts {
		if a.State != StateClean {
			out = append(out, a)
		}
	}
	return out
}
