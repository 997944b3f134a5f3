package generator

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"

	"github.com/cmmoran/dtogen/internal/model"
)

// Artifact is the open output of one mirrored type. Nested types write into
// their top-level type's artifact.
type Artifact struct {
	Type *model.TypeDefinition
	Path string

	file   afero.File
	sum    hash.Hash
	closed bool
}

// Write appends to the artifact.
func (a *Artifact) Write(b []byte) (int, error) {
	if a.closed {
		return 0, resourceErr("write", a.Path, os.ErrClosed)
	}
	n, err := a.file.Write(b)
	a.sum.Write(b[:n])
	if err != nil {
		return n, resourceErr("write", a.Path, err)
	}
	return n, nil
}

// Checksum is the hex sha256 of everything written so far.
func (a *Artifact) Checksum() string {
	return hex.EncodeToString(a.sum.Sum(nil))
}

// Close closes the artifact. Closing twice is a no-op.
func (a *Artifact) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	if err := a.file.Close(); err != nil {
		return resourceErr("close", a.Path, err)
	}
	return nil
}

// Sink hands out at most one open artifact per type for the duration of a
// run.
type Sink struct {
	fs     afero.Fs
	dir    string
	suffix string
	ext    string

	open   map[string]*Artifact
	claims map[string]string // path to the qualified name writing it
	order  []*Artifact
}

// NewSink writes artifacts named <Name><suffix><ext> into dir.
func NewSink(fs afero.Fs, dir, suffix, ext string) *Sink {
	return &Sink{
		fs:     fs,
		dir:    dir,
		suffix: suffix,
		ext:    ext,
		open:   make(map[string]*Artifact),
		claims: make(map[string]string),
	}
}

// PathFor is where def's artifact is written.
func (s *Sink) PathFor(def *model.TypeDefinition) string {
	return filepath.Join(s.dir, def.Name+s.suffix+s.ext)
}

// Open returns def's artifact, creating it on first use. An artifact left by
// an earlier run is deleted first; failing to delete it is an error rather
// than a reason to append to stale content. Two types whose artifacts share
// a path can not both be written in one run.
func (s *Sink) Open(def *model.TypeDefinition) (*Artifact, error) {
	key := def.QualifiedName()
	if a, ok := s.open[key]; ok {
		return a, nil
	}

	path := s.PathFor(def)
	if owner, ok := s.claims[path]; ok && owner != key {
		return nil, resourceErr("create", path,
			errors.Newf("%s and %s are both mirrored to %s", owner, key, filepath.Base(path)))
	}

	if err := s.ensureDir(); err != nil {
		return nil, err
	}

	if _, err := s.fs.Stat(path); err == nil {
		if err := s.fs.Remove(path); err != nil {
			return nil, resourceErr("delete", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, resourceErr("stat", path, err)
	}

	f, err := s.fs.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, resourceErr("create", path, err)
	}

	a := &Artifact{Type: def, Path: path, file: f, sum: sha256.New()}
	s.open[key] = a
	s.claims[path] = key
	s.order = append(s.order, a)
	return a, nil
}

func (s *Sink) ensureDir() error {
	info, err := s.fs.Stat(s.dir)
	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		return resourceErr("mkdir", s.dir, errors.Newf("%s exists and is not a directory", s.dir))
	case !os.IsNotExist(err):
		return resourceErr("mkdir", s.dir, err)
	}
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return resourceErr("mkdir", s.dir, errors.WithHint(err, "the generated directory can not be created"))
	}
	return nil
}

// Discard closes a and removes its file, so a failed emission leaves no
// artifact behind.
func (s *Sink) Discard(a *Artifact) error {
	err := a.Close()
	delete(s.open, a.Type.QualifiedName())
	delete(s.claims, a.Path)
	for i, o := range s.order {
		if o == a {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if rmErr := s.fs.Remove(a.Path); rmErr != nil && !os.IsNotExist(rmErr) {
		err = errors.CombineErrors(err, resourceErr("delete", a.Path, rmErr))
	}
	return err
}

// Artifacts lists every artifact opened in this run, in opening order.
func (s *Sink) Artifacts() []*Artifact {
	return s.order
}

// Close closes every artifact still open.
func (s *Sink) Close() error {
	var err error
	for _, a := range s.order {
		err = errors.CombineErrors(err, a.Close())
	}
	return err
}
