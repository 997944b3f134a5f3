package generate

import (
	"log/slog"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"

	"github.com/cmmoran/dtogen/internal/discovery"
	"github.com/cmmoran/dtogen/internal/generator"
	"github.com/cmmoran/dtogen/pkg/manifest"
	"github.com/cmmoran/dtogen/pkg/options"
)

// Result describes a finished run.
type Result struct {
	Manifest *manifest.Manifest
	Changes  manifest.Changes
	Pruned   []manifest.Entry
}

// Generate discovers the descriptors below opts.InDirs, mirrors the selected
// types into opts.OutDir and records the artifacts in the manifest. Artifacts
// of an earlier run that this run did not produce are deleted when opts.Prune
// is set, and kept in the manifest otherwise.
func Generate(fs afero.Fs, opts *options.Options, runOpts ...generator.RunOption) (*Result, error) {
	if err := opts.Normalize(); err != nil {
		return nil, err
	}
	log := slog.Default().With("in", opts.InDirs, "out", opts.OutDir)

	defs, err := discovery.Discover(fs, opts.InDirs, opts.Includes, opts.Excludes)
	if err != nil {
		return nil, errors.Wrap(err, "discover types")
	}
	if len(defs) == 0 {
		log.Warn("no types matched")
	}

	previous, err := manifest.Load(fs, opts.ManifestPath())
	if err != nil {
		return nil, err
	}

	run := generator.NewRun(fs, opts, defs, append([]generator.RunOption{generator.WithLogger(log)}, runOpts...)...)
	artifacts, err := run.Generate()
	if err != nil {
		return nil, err
	}

	current := &manifest.Manifest{TargetNamespace: opts.TargetNamespace}
	for _, a := range artifacts {
		rel, err := filepath.Rel(opts.OutDir, a.Path)
		if err != nil {
			return nil, errors.Wrapf(err, "record %s", a.Path)
		}
		current.Record(manifest.Entry{
			Type:   a.Type.CanonicalName(),
			File:   filepath.ToSlash(rel),
			SHA256: a.Checksum(),
		})
	}

	res := &Result{Manifest: current, Changes: current.Compare(previous)}
	stale := current.Stale(previous)
	if opts.Prune {
		if err := manifest.Prune(fs, opts.OutDir, stale); err != nil {
			return nil, err
		}
		res.Pruned = stale
	} else {
		for _, e := range stale {
			current.Record(e)
		}
	}

	if err := current.Save(fs, opts.ManifestPath()); err != nil {
		return nil, err
	}
	log.With(
		"added", len(res.Changes.Added),
		"updated", len(res.Changes.Updated),
		"unchanged", len(res.Changes.Unchanged),
		"pruned", len(res.Pruned),
	).Info("generation finished")
	return res, nil
}
