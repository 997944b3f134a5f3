package generator

import (
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"

	"github.com/cmmoran/dtogen/internal/model"
	"github.com/cmmoran/dtogen/pkg/options"
)

// Run is the context of one generation: the target namespace, the mirror
// set, and the artifacts opened so far. It is not shared between runs.
type Run struct {
	TargetNamespace string
	Mirrors         *MirrorSet
	Sink            *Sink

	suffix   string
	resolver *Resolver
	emitter  *Emitter
	log      *slog.Logger
}

// RunOption customizes a Run.
type RunOption func(*runConfig)

type runConfig struct {
	now func() time.Time
	log *slog.Logger
}

// WithClock fixes the time stamped into generated doc comments.
func WithClock(now func() time.Time) RunOption {
	return func(c *runConfig) { c.now = now }
}

func WithLogger(l *slog.Logger) RunOption {
	return func(c *runConfig) { c.log = l }
}

// NewRun prepares a run mirroring defs according to opts, which must be
// normalized. Artifacts are written through fs.
func NewRun(fs afero.Fs, opts *options.Options, defs []*model.TypeDefinition, runOpts ...RunOption) *Run {
	cfg := &runConfig{now: time.Now, log: slog.Default()}
	for _, fn := range runOpts {
		fn(cfg)
	}

	mirrors := NewMirrorSet(defs...)
	resolver := NewResolver(mirrors, opts.TargetNamespace, opts.Suffix, opts.ImplicitNamespace)
	return &Run{
		TargetNamespace: opts.TargetNamespace,
		Mirrors:         mirrors,
		Sink:            NewSink(fs, opts.NamespaceDir(), opts.Suffix, opts.Extension),
		suffix:          opts.Suffix,
		resolver:        resolver,
		emitter:         NewEmitter(resolver, opts.TargetNamespace, cfg.now()),
		log:             cfg.log,
	}
}

// Generate writes one artifact per mirrored type, in mirror set order, and
// returns them closed. The first failure aborts the run; every artifact is
// closed on the way out and the one that failed is removed.
func (r *Run) Generate() (_ []*Artifact, err error) {
	defer func() {
		if cerr := r.Sink.Close(); cerr != nil {
			err = errors.CombineErrors(err, cerr)
		}
	}()

	r.log.With("namespace", r.TargetNamespace, "types", r.Mirrors.Len()).Debug("generation started")
	for _, def := range r.Mirrors.Members() {
		if err = r.generate(def); err != nil {
			r.log.With("type", def.CanonicalName(), "error", err).Error("generation aborted")
			return nil, err
		}
	}
	return r.Sink.Artifacts(), nil
}

func (r *Run) generate(def *model.TypeDefinition) error {
	a, err := r.Sink.Open(def)
	if err != nil {
		return errors.Wrapf(err, "generate %s", def.CanonicalName())
	}

	err = r.emitter.Emit(NewScope(def), def, a, r.suffix, true)
	if err == nil {
		err = a.Close()
	}
	if err != nil {
		if derr := r.Sink.Discard(a); derr != nil {
			err = errors.CombineErrors(err, derr)
		}
		return errors.Wrapf(err, "generate %s", def.CanonicalName())
	}

	r.log.With("type", def.CanonicalName(), "path", a.Path).Debug("generated")
	return nil
}
