package options

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	DefaultSuffix            = "DTO"
	DefaultExtension         = ".java"
	DefaultImplicitNamespace = "java.lang"
	DefaultManifestFile      = ".dtogen-manifest.yaml"
)

// Options control discovery, generation and post-processing.
//
// InDirs            – directories scanned for type descriptors, in order (default .)
// OutDir            – output root; artifacts go to OutDir/<namespace as path>
// TargetNamespace   – namespace every mirror is declared in
// Suffix            – appended to every mirrored type name (default DTO)
// Extension         – artifact file extension (default .java)
// ImplicitNamespace – namespace whose types are never qualified (default java.lang)
// Includes          – glob patterns a type path must match (default **)
// Excludes          – glob patterns a type path must not match
// ManifestFile      – manifest name, relative to OutDir
// Prune             – delete artifacts recorded by the previous run that were not regenerated
type Options struct {
	InDirs            []string `json:"in_dirs,omitempty" yaml:"in_dirs,omitempty" toml:"in_dirs,omitempty" mapstructure:"in_dirs,omitempty"`
	OutDir            string   `json:"out_dir,omitempty" yaml:"out_dir,omitempty" toml:"out_dir,omitempty" mapstructure:"out_dir,omitempty"`
	TargetNamespace   string   `json:"target_namespace,omitempty" yaml:"target_namespace,omitempty" toml:"target_namespace,omitempty" mapstructure:"target_namespace,omitempty"`
	Suffix            string   `json:"suffix,omitempty" yaml:"suffix,omitempty" toml:"suffix,omitempty" mapstructure:"suffix,omitempty"`
	Extension         string   `json:"extension,omitempty" yaml:"extension,omitempty" toml:"extension,omitempty" mapstructure:"extension,omitempty"`
	ImplicitNamespace string   `json:"implicit_namespace,omitempty" yaml:"implicit_namespace,omitempty" toml:"implicit_namespace,omitempty" mapstructure:"implicit_namespace,omitempty"`
	Includes          []string `json:"includes,omitempty" yaml:"includes,omitempty" toml:"includes,omitempty" mapstructure:"includes,omitempty"`
	Excludes          []string `json:"excludes,omitempty" yaml:"excludes,omitempty" toml:"excludes,omitempty" mapstructure:"excludes,omitempty"`
	ManifestFile      string   `json:"manifest_file,omitempty" yaml:"manifest_file,omitempty" toml:"manifest_file,omitempty" mapstructure:"manifest_file,omitempty"`
	Prune             bool     `json:"prune,omitempty" yaml:"prune,omitempty" toml:"prune,omitempty" mapstructure:"prune,omitempty"`
}

func New(opts ...Option) *Options {
	o := &Options{
		OutDir:            "generated",
		Suffix:            DefaultSuffix,
		Extension:         DefaultExtension,
		ImplicitNamespace: DefaultImplicitNamespace,
		ManifestFile:      DefaultManifestFile,
	}
	for _, fn := range opts {
		fn(o)
	}
	return o
}

// Normalize fills defaults and rejects options a run cannot start with.
func (o *Options) Normalize() error {
	o.TargetNamespace = strings.Trim(strings.TrimSpace(o.TargetNamespace), ".")
	if o.TargetNamespace == "" {
		return errors.WithHint(errors.New("target namespace is required"), "pass --target-namespace or set target_namespace in the config file")
	}
	for _, seg := range strings.Split(o.TargetNamespace, ".") {
		if seg == "" {
			return errors.Newf("target namespace %q has an empty segment", o.TargetNamespace)
		}
	}
	o.ApplyDefaults()
	return nil
}

// ApplyDefaults fills every unset option except the target namespace.
func (o *Options) ApplyDefaults() {
	dirs := make([]string, 0, len(o.InDirs))
	for _, d := range o.InDirs {
		if d = strings.TrimSpace(d); d != "" {
			dirs = append(dirs, d)
		}
	}
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	for i, d := range dirs {
		if strings.Contains(d, ".") {
			dirs[i], _ = filepath.Abs(d)
		}
	}
	o.InDirs = dirs
	if len(o.OutDir) == 0 {
		o.OutDir = "generated"
	}
	if strings.Contains(o.OutDir, ".") {
		o.OutDir, _ = filepath.Abs(o.OutDir)
	}

	// An empty suffix would make mirrors collide with their sources in the
	// same namespace.
	if o.Suffix == "" {
		o.Suffix = DefaultSuffix
	}
	if o.Extension == "" {
		o.Extension = DefaultExtension
	}
	if !strings.HasPrefix(o.Extension, ".") {
		o.Extension = "." + o.Extension
	}
	if o.ImplicitNamespace == "" {
		o.ImplicitNamespace = DefaultImplicitNamespace
	}
	if o.ManifestFile == "" {
		o.ManifestFile = DefaultManifestFile
	}
	if len(o.Includes) == 0 {
		o.Includes = []string{"**"}
	}
}

// NamespaceDir maps the target namespace to its directory below OutDir.
func (o *Options) NamespaceDir() string {
	return filepath.Join(o.OutDir, filepath.Join(strings.Split(o.TargetNamespace, ".")...))
}

// ManifestPath is the location of the run manifest.
func (o *Options) ManifestPath() string {
	return filepath.Join(o.OutDir, o.ManifestFile)
}

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithOutDir(d string) Option             { return func(o *Options) { o.OutDir = d } }
func WithTargetNamespace(ns string) Option   { return func(o *Options) { o.TargetNamespace = ns } }
func WithSuffix(s string) Option             { return func(o *Options) { o.Suffix = s } }
func WithExtension(e string) Option          { return func(o *Options) { o.Extension = e } }
func WithImplicitNamespace(ns string) Option { return func(o *Options) { o.ImplicitNamespace = ns } }
func WithManifestFile(f string) Option       { return func(o *Options) { o.ManifestFile = f } }
func WithPrune() Option                      { return func(o *Options) { o.Prune = true } }
func WithInDirs(dirs ...string) Option {
	return func(o *Options) { o.InDirs = append(o.InDirs, dirs...) }
}
func WithIncludes(patterns ...string) Option {
	return func(o *Options) {
		for _, p := range patterns {
			o.Includes = append(o.Includes, strings.TrimSpace(p))
		}
	}
}
func WithExcludes(patterns ...string) Option {
	return func(o *Options) {
		for _, p := range patterns {
			o.Excludes = append(o.Excludes, strings.TrimSpace(p))
		}
	}
}
