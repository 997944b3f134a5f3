package cmd

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/jinzhu/inflection"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cmmoran/dtogen/pkg/options"
)

// optionFlags maps viper keys to the flags that set them.
var optionFlags = map[string]string{
	"in_dirs":            "input-directory",
	"out_dir":            "output-directory",
	"target_namespace":   "target-namespace",
	"suffix":             "suffix",
	"extension":          "extension",
	"implicit_namespace": "implicit-namespace",
	"includes":           "include",
	"excludes":           "exclude",
	"manifest_file":      "manifest-file",
	"prune":              "prune",
}

func addOptionFlags(fs *pflag.FlagSet, withPrune bool) {
	fs.StringSliceP("input-directory", "i", []string{"."}, "directories scanned for model descriptors, in order")
	fs.StringP("output-directory", "o", "generated", "root directory for generated sources")
	fs.StringP("target-namespace", "n", "", "namespace of the generated types (required)")
	fs.StringP("suffix", "s", options.DefaultSuffix, "suffix appended to mirrored type names")
	fs.StringP("extension", "e", options.DefaultExtension, "extension of generated files")
	fs.String("implicit-namespace", options.DefaultImplicitNamespace, "namespace whose types are never qualified")
	fs.StringSlice("include", []string{}, "patterns of types to mirror, ex: fr/maven/**")
	fs.StringSlice("exclude", []string{}, "patterns of types not to mirror")
	fs.String("manifest-file", options.DefaultManifestFile, "manifest file name, relative to the output directory")
	if withPrune {
		fs.Bool("prune", false, "delete artifacts of types that are no longer mirrored")
	}
}

// bindOptionFlags binds the running command's flags. Binding happens at run
// time since every command defines its own copy of the flags.
func bindOptionFlags(c *cobra.Command) error {
	for key, name := range optionFlags {
		f := c.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "bind flag %s", name)
		}
	}
	return nil
}

// loadOptions reads the options from flags, config and environment. Only a
// generating command needs a target namespace.
func loadOptions(generating bool) (*options.Options, error) {
	o := options.New()
	if err := viper.Unmarshal(o); err != nil {
		return nil, errors.Wrap(err, "read options")
	}
	if !generating {
		o.ApplyDefaults()
		return o, nil
	}
	if err := o.Normalize(); err != nil {
		return nil, err
	}
	return o, nil
}

// count renders n with word, pluralized when n is not 1.
func count(n int, word string) string {
	if n != 1 {
		word = inflection.Plural(word)
	}
	return fmt.Sprintf("%d %s", n, word)
}
