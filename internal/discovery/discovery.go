// Package discovery loads the type definitions to mirror from YAML model
// descriptors.
package discovery

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/cmmoran/dtogen/internal/model"
)

// Discover reads every *.yaml and *.yml descriptor below roots and returns the
// top-level types whose path matches one of includes and none of excludes.
// A type's path is its namespace with '.' replaced by '/', then its name:
// fr.maven.dto.bean.Bean is matched as fr/maven/dto/bean/Bean. Selected types
// must have distinct names, since their mirrors share one directory.
//
// Types come back in root order, lexical file order within a root, then in
// declaration order. A file reachable from several roots is read once. Field
// types are linked: unqualified names resolve to type parameters, to types
// enclosing or nested in the declaring type, and to types of the same
// namespace, in that order. Any other unqualified name is left bare.
func Discover(fs afero.Fs, roots []string, includes, excludes []string) ([]*model.TypeDefinition, error) {
	if len(includes) == 0 {
		includes = []string{"**"}
	}
	var files []string
	seen := make(map[string]bool)
	for _, root := range roots {
		found, err := descriptorFiles(fs, root)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			if key := filepath.Clean(f); !seen[key] {
				seen[key] = true
				files = append(files, f)
			}
		}
	}

	var (
		all     []*model.TypeDefinition
		pending []pendingField
		index   = make(map[string]*model.TypeDefinition)
		origin  = make(map[string]string)
	)
	for _, path := range files {
		df, err := readDescriptor(fs, path)
		if err != nil {
			return nil, err
		}
		for _, td := range df.Types {
			def, err := td.build(strings.TrimSpace(df.Namespace), &pending)
			if err != nil {
				return nil, errors.Wrapf(err, "descriptor %s", path)
			}
			def.Link()
			key := def.QualifiedName()
			if prev, ok := origin[key]; ok {
				return nil, errors.Newf("type %s declared in %s and %s", def.CanonicalName(), prev, path)
			}
			origin[key] = path
			index[key] = def
			all = append(all, def)
		}
	}

	l := &linker{index: index}
	for _, pf := range pending {
		ref, err := model.ParseTypeExpr(pf.expr)
		if err == nil {
			ref, err = l.link(pf.owner, ref)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "field %s#%s", pf.owner.CanonicalName(), pf.field.Name)
		}
		pf.field.Type = ref
	}

	selected := make([]*model.TypeDefinition, 0, len(all))
	byName := make(map[string]*model.TypeDefinition)
	for _, def := range all {
		p := typePath(def)
		included, err := matchAny(includes, p)
		if err != nil {
			return nil, err
		}
		excluded, err := matchAny(excludes, p)
		if err != nil {
			return nil, err
		}
		if !included || excluded {
			continue
		}
		if prev, ok := byName[def.Name]; ok {
			return nil, errors.WithHint(
				errors.Newf("types %s and %s would be mirrored to the same artifact", prev.CanonicalName(), def.CanonicalName()),
				"exclude one of them with --exclude "+typePath(def))
		}
		byName[def.Name] = def
		selected = append(selected, def)
	}
	return selected, nil
}

func descriptorFiles(fs afero.Fs, root string) ([]string, error) {
	var files []string
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		name := info.Name()
		if path != root && strings.HasPrefix(name, ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}
		switch filepath.Ext(name) {
		case ".yaml", ".yml":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "scan %s", root)
	}
	return files, nil
}

func readDescriptor(fs afero.Fs, path string) (*descriptorFile, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "read descriptor %s", path)
	}
	var df descriptorFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&df); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrapf(err, "decode descriptor %s", path)
	}
	return &df, nil
}

func typePath(def *model.TypeDefinition) string {
	if def.Namespace == "" {
		return def.Name
	}
	return strings.ReplaceAll(def.Namespace, ".", "/") + "/" + def.Name
}

func matchAny(patterns []string, path string) (bool, error) {
	for _, p := range patterns {
		ok, err := doublestar.Match(p, path)
		if err != nil {
			return false, errors.Wrapf(err, "pattern %q", p)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
