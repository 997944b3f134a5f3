package generator

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cmmoran/dtogen/internal/model"
)

// Scope is the state shared while one artifact is emitted: the top-level
// type the artifact belongs to and the imports collected on the way.
type Scope struct {
	artifact *model.TypeDefinition
	imports  map[string]struct{}
	// simple names visible in the artifact, mapped to their import; inline
	// nested types map to ""
	names map[string]string
}

// NewScope starts the emission of artifact.
func NewScope(artifact *model.TypeDefinition) *Scope {
	s := &Scope{artifact: artifact, imports: make(map[string]struct{}), names: make(map[string]string)}
	seen := make(map[*model.TypeDefinition]bool)
	var walk func(*model.TypeDefinition)
	walk = func(def *model.TypeDefinition) {
		for _, n := range def.NestedTypes {
			if seen[n] {
				continue
			}
			seen[n] = true
			s.names[n.Name] = ""
			walk(n)
		}
	}
	if artifact != nil {
		walk(artifact)
	}
	return s
}

// importAs imports path under its simple name. It reports false when the
// name already denotes another type in the artifact; the caller then prints
// path in full.
func (s *Scope) importAs(name, path string) bool {
	if s == nil {
		return true
	}
	if owner, ok := s.names[name]; ok {
		return owner == path
	}
	s.names[name] = path
	s.imports[path] = struct{}{}
	return true
}

// Imports returns the collected imports, each once, sorted.
func (s *Scope) Imports() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.imports))
	for p := range s.imports {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// inlines reports whether raw is a nested type written inside the current
// artifact, where it carries its plain name.
func (s *Scope) inlines(raw *model.TypeReference) bool {
	if s == nil || s.artifact == nil || raw.Enclosing == nil {
		return false
	}
	return raw.Outermost().QualifiedName() == s.artifact.QualifiedName()
}

// Resolver turns type references into the names printed in mirrors.
type Resolver struct {
	mirrors           *MirrorSet
	targetNamespace   string
	suffix            string
	implicitNamespace string
}

func NewResolver(mirrors *MirrorSet, targetNamespace, suffix, implicitNamespace string) *Resolver {
	return &Resolver{
		mirrors:           mirrors,
		targetNamespace:   targetNamespace,
		suffix:            suffix,
		implicitNamespace: implicitNamespace,
	}
}

// Resolve returns the exact text to print for ref at a field, parameter or
// return type site inside enclosing. Type arguments and array elements are
// resolved recursively, so arrays of generics and generics of arrays compose.
func (r *Resolver) Resolve(sc *Scope, enclosing *model.TypeDefinition, ref *model.TypeReference) (string, error) {
	if err := ref.Validate(); err != nil {
		return "", err
	}
	var sb strings.Builder
	r.write(&sb, sc, enclosing, ref)
	return sb.String(), nil
}

func (r *Resolver) write(sb *strings.Builder, sc *Scope, enclosing *model.TypeDefinition, ref *model.TypeReference) {
	switch ref.Kind {
	case model.RefParameterized:
		sb.WriteString(r.qualify(sc, enclosing, ref))
		sb.WriteByte('<')
		for i, arg := range ref.TypeArgs {
			if i > 0 {
				sb.WriteString(", ")
			}
			r.write(sb, sc, enclosing, arg)
		}
		sb.WriteByte('>')
	case model.RefArray:
		r.write(sb, sc, enclosing, ref.Elem)
		sb.WriteString(strings.Repeat("[]", ref.ArrayDepth))
	default:
		sb.WriteString(r.qualify(sc, enclosing, ref))
	}
}

// qualify applies the namespace rule to a raw (non-array) reference and
// returns its possibly prefixed, possibly suffixed name, without type
// arguments.
func (r *Resolver) qualify(sc *Scope, enclosing *model.TypeDefinition, raw *model.TypeReference) string {
	inline := sc.inlines(raw)
	mirrored := !inline && r.mirrors.ContainsRef(raw)

	name := raw.Name
	if mirrored {
		name += r.suffix
	}

	if raw.Enclosing != nil && !inline && !mirrored {
		if path := r.importPath(raw); path != "" && !sc.importAs(name, path) {
			return path
		}
	}

	switch {
	case inline:
		return name
	case raw.Namespace == "" || raw.Namespace == r.implicitNamespace:
		return name
	case mirrored:
		if enclosing.Namespace != raw.Namespace {
			return r.targetNamespace + "." + name
		}
		return name
	case raw.Enclosing != nil:
		// the import carries the declarer
		return name
	default:
		return raw.Namespace + "." + name
	}
}

// importPath is the import making a nested, non-mirrored type visible by its
// simple name. Types nested in a mirrored type are imported from the mirror.
func (r *Resolver) importPath(raw *model.TypeReference) string {
	outer := raw.Outermost()
	if !r.mirrors.ContainsRef(outer) {
		if raw.Namespace == "" {
			return ""
		}
		return raw.CanonicalName()
	}

	var chain []string
	for t := raw; t.Enclosing != nil; t = t.Enclosing {
		chain = append(chain, t.Name)
	}
	parts := []string{r.targetNamespace, outer.Name + r.suffix}
	for i := len(chain) - 1; i >= 0; i-- {
		parts = append(parts, chain[i])
	}
	return strings.Join(parts, ".")
}

// AccessorNames returns the getter and setter names for a field. Boolean
// primitives get an "is" getter.
func AccessorNames(field *model.FieldDefinition) (getter, setter string) {
	suffix := capitalize(field.Name)
	if field.Type != nil && field.Type.IsBoolean() {
		return "is" + suffix, "set" + suffix
	}
	return "get" + suffix, "set" + suffix
}

// capitalize uppercases exactly the first rune of s.
func capitalize(s string) string {
	c, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(c)) + s[size:]
}
