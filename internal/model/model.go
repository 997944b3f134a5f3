package model

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// TypeReference describes a type at the place it is used: a field, a type
// argument or an array element.
type TypeReference struct {
	Kind       RefKind
	Name       string           // raw simple name: "List", "Bean", "int"
	Namespace  string           // "" for primitives and built-ins
	ArrayDepth int              // > 0 only for RefArray
	Elem       *TypeReference   // innermost non-array element, only for RefArray
	TypeArgs   []*TypeReference // only for RefParameterized
	Enclosing  *TypeReference   // declaring type when the referenced type is nested
}

// FieldDefinition is one declared field of a class.
type FieldDefinition struct {
	Name   string
	Type   *TypeReference
	Static bool
}

// TypeDefinition is a class or enum, either one selected for mirroring or
// nested in one.
type TypeDefinition struct {
	Name          string
	Namespace     string
	Kind          TypeKind
	Modifiers     []Modifier
	TypeParams    []string
	Fields        []*FieldDefinition // declaration order
	EnumConstants []string           // declaration order, KindEnum only
	NestedTypes   []*TypeDefinition  // declaration order

	// Enclosing is the declaring type of a nested definition. Set by Link.
	Enclosing *TypeDefinition
}

var primitives = map[string]bool{
	"boolean": true,
	"byte":    true,
	"char":    true,
	"short":   true,
	"int":     true,
	"long":    true,
	"float":   true,
	"double":  true,
	"void":    true,
}

// IsPrimitive reports whether name is one of the primitive type keywords.
func IsPrimitive(name string) bool {
	return primitives[name]
}

// Simple returns a reference to a non-generic, non-array type.
func Simple(namespace, name string) *TypeReference {
	return &TypeReference{Kind: RefSimple, Name: name, Namespace: namespace}
}

// Nested returns a reference to a type declared inside enclosing.
func Nested(enclosing *TypeReference, name string) *TypeReference {
	return &TypeReference{Kind: RefSimple, Name: name, Namespace: enclosing.Namespace, Enclosing: enclosing}
}

// Generic returns a reference to a parameterized type.
func Generic(raw *TypeReference, args ...*TypeReference) *TypeReference {
	return &TypeReference{
		Kind:      RefParameterized,
		Name:      raw.Name,
		Namespace: raw.Namespace,
		Enclosing: raw.Enclosing,
		TypeArgs:  args,
	}
}

// ArrayOf returns a depth-dimensional array of elem. Arrays of arrays are
// folded into a single reference with the combined depth.
func ArrayOf(elem *TypeReference, depth int) *TypeReference {
	if elem.Kind == RefArray {
		return ArrayOf(elem.Elem, depth+elem.ArrayDepth)
	}
	return &TypeReference{Kind: RefArray, ArrayDepth: depth, Elem: elem}
}

// Variable returns a reference to an unbound type variable or wildcard.
func Variable(name string) *TypeReference {
	return &TypeReference{Kind: RefVariable, Name: name}
}

// Raw returns the reference whose name and namespace decide qualification:
// the innermost element for arrays, the reference itself otherwise.
func (r *TypeReference) Raw() *TypeReference {
	if r.Kind == RefArray && r.Elem != nil {
		return r.Elem.Raw()
	}
	return r
}

// QualifiedName identifies the raw referenced type, using '$' between a
// nested type and its declarer.
func (r *TypeReference) QualifiedName() string {
	raw := r.Raw()
	if raw.Enclosing != nil {
		return raw.Enclosing.QualifiedName() + "$" + raw.Name
	}
	if raw.Namespace == "" {
		return raw.Name
	}
	return raw.Namespace + "." + raw.Name
}

// CanonicalName is QualifiedName with '.' between nested types.
func (r *TypeReference) CanonicalName() string {
	raw := r.Raw()
	if raw.Enclosing != nil {
		return raw.Enclosing.CanonicalName() + "." + raw.Name
	}
	if raw.Namespace == "" {
		return raw.Name
	}
	return raw.Namespace + "." + raw.Name
}

// Outermost follows Enclosing up to the top-level declarer.
func (r *TypeReference) Outermost() *TypeReference {
	raw := r.Raw()
	for raw.Enclosing != nil {
		raw = raw.Enclosing
	}
	return raw
}

// IsBoolean reports whether r is the boolean primitive.
func (r *TypeReference) IsBoolean() bool {
	return r.Kind == RefSimple && r.Namespace == "" && r.Enclosing == nil && r.Name == "boolean"
}

// SourceName is the erased simple name as written in the source, e.g.
// "List" for List<Bean> and "Bean[][]" for a two dimensional array.
func (r *TypeReference) SourceName() string {
	if r.Kind == RefArray && r.Elem != nil {
		return r.Elem.SourceName() + strings.Repeat("[]", r.ArrayDepth)
	}
	return r.Name
}

// Validate checks the shape invariants of r and its components.
func (r *TypeReference) Validate() error {
	if r == nil {
		return errors.New("missing type reference")
	}
	switch r.Kind {
	case RefSimple:
		if r.Name == "" {
			return errors.New("type reference has no name")
		}
	case RefArray:
		if r.ArrayDepth <= 0 {
			return errors.Newf("array reference has dimension %d", r.ArrayDepth)
		}
		if r.Elem == nil {
			return errors.New("array reference has no element type")
		}
		if r.Elem.Kind == RefArray {
			return errors.New("array element must not itself be an array")
		}
		return r.Elem.Validate()
	case RefParameterized:
		if r.Name == "" {
			return errors.New("parameterized reference has no raw type")
		}
		if len(r.TypeArgs) == 0 {
			return errors.Newf("parameterized reference %s has no type arguments", r.Name)
		}
		for _, arg := range r.TypeArgs {
			if err := arg.Validate(); err != nil {
				return err
			}
		}
	case RefVariable:
		return errors.Newf("type variable %q has no concrete raw type", r.Name)
	default:
		return errors.Newf("unknown reference kind %d", r.Kind)
	}
	return nil
}

// Link sets Enclosing on every nested definition below t and lets nested
// definitions inherit t's namespace.
func (t *TypeDefinition) Link() {
	for _, n := range t.NestedTypes {
		n.Enclosing = t
		if n.Namespace == "" {
			n.Namespace = t.Namespace
		}
		n.Link()
	}
}

// QualifiedName identifies the definition, using '$' for nesting.
func (t *TypeDefinition) QualifiedName() string {
	if t.Enclosing != nil {
		return t.Enclosing.QualifiedName() + "$" + t.Name
	}
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

// CanonicalName is QualifiedName with '.' between nested types.
func (t *TypeDefinition) CanonicalName() string {
	if t.Enclosing != nil {
		return t.Enclosing.CanonicalName() + "." + t.Name
	}
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

// Outermost returns the top-level definition t is nested in, or t itself.
func (t *TypeDefinition) Outermost() *TypeDefinition {
	for t.Enclosing != nil {
		t = t.Enclosing
	}
	return t
}

// Ref returns a simple reference naming t.
func (t *TypeDefinition) Ref() *TypeReference {
	if t.Enclosing != nil {
		return Nested(t.Enclosing.Ref(), t.Name)
	}
	return Simple(t.Namespace, t.Name)
}

// HasModifier reports whether m was declared on t.
func (t *TypeDefinition) HasModifier(m Modifier) bool {
	for _, have := range t.Modifiers {
		if have == m {
			return true
		}
	}
	return false
}

// ModifierString renders t's modifiers in canonical order, each followed by
// a space. Enums never render final.
func (t *TypeDefinition) ModifierString() string {
	var sb strings.Builder
	for _, m := range modifierOrder {
		if m == ModFinal && t.Kind == KindEnum {
			continue
		}
		if t.HasModifier(m) {
			sb.WriteString(string(m))
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// Nested finds a directly nested definition by simple name.
func (t *TypeDefinition) Nested(name string) *TypeDefinition {
	for _, n := range t.NestedTypes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// IsTypeParam reports whether name is one of t's type parameters or of a
// definition enclosing it.
func (t *TypeDefinition) IsTypeParam(name string) bool {
	for d := t; d != nil; d = d.Enclosing {
		for _, p := range d.TypeParams {
			if p == name {
				return true
			}
		}
	}
	return false
}
