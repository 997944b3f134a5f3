package discovery

import (
	"github.com/cockroachdb/errors"

	"github.com/cmmoran/dtogen/internal/model"
)

// descriptorFile is one YAML model descriptor:
//
//	namespace: fr.maven.dto.bean
//	types:
//	  - name: Bean
//	    modifiers: [public]
//	    fields:
//	      - {name: attribut1, type: String}
//	      - {name: a, type: char}
type descriptorFile struct {
	Namespace string           `yaml:"namespace"`
	Types     []typeDescriptor `yaml:"types"`
}

type typeDescriptor struct {
	Name       string            `yaml:"name"`
	Kind       string            `yaml:"kind"`
	Modifiers  []string          `yaml:"modifiers"`
	TypeParams []string          `yaml:"typeParams"`
	Fields     []fieldDescriptor `yaml:"fields"`
	Constants  []string          `yaml:"constants"`
	Nested     []typeDescriptor  `yaml:"nested"`
}

type fieldDescriptor struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Static bool   `yaml:"static"`
}

// pendingField remembers the type expression of a field until every type is
// known and references can be linked.
type pendingField struct {
	owner *model.TypeDefinition
	field *model.FieldDefinition
	expr  string
}

// build converts d into a definition. Field types are collected into pending
// and left nil.
func (d typeDescriptor) build(namespace string, pending *[]pendingField) (*model.TypeDefinition, error) {
	if d.Name == "" {
		return nil, errors.New("type without a name")
	}
	kind, ok := model.ParseTypeKind(d.Kind)
	if !ok {
		return nil, errors.Newf("type %s: unknown kind %q", d.Name, d.Kind)
	}
	if kind == model.KindClass && len(d.Constants) > 0 {
		return nil, errors.WithHint(
			errors.Newf("type %s: constants on a class", d.Name),
			"set kind: enum",
		)
	}

	def := &model.TypeDefinition{
		Name:          d.Name,
		Namespace:     namespace,
		Kind:          kind,
		TypeParams:    d.TypeParams,
		EnumConstants: d.Constants,
	}
	for _, s := range d.Modifiers {
		m, ok := model.ParseModifier(s)
		if !ok {
			return nil, errors.Newf("type %s: unknown modifier %q", d.Name, s)
		}
		def.Modifiers = append(def.Modifiers, m)
	}

	seen := make(map[string]bool, len(d.Fields))
	for _, fd := range d.Fields {
		if fd.Name == "" {
			return nil, errors.Newf("type %s: field without a name", d.Name)
		}
		if seen[fd.Name] {
			return nil, errors.Newf("type %s: duplicate field %s", d.Name, fd.Name)
		}
		seen[fd.Name] = true
		if fd.Type == "" {
			return nil, errors.Newf("type %s: field %s has no type", d.Name, fd.Name)
		}
		f := &model.FieldDefinition{Name: fd.Name, Static: fd.Static}
		def.Fields = append(def.Fields, f)
		*pending = append(*pending, pendingField{owner: def, field: f, expr: fd.Type})
	}

	for _, nd := range d.Nested {
		n, err := nd.build("", pending)
		if err != nil {
			return nil, errors.Wrapf(err, "in %s", d.Name)
		}
		def.NestedTypes = append(def.NestedTypes, n)
	}
	return def, nil
}
