package discovery

import (
	"github.com/cockroachdb/errors"

	"github.com/cmmoran/dtogen/internal/model"
)

// linker gives unqualified names in parsed type expressions the namespace of
// the type they refer to.
type linker struct {
	index map[string]*model.TypeDefinition // top-level types by qualified name
}

func (l *linker) link(owner *model.TypeDefinition, ref *model.TypeReference) (*model.TypeReference, error) {
	switch ref.Kind {
	case model.RefArray:
		elem, err := l.link(owner, ref.Elem)
		if err != nil {
			return nil, err
		}
		return model.ArrayOf(elem, ref.ArrayDepth), nil
	case model.RefParameterized:
		raw := l.linkName(owner, &model.TypeReference{Kind: model.RefSimple, Name: ref.Name, Namespace: ref.Namespace, Enclosing: ref.Enclosing})
		if raw.Kind == model.RefVariable {
			return nil, errors.Newf("type parameter %s can not take type arguments", ref.Name)
		}
		args := make([]*model.TypeReference, 0, len(ref.TypeArgs))
		for _, a := range ref.TypeArgs {
			arg, err := l.link(owner, a)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		return model.Generic(raw, args...), nil
	case model.RefSimple:
		return l.linkName(owner, ref), nil
	default:
		return ref, nil
	}
}

func (l *linker) linkName(owner *model.TypeDefinition, ref *model.TypeReference) *model.TypeReference {
	if ref.Enclosing != nil {
		return model.Nested(l.linkName(owner, ref.Enclosing), ref.Name)
	}
	if ref.Namespace != "" || model.IsPrimitive(ref.Name) {
		return ref
	}
	if owner.IsTypeParam(ref.Name) {
		return model.Variable(ref.Name)
	}
	for d := owner; d != nil; d = d.Enclosing {
		if d.Name == ref.Name {
			return d.Ref()
		}
		if n := d.Nested(ref.Name); n != nil {
			return n.Ref()
		}
	}
	top := owner.Outermost()
	if top.Namespace != "" {
		if def, ok := l.index[top.Namespace+"."+ref.Name]; ok {
			return def.Ref()
		}
	}
	return ref
}
