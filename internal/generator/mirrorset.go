package generator

import "github.com/cmmoran/dtogen/internal/model"

// MirrorSet is the fixed set of types being mirrored in one run. Two
// definitions are the same member when they name the same underlying type.
type MirrorSet struct {
	members []*model.TypeDefinition
	index   map[string]*model.TypeDefinition
}

// NewMirrorSet builds a set from defs, keeping the first of any duplicates
// and the caller's order.
func NewMirrorSet(defs ...*model.TypeDefinition) *MirrorSet {
	s := &MirrorSet{
		members: make([]*model.TypeDefinition, 0, len(defs)),
		index:   make(map[string]*model.TypeDefinition, len(defs)),
	}
	for _, d := range defs {
		if d == nil {
			continue
		}
		key := d.QualifiedName()
		if _, ok := s.index[key]; ok {
			continue
		}
		s.index[key] = d
		s.members = append(s.members, d)
	}
	return s
}

// Contains reports whether def is mirrored.
func (s *MirrorSet) Contains(def *model.TypeDefinition) bool {
	if s == nil || def == nil {
		return false
	}
	_, ok := s.index[def.QualifiedName()]
	return ok
}

// ContainsRef reports whether the raw type named by ref is mirrored.
func (s *MirrorSet) ContainsRef(ref *model.TypeReference) bool {
	if s == nil || ref == nil {
		return false
	}
	_, ok := s.index[ref.QualifiedName()]
	return ok
}

// Members returns the mirrored types in the order they were given.
func (s *MirrorSet) Members() []*model.TypeDefinition {
	return s.members
}

func (s *MirrorSet) Len() int {
	return len(s.members)
}
