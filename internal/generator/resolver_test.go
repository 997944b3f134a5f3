package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/dtogen/internal/model"
)

func TestResolve(ttt *testing.T) {
	bean := model.Simple(beanNS, "Bean")
	foo := model.Simple(otherNS, "Foo")
	list := model.Simple("java.util", "List")
	beanInner := model.Nested(bean, "Inner")
	loose := model.Simple("", "Loose")

	mirrors := NewMirrorSet(
		beanDef(),
		bean2Def(),
		&model.TypeDefinition{Name: "Foo", Namespace: otherNS, Kind: model.KindClass},
		&model.TypeDefinition{Name: "Loose", Kind: model.KindClass},
	)
	resolver := NewResolver(mirrors, targetNS, "DTO", "java.lang")
	enclosing := bean2Def()

	tests := []struct {
		name    string
		scope   *model.TypeDefinition
		ref     *model.TypeReference
		want    string
		imports []string
	}{
		{name: "implicit namespace", ref: model.Simple("java.lang", "String"), want: "String"},
		{name: "unqualified", ref: model.Simple("", "String"), want: "String"},
		{name: "primitive", ref: model.Simple("", "int"), want: "int"},
		{name: "mirrored same namespace", ref: bean, want: "BeanDTO"},
		{name: "mirrored other namespace", ref: foo, want: "pkg.dto.FooDTO"},
		{name: "mirrored default namespace", ref: loose, want: "LooseDTO"},
		{name: "external", ref: model.Simple("java.util", "Date"), want: "java.util.Date"},
		{name: "external array", ref: model.ArrayOf(model.Simple("java.util", "Date"), 1), want: "java.util.Date[]"},
		{name: "mirrored array", ref: model.ArrayOf(bean, 1), want: "BeanDTO[]"},
		{name: "mirrored two dimensional array", ref: model.ArrayOf(bean, 2), want: "BeanDTO[][]"},
		{name: "container of mirrored", ref: model.Generic(list, bean), want: "java.util.List<BeanDTO>"},
		{
			name: "nested generics and arrays",
			ref: model.Generic(model.Simple("java.util", "Map"),
				model.Simple("java.lang", "String"),
				model.Generic(list, model.ArrayOf(foo, 1)),
			),
			want: "java.util.Map<String, java.util.List<pkg.dto.FooDTO[]>>",
		},
		{name: "array of generic", ref: model.ArrayOf(model.Generic(list, bean), 1), want: "java.util.List<BeanDTO>[]"},
		{
			name:    "external nested",
			ref:     model.Generic(model.Nested(model.Simple("java.util", "Map"), "Entry"), model.Simple("java.lang", "String"), bean),
			want:    "Entry<String, BeanDTO>",
			imports: []string{"java.util.Map.Entry"},
		},
		{
			name:    "nested in another mirror",
			ref:     beanInner,
			want:    "Inner",
			imports: []string{"pkg.dto.BeanDTO.Inner"},
		},
		{
			name:  "nested inline in current artifact",
			scope: beanDef(),
			ref:   beanInner,
			want:  "Inner",
		},
		{
			name:    "deeply nested in another mirror",
			ref:     model.Nested(beanInner, "Deep"),
			want:    "Deep",
			imports: []string{"pkg.dto.BeanDTO.Inner.Deep"},
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			artifact := enclosing
			if tt.scope != nil {
				artifact = tt.scope
			}
			sc := NewScope(artifact)
			got, err := resolver.Resolve(sc, enclosing, tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.imports == nil {
				assert.Empty(t, sc.Imports())
			} else {
				assert.Equal(t, tt.imports, sc.Imports())
			}
		})
	}
}

func TestResolveNotMirrored(t *testing.T) {
	resolver := NewResolver(NewMirrorSet(bean2Def()), targetNS, "DTO", "java.lang")
	bean := model.Simple(beanNS, "Bean")
	sc := NewScope(bean2Def())

	tests := []struct {
		ref  *model.TypeReference
		want string
	}{
		{ref: bean, want: "fr.maven.dto.bean.Bean"},
		{ref: model.ArrayOf(bean, 1), want: "fr.maven.dto.bean.Bean[]"},
		{ref: model.Generic(model.Simple("java.util", "List"), bean), want: "java.util.List<fr.maven.dto.bean.Bean>"},
	}
	for _, tt := range tests {
		got, err := resolver.Resolve(sc, bean2Def(), tt.ref)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestResolveSeparatelyMirroredNested(t *testing.T) {
	outer := outerDef()
	inner := outer.Nested("Inner")
	resolver := NewResolver(NewMirrorSet(bean2Def(), inner), targetNS, "DTO", "java.lang")

	got, err := resolver.Resolve(NewScope(bean2Def()), bean2Def(), inner.Ref())
	require.NoError(t, err)
	assert.Equal(t, "InnerDTO", got)

	// Inside its own outer artifact the inline copy is used.
	got, err = resolver.Resolve(NewScope(outer), outer, inner.Ref())
	require.NoError(t, err)
	assert.Equal(t, "Inner", got)
}

func TestResolveNestedNameTaken(t *testing.T) {
	mapEntry := model.Nested(model.Simple("java.util", "Map"), "Entry")
	ledgerEntry := model.Nested(model.Simple("com.acme", "Ledger"), "Entry")
	beanInner := model.Nested(model.Simple(beanNS, "Bean"), "Inner")
	resolver := NewResolver(NewMirrorSet(beanDef(), outerDef()), targetNS, "DTO", "java.lang")

	t.Run("inline nested type keeps the simple name", func(t *testing.T) {
		outer := outerDef()
		outer.NestedTypes = append(outer.NestedTypes, &model.TypeDefinition{Name: "Entry", Kind: model.KindClass})
		outer.Link()
		sc := NewScope(outer)

		got, err := resolver.Resolve(sc, outer, model.Generic(mapEntry, model.Simple("java.lang", "String"), model.Simple(beanNS, "Bean")))
		require.NoError(t, err)
		assert.Equal(t, "java.util.Map.Entry<String, BeanDTO>", got)

		got, err = resolver.Resolve(sc, outer, beanInner)
		require.NoError(t, err)
		assert.Equal(t, "pkg.dto.BeanDTO.Inner", got)
		assert.Empty(t, sc.Imports())
	})

	t.Run("first import keeps the simple name", func(t *testing.T) {
		sc := NewScope(bean2Def())
		for _, want := range []string{"Entry", "com.acme.Ledger.Entry", "Entry"} {
			ref := mapEntry
			if want != "Entry" {
				ref = ledgerEntry
			}
			got, err := resolver.Resolve(sc, bean2Def(), ref)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
		assert.Equal(t, []string{"java.util.Map.Entry"}, sc.Imports())
	})
}

func TestResolveCustomSuffix(t *testing.T) {
	resolver := NewResolver(NewMirrorSet(beanDef()), "api.v1", "Out", "java.lang")
	got, err := resolver.Resolve(NewScope(bean2Def()), &model.TypeDefinition{Name: "X", Namespace: otherNS}, model.Simple(beanNS, "Bean"))
	require.NoError(t, err)
	assert.Equal(t, "api.v1.BeanOut", got)
}

func TestResolveLookupFailures(ttt *testing.T) {
	resolver := NewResolver(NewMirrorSet(), targetNS, "DTO", "java.lang")
	for name, ref := range map[string]*model.TypeReference{
		"type variable":     model.Variable("T"),
		"wildcard argument": model.Generic(model.Simple("java.util", "List"), model.Variable("?")),
		"array of variable": model.ArrayOf(model.Variable("T"), 1),
		"no name":           {Kind: model.RefSimple},
	} {
		ttt.Run(name, func(t *testing.T) {
			_, err := resolver.Resolve(NewScope(nil), beanDef(), ref)
			require.Error(t, err)
		})
	}
}

func TestAccessorNames(ttt *testing.T) {
	tests := []struct {
		field  *model.FieldDefinition
		getter string
		setter string
	}{
		{field: &model.FieldDefinition{Name: "active", Type: model.Simple("", "boolean")}, getter: "isActive", setter: "setActive"},
		{field: &model.FieldDefinition{Name: "a", Type: model.Simple("", "boolean")}, getter: "isA", setter: "setA"},
		{field: &model.FieldDefinition{Name: "a", Type: model.Simple("", "char")}, getter: "getA", setter: "setA"},
		{field: &model.FieldDefinition{Name: "valid", Type: model.Simple("java.lang", "Boolean")}, getter: "getValid", setter: "setValid"},
		{field: &model.FieldDefinition{Name: "aa", Type: model.Simple("", "int")}, getter: "getAa", setter: "setAa"},
		{field: &model.FieldDefinition{Name: "écrit", Type: model.Simple("", "int")}, getter: "getÉcrit", setter: "setÉcrit"},
	}
	for _, tt := range tests {
		ttt.Run(tt.field.Name+"/"+tt.field.Type.Name, func(t *testing.T) {
			getter, setter := AccessorNames(tt.field)
			assert.Equal(t, tt.getter, getter)
			assert.Equal(t, tt.setter, setter)
		})
	}
}
