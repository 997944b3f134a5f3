package generator

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/dtogen/internal/model"
	"github.com/cmmoran/dtogen/pkg/options"
)

const (
	beanNS   = "fr.maven.dto.bean"
	otherNS  = "fr.maven.dto.other"
	targetNS = "pkg.dto"
)

var fixedClock = func() time.Time {
	return time.Date(2026, time.October, 15, 9, 30, 42, 0, time.UTC)
}

func beanDef() *model.TypeDefinition {
	d := &model.TypeDefinition{
		Name:      "Bean",
		Namespace: beanNS,
		Kind:      model.KindClass,
		Modifiers: []model.Modifier{model.ModPublic},
		Fields: []*model.FieldDefinition{
			{Name: "attribut1", Type: model.Simple("java.lang", "String")},
			{Name: "a", Type: model.Simple("", "char")},
		},
	}
	d.Link()
	return d
}

func bean2Def() *model.TypeDefinition {
	bean := model.Simple(beanNS, "Bean")
	d := &model.TypeDefinition{
		Name:      "Bean2",
		Namespace: beanNS,
		Kind:      model.KindClass,
		Modifiers: []model.Modifier{model.ModPublic},
		Fields: []*model.FieldDefinition{
			{Name: "bean", Type: bean},
			{Name: "beans", Type: model.Generic(model.Simple("java.util", "List"), bean)},
			{Name: "beanArray", Type: model.ArrayOf(bean, 1)},
		},
	}
	d.Link()
	return d
}

func colorDef() *model.TypeDefinition {
	d := &model.TypeDefinition{
		Name:          "Color",
		Namespace:     beanNS,
		Kind:          model.KindEnum,
		Modifiers:     []model.Modifier{model.ModPublic, model.ModFinal},
		EnumConstants: []string{"RED", "GREEN", "BLUE"},
	}
	d.Link()
	return d
}

func outerDef() *model.TypeDefinition {
	outer := model.Simple(beanNS, "Outer")
	d := &model.TypeDefinition{
		Name:      "Outer",
		Namespace: beanNS,
		Kind:      model.KindClass,
		Modifiers: []model.Modifier{model.ModPublic},
		Fields: []*model.FieldDefinition{
			{Name: "LOG", Type: model.Simple("org.slf4j", "Logger"), Static: true},
			{Name: "active", Type: model.Simple("", "boolean")},
			{Name: "inner", Type: model.Nested(outer, "Inner")},
			{Name: "entry", Type: model.Generic(
				model.Nested(model.Simple("java.util", "Map"), "Entry"),
				model.Simple("java.lang", "String"),
				model.Simple(beanNS, "Bean"),
			)},
			{Name: "level", Type: model.Nested(outer, "Level")},
		},
		NestedTypes: []*model.TypeDefinition{
			{
				Name:      "Inner",
				Kind:      model.KindClass,
				Modifiers: []model.Modifier{model.ModPublic},
				Fields: []*model.FieldDefinition{
					{Name: "outer", Type: outer},
					{Name: "values", Type: model.ArrayOf(model.Simple("", "int"), 2)},
					{Name: "x", Type: model.Simple("java.lang", "String")},
				},
			},
			{
				Name:          "Level",
				Kind:          model.KindEnum,
				Modifiers:     []model.Modifier{model.ModPublic, model.ModStatic, model.ModFinal},
				EnumConstants: []string{"LOW", "HIGH"},
			},
		},
	}
	d.Link()
	return d
}

func testOptions(t *testing.T) *options.Options {
	t.Helper()
	o := options.New(options.WithOutDir("/out"), options.WithTargetNamespace(targetNS))
	require.NoError(t, o.Normalize())
	return o
}

// requireGolden compares got with testdata/expectations/<name>.
func requireGolden(t *testing.T, name, got string) {
	t.Helper()
	expected, err := os.ReadFile(filepath.Join("testdata", "expectations", name))
	require.NoError(t, err)
	if diff := cmp.Diff(string(expected), got); diff != "" {
		t.Fatalf("%s mismatch (-want +got):\n%s", name, diff)
	}
}
