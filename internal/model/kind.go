package model

import "strings"

// TypeKind tells classes and enums apart.
type TypeKind int

const (
	KindInvalid TypeKind = iota
	KindClass            // class with fields, constructor and accessors
	KindEnum             // enum with constants only
)

func (k TypeKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindEnum:
		return "enum"
	default:
		return "invalid"
	}
}

// ParseTypeKind maps a descriptor keyword to a TypeKind. An empty keyword
// means class.
func ParseTypeKind(s string) (TypeKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "class":
		return KindClass, true
	case "enum":
		return KindEnum, true
	default:
		return KindInvalid, false
	}
}

// RefKind is the shape of a TypeReference.
type RefKind int

const (
	RefSimple        RefKind = iota // Bean, java.lang.String, int
	RefArray                        // Bean[], Bean[][]
	RefParameterized                // java.util.List<Bean>
	RefVariable                     // T, ?, ? extends Bean
)

func (k RefKind) String() string {
	switch k {
	case RefSimple:
		return "simple"
	case RefArray:
		return "array"
	case RefParameterized:
		return "parameterized"
	case RefVariable:
		return "variable"
	default:
		return "unknown"
	}
}

// Modifier is a declaration modifier carried verbatim from the source type.
type Modifier string

const (
	ModPublic       Modifier = "public"
	ModProtected    Modifier = "protected"
	ModPrivate      Modifier = "private"
	ModAbstract     Modifier = "abstract"
	ModFinal        Modifier = "final"
	ModNative       Modifier = "native"
	ModStatic       Modifier = "static"
	ModStrict       Modifier = "strict"
	ModSynchronized Modifier = "synchronized"
	ModTransient    Modifier = "transient"
	ModVolatile     Modifier = "volatile"
)

// modifierOrder is the order modifiers are rendered in, whatever order the
// source listed them in.
var modifierOrder = []Modifier{
	ModPublic,
	ModProtected,
	ModPrivate,
	ModAbstract,
	ModFinal,
	ModNative,
	ModStatic,
	ModStrict,
	ModSynchronized,
	ModTransient,
	ModVolatile,
}

// ParseModifier validates a descriptor modifier keyword.
func ParseModifier(s string) (Modifier, bool) {
	m := Modifier(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range modifierOrder {
		if m == known {
			return m, true
		}
	}
	return "", false
}
