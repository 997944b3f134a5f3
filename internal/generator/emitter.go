package generator

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/cmmoran/dtogen/internal/model"
)

const (
	// Banner is the first line of every generated doc comment.
	Banner = "This class was generated by dtogen."
	// TimestampLayout is the minute precision stamp under the banner.
	TimestampLayout = "2006-01-02 15:04"

	serializableImport = "java.io.Serializable"
	indentUnit         = "    "
)

// Emitter renders type definitions as mirror source text.
type Emitter struct {
	resolver        *Resolver
	targetNamespace string
	stamp           string
}

func NewEmitter(resolver *Resolver, targetNamespace string, generatedAt time.Time) *Emitter {
	return &Emitter{
		resolver:        resolver,
		targetNamespace: targetNamespace,
		stamp:           generatedAt.Format(TimestampLayout),
	}
}

// Emit renders def and writes it to w. Nested types are rendered inside
// def's body with no suffix of their own. With writeHeader the package
// declaration and imports come first. Nothing is written when rendering
// fails.
func (e *Emitter) Emit(sc *Scope, def *model.TypeDefinition, w io.Writer, nameSuffix string, writeHeader bool) error {
	p := &printer{}
	if err := e.emit(p, sc, def, nameSuffix, writeHeader); err != nil {
		return err
	}
	_, err := w.Write(p.buf.Bytes())
	return err
}

func (e *Emitter) emit(p *printer, sc *Scope, def *model.TypeDefinition, nameSuffix string, writeHeader bool) error {
	switch def.Kind {
	case model.KindEnum:
		e.emitEnum(p, def, nameSuffix, writeHeader)
		return nil
	case model.KindClass:
		return e.emitClass(p, sc, def, nameSuffix, writeHeader)
	default:
		return &LookupError{Type: def.CanonicalName(), Err: errors.Newf("unsupported type kind %s", def.Kind)}
	}
}

func (e *Emitter) emitEnum(p *printer, def *model.TypeDefinition, nameSuffix string, writeHeader bool) {
	if writeHeader {
		e.writeHeader(p, nil)
	}
	e.writeTypeDoc(p)
	p.linef("%senum %s%s implements Serializable {", def.ModifierString(), def.Name, nameSuffix)
	p.blank()
	p.indent++
	for i, c := range def.EnumConstants {
		if i < len(def.EnumConstants)-1 {
			p.linef("%s,", c)
		} else {
			p.linef("%s", c)
		}
	}
	p.indent--
	p.blank()
	p.linef("}")
}

// mirroredField is a field together with the name its type resolved to.
type mirroredField struct {
	field  *model.FieldDefinition
	typ    string
	getter string
	setter string
}

func (e *Emitter) emitClass(out *printer, sc *Scope, def *model.TypeDefinition, nameSuffix string, writeHeader bool) error {
	fields, err := e.resolveFields(sc, def)
	if err != nil {
		return err
	}

	name := def.Name + nameSuffix
	source := def.CanonicalName()

	// The body is rendered first: nested types add imports the header needs.
	p := &printer{indent: out.indent}
	e.writeTypeDoc(p)
	p.linef("%sclass %s implements Serializable {", def.ModifierString(), name)
	p.blank()
	p.indent++
	p.linef("private static final long serialVersionUID = 1L;")
	p.blank()

	for _, f := range fields {
		p.doc("@see %s#%s", source, f.field.Name)
		p.linef("private %s %s;", f.typ, f.field.Name)
		p.blank()
	}

	params := make([]string, len(fields))
	for i, f := range fields {
		params[i] = f.typ + " " + f.field.Name
	}
	p.linef("public %s(%s) {", name, strings.Join(params, ", "))
	p.indent++
	for _, f := range fields {
		p.linef("this.%s = %s;", f.field.Name, f.field.Name)
	}
	p.indent--
	p.linef("}")
	p.blank()

	for _, f := range fields {
		p.doc("@see %s#%s()", source, f.getter)
		p.linef("public %s %s() {", f.typ, f.getter)
		p.indent++
		p.linef("return this.%s;", f.field.Name)
		p.indent--
		p.linef("}")
		p.blank()

		p.doc("@see %s#%s(%s)", source, f.setter, f.field.Type.SourceName())
		p.linef("public void %s(%s %s) {", f.setter, f.typ, f.field.Name)
		p.indent++
		p.linef("this.%s = %s;", f.field.Name, f.field.Name)
		p.indent--
		p.linef("}")
		p.blank()
	}

	for _, nested := range def.NestedTypes {
		// only cyclic input lists a definition among its own nested types
		if nested == def {
			continue
		}
		if err := e.emit(p, sc, nested, "", false); err != nil {
			return err
		}
		p.blank()
	}

	p.indent--
	p.linef("}")

	if writeHeader {
		e.writeHeader(out, sc.Imports())
	}
	out.buf.Write(p.buf.Bytes())
	return nil
}

// resolveFields selects the fields def's mirror declares, in declaration
// order, and resolves each type once so every site prints the same name.
func (e *Emitter) resolveFields(sc *Scope, def *model.TypeDefinition) ([]mirroredField, error) {
	out := make([]mirroredField, 0, len(def.Fields))
	for _, f := range def.Fields {
		if f.Static || referencesEnclosing(def, f) {
			continue
		}
		typ, err := e.resolver.Resolve(sc, def, f.Type)
		if err != nil {
			return nil, errors.WithStack(&LookupError{Type: def.CanonicalName(), Field: f.Name, Err: err})
		}
		getter, setter := AccessorNames(f)
		out = append(out, mirroredField{field: f, typ: typ, getter: getter, setter: setter})
	}
	return out, nil
}

// referencesEnclosing reports whether f, declared in a nested type, is typed
// as that type's immediate declarer. Such fields are dropped.
func referencesEnclosing(def *model.TypeDefinition, f *model.FieldDefinition) bool {
	if def.Enclosing == nil || f.Type == nil || f.Type.Kind == model.RefArray || f.Type.Kind == model.RefVariable {
		return false
	}
	return f.Type.QualifiedName() == def.Enclosing.QualifiedName()
}

func (e *Emitter) writeHeader(p *printer, imports []string) {
	p.linef("package %s;", e.targetNamespace)
	p.blank()
	p.linef("import %s;", serializableImport)
	for _, imp := range imports {
		p.linef("import %s;", imp)
	}
	p.blank()
}

func (e *Emitter) writeTypeDoc(p *printer) {
	p.linef("/**")
	p.linef(" * %s", Banner)
	p.linef(" * %s", e.stamp)
	p.linef(" */")
}

// printer accumulates indented source lines.
type printer struct {
	buf    bytes.Buffer
	indent int
}

func (p *printer) linef(format string, args ...any) {
	p.buf.WriteString(strings.Repeat(indentUnit, p.indent))
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

func (p *printer) blank() {
	p.buf.WriteByte('\n')
}

func (p *printer) doc(format string, args ...any) {
	p.linef("/**")
	p.linef(" * "+format, args...)
	p.linef(" */")
}
