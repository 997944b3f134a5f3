package model

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

// ParseTypeExpr parses a Java style type expression as written in model
// descriptors:
//
//	int
//	String
//	fr.maven.dto.bean.Bean[]
//	java.util.Map<String, java.util.List<Bean>>
//	java.util.Map$Entry<K, V>[][]
//	? extends Number
//
// '$' separates a nested type from its declarer. The returned reference is
// unlinked: unqualified names keep an empty namespace.
func ParseTypeExpr(s string) (*TypeReference, error) {
	p := &exprParser{src: s}
	ref, err := p.parseType()
	if err != nil {
		return nil, errors.Wrapf(err, "parse type %q", s)
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, errors.Newf("parse type %q: unexpected %q at offset %d", s, p.src[p.pos:], p.pos)
	}
	return ref, nil
}

type exprParser struct {
	src string
	pos int
}

func (p *exprParser) parseType() (*TypeReference, error) {
	p.skipSpace()
	if p.peek() == '?' {
		return p.parseWildcard()
	}

	ref, err := p.parseName()
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	if p.peek() == '<' {
		p.pos++
		var args []*TypeReference
	loop:
		for {
			arg, err := p.parseType()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			p.skipSpace()
			switch p.peek() {
			case ',':
				p.pos++
			case '>':
				p.pos++
				break loop
			default:
				return nil, errors.Newf("expected ',' or '>' at offset %d", p.pos)
			}
		}
		ref = Generic(ref, args...)
	}

	depth := 0
	for {
		p.skipSpace()
		if p.peek() != '[' {
			break
		}
		p.pos++
		p.skipSpace()
		if p.peek() != ']' {
			return nil, errors.Newf("expected ']' at offset %d", p.pos)
		}
		p.pos++
		depth++
	}
	if depth > 0 {
		ref = ArrayOf(ref, depth)
	}
	return ref, nil
}

func (p *exprParser) parseWildcard() (*TypeReference, error) {
	start := p.pos
	p.pos++ // '?'
	p.skipSpace()
	mark := p.pos
	switch p.ident() {
	case "":
		return Variable("?"), nil
	case "extends", "super":
		if _, err := p.parseType(); err != nil {
			return nil, err
		}
		return Variable(strings.TrimSpace(p.src[start:p.pos])), nil
	default:
		return nil, errors.Newf("unexpected %q after wildcard at offset %d", p.src[mark:p.pos], mark)
	}
}

func (p *exprParser) parseName() (*TypeReference, error) {
	first := p.ident()
	if first == "" {
		return nil, errors.Newf("expected type name at offset %d", p.pos)
	}
	parts := []string{first}
	for p.peek() == '.' {
		p.pos++
		id := p.ident()
		if id == "" {
			return nil, errors.Newf("expected identifier at offset %d", p.pos)
		}
		parts = append(parts, id)
	}

	ref := Simple(strings.Join(parts[:len(parts)-1], "."), parts[len(parts)-1])
	for p.peek() == '$' {
		p.pos++
		id := p.ident()
		if id == "" {
			return nil, errors.Newf("expected nested type name at offset %d", p.pos)
		}
		ref = Nested(ref, id)
	}
	return ref, nil
}

func (p *exprParser) ident() string {
	start := p.pos
	for p.pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !(unicode.IsLetter(r) || r == '_' || (p.pos > start && unicode.IsDigit(r))) {
			break
		}
		p.pos += size
	}
	return p.src[start:p.pos]
}

func (p *exprParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}
