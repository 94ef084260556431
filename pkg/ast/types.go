package ast

import (
	"fmt"
	"strings"
	"unicode"
)

// Type is a semantic type descriptor: a base name plus ordered parameters,
// e.g. Dictionary<String, Int>.
type Type struct {
	Name   string
	Params []*Type
}

// T builds a type from a name and parameters.
func T(name string, params ...*Type) *Type {
	return &Type{Name: name, Params: params}
}

// String renders the type in Name<P1, P2> notation.
func (t *Type) String() string {
	if t == nil {
		return ""
	}
	if len(t.Params) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	return t.Name + "<" + strings.Join(parts, ", ") + ">"
}

// Equal reports structural equality.
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Name != other.Name || len(t.Params) != len(other.Params) {
		return false
	}
	for i := range t.Params {
		if !t.Params[i].Equal(other.Params[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (t *Type) Clone() *Type {
	if t == nil {
		return nil
	}
	out := &Type{Name: t.Name}
	if len(t.Params) > 0 {
		out.Params = make([]*Type, len(t.Params))
		for i, p := range t.Params {
			out.Params[i] = p.Clone()
		}
	}
	return out
}

// ParseType parses Name<P1, P2> notation. Nesting is unbounded.
func ParseType(src string) (*Type, error) {
	p := &typeParser{src: src}
	t, err := p.parse()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("ast: parse type %q: unexpected %q at offset %d", src, p.src[p.pos:], p.pos)
	}
	return t, nil
}

// MustParseType panics when src is not a valid type. Intended for tests and
// static tables.
func MustParseType(src string) *Type {
	t, err := ParseType(src)
	if err != nil {
		panic(err)
	}
	return t
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) parse() (*Type, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		r := rune(p.src[p.pos])
		if r == '<' || r == '>' || r == ',' || unicode.IsSpace(r) {
			break
		}
		p.pos++
	}
	if start == p.pos {
		return nil, fmt.Errorf("ast: parse type %q: expected name at offset %d", p.src, start)
	}
	t := &Type{Name: p.src[start:p.pos]}

	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != '<' {
		return t, nil
	}
	p.pos++
	for {
		param, err := p.parse()
		if err != nil {
			return nil, err
		}
		t.Params = append(t.Params, param)
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, fmt.Errorf("ast: parse type %q: unterminated parameter list", p.src)
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case '>':
			p.pos++
			return t, nil
		default:
			return nil, fmt.Errorf("ast: parse type %q: unexpected %q at offset %d", p.src, p.src[p.pos], p.pos)
		}
	}
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}
