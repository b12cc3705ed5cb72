// Package binding parses and formats ZMK binding strings such as
// "&mt LCTRL A" or "&kp LC(LS(TAB))".
package binding

import (
	"fmt"
	"strings"

	zmkerrors "github.com/CaddyGlow/zmk-layout/core/errors"
)

// Param is a recursive binding parameter: a bare token, or a token followed
// by a parenthesized argument list (itself a list of Params), to represent
// nested forms like LC(LA(DEL)).
type Param struct {
	Value  string  `json:"value"`
	Params []Param `json:"params,omitempty"`
}

// Binding is a parsed ZMK behavior invocation.
type Binding struct {
	Value  string  `json:"value"` // behavior reference, always starting with "&"
	Params []Param `json:"params,omitempty"`
}

// Equal reports deep structural equality, used by tests and round-trip checks.
func (b Binding) Equal(o Binding) bool {
	if b.Value != o.Value || len(b.Params) != len(o.Params) {
		return false
	}
	for i := range b.Params {
		if !b.Params[i].equal(o.Params[i]) {
			return false
		}
	}
	return true
}

func (p Param) equal(o Param) bool {
	if p.Value != o.Value || len(p.Params) != len(o.Params) {
		return false
	}
	for i := range p.Params {
		if !p.Params[i].equal(o.Params[i]) {
			return false
		}
	}
	return true
}

// Parse parses a trimmed binding string into a Binding. The leading token
// must be "&<ident>"; anything else is an InvalidBinding error.
func Parse(s string) (Binding, error) {
	p := &parser{input: s}
	p.skipSpace()
	if p.pos >= len(p.input) || p.input[p.pos] != '&' {
		return Binding{}, zmkerrors.New(zmkerrors.InvalidBinding,
			fmt.Sprintf("binding %q must start with '&'", s))
	}
	p.pos++
	head := p.readIdent()
	if head == "" {
		return Binding{}, zmkerrors.New(zmkerrors.InvalidBinding,
			fmt.Sprintf("binding %q has no behavior name after '&'", s))
	}
	b := Binding{Value: "&" + head}

	for {
		p.skipSpace()
		if p.pos >= len(p.input) {
			break
		}
		param, err := p.readParam()
		if err != nil {
			return Binding{}, err
		}
		b.Params = append(b.Params, param)
	}
	return b, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '-' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func (p *parser) readIdent() string {
	start := p.pos
	for p.pos < len(p.input) && isIdentByte(p.input[p.pos]) {
		p.pos++
	}
	return p.input[start:p.pos]
}

// readParam reads one top-level token, optionally followed immediately by a
// parenthesized, comma-or-space separated argument list.
func (p *parser) readParam() (Param, error) {
	start := p.pos
	// A bare token may itself start with a sign for negative numbers.
	if p.pos < len(p.input) && p.input[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.input) && isIdentByte(p.input[p.pos]) {
		p.pos++
	}
	name := p.input[start:p.pos]
	if name == "" {
		return Param{}, zmkerrors.New(zmkerrors.InvalidBinding,
			fmt.Sprintf("unexpected character %q in binding %q at position %d", p.input[p.pos:p.pos+1], p.input, p.pos))
	}

	if p.pos < len(p.input) && p.input[p.pos] == '(' {
		p.pos++
		var args []Param
		for {
			p.skipSpace()
			if p.pos < len(p.input) && p.input[p.pos] == ')' {
				p.pos++
				break
			}
			if p.pos >= len(p.input) {
				return Param{}, zmkerrors.New(zmkerrors.InvalidBinding,
					fmt.Sprintf("unterminated '(' in binding %q", p.input))
			}
			arg, err := p.readParam()
			if err != nil {
				return Param{}, err
			}
			args = append(args, arg)
			p.skipSpace()
			if p.pos < len(p.input) && (p.input[p.pos] == ',') {
				p.pos++
			}
		}
		return Param{Value: name, Params: args}, nil
	}
	return Param{Value: name}, nil
}

// Format renders a Binding back to its canonical textual form: head, a
// single space between top-level params, arguments joined by a single space
// inside parentheses.
func Format(b Binding) string {
	var sb strings.Builder
	sb.WriteString(b.Value)
	for _, p := range b.Params {
		sb.WriteByte(' ')
		formatParam(&sb, p)
	}
	return sb.String()
}

func formatParam(sb *strings.Builder, p Param) {
	sb.WriteString(p.Value)
	if len(p.Params) > 0 {
		sb.WriteByte('(')
		for i, a := range p.Params {
			if i > 0 {
				sb.WriteByte(' ')
			}
			formatParam(sb, a)
		}
		sb.WriteByte(')')
	}
}

// Canonicalize parses and reformats a binding string, normalizing whitespace.
func Canonicalize(s string) (string, error) {
	b, err := Parse(strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	return Format(b), nil
}
