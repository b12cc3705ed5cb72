package dtparser

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/CaddyGlow/zmk-layout/core/ast"
	zmkerrors "github.com/CaddyGlow/zmk-layout/core/errors"
	"github.com/CaddyGlow/zmk-layout/core/token"
)

// maxDepth caps node nesting to guard against pathological or adversarial input.
const maxDepth = 256

// File is the parsed result: the devicetree allows multiple root nodes, and
// preprocessor directives that appear outside any node (most commonly a
// leading block of #define lines) are kept alongside them.
type File struct {
	Roots        []*ast.Node
	Conditionals []ast.Conditional
}

// AllConditionals returns every Conditional in the file, top-level and
// nested, in source order. The Define Resolver uses this to build its map.
func (f *File) AllConditionals() []ast.Conditional {
	out := append([]ast.Conditional(nil), f.Conditionals...)
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		out = append(out, n.Conditionals...)
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range f.Roots {
		walk(r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Line < out[j].Line })
	return out
}

type parser struct {
	tokens []token.Token
	pos    int
	source string
	errors zmkerrors.List
	depth  int
}

// Parse parses source into a File, failing on the first error.
func Parse(src string) (*File, error) {
	f, errs := ParseSafe(src)
	if errs.HasErrors() {
		return f, errs[0]
	}
	return f, nil
}

// ParseSafe parses source, always returning a best-effort AST alongside any
// errors encountered. It never panics and always terminates.
func ParseSafe(src string) (*File, zmkerrors.List) {
	toks, lexErrs := Tokenize(src)
	p := &parser{tokens: toks, source: src, errors: lexErrs}
	f := p.parseFile()
	return f, p.errors
}

func (p *parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Type: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *parser) peek(n int) token.Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return token.Token{Type: token.EOF}
	}
	return p.tokens[idx]
}

func (p *parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *parser) at(typ token.Type) bool { return p.cur().Type == typ }

func (p *parser) errf(pos token.Position, format string, args ...any) {
	p.errors = append(p.errors, zmkerrors.At(zmkerrors.Parse, fmt.Sprintf(format, args...), pos, p.source))
}

// isSyncToken reports whether the current token is a safe place to resume
// parsing after an error.
func (p *parser) isSyncToken() bool {
	switch p.cur().Type {
	case token.Semicolon, token.RBrace, token.EOF:
		return true
	}
	return false
}

// recover skips tokens until a synchronization point, guaranteeing the
// cursor advances past the bad token even if it is itself a sync token.
func (p *parser) recover() {
	p.advance()
	for !p.isSyncToken() {
		p.advance()
	}
}

func (p *parser) parseFile() *File {
	f := &File{}
	roots, conds, _ := p.parseItems(nil, 0)
	f.Roots = roots
	f.Conditionals = conds
	return f
}

// parseItems parses items until EOF (enclosing == nil) or a matching RBrace
// (enclosing != nil). It returns any root-level nodes, any conditionals not
// attached to a node (only meaningful when enclosing == nil), and trailing
// comments that were never attached to a following item.
func (p *parser) parseItems(enclosing *ast.Node, depth int) ([]*ast.Node, []ast.Conditional, []ast.Comment) {
	var roots []*ast.Node
	var floatingConditionals []ast.Conditional
	var pending []ast.Comment

	flushConditional := func(c ast.Conditional) {
		if enclosing != nil {
			enclosing.Conditionals = append(enclosing.Conditionals, c)
		} else {
			floatingConditionals = append(floatingConditionals, c)
		}
	}

	for {
		startPos := p.pos
		switch p.cur().Type {
		case token.EOF:
			return roots, floatingConditionals, pending

		case token.RBrace:
			if enclosing != nil {
				return roots, floatingConditionals, pending
			}
			p.errf(p.cur().Position, "unexpected '}' with no matching '{'")
			p.advance()
			continue

		case token.LineComment, token.BlockComment:
			tok := p.advance()
			pending = append(pending, ast.Comment{
				Text:    tok.Lexeme,
				IsBlock: tok.Type == token.BlockComment,
				Line:    tok.Position.Line,
				Column:  tok.Position.Column,
			})
			continue

		case token.Preprocessor:
			tok := p.advance()
			flushConditional(parsePreprocessorLine(tok))
			continue

		case token.Slash:
			// Anonymous root node: "/ { ... };"
			node, ok := p.parseNode("", depth)
			if ok {
				node.Comments = append(node.Comments, takeAssociated(&pending, node.Line)...)
				if enclosing != nil {
					enclosing.Children = append(enclosing.Children, node)
				} else {
					roots = append(roots, node)
				}
			}

		case token.Identifier, token.Colon:
			item, isNode := p.parseNodeOrProperty(depth)
			if item == nil {
				// Nothing was produced; avoid an infinite loop.
				if p.pos == startPos {
					p.recover()
				}
				continue
			}
			if isNode {
				n := item.(*ast.Node)
				n.Comments = append(n.Comments, takeAssociated(&pending, n.Line)...)
				if enclosing != nil {
					enclosing.Children = append(enclosing.Children, n)
				} else {
					roots = append(roots, n)
				}
			} else {
				prop := item.(*ast.Property)
				prop.Comments = append(prop.Comments, takeAssociated(&pending, prop.Line)...)
				if enclosing != nil {
					enclosing.Properties = append(enclosing.Properties, prop)
				} else {
					p.errf(token.Position{Line: prop.Line, Column: prop.Column}, "property %q outside of any node", prop.Name)
				}
			}

		default:
			p.errf(p.cur().Position, "unexpected token %s", p.cur().Type)
			p.recover()
		}

		if p.pos == startPos {
			// Safety valve: guarantee the monotonic-cursor invariant.
			p.advance()
		}
	}
}

// takeAssociated removes and returns comments from pending that are within
// 5 source lines of targetLine, per the comment-association rule.
func takeAssociated(pending *[]ast.Comment, targetLine int) []ast.Comment {
	var assoc []ast.Comment
	var rest []ast.Comment
	for _, c := range *pending {
		if targetLine-c.Line >= 0 && targetLine-c.Line <= 5 {
			assoc = append(assoc, c)
		} else {
			rest = append(rest, c)
		}
	}
	*pending = rest
	return assoc
}

// parseNodeOrProperty disambiguates `name ... {` (node) from `name ... ;`
// (property), accounting for an optional leading `label:`.
func (p *parser) parseNodeOrProperty(depth int) (any, bool) {
	label := ""
	if p.cur().Type == token.Identifier && p.peek(1).Type == token.Colon {
		label = p.advance().Lexeme
		p.advance() // consume ':'
	}

	if !p.at(token.Identifier) && !p.at(token.Slash) {
		p.errf(p.cur().Position, "expected identifier, got %s %q", p.cur().Type, p.cur().Lexeme)
		p.recover()
		return nil, false
	}

	// Lookahead to decide node vs property: scan past an optional '@unit'
	// to see whether '{' or '=' / ';' follows.
	la := 1
	if p.peek(la).Type == token.At {
		la += 2 // '@' and the unit-address token
	}
	switch p.peek(la).Type {
	case token.LBrace:
		node, ok := p.parseNode(label, depth)
		return node, ok && node != nil
	default:
		if label != "" {
			p.errf(p.cur().Position, "label %q applied to a property, only nodes may be labeled", label)
		}
		prop, ok := p.parseProperty()
		if !ok {
			return nil, false
		}
		return prop, false
	}
}

func (p *parser) parseNode(label string, depth int) (*ast.Node, bool) {
	if depth >= maxDepth {
		p.errf(p.cur().Position, "node nesting exceeds maximum depth of %d", maxDepth)
		p.recover()
		return nil, false
	}

	nameTok := p.cur()
	name := "/"
	if p.at(token.Slash) {
		p.advance()
	} else {
		name = p.advance().Lexeme
	}

	node := &ast.Node{
		Name:   name,
		Label:  label,
		Line:   nameTok.Position.Line,
		Column: nameTok.Position.Column,
	}

	if p.at(token.At) {
		p.advance()
		node.UnitAddress = p.advance().Lexeme
	}

	if !p.at(token.LBrace) {
		p.errf(p.cur().Position, "expected '{' to start node %q body, got %s", name, p.cur().Type)
		p.recover()
		return node, false
	}
	p.advance() // consume '{'

	children, conds, trailing := p.parseItems(node, depth+1)
	node.Children = append(node.Children, children...)
	node.Conditionals = append(node.Conditionals, conds...)
	node.Comments = append(node.Comments, trailing...)

	if !p.at(token.RBrace) {
		p.errf(p.cur().Position, "expected '}' to close node %q, got %s", name, p.cur().Type)
		return node, true
	}
	p.advance() // consume '}'

	if !p.at(token.Semicolon) {
		p.errf(p.cur().Position, "expected ';' after node %q, got %s", name, p.cur().Type)
		return node, true
	}
	p.advance() // consume ';'

	return node, true
}

func (p *parser) parseProperty() (*ast.Property, bool) {
	nameTok := p.advance()
	prop := &ast.Property{Name: nameTok.Lexeme, Line: nameTok.Position.Line, Column: nameTok.Position.Column}

	switch p.cur().Type {
	case token.Semicolon:
		p.advance()
		return prop, true

	case token.Equals:
		p.advance()
		for {
			v, ok := p.parseValue()
			if !ok {
				p.recover()
				return prop, true
			}
			prop.Values = append(prop.Values, v)
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
		if !p.at(token.Semicolon) {
			p.errf(p.cur().Position, "expected ';' after property %q, got %s", prop.Name, p.cur().Type)
			p.recover()
			return prop, true
		}
		p.advance()
		// Trailing same-line comment.
		if (p.at(token.LineComment) || p.at(token.BlockComment)) && p.cur().Position.Line == nameTok.Position.Line {
			tok := p.advance()
			prop.Comments = append(prop.Comments, ast.Comment{
				Text: tok.Lexeme, IsBlock: tok.Type == token.BlockComment,
				Line: tok.Position.Line, Column: tok.Position.Column,
			})
		}
		return prop, true

	default:
		p.errf(p.cur().Position, "expected '=' or ';' after property name %q, got %s", prop.Name, p.cur().Type)
		p.recover()
		return prop, true
	}
}

func (p *parser) parseValue() (ast.Value, bool) {
	switch p.cur().Type {
	case token.String:
		tok := p.advance()
		return ast.String(tok.Lexeme), true

	case token.AngleOpen:
		return p.parseArray()

	case token.Reference:
		tok := p.advance()
		return ast.Reference(tok.Lexeme), true

	case token.Number:
		tok := p.advance()
		n, err := parseIntLiteral(tok.Lexeme)
		if err != nil {
			p.errf(tok.Position, "invalid numeric literal %q", tok.Lexeme)
			return ast.Value{}, false
		}
		return ast.Integer(n), true

	case token.Identifier:
		if p.peek(1).Type == token.LParen {
			return p.parseFunctionCall()
		}
		tok := p.advance()
		switch tok.Lexeme {
		case "true":
			return ast.Boolean(true), true
		case "false":
			return ast.Boolean(false), true
		default:
			return ast.Raw(tok.Lexeme), true
		}

	default:
		p.errf(p.cur().Position, "expected a value, got %s %q", p.cur().Type, p.cur().Lexeme)
		return ast.Value{}, false
	}
}

func (p *parser) parseArray() (ast.Value, bool) {
	p.advance() // consume '<'
	var elems []ast.Value
	for !p.at(token.AngleClose) {
		if p.at(token.EOF) || p.at(token.Semicolon) {
			p.errf(p.cur().Position, "unterminated array, expected '>'")
			return ast.Array(elems), false
		}
		v, ok := p.parseArrayElement()
		if !ok {
			return ast.Array(elems), false
		}
		elems = append(elems, v)
	}
	p.advance() // consume '>'
	return ast.Array(elems), true
}

func (p *parser) parseArrayElement() (ast.Value, bool) {
	switch p.cur().Type {
	case token.Number:
		tok := p.advance()
		n, err := parseIntLiteral(tok.Lexeme)
		if err != nil {
			p.errf(tok.Position, "invalid numeric literal %q", tok.Lexeme)
			return ast.Value{}, false
		}
		return ast.Integer(n), true
	case token.Reference:
		tok := p.advance()
		return ast.Reference(tok.Lexeme), true
	case token.Identifier:
		if p.peek(1).Type == token.LParen {
			return p.parseFunctionCall()
		}
		tok := p.advance()
		return ast.Raw(tok.Lexeme), true
	default:
		p.errf(p.cur().Position, "unexpected token %s %q inside array", p.cur().Type, p.cur().Lexeme)
		return ast.Value{}, false
	}
}

func (p *parser) parseFunctionCall() (ast.Value, bool) {
	name := p.advance().Lexeme
	p.advance() // consume '('
	var args []ast.Value
	for !p.at(token.RParen) {
		if p.at(token.EOF) || p.at(token.Semicolon) {
			p.errf(p.cur().Position, "unterminated function call %q, expected ')'", name)
			return ast.Call(name, args), false
		}
		var v ast.Value
		var ok bool
		if p.at(token.Number) || p.at(token.Reference) || (p.at(token.Identifier) && p.peek(1).Type == token.LParen) {
			v, ok = p.parseArrayElement()
		} else {
			v, ok = p.parseValue()
		}
		if !ok {
			return ast.Call(name, args), false
		}
		args = append(args, v)
		if p.at(token.Comma) {
			p.advance()
		}
	}
	p.advance() // consume ')'
	return ast.Call(name, args), true
}

func parseIntLiteral(lexeme string) (int64, error) {
	neg := false
	s := lexeme
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var v int64
	var err error
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err = strconv.ParseInt(s[2:], 16, 64)
	} else {
		v, err = strconv.ParseInt(s, 10, 64)
	}
	if err != nil {
		return 0, err
	}
	if neg {
		v = -v
	}
	return v, nil
}

func parsePreprocessorLine(tok token.Token) ast.Conditional {
	line := strings.TrimPrefix(tok.Lexeme, "#")
	line = strings.TrimLeft(line, " \t")
	directive := line
	condition := ""
	if idx := strings.IndexAny(line, " \t"); idx >= 0 {
		directive = line[:idx]
		condition = strings.TrimSpace(line[idx+1:])
	}
	return ast.Conditional{
		Directive: directive,
		Condition: condition,
		Line:      tok.Position.Line,
		Column:    tok.Position.Column,
	}
}
