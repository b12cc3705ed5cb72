// Package ast defines the devicetree abstract syntax tree: nodes,
// properties, values, comments and unevaluated preprocessor conditionals.
package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/CaddyGlow/zmk-layout/core/token"
)

// Comment is a line or block comment captured verbatim from the source.
type Comment struct {
	Text    string
	IsBlock bool
	Line    int
	Column  int
}

// Conditional records a preprocessor directive without evaluating it.
// Directive is the word after '#' (e.g. "define", "include", "ifdef",
// "ifndef", "else", "endif"); any such word is recorded as-is.
type Conditional struct {
	Directive string
	Condition string
	Line      int
	Column    int
}

// ValueKind discriminates the sum type Value.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueInteger
	ValueArray
	ValueReference
	ValueBoolean
	ValueFunctionCall
	ValueRaw
)

// Value is a devicetree property value. Exactly one of the fields matching
// Kind is meaningful; callers should switch on Kind rather than guess from
// zero values, since 0 is a valid Integer and "" a valid String/Raw.
type Value struct {
	Kind ValueKind

	Str    string  // ValueString, ValueRaw
	Int    int64   // ValueInteger
	Array  []Value // ValueArray
	Ref    string  // ValueReference (name, without leading '&')
	Bool   bool    // ValueBoolean
	Call   *FunctionCall
}

// FunctionCall represents a parenthesized call like LC(A) inside an array value.
type FunctionCall struct {
	Name string
	Args []Value
}

func String(s string) Value         { return Value{Kind: ValueString, Str: s} }
func Integer(i int64) Value         { return Value{Kind: ValueInteger, Int: i} }
func Array(vs []Value) Value        { return Value{Kind: ValueArray, Array: vs} }
func Reference(name string) Value   { return Value{Kind: ValueReference, Ref: name} }
func Boolean(b bool) Value          { return Value{Kind: ValueBoolean, Bool: b} }
func Raw(s string) Value            { return Value{Kind: ValueRaw, Str: s} }
func Call(name string, args []Value) Value {
	return Value{Kind: ValueFunctionCall, Call: &FunctionCall{Name: name, Args: args}}
}

// Render renders the value the way it would appear in devicetree source.
func (v Value) Render() string {
	switch v.Kind {
	case ValueString:
		return strconv.Quote(v.Str)
	case ValueInteger:
		return strconv.FormatInt(v.Int, 10)
	case ValueArray:
		parts := make([]string, len(v.Array))
		for i, e := range v.Array {
			parts[i] = e.Render()
		}
		return "<" + strings.Join(parts, " ") + ">"
	case ValueReference:
		return "&" + v.Ref
	case ValueBoolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case ValueFunctionCall:
		args := make([]string, len(v.Call.Args))
		for i, a := range v.Call.Args {
			args[i] = a.Render()
		}
		return v.Call.Name + "(" + strings.Join(args, ", ") + ")"
	case ValueRaw:
		return v.Str
	default:
		return ""
	}
}

// Property is a devicetree property assignment, e.g. `tapping-term-ms = <200>;`.
// A boolean property (`wakeup-source;`) has Values == nil.
type Property struct {
	Name     string
	Values   []Value
	Comments []Comment
	Line     int
	Column   int
}

// HasValues reports whether this is a valued property rather than a bare
// boolean flag property.
func (p *Property) HasValues() bool { return len(p.Values) > 0 }

// Node is a devicetree node: `label: name@unit { ... };`.
type Node struct {
	Name         string
	Label        string
	UnitAddress  string
	Properties   []*Property
	Children     []*Node
	Conditionals []Conditional
	Comments     []Comment
	Line         int
	Column       int
}

// Property returns the first property with the given name, or nil.
func (n *Node) Property(name string) *Property {
	for _, p := range n.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Compatible returns the node's "compatible" string property value, or "".
func (n *Node) Compatible() string {
	p := n.Property("compatible")
	if p == nil || len(p.Values) == 0 {
		return ""
	}
	return p.Values[0].Str
}

// Child returns the first direct child with the given name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (n *Node) String() string {
	var b strings.Builder
	if n.Label != "" {
		fmt.Fprintf(&b, "%s: ", n.Label)
	}
	b.WriteString(n.Name)
	if n.UnitAddress != "" {
		fmt.Fprintf(&b, "@%s", n.UnitAddress)
	}
	b.WriteString(" { ... };")
	return b.String()
}

func (n *Node) Position() token.Position {
	return token.Position{Line: n.Line, Column: n.Column}
}
