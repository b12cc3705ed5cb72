package extract

import (
	"strconv"

	"github.com/CaddyGlow/zmk-layout/core/ast"
	"github.com/CaddyGlow/zmk-layout/core/binding"
)

// expandBindingsProperty reassembles a "bindings" property's array values
// into a sequence of Bindings. Each comma-separated top-level array value
// is scanned left to right: every Reference starts a new Binding, and every
// non-Reference value following it becomes one of its Params, exactly the
// same whitespace-splitting rule §4.1 applies to a binding string — just
// applied to already-tokenized AST values instead of raw text.
func expandBindingsProperty(p *ast.Property, defines Defines) []binding.Binding {
	if p == nil {
		return nil
	}
	var out []binding.Binding
	for _, v := range p.Values {
		out = append(out, expandBindingArray(v, defines)...)
	}
	return out
}

func expandBindingArray(v ast.Value, defines Defines) []binding.Binding {
	if v.Kind != ast.ValueArray {
		return nil
	}
	var out []binding.Binding
	var cur *binding.Binding
	for _, el := range v.Array {
		if el.Kind == ast.ValueReference {
			if cur != nil {
				out = append(out, *cur)
			}
			cur = &binding.Binding{Value: "&" + defines.Resolve(el.Ref)}
			continue
		}
		if cur == nil {
			// A stray non-reference token with no preceding behavior; skip it
			// rather than fabricate a binding head.
			continue
		}
		cur.Params = append(cur.Params, valueToParam(el, defines))
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out
}

func valueToParam(v ast.Value, defines Defines) binding.Param {
	switch v.Kind {
	case ast.ValueInteger:
		return binding.Param{Value: strconv.FormatInt(v.Int, 10)}
	case ast.ValueRaw:
		return binding.Param{Value: defines.Resolve(v.Str)}
	case ast.ValueString:
		return binding.Param{Value: v.Str}
	case ast.ValueReference:
		return binding.Param{Value: "&" + defines.Resolve(v.Ref)}
	case ast.ValueBoolean:
		if v.Bool {
			return binding.Param{Value: "true"}
		}
		return binding.Param{Value: "false"}
	case ast.ValueFunctionCall:
		args := make([]binding.Param, len(v.Call.Args))
		for i, a := range v.Call.Args {
			args[i] = valueToParam(a, defines)
		}
		return binding.Param{Value: v.Call.Name, Params: args}
	default:
		return binding.Param{Value: v.Render()}
	}
}

// intValue reads a property's first value as an integer, applying define
// substitution when the value is a raw identifier naming a #define.
func intValue(p *ast.Property, defines Defines) *int {
	if p == nil || len(p.Values) == 0 {
		return nil
	}
	v := p.Values[0]
	switch v.Kind {
	case ast.ValueInteger:
		n := int(v.Int)
		return &n
	case ast.ValueArray:
		if len(v.Array) == 1 {
			return intValue(&ast.Property{Values: []ast.Value{v.Array[0]}}, defines)
		}
	case ast.ValueRaw:
		resolved := defines.Resolve(v.Str)
		if n, err := strconv.Atoi(resolved); err == nil {
			return &n
		}
	}
	return nil
}

// intArrayValue reads a property's single array value as a list of ints.
func intArrayValue(p *ast.Property, defines Defines) []int {
	if p == nil || len(p.Values) == 0 || p.Values[0].Kind != ast.ValueArray {
		return nil
	}
	var out []int
	for _, el := range p.Values[0].Array {
		switch el.Kind {
		case ast.ValueInteger:
			out = append(out, int(el.Int))
		case ast.ValueRaw:
			if n, err := strconv.Atoi(defines.Resolve(el.Str)); err == nil {
				out = append(out, n)
			}
		}
	}
	return out
}

// stringValue reads a property's first value as a string literal.
func stringValue(p *ast.Property) string {
	if p == nil || len(p.Values) == 0 || p.Values[0].Kind != ast.ValueString {
		return ""
	}
	return p.Values[0].Str
}

// identArrayValue reads a property's single array value as bare identifiers,
// used for caps-word's continue-list.
func identArrayValue(p *ast.Property, defines Defines) []string {
	if p == nil || len(p.Values) == 0 || p.Values[0].Kind != ast.ValueArray {
		return nil
	}
	var out []string
	for _, el := range p.Values[0].Array {
		switch el.Kind {
		case ast.ValueRaw:
			out = append(out, defines.Resolve(el.Str))
		case ast.ValueReference:
			out = append(out, "&"+defines.Resolve(el.Ref))
		}
	}
	return out
}

func boolProperty(n *ast.Node, name string) bool {
	p := n.Property(name)
	return p != nil
}
