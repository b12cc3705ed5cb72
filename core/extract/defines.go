// Package extract walks a parsed devicetree AST and lowers it into a
// layout.Document: behavior extractors, the keymap/layer walker, and the
// one-pass #define resolver all live here.
package extract

import (
	"strings"

	"github.com/CaddyGlow/zmk-layout/core/ast"
)

// Defines is the one-pass `#define NAME VALUE` map built by NewDefines. It
// performs no macro-expansion semantics beyond single-level text
// substitution, and no conditional evaluation: §4.8 in full.
type Defines map[string]string

// NewDefines scans every Conditional with directive "define" and splits its
// condition at the first whitespace into a name/value pair.
func NewDefines(conditionals []ast.Conditional) Defines {
	d := Defines{}
	for _, c := range conditionals {
		if c.Directive != "define" {
			continue
		}
		name := c.Condition
		value := ""
		if idx := strings.IndexAny(c.Condition, " \t"); idx >= 0 {
			name = c.Condition[:idx]
			value = strings.TrimSpace(c.Condition[idx+1:])
		}
		if name != "" {
			d[name] = value
		}
	}
	return d
}

// Resolve substitutes name with its defined value, one level, non-recursive.
// If name is not defined, it is returned unchanged.
func (d Defines) Resolve(name string) string {
	if v, ok := d[name]; ok && v != "" {
		return v
	}
	return name
}
