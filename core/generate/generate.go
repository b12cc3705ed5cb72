// Package generate emits DTSI keymap source and a kconfig fragment from a
// layout.Document — the inverse of core/dtparser + core/extract.
package generate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/CaddyGlow/zmk-layout/core/binding"
	zmkerrors "github.com/CaddyGlow/zmk-layout/core/errors"
	"github.com/CaddyGlow/zmk-layout/core/layout"
)

// FormatContext carries the formatting knobs a ConfigurationProvider
// supplies: indentation width, the physical row layout (bindings per row,
// used to lay the keymap grid out the way the keyboard is physically
// shaped), and the key gap between halves of a split row.
type FormatContext struct {
	IndentSize int
	Rows       []int // bindings per physical row; sum should equal a layer's length
	KeyGap     int   // carried from the provider; formatBindingGrid does not read it, so no gap is emitted
	Includes   []string
}

// DefaultFormatContext returns sensible defaults: 4-space indent, no fixed
// row layout (falls back to one row per layer), no key gap.
func DefaultFormatContext() FormatContext {
	return FormatContext{IndentSize: 4}
}

func (fc FormatContext) indent() string {
	n := fc.IndentSize
	if n <= 0 {
		n = 4
	}
	return strings.Repeat(" ", n)
}

// Generate emits the full DTSI text for doc: layer #defines, a behaviors
// node, a combos node, a macros node, and a keymap node, in that order. It
// fails on the first invariant violation, e.g. an invalid identifier.
func Generate(doc *layout.Document, fc FormatContext) (string, error) {
	var b strings.Builder

	for _, inc := range fc.Includes {
		fmt.Fprintf(&b, "#include %s\n", inc)
	}
	if len(fc.Includes) > 0 {
		b.WriteByte('\n')
	}

	defines, err := layerDefines(doc.LayerNames)
	if err != nil {
		return "", err
	}
	b.WriteString(defines)
	if len(doc.LayerNames) > 0 {
		b.WriteByte('\n')
	}

	b.WriteString("/ {\n")
	ind := fc.indent()

	if len(doc.HoldTaps) > 0 {
		s, err := generateBehaviors(doc.HoldTaps, ind)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
		b.WriteByte('\n')
	}

	if len(doc.Combos) > 0 {
		s, err := generateCombos(doc.Combos, ind)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
		b.WriteByte('\n')
	}

	if len(doc.Macros) > 0 {
		s, err := generateMacros(doc.Macros, ind)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
		b.WriteByte('\n')
	}

	keymap, err := generateKeymap(doc, fc)
	if err != nil {
		return "", err
	}
	b.WriteString(keymap)

	b.WriteString("};\n")
	return b.String(), nil
}

// UpperSnake converts a layer/behavior name into SCREAMING_SNAKE_CASE for
// #define emission.
func UpperSnake(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r == '-' || r == ' ' {
			b.WriteByte('_')
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

func validateIdentifier(name string) error {
	if !layout.IsValidIdentifier(name) {
		return zmkerrors.New(zmkerrors.InvalidIdentifier, fmt.Sprintf("%q is not a valid C identifier", name))
	}
	return nil
}

func layerDefines(names []string) (string, error) {
	var b strings.Builder
	for i, name := range names {
		if err := validateIdentifier(name); err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "#define %s %d\n", UpperSnake(name), i)
	}
	return b.String(), nil
}

func formatBinding(b binding.Binding) string {
	return "<" + binding.Format(b) + ">"
}

func generateBehaviors(holdTaps []layout.HoldTap, ind string) (string, error) {
	var b strings.Builder
	b.WriteString(ind + "behaviors {\n")
	for _, h := range holdTaps {
		if err := validateIdentifier(h.Name); err != nil {
			return "", err
		}
		label := h.Label
		if label == "" {
			label = UpperSnake(h.Name)
		}
		fmt.Fprintf(&b, "%s%s%s {\n", ind, ind, h.Name)
		inner := ind + ind + ind
		fmt.Fprintf(&b, "%scompatible = \"zmk,behavior-hold-tap\";\n", inner)
		fmt.Fprintf(&b, "%slabel = %q;\n", inner, label)
		fmt.Fprintf(&b, "%s#binding-cells = <2>;\n", inner)
		if h.TappingTermMs != nil {
			fmt.Fprintf(&b, "%stapping-term-ms = <%d>;\n", inner, *h.TappingTermMs)
		}
		if h.QuickTapMs != nil {
			fmt.Fprintf(&b, "%squick-tap-ms = <%d>;\n", inner, *h.QuickTapMs)
		}
		if h.RequirePriorIdleMs != nil {
			fmt.Fprintf(&b, "%srequire-prior-idle-ms = <%d>;\n", inner, *h.RequirePriorIdleMs)
		}
		if h.Flavor != "" {
			fmt.Fprintf(&b, "%sflavor = %q;\n", inner, h.Flavor)
		}
		if len(h.HoldTriggerKeyPositions) > 0 {
			fmt.Fprintf(&b, "%shold-trigger-key-positions = <%s>;\n", inner, joinInts(h.HoldTriggerKeyPositions))
		}
		if h.HoldTriggerOnRelease {
			fmt.Fprintf(&b, "%shold-trigger-on-release;\n", inner)
		}
		if h.RetroTap {
			fmt.Fprintf(&b, "%sretro-tap;\n", inner)
		}
		bindings := h.Bindings
		if len(bindings) != 2 {
			bindings = []binding.Binding{{Value: "&kp"}, {Value: "&kp"}}
		}
		fmt.Fprintf(&b, "%sbindings = %s, %s;\n", inner, formatBinding(bindings[0]), formatBinding(bindings[1]))
		fmt.Fprintf(&b, "%s%s};\n", ind, ind)
	}
	b.WriteString(ind + "};\n")
	return b.String(), nil
}

func generateCombos(combos []layout.Combo, ind string) (string, error) {
	var b strings.Builder
	b.WriteString(ind + "combos {\n")
	inner := ind + ind
	fmt.Fprintf(&b, "%scompatible = \"zmk,combos\";\n", inner)
	for _, c := range combos {
		if err := validateIdentifier(c.Name); err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s%s {\n", inner, c.Name)
		deep := inner + ind
		if c.TimeoutMs != nil {
			fmt.Fprintf(&b, "%stimeout-ms = <%d>;\n", deep, *c.TimeoutMs)
		}
		fmt.Fprintf(&b, "%skey-positions = <%s>;\n", deep, joinInts(c.KeyPositions))
		fmt.Fprintf(&b, "%sbindings = %s;\n", deep, formatBinding(c.Binding))
		if len(c.Layers) > 0 {
			fmt.Fprintf(&b, "%slayers = <%s>;\n", deep, joinInts(c.Layers))
		}
		if c.RequirePriorIdleMs != nil {
			fmt.Fprintf(&b, "%srequire-prior-idle-ms = <%d>;\n", deep, *c.RequirePriorIdleMs)
		}
		fmt.Fprintf(&b, "%s};\n", inner)
	}
	b.WriteString(ind + "};\n")
	return b.String(), nil
}

func generateMacros(macros []layout.Macro, ind string) (string, error) {
	var b strings.Builder
	for _, m := range macros {
		if err := validateIdentifier(m.Name); err != nil {
			return "", err
		}
		label := m.Label
		if label == "" {
			label = UpperSnake(m.Name)
		}
		compatible := "zmk,behavior-macro"
		switch m.ParamCount {
		case 1:
			compatible = "zmk,behavior-macro-one-param"
		case 2:
			compatible = "zmk,behavior-macro-two-param"
		}
		fmt.Fprintf(&b, "%s%s {\n", ind, m.Name)
		inner := ind + ind
		fmt.Fprintf(&b, "%scompatible = %q;\n", inner, compatible)
		fmt.Fprintf(&b, "%slabel = %q;\n", inner, label)
		fmt.Fprintf(&b, "%s#binding-cells = <%d>;\n", inner, m.ParamCount)
		if m.WaitMs != nil {
			fmt.Fprintf(&b, "%swait-ms = <%d>;\n", inner, *m.WaitMs)
		}
		if m.TapMs != nil {
			fmt.Fprintf(&b, "%stap-ms = <%d>;\n", inner, *m.TapMs)
		}
		parts := make([]string, len(m.Bindings))
		for i, bnd := range m.Bindings {
			parts[i] = formatBinding(bnd)
		}
		fmt.Fprintf(&b, "%sbindings = %s;\n", inner, strings.Join(parts, ", "))
		fmt.Fprintf(&b, "%s};\n", ind)
	}
	return b.String(), nil
}

func generateKeymap(doc *layout.Document, fc FormatContext) (string, error) {
	var b strings.Builder
	ind := fc.indent()
	b.WriteString(ind + "keymap {\n")
	inner := ind + ind
	fmt.Fprintf(&b, "%scompatible = \"zmk,keymap\";\n", inner)
	for i, name := range doc.LayerNames {
		if err := validateIdentifier(name); err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s%s {\n", inner, name)
		deep := inner + ind
		fmt.Fprintf(&b, "%sbindings = <\n", deep)
		b.WriteString(formatBindingGrid(doc.Layers[i], fc, deep+ind))
		fmt.Fprintf(&b, "%s>;\n", deep)
		fmt.Fprintf(&b, "%s};\n", inner)
	}
	b.WriteString(ind + "};\n")
	return b.String(), nil
}

// formatBindingGrid lays bindings out in rows per fc.Rows (or one row if
// unset), each row on its own line at the given indent, every binding but
// the row's last padded to that row's widest binding length plus one space.
func formatBindingGrid(bindings []binding.Binding, fc FormatContext, lineIndent string) string {
	rows := fc.Rows
	if len(rows) == 0 {
		rows = []int{len(bindings)}
	}

	var b strings.Builder
	pos := 0
	for _, count := range rows {
		if pos >= len(bindings) {
			break
		}
		end := pos + count
		if end > len(bindings) {
			end = len(bindings)
		}
		row := bindings[pos:end]
		rendered := make([]string, len(row))
		width := 0
		for i, bnd := range row {
			rendered[i] = binding.Format(bnd)
			if len(rendered[i]) > width {
				width = len(rendered[i])
			}
		}
		b.WriteString(lineIndent)
		for i, s := range rendered {
			b.WriteString(s)
			if i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", width-len(s)+1))
			}
		}
		b.WriteByte('\n')
		pos = end
	}
	// Any leftover bindings beyond the configured rows go on one final row.
	if pos < len(bindings) {
		row := bindings[pos:]
		rendered := make([]string, len(row))
		width := 0
		for i, bnd := range row {
			rendered[i] = binding.Format(bnd)
			if len(rendered[i]) > width {
				width = len(rendered[i])
			}
		}
		b.WriteString(lineIndent)
		for i, s := range rendered {
			b.WriteString(s)
			if i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", width-len(s)+1))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

// GenerateKconfig emits CONFIG_KEY=VALUE lines, one per parameter, plus the
// settings as a map for callers that want structured access too. defaults
// supplies a ConfigurationProvider's kconfig defaults; any name the document
// also sets explicitly overrides the default rather than duplicating it.
// Default-only entries are emitted first, sorted by name for a stable
// output; the document's own parameters follow in document order.
func GenerateKconfig(doc *layout.Document, defaults map[string]string) (string, map[string]string) {
	settings := make(map[string]string, len(defaults)+len(doc.ConfigParameters))
	for k, v := range defaults {
		settings[k] = v
	}
	overridden := make(map[string]bool, len(doc.ConfigParameters))
	for _, p := range doc.ConfigParameters {
		settings[p.Name] = p.Value
		overridden[p.Name] = true
	}

	defaultKeys := make([]string, 0, len(defaults))
	for k := range defaults {
		if !overridden[k] {
			defaultKeys = append(defaultKeys, k)
		}
	}
	sort.Strings(defaultKeys)

	var b strings.Builder
	for _, k := range defaultKeys {
		fmt.Fprintf(&b, "%s=%s\n", k, settings[k])
	}
	for _, p := range doc.ConfigParameters {
		fmt.Fprintf(&b, "%s=%s\n", p.Name, p.Value)
	}
	return b.String(), settings
}
