package extract

import (
	"fmt"

	"github.com/CaddyGlow/zmk-layout/core/ast"
	zmkerrors "github.com/CaddyGlow/zmk-layout/core/errors"
	"github.com/CaddyGlow/zmk-layout/core/layout"
)

// CompatibleStrings lists the `compatible` values each behavior extractor
// looks for. The hold-tap, macro, and combo strings are fixed by the ZMK
// wire format; the optional behaviors' strings are supplied by the
// ConfigurationProvider per §9 Open Question (c), with the common upstream
// ZMK values as a fallback for callers that don't supply a provider.
type CompatibleStrings struct {
	HoldTap       string
	MacroZero     string
	MacroOneParam string
	MacroTwoParam string
	Combos        string
	TapDance      string
	StickyKey     string
	CapsWord      string
	ModMorph      string
	InputListener string
}

// DefaultCompatibleStrings returns the upstream ZMK compatible strings.
func DefaultCompatibleStrings() CompatibleStrings {
	return CompatibleStrings{
		HoldTap:       "zmk,behavior-hold-tap",
		MacroZero:     "zmk,behavior-macro",
		MacroOneParam: "zmk,behavior-macro-one-param",
		MacroTwoParam: "zmk,behavior-macro-two-param",
		Combos:        "zmk,combos",
		TapDance:      "zmk,behavior-tap-dance",
		StickyKey:     "zmk,behavior-sticky-key",
		CapsWord:      "zmk,behavior-caps-word",
		ModMorph:      "zmk,behavior-mod-morph",
		InputListener: "zmk,input-listener",
	}
}

// Result is the outcome of extracting a layout.Document from an AST: a
// behavior failure that still leaves a usable document is a warning, while
// one that prevents assembling a valid document at all is an error.
type Result struct {
	Document *layout.Document
	Warnings zmkerrors.List
	Errors   zmkerrors.List
}

// Options configures Extract.
type Options struct {
	Compatible CompatibleStrings
	// KeymapCompatible is the compatible string of the keymap node to look
	// for; ZMK's fixed value is "zmk,keymap".
	KeymapCompatible string
}

// DefaultOptions returns Options with ZMK's standard compatible strings.
func DefaultOptions() Options {
	return Options{Compatible: DefaultCompatibleStrings(), KeymapCompatible: "zmk,keymap"}
}

// Extract lowers a parsed AST into a layout.Document. It never returns a nil
// Document: assembling a Document with no keymap layers still yields an
// empty-but-valid one, with the missing keymap surfaced as an error.
func Extract(roots []*ast.Node, conditionals []ast.Conditional, opts Options) *Result {
	defines := NewDefines(conditionals)
	w := NewWalker(roots)
	res := &Result{Document: &layout.Document{}}

	holdTaps, htWarnings := extractHoldTaps(w, opts.Compatible.HoldTap, defines)
	res.Document.HoldTaps = holdTaps
	res.Warnings = append(res.Warnings, htWarnings...)

	macros, mWarnings := extractMacros(w, opts.Compatible, defines)
	res.Document.Macros = macros
	res.Warnings = append(res.Warnings, mWarnings...)

	combos, cWarnings := extractCombos(w, opts.Compatible.Combos, defines)
	res.Document.Combos = combos
	res.Warnings = append(res.Warnings, cWarnings...)

	tapDances, tdWarnings := extractTapDances(w, opts.Compatible.TapDance, defines)
	res.Document.TapDances = tapDances
	res.Warnings = append(res.Warnings, tdWarnings...)

	stickyKeys, skWarnings := extractStickyKeys(w, opts.Compatible.StickyKey, defines)
	res.Document.StickyKeys = stickyKeys
	res.Warnings = append(res.Warnings, skWarnings...)

	capsWords, cwWarnings := extractCapsWords(w, opts.Compatible.CapsWord, defines)
	res.Document.CapsWords = capsWords
	res.Warnings = append(res.Warnings, cwWarnings...)

	modMorphs, mmWarnings := extractModMorphs(w, opts.Compatible.ModMorph, defines)
	res.Document.ModMorphs = modMorphs
	res.Warnings = append(res.Warnings, mmWarnings...)

	listeners, ilWarnings := extractInputListeners(w, opts.Compatible.InputListener)
	res.Document.InputListeners = listeners
	res.Warnings = append(res.Warnings, ilWarnings...)

	layerNames, layers, err := extractKeymap(w, opts.KeymapCompatible, defines)
	if err != nil {
		res.Errors = append(res.Errors, err)
	} else {
		res.Document.LayerNames = layerNames
		res.Document.Layers = layers
	}

	return res
}

func warnf(kind zmkerrors.Kind, node *ast.Node, format string, args ...any) *zmkerrors.Error {
	msg := fmt.Sprintf(format, args...)
	return zmkerrors.At(kind, msg, node.Position(), "")
}
