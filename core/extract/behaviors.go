package extract

import (
	"github.com/CaddyGlow/zmk-layout/core/ast"
	zmkerrors "github.com/CaddyGlow/zmk-layout/core/errors"
	"github.com/CaddyGlow/zmk-layout/core/layout"
)

func behaviorName(n *ast.Node) string {
	if n.Label != "" {
		return n.Label
	}
	return n.Name
}

func extractHoldTaps(w *Walker, compatible string, defines Defines) ([]layout.HoldTap, zmkerrors.List) {
	var out []layout.HoldTap
	var warnings zmkerrors.List
	for _, n := range w.FindNodesCompatible(compatible) {
		bindings := expandBindingsProperty(n.Property("bindings"), defines)
		if len(bindings) != 2 {
			warnings = append(warnings, warnf(zmkerrors.Extract, n,
				"hold-tap %q has %d bindings, expected 2", behaviorName(n), len(bindings)))
		}
		out = append(out, layout.HoldTap{
			Name:                    behaviorName(n),
			Label:                   stringValue(n.Property("label")),
			Bindings:                bindings,
			TappingTermMs:           intValue(n.Property("tapping-term-ms"), defines),
			QuickTapMs:              intValue(n.Property("quick-tap-ms"), defines),
			RequirePriorIdleMs:      intValue(n.Property("require-prior-idle-ms"), defines),
			Flavor:                  stringValue(n.Property("flavor")),
			HoldTriggerKeyPositions: intArrayValue(n.Property("hold-trigger-key-positions"), defines),
			HoldTriggerOnRelease:    boolProperty(n, "hold-trigger-on-release"),
			RetroTap:                boolProperty(n, "retro-tap"),
		})
	}
	return out, warnings
}

func extractMacros(w *Walker, cs CompatibleStrings, defines Defines) ([]layout.Macro, zmkerrors.List) {
	var out []layout.Macro
	var warnings zmkerrors.List
	kinds := []struct {
		compatible string
		paramCount int
	}{
		{cs.MacroZero, 0},
		{cs.MacroOneParam, 1},
		{cs.MacroTwoParam, 2},
	}
	for _, k := range kinds {
		if k.compatible == "" {
			continue
		}
		for _, n := range w.FindNodesCompatible(k.compatible) {
			out = append(out, layout.Macro{
				Name:       behaviorName(n),
				Label:      stringValue(n.Property("label")),
				Bindings:   expandBindingsProperty(n.Property("bindings"), defines),
				WaitMs:     intValue(n.Property("wait-ms"), defines),
				TapMs:      intValue(n.Property("tap-ms"), defines),
				ParamCount: k.paramCount,
			})
		}
	}
	return out, warnings
}

func extractCombos(w *Walker, compatible string, defines Defines) ([]layout.Combo, zmkerrors.List) {
	var out []layout.Combo
	var warnings zmkerrors.List
	for _, container := range w.FindNodesCompatible(compatible) {
		for _, n := range container.Children {
			bindings := expandBindingsProperty(n.Property("bindings"), defines)
			if len(bindings) != 1 {
				warnings = append(warnings, warnf(zmkerrors.Extract, n,
					"combo %q has %d bindings, expected exactly 1", behaviorName(n), len(bindings)))
				continue
			}
			out = append(out, layout.Combo{
				Name:               behaviorName(n),
				KeyPositions:       intArrayValue(n.Property("key-positions"), defines),
				Binding:            bindings[0],
				TimeoutMs:          intValue(n.Property("timeout-ms"), defines),
				Layers:             intArrayValue(n.Property("layers"), defines),
				RequirePriorIdleMs: intValue(n.Property("require-prior-idle-ms"), defines),
			})
		}
	}
	return out, warnings
}

func extractTapDances(w *Walker, compatible string, defines Defines) ([]layout.TapDance, zmkerrors.List) {
	var out []layout.TapDance
	var warnings zmkerrors.List
	for _, n := range w.FindNodesCompatible(compatible) {
		bindings := expandBindingsProperty(n.Property("bindings"), defines)
		if len(bindings) < 2 || len(bindings) > 5 {
			warnings = append(warnings, warnf(zmkerrors.Extract, n,
				"tap-dance %q has %d bindings, expected 2-5", behaviorName(n), len(bindings)))
		}
		out = append(out, layout.TapDance{
			Name:          behaviorName(n),
			Label:         stringValue(n.Property("label")),
			Bindings:      bindings,
			TappingTermMs: intValue(n.Property("tapping-term-ms"), defines),
		})
	}
	return out, warnings
}

func extractStickyKeys(w *Walker, compatible string, defines Defines) ([]layout.StickyKey, zmkerrors.List) {
	var out []layout.StickyKey
	for _, n := range w.FindNodesCompatible(compatible) {
		out = append(out, layout.StickyKey{
			Name:            behaviorName(n),
			Label:           stringValue(n.Property("label")),
			Bindings:        expandBindingsProperty(n.Property("bindings"), defines),
			ReleaseAfterMs:  intValue(n.Property("release-after-ms"), defines),
			QuickRelease:    boolProperty(n, "quick-release"),
			IgnoreModifiers: boolProperty(n, "ignore-modifiers"),
		})
	}
	return out, nil
}

func extractCapsWords(w *Walker, compatible string, defines Defines) ([]layout.CapsWord, zmkerrors.List) {
	var out []layout.CapsWord
	for _, n := range w.FindNodesCompatible(compatible) {
		out = append(out, layout.CapsWord{
			Name:         behaviorName(n),
			Label:        stringValue(n.Property("label")),
			ContinueList: identArrayValue(n.Property("continue-list"), defines),
			MaxIdleMs:    intValue(n.Property("idle-timeout-ms"), defines),
		})
	}
	return out, nil
}

func extractModMorphs(w *Walker, compatible string, defines Defines) ([]layout.ModMorph, zmkerrors.List) {
	var out []layout.ModMorph
	var warnings zmkerrors.List
	for _, n := range w.FindNodesCompatible(compatible) {
		bindings := expandBindingsProperty(n.Property("bindings"), defines)
		if len(bindings) != 2 {
			warnings = append(warnings, warnf(zmkerrors.Extract, n,
				"mod-morph %q has %d bindings, expected 2", behaviorName(n), len(bindings)))
		}
		out = append(out, layout.ModMorph{
			Name:     behaviorName(n),
			Label:    stringValue(n.Property("label")),
			Bindings: bindings,
			Mods:     identArrayValue(n.Property("mods"), defines),
			KeepMods: identArrayValue(n.Property("keep-mods"), defines),
		})
	}
	return out, warnings
}

func extractInputListeners(w *Walker, compatible string) ([]layout.InputListener, zmkerrors.List) {
	var out []layout.InputListener
	for _, n := range w.FindNodesCompatible(compatible) {
		props := map[string]string{}
		for _, p := range n.Properties {
			if p.Name == "compatible" {
				continue
			}
			props[p.Name] = stringValue(p)
		}
		out = append(out, layout.InputListener{
			Name:       behaviorName(n),
			Compatible: compatible,
			Properties: props,
		})
	}
	return out, nil
}
