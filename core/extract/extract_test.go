package extract

import (
	"testing"

	"github.com/CaddyGlow/zmk-layout/core/ast"
	"github.com/CaddyGlow/zmk-layout/core/dtparser"
)

func parseOrFatal(t *testing.T, src string) *dtparser.File {
	t.Helper()
	f, errs := dtparser.ParseSafe(src)
	if errs.HasErrors() {
		t.Fatalf("ParseSafe: %v", errs)
	}
	return f
}

const fullKeymap = `
#define DEFAULT 0
#define NAV 1

/ {
	behaviors {
		hm: homerow_mods {
			compatible = "zmk,behavior-hold-tap";
			label = "HOMEROW_MODS";
			tapping-term-ms = <200>;
			flavor = "tap-preferred";
			bindings = <&kp>, <&kp>;
		};

		mm: mod_morph {
			compatible = "zmk,behavior-mod-morph";
			bindings = <&kp EXCL>, <&kp QMARK>;
			mods = <MOD_LSFT>;
		};
	};

	macros {
		em: email_macro {
			compatible = "zmk,behavior-macro";
			label = "EMAIL";
			bindings = <&kp A &kp T>;
		};
	};

	combos {
		compatible = "zmk,combos";
		combo_esc {
			timeout-ms = <30>;
			key-positions = <0 1>;
			bindings = <&kp ESC>;
			layers = <DEFAULT NAV>;
		};
	};

	keymap {
		compatible = "zmk,keymap";
		default_layer {
			bindings = <&kp A &hm LCTRL B>;
		};
		nav_layer {
			bindings = <&trans &trans>;
		};
	};
};
`

func TestExtractFullDocument(t *testing.T) {
	f := parseOrFatal(t, fullKeymap)
	res := Extract(f.Roots, f.AllConditionals(), DefaultOptions())
	if res.Errors.HasErrors() {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}

	if len(res.Document.HoldTaps) != 1 || res.Document.HoldTaps[0].Name != "hm" {
		t.Fatalf("HoldTaps = %+v", res.Document.HoldTaps)
	}
	ht := res.Document.HoldTaps[0]
	if ht.TappingTermMs == nil || *ht.TappingTermMs != 200 {
		t.Errorf("hold-tap tapping-term-ms = %+v, want 200", ht.TappingTermMs)
	}
	if ht.Flavor != "tap-preferred" {
		t.Errorf("hold-tap flavor = %q", ht.Flavor)
	}

	if len(res.Document.ModMorphs) != 1 || res.Document.ModMorphs[0].Name != "mm" {
		t.Fatalf("ModMorphs = %+v", res.Document.ModMorphs)
	}

	if len(res.Document.Macros) != 1 || res.Document.Macros[0].Name != "em" {
		t.Fatalf("Macros = %+v", res.Document.Macros)
	}
	if len(res.Document.Macros[0].Bindings) != 2 {
		t.Fatalf("macro bindings = %+v", res.Document.Macros[0].Bindings)
	}

	if len(res.Document.Combos) != 1 {
		t.Fatalf("Combos = %+v", res.Document.Combos)
	}
	combo := res.Document.Combos[0]
	if combo.Name != "combo_esc" {
		t.Errorf("combo name = %q", combo.Name)
	}
	if len(combo.KeyPositions) != 2 || combo.KeyPositions[0] != 0 || combo.KeyPositions[1] != 1 {
		t.Errorf("combo key-positions = %v", combo.KeyPositions)
	}
	// layers = <DEFAULT NAV> resolves through #define to [0 1].
	if len(combo.Layers) != 2 || combo.Layers[0] != 0 || combo.Layers[1] != 1 {
		t.Errorf("combo layers = %v, want [0 1]", combo.Layers)
	}

	if len(res.Document.LayerNames) != 2 || res.Document.LayerNames[0] != "default_layer" || res.Document.LayerNames[1] != "nav_layer" {
		t.Fatalf("LayerNames = %v", res.Document.LayerNames)
	}
	if len(res.Document.Layers[0]) != 2 {
		t.Fatalf("default_layer bindings = %+v", res.Document.Layers[0])
	}
	second := res.Document.Layers[0][1]
	if second.Value != "&hm" || len(second.Params) != 2 {
		t.Errorf("second binding = %+v, want &hm with 2 params", second)
	}
}

func TestExtractMissingKeymapIsError(t *testing.T) {
	f := parseOrFatal(t, `/ { behaviors { }; };`)
	res := Extract(f.Roots, f.AllConditionals(), DefaultOptions())
	if !res.Errors.HasErrors() {
		t.Fatal("expected an error when no zmk,keymap node is present")
	}
	if res.Document == nil {
		t.Fatal("Extract must never return a nil Document")
	}
}

func TestExtractHoldTapWrongBindingCountWarns(t *testing.T) {
	src := `/ {
		behaviors {
			hm: hm {
				compatible = "zmk,behavior-hold-tap";
				bindings = <&kp>;
			};
		};
		keymap {
			compatible = "zmk,keymap";
			default_layer { bindings = <&trans>; };
		};
	};`
	f := parseOrFatal(t, src)
	res := Extract(f.Roots, f.AllConditionals(), DefaultOptions())
	if !res.Warnings.HasErrors() {
		t.Fatal("expected a warning for a hold-tap with only 1 binding")
	}
}

func TestExtractComboWrongBindingCountWarnsAndSkips(t *testing.T) {
	src := `/ {
		combos {
			compatible = "zmk,combos";
			bad_combo {
				key-positions = <0 1>;
				bindings = <&kp A &kp B>;
			};
		};
		keymap {
			compatible = "zmk,keymap";
			default_layer { bindings = <&trans>; };
		};
	};`
	f := parseOrFatal(t, src)
	res := Extract(f.Roots, f.AllConditionals(), DefaultOptions())
	if !res.Warnings.HasErrors() {
		t.Fatal("expected a warning for a combo with 2 bindings")
	}
	if len(res.Document.Combos) != 0 {
		t.Fatalf("malformed combo should be skipped, got %+v", res.Document.Combos)
	}
}

func TestExtractTapDanceArityWarning(t *testing.T) {
	src := `/ {
		behaviors {
			td0: td0 {
				compatible = "zmk,behavior-tap-dance";
				bindings = <&kp A>;
			};
		};
		keymap {
			compatible = "zmk,keymap";
			default_layer { bindings = <&trans>; };
		};
	};`
	f := parseOrFatal(t, src)
	res := Extract(f.Roots, f.AllConditionals(), DefaultOptions())
	if !res.Warnings.HasErrors() {
		t.Fatal("expected a warning for a tap-dance with only 1 binding")
	}
}

func TestExtractCapsWordAndStickyKey(t *testing.T) {
	src := `/ {
		behaviors {
			cw: caps_word {
				compatible = "zmk,behavior-caps-word";
				continue-list = <UNDERSCORE MINUS>;
			};
			sk: sticky_key {
				compatible = "zmk,behavior-sticky-key";
				bindings = <&kp LSHFT>;
				release-after-ms = <1000>;
			};
		};
		keymap {
			compatible = "zmk,keymap";
			default_layer { bindings = <&trans>; };
		};
	};`
	f := parseOrFatal(t, src)
	res := Extract(f.Roots, f.AllConditionals(), DefaultOptions())
	if res.Errors.HasErrors() {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if len(res.Document.CapsWords) != 1 || len(res.Document.CapsWords[0].ContinueList) != 2 {
		t.Fatalf("CapsWords = %+v", res.Document.CapsWords)
	}
	if len(res.Document.StickyKeys) != 1 {
		t.Fatalf("StickyKeys = %+v", res.Document.StickyKeys)
	}
	if res.Document.StickyKeys[0].ReleaseAfterMs == nil || *res.Document.StickyKeys[0].ReleaseAfterMs != 1000 {
		t.Errorf("release-after-ms = %+v, want 1000", res.Document.StickyKeys[0].ReleaseAfterMs)
	}
}

func TestDefinesResolveIsOnePassNonRecursive(t *testing.T) {
	conditionals := []ast.Conditional{
		{Directive: "define", Condition: "A B"},
		{Directive: "define", Condition: "B 1"},
		{Directive: "define", Condition: "C"},
	}
	d := NewDefines(conditionals)
	if got := d.Resolve("A"); got != "B" {
		t.Errorf("Resolve(A) = %q, want \"B\" (no recursive substitution)", got)
	}
	if got := d.Resolve("B"); got != "1" {
		t.Errorf("Resolve(B) = %q, want \"1\"", got)
	}
	if got := d.Resolve("C"); got != "C" {
		t.Errorf("Resolve(C) = %q, want \"C\" (value-less define resolves to itself)", got)
	}
	if got := d.Resolve("UNDEFINED"); got != "UNDEFINED" {
		t.Errorf("Resolve(UNDEFINED) = %q, want unchanged", got)
	}
}

func TestExpandBindingArrayChunksOnReferenceBoundary(t *testing.T) {
	src := `/ {
		n {
			bindings = <&kp A &mt LCTRL B &trans>;
		};
	};`
	f := parseOrFatal(t, src)
	n := f.Roots[0].Children[0]
	out := expandBindingsProperty(n.Property("bindings"), Defines{})
	if len(out) != 3 {
		t.Fatalf("got %d bindings, want 3: %+v", len(out), out)
	}
	if out[0].Value != "&kp" || len(out[0].Params) != 1 || out[0].Params[0].Value != "A" {
		t.Errorf("binding[0] = %+v", out[0])
	}
	if out[1].Value != "&mt" || len(out[1].Params) != 2 {
		t.Errorf("binding[1] = %+v", out[1])
	}
	if out[2].Value != "&trans" || len(out[2].Params) != 0 {
		t.Errorf("binding[2] = %+v", out[2])
	}
}

func TestWalkerFindNodesCompatibleIsSourceOrdered(t *testing.T) {
	src := `/ {
		a { compatible = "x,thing"; };
		b { compatible = "y,other"; };
		c { compatible = "x,thing"; };
	};`
	f := parseOrFatal(t, src)
	w := NewWalker(f.Roots)
	nodes := w.FindNodesCompatible("x,thing")
	if len(nodes) != 2 || nodes[0].Name != "a" || nodes[1].Name != "c" {
		t.Fatalf("unexpected node order: %+v", nodes)
	}
}
