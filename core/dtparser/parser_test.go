package dtparser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/CaddyGlow/zmk-layout/core/ast"
)

func TestParseSimpleKeymap(t *testing.T) {
	src := `
#define DEFAULT 0

/ {
	keymap {
		compatible = "zmk,keymap";
		default_layer {
			bindings = <&kp A &kp B>;
		};
	};
};
`
	f, errs := ParseSafe(src)
	if errs.HasErrors() {
		t.Fatalf("ParseSafe returned errors: %v", errs)
	}
	if len(f.Roots) != 1 {
		t.Fatalf("got %d roots, want 1", len(f.Roots))
	}
	root := f.Roots[0]
	if root.Name != "/" {
		t.Fatalf("root name = %q, want \"/\"", root.Name)
	}
	keymap := root.Child("keymap")
	if keymap == nil {
		t.Fatal("expected a keymap child node")
	}
	if keymap.Compatible() != "zmk,keymap" {
		t.Errorf("keymap compatible = %q, want zmk,keymap", keymap.Compatible())
	}
	layer := keymap.Child("default_layer")
	if layer == nil {
		t.Fatal("expected a default_layer child node")
	}
	bindings := layer.Property("bindings")
	if bindings == nil || len(bindings.Values) != 1 || bindings.Values[0].Kind != ast.ValueArray {
		t.Fatalf("unexpected bindings property: %+v", bindings)
	}
	if got := len(bindings.Values[0].Array); got != 4 {
		t.Errorf("bindings array has %d elements, want 4 (2 refs + 2 idents)", got)
	}
}

func TestParseNodeWithLabelAndUnitAddress(t *testing.T) {
	src := `/ {
	hm: homerow_mods@0 {
		compatible = "zmk,behavior-hold-tap";
		#binding-cells = <2>;
		tapping-term-ms = <200>;
		flavor = "tap-preferred";
	};
};`
	f, errs := ParseSafe(src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	n := f.Roots[0].Children[0]
	if n.Label != "hm" {
		t.Errorf("Label = %q, want hm", n.Label)
	}
	if n.Name != "homerow_mods" {
		t.Errorf("Name = %q, want homerow_mods", n.Name)
	}
	if n.UnitAddress != "0" {
		t.Errorf("UnitAddress = %q, want 0", n.UnitAddress)
	}
	tt := n.Property("tapping-term-ms")
	if tt == nil || len(tt.Values) != 1 || tt.Values[0].Kind != ast.ValueArray {
		t.Fatalf("unexpected tapping-term-ms property: %+v", tt)
	}
	if diff := cmp.Diff(ast.Integer(200), tt.Values[0].Array[0]); diff != "" {
		t.Errorf("tapping-term-ms value mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRecoversFromSyntaxError(t *testing.T) {
	src := `/ {
	broken {
		foo = ;
	};
	ok_node {
		bar = <1>;
	};
};`
	f, errs := ParseSafe(src)
	if !errs.HasErrors() {
		t.Fatal("expected at least one error from the malformed property")
	}
	root := f.Roots[0]
	if root.Child("ok_node") == nil {
		t.Error("parser should recover and still parse ok_node after the error")
	}
}

func TestParseBareBooleanProperty(t *testing.T) {
	src := `/ {
	n {
		wakeup-source;
	};
};`
	f, errs := ParseSafe(src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	p := f.Roots[0].Children[0].Property("wakeup-source")
	if p == nil {
		t.Fatal("expected a wakeup-source property")
	}
	if p.HasValues() {
		t.Error("bare boolean property should have no values")
	}
}

func TestParseFunctionCallValue(t *testing.T) {
	src := `/ {
	n {
		bindings = <&kp LC(LS(TAB))>;
	};
};`
	f, errs := ParseSafe(src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	arr := f.Roots[0].Children[0].Property("bindings").Values[0].Array
	if len(arr) != 2 {
		t.Fatalf("got %d array elements, want 2", len(arr))
	}
	call := arr[1]
	if call.Kind != ast.ValueFunctionCall || call.Call.Name != "LC" {
		t.Fatalf("unexpected second element: %+v", call)
	}
	if len(call.Call.Args) != 1 || call.Call.Args[0].Kind != ast.ValueFunctionCall || call.Call.Args[0].Call.Name != "LS" {
		t.Fatalf("expected nested LS(...) call, got %+v", call.Call.Args)
	}
}
