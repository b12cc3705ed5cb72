package layout

import (
	"testing"

	"github.com/CaddyGlow/zmk-layout/core/binding"
)

func b(s string) binding.Binding {
	v, err := binding.Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestValidateAcceptsWellFormedDocument(t *testing.T) {
	doc := &Document{
		LayerNames: []string{"default_layer", "lower"},
		Layers: [][]binding.Binding{
			{b("&kp A"), b("&trans")},
			{b("&kp B"), b("&trans")},
		},
	}
	rules := Rules{AllowedBehaviors: map[string]bool{"kp": true, "trans": true}}
	if errs := doc.Validate(rules); errs.HasErrors() {
		t.Fatalf("unexpected validation errors: %v", errs)
	}
}

func TestValidateCatchesLayerCountMismatch(t *testing.T) {
	doc := &Document{
		LayerNames: []string{"a", "b"},
		Layers:     [][]binding.Binding{{}},
	}
	errs := doc.Validate(Rules{})
	if !errs.HasErrors() {
		t.Fatal("expected an error for mismatched layerNames/layers length")
	}
}

func TestValidateCatchesDuplicateLayerNames(t *testing.T) {
	doc := &Document{
		LayerNames: []string{"dup", "dup"},
		Layers:     [][]binding.Binding{{}, {}},
	}
	errs := doc.Validate(Rules{})
	if !errs.HasErrors() {
		t.Fatal("expected a duplicate layer name error")
	}
}

func TestValidateCatchesUnknownBehaviorRoot(t *testing.T) {
	doc := &Document{
		LayerNames: []string{"default_layer"},
		Layers:     [][]binding.Binding{{b("&bogus A")}},
	}
	errs := doc.Validate(Rules{AllowedBehaviors: map[string]bool{"kp": true}})
	if !errs.HasErrors() {
		t.Fatal("expected an unknown-behavior error for &bogus")
	}
}

func TestValidateAllowsUserDefinedBehaviorRoot(t *testing.T) {
	doc := &Document{
		LayerNames: []string{"default_layer"},
		Layers:     [][]binding.Binding{{b("&hm LCTRL A")}},
		HoldTaps: []HoldTap{
			{Name: "hm", Bindings: []binding.Binding{b("&kp"), b("&kp")}},
		},
	}
	errs := doc.Validate(Rules{AllowedBehaviors: map[string]bool{}})
	if errs.HasErrors() {
		t.Fatalf("user-defined hold-tap root should validate, got: %v", errs)
	}
}

func TestValidateCatchesComboOutOfRangeKeyPosition(t *testing.T) {
	doc := &Document{
		LayerNames: []string{"default_layer"},
		Layers:     [][]binding.Binding{{b("&trans")}},
		Combos: []Combo{
			{Name: "combo_esc", KeyPositions: []int{99}, Binding: b("&kp ESC")},
		},
	}
	errs := doc.Validate(Rules{KeyCount: 42, AllowedBehaviors: map[string]bool{"trans": true, "kp": true}})
	if !errs.HasErrors() {
		t.Fatal("expected an out-of-range key position error")
	}
}

func TestValidateCatchesHoldTapWrongArity(t *testing.T) {
	doc := &Document{
		LayerNames: []string{"default_layer"},
		Layers:     [][]binding.Binding{{b("&trans")}},
		HoldTaps: []HoldTap{
			{Name: "hm", Bindings: []binding.Binding{b("&kp")}},
		},
	}
	errs := doc.Validate(Rules{AllowedBehaviors: map[string]bool{"trans": true}})
	if !errs.HasErrors() {
		t.Fatal("expected an arity error for a hold-tap with only 1 binding")
	}
}

func TestIsValidIdentifier(t *testing.T) {
	cases := map[string]bool{
		"default_layer": true,
		"_private":      true,
		"layer2":        true,
		"2layer":        false,
		"bad name":      false,
		"":              false,
	}
	for in, want := range cases {
		if got := IsValidIdentifier(in); got != want {
			t.Errorf("IsValidIdentifier(%q) = %v, want %v", in, got, want)
		}
	}
}
