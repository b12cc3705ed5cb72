package generate

import (
	"strings"
	"testing"

	"github.com/CaddyGlow/zmk-layout/core/binding"
	"github.com/CaddyGlow/zmk-layout/core/layout"
)

func mustParse(t *testing.T, s string) binding.Binding {
	t.Helper()
	b, err := binding.Parse(s)
	if err != nil {
		t.Fatalf("binding.Parse(%q): %v", s, err)
	}
	return b
}

func TestGenerateProducesLayerDefinesAndKeymap(t *testing.T) {
	doc := &layout.Document{
		LayerNames: []string{"default_layer", "lower"},
		Layers: [][]binding.Binding{
			{mustParse(t, "&kp A"), mustParse(t, "&kp B")},
			{mustParse(t, "&trans"), mustParse(t, "&trans")},
		},
	}

	out, err := Generate(doc, DefaultFormatContext())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if !strings.Contains(out, "#define DEFAULT_LAYER 0") {
		t.Errorf("missing layer define for default_layer:\n%s", out)
	}
	if !strings.Contains(out, "#define LOWER 1") {
		t.Errorf("missing layer define for lower:\n%s", out)
	}
	if !strings.Contains(out, "compatible = \"zmk,keymap\";") {
		t.Errorf("missing keymap compatible string:\n%s", out)
	}
	if !strings.Contains(out, "default_layer {") {
		t.Errorf("missing default_layer node:\n%s", out)
	}
	if !strings.Contains(out, "&kp A &kp B") {
		t.Errorf("missing default_layer bindings row:\n%s", out)
	}
}

func TestGenerateRejectsInvalidIdentifier(t *testing.T) {
	doc := &layout.Document{
		LayerNames: []string{"bad layer name"},
		Layers:     [][]binding.Binding{{mustParse(t, "&trans")}},
	}
	if _, err := Generate(doc, DefaultFormatContext()); err == nil {
		t.Fatal("expected an InvalidIdentifier error for a layer name with a space")
	}
}

func TestGenerateHoldTapEmitsBindings(t *testing.T) {
	termMs := 200
	doc := &layout.Document{
		LayerNames: []string{"default_layer"},
		Layers:     [][]binding.Binding{{mustParse(t, "&hm LCTRL A")}},
		HoldTaps: []layout.HoldTap{
			{
				Name:          "hm",
				Label:         "HOMEROW_MODS",
				Bindings:      []binding.Binding{mustParse(t, "&kp"), mustParse(t, "&kp")},
				TappingTermMs: &termMs,
				Flavor:        "tap-preferred",
			},
		},
	}
	out, err := Generate(doc, DefaultFormatContext())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(out, "hm {") {
		t.Errorf("missing hold-tap node:\n%s", out)
	}
	if !strings.Contains(out, "tapping-term-ms = <200>;") {
		t.Errorf("missing tapping-term-ms:\n%s", out)
	}
	if !strings.Contains(out, "bindings = <&kp>, <&kp>;") {
		t.Errorf("missing hold-tap bindings:\n%s", out)
	}
}

func TestFormatBindingGridPadsToRowWidth(t *testing.T) {
	bindings := []binding.Binding{
		mustParse(t, "&kp A"),
		mustParse(t, "&mt LCTRL B"),
		mustParse(t, "&kp C"),
	}
	fc := FormatContext{IndentSize: 4, Rows: []int{2, 1}}
	got := formatBindingGrid(bindings, fc, "    ")
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d rows, want 2: %q", len(lines), got)
	}
	// First row pads "&kp A" to the width of "&mt LCTRL B" plus one space.
	want := "    &kp A       &mt LCTRL B"
	if lines[0] != want {
		t.Errorf("row 0 = %q, want %q", lines[0], want)
	}
}

func TestUpperSnake(t *testing.T) {
	cases := map[string]string{
		"default_layer": "DEFAULT_LAYER",
		"lower-layer":   "LOWER_LAYER",
		"nav":           "NAV",
	}
	for in, want := range cases {
		if got := UpperSnake(in); got != want {
			t.Errorf("UpperSnake(%q) = %q, want %q", in, got, want)
		}
	}
}
