package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/CaddyGlow/zmk-layout/core/provider"
)

const sampleKeymap = `
#define DEFAULT 0
#define LOWER 1

/ {
	behaviors {
		hm: homerow_mods {
			compatible = "zmk,behavior-hold-tap";
			label = "HOMEROW_MODS";
			#binding-cells = <2>;
			tapping-term-ms = <200>;
			flavor = "tap-preferred";
			bindings = <&kp>, <&kp>;
		};
	};

	combos {
		compatible = "zmk,combos";
		combo_esc {
			timeout-ms = <30>;
			key-positions = <0 1>;
			bindings = <&kp ESC>;
			layers = <DEFAULT>;
		};
	};

	keymap {
		compatible = "zmk,keymap";
		default_layer {
			bindings = <&kp A &mt LCTRL B>;
		};
		lower_layer {
			bindings = <&trans &trans>;
		};
	};
};
`

func TestRunFullMode(t *testing.T) {
	result := Run(context.Background(), sampleKeymap, WithConfigurationProvider(provider.NewStaticConfigurationProvider()))
	if !result.Success {
		t.Fatalf("Run failed: errors=%v warnings=%v", result.Errors, result.Warnings)
	}
	doc := result.Layout
	if len(doc.LayerNames) != 2 || doc.LayerNames[0] != "default_layer" || doc.LayerNames[1] != "lower_layer" {
		t.Fatalf("unexpected layer names: %v", doc.LayerNames)
	}
	if len(doc.Layers[0]) != 2 {
		t.Fatalf("default_layer has %d bindings, want 2", len(doc.Layers[0]))
	}
	if doc.Layers[0][1].Value != "&mt" || len(doc.Layers[0][1].Params) != 2 {
		t.Errorf("unexpected second binding: %+v", doc.Layers[0][1])
	}
	if len(doc.HoldTaps) != 1 || doc.HoldTaps[0].Name != "hm" {
		t.Fatalf("unexpected hold-taps: %+v", doc.HoldTaps)
	}
	if len(doc.Combos) != 1 {
		t.Fatalf("unexpected combos: %+v", doc.Combos)
	}
	// layers = <DEFAULT> resolves the #define to its value (0).
	if got := doc.Combos[0].Layers; len(got) != 1 || got[0] != 0 {
		t.Errorf("combo layers = %v, want [0] (DEFAULT resolved)", got)
	}
}

func TestRunTemplateModeStripsKnownIncludes(t *testing.T) {
	src := "#include <dt-bindings/zmk/keys.h>\n#include \"custom.dtsi\"\n" + sampleKeymap
	prov := provider.NewStaticConfigurationProvider()
	prov.Includes = []string{"dt-bindings/zmk/keys.h"}

	result := Run(context.Background(), src, WithMode(ModeTemplate), WithConfigurationProvider(prov))
	if !result.Success {
		t.Fatalf("Run failed: errors=%v", result.Errors)
	}
	if result.Mode != ModeTemplate {
		t.Errorf("Mode = %v, want ModeTemplate", result.Mode)
	}
	stripped, ok := result.ExtractedSections["includes"]
	if !ok || !strings.Contains(stripped, "dt-bindings/zmk/keys.h") {
		t.Errorf("expected the known include to be captured, got sections=%v", result.ExtractedSections)
	}
	if strings.Contains(stripped, "custom.dtsi") {
		t.Errorf("unknown include should not be stripped, sections=%v", result.ExtractedSections)
	}
}

func TestRunReportsParseErrorsWithoutPanicking(t *testing.T) {
	result := Run(context.Background(), "/ { broken", WithConfigurationProvider(provider.NewStaticConfigurationProvider()))
	if result.Success {
		t.Fatal("expected Run to report failure on unterminated input")
	}
	if len(result.Errors) == 0 {
		t.Error("expected at least one error")
	}
}
