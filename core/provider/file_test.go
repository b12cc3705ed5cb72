package provider

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/CaddyGlow/zmk-layout/core/extract"
)

func writeProfile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadFileConfigurationProviderOverridesDefaults(t *testing.T) {
	path := writeProfile(t, `
compatible:
  holdTap: "myboard,hold-tap"
format:
  indentSize: 2
  rows: [10, 10, 6]
  keyGap: 1
validation:
  keyCount: 42
  maxLayers: 6
  allowedBehaviors: ["kp", "trans", "mo"]
includes:
  - "dt-bindings/zmk/keys.h"
`)
	prov, err := LoadFileConfigurationProvider(path)
	if err != nil {
		t.Fatalf("LoadFileConfigurationProvider: %v", err)
	}
	if got := prov.CompatibleStrings().HoldTap; got != "myboard,hold-tap" {
		t.Errorf("HoldTap = %q, want override", got)
	}
	if got := prov.CompatibleStrings().Combos; got != extract.DefaultCompatibleStrings().Combos {
		t.Errorf("Combos = %q, want the ZMK default since the profile left it blank", got)
	}
	fc := prov.FormatContext()
	if fc.IndentSize != 2 || fc.KeyGap != 1 || len(fc.Rows) != 3 {
		t.Errorf("FormatContext = %+v", fc)
	}
	rules := prov.ValidationRules()
	if rules.KeyCount != 42 || rules.MaxLayers != 6 || !rules.AllowedBehaviors["mo"] {
		t.Errorf("ValidationRules = %+v", rules)
	}
	if got := prov.IncludeFiles(); len(got) != 1 || got[0] != "dt-bindings/zmk/keys.h" {
		t.Errorf("IncludeFiles = %v", got)
	}
}

func TestLoadFileConfigurationProviderRejectsMissingFile(t *testing.T) {
	if _, err := LoadFileConfigurationProvider("/nonexistent/profile.yaml"); err == nil {
		t.Fatal("expected an error for a missing profile file")
	}
}

func TestLoadFileConfigurationProviderRejectsInvalidYAML(t *testing.T) {
	path := writeProfile(t, "not: valid: yaml: [")
	if _, err := LoadFileConfigurationProvider(path); err == nil {
		t.Fatal("expected an error for malformed YAML")
	}
}

func TestLoadFileConfigurationProviderEmptyProfileUsesDefaults(t *testing.T) {
	path := writeProfile(t, "{}\n")
	prov, err := LoadFileConfigurationProvider(path)
	if err != nil {
		t.Fatalf("LoadFileConfigurationProvider: %v", err)
	}
	want := extract.DefaultCompatibleStrings()
	if got := prov.CompatibleStrings(); got != want {
		t.Errorf("CompatibleStrings() = %+v, want defaults %+v", got, want)
	}
}
