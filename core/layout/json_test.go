package layout

import (
	"encoding/json"
	"testing"

	"github.com/CaddyGlow/zmk-layout/core/binding"
)

func TestUnmarshalJSONAcceptsSnakeCase(t *testing.T) {
	data := []byte(`{
		"keyboard": "corne",
		"title": "my keymap",
		"layer_names": ["default_layer"],
		"layers": [[{"value": "&trans"}]],
		"hold_taps": [{"name": "hm", "bindings": [{"value": "&kp"}, {"value": "&kp"}]}]
	}`)
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(doc.LayerNames) != 1 || doc.LayerNames[0] != "default_layer" {
		t.Errorf("LayerNames = %v, want [default_layer]", doc.LayerNames)
	}
	if len(doc.HoldTaps) != 1 || doc.HoldTaps[0].Name != "hm" {
		t.Errorf("HoldTaps = %+v", doc.HoldTaps)
	}
}

func TestUnmarshalJSONPrefersCamelCaseWhenBothPresent(t *testing.T) {
	data := []byte(`{
		"layerNames": ["camel"],
		"layer_names": ["snake"],
		"layers": [[]]
	}`)
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(doc.LayerNames) != 1 || doc.LayerNames[0] != "camel" {
		t.Errorf("LayerNames = %v, want [camel] (camelCase wins)", doc.LayerNames)
	}
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	orig := Document{
		Keyboard:   "corne",
		Title:      "t",
		LayerNames: []string{"default_layer"},
		Layers:     [][]binding.Binding{{b("&kp A")}},
	}
	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got Document
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Keyboard != orig.Keyboard || len(got.Layers) != 1 || !got.Layers[0][0].Equal(orig.Layers[0][0]) {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, orig)
	}
}
