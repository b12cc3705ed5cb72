package layout

import "encoding/json"

// camelToSnakeAliases lists the top-level keys where §6.3 requires both a
// camelCase and a snake_case spelling to be accepted on input. The struct
// tags on Document already declare the camelCase spelling as canonical output;
// this map lets UnmarshalJSON normalize an incoming snake_case document
// before handing it to the default decoder.
var camelToSnakeAliases = map[string]string{
	"firmware_api_version": "firmwareApiVersion",
	"parent_uuid":          "parentUuid",
	"base_version":         "baseVersion",
	"base_layout":          "baseLayout",
	"layer_names":          "layerNames",
	"config_parameters":    "configParameters",
	"hold_taps":            "holdTaps",
	"tap_dances":           "tapDances",
	"sticky_keys":          "stickyKeys",
	"caps_words":           "capsWords",
	"mod_morphs":           "modMorphs",
	"input_listeners":      "inputListeners",
}

// UnmarshalJSON accepts either camelCase or snake_case spellings for every
// field §6.3 names, per the Layout Document dictionary-form round-trip law.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	normalized := make(map[string]json.RawMessage, len(raw))
	for k, v := range raw {
		if camel, ok := camelToSnakeAliases[k]; ok {
			if _, exists := raw[camel]; !exists {
				normalized[camel] = v
				continue
			}
			continue // camelCase spelling present too; it wins
		}
		normalized[k] = v
	}
	buf, err := json.Marshal(normalized)
	if err != nil {
		return err
	}
	type alias Document
	var a alias
	if err := json.Unmarshal(buf, &a); err != nil {
		return err
	}
	*d = Document(a)
	return nil
}
