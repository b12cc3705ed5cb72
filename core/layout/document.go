// Package layout defines the canonical in-memory LayoutDocument, its
// behavior records, and the dictionary (JSON) serialization rules.
package layout

import "github.com/CaddyGlow/zmk-layout/core/binding"

// Document is the top-level, logically-immutable model of a keymap. Every
// mutation in core/mutate returns a new Document value; callers that want
// in-place editing should reassign their variable to the returned value.
type Document struct {
	Keyboard string `json:"keyboard"`
	Title    string `json:"title"`

	FirmwareAPIVersion string            `json:"firmwareApiVersion,omitempty"`
	Locale             string            `json:"locale,omitempty"`
	UUID               string            `json:"uuid,omitempty"`
	ParentUUID         string            `json:"parentUuid,omitempty"`
	Date               string            `json:"date,omitempty"`
	Creator            string            `json:"creator,omitempty"`
	Notes              string            `json:"notes,omitempty"`
	Tags               []string          `json:"tags,omitempty"`
	Variables          map[string]string `json:"variables,omitempty"`
	Version            string            `json:"version,omitempty"`
	BaseVersion        string            `json:"baseVersion,omitempty"`
	BaseLayout         string            `json:"baseLayout,omitempty"`
	LayerNames         []string          `json:"layerNames"`

	ConfigParameters []ConfigParameter `json:"configParameters,omitempty"`

	Layers [][]binding.Binding `json:"layers"`

	HoldTaps       []HoldTap       `json:"holdTaps,omitempty"`
	Combos         []Combo         `json:"combos,omitempty"`
	Macros         []Macro         `json:"macros,omitempty"`
	TapDances      []TapDance      `json:"tapDances,omitempty"`
	StickyKeys     []StickyKey     `json:"stickyKeys,omitempty"`
	CapsWords      []CapsWord      `json:"capsWords,omitempty"`
	ModMorphs      []ModMorph      `json:"modMorphs,omitempty"`
	InputListeners []InputListener `json:"inputListeners,omitempty"`

	// Source records the pipeline mode that produced this Document, "full"
	// or "template"; it is empty for documents built by hand or decoded from
	// JSON. It is diagnostic only and plays no part in equality or
	// round-trip comparisons.
	Source string `json:"-"`
}

// ConfigParameter is a free-form kconfig item, e.g. CONFIG_ZMK_SLEEP=y.
type ConfigParameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// HoldTap mirrors a `zmk,behavior-hold-tap` node.
type HoldTap struct {
	Name                   string            `json:"name"`
	Label                  string            `json:"label,omitempty"`
	Bindings               []binding.Binding `json:"bindings"`
	TappingTermMs          *int              `json:"tappingTermMs,omitempty"`
	QuickTapMs             *int              `json:"quickTapMs,omitempty"`
	RequirePriorIdleMs     *int              `json:"requirePriorIdleMs,omitempty"`
	Flavor                 string            `json:"flavor,omitempty"`
	HoldTriggerKeyPositions []int            `json:"holdTriggerKeyPositions,omitempty"`
	HoldTriggerOnRelease   bool              `json:"holdTriggerOnRelease,omitempty"`
	RetroTap               bool              `json:"retroTap,omitempty"`
}

// Macro mirrors a `zmk,behavior-macro[-one-param|-two-param]` node.
type Macro struct {
	Name     string            `json:"name"`
	Label    string            `json:"label,omitempty"`
	Bindings []binding.Binding `json:"bindings"`
	WaitMs   *int              `json:"waitMs,omitempty"`
	TapMs    *int              `json:"tapMs,omitempty"`
	ParamCount int             `json:"paramCount,omitempty"` // 0, 1, or 2
}

// Combo is a child of the `zmk,combos` node.
type Combo struct {
	Name               string          `json:"name"`
	KeyPositions       []int           `json:"keyPositions"`
	Binding            binding.Binding `json:"binding"`
	TimeoutMs          *int            `json:"timeoutMs,omitempty"`
	Layers             []int           `json:"layers,omitempty"`
	RequirePriorIdleMs *int            `json:"requirePriorIdleMs,omitempty"`
}

// TapDance mirrors a `zmk,behavior-tap-dance` node.
type TapDance struct {
	Name          string            `json:"name"`
	Label         string            `json:"label,omitempty"`
	Bindings      []binding.Binding `json:"bindings"`
	TappingTermMs *int              `json:"tappingTermMs,omitempty"`
}

// StickyKey mirrors a `zmk,behavior-sticky-key` node.
type StickyKey struct {
	Name          string            `json:"name"`
	Label         string            `json:"label,omitempty"`
	Bindings      []binding.Binding `json:"bindings"`
	ReleaseAfterMs *int             `json:"releaseAfterMs,omitempty"`
	QuickRelease  bool              `json:"quickRelease,omitempty"`
	IgnoreModifiers bool            `json:"ignoreModifiers,omitempty"`
}

// CapsWord mirrors a `zmk,behavior-caps-word` node.
type CapsWord struct {
	Name          string   `json:"name"`
	Label         string   `json:"label,omitempty"`
	ContinueList  []string `json:"continueList,omitempty"`
	MaxIdleMs     *int     `json:"maxIdleMs,omitempty"`
}

// ModMorph mirrors a `zmk,behavior-mod-morph` node.
type ModMorph struct {
	Name      string            `json:"name"`
	Label     string            `json:"label,omitempty"`
	Bindings  []binding.Binding `json:"bindings"`
	Mods      []string          `json:"mods,omitempty"`
	KeepMods  []string          `json:"keepMods,omitempty"`
}

// InputListener describes an input-processor listener node; its `compatible`
// string is supplied by the ConfigurationProvider rather than fixed here.
type InputListener struct {
	Name       string            `json:"name"`
	Compatible string            `json:"compatible,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}
