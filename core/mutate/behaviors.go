package mutate

import (
	"fmt"

	"github.com/CaddyGlow/zmk-layout/core/binding"
	zmkerrors "github.com/CaddyGlow/zmk-layout/core/errors"
	"github.com/CaddyGlow/zmk-layout/core/layout"
)

// DefaultTappingTermMs is the hold-tap/tap-dance default from §4.5.
const DefaultTappingTermMs = 200

func intPtr(v int) *int { return &v }

// HoldTapOptions carries the optional fields of AddHoldTap; zero values mean
// "use the default" except where noted.
type HoldTapOptions struct {
	Label                   string
	TappingTermMs           *int // defaults to DefaultTappingTermMs
	QuickTapMs              *int
	RequirePriorIdleMs      *int
	Flavor                  string
	HoldTriggerKeyPositions []int
	HoldTriggerOnRelease    bool
	RetroTap                bool
}

// AddHoldTap appends a new hold-tap behavior.
func AddHoldTap(d *layout.Document, name string, bindings [2]binding.Binding, opts HoldTapOptions) (*layout.Document, error) {
	if err := ensureUniqueBehaviorName(d, name); err != nil {
		return d, err
	}
	term := opts.TappingTermMs
	if term == nil {
		term = intPtr(DefaultTappingTermMs)
	}
	c := clone(d)
	c.HoldTaps = append(c.HoldTaps, layout.HoldTap{
		Name:                    name,
		Label:                   opts.Label,
		Bindings:                bindings[:],
		TappingTermMs:           term,
		QuickTapMs:              opts.QuickTapMs,
		RequirePriorIdleMs:      opts.RequirePriorIdleMs,
		Flavor:                  opts.Flavor,
		HoldTriggerKeyPositions: opts.HoldTriggerKeyPositions,
		HoldTriggerOnRelease:    opts.HoldTriggerOnRelease,
		RetroTap:                opts.RetroTap,
	})
	return c, nil
}

// RemoveHoldTap removes a hold-tap by name.
func RemoveHoldTap(d *layout.Document, name string) (*layout.Document, error) {
	idx := -1
	for i, h := range d.HoldTaps {
		if h.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return d, zmkerrors.New(zmkerrors.Validate, fmt.Sprintf("hold-tap %q not found", name))
	}
	c := clone(d)
	c.HoldTaps = append(c.HoldTaps[:idx], c.HoldTaps[idx+1:]...)
	return c, nil
}

// HasHoldTap reports whether a hold-tap with the given name exists.
func HasHoldTap(d *layout.Document, name string) bool {
	for _, h := range d.HoldTaps {
		if h.Name == name {
			return true
		}
	}
	return false
}

// ComboOptions carries the optional fields of AddCombo.
type ComboOptions struct {
	TimeoutMs          *int // defaults to 50
	Layers             []int
	RequirePriorIdleMs *int
}

const defaultComboTimeoutMs = 50

// AddCombo appends a new combo.
func AddCombo(d *layout.Document, name string, keyPositions []int, b binding.Binding, opts ComboOptions) (*layout.Document, error) {
	if err := ensureUniqueBehaviorName(d, name); err != nil {
		return d, err
	}
	timeout := opts.TimeoutMs
	if timeout == nil {
		timeout = intPtr(defaultComboTimeoutMs)
	}
	c := clone(d)
	c.Combos = append(c.Combos, layout.Combo{
		Name:               name,
		KeyPositions:       append([]int(nil), keyPositions...),
		Binding:            b,
		TimeoutMs:          timeout,
		Layers:             append([]int(nil), opts.Layers...),
		RequirePriorIdleMs: opts.RequirePriorIdleMs,
	})
	return c, nil
}

// RemoveCombo removes a combo by name.
func RemoveCombo(d *layout.Document, name string) (*layout.Document, error) {
	idx := -1
	for i, cb := range d.Combos {
		if cb.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return d, zmkerrors.New(zmkerrors.Validate, fmt.Sprintf("combo %q not found", name))
	}
	c := clone(d)
	c.Combos = append(c.Combos[:idx], c.Combos[idx+1:]...)
	return c, nil
}

// HasCombo reports whether a combo with the given name exists.
func HasCombo(d *layout.Document, name string) bool {
	for _, c := range d.Combos {
		if c.Name == name {
			return true
		}
	}
	return false
}

// MacroOptions carries the optional fields of AddMacro.
type MacroOptions struct {
	Label      string
	WaitMs     *int
	TapMs      *int
	ParamCount int
}

// AddMacro appends a new macro.
func AddMacro(d *layout.Document, name string, bindings []binding.Binding, opts MacroOptions) (*layout.Document, error) {
	if err := ensureUniqueBehaviorName(d, name); err != nil {
		return d, err
	}
	c := clone(d)
	c.Macros = append(c.Macros, layout.Macro{
		Name:       name,
		Label:      opts.Label,
		Bindings:   append([]binding.Binding(nil), bindings...),
		WaitMs:     opts.WaitMs,
		TapMs:      opts.TapMs,
		ParamCount: opts.ParamCount,
	})
	return c, nil
}

// RemoveMacro removes a macro by name.
func RemoveMacro(d *layout.Document, name string) (*layout.Document, error) {
	idx := -1
	for i, m := range d.Macros {
		if m.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return d, zmkerrors.New(zmkerrors.Validate, fmt.Sprintf("macro %q not found", name))
	}
	c := clone(d)
	c.Macros = append(c.Macros[:idx], c.Macros[idx+1:]...)
	return c, nil
}

// HasMacro reports whether a macro with the given name exists.
func HasMacro(d *layout.Document, name string) bool {
	for _, m := range d.Macros {
		if m.Name == name {
			return true
		}
	}
	return false
}

// TapDanceOptions carries the optional fields of AddTapDance.
type TapDanceOptions struct {
	Label         string
	TappingTermMs *int // defaults to DefaultTappingTermMs
}

// AddTapDance appends a new tap-dance; bindings must number 2-5.
func AddTapDance(d *layout.Document, name string, bindings []binding.Binding, opts TapDanceOptions) (*layout.Document, error) {
	if err := ensureUniqueBehaviorName(d, name); err != nil {
		return d, err
	}
	if len(bindings) < 2 || len(bindings) > 5 {
		return d, zmkerrors.New(zmkerrors.Validate, fmt.Sprintf("tap-dance %q needs 2-5 bindings, got %d", name, len(bindings)))
	}
	term := opts.TappingTermMs
	if term == nil {
		term = intPtr(DefaultTappingTermMs)
	}
	c := clone(d)
	c.TapDances = append(c.TapDances, layout.TapDance{
		Name:          name,
		Label:         opts.Label,
		Bindings:      append([]binding.Binding(nil), bindings...),
		TappingTermMs: term,
	})
	return c, nil
}

// RemoveTapDance removes a tap-dance by name.
func RemoveTapDance(d *layout.Document, name string) (*layout.Document, error) {
	idx := -1
	for i, td := range d.TapDances {
		if td.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return d, zmkerrors.New(zmkerrors.Validate, fmt.Sprintf("tap-dance %q not found", name))
	}
	c := clone(d)
	c.TapDances = append(c.TapDances[:idx], c.TapDances[idx+1:]...)
	return c, nil
}

// HasTapDance reports whether a tap-dance with the given name exists.
func HasTapDance(d *layout.Document, name string) bool {
	for _, td := range d.TapDances {
		if td.Name == name {
			return true
		}
	}
	return false
}

// ClearAllBehaviors removes every behavior of every kind, leaving layers untouched.
func ClearAllBehaviors(d *layout.Document) *layout.Document {
	c := clone(d)
	c.HoldTaps = nil
	c.Combos = nil
	c.Macros = nil
	c.TapDances = nil
	c.StickyKeys = nil
	c.CapsWords = nil
	c.ModMorphs = nil
	c.InputListeners = nil
	return c
}

func ensureUniqueBehaviorName(d *layout.Document, name string) error {
	if HasHoldTap(d, name) || HasCombo(d, name) || HasMacro(d, name) || HasTapDance(d, name) {
		return zmkerrors.New(zmkerrors.Validate, fmt.Sprintf("behavior %q already exists", name))
	}
	return nil
}
