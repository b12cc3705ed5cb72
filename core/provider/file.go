package provider

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/CaddyGlow/zmk-layout/core/extract"
	"github.com/CaddyGlow/zmk-layout/core/generate"
	"github.com/CaddyGlow/zmk-layout/core/layout"
)

// keyboardProfile is the on-disk shape of a YAML keyboard profile: the
// compatible strings this board's firmware build uses for optional
// behaviors, and the physical row layout the generator should lay the
// keymap grid out with.
type keyboardProfile struct {
	Compatible struct {
		HoldTap       string `yaml:"holdTap"`
		MacroZero     string `yaml:"macroZero"`
		MacroOneParam string `yaml:"macroOneParam"`
		MacroTwoParam string `yaml:"macroTwoParam"`
		Combos        string `yaml:"combos"`
		TapDance      string `yaml:"tapDance"`
		StickyKey     string `yaml:"stickyKey"`
		CapsWord      string `yaml:"capsWord"`
		ModMorph      string `yaml:"modMorph"`
		InputListener string `yaml:"inputListener"`
	} `yaml:"compatible"`
	Format struct {
		IndentSize int   `yaml:"indentSize"`
		Rows       []int `yaml:"rows"`
		KeyGap     int   `yaml:"keyGap"`
	} `yaml:"format"`
	Validation struct {
		KeyCount         int      `yaml:"keyCount"`
		MaxLayers        int      `yaml:"maxLayers"`
		AllowedBehaviors []string `yaml:"allowedBehaviors"`
		KeyPositions     []int    `yaml:"keyPositions"`
	} `yaml:"validation"`
	Behaviors []struct {
		Root       string `yaml:"root"`
		ParamCount int    `yaml:"paramCount"`
	} `yaml:"behaviors"`
	TemplateContext map[string]any    `yaml:"templateContext"`
	KconfigOptions  map[string]string `yaml:"kconfigOptions"`
	Includes        []string          `yaml:"includes"`
}

// FileConfigurationProvider loads a keyboard profile from a YAML file on
// disk, falling back to ZMK's upstream compatible strings for any field the
// file leaves blank.
type FileConfigurationProvider struct {
	compat    extract.CompatibleStrings
	behaviors []SystemBehavior
	context   generate.FormatContext
	rules     layout.Rules
	includes  []string
	tmplCtx   map[string]any
	kconfig   map[string]string
}

// LoadFileConfigurationProvider reads and parses the YAML profile at path.
func LoadFileConfigurationProvider(path string) (*FileConfigurationProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keyboard profile %s: %w", path, err)
	}
	var prof keyboardProfile
	if err := yaml.Unmarshal(data, &prof); err != nil {
		return nil, fmt.Errorf("parsing keyboard profile %s: %w", path, err)
	}

	compat := extract.DefaultCompatibleStrings()
	overrideIfSet(&compat.HoldTap, prof.Compatible.HoldTap)
	overrideIfSet(&compat.MacroZero, prof.Compatible.MacroZero)
	overrideIfSet(&compat.MacroOneParam, prof.Compatible.MacroOneParam)
	overrideIfSet(&compat.MacroTwoParam, prof.Compatible.MacroTwoParam)
	overrideIfSet(&compat.Combos, prof.Compatible.Combos)
	overrideIfSet(&compat.TapDance, prof.Compatible.TapDance)
	overrideIfSet(&compat.StickyKey, prof.Compatible.StickyKey)
	overrideIfSet(&compat.CapsWord, prof.Compatible.CapsWord)
	overrideIfSet(&compat.ModMorph, prof.Compatible.ModMorph)
	overrideIfSet(&compat.InputListener, prof.Compatible.InputListener)

	fc := generate.DefaultFormatContext()
	if prof.Format.IndentSize > 0 {
		fc.IndentSize = prof.Format.IndentSize
	}
	fc.Rows = prof.Format.Rows
	fc.KeyGap = prof.Format.KeyGap
	fc.Includes = prof.Includes

	behaviors := DefaultSystemBehaviors()
	if len(prof.Behaviors) > 0 {
		behaviors = make([]SystemBehavior, len(prof.Behaviors))
		for i, b := range prof.Behaviors {
			behaviors[i] = SystemBehavior{Root: b.Root, ParamCount: b.ParamCount}
		}
	}

	allowed := make(map[string]bool, len(prof.Validation.AllowedBehaviors)+len(behaviors))
	for _, b := range prof.Validation.AllowedBehaviors {
		allowed[b] = true
	}
	for _, b := range behaviors {
		allowed[b.Root] = true
	}
	rules := layout.Rules{
		KeyCount:         prof.Validation.KeyCount,
		MaxLayers:        prof.Validation.MaxLayers,
		AllowedBehaviors: allowed,
		KeyPositions:     prof.Validation.KeyPositions,
	}

	return &FileConfigurationProvider{
		compat:    compat,
		behaviors: behaviors,
		context:   fc,
		rules:     rules,
		includes:  prof.Includes,
		tmplCtx:   prof.TemplateContext,
		kconfig:   prof.KconfigOptions,
	}, nil
}

func overrideIfSet(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (p *FileConfigurationProvider) CompatibleStrings() extract.CompatibleStrings {
	return p.compat
}

func (p *FileConfigurationProvider) BehaviorDefinitions() []SystemBehavior {
	return p.behaviors
}

func (p *FileConfigurationProvider) FormatContext() generate.FormatContext {
	return p.context
}

func (p *FileConfigurationProvider) ValidationRules() layout.Rules {
	return p.rules
}

func (p *FileConfigurationProvider) IncludeFiles() []string {
	return p.includes
}

func (p *FileConfigurationProvider) TemplateContext() map[string]any {
	return p.tmplCtx
}

func (p *FileConfigurationProvider) KconfigOptions() map[string]string {
	return p.kconfig
}
