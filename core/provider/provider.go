// Package provider defines the pluggable interfaces the core depends on for
// anything environment- or keyboard-specific: behavior compatible strings,
// generator formatting hints, and diagnostics. The core never reads a file
// or imports log/slog directly — only these interfaces and their adapters
// do, which keeps core/* usable in-memory from a test or a long-running
// service alike.
package provider

import (
	"log/slog"

	"github.com/CaddyGlow/zmk-layout/core/extract"
	"github.com/CaddyGlow/zmk-layout/core/generate"
	"github.com/CaddyGlow/zmk-layout/core/layout"
)

// SystemBehavior describes one built-in behavior a keyboard's firmware
// build ships: the &-less root a binding's Value names (e.g. "kp", "mt"),
// and how many params a binding against it takes.
type SystemBehavior struct {
	Root       string
	ParamCount int
}

// DefaultSystemBehaviors returns the built-in behaviors every upstream ZMK
// firmware build ships, the fallback a caller gets when it has no keyboard
// profile to load.
func DefaultSystemBehaviors() []SystemBehavior {
	return []SystemBehavior{
		{Root: "kp", ParamCount: 1},
		{Root: "trans", ParamCount: 0},
		{Root: "none", ParamCount: 0},
		{Root: "mo", ParamCount: 1},
		{Root: "to", ParamCount: 1},
		{Root: "tog", ParamCount: 1},
		{Root: "lt", ParamCount: 2},
		{Root: "mt", ParamCount: 2},
		{Root: "sk", ParamCount: 1},
		{Root: "sl", ParamCount: 1},
		{Root: "bt", ParamCount: 1},
		{Root: "out", ParamCount: 1},
		{Root: "reset", ParamCount: 0},
		{Root: "bootloader", ParamCount: 0},
	}
}

// ConfigurationProvider supplies the keyboard-specific knowledge the
// translator needs but leaves external: the system's built-in behaviors and
// the `compatible` strings that identify optional ones, how the generator
// should lay the keymap grid out and which kconfig options it defaults to,
// the validation ceilings for a physical keyboard, a template-rendering
// context, and the include files a template-aware pipeline run should treat
// as boilerplate rather than user content.
type ConfigurationProvider interface {
	CompatibleStrings() extract.CompatibleStrings
	BehaviorDefinitions() []SystemBehavior
	FormatContext() generate.FormatContext
	ValidationRules() layout.Rules
	IncludeFiles() []string
	TemplateContext() map[string]any
	KconfigOptions() map[string]string
}

// TemplateProvider renders a template against a context and recognizes
// whether a piece of content carries template syntax at all, the two
// operations a template-aware pipeline run needs from its host templating
// engine.
type TemplateProvider interface {
	Render(template string, context map[string]any) (string, error)
	HasTemplateSyntax(content string) bool
}

// Logger is the minimal diagnostics sink the pipeline reports through. NopLogger and SlogLogger are the two adapters the core ships;
// callers may supply their own.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// StaticConfigurationProvider is an in-memory ConfigurationProvider backed
// by fixed values, the default a caller gets when it has no keyboard
// profile to load.
type StaticConfigurationProvider struct {
	Compat    extract.CompatibleStrings
	Behaviors []SystemBehavior
	Context   generate.FormatContext
	Rules     layout.Rules
	Includes  []string
	TmplCtx   map[string]any
	Kconfig   map[string]string
}

// NewStaticConfigurationProvider returns a provider using ZMK's upstream
// compatible strings and built-in behaviors, a default (single-row,
// 4-space-indent) format context, and no validation ceilings.
func NewStaticConfigurationProvider() *StaticConfigurationProvider {
	return &StaticConfigurationProvider{
		Compat:    extract.DefaultCompatibleStrings(),
		Behaviors: DefaultSystemBehaviors(),
		Context:   generate.DefaultFormatContext(),
	}
}

func (p *StaticConfigurationProvider) CompatibleStrings() extract.CompatibleStrings {
	return p.Compat
}

func (p *StaticConfigurationProvider) BehaviorDefinitions() []SystemBehavior {
	return p.Behaviors
}

func (p *StaticConfigurationProvider) FormatContext() generate.FormatContext {
	return p.Context
}

// ValidationRules returns Rules with every root in Behaviors added to
// Rules.AllowedBehaviors, so the provider's built-ins pass validation.
func (p *StaticConfigurationProvider) ValidationRules() layout.Rules {
	rules := p.Rules
	allowed := make(map[string]bool, len(p.Rules.AllowedBehaviors)+len(p.Behaviors))
	for root, ok := range p.Rules.AllowedBehaviors {
		if ok {
			allowed[root] = true
		}
	}
	for _, b := range p.Behaviors {
		allowed[b.Root] = true
	}
	rules.AllowedBehaviors = allowed
	return rules
}

func (p *StaticConfigurationProvider) IncludeFiles() []string {
	return p.Includes
}

func (p *StaticConfigurationProvider) TemplateContext() map[string]any {
	return p.TmplCtx
}

func (p *StaticConfigurationProvider) KconfigOptions() map[string]string {
	return p.Kconfig
}

// NopLogger discards every message, used where a caller has no logging
// destination to wire up (most tests).
type NopLogger struct{}

func (NopLogger) Debug(string, ...any) {}
func (NopLogger) Info(string, ...any)  {}
func (NopLogger) Warn(string, ...any)  {}
func (NopLogger) Error(string, ...any) {}

// SlogLogger adapts a *slog.Logger to the Logger interface, the only place
// in this module that touches log/slog.
type SlogLogger struct {
	L *slog.Logger
}

// NewSlogLogger wraps l, or slog.Default() if l is nil.
func NewSlogLogger(l *slog.Logger) SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return SlogLogger{L: l}
}

func (s SlogLogger) Debug(msg string, args ...any) { s.L.Debug(msg, args...) }
func (s SlogLogger) Info(msg string, args ...any)  { s.L.Info(msg, args...) }
func (s SlogLogger) Warn(msg string, args ...any)  { s.L.Warn(msg, args...) }
func (s SlogLogger) Error(msg string, args ...any) { s.L.Error(msg, args...) }
