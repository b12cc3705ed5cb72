// Package pipeline orchestrates the parse -> extract -> validate stages into
// a single entry point, in the two modes §4.7 describes: a standalone
// keymap file, or a user fragment embedded in a known template.
package pipeline

import (
	"context"
	"strings"

	"github.com/CaddyGlow/zmk-layout/core/dtparser"
	zmkerrors "github.com/CaddyGlow/zmk-layout/core/errors"
	"github.com/CaddyGlow/zmk-layout/core/extract"
	"github.com/CaddyGlow/zmk-layout/core/layout"
	"github.com/CaddyGlow/zmk-layout/core/provider"
)

// Mode selects how Run treats its input.
type Mode int

const (
	// ModeFull parses the entire input as a standalone keymap.
	ModeFull Mode = iota
	// ModeTemplate parses the input as a user fragment inside a known
	// template, stripping recognized include boilerplate before parsing
	// and reporting any marked template sections it finds.
	ModeTemplate
)

func (m Mode) String() string {
	if m == ModeTemplate {
		return "template"
	}
	return "full"
}

// Opt configures a Run call, following the teacher's functional-options
// pattern (runtime/parser.ParserOpt).
type Opt func(*config)

type config struct {
	mode       Mode
	cfgProv    provider.ConfigurationProvider
	tmplProv   provider.TemplateProvider
	logger     provider.Logger
	extractOpt extract.Options
}

// WithMode sets the parsing mode; the default is ModeFull.
func WithMode(m Mode) Opt {
	return func(c *config) { c.mode = m }
}

// WithConfigurationProvider supplies keyboard-specific compatible strings,
// validation rules, and formatting hints. Without one, Run uses ZMK's
// upstream compatible strings and skips validation.
func WithConfigurationProvider(p provider.ConfigurationProvider) Opt {
	return func(c *config) { c.cfgProv = p }
}

// WithTemplateProvider supplies the templating engine ModeTemplate consults
// to decide whether a source actually carries template syntax before it
// bothers looking for recognized section markers.
func WithTemplateProvider(p provider.TemplateProvider) Opt {
	return func(c *config) { c.tmplProv = p }
}

// WithLogger routes pipeline diagnostics through l instead of discarding them.
func WithLogger(l provider.Logger) Opt {
	return func(c *config) { c.logger = l }
}

// ParseResult is the outcome of a single Run call.
type ParseResult struct {
	Success           bool
	Layout            *layout.Document
	Errors            zmkerrors.List
	Warnings          zmkerrors.List
	Mode              Mode
	ExtractedSections map[string]string
}

// Run executes the pipeline over source: tokenize, parse (with recovery),
// walk and extract behaviors, validate, and assemble the result. ctx is
// checked once at the start for cancellation; no internal step blocks.
func Run(ctx context.Context, source string, opts ...Opt) *ParseResult {
	cfg := config{mode: ModeFull, logger: provider.NopLogger{}, extractOpt: extract.DefaultOptions()}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.cfgProv != nil {
		cfg.extractOpt.Compatible = cfg.cfgProv.CompatibleStrings()
	}

	res := &ParseResult{Mode: cfg.mode, ExtractedSections: map[string]string{}}

	if err := ctx.Err(); err != nil {
		res.Errors = append(res.Errors, zmkerrors.New(zmkerrors.Extract, "context canceled before run: "+err.Error()))
		return res
	}

	effectiveSource := source
	if cfg.mode == ModeTemplate {
		effectiveSource = cfg.stripIncludeBoilerplate(source, res)
		cfg.captureTemplateSections(source, res)
	}

	cfg.logger.Debug("pipeline: parsing", "mode", cfg.mode.String(), "bytes", len(effectiveSource))
	file, parseErrs := dtparser.ParseSafe(effectiveSource)
	res.Errors = append(res.Errors, parseErrs...)

	extraction := extract.Extract(file.Roots, file.AllConditionals(), cfg.extractOpt)
	res.Warnings = append(res.Warnings, extraction.Warnings...)
	res.Errors = append(res.Errors, extraction.Errors...)

	doc := extraction.Document
	doc.Source = cfg.mode.String()
	res.Layout = doc

	if cfg.cfgProv != nil {
		if valErrs := doc.Validate(cfg.cfgProv.ValidationRules()); valErrs.HasErrors() {
			res.Errors = append(res.Errors, valErrs...)
		}
	}

	res.Success = !res.Errors.HasErrors()
	cfg.logger.Info("pipeline: finished", "success", res.Success, "errors", len(res.Errors), "warnings", len(res.Warnings))
	return res
}

// stripIncludeBoilerplate removes #include lines naming a file the
// ConfigurationProvider lists as template boilerplate, recording the
// removed lines under ExtractedSections["includes"].
func (c config) stripIncludeBoilerplate(source string, res *ParseResult) string {
	if c.cfgProv == nil {
		return source
	}
	known := map[string]bool{}
	for _, f := range c.cfgProv.IncludeFiles() {
		known[f] = true
	}
	if len(known) == 0 {
		return source
	}

	var kept []string
	var removed []string
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#include") && includesKnownFile(trimmed, known) {
			removed = append(removed, trimmed)
			continue
		}
		kept = append(kept, line)
	}
	if len(removed) > 0 {
		res.ExtractedSections["includes"] = strings.Join(removed, "\n")
	}
	return strings.Join(kept, "\n")
}

func includesKnownFile(line string, known map[string]bool) bool {
	start := strings.IndexAny(line, "\"<")
	if start < 0 {
		return false
	}
	closing := byte('"')
	if line[start] == '<' {
		closing = '>'
	}
	end := strings.IndexByte(line[start+1:], closing)
	if end < 0 {
		return false
	}
	name := line[start+1 : start+1+end]
	return known[name]
}

// sectionMarkerPair returns the begin/end marker comments this pipeline
// recognizes for a named section, an internal convention independent of any
// particular TemplateProvider implementation.
func sectionMarkerPair(section string) (begin, end string) {
	return "/* zmklayout:" + section + " */", "/* zmklayout:end */"
}

// captureTemplateSections pulls out any region bracketed by a recognized
// marker pair, the way a template engine's {{begin}}...{{end}} fragments are
// lifted out before the surrounding boilerplate is discarded. When a
// TemplateProvider is configured, it first asks whether source carries
// template syntax at all, skipping the marker scan entirely when it doesn't.
func (c config) captureTemplateSections(source string, res *ParseResult) {
	if c.tmplProv != nil && !c.tmplProv.HasTemplateSyntax(source) {
		return
	}
	for _, section := range []string{"keymap", "combos", "macros", "behaviors"} {
		begin, end := sectionMarkerPair(section)
		start := strings.Index(source, begin)
		if start < 0 {
			continue
		}
		start += len(begin)
		stop := strings.Index(source[start:], end)
		if stop < 0 {
			continue
		}
		res.ExtractedSections[section] = source[start : start+stop]
	}
}
