// Package errors defines the error taxonomy and source-position-tagged
// error type shared by every stage of the devicetree pipeline.
package errors

import (
	"fmt"
	"strings"

	"github.com/CaddyGlow/zmk-layout/core/token"
)

// Kind categorizes an Error by the pipeline stage that produced it.
type Kind int

const (
	Lex Kind = iota
	Parse
	Extract
	Validate
	Generate
	InvalidBinding
	LayerNotFound
	LayerAlreadyExists
	IndexOutOfRange
	InvalidIdentifier
	ProviderFailure
)

func (k Kind) String() string {
	switch k {
	case Lex:
		return "lex error"
	case Parse:
		return "parse error"
	case Extract:
		return "extract error"
	case Validate:
		return "validation error"
	case Generate:
		return "generate error"
	case InvalidBinding:
		return "invalid binding"
	case LayerNotFound:
		return "layer not found"
	case LayerAlreadyExists:
		return "layer already exists"
	case IndexOutOfRange:
		return "index out of range"
	case InvalidIdentifier:
		return "invalid identifier"
	case ProviderFailure:
		return "provider failure"
	default:
		return "error"
	}
}

// Error is the single error type produced anywhere in the core. It always
// carries a kind and message, and carries source position plus a short
// context snippet whenever one is available.
type Error struct {
	Kind     Kind
	Message  string
	Position token.Position
	// Source, when set, is the full source text the Position refers to;
	// it is used only to render Context on demand and is never compared.
	Source string
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func At(kind Kind, message string, pos token.Position, source string) *Error {
	return &Error{Kind: kind, Message: message, Position: pos, Source: source}
}

func (e *Error) Error() string {
	if e.Position.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	snippet := e.Context()
	if snippet == "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Position)
	}
	return fmt.Sprintf("%s: %s (%s)\n%s", e.Kind, e.Message, e.Position, snippet)
}

// Context renders a up-to-3-line window of Source centered on the error's
// line, with a caret under the offending column.
func (e *Error) Context() string {
	if e.Source == "" || e.Position.Line <= 0 {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	idx := e.Position.Line - 1
	if idx < 0 || idx >= len(lines) {
		return ""
	}

	var b strings.Builder
	start := idx - 1
	if start < 0 {
		start = 0
	}
	end := idx + 1
	if end >= len(lines) {
		end = len(lines) - 1
	}
	for i := start; i <= end; i++ {
		fmt.Fprintf(&b, "%4d | %s\n", i+1, lines[i])
		if i == idx {
			col := e.Position.Column
			if col < 1 {
				col = 1
			}
			b.WriteString("     | ")
			if col-1 <= len(lines[i]) {
				b.WriteString(strings.Repeat(" ", col-1))
			}
			b.WriteString("^\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// List is an accumulator of Errors used by the accumulate-and-continue
// entry points (tokenizer's lenient mode, parser's ParseSafe, extractors).
type List []*Error

func (l List) Error() string {
	parts := make([]string, len(l))
	for i, e := range l {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "\n\n")
}

func (l List) HasErrors() bool {
	return len(l) > 0
}
