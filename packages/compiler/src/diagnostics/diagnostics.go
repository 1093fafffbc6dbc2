// Package diagnostics holds user-facing compiler diagnostics. Diagnostics
// never abort a compilation; they are collected on the job and reported by
// the driver.
package diagnostics

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"

	"ngc-ir/packages/compiler/src/util"
)

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

// Code is the numeric diagnostic code, printed as NG<code>.
type Code int

const (
	// CodeMissingControlFlowDirective: a structural directive such as
	// `*ngIf` is used but nothing in the imports provides it.
	CodeMissingControlFlowDirective Code = 8103
	// CodeMissingReferenceTarget: `#ref="name"` names no exported directive.
	CodeMissingReferenceTarget Code = 8003
	// CodeMissingPipe: a pipe is used that no import provides.
	CodeMissingPipe Code = 8004
	// CodeUnusedStandaloneImports: an import is never used in the template.
	CodeUnusedStandaloneImports Code = 8113
	// CodeTemplateParseError: markup or binding syntax error.
	CodeTemplateParseError Code = 5002
)

// ID returns the printable code, e.g. NG8113
func (c Code) ID() string {
	return fmt.Sprintf("NG%d", int(c))
}

// Diagnostic is one reportable issue
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Span     *util.ParseSourceSpan
}

// Error implements error so diagnostics can be aggregated
func (d Diagnostic) Error() string {
	if d.Span != nil && d.Span.Start != nil {
		return fmt.Sprintf("%s - %s %s: %s", d.Span.Start, d.Severity, d.Code.ID(), d.Message)
	}
	return fmt.Sprintf("%s %s: %s", d.Severity, d.Code.ID(), d.Message)
}

// NewError creates an error-severity diagnostic
func NewError(code Code, span *util.ParseSourceSpan, msg string) Diagnostic {
	return Diagnostic{Severity: SeverityError, Code: code, Message: msg, Span: span}
}

// NewWarning creates a warning-severity diagnostic
func NewWarning(code Code, span *util.ParseSourceSpan, msg string) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Code: code, Message: msg, Span: span}
}

// FromParseError converts a template parse error
func FromParseError(err *util.ParseError) Diagnostic {
	severity := SeverityError
	if err.Level == util.ParseErrorLevelWarning {
		severity = SeverityWarning
	}
	return Diagnostic{Severity: severity, Code: CodeTemplateParseError, Message: err.Msg, Span: err.Span}
}

// Bag collects diagnostics in report order
type Bag struct {
	items []Diagnostic
}

// NewBag creates an empty Bag
func NewBag() *Bag {
	return &Bag{}
}

// Add appends a diagnostic
func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

// Merge appends every diagnostic of other
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
}

// Len returns the number of diagnostics
func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the diagnostics. The slice must not be modified.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// HasErrors reports whether any diagnostic is an error
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SeverityError {
			return true
		}
	}
	return false
}

// Sort orders diagnostics by file, offset, severity (errors first) and code.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		fi, oi := position(di)
		fj, oj := position(dj)
		if fi != fj {
			return fi < fj
		}
		if oi != oj {
			return oi < oj
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

func position(d Diagnostic) (string, int) {
	if d.Span == nil || d.Span.Start == nil {
		return "", -1
	}
	url := ""
	if d.Span.Start.File != nil {
		url = d.Span.Start.File.URL
	}
	return url, d.Span.Start.Offset
}

// Err folds the error-severity diagnostics into one error, or returns nil.
func (b *Bag) Err() error {
	var result *multierror.Error
	for _, d := range b.items {
		if d.Severity == SeverityError {
			result = multierror.Append(result, d)
		}
	}
	return result.ErrorOrNil()
}
