package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"ngc-ir/packages/compiler/src/diagnostics"
)

var (
	errorColor    = color.New(color.FgRed, color.Bold)
	warningColor  = color.New(color.FgYellow, color.Bold)
	successColor  = color.New(color.FgGreen)
	locationColor = color.New(color.FgCyan)
	markerColor   = color.New(color.FgRed)
)

// printDiagnostics prints each diagnostic with its location relative to
// root and, when it has a span, the first source line it covers.
func printDiagnostics(w io.Writer, root string, diags []diagnostics.Diagnostic) {
	for _, d := range diags {
		severity := warningColor.Sprint(d.Severity.String())
		if d.Severity == diagnostics.SeverityError {
			severity = errorColor.Sprint(d.Severity.String())
		}

		if d.Span == nil || d.Span.Start == nil || d.Span.Start.File == nil {
			fmt.Fprintf(w, "%s %s: %s\n\n", severity, d.Code.ID(), d.Message)
			continue
		}
		start := d.Span.Start
		location := fmt.Sprintf("%s:%d:%d", displayPath(root, start.File.URL), start.Line+1, start.Col+1)
		fmt.Fprintf(w, "%s - %s %s: %s\n", locationColor.Sprint(location), severity, d.Code.ID(), d.Message)

		line := sourceLine(start.File.Content, start.Offset)
		width := 1
		if d.Span.End != nil && d.Span.End.Line == start.Line {
			width = max(d.Span.End.Col-start.Col, 1)
		}
		gutter := fmt.Sprintf("%d ", start.Line+1)
		fmt.Fprintf(w, "\n%s%s\n", gutter, line)
		fmt.Fprintf(w, "%s%s\n\n", strings.Repeat(" ", len(gutter)+start.Col), markerColor.Sprint(strings.Repeat("~", width)))
	}
}

func sourceLine(content string, offset int) string {
	if offset > len(content) {
		offset = len(content)
	}
	begin := strings.LastIndexByte(content[:offset], '\n') + 1
	end := strings.IndexByte(content[offset:], '\n')
	if end < 0 {
		return content[begin:]
	}
	return content[begin : offset+end]
}
