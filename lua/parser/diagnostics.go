package parser

import "fmt"

// Diagnostic records a construct the parsers skipped or dropped.
// Skipping remains silent in the output; diagnostics exist so tools
// can surface what was thrown away.
type Diagnostic struct {
	Span   Span
	Reason string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s", d.Span.Line, d.Span.Column, d.Reason)
}
