// Package console narrates a bootstrap run for the operator.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

const ruleWidth = 40

// Printer writes human readable progress lines. It is not safe for concurrent use.
type Printer struct {
	out io.Writer

	header  *color.Color
	success *color.Color
	warning *color.Color
	failure *color.Color
	detail  *color.Color
}

// New returns a Printer writing to out. Colors follow color.NoColor, which is
// already false when out is not a terminal.
func New(out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	return &Printer{
		out:     out,
		header:  color.New(color.FgCyan, color.Bold),
		success: color.New(color.FgGreen),
		warning: color.New(color.FgYellow),
		failure: color.New(color.FgRed),
		detail:  color.New(color.Faint),
	}
}

// Rule prints a separator line. heavy selects '=' over '-'.
func (p *Printer) Rule(heavy bool) {
	ch := "-"
	if heavy {
		ch = "="
	}
	fmt.Fprintln(p.out, strings.Repeat(ch, ruleWidth))
}

func (p *Printer) Title(format string, args ...any) {
	p.header.Fprintf(p.out, format+"\n", args...)
}

// Step prints the numbered header shown before each step runs.
func (p *Printer) Step(index, total int, name string) {
	fmt.Fprintln(p.out)
	p.header.Fprintf(p.out, "%d/%d. %s\n", index, total, name)
	p.Rule(false)
}

func (p *Printer) Success(format string, args ...any) {
	p.success.Fprintf(p.out, "✓ "+format+"\n", args...)
}

func (p *Printer) Warn(format string, args ...any) {
	p.warning.Fprintf(p.out, "⚠ "+format+"\n", args...)
}

func (p *Printer) Fail(format string, args ...any) {
	p.failure.Fprintf(p.out, "✗ "+format+"\n", args...)
}

func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.out, "ℹ "+format+"\n", args...)
}

// Detail prints an indented continuation line.
func (p *Printer) Detail(format string, args ...any) {
	p.detail.Fprintf(p.out, "   "+format+"\n", args...)
}

func (p *Printer) Blank() {
	fmt.Fprintln(p.out)
}
