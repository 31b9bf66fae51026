package diagnostic

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/hassan/exprlang/internal/span"
)

// Renderer writes records as source excerpts with the offending span
// underlined:
//
//	error[E0103]: unexpected extra token "2"
//	 --> input.expr:1:3
//	  |
//	1 | 1 2
//	  |   ^
type Renderer struct {
	lines *span.LineIndex

	severity *color.Color
	location *color.Color
	gutter   *color.Color
	caret    *color.Color
}

// NewRenderer creates a renderer for records produced from source. Colour is
// off until EnableColor is called.
func NewRenderer(filename, source string) *Renderer {
	r := &Renderer{
		lines:    span.NewLineIndex(filename, source),
		severity: color.New(color.FgRed, color.Bold),
		location: color.New(color.FgCyan),
		gutter:   color.New(color.FgBlue, color.Bold),
		caret:    color.New(color.FgRed, color.Bold),
	}
	r.DisableColor()
	return r
}

// EnableColor turns on ANSI colour regardless of the terminal.
func (r *Renderer) EnableColor() {
	for _, c := range r.colors() {
		c.EnableColor()
	}
}

// DisableColor turns ANSI colour off.
func (r *Renderer) DisableColor() {
	for _, c := range r.colors() {
		c.DisableColor()
	}
}

func (r *Renderer) colors() []*color.Color {
	return []*color.Color{r.severity, r.location, r.gutter, r.caret}
}

// Render writes every record followed by a blank line.
func (r *Renderer) Render(w io.Writer, records []Record) error {
	var b strings.Builder
	for _, rec := range records {
		r.renderOne(&b, rec)
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Renderer) renderOne(b *strings.Builder, rec Record) {
	lineNo := rec.Start.Line
	text := r.lines.Line(lineNo)
	num := strconv.Itoa(lineNo)
	pad := strings.Repeat(" ", len(num))

	fmt.Fprintf(b, "%s: %s\n", r.severity.Sprintf("%s[%s]", rec.Severity, rec.Code), rec.Message)
	fmt.Fprintf(b, "%s%s %s\n", pad, r.gutter.Sprint("-->"), r.location.Sprint(rec.Start.String()))
	fmt.Fprintf(b, "%s %s\n", pad, r.gutter.Sprint("|"))
	fmt.Fprintf(b, "%s %s %s\n", r.gutter.Sprint(num), r.gutter.Sprint("|"), text)

	col := rec.Start.Column - 1
	if col > len(text) {
		col = len(text)
	}
	end := len(text)
	if rec.End.Line == lineNo && rec.End.Column-1 < end {
		end = rec.End.Column - 1
	}
	width := utf8.RuneCountInString(text[col:max(col, end)])
	if width == 0 {
		width = 1
	}
	fmt.Fprintf(b, "%s %s %s%s\n", pad, r.gutter.Sprint("|"),
		indent(text[:col]), r.caret.Sprint(strings.Repeat("^", width)))
}

// indent blanks out prefix while keeping its tabs, so a caret lines up under
// the text it points at.
func indent(prefix string) string {
	var b strings.Builder
	for _, ch := range prefix {
		if ch == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// EncodeYAML writes records as a YAML sequence.
func EncodeYAML(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding diagnostics as yaml: %w", err)
	}
	return enc.Close()
}

// EncodeJSON writes records as an indented JSON array.
func EncodeJSON(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding diagnostics as json: %w", err)
	}
	return nil
}
