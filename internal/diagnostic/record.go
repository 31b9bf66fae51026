package diagnostic

import (
	"fmt"
	"strconv"

	"github.com/hassan/exprlang/internal/span"
)

// Severity of a diagnostic record. The front end only produces errors.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "Severity(" + strconv.Itoa(int(s)) + ")"
	}
}

// MarshalText renders the severity by name in YAML and JSON output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}

// Record is one error resolved against its source text: a message, a stable
// code, and the 1-based line/column of both ends of its span.
type Record struct {
	Severity Severity      `json:"severity" yaml:"severity"`
	Code     string        `json:"code" yaml:"code"`
	Message  string        `json:"message" yaml:"message"`
	Span     span.Span     `json:"span" yaml:"span"`
	Start    span.Position `json:"start" yaml:"start"`
	End      span.Position `json:"end" yaml:"end"`
	Expected []string      `json:"expected,omitempty" yaml:"expected,omitempty"`
}

// String renders the record as "line:col: error[code]: message", prefixed
// with the filename when the record has one.
func (r Record) String() string {
	return fmt.Sprintf("%s: %s[%s]: %s", r.Start, r.Severity, r.Code, r.Message)
}

// Get resolves errors against source. It is pure: the same errors and source
// always give the same records, in the same order.
func Get(errs []Spanned, source string) []Record {
	return GetFile("", errs, source)
}

// GetFile is Get with a filename attached to every position.
func GetFile(filename string, errs []Spanned, source string) []Record {
	if len(errs) == 0 {
		return nil
	}
	lines := span.NewLineIndex(filename, source)
	records := make([]Record, 0, len(errs))
	for _, e := range errs {
		records = append(records, newRecord(e, source, lines))
	}
	return records
}

func newRecord(e Spanned, source string, lines *span.LineIndex) Record {
	r := Record{
		Severity: SeverityError,
		Code:     e.Value.Code(),
		Message:  message(e, source),
		Span:     e.Span,
		Start:    lines.Position(e.Span.Start),
		End:      lines.Position(e.Span.End),
	}
	if se, ok := e.Value.(*SyntaxError); ok && len(se.Expected) > 0 {
		r.Expected = append([]string(nil), se.Expected...)
	}
	return r
}

// message is the human text of one error. Errors that do not carry their
// offending text pick it up from the source.
func message(e Spanned, source string) string {
	switch err := e.Value.(type) {
	case *LexicalError:
		return "invalid token " + strconv.Quote(e.Span.Slice(source))
	case *SyntaxError:
		if err.Kind == InvalidToken {
			return "invalid token " + strconv.Quote(e.Span.Slice(source))
		}
		return err.Error()
	default:
		return e.Value.Error()
	}
}
