// Package span provides the byte-offset source ranges attached to every token,
// error and AST node, and the conversion from offsets to line/column positions.
package span

import "strconv"

// Span is a half-open range [Start, End) of byte offsets into source text.
//
// Offsets are bytes, not runes, so source[s.Start:s.End] is always the exact
// text a span covers. A Span with Start == End is empty and marks a point,
// e.g. the end of input.
type Span struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// New creates a span from start to end.
func New(start, end int) Span {
	return Span{Start: start, End: end}
}

// Point returns the empty span at offset.
func Point(offset int) Span {
	return Span{Start: offset, End: offset}
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

// IsEmpty reports whether the span covers no bytes.
func (s Span) IsEmpty() bool {
	return s.Len() == 0
}

// IsValid reports whether Start <= End and neither offset is negative.
func (s Span) IsValid() bool {
	return s.Start >= 0 && s.Start <= s.End
}

// Contains reports whether offset lies inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Encloses reports whether other lies entirely within s.
func (s Span) Encloses(other Span) bool {
	return other.Start >= s.Start && other.End <= s.End
}

// Union returns the smallest span covering both s and other.
func (s Span) Union(other Span) Span {
	out := s
	if other.Start < out.Start {
		out.Start = other.Start
	}
	if other.End > out.End {
		out.End = other.End
	}
	return out
}

// Slice returns the text of source covered by the span. Offsets outside the
// source are clamped, so Slice never panics.
func (s Span) Slice(source string) string {
	start, end := s.Start, s.End
	if start < 0 {
		start = 0
	}
	if end > len(source) {
		end = len(source)
	}
	if start >= end {
		return ""
	}
	return source[start:end]
}

// String renders the span as "start..end".
func (s Span) String() string {
	return strconv.Itoa(s.Start) + ".." + strconv.Itoa(s.End)
}

// Spanned pairs a value with the span of source that produced it.
type Spanned[T any] struct {
	Value T
	Span  Span
}

// Wrap pairs value with sp.
func Wrap[T any](value T, sp Span) Spanned[T] {
	return Spanned[T]{Value: value, Span: sp}
}
