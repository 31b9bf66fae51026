package span

import (
	"sort"
	"strconv"
)

// Position is a human-oriented location in the source.
//
// Line and Column are 1-based, Offset is the 0-based byte offset. Columns
// count bytes from the start of the line, the same unit spans use, so a
// column never disagrees with the offset it was computed from.
type Position struct {
	// Filename is optional and only used when rendering.
	Filename string `json:"filename,omitempty" yaml:"filename,omitempty"`
	Line     int    `json:"line" yaml:"line"`
	Column   int    `json:"column" yaml:"column"`
	Offset   int    `json:"offset" yaml:"offset"`
}

// String returns "filename:line:column", or "line:column" without a filename.
func (p Position) String() string {
	lc := strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
	if p.Filename == "" {
		return lc
	}
	return p.Filename + ":" + lc
}

// IsValid reports whether the position has a line number.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Before reports whether p comes before other. Offsets are the source of
// truth; line and column are derived from them.
func (p Position) Before(other Position) bool {
	return p.Offset < other.Offset
}

// After reports whether p comes after other.
func (p Position) After(other Position) bool {
	return p.Offset > other.Offset
}

// LineIndex resolves byte offsets of one source text to line/column
// positions. Build it once per source; lookups are O(log lines).
type LineIndex struct {
	filename string
	source   string
	// lineStarts[i] is the byte offset at which line i+1 begins.
	lineStarts []int
}

// NewLineIndex scans source for '\n' line breaks.
func NewLineIndex(filename, source string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{filename: filename, source: source, lineStarts: starts}
}

// Position returns the 1-based line/column of offset. Offsets past the end
// of the source resolve to the end of the last line.
func (li *LineIndex) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(li.source) {
		offset = len(li.source)
	}
	// First line whose start is beyond offset, minus one.
	line := sort.Search(len(li.lineStarts), func(i int) bool {
		return li.lineStarts[i] > offset
	}) - 1
	return Position{
		Filename: li.filename,
		Line:     line + 1,
		Column:   offset - li.lineStarts[line] + 1,
		Offset:   offset,
	}
}

// Line returns the text of the 1-based line n without its line break.
func (li *LineIndex) Line(n int) string {
	if n < 1 || n > len(li.lineStarts) {
		return ""
	}
	start := li.lineStarts[n-1]
	end := len(li.source)
	if n < len(li.lineStarts) {
		end = li.lineStarts[n] - 1
	}
	return li.source[start:end]
}

// LineCount returns the number of lines in the source.
func (li *LineIndex) LineCount() int {
	return len(li.lineStarts)
}
