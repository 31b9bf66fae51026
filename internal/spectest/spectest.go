// Package spectest runs the front end over a tree of .expr fixtures and
// compares its output with golden files stored next to each fixture.
//
// For a fixture a/b.expr the recognized goldens are:
//
//	a/b.expr.tokens       lexer.DumpResults of the token sequence
//	a/b.expr.ast          Expr.Dump of the parsed tree
//	a/b.expr.error        diagnostic.List.Dump of the parse errors
//	a/b.expr.diagnostics  one Record.String line per error
//
// A golden that does not exist is not checked. Comparison is exact; a
// mismatch is reported as a unified diff.
package spectest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/hassan/exprlang/internal/diagnostic"
	"github.com/hassan/exprlang/internal/lexer"
	"github.com/hassan/exprlang/internal/parser"
)

// FixtureExt is the extension of fixture sources.
const FixtureExt = ".expr"

// Golden identifies one kind of golden output.
type Golden string

const (
	GoldenTokens      Golden = ".tokens"
	GoldenAST         Golden = ".ast"
	GoldenError       Golden = ".error"
	GoldenDiagnostics Golden = ".diagnostics"
)

// Goldens lists every golden kind in the order they are checked.
var Goldens = []Golden{GoldenTokens, GoldenAST, GoldenError, GoldenDiagnostics}

// Fixture is one .expr source file.
type Fixture struct {
	// Path is the fixture's path on the harness filesystem.
	Path string
	// Name is Path relative to the walked root, with forward slashes.
	Name   string
	Source string
}

// GoldenPath returns the path of the g golden of f.
func (f Fixture) GoldenPath(g Golden) string {
	return f.Path + string(g)
}

// Harness discovers fixtures and checks them against their goldens.
type Harness struct {
	Fs afero.Fs
	// Update rewrites existing goldens with the actual output instead of
	// comparing.
	Update bool
	Logger logrus.FieldLogger
}

// New creates a harness reading from fs.
func New(fs afero.Fs) *Harness {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &Harness{Fs: fs, Logger: l}
}

// Discover returns every fixture under root, sorted by name.
func (h *Harness) Discover(root string) ([]Fixture, error) {
	var fixtures []Fixture
	err := afero.Walk(h.Fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != FixtureExt {
			return nil
		}
		data, err := afero.ReadFile(h.Fs, path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		fixtures = append(fixtures, Fixture{
			Path:   path,
			Name:   filepath.ToSlash(rel),
			Source: string(data),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovering fixtures in %s: %w", root, err)
	}
	sort.Slice(fixtures, func(i, j int) bool { return fixtures[i].Name < fixtures[j].Name })
	return fixtures, nil
}

// Render produces the actual output of f for golden kind g.
func Render(f Fixture, g Golden) string {
	switch g {
	case GoldenTokens:
		return lexer.DumpResults(lexer.Collect(f.Source))
	case GoldenAST:
		expr, _ := parser.Parse(f.Source)
		return expr.Dump()
	case GoldenError:
		_, errs := parser.Parse(f.Source)
		return errs.Dump()
	case GoldenDiagnostics:
		_, errs := parser.Parse(f.Source)
		var b strings.Builder
		for _, r := range diagnostic.Get(errs, f.Source) {
			b.WriteString(r.String())
			b.WriteByte('\n')
		}
		return b.String()
	default:
		panic("spectest: unknown golden kind " + string(g))
	}
}

// Check compares f's output with its g golden. It reports whether the golden
// exists, and returns a unified diff when the output differs. In update mode
// an existing golden is rewritten and never reported as different.
func (h *Harness) Check(f Fixture, g Golden) (exists bool, diff string, err error) {
	path := f.GoldenPath(g)
	want, err := afero.ReadFile(h.Fs, path)
	if os.IsNotExist(err) {
		return false, "", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("reading golden: %w", err)
	}

	got := Render(f, g)
	if got == string(want) {
		return true, "", nil
	}

	if h.Update {
		h.Logger.WithField("golden", path).Info("updating golden")
		if err := afero.WriteFile(h.Fs, path, []byte(got), 0o644); err != nil {
			return true, "", fmt.Errorf("updating golden: %w", err)
		}
		return true, "", nil
	}

	diff, err = difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(want)),
		B:        difflib.SplitLines(got),
		FromFile: path,
		ToFile:   "actual",
		Context:  3,
	})
	if err != nil {
		return true, "", fmt.Errorf("diffing golden: %w", err)
	}
	return true, diff, nil
}

// Run discovers the fixtures under root and checks each golden in its own
// subtest named after the fixture and the golden kind.
func (h *Harness) Run(t *testing.T, root string) {
	t.Helper()
	fixtures, err := h.Discover(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(fixtures) == 0 {
		t.Fatalf("no %s fixtures under %s", FixtureExt, root)
	}

	for _, f := range fixtures {
		t.Run(f.Name, func(t *testing.T) {
			for _, g := range Goldens {
				exists, diff, err := h.Check(f, g)
				if err != nil {
					t.Fatal(err)
				}
				if exists && diff != "" {
					t.Errorf("%s%s mismatch:\n%s", f.Name, g, diff)
				}
			}
		})
	}
}
