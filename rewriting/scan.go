package rewriting

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/funclock/funclock/timing"
)

// Options configure scanning and rewriting.
type Options struct {
	// DefaultUnit applies when a directive does not name a unit. The zero
	// value is the package default, milliseconds.
	DefaultUnit timing.Unit
}

// A Target describes one function declaration selected for instrumentation.
type Target struct {
	File      string
	Line      int
	Func      string
	Directive Directive

	// Instrumented reports that the function body already carries the
	// rewriter's markers, so a rewrite will leave it alone.
	Instrumented bool
}

// A Diagnostic is one configuration error found in the sources. Any
// diagnostic makes the rewrite of the containing file fail; no rewritten
// artifact is produced for it.
type Diagnostic struct {
	File string
	Line int
	Msg  string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s:%d: %s", d.File, d.Line, d.Msg)
}

// ScanSource lists the annotated functions and the configuration errors in
// one file's source without rewriting anything. The returned error reports
// failures to parse the file at all, not directive problems.
func ScanSource(
	filename string,
	src []byte,
	opts Options,
) ([]Target, []Diagnostic, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, nil, err
	}

	targets, diags := collect(fset, file, src, opts)

	public := make([]Target, 0, len(targets))
	for _, t := range targets {
		public = append(public, t.Target)
	}

	return public, diags, nil
}

// target pairs a public Target with the declaration it points at.
type target struct {
	Target
	fn *ast.FuncDecl
}

func collect(
	fset *token.FileSet,
	file *ast.File,
	src []byte,
	opts Options,
) ([]target, []Diagnostic) {
	var targets []target
	var diags []Diagnostic

	docComments := map[*ast.Comment]bool{}
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Doc == nil {
			continue
		}
		for _, c := range fn.Doc.List {
			docComments[c] = true
		}

		t, d := collectFunc(fset, fn, src, opts)
		if d != nil {
			diags = append(diags, *d)
		}
		if t != nil {
			targets = append(targets, *t)
		}
	}

	diags = append(diags, strayDirectives(fset, file, docComments)...)

	return targets, diags
}

func collectFunc(
	fset *token.FileSet,
	fn *ast.FuncDecl,
	src []byte,
	opts Options,
) (*target, *Diagnostic) {
	var directives []*ast.Comment
	for _, c := range fn.Doc.List {
		if isDirective(c.Text) {
			directives = append(directives, c)
		}
	}

	if len(directives) == 0 {
		return nil, nil
	}
	if len(directives) > 1 {
		return nil, diagnosticAt(fset, directives[1].Slash, fmt.Sprintf(
			"function %s carries more than one funclock directive",
			fn.Name.Name))
	}

	c := directives[0]
	d, err := parseDirective(c.Text, opts.DefaultUnit)
	if err != nil {
		return nil, diagnosticAt(fset, c.Slash, err.Error())
	}

	if fn.Body == nil {
		return nil, diagnosticAt(fset, c.Slash, fmt.Sprintf(
			"cannot instrument %s: function has no body", fn.Name.Name))
	}

	pos := fset.Position(fn.Pos())
	t := &target{
		Target: Target{
			File:         pos.Filename,
			Line:         pos.Line,
			Func:         fn.Name.Name,
			Directive:    d,
			Instrumented: alreadyInstrumented(fset, fn, src),
		},
		fn: fn,
	}

	return t, nil
}

// strayDirectives reports directive comments that are not the doc comment of
// a function declaration: free-floating comments, comments inside bodies,
// and annotations on types, variables, or other non-function constructs.
func strayDirectives(
	fset *token.FileSet,
	file *ast.File,
	docComments map[*ast.Comment]bool,
) []Diagnostic {
	var diags []Diagnostic

	for _, group := range file.Comments {
		for _, c := range group.List {
			if !isDirective(c.Text) || docComments[c] {
				continue
			}
			diags = append(diags, *diagnosticAt(fset, c.Slash,
				"funclock directive must be attached to a function "+
					"declaration"))
		}
	}

	return diags
}

func diagnosticAt(fset *token.FileSet, pos token.Pos, msg string) *Diagnostic {
	p := fset.Position(pos)
	return &Diagnostic{
		File: p.Filename,
		Line: p.Line,
		Msg:  msg,
	}
}

// ListGoFiles resolves a file or directory argument into the Go files it
// names. Directories are walked recursively, skipping hidden, underscore,
// and vendor directories.
func ListGoFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !strings.HasSuffix(root, ".go") {
			return nil, fmt.Errorf("%s is not a Go file", root)
		}
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, ".") ||
				strings.HasPrefix(name, "_") || name == "vendor") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(name, ".go") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}
