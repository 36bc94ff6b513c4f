package rewriting

import (
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"sort"
	"strconv"
	"strings"

	"github.com/funclock/funclock/timing"
)

// runtimePath is the import path of the package the generated code calls
// into.
const runtimePath = "github.com/funclock/funclock/timing"

// importAlias is the alias under which the runtime package is imported when
// the file does not import it already.
const importAlias = "fctiming"

// uidSuffix marks every identifier the rewriter inserts. The suffix keeps
// the inserted names from colliding with anything a function body would
// declare, and its presence in a body is how the rewriter recognizes code it
// has already instrumented. Bodies must not use identifiers ending in it.
const uidSuffix = "_fc7c9e41b6d2"

var startVar = "start" + uidSuffix

// RewriteSource rewrites every annotated function in one file's source:
// the start instant is captured first, the original body runs unchanged
// inside a function literal with an identical result list, and after a
// normal completion the elapsed time is rendered and emitted on the
// directive's channel. Panics propagate out of the function literal and
// bypass the emission. Functions whose bodies already carry rewriter markers
// are left alone, so rewriting is idempotent.
//
// On any Diagnostic the source is returned unchanged: no rewritten artifact
// is produced for a file with a malformed annotation. The error reports
// parse failures only.
func RewriteSource(
	filename string,
	src []byte,
	opts Options,
) ([]byte, []Target, []Diagnostic, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, nil, nil, err
	}

	targets, diags := collect(fset, file, src, opts)
	if len(diags) > 0 {
		return src, nil, diags, nil
	}

	public := make([]Target, 0, len(targets))
	var edits []edit
	needImport := false

	alias, imported := runtimeImportAlias(file)
	for _, t := range targets {
		public = append(public, t.Target)
		if t.Instrumented {
			continue
		}

		edits = append(edits, edit{
			start: offsetOf(fset, t.fn.Body.Lbrace),
			end:   offsetOf(fset, t.fn.Body.Rbrace) + 1,
			text:  instrumentedBody(fset, src, t.fn, t.Directive, alias),
		})
		needImport = true
	}

	if len(edits) == 0 {
		return src, public, nil, nil
	}

	if !imported && needImport {
		edits = append(edits, importEdit(fset, file))
	}

	out := applyEdits(src, edits)
	out, err = format.Source(out)
	if err != nil {
		return nil, nil, nil, fmt.Errorf(
			"rewritten %s does not parse: %v", filename, err)
	}

	return out, public, nil, nil
}

type edit struct {
	start int
	end   int
	text  string
}

// applyEdits splices the replacements into src, back to front so the earlier
// offsets stay valid.
func applyEdits(src []byte, edits []edit) []byte {
	sort.Slice(edits, func(i, j int) bool {
		return edits[i].start > edits[j].start
	})

	out := append([]byte{}, src...)
	for _, e := range edits {
		out = append(out[:e.start],
			append([]byte(e.text), out[e.end:]...)...)
	}

	return out
}

func offsetOf(fset *token.FileSet, pos token.Pos) int {
	return fset.Position(pos).Offset
}

func alreadyInstrumented(
	fset *token.FileSet,
	fn *ast.FuncDecl,
	src []byte,
) bool {
	if fn.Body == nil {
		return false
	}
	body := src[offsetOf(fset, fn.Body.Lbrace):offsetOf(fset, fn.Body.Rbrace)]
	return strings.Contains(string(body), uidSuffix)
}

// runtimeImportAlias reports how the file refers to the runtime package. An
// underscore import cannot be referenced, so it counts as absent.
func runtimeImportAlias(file *ast.File) (alias string, imported bool) {
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil || path != runtimePath {
			continue
		}
		if imp.Name == nil {
			return "timing", true
		}
		if imp.Name.Name == "_" {
			continue
		}
		return imp.Name.Name, true
	}

	return importAlias, false
}

// importEdit inserts the runtime import: into the first parenthesized import
// block when there is one, as a standalone import declaration otherwise.
func importEdit(fset *token.FileSet, file *ast.File) edit {
	spec := fmt.Sprintf("%s %q", importAlias, runtimePath)

	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.IMPORT {
			continue
		}
		if gen.Lparen.IsValid() {
			at := offsetOf(fset, gen.Lparen) + 1
			return edit{start: at, end: at, text: "\n\t" + spec}
		}
		at := offsetOf(fset, gen.Pos())
		return edit{start: at, end: at, text: "import " + spec + "\n"}
	}

	at := offsetOf(fset, file.Name.End())
	return edit{start: at, end: at, text: "\n\nimport " + spec}
}

// instrumentedBody builds the replacement body text. The original body runs
// verbatim inside a function literal whose result list is copied from the
// declaration, so named results and naked returns keep their meaning and
// return statements become literal returns captured into local variables.
func instrumentedBody(
	fset *token.FileSet,
	src []byte,
	fn *ast.FuncDecl,
	d Directive,
	alias string,
) string {
	inner := string(src[offsetOf(fset, fn.Body.Lbrace)+1 : offsetOf(
		fset, fn.Body.Rbrace)])

	b := &strings.Builder{}
	b.WriteString("{\n")
	fmt.Fprintf(b, "\t%s := %s\n", startVar, qualify(alias, "Now")+"()")

	names := resultNames(fn.Type.Results)
	if len(names) == 0 {
		fmt.Fprintf(b, "\tfunc() {%s}()\n", inner)
	} else {
		resultsText := string(src[offsetOf(fset, fn.Type.Results.Pos()):offsetOf(
			fset, fn.Type.Results.End())])
		fmt.Fprintf(b, "\t%s := func() %s {%s}()\n",
			strings.Join(names, ", "), resultsText, inner)
	}

	b.WriteString("\t" + emitCall(alias, fn.Name.Name, d) + "\n")
	if len(names) > 0 {
		fmt.Fprintf(b, "\treturn %s\n", strings.Join(names, ", "))
	}
	b.WriteString("}")

	return b.String()
}

// resultNames allocates one collision-proof local per individual result
// value.
func resultNames(results *ast.FieldList) []string {
	if results == nil {
		return nil
	}

	count := 0
	for _, field := range results.List {
		if len(field.Names) == 0 {
			count++
			continue
		}
		count += len(field.Names)
	}

	names := make([]string, count)
	for i := range names {
		names[i] = fmt.Sprintf("ret%d%s", i, uidSuffix)
	}

	return names
}

func emitCall(alias, fnName string, d Directive) string {
	helper := "EmitPrintln"
	if d.Channel == ChannelLog {
		helper = "EmitLog"
	}

	return fmt.Sprintf("%s(%s, %s, %s, %s)",
		qualify(alias, helper),
		strconv.Quote(fnName),
		qualify(alias, unitIdent(d.Unit)),
		strconv.Quote(d.Format),
		startVar,
	)
}

// qualify prefixes an exported runtime name with the import alias. A dot
// import needs no qualifier.
func qualify(alias, name string) string {
	if alias == "." {
		return name
	}
	return alias + "." + name
}

// unitIdent names the timing constant the generated code passes. The unit
// is resolved at rewrite time, so an unadorned directive bakes in the
// default that was in effect when the tool ran.
func unitIdent(u timing.Unit) string {
	switch u {
	case timing.Nanoseconds:
		return "Nanoseconds"
	case timing.Microseconds:
		return "Microseconds"
	case timing.Seconds:
		return "Seconds"
	default:
		return "Milliseconds"
	}
}
