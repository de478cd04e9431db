// Package units implements multi-file compilation: the external-class
// catalog a first pass builds from every unit's bare declarations, and the
// concurrent per-unit pipeline (§5) that compiles independent units on
// worker goroutines once that catalog is frozen.
package units

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/token"
)

// Unit is one compilation unit: a parsed source file plus the FileID its
// source.Buffer was registered under.
type Unit struct {
	Path    string
	FileID  token.FileID
	Program *ast.Program
}

// ExternalClassCatalog is the immutable, cross-unit class/enum index a
// first pass builds before any unit's body is analyzed — every unit reads
// it, none mutates it once BuildExternalClassCatalog returns, matching §5's
// "units share an immutable external-class catalog" requirement.
type ExternalClassCatalog struct {
	Classes map[string]*ast.ClassDecl
	Enums   map[string]*ast.EnumDecl
}

// BuildExternalClassCatalog scans every unit's top-level declarations
// (never their bodies — that's each unit's own analyzer's job) and records
// every class/enum by qualified name, plus validates any version
// constraint riding on an import path. A qualified name colliding across
// two units is reported against the second occurrence and does not abort
// the scan, so every other collision in the same build is still surfaced.
func BuildExternalClassCatalog(units []*Unit, reporter *diagnostics.Reporter) *ExternalClassCatalog {
	cat := &ExternalClassCatalog{
		Classes: make(map[string]*ast.ClassDecl),
		Enums:   make(map[string]*ast.EnumDecl),
	}
	for _, u := range units {
		for _, imp := range u.Program.Imports {
			checkImportVersion(imp, u.Path, reporter)
		}
		for _, decl := range u.Program.Decls {
			switch d := decl.(type) {
			case *ast.ClassDecl:
				if existing, ok := cat.Classes[d.Name]; ok && existing != d {
					diag := diagnostics.New(diagnostics.Error, diagnostics.KindSemantic, "NOVA-DUP-CLASS", d.Token,
						fmt.Sprintf("class %q is already declared elsewhere in this build", d.Name))
					diag.File = u.Path
					reporter.Report(diag)
					continue
				}
				cat.Classes[d.Name] = d
			case *ast.EnumDecl:
				if existing, ok := cat.Enums[d.Name]; ok && existing != d {
					diag := diagnostics.New(diagnostics.Error, diagnostics.KindSemantic, "NOVA-DUP-ENUM", d.Token,
						fmt.Sprintf("enum %q is already declared elsewhere in this build", d.Name))
					diag.File = u.Path
					reporter.Report(diag)
					continue
				}
				cat.Enums[d.Name] = d
			}
		}
	}
	return cat
}

// importVersion splits the parser's folded "path@version" form back apart
// (an import statement's optional `@ "version"` clause is appended onto
// Path at parse time); ok is false when there's no "@" at all, the
// ordinary unversioned import.
func importVersion(path string) (base, version string, ok bool) {
	at := strings.LastIndex(path, "@")
	if at < 0 {
		return path, "", false
	}
	return path[:at], path[at+1:], true
}

// checkImportVersion validates an import's pinned version string, if any,
// against golang.org/x/mod/semver, reused here for Nova module versions
// since both follow the same "vMAJOR.MINOR.PATCH" grammar.
func checkImportVersion(imp *ast.ImportDecl, unitPath string, reporter *diagnostics.Reporter) {
	_, version, ok := importVersion(imp.Path)
	if !ok {
		return
	}
	if !semver.IsValid(version) {
		diag := diagnostics.New(diagnostics.Error, diagnostics.KindSemantic, "NOVA-BAD-VERSION", imp.Token,
			fmt.Sprintf("import %q has an invalid version constraint %q", imp.Path, version))
		diag.File = unitPath
		reporter.Report(diag)
	}
}
