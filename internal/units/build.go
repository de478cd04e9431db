package units

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/hir"
	"github.com/novalang/novac/internal/mir"
	"github.com/novalang/novac/internal/passes"
	"github.com/novalang/novac/internal/semantic"
	"github.com/novalang/novac/internal/token"
)

// Result is one unit's fully-lowered output: the MIR program plus the
// semantic analyzer that produced it, kept around because the analyzer
// still owns the per-unit symbol table a caller may want to inspect
// (for example a language-server hover request).
type Result struct {
	Unit *Unit
	Sem  *semantic.Analyzer
	Hir  *hir.Program
	Mir  *mir.Program
}

// Build lowers every unit through semantic analysis, HIR, and MIR
// concurrently, one goroutine per unit. Units share the already-built
// ExternalClassCatalog (read-only, so concurrent reads need no lock) and
// the reporter, which is itself safe for concurrent Report calls; no
// other state crosses goroutine boundaries.
//
// Each unit registers its rank via reporter.Merge before lowering starts
// so the final Diagnostics() ordering can place a later unit's errors
// after an earlier unit's even though both units finish at unpredictable
// times.
func Build(ctx context.Context, units []*Unit, catalog *ExternalClassCatalog, reporter *diagnostics.Reporter) ([]*Result, error) {
	for rank, u := range units {
		reporter.Merge(u.Path, rank, nil)
	}

	results := make([]*Result, len(units))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, u := range units {
		group.Go(func() error {
			r, err := buildOne(groupCtx, u, catalog, reporter)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// buildOne lowers a single unit. It never touches another unit's state;
// catalog is read-only and reporter is its own lock.
func buildOne(ctx context.Context, u *Unit, catalog *ExternalClassCatalog, reporter *diagnostics.Reporter) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	externalClasses, externalEnums := externalTo(u, catalog)
	sem := semantic.New(reporter)
	sem.SeedExternalClasses(externalClasses, externalEnums)
	sem.Analyze(u.Program)

	lowerer := hir.New(reporter, sem, u.Path)
	hirProg := lowerer.Lower(u.Program)

	// Each unit gets its own Registry rather than sharing one across the
	// goroutines Build fans out: Cache is plain maps with no locking, and
	// a unit's HIR/MIR shape has nothing another unit's pass run needs to
	// see.
	reg := passes.Default()
	hirProg, err := reg.RunHIR(hirProg)
	if err != nil {
		reporter.Report(diagnostics.InternalInvariant(token.Token{}, err.Error()))
	}

	mirLowerer := mir.New(reporter)
	mirProg := mirLowerer.Lower(hirProg)

	mirProg, err = reg.RunMIR(mirProg)
	if err != nil {
		reporter.Report(diagnostics.InternalInvariant(token.Token{}, err.Error()))
	}

	return &Result{Unit: u, Sem: sem, Hir: hirProg, Mir: mirProg}, nil
}

// externalTo filters catalog down to the classes/enums declared outside
// u: the catalog is built across every unit in the build including u
// itself, but seeding a unit's own declarations back into it as
// "external" would have the analyzer declare each one twice and report a
// spurious duplicate-declaration error.
func externalTo(u *Unit, catalog *ExternalClassCatalog) (map[string]*ast.ClassDecl, map[string]*ast.EnumDecl) {
	own := make(map[string]bool)
	for _, decl := range u.Program.Decls {
		switch d := decl.(type) {
		case *ast.ClassDecl:
			own[d.Name] = true
		case *ast.EnumDecl:
			own[d.Name] = true
		}
	}

	classes := make(map[string]*ast.ClassDecl, len(catalog.Classes))
	for name, decl := range catalog.Classes {
		if !own[name] {
			classes[name] = decl
		}
	}
	enums := make(map[string]*ast.EnumDecl, len(catalog.Enums))
	for name, decl := range catalog.Enums {
		if !own[name] {
			enums[name] = decl
		}
	}
	return classes, enums
}
