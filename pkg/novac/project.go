package novac

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/novalang/novac/internal/backend"
	"github.com/novalang/novac/internal/config"
	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/lexer"
	"github.com/novalang/novac/internal/parser"
	"github.com/novalang/novac/internal/source"
	"github.com/novalang/novac/internal/units"
)

// ProjectManifest is novalang.yaml's shape: the source roots to scan,
// where compiled artifacts go, and whether the analyzer's own strict
// mode is on for this project.
type ProjectManifest struct {
	SourceRoots []string `yaml:"source_roots"`
	OutputDir   string   `yaml:"output_dir"`
	Strict      bool     `yaml:"strict"`
}

// loadManifest reads rootDir/novalang.yaml if present; a project with no
// manifest compiles every source file under rootDir itself, non-strict.
func loadManifest(rootDir string) (*ProjectManifest, error) {
	data, err := os.ReadFile(filepath.Join(rootDir, "novalang.yaml"))
	if os.IsNotExist(err) {
		return &ProjectManifest{SourceRoots: []string{"."}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading novalang.yaml: %w", err)
	}
	var m ProjectManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing novalang.yaml: %w", err)
	}
	if len(m.SourceRoots) == 0 {
		m.SourceRoots = []string{"."}
	}
	return &m, nil
}

func discoverSourceFiles(rootDir string, roots []string) ([]string, error) {
	var files []string
	for _, root := range roots {
		dir := filepath.Join(rootDir, root)
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && config.HasSourceExt(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", dir, err)
		}
	}
	sort.Strings(files)
	return files, nil
}

// Artifact is one compiled file's produced code objects, written under
// the project's output directory.
type Artifact struct {
	SourcePath string
	OutputPath string
	Objects    map[string]*backend.CodeObject
}

// ProjectResult is compile_project's output.
type ProjectResult struct {
	Artifacts   []Artifact
	Diagnostics []*diagnostics.Diagnostic
	// Summary is a human-readable one-line report of the build: files
	// compiled, total source size, elapsed time, diagnostic count.
	Summary string
}

// ExitCode reports the exit code a CLI should use for this result.
func (r *ProjectResult) ExitCode() ExitCode {
	return exitCodeFor(r.Diagnostics)
}

// CompileProject discovers every source file under rootDir (per its
// optional novalang.yaml manifest), compiles them together as one
// multi-file build through internal/units, and reports the artifacts
// produced plus every diagnostic collected. outputDir overrides the
// manifest's own output_dir when non-empty.
func CompileProject(rootDir, outputDir string) (*ProjectResult, error) {
	manifest, err := loadManifest(rootDir)
	if err != nil {
		return nil, err
	}
	if outputDir == "" {
		outputDir = manifest.OutputDir
	}
	if outputDir == "" {
		outputDir = filepath.Join(rootDir, "out")
	}

	prevStrict := config.StrictMode
	config.StrictMode = manifest.Strict
	defer func() { config.StrictMode = prevStrict }()

	paths, err := discoverSourceFiles(rootDir, manifest.SourceRoots)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	buffers := source.NewSet()
	reporter := diagnostics.NewReporter(buffers)

	var totalBytes int64
	us := make([]*units.Unit, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		totalBytes += int64(len(data))
		fileID := buffers.Add(source.New(path, string(data)))
		toks, lexDiags := lexer.Lex(string(data), fileID)
		for _, d := range lexDiags {
			d.File = path
			reporter.Report(d)
		}
		p := parser.New(toks, reporter, path)
		prog := p.ParseProgram()
		us = append(us, &units.Unit{Path: path, FileID: fileID, Program: prog})
	}

	catalog := units.BuildExternalClassCatalog(us, reporter)
	results, err := units.Build(context.Background(), us, catalog, reporter)
	if err != nil {
		return nil, fmt.Errorf("internal invariant violation compiling project: %w", err)
	}

	var artifacts []Artifact
	if !reporter.HasErrors() {
		for _, r := range results {
			objs := backend.EmitProgram(r.Mir)
			rel, relErr := filepath.Rel(rootDir, r.Unit.Path)
			if relErr != nil {
				rel = filepath.Base(r.Unit.Path)
			}
			out := filepath.Join(outputDir, rel)
			artifacts = append(artifacts, Artifact{SourcePath: r.Unit.Path, OutputPath: out, Objects: objs})
		}
	}

	elapsed := time.Since(start)
	summary := fmt.Sprintf("compiled %d file(s) (%s) in %s: %d diagnostic(s)",
		len(paths), humanize.Bytes(uint64(totalBytes)), elapsed.Round(time.Millisecond), len(reporter.Diagnostics()))

	return &ProjectResult{Artifacts: artifacts, Diagnostics: reporter.Diagnostics(), Summary: summary}, nil
}
