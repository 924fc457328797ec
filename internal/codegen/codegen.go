package codegen

import (
	"fmt"
	"os"
	"path/filepath"
	"rill/internal/sm"
	"strings"
)

// ---------------------------------------------------------------------------
// Options controls the behaviour of the code-generation pipeline.
// ---------------------------------------------------------------------------

// Options configures the codegen pipeline.
type Options struct {
	// BuildDir is the directory where all build artifacts are written.
	// Defaults to "./build" relative to the working directory.
	BuildDir string

	// OutputName is the base name for the output files (without extension).
	// Defaults to "output".
	OutputName string

	// RuntimePath is the C source file providing Lread and Lwrite.
	// Defaults to "runtime/runtime.c".
	RuntimePath string

	// Verbose enables extra diagnostic output.
	Verbose bool

	// AsmOnly stops after emitting the assembly file (skip the C toolchain).
	AsmOnly bool
}

// DefaultOptions returns sensible defaults (build/ directory, bundled runtime).
func DefaultOptions() *Options {
	return &Options{
		BuildDir:    "build",
		RuntimePath: filepath.Join("runtime", "runtime.c"),
	}
}

// ---------------------------------------------------------------------------
// Result is returned by Generate with paths to all produced artifacts.
// ---------------------------------------------------------------------------

type Result struct {
	AsmFile string // path to the assembly file
	ExeFile string // path to the executable (empty if AsmOnly or no toolchain)
	SMDump  string // human-readable stack-machine listing (for debugging)
}

// ---------------------------------------------------------------------------
// Generate — the public entry point for the full codegen pipeline
//
// Pipeline: SM program → Assembly text (Compile) → Executable (gcc -m32)
// ---------------------------------------------------------------------------

// Generate lowers a stack-machine program to assembly, writes the listing,
// and (unless AsmOnly) links it against the C runtime.
func Generate(prog sm.Program, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	outputName := opts.OutputName
	if outputName == "" {
		outputName = "output"
	}
	// Sanitize: replace dots/spaces with underscores.
	outputName = strings.Map(func(r rune) rune {
		if r == '.' || r == ' ' || r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, outputName)

	buildDir := opts.BuildDir
	if buildDir == "" {
		buildDir = "build"
	}
	if err := os.MkdirAll(buildDir, 0755); err != nil {
		return nil, fmt.Errorf("cannot create build directory %s: %w", buildDir, err)
	}

	result := &Result{SMDump: prog.DebugDump()}

	if opts.Verbose {
		fmt.Println("[codegen] Emitting x86 assembly...")
		fmt.Println(result.SMDump)
	}

	asmText, err := Compile(prog)
	if err != nil {
		return nil, err
	}

	tc := NewToolchain(buildDir, outputName)
	tc.Verbose = opts.Verbose
	tc.RuntimePath = opts.RuntimePath
	if tc.RuntimePath == "" {
		tc.RuntimePath = filepath.Join("runtime", "runtime.c")
	}

	if err := tc.WriteAssembly(asmText); err != nil {
		return nil, fmt.Errorf("cannot write assembly file: %w", err)
	}
	result.AsmFile = tc.AsmFile

	if opts.Verbose {
		fmt.Printf("[codegen] Assembly written to %s\n", result.AsmFile)
	}

	if opts.AsmOnly {
		return result, nil
	}

	if missing := DetectToolchain(); len(missing) > 0 {
		fmt.Printf("[codegen] Warning: missing toolchain components: %s\n", strings.Join(missing, ", "))
		fmt.Printf("[codegen] Assembly file was written to %s — you can assemble and link manually.\n", result.AsmFile)
		return result, nil
	}

	if opts.Verbose {
		fmt.Println("[codegen] Linking...")
	}
	if err := tc.Link(); err != nil {
		return result, fmt.Errorf("linking failed: %w", err)
	}
	result.ExeFile = tc.ExeFile

	if opts.Verbose {
		fmt.Printf("[codegen] Executable written to %s\n", result.ExeFile)
	}

	return result, nil
}
