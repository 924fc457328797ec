package main

import (
	"fmt"
	"os"
	"path/filepath"
	"rill/internal/ast"
	"rill/internal/check"
	"rill/internal/codegen"
	"rill/internal/interp"
	"rill/internal/lexer"
	"rill/internal/parser"
	"rill/internal/sm"
	"strings"
)

const VERSION = "0.1.0"

var debugMode = false

func main() {
	os.Exit(run())
}

func run() int {
	// Check for --debug flag early.
	for _, arg := range os.Args[1:] {
		if arg == "--debug" {
			debugMode = true
			break
		}
	}

	if len(os.Args) < 2 {
		usage()
		return 1
	}

	// Find the source file (first non-flag argument).
	var filePath string
	for _, arg := range os.Args[1:] {
		if len(arg) > 0 && arg[0] != '-' {
			filePath = arg
			break
		}
	}
	if filePath == "" {
		usage()
		return 1
	}
	printDebug("Building using: " + filePath)

	source, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Println("Error: Could not read file.")
		fmt.Println("Error details: " + err.Error())
		return 1
	}

	// --- Lexing ---
	printDebug("Starting lexing process...")
	tokens, lexErrors := lexer.Lex(string(source))
	if len(lexErrors) > 0 {
		fmt.Println("Lexing errors:")
		for _, e := range lexErrors {
			fmt.Printf("  %s\n", e.Error())
		}
		return 1
	}
	printDebug(fmt.Sprintf("Lexing complete. %d tokens produced.", len(tokens)))

	// --- Parsing ---
	printDebug("Starting parsing process...")
	program, parseErrors := parser.Parse(tokens)
	if len(parseErrors) > 0 {
		fmt.Println("Parse errors:")
		for _, e := range parseErrors {
			fmt.Printf("  %s\n", e.Error())
		}
		return 1
	}
	printDebug("Parsing complete. No errors.")

	printDebug("--- AST ---")
	printDebug(ast.DebugString(program))
	printDebug("--- End AST ---")

	// --- Checking ---
	printDebug("Starting checks...")
	diagnostics := check.Analyze(program)

	var warnings, errors []check.Diagnostic
	for _, d := range diagnostics {
		if d.Severity == check.Warning {
			warnings = append(warnings, d)
		} else {
			errors = append(errors, d)
		}
	}

	// Always print warnings.
	if len(warnings) > 0 {
		fmt.Println("Warnings:")
		for _, w := range warnings {
			fmt.Printf("  %s\n", w.Error())
		}
	}

	if len(errors) > 0 {
		fmt.Println("Errors:")
		for _, e := range errors {
			fmt.Printf("  %s\n", e.Error())
		}
		return 1
	}
	printDebug("Checks complete. No errors.")

	// --- Mode dispatch ---
	for _, arg := range os.Args[1:] {
		switch arg {
		case "-i":
			printDebug("Running the AST interpreter...")
			if err := interp.Run(program, os.Stdin, os.Stdout); err != nil {
				fmt.Printf("Runtime error: %s\n", err)
				return 1
			}
			return 0

		case "-s":
			printDebug("Running the stack-machine interpreter...")
			prog, err := sm.Compile(program)
			if err != nil {
				fmt.Printf("Lowering error: %s\n", err)
				return 1
			}
			printDebug("--- Stack machine ---")
			printDebug(prog.DebugDump())
			printDebug("--- End stack machine ---")
			if err := sm.Run(prog, os.Stdin, os.Stdout); err != nil {
				fmt.Printf("Runtime error: %s\n", err)
				return 1
			}
			return 0
		}
	}

	// --- Code generation ---
	printDebug("Starting code generation...")
	prog, err := sm.Compile(program)
	if err != nil {
		fmt.Printf("Lowering error: %s\n", err)
		return 1
	}

	opts := codegen.DefaultOptions()
	opts.Verbose = debugMode
	opts.OutputName = baseName(filePath)
	for _, arg := range os.Args[1:] {
		if arg == "--asm-only" {
			opts.AsmOnly = true
		}
	}

	result, err := codegen.Generate(prog, opts)
	if err != nil {
		fmt.Printf("Codegen error: %s\n", err)
		return 1
	}

	fmt.Println("Build artifacts:")
	if result.AsmFile != "" {
		fmt.Printf("  Assembly: %s\n", result.AsmFile)
	}
	if result.ExeFile != "" {
		fmt.Printf("  Binary:   %s\n", result.ExeFile)
	}

	printDebug("Compilation pipeline finished successfully.")
	return 0
}

func usage() {
	fmt.Println("rill compiler V" + VERSION)
	fmt.Println("Usage: rill [flags] <file>")
	fmt.Println("  -i          run the AST interpreter")
	fmt.Println("  -s          run the stack-machine interpreter")
	fmt.Println("  --asm-only  emit assembly without linking")
	fmt.Println("  --debug     print pipeline diagnostics")
}

// baseName strips the directory and extension from a source path.
func baseName(path string) string {
	name := filepath.Base(path)
	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}

func printDebug(message string) {
	if !debugMode {
		return
	}
	fmt.Println("[DEBUG] " + message)
}
