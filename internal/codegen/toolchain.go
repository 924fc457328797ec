package codegen

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ---------------------------------------------------------------------------
// Toolchain — assembles and links the emitted listing with the C runtime
//
// The listing references two external symbols, Lread and Lwrite, which the
// runtime C file provides.  gcc handles both the assembling and the link in
// one invocation; -m32 matches the 32-bit listing.
// ---------------------------------------------------------------------------

// Toolchain represents the external compiler used to build the executable.
type Toolchain struct {
	BuildDir    string
	AsmFile     string // path to the assembly file
	ExeFile     string // path to the final executable
	RuntimePath string // C source providing Lread/Lwrite
	Verbose     bool
}

// NewToolchain creates a Toolchain for the given build directory.
func NewToolchain(buildDir, baseName string) *Toolchain {
	return &Toolchain{
		BuildDir: buildDir,
		AsmFile:  filepath.Join(buildDir, baseName+".s"),
		ExeFile:  filepath.Join(buildDir, baseName),
	}
}

// WriteAssembly writes the assembly string to the .s file.
func (tc *Toolchain) WriteAssembly(asm string) error {
	return os.WriteFile(tc.AsmFile, []byte(asm), 0644)
}

// Link assembles the listing and links it with the runtime in one gcc call.
func (tc *Toolchain) Link() error {
	compiler := "gcc"
	if _, err := exec.LookPath(compiler); err != nil {
		compiler = "cc"
	}
	cmd := exec.Command(compiler, "-m32", "-o", tc.ExeFile, tc.AsmFile, tc.RuntimePath)
	return tc.runCmd(cmd, "link")
}

func (tc *Toolchain) runCmd(cmd *exec.Cmd, stage string) error {
	if tc.Verbose {
		fmt.Printf("[toolchain] %s: %s\n", stage, strings.Join(cmd.Args, " "))
	}

	var stderr strings.Builder
	cmd.Stderr = &stderr
	cmd.Stdout = os.Stdout

	err := cmd.Run()
	if err != nil {
		return fmt.Errorf("%s failed: %v\n%s", stage, err, stderr.String())
	}
	return nil
}

// DetectToolchain checks whether the required external tools are available
// and returns a list of missing tools.
func DetectToolchain() []string {
	var missing []string
	if _, err := exec.LookPath("gcc"); err != nil {
		if _, err := exec.LookPath("cc"); err != nil {
			missing = append(missing, "gcc (C compiler)")
		}
	}
	return missing
}
