package build

import (
	"errors"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"os/exec"
	"path/filepath"
)

// Build compiles LLVM IR into a native executable at outputBinaryPath using clang
func Build(llvmIR, outputBinaryPath string, debug bool, optimize bool) error {
	if outputBinaryPath == "" {
		outputBinaryPath = "fibtimer-native"
	}

	// Get dir to save temporary files in
	tmpDir, err := ioutil.TempDir("", "fibtimer")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	irPath := filepath.Join(tmpDir, "main.ll")

	// Write LLVM IR to disk
	err = ioutil.WriteFile(irPath, []byte(llvmIR), 0666)
	if err != nil {
		return err
	}

	clangArgs := []string{
		"-Wno-override-module", // Disable override target triple warnings
		irPath,                 // Path to LLVM IR
		"-o", outputBinaryPath, // Output path
	}

	if optimize {
		clangArgs = append(clangArgs, "-O3")
	}

	if debug {
		log.Printf("clang %v", clangArgs)
	}

	// Invoke clang to compile LLVM IR to a binary executable
	cmd := exec.Command("clang", clangArgs...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		log.Println(string(output))
		return fmt.Errorf("clang: %w", err)
	}

	if len(output) > 0 {
		log.Println(string(output))
		return errors.New("Clang failure")
	}

	return nil
}
