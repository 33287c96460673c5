//go:build mage

package main

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// Convert builds the CLI and converts every packet in packets/.
func Convert() error {
	mg.Deps(Build)
	return runCLI("convert")
}

// Merge builds the CLI and merges per-packet CSV files into the dataset.
func Merge() error {
	mg.Deps(Build)
	return runCLI("merge")
}

// Bank builds the CLI and ingests converted output into the question bank.
func Bank() error {
	mg.Deps(Build)
	return runCLI("bank", "store")
}

func runCLI(args ...string) error {
	cmd := exec.Command(filepath.Join(binDir, binName), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
