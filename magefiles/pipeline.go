//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// Learn builds the binary and learns patterns from examples/.
func Learn() error {
	mg.Deps(Build)
	return runBinary("learn", "--examples-dir", "examples", "--patterns", "learned-patterns.yaml")
}

// Outline builds the binary and outlines every deck in decks/ into
// output/storyboards/.
func Outline() error {
	mg.Deps(Build)

	entries, err := os.ReadDir("decks")
	if err != nil {
		return fmt.Errorf("reading decks/: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" && ext != ".json" {
			continue
		}
		stem := entry.Name()[:len(entry.Name())-len(ext)]
		out := filepath.Join("output", "storyboards", stem+".yaml")
		if err := runBinary("outline", filepath.Join("decks", entry.Name()), "--output", out, "--no-remote"); err != nil {
			return err
		}
	}
	return nil
}

func runBinary(args ...string) error {
	cmd := exec.Command(filepath.Join(binDir, binName), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
