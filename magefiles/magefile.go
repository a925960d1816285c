// Package main provides build targets for lectern using Mage.
//
// Usage:
//
//	mage build       Compile the lectern binary to bin/
//	mage test        Run all tests
//	mage testRace    Run all tests with the race detector
//	mage cover       Write coverage to bin/coverage.out and print a summary
//	mage lint        Run golangci-lint
//	mage clean       Remove build artifacts
//	mage install     Install lectern to GOPATH/bin
//
// Set LECTERN_TEST_POSTGRES_DSN to run the postgres driver tests against a
// live server.
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName  = "lectern"
	binaryDir   = "bin"
	cmdDir      = "./cmd/lectern"
	versionVar  = "github.com/mesh-intelligence/lectern/internal/cli.Version"
	coverReport = "coverage.out"
)

// Build compiles the lectern binary to bin/, stamping the version from
// git describe when available.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	args := []string{"build", "-v", "-o", filepath.Join(binaryDir, binaryName)}
	if v := version(); v != "" {
		args = append(args, "-ldflags", "-X "+versionVar+"="+v)
	}
	return sh.RunV("go", append(args, cmdDir)...)
}

// Test runs all tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// TestRace runs all tests with the race detector.
func TestRace() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Cover runs the tests with coverage and prints the per-function summary.
func Cover() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	out := filepath.Join(binaryDir, coverReport)
	if err := sh.RunV("go", "test", "-coverprofile", out, "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func", out)
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV("go", "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}

// version returns the git description of HEAD without the leading v, or ""
// outside a git checkout.
func version() string {
	out, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.TrimSpace(out), "v")
}
