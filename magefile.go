//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

var Default = Build

// Build compiles the lexirecall binary into ./bin
func Build() error {
	fmt.Println("Building lexirecall...")
	if err := os.MkdirAll("bin", 0755); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-o", filepath.Join("bin", "lexirecall"), "./cmd/lexirecall")
}

// Test runs all tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Install builds and installs the binary into GOPATH/bin
func Install() error {
	mg.Deps(Test)
	return sh.RunV("go", "install", "./cmd/lexirecall")
}

// Clean removes build artifacts
func Clean() error {
	return os.RemoveAll("bin")
}
