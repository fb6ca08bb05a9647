//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import "github.com/magefile/mage/sh"

const binLint = "golangci-lint"

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV(binLint, "run", "./...")
}
