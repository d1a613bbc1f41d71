//go:build mage

package main

import "github.com/magefile/mage/sh"

// Lint vets every package.
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}
