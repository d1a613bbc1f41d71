//go:build mage

package main

import "github.com/magefile/mage/sh"

// Clean removes build outputs.
func Clean() error {
	return sh.Rm("bin")
}
