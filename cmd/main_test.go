package main

import (
	"testing"
)

// TestMainPackage ensures the package is loadable. main() itself is
// exercised through the command packages.
func TestMainPackage(t *testing.T) {
	t.Parallel()
}
