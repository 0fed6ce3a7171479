// Package testkit carries the small asserts shared across package tests
package testkit

import (
	"strings"
	"testing"
)

// MustPanic fails the test unless fn panics
func MustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic, got none")
		}
	}()
	fn()
}

// MustContain fails the test unless needle appears in haystack, quoting a
// bounded slice of the haystack so log-output assertions stay readable
func MustContain(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		return
	}
	const shownMax = 512
	shown := haystack
	if len(shown) > shownMax {
		shown = shown[:shownMax] + "..."
	}
	t.Fatalf("expected output to contain %q\noutput: %s", needle, shown)
}
