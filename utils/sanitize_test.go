package utils

import (
	"strings"
	"testing"
)

func TestSanitizeStripsMarkup(t *testing.T) {
	got := Sanitize(`hello <b>world</b> <img src="x" onerror="evil()">`)
	if strings.Contains(got, "<") {
		t.Errorf("Sanitize left markup behind: %q", got)
	}
	if !strings.Contains(got, "hello") || !strings.Contains(got, "world") {
		t.Errorf("Sanitize dropped text content: %q", got)
	}
}

func TestSanitizePlainTextUntouched(t *testing.T) {
	in := "a perfectly ordinary caption"
	if got := Sanitize(in); got != in {
		t.Errorf("Sanitize(%q) = %q, want unchanged", in, got)
	}
}
