package controllers

import (
	"testing"
	"time"
)

func TestParseCursorAcceptedLayouts(t *testing.T) {
	want := time.Date(2026, 8, 28, 10, 30, 0, 0, time.Local)
	tests := []struct {
		name string
		raw  string
	}{
		{"rfc3339", want.Format(time.RFC3339)},
		{"iso without zone", "2026-08-28T10:30:00"},
		{"space separated", "2026-08-28 10:30:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCursor(tt.raw)
			if err != nil {
				t.Fatalf("parseCursor(%q) error = %v", tt.raw, err)
			}
			if !got.Equal(want) {
				t.Errorf("parseCursor(%q) = %v, want %v", tt.raw, got, want)
			}
		})
	}
}

func TestParseCursorRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"garbage", "yesterday"},
		{"date only", "2026-08-28"},
		{"unix seconds", "1787000000"},
		{"trailing junk", "2026-08-28T10:30:00zzz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseCursor(tt.raw); err == nil {
				t.Errorf("parseCursor(%q) accepted, want error", tt.raw)
			}
		})
	}
}
