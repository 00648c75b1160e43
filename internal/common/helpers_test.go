package common

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{12500, "12,500"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Fatalf("unexpected format for %d: got=%q want=%q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "now"},
		{40 * time.Second, "40s"},
		{12 * time.Minute, "12m"},
		{3*time.Hour + 5*time.Minute, "3h 05m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Fatalf("unexpected duration for %v: got=%q want=%q", tt.in, got, tt.want)
		}
	}
}

func TestPluralize(t *testing.T) {
	if got := Pluralize(1, "Spin", "Spins"); got != "Spin" {
		t.Fatalf("unexpected singular: got=%q", got)
	}
	if got := Pluralize(3, "Spin", "Spins"); got != "Spins" {
		t.Fatalf("unexpected plural: got=%q", got)
	}
}

func TestIsRejection(t *testing.T) {
	wrapped := fmt.Errorf("%w: need 10, have 9", ErrNotEnoughDuplicates)
	if !IsRejection(wrapped) {
		t.Fatalf("wrapped rejection should be detected")
	}
	if !errors.Is(wrapped, ErrNotEnoughDuplicates) {
		t.Fatalf("errors.Is should match the sentinel")
	}
	if IsRejection(errors.New("connection refused")) {
		t.Fatalf("plain error should not be a rejection")
	}
	if IsRejection(ErrUnauthorized) {
		t.Fatalf("unauthorized is not a rejection")
	}
}

func TestRejectfKeepsDetailAndSentinel(t *testing.T) {
	err := Rejectf(ErrNotEnoughDuplicates, "need %d, you have %d", 10, 9)
	if !errors.Is(err, ErrNotEnoughDuplicates) {
		t.Fatalf("errors.Is should match the sentinel")
	}
	var rej *Rejection
	if !errors.As(err, &rej) {
		t.Fatalf("detailed rejection should be a rejection")
	}
	if want := "Not enough duplicate stickers: need 10, you have 9"; rej.Reason != want {
		t.Fatalf("unexpected reason: got=%q want=%q", rej.Reason, want)
	}
}
