package common

import "testing"

func TestRound(t *testing.T) {
	tests := []struct {
		in     float64
		places int
		want   float64
	}{
		{15, 2, 15},
		{1.005, 1, 1.0},
		{2.346, 2, 2.35},
		{-0.125, 2, -0.13},
		{0.1 + 0.2, 2, 0.3},
	}
	for _, tt := range tests {
		if got := Round(tt.in, tt.places); got != tt.want {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.in, tt.places, got, tt.want)
		}
	}
}

func TestCapitalize(t *testing.T) {
	if got := Capitalize("light RAIN"); got != "Light rain" {
		t.Errorf("Capitalize = %q", got)
	}
	if got := Capitalize(""); got != "" {
		t.Errorf("Capitalize(\"\") = %q", got)
	}
}

func TestHasAny(t *testing.T) {
	if !HasAny("Patchy Light Drizzle", "rain", "drizzle") {
		t.Error("expected drizzle match")
	}
	if HasAny("Sunny", "cloud", "rain") {
		t.Error("unexpected match")
	}
}
