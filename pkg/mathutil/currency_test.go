package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Round up at midpoint", 1.235, 1.24},
		{"Round down below midpoint", 1.234, 1.23},
		{"No rounding needed", 1.23, 1.23},
		{"Large number", 12345.678, 12345.68},
		{"Negative number", -1.234, -1.23},
		{"Zero", 0.0, 0.0},
		{"Very small positive", 0.001, 0.00},
		{"Nearly two cents", 0.019, 0.02},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestCents(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{8884.878867, "8884.88"},
		{886.7025, "886.7"},
		{196000000, "196000000"},
		{0.004, "0"},
		{-12.345, "-12.35"},
	}

	for _, tt := range tests {
		if got := Cents(tt.input).String(); got != tt.expected {
			t.Errorf("Cents(%v) = %s, expected %s", tt.input, got, tt.expected)
		}
	}
}

func TestAtMost(t *testing.T) {
	tests := []struct {
		name     string
		val      float64
		limit    float64
		expected bool
	}{
		{"Below limit", 100, 196, true},
		{"Equal to limit", 196000000, 196000000, true},
		{"Float noise above limit", 196000000.000001, 196000000, true},
		{"A cent above limit", 196000000.02, 196000000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AtMost(tt.val, tt.limit); got != tt.expected {
				t.Errorf("AtMost(%v, %v) = %v, expected %v", tt.val, tt.limit, got, tt.expected)
			}
		})
	}
}

func TestApplyPercentage(t *testing.T) {
	if got := ApplyPercentage(280000000, 70); !WithinTolerance(got, 196000000, 0.001) {
		t.Errorf("ApplyPercentage() = %v, expected 196000000", got)
	}
}
