package datetime

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestOffsetDate(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		months   int
		expected string
		wantErr  bool
	}{
		{name: "Add multiple years", date: "2025-01", months: 24, expected: "2027-01"},
		{name: "Subtract multiple years", date: "2025-01", months: -24, expected: "2023-01"},
		{name: "Cross year boundary forward", date: "2025-06", months: 8, expected: "2026-02"},
		{name: "Zero offset", date: "2025-06", months: 0, expected: "2025-06"},
		{name: "Invalid date", date: "2025/06", months: 1, expected: "2025/06", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := OffsetDate(tt.date, DateTimeLayout, tt.months)
			if (err != nil) != tt.wantErr {
				t.Fatalf("OffsetDate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if result != tt.expected {
				t.Errorf("OffsetDate() = %s, expected %s", result, tt.expected)
			}
		})
	}
}

func TestMonth(t *testing.T) {
	if got := Month(time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC)); got != "2026-10" {
		t.Errorf("Month() = %s, expected 2026-10", got)
	}
}

func TestMonthSequence(t *testing.T) {
	got, err := MonthSequence("2025-11", 4)
	if err != nil {
		t.Fatalf("MonthSequence() error = %v", err)
	}
	want := []string{"2025-11", "2025-12", "2026-01", "2026-02"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MonthSequence() mismatch (-want +got):\n%s", diff)
	}

	if _, err := MonthSequence("bad", 2); err == nil {
		t.Error("expected error for invalid start month")
	}
}
