package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestOverlapsHalfOpen(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd string
		want                       bool
	}{
		{"contained overlap", "2025-06-01", "2025-06-05", "2025-06-04", "2025-06-08", true},
		{"checkout day reused same day", "2025-06-01", "2025-06-05", "2025-06-05", "2025-06-10", false},
		{"identical range", "2025-06-01", "2025-06-05", "2025-06-01", "2025-06-05", true},
		{"fully inside", "2025-06-01", "2025-06-10", "2025-06-03", "2025-06-05", true},
		{"disjoint", "2025-06-01", "2025-06-03", "2025-06-07", "2025-06-09", false},
		{"back to back reversed", "2025-06-05", "2025-06-10", "2025-06-01", "2025-06-05", false},
		{"one night against same night", "2025-06-04", "2025-06-05", "2025-06-04", "2025-06-05", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Overlaps(date(tc.aStart), date(tc.aEnd), date(tc.bStart), date(tc.bEnd))
			if got != tc.want {
				t.Fatalf("Overlaps(%s..%s, %s..%s) = %v, want %v",
					tc.aStart, tc.aEnd, tc.bStart, tc.bEnd, got, tc.want)
			}
		})
	}
}

func TestCreateBookingRejectsInvalidRange(t *testing.T) {
	// Range validation happens before any query, so no database is needed.
	_, err := CreateBooking(nil, 1, 1, CreateBookingInput{
		CheckIn:  date("2025-06-05"),
		CheckOut: date("2025-06-01"),
	})
	if Kind(err) != KindValidation {
		t.Fatalf("reversed range: expected validation error, got %v", err)
	}

	_, err = CreateBooking(nil, 1, 1, CreateBookingInput{
		CheckIn:  date("2025-06-05"),
		CheckOut: date("2025-06-05"),
	})
	if Kind(err) != KindValidation {
		t.Fatalf("empty range: expected validation error, got %v", err)
	}

	_, err = CheckConflict(nil, 1, date("2025-06-05"), date("2025-06-05"), 0)
	if Kind(err) != KindValidation {
		t.Fatalf("CheckConflict empty range: expected validation error, got %v", err)
	}
}

func TestNights(t *testing.T) {
	if got := Nights(date("2025-06-01"), date("2025-06-05")); got != 4 {
		t.Fatalf("expected 4 nights, got %d", got)
	}
	if got := Nights(date("2025-06-01"), date("2025-06-02")); got != 1 {
		t.Fatalf("expected 1 night, got %d", got)
	}
	// Degenerate input still bills one night.
	if got := Nights(date("2025-06-01"), date("2025-06-01")); got != 1 {
		t.Fatalf("expected minimum of 1 night, got %d", got)
	}
}

func TestStayPrice(t *testing.T) {
	price := decimal.RequireFromString("120.50")

	got := StayPrice(price, date("2025-06-01"), date("2025-06-05"))
	want := decimal.RequireFromString("482.00")
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestDayTruncates(t *testing.T) {
	in := time.Date(2025, 6, 1, 17, 45, 12, 0, time.UTC)
	got := Day(in)
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
		t.Fatalf("expected midnight, got %s", got)
	}
	if !got.Equal(date("2025-06-01")) {
		t.Fatalf("expected 2025-06-01, got %s", got)
	}
}
