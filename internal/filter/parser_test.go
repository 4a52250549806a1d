package filter

import (
	"errors"
	"testing"
	"time"
)

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantErr     bool
		checkResult func(from, to *time.Time) bool
	}{
		{
			name:    "Mar 1-15",
			input:   "Mar 1-15",
			wantErr: false,
			checkResult: func(from, to *time.Time) bool {
				return from.Month() == time.March && from.Day() == 1 &&
					to.Month() == time.March && to.Day() == 15
			},
		},
		{
			name:    "March 1-15",
			input:   "March 1-15",
			wantErr: false,
			checkResult: func(from, to *time.Time) bool {
				return from.Month() == time.March && from.Day() == 1 &&
					to.Month() == time.March && to.Day() == 15
			},
		},
		{
			name:    "Mar 1 - Mar 15",
			input:   "Mar 1 - Mar 15",
			wantErr: false,
			checkResult: func(from, to *time.Time) bool {
				return from.Month() == time.March && from.Day() == 1 &&
					to.Month() == time.March && to.Day() == 15
			},
		},
		{
			name:    "March 1 - March 15",
			input:   "March 1 - March 15",
			wantErr: false,
			checkResult: func(from, to *time.Time) bool {
				return from.Month() == time.March && from.Day() == 1 &&
					to.Month() == time.March && to.Day() == 15
			},
		},
		{
			name:    "Dec 25 - Jan 5 (cross year)",
			input:   "Dec 25 - Jan 5",
			wantErr: false,
			checkResult: func(from, to *time.Time) bool {
				return from.Month() == time.December && from.Day() == 25 &&
					to.Month() == time.January && to.Day() == 5 &&
					to.Year() > from.Year()
			},
		},
		{
			name:    "March (entire month)",
			input:   "March",
			wantErr: false,
			checkResult: func(from, to *time.Time) bool {
				return from.Month() == time.March && from.Day() == 1 &&
					to.Month() == time.March && to.Day() == 31
			},
		},
		{
			name:    "Feb (entire month)",
			input:   "Feb",
			wantErr: false,
			checkResult: func(from, to *time.Time) bool {
				// February can be 28 or 29 days
				return from.Month() == time.February && from.Day() == 1 &&
					to.Month() == time.February && (to.Day() == 28 || to.Day() == 29)
			},
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "invalid format",
			input:   "not a date",
			wantErr: true,
		},
		{
			name:    "invalid day",
			input:   "Mar 50-60",
			wantErr: true,
		},
		{
			name:    "invalid month",
			input:   "Xxx 1-15",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := ParseDateRange(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDateRange() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("ParseDateRange() unexpected error: %v", err)
				return
			}

			if from == nil || to == nil {
				t.Errorf("ParseDateRange() returned nil date(s)")
				return
			}

			if tt.checkResult != nil && !tt.checkResult(from, to) {
				t.Errorf("ParseDateRange() result check failed. From: %v, To: %v", from, to)
			}

			// Verify from is before to
			if from.After(*to) {
				t.Errorf("ParseDateRange() from (%v) is after to (%v)", from, to)
			}
		})
	}
}

func TestMonths(t *testing.T) {
	tests := []struct {
		input string
		want  time.Month
	}{
		{"jan", time.January},
		{"january", time.January},
		{"sept", time.September},
		{"dec", time.December},
		{"invalid", time.Month(0)},
		{"", time.Month(0)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := months[tt.input]; got != tt.want {
				t.Errorf("months[%q] = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestYearFor(t *testing.T) {
	now := time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		month time.Month
		want  int
	}{
		{"current month", time.June, 2026},
		{"future month", time.September, 2026},
		{"past month rolls over", time.February, 2027},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := yearFor(tt.month, now); got != tt.want {
				t.Errorf("yearFor(%v) = %v, want %v", tt.month, got, tt.want)
			}
		})
	}
}

func TestParseDateRangeAt_FixedClock(t *testing.T) {
	now := time.Date(2026, time.November, 20, 0, 0, 0, 0, time.UTC)

	from, to, err := parseDateRangeAt("Dec 25 - Jan 5", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := time.Date(2026, time.December, 25, 0, 0, 0, 0, time.UTC); !from.Equal(want) {
		t.Errorf("from = %v, want %v", from, want)
	}
	if want := time.Date(2027, time.January, 5, 23, 59, 59, 0, time.UTC); !to.Equal(want) {
		t.Errorf("to = %v, want %v", to, want)
	}

	from, _, err = parseDateRangeAt("Mar 1-15", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if from.Year() != 2027 {
		t.Errorf("past month should roll to next year, got %d", from.Year())
	}

	if _, _, err := parseDateRangeAt("Mar 15-1", now); err == nil {
		t.Error("expected error for reversed range")
	}
	if _, _, err := parseDateRangeAt("  ", now); !errors.Is(err, ErrEmptyRange) {
		t.Errorf("expected ErrEmptyRange, got %v", err)
	}
}
