package dates

import (
	"errors"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestParseLayouts(t *testing.T) {
	p := NewParser()
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"Mon, 08 Jan 2024 10:30:00 +0000", time.Date(2024, 1, 8, 10, 30, 0, 0, time.UTC)},
		{"Mon, 08 Jan 2024 10:30:00 -0300", time.Date(2024, 1, 8, 13, 30, 0, 0, time.UTC)},
		{"2024-01-08T10:30:00Z", time.Date(2024, 1, 8, 10, 30, 0, 0, time.UTC)},
		{"2024-01-08T10:30:00.123Z", time.Date(2024, 1, 8, 10, 30, 0, 123000000, time.UTC)},
		{"2024-01-08 10:30:00", time.Date(2024, 1, 8, 10, 30, 0, 0, time.UTC)},
		{"2024-01-08", time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)},
		{"08/01/2024 10:30", time.Date(2024, 1, 8, 10, 30, 0, 0, time.UTC)},
		{"08/01/2024", time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := p.Parse(tt.raw)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", tt.raw, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("Parse(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseStripsTimezone(t *testing.T) {
	p := NewParser()
	got, err := p.Parse("Mon, 08 Jan 2024 22:00:00 -0500")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Location() != time.UTC {
		t.Errorf("expected UTC location, got %v", got.Location())
	}
	if got.Day() != 9 || got.Hour() != 3 {
		t.Errorf("expected 09 Jan 03:00 UTC, got %v", got)
	}
}

func TestParsePortugueseMonthNames(t *testing.T) {
	p := NewParser()
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2 de janeiro de 2024", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"15 de março de 2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"31 de dezembro de 2023, 23:59", time.Date(2023, 12, 31, 23, 59, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := p.Parse(tt.raw)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", tt.raw, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("Parse(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseRelativePhrases(t *testing.T) {
	now := time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC)
	p := &Parser{Clock: fixedClock(now)}
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"5 minutos atrás", now.Add(-5 * time.Minute)},
		{"3 horas atrás", now.Add(-3 * time.Hour)},
		{"1 hora atrás", now.Add(-1 * time.Hour)},
		{"2 dias atrás", now.Add(-48 * time.Hour)},
		{"1 semana atrás", now.Add(-7 * 24 * time.Hour)},
		{"há 4 horas", now.Add(-4 * time.Hour)},
	}
	for _, tt := range tests {
		got, err := p.Parse(tt.raw)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", tt.raw, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("Parse(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseUnparseable(t *testing.T) {
	p := NewParser()
	for _, raw := range []string{"", "   ", "not a date at all ???"} {
		if _, err := p.Parse(raw); !errors.Is(err, ErrUnparseable) {
			t.Errorf("Parse(%q) err = %v, want ErrUnparseable", raw, err)
		}
	}
}
