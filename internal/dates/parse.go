package dates

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ErrUnparseable is returned when every parsing strategy fails. Callers
// decide the fallback policy; see the fuser.
var ErrUnparseable = errors.New("unparseable date")

// Feed dates arrive in whatever form the publisher emitted. The layout
// ladder covers the RSS standards first, then the ISO and slash-delimited
// forms seen in titles and summaries.
var layouts = []string{
	time.RFC1123Z, // "Mon, 02 Jan 2006 15:04:05 -0700"
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
}

var ptMonths = map[string]time.Month{
	"janeiro":   time.January,
	"fevereiro": time.February,
	"março":     time.March,
	"marco":     time.March,
	"abril":     time.April,
	"maio":      time.May,
	"junho":     time.June,
	"julho":     time.July,
	"agosto":    time.August,
	"setembro":  time.September,
	"outubro":   time.October,
	"novembro":  time.November,
	"dezembro":  time.December,
}

// "2 de janeiro de 2006", optionally with a time suffix.
var rePTDate = regexp.MustCompile(`(?i)^(\d{1,2})\s+de\s+([a-zçã]+)\s+de\s+(\d{4})(?:[,\s]+(\d{1,2}):(\d{2}))?$`)

// Relative phrases: "há 3 horas", "5 minutos atrás", "1 dia atrás".
var reRelative = regexp.MustCompile(`(?i)^(?:h[áa]\s+)?(\d+)\s+(minutos?|horas?|dias?|semanas?)(?:\s+atr[áa]s)?$`)

// Parser normalizes heterogeneous publication-date strings to a
// timezone-naive UTC instant. Clock is injectable so relative phrases
// are testable.
type Parser struct {
	Clock func() time.Time
}

func NewParser() *Parser {
	return &Parser{Clock: time.Now}
}

func (p *Parser) Parse(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, ErrUnparseable
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return naive(t), nil
		}
	}

	if t, ok := p.parsePortugueseDate(s); ok {
		return t, nil
	}
	if t, ok := p.parseRelative(s); ok {
		return t, nil
	}

	if t, err := dateparse.ParseAny(s); err == nil {
		return naive(t), nil
	}
	return time.Time{}, ErrUnparseable
}

func (p *Parser) parsePortugueseDate(s string) (time.Time, bool) {
	m := rePTDate.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	month, ok := ptMonths[strings.ToLower(m[2])]
	if !ok {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[3])
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	hour, minute := 0, 0
	if m[4] != "" {
		hour, _ = strconv.Atoi(m[4])
		minute, _ = strconv.Atoi(m[5])
	}
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC), true
}

func (p *Parser) parseRelative(s string) (time.Time, bool) {
	m := reRelative.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, false
	}
	var unit time.Duration
	switch strings.ToLower(strings.TrimSuffix(m[2], "s")) {
	case "minuto":
		unit = time.Minute
	case "hora":
		unit = time.Hour
	case "dia":
		unit = 24 * time.Hour
	case "semana":
		unit = 7 * 24 * time.Hour
	default:
		return time.Time{}, false
	}
	return naive(p.now()).Add(-time.Duration(n) * unit), true
}

func (p *Parser) now() time.Time {
	if p.Clock != nil {
		return p.Clock()
	}
	return time.Now()
}

// naive converts to UTC and drops any monotonic reading. Date filtering
// is always timezone-naive, so aware instants collapse to their UTC wall
// time.
func naive(t time.Time) time.Time {
	return t.UTC().Round(0)
}
