// Package expiry computes card validity dates and renders them the way the
// backend (ISO date) and the card face (MM/YY) expect.
package expiry

import (
	"fmt"
	"strings"
	"time"
)

// ISOLayout is the expiry format returned by the card backend.
const ISOLayout = "2006-01-02"

const DefaultYears = 5

// Policy decides the validity window of newly issued cards.
type Policy struct {
	Location *time.Location
	Years    int
}

func NewPolicy(loc *time.Location, years int) Policy {
	if loc == nil {
		loc = time.UTC
	}
	if years <= 0 {
		years = DefaultYears
	}
	return Policy{Location: loc, Years: years}
}

// ExpiresAt returns the last instant of the expiry month for a card issued at
// issue.
func (p Policy) ExpiresAt(issue time.Time) time.Time {
	p = NewPolicy(p.Location, p.Years)
	t := issue.In(p.Location)
	return endOfMonth(t.Year()+p.Years, t.Month(), p.Location)
}

// ISO returns the expiry date for a card issued at issue as YYYY-MM-DD.
func (p Policy) ISO(issue time.Time) string {
	return p.ExpiresAt(issue).Format(ISOLayout)
}

// CardFace returns the MM/YY imprint of an expiry instant.
func CardFace(expiresAt time.Time) string {
	return fmt.Sprintf("%02d/%02d", int(expiresAt.Month()), expiresAt.Year()%100)
}

// CardFaceFromISO converts a backend expiry date into the MM/YY imprint.
func CardFaceFromISO(iso string) (string, error) {
	t, err := time.Parse(ISOLayout, strings.TrimSpace(iso))
	if err != nil {
		return "", fmt.Errorf("parsing expiry date %q: %w", iso, err)
	}
	return CardFace(t), nil
}

// IsExpired reports whether at is strictly after the end of the expiry month.
func IsExpired(iso string, at time.Time, loc *time.Location) (bool, error) {
	end, err := endOfISOMonth(iso, loc)
	if err != nil {
		return false, err
	}
	return at.In(end.Location()).After(end), nil
}

// ReissueDue reports whether at falls within windowDays before the end of the
// expiry month, both bounds inclusive.
func ReissueDue(iso string, at time.Time, loc *time.Location, windowDays int) (bool, error) {
	end, err := endOfISOMonth(iso, loc)
	if err != nil {
		return false, err
	}
	start := end.AddDate(0, 0, -windowDays)
	at = at.In(end.Location())
	return !at.Before(start) && !at.After(end), nil
}

func endOfISOMonth(iso string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(ISOLayout, strings.TrimSpace(iso), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing expiry date %q: %w", iso, err)
	}
	return endOfMonth(t.Year(), t.Month(), loc), nil
}

func endOfMonth(year int, month time.Month, loc *time.Location) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, loc).AddDate(0, 1, 0).Add(-time.Nanosecond)
}
