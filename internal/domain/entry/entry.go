// Package entry provides the WatchlistEntry domain entity.
package entry

import (
	"strconv"
	"strings"
)

// NotAvailable is the sentinel OMDb uses for absent fields.
const NotAvailable = "N/A"

// DefaultRating is assumed when a rating is absent or unparseable.
// It is the midpoint of the IMDb 0-10 scale.
const DefaultRating = 5.0

// Entry represents one item a user has chosen to watch.
// Fields are immutable once the entry is in a store; updating
// means remove-then-add.
type Entry struct {
	ID           string // IMDb ID, the entity key
	Title        string // Display name
	Year         string // Release year as reported by the source
	Poster       string // Poster image URL
	DurationText string // Raw runtime, e.g. "142 min", may be "N/A"
	RatingText   string // Raw rating, e.g. "8.5", may be "N/A"
}

// Minutes returns the entry's runtime in minutes, 0 when unknown.
func (e Entry) Minutes() int {
	return ParseMinutes(e.DurationText)
}

// Rating returns the entry's numeric rating, DefaultRating when unknown.
func (e Entry) Rating() float64 {
	return ParseRating(e.RatingText)
}

// HasDuration reports whether the entry carries any runtime information.
// Candidates without it need a details lookup before they are useful
// for budget planning.
func (e Entry) HasDuration() bool {
	return e.DurationText != "" && e.DurationText != NotAvailable
}

// ParseMinutes extracts a minute count from a free-form runtime string.
// It takes the first maximal run of decimal digits; anything without
// digits (including "" and "N/A") yields 0. It never fails.
func ParseMinutes(text string) int {
	start := -1
	for i := 0; i < len(text); i++ {
		if text[i] >= '0' && text[i] <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			text = text[:i]
			break
		}
	}
	if start < 0 {
		return 0
	}
	n, err := strconv.Atoi(text[start:])
	if err != nil {
		// Digit run too long for an int; treat as unknown.
		return 0
	}
	return n
}

// ParseRating extracts a numeric rating from a free-form rating string.
// It reads the leading decimal number ("8.5", "8.5/10"); absent or
// unparseable input yields DefaultRating. It never fails.
func ParseRating(text string) float64 {
	text = strings.TrimSpace(text)

	end := 0
	seenDot := false
	for end < len(text) {
		c := text[end]
		if c >= '0' && c <= '9' {
			end++
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			end++
			continue
		}
		break
	}

	value, err := strconv.ParseFloat(text[:end], 64)
	if err != nil || value < 0 {
		return DefaultRating
	}
	return value
}

// TotalMinutes sums the runtimes of all entries. Unknown runtimes
// contribute nothing.
func TotalMinutes(entries []Entry) int {
	total := 0
	for _, e := range entries {
		total += e.Minutes()
	}
	return total
}
