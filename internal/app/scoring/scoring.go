// Package scoring computes value-density scores for watchlist entries.
package scoring

import "github.com/aayush84339/smart-movie-recommendor/internal/domain/entry"

// Score returns the value density of an entry: rating divided by runtime
// in minutes. Entries with unknown or zero runtime score 0, which makes
// them the first removal candidates during budget planning. Lower means
// "less worth its runtime".
func Score(e entry.Entry) float64 {
	minutes := e.Minutes()
	if minutes == 0 {
		return 0
	}
	return e.Rating() / float64(minutes)
}
