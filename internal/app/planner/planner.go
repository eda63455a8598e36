// Package planner provides the watchlist budget optimizer.
package planner

import (
	"math"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/aayush84339/smart-movie-recommendor/internal/app/scoring"
	"github.com/aayush84339/smart-movie-recommendor/internal/domain/entry"
)

// ErrInvalidBudget is returned by ValidateBudget for non-positive or
// non-finite budgets. Optimize itself assumes the budget was validated.
var ErrInvalidBudget = errors.New("budget must be a positive number of minutes")

// Plan is the result of a budget optimization run.
type Plan struct {
	// ID identifies one optimizer run in logs and API responses.
	ID string
	// DropList holds the entries to remove, in removal order
	// (ascending value density, ties by insertion order).
	DropList []entry.Entry
	// TotalMinutes is the watchlist runtime before any removals.
	TotalMinutes int
	// RemainingMinutes is the runtime left after removing DropList.
	RemainingMinutes int
}

// Fits reports whether the remaining runtime meets the budget.
func (p Plan) Fits(budgetMinutes float64) bool {
	return float64(p.RemainingMinutes) <= budgetMinutes
}

// ValidateBudget rejects budgets the optimizer must never see:
// NaN, infinite, zero or negative.
func ValidateBudget(budgetMinutes float64) error {
	if math.IsNaN(budgetMinutes) || math.IsInf(budgetMinutes, 0) || budgetMinutes <= 0 {
		return ErrInvalidBudget
	}
	return nil
}

// Optimize greedily selects entries to drop so the remaining total
// runtime fits within budgetMinutes. It never mutates its input; the
// caller decides whether to actually remove the suggested entries.
//
// Entries are considered in ascending value-density order, ties broken
// by their original position, so the output is deterministic. The walk
// is a single pass: when every candidate has been considered and the
// budget still cannot be met (for example all survivors have unknown
// runtime), the plan simply reports the unmet remainder.
func Optimize(entries []entry.Entry, budgetMinutes float64) Plan {
	plan := Plan{
		ID:       uuid.New().String(),
		DropList: []entry.Entry{},
	}

	total := entry.TotalMinutes(entries)
	plan.TotalMinutes = total
	plan.RemainingMinutes = total

	if float64(total) <= budgetMinutes {
		return plan
	}

	candidates := make([]entry.Entry, len(entries))
	copy(candidates, entries)
	sort.SliceStable(candidates, func(i, j int) bool {
		return scoring.Score(candidates[i]) < scoring.Score(candidates[j])
	})

	remaining := total
	for _, e := range candidates {
		if float64(remaining) <= budgetMinutes {
			break
		}
		plan.DropList = append(plan.DropList, e)
		remaining -= e.Minutes()
	}

	plan.RemainingMinutes = remaining
	return plan
}
