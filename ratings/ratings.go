// Package ratings holds the aggregate math for a restaurant's
// denormalized (average, count) rating pair. Both paths maintain the
// invariant average*count == sum of live ratings.
package ratings

import (
	"fmt"

	"food-ordering-api/apperrors"
)

// MinRating and MaxRating bound the accepted star rating.
const (
	MinRating = 1
	MaxRating = 5
)

// ValidRating reports whether r is an integer star rating in [1,5].
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// Apply folds one new rating into a previous (average, count) pair.
// This O(1) running-mean update is only valid for pure insertions: it
// assumes the previous pair was exact and that no review is being
// removed or changed. Update and delete must use Recompute instead.
func Apply(avgPrev float64, countPrev int64, rating int) (float64, int64, error) {
	if !ValidRating(rating) {
		return 0, 0, fmt.Errorf("%w: rating must be between %d and %d", apperrors.ErrValidation, MinRating, MaxRating)
	}
	countNew := countPrev + 1
	avgNew := (avgPrev*float64(countPrev) + float64(rating)) / float64(countNew)
	return avgNew, countNew, nil
}

// Recompute derives the exact (average, count) pair from the full
// review set's sum and count. Always correct regardless of history;
// an empty set yields (0, 0).
func Recompute(sum, count int64) (float64, int64) {
	if count <= 0 {
		return 0, 0
	}
	return float64(sum) / float64(count), count
}
