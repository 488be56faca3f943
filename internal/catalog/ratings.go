package catalog

import (
	"fmt"

	"github.com/samber/lo"
)

// MinRating and MaxRating bound a review's star rating.
const (
	MinRating = 1
	MaxRating = 5
)

// RatingBucket is one bar of a rating histogram.
type RatingBucket struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

// Histogram counts items by exact rating. It always returns five buckets,
// ratings 1 through 5 in ascending order, zero counts included. Ratings
// outside 1..5 are not counted.
func Histogram[T any](items []T, rating func(T) int) []RatingBucket {
	return lo.Map(lo.RangeFrom(MinRating, MaxRating), func(r int, _ int) RatingBucket {
		return RatingBucket{
			Rating: r,
			Count: lo.CountBy(items, func(item T) bool {
				return rating(item) == r
			}),
		}
	})
}

// Slice is one wedge of the ratings distribution chart.
type Slice struct {
	Name    string  `json:"name"`
	Rating  int     `json:"rating"`
	Value   int     `json:"value"`
	Percent float64 `json:"percent"`
}

// Distribution orders the histogram for display, 5 stars first. Zero-count
// slices are kept so the chart always has five entries; percentages are taken
// over the full item count and are all zero when there are no items.
func Distribution[T any](items []T, rating func(T) int) []Slice {
	buckets := Histogram(items, rating)
	total := lo.SumBy(buckets, func(b RatingBucket) int { return b.Count })

	slices := make([]Slice, 0, len(buckets))
	for i := len(buckets) - 1; i >= 0; i-- {
		b := buckets[i]
		var pct float64
		if total > 0 {
			pct = float64(b.Count) * 100 / float64(total)
		}
		slices = append(slices, Slice{
			Name:    fmt.Sprintf("%d Stars", b.Rating),
			Rating:  b.Rating,
			Value:   b.Count,
			Percent: pct,
		})
	}
	return slices
}
