package pointsplus

import (
	"fmt"
	"math"
)

// bucketWidth is the width of each distribution bucket.
const bucketWidth = 10

// Bucket is one histogram bin. Min is inclusive; Max is exclusive except for
// the last bucket, which also holds values equal to Max.
type Bucket struct {
	Min   int
	Max   int
	Label string
	Count int
}

// Distribution buckets values into decade-aligned bins spanning
// [floor(min/10)*10, floor(max/10)*10+10] so the maximum always lands inside
// a bin. An empty input yields no buckets.
func Distribution(values []int) []Bucket {
	if len(values) == 0 {
		return []Bucket{}
	}
	lowest, highest := values[0], values[0]
	for _, v := range values[1:] {
		lowest = min(lowest, v)
		highest = max(highest, v)
	}

	lo := floorTo(lowest)
	hi := floorTo(highest) + bucketWidth

	buckets := make([]Bucket, 0, (hi-lo)/bucketWidth)
	for b := lo; b < hi; b += bucketWidth {
		buckets = append(buckets, Bucket{
			Min:   b,
			Max:   b + bucketWidth,
			Label: fmt.Sprintf("%d-%d", b, b+bucketWidth),
		})
	}

	for _, v := range values {
		idx := (floorTo(v) - lo) / bucketWidth
		if idx >= len(buckets) {
			idx = len(buckets) - 1
		}
		buckets[idx].Count++
	}
	return buckets
}

func floorTo(v int) int {
	return int(math.Floor(float64(v)/bucketWidth)) * bucketWidth
}
