package mortality

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"zgony/domain/core"
)

// AveragePolicy selects how a weekly series is averaged
type AveragePolicy string

const (
	// AverageNonZero ignores weeks recorded as zero (missing data).
	AverageNonZero AveragePolicy = "nonzero"
	// AverageSimple is the arithmetic mean over every week.
	AverageSimple AveragePolicy = "simple"
)

// ParseAveragePolicy parses a policy name
func ParseAveragePolicy(s string) (AveragePolicy, error) {
	switch p := AveragePolicy(s); p {
	case AverageNonZero, AverageSimple:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnsupportedPolicy, s)
}

// Series holds one year's weekly death counts for one stratum, in week order.
// A Series is read-only once built.
type Series struct {
	weeks []uint64
}

// NewSeries copies weeks into a new Series
func NewSeries(weeks []uint64) Series {
	return Series{weeks: append([]uint64(nil), weeks...)}
}

func (s Series) Len() int {
	return len(s.weeks)
}

// Values returns a copy of the weekly counts
func (s Series) Values() []uint64 {
	return append([]uint64(nil), s.weeks...)
}

// At returns the count for a zero-based week index
func (s Series) At(week int) uint64 {
	return s.weeks[week]
}

// Total returns the sum of all weeks
func (s Series) Total() uint64 {
	var sum uint64
	for _, v := range s.weeks {
		sum += v
	}
	return sum
}

// AverageOfNonZero returns the mean of the weeks with a count above zero.
func (s Series) AverageOfNonZero() (float64, error) {
	nonZero := make([]uint64, 0, len(s.weeks))
	for _, v := range s.weeks {
		if v > 0 {
			nonZero = append(nonZero, v)
		}
	}
	if len(nonZero) == 0 {
		return 0, core.ErrNoNonZeroElements
	}
	return stats.Mean(stats.LoadRawData(nonZero))
}

// SimpleAverage returns the arithmetic mean of all weeks.
func (s Series) SimpleAverage() (float64, error) {
	if len(s.weeks) == 0 {
		return 0, core.ErrEmptySeries
	}
	return stats.Mean(stats.LoadRawData(s.weeks))
}

// Average dispatches on policy
func (s Series) Average(policy AveragePolicy) (float64, error) {
	switch policy {
	case AverageNonZero:
		return s.AverageOfNonZero()
	case AverageSimple:
		return s.SimpleAverage()
	}
	return 0, fmt.Errorf("%w: %q", core.ErrUnsupportedPolicy, policy)
}

// Median returns the median weekly count
func (s Series) Median() (float64, error) {
	if len(s.weeks) == 0 {
		return 0, core.ErrEmptySeries
	}
	return stats.Median(stats.LoadRawData(s.weeks))
}

// Peak returns the zero-based index and count of the deadliest week.
// Ties resolve to the earliest week.
func (s Series) Peak() (week int, count uint64, err error) {
	if len(s.weeks) == 0 {
		return 0, 0, core.ErrEmptySeries
	}
	for i, v := range s.weeks {
		if v > count {
			week, count = i, v
		}
	}
	return week, count, nil
}

// Floats returns the counts as float64, for plotting
func (s Series) Floats() []float64 {
	out := make([]float64, len(s.weeks))
	for i, v := range s.weeks {
		out[i] = float64(v)
	}
	return out
}
