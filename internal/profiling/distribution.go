package profiling

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// SurgeQuantile is the normal quantile above which a week counts as a surge
const SurgeQuantile = 0.975

// WeeklyProfile summarises the shape of one year of weekly counts
type WeeklyProfile struct {
	Mean     float64
	StdDev   float64
	Min      float64
	Max      float64
	Median   float64
	Q25      float64
	Q75      float64
	Skewness float64
	// Outliers counts weeks outside 1.5 IQR of the quartiles
	Outliers int
	// SurgeWeeks lists 1-based weeks above SurgeQuantile of a normal fitted to the year
	SurgeWeeks []int
}

// DistributionAnalyzer profiles weekly series
type DistributionAnalyzer struct {
	surgeQuantile float64
}

// NewDistributionAnalyzer creates a new distribution analyzer
func NewDistributionAnalyzer() *DistributionAnalyzer {
	return &DistributionAnalyzer{surgeQuantile: SurgeQuantile}
}

// Profile computes summary statistics for data, one value per week
func (da *DistributionAnalyzer) Profile(data []float64) (WeeklyProfile, error) {
	p := WeeklyProfile{}

	mean, err := stats.Mean(data)
	if err != nil {
		return p, err
	}
	stdDev, err := stats.StandardDeviation(data)
	if err != nil {
		return p, err
	}
	min, err := stats.Min(data)
	if err != nil {
		return p, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return p, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return p, err
	}
	q25, err := stats.Percentile(data, 25)
	if err != nil {
		return p, err
	}
	q75, err := stats.Percentile(data, 75)
	if err != nil {
		return p, err
	}

	p.Mean, p.StdDev = mean, stdDev
	p.Min, p.Max, p.Median = min, max, median
	p.Q25, p.Q75 = q25, q75
	p.Skewness = calculateSkewness(data, mean, stdDev)
	p.Outliers = detectOutliers(data, q25, q75)
	p.SurgeWeeks = da.surgeWeeks(data, mean, stdDev)

	return p, nil
}

func (da *DistributionAnalyzer) surgeWeeks(data []float64, mean, stdDev float64) []int {
	if stdDev == 0 {
		return nil
	}
	threshold := distuv.Normal{Mu: mean, Sigma: stdDev}.Quantile(da.surgeQuantile)

	var weeks []int
	for i, x := range data {
		if x > threshold {
			weeks = append(weeks, i+1)
		}
	}
	return weeks
}

// calculateSkewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func calculateSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sumCubedDeviations := 0.0
	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumCubedDeviations += deviation * deviation * deviation
	}

	skewness := sumCubedDeviations / n
	return skewness * math.Sqrt(n*(n-1)) / (n - 2)
}

// detectOutliers counts values outside the IQR fences
func detectOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lowerBound := q25 - 1.5*iqr
	upperBound := q75 + 1.5*iqr

	outlierCount := 0
	for _, x := range data {
		if x < lowerBound || x > upperBound {
			outlierCount++
		}
	}
	return outlierCount
}
