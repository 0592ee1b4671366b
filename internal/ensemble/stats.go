package ensemble

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Abramowitz-Stegun 26.2.23 coefficients for the inverse normal CDF
const (
	asC0 = 2.515517
	asC1 = 0.802853
	asC2 = 0.010328
	asD1 = 1.432788
	asD2 = 0.189269
	asD3 = 0.001308

	// probabilityClamp keeps the probit transform away from its poles
	probabilityClamp = 1e-10
)

// normalCDF is the standard normal cumulative distribution function
func normalCDF(z float64) float64 {
	return distuv.UnitNormal.CDF(z)
}

// probabilityOver returns P(X > line) for X ~ Normal(mean, std). A
// non-positive std collapses to a direct comparison of mean against line.
func probabilityOver(mean, std, line float64) float64 {
	if std <= 0 || math.IsNaN(std) {
		if mean > line {
			return 1.0
		}
		return 0.0
	}
	return clampProbability(distuv.Normal{Mu: mean, Sigma: std}.Survival(line))
}

// inverseNormalCDF approximates the probit function for p in (0,1). Its
// absolute error is below 4.5e-4.
func inverseNormalCDF(p float64) float64 {
	if p <= 0 {
		p = probabilityClamp
	}
	if p >= 1 {
		p = 1 - probabilityClamp
	}
	if p > 0.5 {
		return -inverseNormalCDF(1 - p)
	}
	t := math.Sqrt(-2 * math.Log(p))
	numerator := asC0 + asC1*t + asC2*t*t
	denominator := 1 + asD1*t + asD2*t*t + asD3*t*t*t
	return -(t - numerator/denominator)
}

// meanStd returns the mean and population standard deviation
func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	// rounding can push the compensated variance a hair below zero
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}

func mean(values []float64) float64 {
	m, _ := meanStd(values)
	return m
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// coefficientOfVariation returns std/mean, or fallback when fewer than two
// samples exist or the mean is not positive.
func coefficientOfVariation(values []float64, fallback float64) float64 {
	if len(values) < 2 {
		return fallback
	}
	m, std := meanStd(values)
	if m <= 0 {
		return fallback
	}
	return std / m
}

func fractionAbove(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v > threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}

func clampProbability(p float64) float64 {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func firstN[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
