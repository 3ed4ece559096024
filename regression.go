package main

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// InsufficientDataError reports a regression attempted on fewer than three
// annual observations. With n-2 degrees of freedom there is nothing to
// test below that, so the estimator fails closed instead of returning a
// degenerate fit.
type InsufficientDataError struct {
	Points int
}

func (e InsufficientDataError) Error() string {
	return fmt.Sprintf("regression needs at least 3 annual observations, got %d", e.Points)
}

// DegenerateInputError reports an independent variable the slope formula
// cannot handle: zero variance in the years, or a series that is not
// strictly increasing. Checked up front so NaN/Inf never reaches the
// reported coefficients.
type DegenerateInputError struct {
	Reason string
}

func (e DegenerateInputError) Error() string {
	return "degenerate regression input: " + e.Reason
}

// FitTrend fits ordinary least-squares simple linear regression of
// proportion on year across the full series and classifies the result.
// Years must be strictly increasing; the Aggregator always produces such
// a series. The p-value is two-sided against slope = 0 on Student's t
// with n-2 degrees of freedom.
func FitTrend(obs []AnnualObservation, cfg AnalysisConfig) (RegressionResult, error) {
	n := len(obs)
	if n < 3 {
		return RegressionResult{}, InsufficientDataError{Points: n}
	}
	for i := 1; i < n; i++ {
		if obs[i].Year <= obs[i-1].Year {
			return RegressionResult{}, DegenerateInputError{
				Reason: fmt.Sprintf("years not strictly increasing at %d", obs[i].Year),
			}
		}
	}

	threshold := cfg.SignificanceThreshold
	if threshold <= 0 {
		threshold = defaultSignificance
	}
	confidence := cfg.ConfidenceLevel
	if confidence <= 0 || confidence >= 1 {
		confidence = defaultConfidence
	}

	var sumX, sumY float64
	for _, o := range obs {
		sumX += float64(o.Year)
		sumY += o.Proportion
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var sxx, sxy, syy float64
	for _, o := range obs {
		dx := float64(o.Year) - meanX
		dy := o.Proportion - meanY
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}
	if sxx == 0 {
		return RegressionResult{}, DegenerateInputError{Reason: "zero variance in year values"}
	}

	slope := sxy / sxx
	intercept := meanY - slope*meanX

	var sse float64
	for _, o := range obs {
		resid := o.Proportion - (slope*float64(o.Year) + intercept)
		sse += resid * resid
	}
	// Residuals of a numerically perfect fit are rounding noise from the
	// large raw-year terms; snap them to zero so the perfect-fit path
	// (r^2 = 1, se = 0, p = 0) is taken exactly.
	if sse <= 1e-12*syy {
		sse = 0
	}

	// Zero total variance means a perfectly flat series; r^2 is defined
	// as 0 there rather than dividing by zero.
	rSquared := 0.0
	if syy > 0 {
		rSquared = 1 - sse/syy
	}

	df := float64(n - 2)
	seSlope := math.Sqrt(sse/df) / math.Sqrt(sxx)

	res := RegressionResult{
		N:          n,
		Slope:      slope,
		Intercept:  intercept,
		RSquared:   rSquared,
		StdErr:     seSlope,
		Confidence: confidence,
	}

	if seSlope == 0 {
		// Perfect fit: the slope estimate has no sampling error, so the
		// null hypothesis is rejected outright and the interval collapses.
		res.PValue = 0
		res.CILower = slope
		res.CIUpper = slope
	} else {
		tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
		res.TStat = slope / seSlope
		res.PValue = 2 * tDist.CDF(-math.Abs(res.TStat))
		tCrit := tDist.Quantile(0.5 + confidence/2)
		res.CILower = slope - tCrit*seSlope
		res.CIUpper = slope + tCrit*seSlope
	}

	res.Classification = classifyTrend(slope, res.PValue, threshold)
	return res, nil
}

// classifyTrend applies the significance rule: below the threshold the
// sign of the slope decides, with an exactly-zero slope landing in the
// decreasing class; otherwise no significant trend.
func classifyTrend(slope, pValue, threshold float64) Trend {
	if pValue < threshold {
		if slope > 0 {
			return TrendIncreasing
		}
		return TrendDecreasing
	}
	return TrendNone
}
