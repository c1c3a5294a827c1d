// ABOUTME: Descriptive statistics over indicator data rows: summaries, rankings, and correlation.
// ABOUTME: All computations exclude rows with a null value; results feed both prompts and the data endpoints.

package fingertips

import (
	"errors"
	"math"
	"sort"
)

// ErrInsufficientData is returned when an analysis needs more observations
// than the filtered rows provide.
var ErrInsufficientData = errors.New("insufficient data")

// Summary is the compact digest embedded into analysis prompts: extremes of
// the distribution plus the best and worst areas.
type Summary struct {
	Count  int
	Min    float64
	Mean   float64
	Max    float64
	Top    []DataRow // highest values, descending
	Bottom []DataRow // lowest values, ascending
}

// Summarize computes a Summary over the non-null rows, keeping at most n rows
// in each of Top and Bottom.
func Summarize(rows []DataRow, n int) (Summary, error) {
	valued := withValues(rows)
	if len(valued) == 0 {
		return Summary{}, ErrInsufficientData
	}

	sort.SliceStable(valued, func(i, j int) bool { return *valued[i].Value > *valued[j].Value })

	var sum float64
	s := Summary{
		Count: len(valued),
		Min:   *valued[len(valued)-1].Value,
		Max:   *valued[0].Value,
	}
	for _, row := range valued {
		sum += *row.Value
	}
	s.Mean = sum / float64(len(valued))

	if n > len(valued) {
		n = len(valued)
	}
	s.Top = append([]DataRow(nil), valued[:n]...)

	bottom := append([]DataRow(nil), valued[len(valued)-n:]...)
	// Ascending: worst first.
	for i, j := 0, len(bottom)-1; i < j; i, j = i+1, j-1 {
		bottom[i], bottom[j] = bottom[j], bottom[i]
	}
	s.Bottom = bottom

	return s, nil
}

// Description is the fuller statistical profile served by GET /summary.
type Description struct {
	AreasCount   int      `json:"areasCount"`
	TotalPatient *int     `json:"totalPatients"`
	Mean         float64  `json:"mean"`
	Std          float64  `json:"std"`
	Min          float64  `json:"min"`
	P25          float64  `json:"percentile25"`
	Median       float64  `json:"median"`
	P75          float64  `json:"percentile75"`
	Max          float64  `json:"max"`
}

// Describe computes mean, sample standard deviation, and quartiles over the
// non-null rows. TotalPatient sums denominators where present.
func Describe(rows []DataRow) (Description, error) {
	valued := withValues(rows)
	if len(valued) == 0 {
		return Description{}, ErrInsufficientData
	}

	values := make([]float64, len(valued))
	for i, row := range valued {
		values[i] = *row.Value
	}
	sort.Float64s(values)

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	std := 0.0
	if len(values) > 1 {
		std = math.Sqrt(sq / float64(len(values)-1))
	}

	d := Description{
		AreasCount: len(values),
		Mean:       round2(mean),
		Std:        round2(std),
		Min:        round2(values[0]),
		P25:        round2(quantile(values, 0.25)),
		Median:     round2(quantile(values, 0.5)),
		P75:        round2(quantile(values, 0.75)),
		Max:        round2(values[len(values)-1]),
	}

	total := 0
	seen := false
	for _, row := range rows {
		if row.Denominator != nil {
			total += *row.Denominator
			seen = true
		}
	}
	if seen {
		d.TotalPatient = &total
	}

	return d, nil
}

// Ranked is one entry in a top/bottom ranking.
type Ranked struct {
	Rank         int     `json:"rank"`
	AreaCode     string  `json:"areaCode,omitempty"`
	AreaName     string  `json:"areaName"`
	Value        float64 `json:"value"`
	PatientCount *int    `json:"patientCount"`
}

// Rankings returns the n best (order "top") or worst (order "bottom") areas
// by value, rank 1 first.
func Rankings(rows []DataRow, n int, order string) []Ranked {
	valued := withValues(rows)
	sort.SliceStable(valued, func(i, j int) bool {
		if order == "bottom" {
			return *valued[i].Value < *valued[j].Value
		}
		return *valued[i].Value > *valued[j].Value
	})

	if n > len(valued) {
		n = len(valued)
	}
	out := make([]Ranked, 0, n)
	for i := 0; i < n; i++ {
		row := valued[i]
		out = append(out, Ranked{
			Rank:         i + 1,
			AreaCode:     row.AreaCode,
			AreaName:     row.AreaName,
			Value:        round2(*row.Value),
			PatientCount: row.Denominator,
		})
	}
	return out
}

// CorrelationResult reports the Pearson relationship between area population
// (denominator) and indicator value.
type CorrelationResult struct {
	R              float64 `json:"r"`
	PValue         float64 `json:"pValue"`
	Significant    bool    `json:"significant"`
	Interpretation string  `json:"interpretation"`
}

// Correlation computes Pearson r over rows carrying both a value and a
// denominator. At least three such rows are required. The p-value uses the
// normal approximation of the t statistic, adequate at the sample sizes the
// dashboard works with (dozens of areas).
func Correlation(rows []DataRow) (CorrelationResult, error) {
	var xs, ys []float64
	for _, row := range rows {
		if row.Value == nil || row.Denominator == nil {
			continue
		}
		xs = append(xs, float64(*row.Denominator))
		ys = append(ys, *row.Value)
	}
	if len(xs) < 3 {
		return CorrelationResult{}, ErrInsufficientData
	}

	n := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range xs {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return CorrelationResult{}, ErrInsufficientData
	}

	r := cov / math.Sqrt(varX*varY)
	p := pValueFor(r, len(xs))

	res := CorrelationResult{
		R:           round4(r),
		PValue:      round4(p),
		Significant: p < 0.05,
	}
	switch {
	case p >= 0.05:
		res.Interpretation = "No significant relationship between population size and care quality."
	case r > 0.3:
		res.Interpretation = "Larger populations tend to have better care quality."
	case r < -0.3:
		res.Interpretation = "Larger populations tend to have worse care quality."
	default:
		res.Interpretation = "Weak relationship between population size and care quality."
	}
	return res, nil
}

// pValueFor converts r to a two-sided p-value via the t statistic with n-2
// degrees of freedom, approximated by the standard normal distribution.
func pValueFor(r float64, n int) float64 {
	if n <= 2 {
		return 1
	}
	denom := 1 - r*r
	if denom <= 0 {
		return 0
	}
	t := math.Abs(r) * math.Sqrt(float64(n-2)/denom)
	return math.Erfc(t / math.Sqrt2)
}

// quantile interpolates linearly between order statistics of an already
// sorted slice, matching the convention the original summaries used.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// withValues filters to rows carrying a non-null value.
func withValues(rows []DataRow) []DataRow {
	out := make([]DataRow, 0, len(rows))
	for _, row := range rows {
		if row.Value != nil {
			out = append(out, row)
		}
	}
	return out
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
