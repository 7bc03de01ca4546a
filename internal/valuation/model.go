package valuation

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

//go:embed data/car_values.csv
var embeddedDataset []byte

// Year and mileage bounds accepted by the trade endpoint.
const (
	MinYear    = 1980
	MaxYear    = 2026
	MaxMileage = 1_000_000
)

// Estimator predicts trade-in values with a linear regression over
// standardized (year, mileage) features. It is fit once at construction and
// immutable afterwards.
type Estimator struct {
	meanYear, stdYear       float64
	meanMileage, stdMileage float64
	intercept               float64
	coefYear, coefMileage   float64
}

// NewEstimator trains from the dataset at path, or from the embedded dataset
// when path is empty. A missing or malformed dataset is fatal here, not per
// request.
func NewEstimator(path string) (*Estimator, error) {
	data := embeddedDataset
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read dataset: %w", err)
		}
		data = b
	}
	years, mileages, prices, err := parseDataset(data)
	if err != nil {
		return nil, err
	}
	return fit(years, mileages, prices)
}

func parseDataset(data []byte) (years, mileages, prices []float64, err error) {
	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parse dataset: %w", err)
	}
	if len(records) < 2 {
		return nil, nil, nil, fmt.Errorf("dataset has no rows")
	}
	yearCol, mileageCol, priceCol := -1, -1, -1
	for i, name := range records[0] {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "year", "yr":
			yearCol = i
		case "mileage", "miles", "odometer":
			mileageCol = i
		case "price", "value", "target":
			priceCol = i
		}
	}
	if yearCol < 0 || mileageCol < 0 || priceCol < 0 {
		return nil, nil, nil, fmt.Errorf("dataset must have year, mileage and price columns, got %v", records[0])
	}
	for _, rec := range records[1:] {
		y, err1 := strconv.ParseFloat(strings.TrimSpace(rec[yearCol]), 64)
		m, err2 := strconv.ParseFloat(strings.TrimSpace(rec[mileageCol]), 64)
		p, err3 := strconv.ParseFloat(strings.TrimSpace(rec[priceCol]), 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		years = append(years, y)
		mileages = append(mileages, m)
		prices = append(prices, p)
	}
	if len(prices) < 3 {
		return nil, nil, nil, fmt.Errorf("dataset needs at least 3 usable rows, got %d", len(prices))
	}
	return years, mileages, prices, nil
}

// fit solves the two-feature least squares problem on standardized features.
// With centered inputs the intercept is the mean price and the coefficients
// come from the 2x2 normal equations.
func fit(years, mileages, prices []float64) (*Estimator, error) {
	n := float64(len(prices))
	e := &Estimator{
		meanYear:    mean(years),
		meanMileage: mean(mileages),
	}
	e.stdYear = stddev(years, e.meanYear)
	e.stdMileage = stddev(mileages, e.meanMileage)
	if e.stdYear == 0 || e.stdMileage == 0 {
		return nil, fmt.Errorf("dataset has a constant feature; cannot fit")
	}
	e.intercept = mean(prices)

	var s11, s22, s12, s1y, s2y float64
	for i := range prices {
		z1 := (years[i] - e.meanYear) / e.stdYear
		z2 := (mileages[i] - e.meanMileage) / e.stdMileage
		dy := prices[i] - e.intercept
		s11 += z1 * z1
		s22 += z2 * z2
		s12 += z1 * z2
		s1y += z1 * dy
		s2y += z2 * dy
	}
	det := s11*s22 - s12*s12
	if math.Abs(det) < 1e-9*n {
		return nil, fmt.Errorf("dataset features are collinear; cannot fit")
	}
	e.coefYear = (s1y*s22 - s2y*s12) / det
	e.coefMileage = (s2y*s11 - s1y*s12) / det
	return e, nil
}

// Estimate returns the predicted trade-in value, clamped to zero and rounded
// to 2 decimal places. Deterministic for a given trained estimator.
func (e *Estimator) Estimate(year int, mileage float64) float64 {
	z1 := (float64(year) - e.meanYear) / e.stdYear
	z2 := (mileage - e.meanMileage) / e.stdMileage
	pred := e.intercept + e.coefYear*z1 + e.coefMileage*z2
	if pred < 0 {
		pred = 0
	}
	return math.Round(pred*100) / 100
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64, m float64) float64 {
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}
