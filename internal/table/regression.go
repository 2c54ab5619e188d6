package table

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Regression is a fitted single-feature linear model target = Intercept + Coefficient*feature.
type Regression struct {
	Target      string    `json:"target"`
	Feature     string    `json:"feature"`
	Coefficient float64   `json:"coefficient"`
	Intercept   float64   `json:"intercept"`
	Points      int       `json:"points"`
	Chart       ChartSpec `json:"chart"`
}

// Predict evaluates the fitted line at x.
func (r Regression) Predict(x float64) float64 {
	return r.Intercept + r.Coefficient*x
}

// Regress fits target against feature by ordinary least squares. Rows missing
// either value are left out of the fit.
func Regress(t *Table, target, feature string) (Regression, error) {
	if target == feature {
		return Regression{}, ineligible("Target and feature must be different columns.")
	}
	ys, err := t.floats(target)
	if err != nil {
		return Regression{}, err
	}
	xs, err := t.floats(feature)
	if err != nil {
		return Regression{}, err
	}

	var x, y []float64
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		x = append(x, xs[i])
		y = append(y, ys[i])
	}
	if len(x) < 2 {
		return Regression{}, ineligible("Regression needs at least two rows with both %q and %q present.", target, feature)
	}
	if stat.Variance(x, nil) == 0 {
		return Regression{}, ineligible("Feature %q has a single value; nothing to fit.", feature)
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	r := Regression{
		Target:      target,
		Feature:     feature,
		Coefficient: beta,
		Intercept:   alpha,
		Points:      len(x),
	}
	r.Chart = regressionChart(r, x, y)
	return r, nil
}

func regressionChart(r Regression, x, y []float64) ChartSpec {
	points := make([]map[string]interface{}, len(x))
	order := make([]int, len(x))
	for i := range x {
		points[i] = map[string]interface{}{r.Feature: x[i], r.Target: y[i]}
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return x[order[a]] < x[order[b]] })

	line := make([]map[string]interface{}, len(x))
	for i, j := range order {
		line[i] = map[string]interface{}{r.Feature: x[j], "prediction": r.Predict(x[j])}
	}

	return ChartSpec{
		Schema: vegaLiteSchema,
		Title:  fmt.Sprintf("Regression: %s vs %s", r.Target, r.Feature),
		Width:  800,
		Height: 400,
		Layer: []ChartSpec{
			{
				Data: &Data{Values: points},
				Mark: &Mark{Type: "circle", Size: 60},
				Encoding: map[string]interface{}{
					"x": Channel{Field: r.Feature, Type: "quantitative", Title: r.Feature},
					"y": Channel{Field: r.Target, Type: "quantitative", Title: r.Target},
				},
			},
			{
				Data: &Data{Values: line},
				Mark: &Mark{Type: "line", Color: "red"},
				Encoding: map[string]interface{}{
					"x": Channel{Field: r.Feature, Type: "quantitative"},
					"y": Channel{Field: "prediction", Type: "quantitative"},
				},
			},
		},
	}
}
