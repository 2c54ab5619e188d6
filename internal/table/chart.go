package table

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// ErrIneligible matches every EligibilityError.
var ErrIneligible = errors.New("chart not eligible")

const vegaLiteSchema = "https://vega.github.io/schema/vega-lite/v5.json"

// ChartType names one of the explorer's visualizations.
type ChartType string

const (
	ChartLine       ChartType = "line"
	ChartBar        ChartType = "bar"
	ChartHistogram  ChartType = "histogram"
	ChartScatter    ChartType = "scatter"
	ChartArea       ChartType = "area"
	ChartPie        ChartType = "pie"
	ChartStackedBar ChartType = "stacked_bar"
	ChartHeatmap    ChartType = "heatmap"
	ChartBoxplot    ChartType = "boxplot"
)

// ChartTypes lists every supported chart in menu order.
var ChartTypes = []ChartType{
	ChartLine, ChartBar, ChartHistogram, ChartScatter, ChartArea,
	ChartPie, ChartStackedBar, ChartHeatmap, ChartBoxplot,
}

// EligibilityError explains why a chart cannot be drawn for a table. Its message
// is meant for the end user.
type EligibilityError struct {
	msg string
}

func (e *EligibilityError) Error() string { return e.msg }

func (e *EligibilityError) Unwrap() error { return ErrIneligible }

func ineligible(format string, args ...interface{}) error {
	return &EligibilityError{msg: fmt.Sprintf(format, args...)}
}

func notNumeric(col string) error {
	return ineligible("Column %q is not numeric.", col)
}

// ChartRequest selects a chart and its columns. Empty column fields fall back to
// the first eligible column.
type ChartRequest struct {
	Type     ChartType
	Column   string
	X        string
	Y        string
	YColumns []string
}

// ChartSpec is a Vega-Lite specification with inline data.
type ChartSpec struct {
	Schema   string                 `json:"$schema,omitempty"`
	Title    string                 `json:"title,omitempty"`
	Width    int                    `json:"width,omitempty"`
	Height   int                    `json:"height,omitempty"`
	Data     *Data                  `json:"data,omitempty"`
	Mark     *Mark                  `json:"mark,omitempty"`
	Encoding map[string]interface{} `json:"encoding,omitempty"`
	Params   []Param                `json:"params,omitempty"`
	Layer    []ChartSpec            `json:"layer,omitempty"`
}

// Data holds inline rows.
type Data struct {
	Values []map[string]interface{} `json:"values"`
}

// Mark is the geometric primitive of a chart.
type Mark struct {
	Type  string `json:"type"`
	Size  int    `json:"size,omitempty"`
	Color string `json:"color,omitempty"`
}

// Channel encodes one field onto a visual channel.
type Channel struct {
	Field     string `json:"field,omitempty"`
	Type      string `json:"type,omitempty"`
	Title     string `json:"title,omitempty"`
	Bin       bool   `json:"bin,omitempty"`
	Aggregate string `json:"aggregate,omitempty"`
}

// Param is a selection parameter; bound to scales it makes the chart pan/zoomable.
type Param struct {
	Name   string                 `json:"name"`
	Select map[string]interface{} `json:"select"`
	Bind   string                 `json:"bind,omitempty"`
}

var interactive = []Param{{
	Name:   "grid",
	Select: map[string]interface{}{"type": "interval", "encodings": []string{"x", "y"}},
	Bind:   "scales",
}}

// IndexField is the row-number field added to inline data for index-based charts.
const IndexField = "index"

// BuildChart returns the Vega-Lite spec for req over t.
func BuildChart(t *Table, req ChartRequest) (ChartSpec, error) {
	numeric := t.NumericColumns()
	if len(numeric) == 0 {
		return ChartSpec{}, ineligible("No numeric columns found for visualization.")
	}

	switch req.Type {
	case ChartLine, ChartBar, ChartArea, ChartHistogram:
		col, err := pickNumeric(t, req.Column, numeric, 0)
		if err != nil {
			return ChartSpec{}, err
		}
		return indexChart(t, req.Type, col), nil

	case ChartScatter:
		if len(numeric) < 2 {
			return ChartSpec{}, ineligible("Scatter Plot requires at least two numeric columns.")
		}
		x, err := pickNumeric(t, req.X, numeric, 0)
		if err != nil {
			return ChartSpec{}, err
		}
		y, err := pickNumeric(t, req.Y, numeric, 1)
		if err != nil {
			return ChartSpec{}, err
		}
		return scatterChart(t, x, y), nil

	case ChartPie:
		categorical := t.CategoricalColumns()
		if len(categorical) == 0 {
			return ChartSpec{}, ineligible("Pie Chart requires at least one non-numeric column.")
		}
		col := req.Column
		if col == "" {
			col = categorical[0]
		}
		k, err := t.kind(col)
		if err != nil {
			return ChartSpec{}, err
		}
		if k != KindCategorical {
			return ChartSpec{}, ineligible("Column %q is numeric; pick a non-numeric column for the Pie Chart.", col)
		}
		return pieChart(t, col), nil

	case ChartStackedBar:
		if len(numeric) < 2 {
			return ChartSpec{}, ineligible("Stacked Bar Chart requires multiple numeric columns.")
		}
		if len(req.YColumns) == 0 {
			return ChartSpec{}, ineligible("Select at least one column for stacking.")
		}
		x := req.X
		if x == "" {
			x = t.Names()[0]
		}
		if !t.has(x) {
			return ChartSpec{}, fmt.Errorf("%w: %q", ErrUnknownColumn, x)
		}
		if x == meltCategory || x == meltValue {
			return ChartSpec{}, ineligible("Column %q clashes with the stacked chart's %s/%s fields; pick another x column.", x, meltCategory, meltValue)
		}
		for _, y := range req.YColumns {
			if _, err := t.floats(y); err != nil {
				return ChartSpec{}, err
			}
		}
		return stackedBarChart(t, x, req.YColumns), nil

	case ChartHeatmap:
		return heatmapChart(t, numeric), nil

	case ChartBoxplot:
		col, err := pickNumeric(t, req.Column, numeric, 0)
		if err != nil {
			return ChartSpec{}, err
		}
		return boxplotChart(t, col), nil

	default:
		return ChartSpec{}, ineligible("Unknown chart type %q.", req.Type)
	}
}

func pickNumeric(t *Table, col string, numeric []string, fallback int) (string, error) {
	if col == "" {
		return numeric[fallback], nil
	}
	if _, err := t.floats(col); err != nil {
		return "", err
	}
	return col, nil
}

// indexField returns IndexField, prefixed with underscores while the table already
// has a column of that name.
func indexField(t *Table) string {
	f := IndexField
	for t.has(f) {
		f = "_" + f
	}
	return f
}

// indexedRecords returns every row with its zero-based row number under field.
func indexedRecords(t *Table, field string) []map[string]interface{} {
	rows := t.Records(0)
	for i, r := range rows {
		r[field] = i
	}
	return rows
}

func indexChart(t *Table, typ ChartType, col string) ChartSpec {
	field := indexField(t)
	spec := ChartSpec{
		Schema: vegaLiteSchema,
		Width:  800,
		Height: 400,
		Data:   &Data{Values: indexedRecords(t, field)},
		Params: interactive,
	}

	switch typ {
	case ChartHistogram:
		spec.Title = "Histogram for " + col
		spec.Mark = &Mark{Type: "bar"}
		spec.Encoding = map[string]interface{}{
			"x": Channel{Field: col, Type: "quantitative", Bin: true, Title: col},
			"y": Channel{Aggregate: "count", Type: "quantitative"},
		}
		return spec
	case ChartLine:
		spec.Title = "Line Chart for " + col
		spec.Mark = &Mark{Type: "line"}
	case ChartBar:
		spec.Title = "Bar Chart for " + col
		spec.Mark = &Mark{Type: "bar"}
	case ChartArea:
		spec.Title = "Area Chart for " + col
		spec.Mark = &Mark{Type: "area"}
	}

	spec.Encoding = map[string]interface{}{
		"x": Channel{Field: field, Type: "quantitative", Title: "Index"},
		"y": Channel{Field: col, Type: "quantitative", Title: col},
	}
	return spec
}

func scatterChart(t *Table, x, y string) ChartSpec {
	return ChartSpec{
		Schema: vegaLiteSchema,
		Title:  fmt.Sprintf("Scatter Plot: %s vs %s", x, y),
		Width:  800,
		Height: 400,
		Data:   &Data{Values: t.Records(0)},
		Mark:   &Mark{Type: "circle", Size: 60},
		Encoding: map[string]interface{}{
			"x":       Channel{Field: x, Type: "quantitative", Title: x},
			"y":       Channel{Field: y, Type: "quantitative", Title: y},
			"tooltip": []Channel{{Field: x, Type: "quantitative"}, {Field: y, Type: "quantitative"}},
		},
		Params: interactive,
	}
}

// ValueCount is one category and how many rows carry it.
type ValueCount struct {
	Value string
	Count int
}

// ValueCounts counts non-missing values of col, most frequent first; ties keep
// first-appearance order.
func ValueCounts(t *Table, col string) []ValueCount {
	s := t.df.Col(col)
	index := make(map[string]int)
	var counts []ValueCount
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		v := e.String()
		j, ok := index[v]
		if !ok {
			j = len(counts)
			index[v] = j
			counts = append(counts, ValueCount{Value: v})
		}
		counts[j].Count++
	}
	sort.SliceStable(counts, func(a, b int) bool { return counts[a].Count > counts[b].Count })
	return counts
}

func pieChart(t *Table, col string) ChartSpec {
	counts := ValueCounts(t, col)
	values := make([]map[string]interface{}, len(counts))
	for i, c := range counts {
		values[i] = map[string]interface{}{col: c.Value, "count": c.Count}
	}

	return ChartSpec{
		Schema: vegaLiteSchema,
		Title:  "Pie Chart for " + col,
		Width:  800,
		Height: 400,
		Data:   &Data{Values: values},
		Mark:   &Mark{Type: "arc"},
		Encoding: map[string]interface{}{
			"theta":   Channel{Field: "count", Type: "quantitative"},
			"color":   Channel{Field: col, Type: "nominal"},
			"tooltip": []Channel{{Field: col, Type: "nominal"}, {Field: "count", Type: "quantitative"}},
		},
	}
}

const (
	meltCategory = "Category"
	meltValue    = "Value"
)

// melt turns the y columns into long format: one row per (row, column) pair.
func melt(t *Table, x string, ys []string) []map[string]interface{} {
	rows := t.Records(0)
	out := make([]map[string]interface{}, 0, len(rows)*len(ys))
	for _, y := range ys {
		for _, r := range rows {
			out = append(out, map[string]interface{}{
				x:            r[x],
				meltCategory: y,
				meltValue:    r[y],
			})
		}
	}
	return out
}

func stackedBarChart(t *Table, x string, ys []string) ChartSpec {
	xType := "nominal"
	if k, _ := t.kind(x); k == KindNumeric {
		xType = "quantitative"
	}

	return ChartSpec{
		Schema: vegaLiteSchema,
		Title:  fmt.Sprintf("Stacked Bar Chart for %s by %s", strings.Join(ys, ", "), x),
		Width:  800,
		Height: 400,
		Data:   &Data{Values: melt(t, x, ys)},
		Mark:   &Mark{Type: "bar"},
		Encoding: map[string]interface{}{
			"x":       Channel{Field: x, Type: xType, Title: x},
			"y":       Channel{Field: meltValue, Type: "quantitative", Title: meltValue},
			"color":   Channel{Field: meltCategory, Type: "nominal"},
			"tooltip": []Channel{{Field: meltCategory, Type: "nominal"}, {Field: meltValue, Type: "quantitative"}},
		},
		Params: interactive,
	}
}

// Correlation returns the Pearson correlation of a and b over rows where both are
// present. It is NaN with fewer than two complete rows or a constant column.
func Correlation(a, b []float64) float64 {
	var xs, ys []float64
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		xs = append(xs, a[i])
		ys = append(ys, b[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}

func heatmapChart(t *Table, numeric []string) ChartSpec {
	cols := make([][]float64, len(numeric))
	for i, name := range numeric {
		cols[i], _ = t.floats(name)
	}

	values := make([]map[string]interface{}, 0, len(numeric)*len(numeric))
	for j, b := range numeric {
		for i, a := range numeric {
			values = append(values, map[string]interface{}{
				"index":    a,
				"variable": b,
				"value":    jsonValue(Correlation(cols[i], cols[j])),
			})
		}
	}

	return ChartSpec{
		Schema: vegaLiteSchema,
		Title:  "Heatmap of Correlations",
		Width:  800,
		Height: 400,
		Data:   &Data{Values: values},
		Mark:   &Mark{Type: "rect"},
		Encoding: map[string]interface{}{
			"x":     Channel{Field: "index", Type: "ordinal"},
			"y":     Channel{Field: "variable", Type: "ordinal"},
			"color": Channel{Field: "value", Type: "quantitative"},
			"tooltip": []Channel{
				{Field: "index", Type: "nominal"},
				{Field: "variable", Type: "nominal"},
				{Field: "value", Type: "quantitative"},
			},
		},
	}
}

func boxplotChart(t *Table, col string) ChartSpec {
	return ChartSpec{
		Schema: vegaLiteSchema,
		Title:  "Boxplot for " + col,
		Width:  400,
		Height: 400,
		Data:   &Data{Values: t.Records(0)},
		Mark:   &Mark{Type: "boxplot"},
		Encoding: map[string]interface{}{
			"y": Channel{Field: col, Type: "quantitative", Title: col},
		},
	}
}
