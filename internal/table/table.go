package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var (
	// ErrInvalidTable is returned when an upload cannot be parsed into a table.
	ErrInvalidTable = errors.New("invalid table")

	// ErrUnknownColumn is returned when a request names a column the table lacks.
	ErrUnknownColumn = errors.New("unknown column")
)

// missingTokens are the cell values treated as missing when loading.
var missingTokens = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "<nil>"}

// Kind classifies a column for chart eligibility.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// Column describes one table column.
type Column struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
	Type string `json:"type"`
}

// Table is an uploaded CSV held as a typed dataframe.
type Table struct {
	df dataframe.DataFrame
}

// Load parses a CSV with a header row. Header names are trimmed of surrounding
// whitespace and column types are detected from the cell values.
func Load(r io.Reader) (*Table, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(missingTokens),
	)
	if err := df.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}

	names := df.Names()
	seen := make(map[string]bool, len(names))
	for i, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			n = fmt.Sprintf("X%d", i)
		}
		if seen[n] {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrInvalidTable, n)
		}
		seen[n] = true
		names[i] = n
	}
	if err := df.SetNames(names...); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}

	return &Table{df: df}, nil
}

// Rows returns the number of data rows.
func (t *Table) Rows() int {
	return t.df.Nrow()
}

// Names returns the column names in file order.
func (t *Table) Names() []string {
	return t.df.Names()
}

// Columns returns every column with its kind.
func (t *Table) Columns() []Column {
	names := t.df.Names()
	types := t.df.Types()
	cols := make([]Column, len(names))
	for i := range names {
		cols[i] = Column{Name: names[i], Kind: kindOf(types[i]), Type: string(types[i])}
	}
	return cols
}

// NumericColumns returns the names of integer and float columns.
func (t *Table) NumericColumns() []string {
	return t.namesOfKind(KindNumeric)
}

// CategoricalColumns returns the names of every non-numeric column.
func (t *Table) CategoricalColumns() []string {
	return t.namesOfKind(KindCategorical)
}

func (t *Table) namesOfKind(k Kind) []string {
	out := []string{}
	for _, c := range t.Columns() {
		if c.Kind == k {
			out = append(out, c.Name)
		}
	}
	return out
}

func kindOf(t series.Type) Kind {
	if t == series.Int || t == series.Float {
		return KindNumeric
	}
	return KindCategorical
}

func (t *Table) has(col string) bool {
	for _, n := range t.df.Names() {
		if n == col {
			return true
		}
	}
	return false
}

func (t *Table) kind(col string) (Kind, error) {
	for _, c := range t.Columns() {
		if c.Name == col {
			return c.Kind, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownColumn, col)
}

// DropMissing returns a table without the rows that have a missing value in any column.
func (t *Table) DropMissing() *Table {
	keep := make([]bool, t.df.Nrow())
	for i := range keep {
		keep[i] = true
	}
	for _, name := range t.df.Names() {
		for i, na := range t.df.Col(name).IsNaN() {
			if na {
				keep[i] = false
			}
		}
	}
	return t.subset(keep)
}

// FilterEquals keeps the rows whose cell in col reads as value. Numeric cells also
// match any spelling of the same number ("2" matches 2.0).
func (t *Table) FilterEquals(col, value string) (*Table, error) {
	if !t.has(col) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}

	s := t.df.Col(col)
	target, numErr := strconv.ParseFloat(strings.TrimSpace(value), 64)
	numeric := kindOf(s.Type()) == KindNumeric && numErr == nil

	keep := make([]bool, s.Len())
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		if numeric {
			keep[i] = e.Float() == target
			continue
		}
		keep[i] = e.String() == value
	}
	return t.subset(keep), nil
}

// Transform bundles the optional data transformations of the explorer.
type Transform struct {
	DropMissing  bool
	FilterColumn string
	FilterValue  string
}

// Apply runs the missing-value drop, then the equality filter when a column is set.
func (t *Table) Apply(tr Transform) (*Table, error) {
	out := t
	if tr.DropMissing {
		out = out.DropMissing()
	}
	if tr.FilterColumn != "" {
		return out.FilterEquals(tr.FilterColumn, tr.FilterValue)
	}
	return out, nil
}

func (t *Table) subset(keep []bool) *Table {
	idx := make([]int, 0, len(keep))
	for i, k := range keep {
		if k {
			idx = append(idx, i)
		}
	}
	return &Table{df: t.df.Subset(idx)}
}

// Records returns up to limit rows as column->value maps; limit <= 0 returns all rows.
// Missing cells are nil.
func (t *Table) Records(limit int) []map[string]interface{} {
	n := t.df.Nrow()
	if limit > 0 && limit < n {
		n = limit
	}

	names := t.df.Names()
	cols := make([]series.Series, len(names))
	for i, name := range names {
		cols[i] = t.df.Col(name)
	}

	rows := make([]map[string]interface{}, n)
	for r := 0; r < n; r++ {
		row := make(map[string]interface{}, len(names))
		for c, name := range names {
			row[name] = jsonValue(cols[c].Val(r))
		}
		rows[r] = row
	}
	return rows
}

// Preview returns the first n rows as records.
func (t *Table) Preview(n int) []map[string]interface{} {
	if n <= 0 {
		return []map[string]interface{}{}
	}
	return t.Records(n)
}

// floats returns the column as float64 with NaN for missing cells.
func (t *Table) floats(col string) ([]float64, error) {
	k, err := t.kind(col)
	if err != nil {
		return nil, err
	}
	if k != KindNumeric {
		return nil, notNumeric(col)
	}
	return t.df.Col(col).Float(), nil
}

// WriteCSV serializes the table as UTF-8 CSV with a header row and no index.
// Floats are written at full precision in their shortest form and missing cells
// are written as empty fields.
func (t *Table) WriteCSV(w io.Writer) error {
	names := t.df.Names()
	cols := make([]series.Series, len(names))
	for i, name := range names {
		cols[i] = t.df.Col(name)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(names); err != nil {
		return err
	}
	record := make([]string, len(cols))
	for r := 0; r < t.df.Nrow(); r++ {
		for c, s := range cols {
			record[c] = cell(s, r)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func cell(s series.Series, row int) string {
	e := s.Elem(row)
	if e.IsNA() {
		return ""
	}
	if s.Type() == series.Float {
		return strconv.FormatFloat(e.Float(), 'f', -1, 64)
	}
	return e.String()
}

// jsonValue maps values encoding/json cannot represent to nil.
func jsonValue(v interface{}) interface{} {
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return nil
	}
	return v
}
