package httpapi

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/insight-dashboards/internal/table"
)

const previewRows = 5

// tableForm holds the optional form fields sent alongside an uploaded CSV.
type tableForm struct {
	DropNA       bool     `form:"dropna"`
	FilterColumn string   `form:"filter_column"`
	FilterValue  string   `form:"filter_value"`
	Preview      int      `form:"preview" validate:"min=0,max=1000"`
	Chart        string   `form:"chart"`
	Column       string   `form:"column"`
	X            string   `form:"x"`
	Y            string   `form:"y"`
	YColumns     []string `form:"y_columns"`
	Target       string   `form:"target"`
	Feature      string   `form:"feature"`
}

func (f tableForm) transform() table.Transform {
	return table.Transform{
		DropMissing:  f.DropNA,
		FilterColumn: f.FilterColumn,
		FilterValue:  f.FilterValue,
	}
}

// yColumns accepts both repeated y_columns fields and comma-separated lists.
func (f tableForm) yColumns() []string {
	var out []string
	for _, v := range f.YColumns {
		for _, col := range strings.Split(v, ",") {
			if col = strings.TrimSpace(col); col != "" {
				out = append(out, col)
			}
		}
	}
	return out
}

// loadUpload parses the multipart "file" field and applies the requested transformations.
func loadUpload(c *fiber.Ctx) (*table.Table, tableForm, error) {
	var form tableForm
	if err := c.BodyParser(&form); err != nil {
		return nil, form, fiber.NewError(fiber.StatusBadRequest, "invalid form: "+err.Error())
	}
	if form.Preview == 0 {
		form.Preview = previewRows
	}
	if err := validate.Struct(form); err != nil {
		return nil, form, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return nil, form, fiber.NewError(fiber.StatusBadRequest, `a CSV upload is required in the "file" field`)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, form, tableError(err)
	}
	defer f.Close()

	t, err := table.Load(f)
	if err != nil {
		return nil, form, tableError(err)
	}
	t, err = t.Apply(form.transform())
	if err != nil {
		return nil, form, tableError(err)
	}
	return t, form, nil
}

// tableError maps explorer failures onto HTTP errors. Chart eligibility problems
// keep their user-facing message; anything else is reported as a file problem.
func tableError(err error) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe
	case errors.Is(err, table.ErrIneligible):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	default:
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Error loading or processing the file: %v", err))
	}
}

func inspectTable(c *fiber.Ctx) error {
	t, form, err := loadUpload(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"rows":        t.Rows(),
		"columns":     t.Columns(),
		"numeric":     t.NumericColumns(),
		"categorical": t.CategoricalColumns(),
		"preview":     t.Preview(form.Preview),
		"charts":      table.ChartTypes,
	})
}

func chartTable(c *fiber.Ctx) error {
	t, form, err := loadUpload(c)
	if err != nil {
		return err
	}

	spec, err := table.BuildChart(t, table.ChartRequest{
		Type:     table.ChartType(form.Chart),
		Column:   form.Column,
		X:        form.X,
		Y:        form.Y,
		YColumns: form.yColumns(),
	})
	if err != nil {
		return tableError(err)
	}
	return c.JSON(spec)
}

func regressTable(c *fiber.Ctx) error {
	t, form, err := loadUpload(c)
	if err != nil {
		return err
	}
	if form.Target == "" || form.Feature == "" {
		return fiber.NewError(fiber.StatusBadRequest, "target and feature are required")
	}

	r, err := table.Regress(t, form.Target, form.Feature)
	if err != nil {
		return tableError(err)
	}
	return c.JSON(r)
}

func exportTable(c *fiber.Ctx) error {
	t, _, err := loadUpload(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := t.WriteCSV(&buf); err != nil {
		return tableError(err)
	}
	c.Attachment("processed_data.csv")
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(buf.Bytes())
}
