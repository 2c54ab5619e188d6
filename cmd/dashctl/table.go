package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/i474232898/insight-dashboards/internal/table"
)

type transformFlags struct {
	dropNA bool
	filter string
}

func (f *transformFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.dropNA, "dropna", false, "drop rows with missing values")
	cmd.Flags().StringVar(&f.filter, "filter", "", "keep rows where column equals value (col=value)")
}

// load reads the CSV at path and applies the requested transformations.
func (f *transformFlags) load(path string) (*table.Table, error) {
	tr := table.Transform{DropMissing: f.dropNA}
	if f.filter != "" {
		col, val, ok := strings.Cut(f.filter, "=")
		if !ok || col == "" {
			return nil, fmt.Errorf("--filter must look like column=value")
		}
		tr.FilterColumn, tr.FilterValue = col, val
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	t, err := table.Load(file)
	if err != nil {
		return nil, fmt.Errorf("error loading or processing the file: %w", err)
	}
	return t.Apply(tr)
}

func newTableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Explore a CSV file",
	}
	cmd.AddCommand(newTableInspectCmd(), newTableExportCmd(), newTableChartCmd(), newTableRegressCmd())
	return cmd
}

func newTableInspectCmd() *cobra.Command {
	var (
		flags   transformFlags
		preview int
	)
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "List columns and preview rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := flags.load(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"rows":    t.Rows(),
				"columns": t.Columns(),
				"preview": t.Preview(preview),
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&preview, "preview", 5, "number of rows to preview")
	return cmd
}

func newTableExportCmd() *cobra.Command {
	var (
		flags  transformFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the processed table as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := flags.load(args[0])
			if err != nil {
				return err
			}
			if output == "-" {
				return t.WriteCSV(cmd.OutOrStdout())
			}

			out, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := t.WriteCSV(out); err != nil {
				out.Close()
				return err
			}
			return out.Close()
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "processed_data.csv", `output path ("-" for stdout)`)
	return cmd
}

func newTableChartCmd() *cobra.Command {
	var (
		flags transformFlags
		req   table.ChartRequest
		typ   string
	)
	cmd := &cobra.Command{
		Use:   "chart <file>",
		Short: "Print the Vega-Lite spec of a chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := flags.load(args[0])
			if err != nil {
				return err
			}
			req.Type = table.ChartType(typ)
			spec, err := table.BuildChart(t, req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), spec)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&typ, "type", string(table.ChartLine), "chart type")
	cmd.Flags().StringVar(&req.Column, "column", "", "column for single-column charts")
	cmd.Flags().StringVar(&req.X, "x", "", "x column for scatter and stacked bar charts")
	cmd.Flags().StringVar(&req.Y, "y", "", "y column for scatter charts")
	cmd.Flags().StringSliceVar(&req.YColumns, "stack", nil, "columns to stack")
	return cmd
}

func newTableRegressCmd() *cobra.Command {
	var flags transformFlags
	cmd := &cobra.Command{
		Use:   "regress <file> <target> <feature>",
		Short: "Fit target against feature with a linear regression",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := flags.load(args[0])
			if err != nil {
				return err
			}
			r, err := table.Regress(t, args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %.4f + %.4f * %s (%d rows)\n", r.Target, r.Intercept, r.Coefficient, r.Feature, r.Points)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
