package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"Aeolus/internal/calc/batch"
	"Aeolus/internal/calc/importer"

	"github.com/spf13/cobra"
)

func newImportCmd(g *globals) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Calculate every building listed in a workbook",
		Long: `Read one input set per row of the first sheet of an xlsx workbook.
The header row names the columns: V, exposure, I, h, L, B, theta,
enclosure, trib_width. Rows that fail validation are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, g, args[0], out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the results workbook to this path")
	return cmd
}

func runImport(cmd *cobra.Command, g *globals, path, out string) error {
	opts, err := g.options()
	if err != nil {
		return err
	}
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	inputs, err := importer.ReadInputs(file)
	if err != nil {
		return err
	}
	res := batch.Calculate(batch.With(opts), inputs)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ROW\tV\tEXPOSURE\th\tL x B\tqh\tRESULT\n")
	for _, item := range res.Items {
		in := item.Input
		status, qh := "ok", "-"
		if item.Result != nil {
			qh = fmt.Sprintf("%.2f %s", item.Result.Qh, item.Result.Input.Units.PressureUnit())
		} else {
			status = item.Error
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s x %s\t%s\t%s\n", item.Index+1, in.V, in.Exposure, in.H, in.L, in.B, qh, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d ok, %d failed\n", res.OK, res.Failed)

	if out != "" {
		if err := writeFile(out, func(w io.Writer) error { return importer.WriteResults(w, res.Items) }); err != nil {
			return err
		}
		g.logger(cmd).Info("results written", "path", out)
	}
	return nil
}
