package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"Aeolus/internal/calc/diagram"
	"Aeolus/internal/calc/report"
	"Aeolus/internal/calc/wind"

	"github.com/spf13/cobra"
)

type calcFlags struct {
	config    string
	format    string
	pdf       string
	svg       string
	direction string
}

func newCalcCmd(g *globals) *cobra.Command {
	f := &calcFlags{}
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate wind pressures for one building",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalc(cmd, g, f)
		},
	}
	for _, in := range inputFlags {
		cmd.Flags().String(in.flag, "", in.usage)
	}
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "input file (yaml, json or toml) with the input keys")
	cmd.Flags().StringVar(&f.format, "format", "md", "output format: md or json")
	cmd.Flags().StringVar(&f.pdf, "pdf", "", "also write the memorandum with diagrams to this PDF")
	cmd.Flags().StringVar(&f.svg, "svg", "", "also write the section diagram to this SVG")
	cmd.Flags().StringVar(&f.direction, "direction", "long", "section drawn by --svg: long or trans")
	return cmd
}

func runCalc(cmd *cobra.Command, g *globals, f *calcFlags) error {
	log := g.logger(cmd)
	opts, err := g.options()
	if err != nil {
		return err
	}
	raw, err := readInput(cmd, f.config)
	if err != nil {
		return err
	}

	session := wind.NewSession(opts)
	if session.Direction, err = wind.ParseDirection(f.direction); err != nil {
		return err
	}
	res, err := session.Run(raw)
	if err != nil {
		return err
	}
	log.Debug("calculated", "model", res.Model, "qh", res.Qh)

	out := cmd.OutOrStdout()
	switch f.format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	case "md", "markdown":
		fmt.Fprint(out, report.FormatReport(res).Markdown())
	default:
		return fmt.Errorf("unknown format %q", f.format)
	}

	if f.svg != "" {
		scene, err := diagram.RenderSection(diagram.ForDirection(res, session.Direction))
		if err != nil {
			return err
		}
		if err := writeFile(f.svg, scene.SVG); err != nil {
			return err
		}
		log.Info("diagram written", "path", f.svg)
	}
	if f.pdf != "" {
		scenes, err := report.Scenes(res)
		if err != nil {
			return err
		}
		doc := report.FormatReport(res)
		if err := writeFile(f.pdf, func(w io.Writer) error { return report.WritePDF(w, doc, scenes...) }); err != nil {
			return err
		}
		log.Info("report written", "path", f.pdf)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
