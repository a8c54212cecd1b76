package main

import (
	"log/slog"

	"Aeolus/internal/calc/wind"
	"Aeolus/internal/observability"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type globals struct {
	model    string
	units    string
	logLevel string
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "aeolus",
		Short: "ASCE 7-05 MWFRS wind pressures for rectangular buildings",
		Long: `Compute velocity pressures and design wind pressures on the main
wind-force resisting system of a rectangular gable building, for wind
parallel to each plan dimension.

Examples:
  aeolus calc --speed 160 --exposure C --height 6 --length 20 --width 10 --theta 15
  aeolus calc --config building.yaml --pdf memo.pdf
  aeolus import buildings.xlsx --out results.xlsx`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&g.model, "model", "table", "Cp model: simplified or table")
	root.PersistentFlags().StringVar(&g.units, "units", "imperial", "velocity pressure units: imperial or metric")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "log level")

	root.AddCommand(newCalcCmd(g), newImportCmd(g))
	return root
}

func (g *globals) options() (wind.Options, error) {
	model, err := wind.ParseModel(g.model)
	if err != nil {
		return wind.Options{}, err
	}
	units, err := wind.ParseUnits(g.units)
	if err != nil {
		return wind.Options{}, err
	}
	return wind.Options{Model: model, Units: units}, nil
}

func (g *globals) logger(cmd *cobra.Command) *slog.Logger {
	return observability.NewLoggerTo(cmd.ErrOrStderr(), g.logLevel, "text")
}

// inputFlags maps flag names to the input keys a config file uses.
var inputFlags = []struct {
	flag, key, usage string
}{
	{"speed", "V", "basic wind speed, km/h"},
	{"exposure", "exposure", "exposure category B, C or D"},
	{"importance", "I", "importance factor 0.77, 0.87, 1.00 or 1.15"},
	{"height", "h", "mean roof height, m"},
	{"length", "L", "building length, m"},
	{"width", "B", "building width, m"},
	{"theta", "theta", "roof angle, degrees"},
	{"enclosure", "enclosure", "Enclosed, PartiallyEnclosed or Open"},
	{"trib-width", "trib_width", "tributary width for line loads, m"},
}

// readInput merges flags over the optional config file.
func readInput(cmd *cobra.Command, configFile string) (wind.RawInput, error) {
	v := viper.New()
	v.SetDefault("I", "1.00")
	for _, f := range inputFlags {
		if err := v.BindPFlag(f.key, cmd.Flags().Lookup(f.flag)); err != nil {
			return wind.RawInput{}, err
		}
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return wind.RawInput{}, err
		}
	}
	var raw wind.RawInput
	if err := v.Unmarshal(&raw); err != nil {
		return wind.RawInput{}, err
	}
	return raw, nil
}
