package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type globalOptions struct {
	envFiles        []string
	source          string
	dataDir         string
	primaryUnit     string
	currency        string
	metricsTextfile string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:           "staffing-report",
		Short:         "Staffing hierarchy totals, filters and comparison exports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := cmd.PersistentFlags()
	f.StringSliceVar(&opts.envFiles, "env-file", []string{".env", ".env.local"}, "Env files to load before reading the environment")
	f.StringVar(&opts.source, "source", "", "Storage backend: db|files (overrides STAFFING_SOURCE)")
	f.StringVar(&opts.dataDir, "data-dir", "", "Directory of the files backend (overrides STAFFING_DATA_DIR)")
	f.StringVar(&opts.primaryUnit, "primary-unit", "", "Top-level unit listed first in exports (overrides STAFFING_PRIMARY_UNIT)")
	f.StringVar(&opts.currency, "currency", "", "Currency used to display amounts (overrides STAFFING_CURRENCY)")
	f.StringVar(&opts.metricsTextfile, "metrics-textfile", "", "Write prometheus metrics to this file on exit (overrides STAFFING_METRICS_TEXTFILE)")

	cmd.AddCommand(newTreeCmd(opts))
	cmd.AddCommand(newFilterCmd(opts))
	cmd.AddCommand(newSummaryCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(code)
	}
}
