package cli

import (
	"fmt"

	"github.com/practicecomp/compensation-engine/internal/output"
	"github.com/spf13/cobra"
)

func (a *app) newRunCommand() *cobra.Command {
	var (
		format   string
		outPath  string
		outDir   string
		scenario string
		debug    bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute compensation for every scenario and render a report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if err := selectScenarios(cfg, scenario); err != nil {
				return err
			}

			report, err := a.engine(debug).RunScenarios(cfg)
			if err != nil {
				return err
			}

			binary := output.NormalizeFormatName(format) == "xlsx" || output.NormalizeFormatName(format) == "all"
			if outPath == "" && outDir == "" && !binary {
				return output.GenerateReport(report, format, a.out)
			}
			if outDir == "" {
				outDir = "."
			}
			written, err := output.GenerateReportFile(report, format, outPath, outDir)
			if err != nil {
				return err
			}
			for _, name := range written {
				fmt.Fprintf(a.out, "Report written to %s\n", name)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "console", "console, console-lite, csv, detailed-csv, json, xlsx or all")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the report to this file")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "write a timestamped report into this directory")
	cmd.Flags().StringVarP(&scenario, "scenario", "s", "", "only run the named scenario")
	cmd.Flags().BoolVar(&debug, "debug", false, "log per-year pool figures")
	return cmd
}
