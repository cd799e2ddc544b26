package cli

import (
	"fmt"

	"github.com/practicecomp/compensation-engine/internal/calculation"
	"github.com/practicecomp/compensation-engine/internal/domain"
	"github.com/practicecomp/compensation-engine/internal/output"
	"github.com/spf13/cobra"
)

// recordedFields are the growth fields a history row carries
var recordedFields = []domain.Field{
	domain.FieldTherapyIncome,
	domain.FieldNonEmploymentCosts,
	domain.FieldNonMDEmploymentCosts,
}

func (a *app) newHistoryCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Summarize recorded years and their growth",
		RunE: func(cmd *cobra.Command, args []string) error {
			hdm := calculation.NewHistoricalDataManager(file)
			if file == "" {
				cfg, err := a.loadConfig()
				if err != nil {
					return err
				}
				hdm.Rows = cfg.History
			}
			if err := hdm.LoadAllData(); err != nil {
				return err
			}

			minYear, maxYear, err := hdm.GetAvailableYears()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Recorded years: %d-%d (%d rows)\n\n", minYear, maxYear, len(hdm.Rows))
			for y := minYear; y <= maxYear; y++ {
				row, err := hdm.GetYear(y)
				if err != nil {
					continue
				}
				fmt.Fprintf(a.out, "  %d: income %s, non-employment %s, payroll %s\n", row.Year,
					output.FormatCurrency(row.TherapyIncome),
					output.FormatCurrency(row.NonEmploymentCosts),
					output.FormatCurrency(row.EmployeePayroll))
			}

			if minYear < maxYear {
				fmt.Fprintln(a.out, "\nCompound annual growth:")
				for _, f := range recordedFields {
					pct, err := hdm.AverageGrowthPct(f)
					if err != nil {
						fmt.Fprintf(a.out, "  %s: n/a (%v)\n", f, err)
						continue
					}
					fmt.Fprintf(a.out, "  %s: %s\n", f, output.FormatPercentage(pct))
				}
			}

			issues, err := hdm.ValidateDataQuality()
			if err != nil {
				return err
			}
			if len(issues) > 0 {
				fmt.Fprintln(a.out, "\nData quality issues:")
				for _, issue := range issues {
					fmt.Fprintf(a.out, "  - %s\n", issue)
				}
				a.logger.Warnw("history has data quality issues", "count", len(issues))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "history CSV (default: the configuration's history)")
	return cmd
}
