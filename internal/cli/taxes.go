package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/practicecomp/compensation-engine/internal/calculation"
	"github.com/practicecomp/compensation-engine/internal/domain"
	"github.com/practicecomp/compensation-engine/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func (a *app) newTaxesCommand() *cobra.Command {
	var (
		year    int
		wages   string
		periods bool
	)
	cmd := &cobra.Command{
		Use:   "taxes",
		Short: "Show employer payroll tax on a wage amount",
		Long: "Computes each configured payroll tax regime on one employee's annual wages.\n" +
			"Rules come from --config when given, otherwise the built-in defaults.",
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(wages)
			if err != nil {
				return fmt.Errorf("invalid --wages %q: %w", wages, err)
			}
			if amount.IsNegative() {
				return fmt.Errorf("--wages cannot be negative")
			}

			rules := domain.DefaultPracticeRules()
			if a.configPath != "" {
				cfg, err := a.loadConfig()
				if err != nil {
					return err
				}
				rules = cfg.Rules
			}

			calc, err := calculation.NewPayrollTaxCalculator(rules.PayrollTax, year)
			if err != nil {
				return err
			}
			breakdown := calc.Calculate(amount)

			fmt.Fprintf(a.out, "Employer payroll tax for %d on %s\n", year, output.FormatCurrency(amount))
			fmt.Fprintf(a.out, "Social Security wage base: %s\n\n", output.FormatCurrency(calc.SocialSecurityWageBase))
			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "REGIME\tRATE\tTAXABLE\tTAX")
			for _, l := range breakdown.Lines {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", l.Regime, output.FormatPercentage(l.Rate.Mul(decimal.NewFromInt(100))),
					output.FormatCurrency(l.TaxableWages), output.FormatCurrency(l.Tax))
			}
			fmt.Fprintf(tw, "TOTAL\t\t\t%s\n", output.FormatCurrency(breakdown.Total))
			tw.Flush()

			if periods {
				cal := domain.DefaultPayrollCalendar()
				if rules.Payroll != nil {
					cal = *rules.Payroll
				}
				pps, err := calculation.PayPeriodsPaidIn(cal, year)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "\nPay periods paid in %d: %d\n", year, len(pps))
				for _, pp := range pps {
					fmt.Fprintf(a.out, "  %s - %s paid %s\n", pp.Start.Format(time.DateOnly), pp.End.Format(time.DateOnly), pp.PayDate.Format(time.DateOnly))
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "tax year")
	cmd.Flags().StringVar(&wages, "wages", "", "annual W-2 wages")
	cmd.Flags().BoolVar(&periods, "periods", false, "also list the pay periods paid in the year")
	_ = cmd.MarkFlagRequired("wages")
	return cmd
}
