package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/practicecomp/compensation-engine/internal/calculation"
	"github.com/practicecomp/compensation-engine/internal/domain"
	"github.com/practicecomp/compensation-engine/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// edit is one --set or --reset argument
type edit struct {
	year  int // 0 with field "" means every year
	field domain.Field
	value decimal.Decimal
}

// parseSet reads "2026:therapy_income=2000000"
func parseSet(arg string) (edit, error) {
	target, raw, ok := strings.Cut(arg, "=")
	if !ok {
		return edit{}, fmt.Errorf("--set %q: expected YEAR:FIELD=AMOUNT", arg)
	}
	e, err := parseTarget(target)
	if err != nil {
		return edit{}, err
	}
	if e.field == "" {
		return edit{}, fmt.Errorf("--set %q: a field is required", arg)
	}
	e.value, err = decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return edit{}, fmt.Errorf("--set %q: invalid amount: %w", arg, err)
	}
	return e, nil
}

// parseTarget reads "2026:therapy_income", "2026" or "all"
func parseTarget(arg string) (edit, error) {
	arg = strings.TrimSpace(arg)
	if strings.EqualFold(arg, "all") {
		return edit{}, nil
	}
	yearPart, fieldPart, hasField := strings.Cut(arg, ":")
	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return edit{}, fmt.Errorf("%q: invalid year", arg)
	}
	e := edit{year: year}
	if hasField {
		f, err := domain.ParseField(fieldPart)
		if err != nil {
			return edit{}, err
		}
		e.field = f
	}
	return e, nil
}

func (a *app) newProjectCommand() *cobra.Command {
	var (
		scenario string
		sets     []string
		resets   []string
		detect   bool
		save     string
	)
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Show and edit a scenario's projected years",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if scenario == "" && len(cfg.Scenarios) > 0 {
				scenario = cfg.Scenarios[0].Name
			}
			s, ok := cfg.FindScenario(scenario)
			if !ok {
				return fmt.Errorf("scenario %q not found", scenario)
			}

			ce := a.engine(false)
			baseline, years, err := ce.ProjectScenario(cfg, s)
			if err != nil {
				return err
			}
			pj := calculation.NewProjector(baseline, s.Projection, cfg.Rules)

			if detect {
				if years, err = pj.DetectOverrides(years); err != nil {
					return err
				}
			}
			for _, arg := range resets {
				e, err := parseTarget(arg)
				if err != nil {
					return err
				}
				switch {
				case e.year == 0:
					years, err = pj.ResetAll(years)
				case e.field == "":
					years, err = pj.ResetYear(years, e.year)
				default:
					years, err = pj.ResetField(years, e.year, e.field)
				}
				if err != nil {
					return err
				}
			}
			for _, arg := range sets {
				e, err := parseSet(arg)
				if err != nil {
					return err
				}
				if years, err = pj.SetOverride(years, e.year, e.field, e.value); err != nil {
					return err
				}
				a.logger.Infow("override set", "scenario", s.Name, "year", e.year, "field", e.field, "value", e.value.String())
			}

			writeProjection(a, s.Name, baseline, years)

			if save != "" {
				s.FutureYears = years
				s.ProjectionYears = len(years)
				if err := output.SaveConfiguration(cfg, save); err != nil {
					return fmt.Errorf("failed to save %s: %w", save, err)
				}
				fmt.Fprintf(a.out, "\nConfiguration with projected years written to %s\n", save)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&scenario, "scenario", "s", "", "scenario name (default: the first)")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "override a value, YEAR:FIELD=AMOUNT (repeatable)")
	cmd.Flags().StringArrayVar(&resets, "reset", nil, "restore derived values: YEAR:FIELD, YEAR or all (repeatable)")
	cmd.Flags().BoolVar(&detect, "detect", false, "flag stored values that differ from their derived value as overrides")
	cmd.Flags().StringVar(&save, "save", "", "write the configuration with the resulting years to this YAML file")
	return cmd
}

func writeProjection(a *app, name string, baseline domain.Baseline, years []domain.FutureYear) {
	fmt.Fprintf(a.out, "%s: baseline %d, therapy income %s\n\n", name, baseline.Year, output.FormatCurrency(baseline.TherapyIncome))

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := "FIELD\t"
	for _, fy := range years {
		header += strconv.Itoa(fy.Year) + "\t"
	}
	fmt.Fprintln(tw, header)
	for _, f := range domain.AllFields {
		row := string(f) + "\t"
		for _, fy := range years {
			pv, _ := fy.Field(f)
			cell := output.FormatCurrency(pv.Value)
			if pv.Overridden {
				cell += "*"
			}
			row += cell + "\t"
		}
		fmt.Fprintln(tw, row)
	}
	tw.Flush()
	fmt.Fprintln(a.out, "\n* manually overridden")
}
