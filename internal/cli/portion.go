package cli

import (
	"fmt"
	"time"

	"github.com/practicecomp/compensation-engine/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func (a *app) newPortionCommand() *cobra.Command {
	var (
		year    int
		date    string
		portion string
	)
	cmd := &cobra.Command{
		Use:   "portion",
		Short: "Convert between a transition date and a portion of the year",
		Long: "Transition points such as employee_portion_of_year are fractions of the\n" +
			"year. --date MM-DD prints the portion for a date; --portion prints the date.",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case date != "" && portion != "":
				return fmt.Errorf("use either --date or --portion, not both")
			case date != "":
				t, err := time.Parse("01-02", date)
				if err != nil {
					return fmt.Errorf("invalid --date %q: expected MM-DD", date)
				}
				if err := dateutil.ValidateDate(t.Month(), t.Day(), year); err != nil {
					return err
				}
				p := dateutil.PortionOfYear(t.Month(), t.Day(), year)
				fmt.Fprintf(a.out, "%d-%s is day %d of %d: portion %s\n", year, date,
					dateutil.DayOfYear(t.Month(), t.Day(), year), dateutil.DaysInYear(year), p.StringFixed(6))
			case portion != "":
				p, err := decimal.NewFromString(portion)
				if err != nil {
					return fmt.Errorf("invalid --portion %q: %w", portion, err)
				}
				if p.IsNegative() || p.GreaterThan(decimal.NewFromInt(1)) {
					return fmt.Errorf("--portion must be between 0 and 1")
				}
				cd := dateutil.DateFromPortion(p, year)
				fmt.Fprintf(a.out, "portion %s of %d is day %d: %s\n", p.String(), year, dateutil.DayFromPortion(p, year), cd)
			default:
				return fmt.Errorf("one of --date or --portion is required")
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "calendar year")
	cmd.Flags().StringVar(&date, "date", "", "transition date, MM-DD")
	cmd.Flags().StringVar(&portion, "portion", "", "fraction of the year, 0 to 1")
	return cmd
}
