package calculation

import (
	"fmt"
	"time"

	"github.com/practicecomp/compensation-engine/internal/domain"
	"github.com/practicecomp/compensation-engine/pkg/dateutil"
	money "github.com/practicecomp/compensation-engine/pkg/decimal"
	"github.com/shopspring/decimal"
)

// PayPeriod is one recurring pay period and the date its wages are paid
type PayPeriod struct {
	Start   time.Time
	End     time.Time
	PayDate time.Time
}

func validateCalendar(cal domain.PayrollCalendar) error {
	if cal.PeriodDays <= 0 {
		return fmt.Errorf("payroll calendar: period_days must be positive, got %d", cal.PeriodDays)
	}
	if cal.PeriodsPerYear <= 0 {
		return fmt.Errorf("payroll calendar: periods_per_year must be positive, got %d", cal.PeriodsPerYear)
	}
	if cal.PayLagDays < 0 {
		return fmt.Errorf("payroll calendar: pay_lag_days cannot be negative, got %d", cal.PayLagDays)
	}
	return nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// PayPeriodsPaidIn returns the periods whose pay date falls in year, in order
func PayPeriodsPaidIn(cal domain.PayrollCalendar, year int) ([]PayPeriod, error) {
	if err := validateCalendar(cal); err != nil {
		return nil, err
	}
	anchor := time.Date(cal.AnchorDate.Year(), cal.AnchorDate.Month(), cal.AnchorDate.Day(), 0, 0, 0, 0, time.UTC)
	payOffset := cal.PeriodDays - 1 + cal.PayLagDays

	// first candidate: the period paid just before Jan 1
	k := floorDiv(dateutil.DaysBetween(anchor, dateutil.BeginningOfYear(year))-payOffset, cal.PeriodDays) - 1
	end := dateutil.EndOfYear(year)

	var periods []PayPeriod
	for {
		start := anchor.AddDate(0, 0, k*cal.PeriodDays)
		pp := PayPeriod{
			Start:   start,
			End:     start.AddDate(0, 0, cal.PeriodDays-1),
			PayDate: start.AddDate(0, 0, payOffset),
		}
		if pp.PayDate.After(end) {
			break
		}
		if pp.PayDate.Year() == year {
			periods = append(periods, pp)
		}
		k++
	}
	return periods, nil
}

// DelayedW2 estimates W-2 wages actually paid in year when employee work
// stops after employeeThrough. Each period paid in the year contributes
// salary/PeriodsPerYear scaled by the share of its days worked as an
// employee, so work at the end of the prior year lands in this year's W-2.
func DelayedW2(cal domain.PayrollCalendar, salary decimal.Decimal, employeeThrough time.Time, year int) (decimal.Decimal, error) {
	periods, err := PayPeriodsPaidIn(cal, year)
	if err != nil {
		return decimal.Zero, err
	}
	through := time.Date(employeeThrough.Year(), employeeThrough.Month(), employeeThrough.Day(), 0, 0, 0, 0, time.UTC)
	perPeriod := money.NewMoneyFromDecimal(salary).PerPeriod(cal.PeriodsPerYear).Decimal
	periodDays := decimal.NewFromInt(int64(cal.PeriodDays))

	total := decimal.Zero
	for _, pp := range periods {
		days := dateutil.DaysBetween(pp.Start, through) + 1
		if days <= 0 {
			continue
		}
		if days > cal.PeriodDays {
			days = cal.PeriodDays
		}
		total = total.Add(perPeriod.Mul(decimal.NewFromInt(int64(days))).Div(periodDays))
	}
	return total, nil
}

// EmployeeThrough returns the last day p worked as an employee in year, used
// as the DelayedW2 cut-off. Whole-year employees work through Dec 31.
func EmployeeThrough(p domain.Physician, year int) time.Time {
	switch p.Type() {
	case domain.TypeEmployeeToPartner, domain.TypeEmployeeToTerminate:
		date, _ := TransitionDate(p, year)
		return date.In(year)
	case domain.TypePartner, domain.TypePartnerToRetire:
		return dateutil.BeginningOfYear(year).AddDate(0, 0, -1)
	}
	return dateutil.EndOfYear(year)
}
