package calculation

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/practicecomp/compensation-engine/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// assertDecimal compares within tol, printing both values on failure
func assertDecimal(t *testing.T, expected, actual decimal.Decimal, tol string, msgAndArgs ...interface{}) {
	t.Helper()
	diff := expected.Sub(actual).Abs()
	msg := fmt.Sprintf("expected %s, got %s (diff %s)", expected.String(), actual.String(), diff.String())
	if len(msgAndArgs) > 0 {
		msg += " " + fmt.Sprint(msgAndArgs...)
	}
	assert.True(t, diff.LessThanOrEqual(d(tol)), msg)
}

func TestResolvePortions(t *testing.T) {
	tests := []struct {
		name     string
		emp      domain.Employment
		employee string
		partner  string
	}{
		{"partner", domain.Partner{}, "0", "1"},
		{"employee", domain.Employee{}, "1", "0"},
		{"new employee", domain.NewEmployee{StartPortionOfYear: d("0.25")}, "0.75", "0"},
		{"employee to terminate", domain.EmployeeToTerminate{TerminatePortionOfYear: d("0.4")}, "0.4", "0"},
		{"employee to partner", domain.EmployeeToPartner{EmployeePortionOfYear: d("0.3")}, "0.3", "0.7"},
		{"partner to retire", domain.PartnerToRetire{PartnerPortionOfYear: d("0.6")}, "0", "0.6"},
		{"retired before year", domain.PartnerToRetire{PartnerPortionOfYear: decimal.Zero}, "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePortions(domain.Physician{ID: "x", Employment: tt.emp})
			require.NoError(t, err)
			assert.True(t, got.Employee.Equal(d(tt.employee)), "employee portion %s", got.Employee)
			assert.True(t, got.Partner.Equal(d(tt.partner)), "partner portion %s", got.Partner)
		})
	}
}

func TestResolvePortions_Errors(t *testing.T) {
	_, err := ResolvePortions(domain.Physician{ID: "nil"})
	assert.True(t, errors.Is(err, domain.ErrUnknownPhysicianType))

	_, err = ResolvePortions(domain.Physician{ID: "ptr", Employment: &domain.Partner{}})
	assert.True(t, errors.Is(err, domain.ErrUnknownPhysicianType), "pointer variants are not part of the closed set")

	_, err = ResolvePortions(domain.Physician{ID: "big", Employment: domain.EmployeeToPartner{EmployeePortionOfYear: d("1.2")}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPortionOutOfRange))
	var pe *domain.PortionError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "big", pe.PhysicianID)
	assert.Equal(t, "employee_portion_of_year", pe.Field)
}

func TestTotalPartnerPortion(t *testing.T) {
	roster := []domain.Physician{
		{ID: "a", Employment: domain.Partner{}},
		{ID: "b", Employment: domain.EmployeeToPartner{EmployeePortionOfYear: d("0.3")}},
		{ID: "c", Employment: domain.PartnerToRetire{PartnerPortionOfYear: d("0.5")}},
		{ID: "d", Employment: domain.Employee{}},
	}
	resolved, err := ResolveRoster(roster)
	require.NoError(t, err)
	assert.Equal(t, "2.2", TotalPartnerPortion(resolved).String())
	assert.Len(t, ActivePartners(resolved), 3)
}

func TestRetirementDay(t *testing.T) {
	retired := domain.Physician{ID: "r", Employment: domain.PartnerToRetire{PartnerPortionOfYear: decimal.Zero}}
	day, err := RetirementDay(retired, 2025)
	require.NoError(t, err)
	assert.Equal(t, 0, day, "portion 0 means retired before the year began")

	date, ok := TransitionDate(retired, 2025)
	require.True(t, ok)
	assert.True(t, date.IsBeforeYear())

	mid := domain.Physician{ID: "m", Employment: domain.PartnerToRetire{PartnerPortionOfYear: d("0.5")}}
	day, err = RetirementDay(mid, 2024)
	require.NoError(t, err)
	assert.Equal(t, 183, day)
	date, _ = TransitionDate(mid, 2024)
	assert.Equal(t, time.July, date.Month)
	assert.Equal(t, 1, date.Day)

	_, err = RetirementDay(domain.Physician{ID: "p", Employment: domain.Partner{}}, 2025)
	assert.Error(t, err)

	_, ok = TransitionDate(domain.Physician{ID: "p", Employment: domain.Partner{}}, 2025)
	assert.False(t, ok)
}

func TestRostersEquivalent(t *testing.T) {
	base := []domain.Physician{
		{ID: "js", Name: "JS", Employment: domain.Partner{}, Salary: d("0")},
		{ID: "mc", Name: "MC", Employment: domain.EmployeeToPartner{EmployeePortionOfYear: d("0.3")}, Salary: d("300000")},
	}

	same := domain.CloneRoster(base)
	same[1].Salary = d("300000.40")
	same[1].Employment = domain.EmployeeToPartner{EmployeePortionOfYear: d("0.30004")}
	assert.True(t, RostersEquivalent(base, same), "differences within tolerance are not dirty")

	changed := domain.CloneRoster(base)
	changed[1].Salary = d("301000")
	assert.False(t, RostersEquivalent(base, changed))

	retyped := domain.CloneRoster(base)
	retyped[1].Employment = domain.Employee{}
	assert.False(t, RostersEquivalent(base, retyped))

	assert.False(t, RostersEquivalent(base, base[:1]))
}
