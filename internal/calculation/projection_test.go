package calculation

import (
	"errors"
	"testing"

	"github.com/practicecomp/compensation-engine/internal/domain"
	money "github.com/practicecomp/compensation-engine/pkg/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProjector() *Projector {
	baseline := domain.Baseline{
		Year:                 2024,
		TherapyIncome:        d("1000000"),
		NonEmploymentCosts:   d("200000"),
		NonMDEmploymentCosts: d("150000"),
		MiscEmploymentCosts:  d("30000"),
	}
	proj := domain.Projection{
		IncomeGrowthPct:               d("5"),
		NonEmploymentCostsGrowthPct:   d("3"),
		NonMDEmploymentCostsGrowthPct: d("2"),
		MiscEmploymentCostsGrowthPct:  d("0"),
	}
	_ = proj.SetFixed(domain.FieldMedicalDirectorHours, d("120000"))
	return NewProjector(baseline, proj, domain.DefaultPracticeRules())
}

func mustYear(t *testing.T, years []domain.FutureYear, year int) domain.FutureYear {
	t.Helper()
	idx, err := yearIndex(years, year)
	require.NoError(t, err)
	return years[idx]
}

func TestProjector_NewFutureYears(t *testing.T) {
	pj := testProjector()
	roster := []domain.Physician{{ID: "js", Employment: domain.Partner{}}}
	years, err := pj.NewFutureYears(3, roster)
	require.NoError(t, err)
	require.Len(t, years, 3)

	assert.Equal(t, 2025, years[0].Year)
	assert.Equal(t, 2027, years[2].Year)

	// V0 * (1+g)^N
	for i, fy := range years {
		expected := money.Compound(d("1000000"), d("5"), i+1)
		assertDecimal(t, expected, fy.TherapyIncome.Value, "0.000001", fy.Year)
		assert.False(t, fy.TherapyIncome.Overridden)
	}
	assertDecimal(t, d("1157625"), years[2].TherapyIncome.Value, "0.000001")
	assertDecimal(t, d("30000"), years[2].MiscEmploymentCosts.Value, "0.000001", "0% growth keeps the baseline")

	// fixed amounts carry forward without compounding
	for _, fy := range years {
		assert.True(t, fy.MedicalDirectorHours.Value.Equal(d("120000")))
		assert.True(t, fy.LocumCosts.Value.Equal(d("120000")), "rules default")
		assert.True(t, fy.PRCSMedicalDirectorHours.Value.Equal(d("60000")))
		assert.True(t, fy.ConsultingServicesAgreement.Value.Equal(d("16200")))
	}

	// rosters are independent copies
	years[0].Physicians[0].ID = "changed"
	assert.Equal(t, "js", years[1].Physicians[0].ID)
	assert.Equal(t, "js", roster[0].ID)

	_, err = pj.NewFutureYears(0, roster)
	assert.Error(t, err)
}

func TestProjector_SetOverrideFeedsLaterYears(t *testing.T) {
	pj := testProjector()
	years, err := pj.NewFutureYears(3, nil)
	require.NoError(t, err)
	before := domain.CloneYears(years)

	edited, err := pj.SetOverride(years, 2026, domain.FieldTherapyIncome, d("2000000"))
	require.NoError(t, err)
	assert.Equal(t, before, years, "input years are not modified")

	y2025 := mustYear(t, edited, 2025)
	y2026 := mustYear(t, edited, 2026)
	y2027 := mustYear(t, edited, 2027)
	assertDecimal(t, d("1050000"), y2025.TherapyIncome.Value, "0.000001")
	assert.True(t, y2026.TherapyIncome.Overridden)
	assert.True(t, y2026.TherapyIncome.Value.Equal(d("2000000")))
	assert.False(t, y2027.TherapyIncome.Overridden)
	assertDecimal(t, d("2100000"), y2027.TherapyIncome.Value, "0.000001")

	// fixed fields carry the override forward
	edited, err = pj.SetOverride(edited, 2025, domain.FieldLocumCosts, d("90000"))
	require.NoError(t, err)
	for _, fy := range edited {
		assert.True(t, fy.LocumCosts.Value.Equal(d("90000")), "year %d", fy.Year)
	}
	assert.True(t, mustYear(t, edited, 2025).LocumCosts.Overridden)
	assert.False(t, mustYear(t, edited, 2026).LocumCosts.Overridden)
}

func TestProjector_ResetRestoresDerivedValues(t *testing.T) {
	pj := testProjector()
	fresh, err := pj.NewFutureYears(3, nil)
	require.NoError(t, err)

	edited, err := pj.SetOverride(fresh, 2026, domain.FieldTherapyIncome, d("2000000"))
	require.NoError(t, err)
	edited, err = pj.SetOverride(edited, 2027, domain.FieldNonEmploymentCosts, d("1"))
	require.NoError(t, err)

	reset, err := pj.ResetField(edited, 2026, domain.FieldTherapyIncome)
	require.NoError(t, err)
	assertDecimal(t, d("1102500"), mustYear(t, reset, 2026).TherapyIncome.Value, "0.000001")
	assertDecimal(t, d("1157625"), mustYear(t, reset, 2027).TherapyIncome.Value, "0.000001")
	assert.True(t, mustYear(t, reset, 2027).NonEmploymentCosts.Overridden, "other overrides survive")

	reset, err = pj.ResetYear(reset, 2027)
	require.NoError(t, err)
	assert.Equal(t, fresh, reset)

	all, err := pj.ResetAll(edited)
	require.NoError(t, err)
	assert.Equal(t, fresh, all)
}

func TestProjector_Errors(t *testing.T) {
	pj := testProjector()
	years, err := pj.NewFutureYears(2, nil)
	require.NoError(t, err)

	_, err = pj.SetOverride(years, 2030, domain.FieldTherapyIncome, d("1"))
	assert.True(t, errors.Is(err, domain.ErrYearNotProjected))

	_, err = pj.SetOverride(years, 2025, domain.Field("bogus"), d("1"))
	assert.True(t, errors.Is(err, domain.ErrUnknownField))

	_, err = pj.Project([]domain.FutureYear{{Year: 2026}, {Year: 2025}})
	assert.Error(t, err, "years must be strictly ascending")
}

func TestProjector_DetectOverrides(t *testing.T) {
	pj := testProjector()
	years, err := pj.NewFutureYears(3, nil)
	require.NoError(t, err)

	clean, err := pj.DetectOverrides(years)
	require.NoError(t, err)
	for _, fy := range clean {
		for f, overridden := range OverrideFlags(fy) {
			assert.False(t, overridden, "%d %s", fy.Year, f)
		}
	}

	// drift under a dollar is not an edit
	years[1].TherapyIncome.Value = years[1].TherapyIncome.Value.Add(d("0.75"))
	detected, err := pj.DetectOverrides(years)
	require.NoError(t, err)
	assert.False(t, detected[1].TherapyIncome.Overridden)

	years[1].TherapyIncome.Value = d("1200000")
	detected, err = pj.DetectOverrides(years)
	require.NoError(t, err)
	assert.True(t, detected[1].TherapyIncome.Overridden)
	assert.True(t, detected[1].TherapyIncome.Value.Equal(d("1200000")), "stored values are kept")
	assert.False(t, detected[0].TherapyIncome.Overridden)
}
