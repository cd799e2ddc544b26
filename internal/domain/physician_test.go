package domain

import (
	"errors"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestPhysician_UnmarshalYAML_Variants(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Employment
	}{
		{
			name:     "partner",
			input:    "id: js\nname: JS\ntype: partner\n",
			expected: Partner{},
		},
		{
			name:     "employee",
			input:    "id: e1\nname: E1\ntype: employee\nsalary: 250000\n",
			expected: Employee{},
		},
		{
			name:     "new employee",
			input:    "id: n1\nname: N1\ntype: newEmployee\nstart_portion_of_year: 0.25\n",
			expected: NewEmployee{StartPortionOfYear: decimal.RequireFromString("0.25")},
		},
		{
			name:     "employee to terminate",
			input:    "id: t1\nname: T1\ntype: employeeToTerminate\nterminate_portion_of_year: 0.4\n",
			expected: EmployeeToTerminate{TerminatePortionOfYear: decimal.RequireFromString("0.4")},
		},
		{
			name:     "employee to partner",
			input:    "id: mc\nname: MC\ntype: employeeToPartner\nemployee_portion_of_year: 0.3\n",
			expected: EmployeeToPartner{EmployeePortionOfYear: decimal.RequireFromString("0.3")},
		},
		{
			name:  "partner to retire",
			input: "id: r1\nname: R1\ntype: partnerToRetire\npartner_portion_of_year: 0\nbuyout_cost: 50000\ntrailing_shared_md_amount: 8000\n",
			expected: PartnerToRetire{
				PartnerPortionOfYear:   decimal.Zero,
				BuyoutCost:             decimal.NewFromInt(50000),
				TrailingSharedMDAmount: decimal.NewFromInt(8000),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Physician
			require.NoError(t, yaml.Unmarshal([]byte(tt.input), &p))
			require.NotNil(t, p.Employment)
			assert.Equal(t, tt.expected.Type(), p.Type())
			assertEmploymentEqual(t, tt.expected, p.Employment)
		})
	}
}

func assertEmploymentEqual(t *testing.T, expected, actual Employment) {
	t.Helper()
	switch e := expected.(type) {
	case NewEmployee:
		assert.True(t, e.StartPortionOfYear.Equal(actual.(NewEmployee).StartPortionOfYear))
	case EmployeeToTerminate:
		assert.True(t, e.TerminatePortionOfYear.Equal(actual.(EmployeeToTerminate).TerminatePortionOfYear))
	case EmployeeToPartner:
		assert.True(t, e.EmployeePortionOfYear.Equal(actual.(EmployeeToPartner).EmployeePortionOfYear))
	case PartnerToRetire:
		a := actual.(PartnerToRetire)
		assert.True(t, e.PartnerPortionOfYear.Equal(a.PartnerPortionOfYear))
		assert.True(t, e.BuyoutCost.Equal(a.BuyoutCost))
		assert.True(t, e.TrailingSharedMDAmount.Equal(a.TrailingSharedMDAmount))
	default:
		assert.Equal(t, expected, actual)
	}
}

func TestPhysician_MissingTimingDefaultsToMidYear(t *testing.T) {
	for _, typ := range []PhysicianType{TypeNewEmployee, TypeEmployeeToTerminate, TypeEmployeeToPartner, TypePartnerToRetire} {
		t.Run(string(typ), func(t *testing.T) {
			var p Physician
			require.NoError(t, yaml.Unmarshal([]byte("id: x\ntype: "+string(typ)+"\n"), &p))

			var got decimal.Decimal
			switch e := p.Employment.(type) {
			case NewEmployee:
				got = e.StartPortionOfYear
			case EmployeeToTerminate:
				got = e.TerminatePortionOfYear
			case EmployeeToPartner:
				got = e.EmployeePortionOfYear
			case PartnerToRetire:
				got = e.PartnerPortionOfYear
			}
			assert.True(t, got.Equal(DefaultTransitionPortion), "got %s", got)
		})
	}
}

func TestPhysician_ExplicitZeroIsKept(t *testing.T) {
	var p Physician
	require.NoError(t, yaml.Unmarshal([]byte("id: x\ntype: partnerToRetire\npartner_portion_of_year: 0\n"), &p))
	retire, ok := p.Employment.(PartnerToRetire)
	require.True(t, ok)
	assert.True(t, retire.PartnerPortionOfYear.IsZero())
}

func TestPhysician_UnknownType(t *testing.T) {
	var p Physician
	err := yaml.Unmarshal([]byte("id: x\ntype: contractor\n"), &p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownPhysicianType))

	err = json.Unmarshal([]byte(`{"id":"x","type":"contractor"}`), &p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownPhysicianType))
}

func TestPhysician_JSONIsFlat(t *testing.T) {
	p := Physician{
		ID:         "mc",
		Name:       "MC",
		Employment: EmployeeToPartner{EmployeePortionOfYear: decimal.RequireFromString("0.3")},
		Salary:     decimal.NewFromInt(300000),
		Tags:       []string{"prcs-director"},
	}
	data, err := json.Marshal(p)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "employeeToPartner", raw["type"])
	assert.Equal(t, "0.3", raw["employee_portion_of_year"])
	assert.NotContains(t, raw, "partner_portion_of_year")

	var back Physician
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, p.ID, back.ID)
	assert.Equal(t, p.Tags, back.Tags)
	assert.True(t, p.Salary.Equal(back.Salary))
	assertEmploymentEqual(t, p.Employment, back.Employment)
}

func TestPhysician_CloneSharesNothing(t *testing.T) {
	p := Physician{ID: "a", Employment: Partner{}, Tags: []string{"x"}}
	c := p.Clone()
	c.Tags[0] = "y"
	assert.Equal(t, "x", p.Tags[0])
}

func TestParseField(t *testing.T) {
	f, err := ParseField("therapyIncome")
	require.NoError(t, err)
	assert.Equal(t, FieldTherapyIncome, f)

	f, err = ParseField("prcs_medical_director_hours")
	require.NoError(t, err)
	assert.Equal(t, FieldPRCSMedicalDirectorHours, f)

	_, err = ParseField("bogus")
	assert.True(t, errors.Is(err, ErrUnknownField))
}

func TestFutureYear_FieldAndClone(t *testing.T) {
	director := "js"
	fy := FutureYear{
		Year:                    2026,
		TherapyIncome:           Derived(decimal.NewFromInt(100)),
		PRCSDirectorPhysicianID: &director,
		Physicians:              []Physician{{ID: "js", Employment: Partner{}}},
	}
	pv, err := fy.Field(FieldTherapyIncome)
	require.NoError(t, err)
	*pv = Override(decimal.NewFromInt(200))
	assert.True(t, fy.TherapyIncome.Overridden)
	assert.Equal(t, "200", fy.Value(FieldTherapyIncome).String())

	c := fy.Clone()
	*c.PRCSDirectorPhysicianID = "other"
	c.Physicians[0].ID = "changed"
	assert.Equal(t, "js", *fy.PRCSDirectorPhysicianID)
	assert.Equal(t, "js", fy.Physicians[0].ID)
}

func TestProjection_Setters(t *testing.T) {
	var p Projection
	require.NoError(t, p.SetGrowth(FieldTherapyIncome, decimal.NewFromInt(5)))
	assert.Error(t, p.SetGrowth(FieldLocumCosts, decimal.NewFromInt(5)))

	require.NoError(t, p.SetFixed(FieldLocumCosts, decimal.NewFromInt(90000)))
	v, err := p.Fixed(FieldLocumCosts)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "90000", v.String())

	s := Scenario{Projection: p}
	c := s.Clone()
	require.NoError(t, c.Projection.SetFixed(FieldLocumCosts, decimal.NewFromInt(1)))
	v, _ = s.Projection.Fixed(FieldLocumCosts)
	assert.Equal(t, "90000", v.String(), "clone must not share fixed amounts")

	require.NoError(t, p.ClearFixed(FieldLocumCosts))
	v, _ = p.Fixed(FieldLocumCosts)
	assert.Nil(t, v)
}

func TestDataMode_Year(t *testing.T) {
	y, ok := DataMode("2025").Year()
	assert.True(t, ok)
	assert.Equal(t, 2025, y)

	_, ok = DataModeCustom.Year()
	assert.False(t, ok)
}

func TestPracticeRules_GenerateAssumptions(t *testing.T) {
	lines := DefaultPracticeRules().GenerateAssumptions()
	assert.NotEmpty(t, lines)
	assert.Contains(t, lines, "Payroll tax medicare: 1.45% (uncapped)")
}
