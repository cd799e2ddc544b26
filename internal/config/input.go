package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/practicecomp/compensation-engine/internal/calculation"
	"github.com/practicecomp/compensation-engine/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML file. Rules start from the
// built-in defaults, so a file only needs to list what it changes. A
// history_file is resolved relative to the configuration file.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	config, err := ip.Parse(data)
	if err != nil {
		return nil, err
	}

	if config.HistoryFile != "" {
		path := config.HistoryFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(filepath.Dir(filename), path)
		}
		hdm := calculation.NewHistoricalDataManager(path)
		hdm.Rows = config.History
		if err := hdm.LoadAllData(); err != nil {
			return nil, err
		}
		config.History = hdm.Rows
	}

	// Validate the configuration
	if err := ip.ValidateConfiguration(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Parse decodes YAML over the default rules and fills in missing ids. It
// does not validate.
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	config := domain.Configuration{Rules: domain.DefaultPracticeRules()}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if config.Rules.Payroll != nil {
		fillPayrollDefaults(config.Rules.Payroll)
	}
	AssignPhysicianIDs(&config)
	return &config, nil
}

func fillPayrollDefaults(cal *domain.PayrollCalendar) {
	def := domain.DefaultPayrollCalendar()
	if cal.AnchorDate.IsZero() {
		cal.AnchorDate = def.AnchorDate
	}
	if cal.PeriodDays == 0 {
		cal.PeriodDays = def.PeriodDays
	}
	if cal.PeriodsPerYear == 0 {
		cal.PeriodsPerYear = def.PeriodsPerYear
	}
}

// AssignPhysicianIDs gives every roster entry without an id a generated one.
// Within a scenario, entries sharing a name share the id so a person keeps
// one identity across projected years.
func AssignPhysicianIDs(config *domain.Configuration) {
	for si := range config.Scenarios {
		s := &config.Scenarios[si]
		byName := make(map[string]string)
		for _, p := range s.Roster {
			if p.ID != "" && p.Name != "" {
				byName[p.Name] = p.ID
			}
		}
		for _, fy := range s.FutureYears {
			for _, p := range fy.Physicians {
				if p.ID != "" && p.Name != "" {
					if _, ok := byName[p.Name]; !ok {
						byName[p.Name] = p.ID
					}
				}
			}
		}

		assign := func(p *domain.Physician) {
			if p.ID != "" {
				return
			}
			if id, ok := byName[p.Name]; ok && p.Name != "" {
				p.ID = id
				return
			}
			p.ID = uuid.NewString()
			if p.Name != "" {
				byName[p.Name] = p.ID
			}
		}
		for i := range s.Roster {
			assign(&s.Roster[i])
		}
		for yi := range s.FutureYears {
			for i := range s.FutureYears[yi].Physicians {
				assign(&s.FutureYears[yi].Physicians[i])
			}
		}
	}
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if err := ip.validateRules(&config.Rules); err != nil {
		return fmt.Errorf("rules validation failed: %w", err)
	}

	seenYears := make(map[int]bool, len(config.History))
	for _, row := range config.History {
		if seenYears[row.Year] {
			return fmt.Errorf("history year %d appears more than once", row.Year)
		}
		seenYears[row.Year] = true
	}

	// Validate scenarios
	if len(config.Scenarios) == 0 {
		return fmt.Errorf("no scenarios provided")
	}

	names := make(map[string]bool, len(config.Scenarios))
	for i := range config.Scenarios {
		scenario := &config.Scenarios[i]
		if err := ip.validateScenario(config, scenario); err != nil {
			return fmt.Errorf("scenario %d validation failed: %w", i, err)
		}
		key := strings.ToLower(scenario.Name)
		if names[key] {
			return fmt.Errorf("duplicate scenario name %q", scenario.Name)
		}
		names[key] = true
	}

	return nil
}

// validateRules validates practice-wide constants
func (ip *InputParser) validateRules(rules *domain.PracticeRules) error {
	if len(rules.PayrollTax.SocialSecurityWageBases) == 0 {
		return fmt.Errorf("at least one social security wage base is required")
	}
	for year, base := range rules.PayrollTax.SocialSecurityWageBases {
		if !base.IsPositive() {
			return fmt.Errorf("social security wage base for %d must be positive", year)
		}
	}
	if rules.PayrollTax.WageBaseGrowthPct.LessThan(decimal.Zero) {
		return fmt.Errorf("wage base growth cannot be negative")
	}
	for _, r := range rules.PayrollTax.Regimes {
		if r.Name == "" {
			return fmt.Errorf("tax regime name is required")
		}
		if r.Rate.LessThan(decimal.Zero) || r.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("tax regime %s: rate must be a fraction between 0 and 1", r.Name)
		}
		switch r.Cap {
		case domain.CapFixed:
			if !r.WageBase.IsPositive() {
				return fmt.Errorf("tax regime %s: fixed cap requires a positive wage_base", r.Name)
			}
		case domain.CapSocialSecurity, domain.CapUncapped:
		default:
			return fmt.Errorf("tax regime %s: cap must be 'fixed', 'social_security' or 'uncapped'", r.Name)
		}
	}
	if rules.BenefitsAnnualCost.LessThan(decimal.Zero) {
		return fmt.Errorf("benefits annual cost cannot be negative")
	}
	if rules.Payroll != nil {
		if _, err := calculation.PayPeriodsPaidIn(*rules.Payroll, rules.Payroll.AnchorDate.Year()+1); err != nil {
			return err
		}
	}
	return nil
}

// validateScenario validates a single scenario
func (ip *InputParser) validateScenario(config *domain.Configuration, scenario *domain.Scenario) error {
	if scenario.Name == "" {
		return fmt.Errorf("scenario name is required")
	}

	if _, err := calculation.SelectBaseline(scenario.DataMode, config.History, scenario.CustomBaseline, config.Rules); err != nil {
		return err
	}

	if scenario.ProjectionYears < 0 || scenario.ProjectionYears > 50 {
		return fmt.Errorf("projection years must be between 0 and 50")
	}
	for _, f := range domain.GrowthFields {
		pct, _ := scenario.Projection.GrowthPct(f)
		if pct.LessThanOrEqual(decimal.NewFromInt(-100)) {
			return fmt.Errorf("%s growth must be greater than -100%%", f)
		}
	}
	for _, f := range domain.FixedFields {
		if v, _ := scenario.Projection.Fixed(f); v != nil && v.IsNegative() {
			return fmt.Errorf("%s cannot be negative", f)
		}
	}

	if len(scenario.Roster) == 0 && len(scenario.FutureYears) == 0 {
		return fmt.Errorf("a roster or future years are required")
	}
	if err := ip.validateRoster(scenario.Roster); err != nil {
		return fmt.Errorf("roster validation failed: %w", err)
	}

	for i, fy := range scenario.FutureYears {
		if i > 0 && fy.Year <= scenario.FutureYears[i-1].Year {
			return fmt.Errorf("future years must be in ascending order: %d follows %d", fy.Year, scenario.FutureYears[i-1].Year)
		}
		if err := ip.validateRoster(fy.Physicians); err != nil {
			return fmt.Errorf("year %d roster validation failed: %w", fy.Year, err)
		}
	}
	return nil
}

// validateRoster validates roster entries
func (ip *InputParser) validateRoster(roster []domain.Physician) error {
	ids := make(map[string]bool, len(roster))
	for _, p := range roster {
		if ids[p.ID] {
			return fmt.Errorf("duplicate physician id %q", p.ID)
		}
		ids[p.ID] = true

		if _, err := calculation.ResolvePortions(p); err != nil {
			return err
		}
		if p.Salary.LessThan(decimal.Zero) {
			return fmt.Errorf("physician %q: salary cannot be negative", p.ID)
		}
		if p.BonusAmount.LessThan(decimal.Zero) {
			return fmt.Errorf("physician %q: bonus amount cannot be negative", p.ID)
		}
		if p.WeeksVacation < 0 || p.WeeksVacation > 52 {
			return fmt.Errorf("physician %q: weeks of vacation must be between 0 and 52", p.ID)
		}
		if p.MedicalDirectorHoursPercentage.LessThan(decimal.Zero) || p.MedicalDirectorHoursPercentage.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("physician %q: medical director hours percentage must be between 0 and 100", p.ID)
		}
		if e, ok := p.Employment.(domain.PartnerToRetire); ok {
			if e.BuyoutCost.IsNegative() || e.TrailingSharedMDAmount.IsNegative() {
				return fmt.Errorf("physician %q: buyout and trailing MD amounts cannot be negative", p.ID)
			}
		}
	}
	return nil
}

// CreateExampleConfiguration creates an example configuration file
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	roster := []domain.Physician{
		{
			ID:            "js",
			Name:          "JS",
			Employment:    domain.Partner{},
			WeeksVacation: 8,
			Tags:          []string{"prcs-director"},
		},
		{
			ID:               "mc",
			Name:             "MC",
			Employment:       domain.EmployeeToPartner{EmployeePortionOfYear: decimal.NewFromFloat(0.3)},
			Salary:           decimal.NewFromInt(300000),
			WeeksVacation:    6,
			ReceivesBenefits: true,
		},
		{
			ID:               "hw",
			Name:             "HW",
			Employment:       domain.Employee{},
			Salary:           decimal.NewFromInt(275000),
			WeeksVacation:    6,
			ReceivesBenefits: true,
			ReceivesBonuses:  true,
			BonusAmount:      decimal.NewFromInt(15000),
		},
		{
			ID:         "gg",
			Name:       "GG",
			Employment: domain.PartnerToRetire{PartnerPortionOfYear: decimal.NewFromFloat(0.5), BuyoutCost: decimal.NewFromInt(50000), TrailingSharedMDAmount: decimal.NewFromInt(8000)},
		},
	}

	base := domain.Projection{
		IncomeGrowthPct:               decimal.NewFromFloat(3.7),
		NonEmploymentCostsGrowthPct:   decimal.NewFromFloat(3.2),
		NonMDEmploymentCostsGrowthPct: decimal.NewFromFloat(3),
		MiscEmploymentCostsGrowthPct:  decimal.NewFromFloat(2.5),
	}
	conservative := base
	conservative.IncomeGrowthPct = decimal.NewFromFloat(1.5)
	_ = conservative.SetFixed(domain.FieldLocumCosts, decimal.NewFromInt(150000))

	return &domain.Configuration{
		Practice: "Example Practice",
		Rules:    domain.DefaultPracticeRules(),
		History: []domain.YearRow{
			{Year: 2023, TherapyIncome: decimal.NewFromInt(2850000), NonEmploymentCosts: decimal.NewFromInt(520000), EmployeePayroll: decimal.NewFromInt(390000)},
			{Year: 2024, TherapyIncome: decimal.NewFromInt(2960000), NonEmploymentCosts: decimal.NewFromInt(535000), EmployeePayroll: decimal.NewFromInt(402000)},
		},
		Scenarios: []domain.Scenario{
			{
				Name:            "Baseline Growth",
				DataMode:        "2024",
				Projection:      base,
				ProjectionYears: 5,
				Roster:          roster,
			},
			{
				Name:     "Conservative",
				DataMode: domain.DataModeCustom,
				CustomBaseline: &domain.Baseline{
					Year:                 2024,
					TherapyIncome:        decimal.NewFromInt(2900000),
					NonEmploymentCosts:   decimal.NewFromInt(540000),
					NonMDEmploymentCosts: decimal.NewFromInt(410000),
					MiscEmploymentCosts:  decimal.NewFromInt(30000),
				},
				Projection:      conservative,
				ProjectionYears: 5,
				Roster:          domain.CloneRoster(roster),
			},
		},
	}
}

// exampleTimestamp is used in generated file headers
func exampleTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// WriteExampleConfiguration writes the example configuration as YAML
func (ip *InputParser) WriteExampleConfiguration(filename string) error {
	data, err := yaml.Marshal(ip.CreateExampleConfiguration())
	if err != nil {
		return fmt.Errorf("failed to encode example configuration: %w", err)
	}
	header := fmt.Sprintf("# Example practice configuration, generated %s\n", exampleTimestamp())
	if err := os.WriteFile(filename, append([]byte(header), data...), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}
