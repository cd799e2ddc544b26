package calculation

import (
	"fmt"

	"github.com/practicecomp/compensation-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// CalculateYearCompensation computes the practice-level pool and every
// person's breakdown for one resolved FutureYear. It reads MD hours
// percentages from the roster as stored; run EnsureMedicalDirectorHours
// first so incomplete shares get the proportional split.
func CalculateYearCompensation(fy domain.FutureYear, rules domain.PracticeRules) (domain.YearCompensation, error) {
	resolved, err := ResolveRoster(fy.Physicians)
	if err != nil {
		return domain.YearCompensation{}, fmt.Errorf("year %d: %w", fy.Year, err)
	}
	taxCalc, err := NewPayrollTaxCalculator(rules.PayrollTax, fy.Year)
	if err != nil {
		return domain.YearCompensation{}, fmt.Errorf("year %d: %w", fy.Year, err)
	}

	yc := domain.YearCompensation{
		Year:                 fy.Year,
		TherapyIncome:        fy.TherapyIncome.Value,
		ConsultingFee:        fy.ConsultingServicesAgreement.Value,
		NonEmploymentCosts:   fy.NonEmploymentCosts.Value,
		NonMDEmploymentCosts: fy.NonMDEmploymentCosts.Value,
		MiscEmploymentCosts:  fy.MiscEmploymentCosts.Value,
		LocumCosts:           fy.LocumCosts.Value,
		EmployeeCosts:        decimal.Zero,
		PayrollTaxTotal:      decimal.Zero,
		BuyoutCosts:          decimal.Zero,
		SharedMDPay:          decimal.Zero,
		PRCSPay:              decimal.Zero,
		TotalPartnerPortion:  TotalPartnerPortion(resolved),
	}

	// Income
	if yc.TotalPartnerPortion.IsPositive() {
		yc.SharedMDPay = fy.MedicalDirectorHours.Value
	}
	director, hasDirector := ResolvePRCSDirector(fy.Physicians, fy.PRCSDirectorPhysicianID, rules.PRCSDirectorTag)
	if hasDirector {
		yc.PRCSPay = fy.PRCSMedicalDirectorHours.Value
		yc.PRCSDirectorID = director.ID
	}
	yc.GrossIncome = yc.TherapyIncome.Add(yc.SharedMDPay).Add(yc.PRCSPay).Add(yc.ConsultingFee)

	// Employee side and retirements
	people := make([]domain.PersonCompensation, len(resolved))
	for i, r := range resolved {
		pc, err := employeeSide(r, fy.Year, rules, taxCalc)
		if err != nil {
			return domain.YearCompensation{}, fmt.Errorf("year %d: %w", fy.Year, err)
		}
		yc.EmployeeCosts = yc.EmployeeCosts.
			Add(pc.W2Wages).
			Add(pc.PayrollTaxes.Total).
			Add(pc.Benefits).
			Add(pc.Bonus)
		yc.PayrollTaxTotal = yc.PayrollTaxTotal.Add(pc.PayrollTaxes.Total)
		yc.BuyoutCosts = yc.BuyoutCosts.Add(pc.Buyout)
		people[i] = pc
	}

	yc.NetPartnerPool = yc.GrossIncome.
		Sub(yc.NonEmploymentCosts).
		Sub(yc.NonMDEmploymentCosts).
		Sub(yc.MiscEmploymentCosts).
		Sub(yc.LocumCosts).
		Sub(yc.EmployeeCosts).
		Sub(yc.BuyoutCosts)

	// Directed streams come off the top; the rest is weighted by partner portion
	directed := yc.PRCSPay
	shares := MedicalDirectorShares(resolved, yc.SharedMDPay)
	for i, r := range resolved {
		if share, ok := shares[r.ID]; ok {
			people[i].MDSharePercent = r.MedicalDirectorHoursPercentage
			people[i].MDShare = share
			directed = directed.Add(share)
		}
		if hasDirector && r.ID == director.ID {
			people[i].PRCSShare = yc.PRCSPay
		}
	}
	yc.AllocablePool = yc.NetPartnerPool.Sub(directed)

	for i, r := range resolved {
		pc := &people[i]
		if yc.TotalPartnerPortion.IsPositive() && r.Portions.Partner.IsPositive() {
			pc.PartnerWeight = r.Portions.Partner.Div(yc.TotalPartnerPortion)
			pc.BaseShare = yc.AllocablePool.Mul(pc.PartnerWeight)
		}
		pc.PartnerCompensation = pc.BaseShare.Add(pc.MDShare).Add(pc.PRCSShare)
		pc.TotalDisclosed = pc.PartnerCompensation.
			Add(pc.W2Wages).
			Add(pc.Bonus).
			Add(pc.Buyout).
			Add(pc.TrailingSharedMD)
	}
	yc.People = people
	return yc, nil
}

// employeeSide fills the W-2, tax, benefit, bonus and retirement figures
func employeeSide(r ResolvedPhysician, year int, rules domain.PracticeRules, taxCalc *PayrollTaxCalculator) (domain.PersonCompensation, error) {
	pc := domain.PersonCompensation{
		PhysicianID:         r.ID,
		Name:                r.Name,
		Type:                r.Type(),
		EmployeePortion:     r.Portions.Employee,
		PartnerPortion:      r.Portions.Partner,
		PartnerWeight:       decimal.Zero,
		BaseShare:           decimal.Zero,
		MDSharePercent:      decimal.Zero,
		MDShare:             decimal.Zero,
		PRCSShare:           decimal.Zero,
		W2Wages:             decimal.Zero,
		Benefits:            decimal.Zero,
		Bonus:               decimal.Zero,
		Buyout:              decimal.Zero,
		TrailingSharedMD:    decimal.Zero,
		PartnerCompensation: decimal.Zero,
		TotalDisclosed:      decimal.Zero,
	}
	pc.PayrollTaxes = taxCalc.Calculate(decimal.Zero)

	if r.Portions.Employee.IsPositive() {
		pc.W2Wages = r.Salary.Mul(r.Portions.Employee)
		pc.W2Method = domain.W2Proportional
		if rules.Payroll != nil && r.Type() == domain.TypeEmployeeToPartner {
			wages, err := DelayedW2(*rules.Payroll, r.Salary, EmployeeThrough(r.Physician, year), year)
			if err != nil {
				return pc, fmt.Errorf("physician %q: %w", r.ID, err)
			}
			pc.W2Wages = wages
			pc.W2Method = domain.W2PayPeriod
		}
		pc.PayrollTaxes = taxCalc.Calculate(pc.W2Wages)
		if r.ReceivesBenefits {
			pc.Benefits = rules.BenefitsAnnualCost.Mul(r.Portions.Employee)
		}
		if r.ReceivesBonuses {
			pc.Bonus = r.BonusAmount
		}
	}

	if e, ok := r.Employment.(domain.PartnerToRetire); ok {
		pc.Buyout = e.BuyoutCost
		pc.TrailingSharedMD = e.TrailingSharedMDAmount
	}
	return pc, nil
}
