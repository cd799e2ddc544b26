package calculation

import (
	"fmt"
	"strings"

	"github.com/practicecomp/compensation-engine/internal/domain"
	money "github.com/practicecomp/compensation-engine/pkg/decimal"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// AllocateMedicalDirectorHours returns a new roster with each entry's MD hours
// percentage set to its partner portion over the total partner portion.
// Percentages sum to 100 whenever any partner portion is positive; otherwise
// every entry is 0% and flagged off. The input roster is not modified.
func AllocateMedicalDirectorHours(roster []domain.Physician) ([]domain.Physician, error) {
	resolved, err := ResolveRoster(roster)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate medical director hours: %w", err)
	}

	total := TotalPartnerPortion(resolved)
	out := domain.CloneRoster(roster)
	for i, r := range resolved {
		share := decimal.Zero
		if total.IsPositive() {
			share = r.Portions.Partner.Div(total).Mul(hundred)
		}
		out[i].MedicalDirectorHoursPercentage = share
		out[i].HasMedicalDirectorHours = share.IsPositive()
	}
	return out, nil
}

// StoredSharesUsable reports whether the MD hours percentages already on a
// roster can be paid as given: some partner portion is positive, and the
// flagged active partners sum to 100 within the percent tolerance.
func StoredSharesUsable(resolved []ResolvedPhysician) bool {
	sum, flagged := decimal.Zero, false
	for _, r := range ActivePartners(resolved) {
		if r.HasMedicalDirectorHours {
			flagged = true
			sum = sum.Add(r.MedicalDirectorHoursPercentage)
		}
	}
	return flagged && money.WithinTolerance(sum, hundred, money.PercentTolerance)
}

// EnsureMedicalDirectorHours keeps usable stored shares and otherwise
// allocates proportionally. reallocated reports which happened.
func EnsureMedicalDirectorHours(roster []domain.Physician) (out []domain.Physician, reallocated bool, err error) {
	resolved, err := ResolveRoster(roster)
	if err != nil {
		return nil, false, fmt.Errorf("failed to allocate medical director hours: %w", err)
	}
	if StoredSharesUsable(resolved) {
		return domain.CloneRoster(roster), false, nil
	}
	out, err = AllocateMedicalDirectorHours(roster)
	return out, true, err
}

// MedicalDirectorShares splits a shared MD hours pool into dollars by the
// stored percentages of flagged active partners, keyed by physician id.
func MedicalDirectorShares(resolved []ResolvedPhysician, pool decimal.Decimal) map[string]decimal.Decimal {
	shares := make(map[string]decimal.Decimal, len(resolved))
	for _, r := range ActivePartners(resolved) {
		if r.HasMedicalDirectorHours {
			shares[r.ID] = pool.Mul(r.MedicalDirectorHoursPercentage).Div(hundred)
		}
	}
	return shares
}

// prcsEligible reports whether p is partner-like and shares in the pool this year
func prcsEligible(p domain.Physician) bool {
	switch p.Type() {
	case domain.TypePartner, domain.TypeEmployeeToPartner, domain.TypePartnerToRetire:
	default:
		return false
	}
	portions, err := ResolvePortions(p)
	if err != nil {
		return false
	}
	return portions.Partner.IsPositive()
}

func hasTag(p domain.Physician, tag string) bool {
	if strings.EqualFold(p.ID, tag) || strings.EqualFold(p.Name, tag) {
		return true
	}
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// ResolvePRCSDirector picks the physician who receives the PRCS MD stream.
//
// A designated id is honoured when it names an eligible entry. An unset
// designation (nil), or one naming nobody eligible, falls back to the
// selection rule: the first entry carrying tag whose type is partner,
// employeeToPartner or partnerToRetire with a positive partner portion.
// A designation of "" means the stream is paid to nobody.
func ResolvePRCSDirector(roster []domain.Physician, designated *string, tag string) (domain.Physician, bool) {
	if designated != nil {
		if *designated == "" {
			return domain.Physician{}, false
		}
		for _, p := range roster {
			if p.ID == *designated && prcsEligible(p) {
				return p, true
			}
		}
	}

	if tag == "" {
		return domain.Physician{}, false
	}
	for _, p := range roster {
		if hasTag(p, tag) && prcsEligible(p) {
			return p, true
		}
	}
	return domain.Physician{}, false
}
