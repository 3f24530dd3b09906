package main

import (
	"fmt"
	"math"
	"strings"
)

// AnnuityKind selects how the premium is paid
type AnnuityKind string

const (
	AnnuityDeferred  AnnuityKind = "deferred"  // annual contributions over a period
	AnnuityImmediate AnnuityKind = "immediate" // single lump sum
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Monthly payout per HK$1,000,000 of premium when payouts start at 60.
// Each year of deferral past 60 adds 5%.
const (
	annuityBaseMale    = 5100
	annuityBaseFemale  = 4700
	annuityBaseAge     = 60
	annuityDeferralPct = 5
	annuityPremiumUnit = 1_000_000
)

// AnnuityData is a life annuity paying a guaranteed monthly amount from its start age
type AnnuityData struct {
	Kind               AnnuityKind `yaml:"kind" json:"kind"`
	Gender             Gender      `yaml:"gender" json:"gender"`
	AnnualContribution float64     `yaml:"annual_contribution" json:"annualContribution"`
	ContributionPeriod int         `yaml:"contribution_period" json:"contributionPeriod"` // years
	ContributionAmount float64     `yaml:"contribution_amount" json:"contributionAmount"` // lump sum
	PurchaseAge        int         `yaml:"purchase_age" json:"purchaseAge"`
	AnnuityStartAge    int         `yaml:"annuity_start_age" json:"annuityStartAge"`
	LifeExpectancy     int         `yaml:"life_expectancy" json:"lifeExpectancy"`
}

// DefaultAnnuity returns the defaults for a new annuity product
func DefaultAnnuity() AnnuityData {
	return AnnuityData{
		Kind:               AnnuityDeferred,
		Gender:             GenderMale,
		AnnualContribution: 100000,
		ContributionPeriod: 5,
		ContributionAmount: 1000000,
		PurchaseAge:        55,
		AnnuityStartAge:    65,
		LifeExpectancy:     85,
	}
}

func (d AnnuityData) SubType() SubType { return SubTypeAnnuity }

func (d AnnuityData) Bucket() AllocationBucket { return BucketOther }

func (d AnnuityData) IncomeCategory() IncomeCategory { return IncomeAnnuity }

// Premium is the total premium paid into the annuity
func (d AnnuityData) Premium() float64 {
	if d.Kind == AnnuityImmediate {
		return d.ContributionAmount
	}
	return d.AnnualContribution * float64(d.ContributionPeriod)
}

func (d AnnuityData) basePayout() float64 {
	if d.Gender == GenderFemale {
		return annuityBaseFemale
	}
	return annuityBaseMale
}

// MonthlyPayout is the guaranteed monthly payment once the annuity starts
func (d AnnuityData) MonthlyPayout() float64 {
	deferral := math.Pow(1+annuityDeferralPct/100.0, float64(d.AnnuityStartAge-annuityBaseAge))
	return d.Premium() / annuityPremiumUnit * d.basePayout() * deferral
}

// payoutYears is the number of years paid until life expectancy, never negative
func (d AnnuityData) payoutYears() int {
	return max(0, d.LifeExpectancy-d.AnnuityStartAge)
}

// TotalPayout is the sum of payments up to life expectancy
func (d AnnuityData) TotalPayout() float64 {
	return d.MonthlyPayout() * 12 * float64(d.payoutYears())
}

// IRR is the annualised return of total payout over premium, as a fraction.
// Returns 0 when either side is empty or there are no payout years.
func (d AnnuityData) IRR() float64 {
	premium, total, years := d.Premium(), d.TotalPayout(), d.payoutYears()
	if premium <= 0 || total <= 0 || years == 0 {
		return 0
	}
	irr := math.Pow(total/premium, 1/float64(years)) - 1
	if math.IsNaN(irr) || math.IsInf(irr, 0) {
		return 0
	}
	return irr
}

// ValueAtAge is the premium paid so far while deferred, and 0 once annuitised
func (d AnnuityData) ValueAtAge(age int) float64 {
	if age < d.PurchaseAge || age >= d.AnnuityStartAge {
		return 0
	}
	if d.Kind == AnnuityImmediate {
		return d.ContributionAmount
	}
	paidYears := min(age-d.PurchaseAge+1, d.ContributionPeriod)
	return d.AnnualContribution * float64(paidYears)
}

func (d AnnuityData) IncomeAtAge(age int) float64 {
	if age < d.AnnuityStartAge {
		return 0
	}
	return d.MonthlyPayout()
}

func (d AnnuityData) LiabilityAtAge(int) float64 { return 0 }

func (d AnnuityData) Summary() string {
	var b strings.Builder
	if d.Kind == AnnuityImmediate {
		fmt.Fprintf(&b, "Immediate annuity: %s lump sum at age %d\n", FormatHKD(d.ContributionAmount), d.PurchaseAge)
	} else {
		fmt.Fprintf(&b, "Deferred annuity: %s/year for %d years from age %d\n",
			FormatHKD(d.AnnualContribution), d.ContributionPeriod, d.PurchaseAge)
	}
	fmt.Fprintf(&b, "Monthly payout from age %d: %s\n", d.AnnuityStartAge, FormatHKD(d.MonthlyPayout()))
	fmt.Fprintf(&b, "Total payout to age %d: %s (IRR %.2f%%)", d.LifeExpectancy, FormatHKD(d.TotalPayout()), d.IRR()*100)
	return b.String()
}

func (d AnnuityData) Validate() error {
	err := firstError(
		validateAnnuityKind(d.Kind),
		validateGender(d.Gender),
		validateMoney(d.AnnualContribution, "annualContribution"),
		validateCount(d.ContributionPeriod, "contributionPeriod"),
		validateMoney(d.ContributionAmount, "contributionAmount"),
		validateAge(d.PurchaseAge, "purchaseAge"),
		validateAge(d.AnnuityStartAge, "annuityStartAge"),
		validateAge(d.LifeExpectancy, "lifeExpectancy"),
	)
	if err != nil {
		return err
	}
	if d.AnnuityStartAge < d.PurchaseAge {
		return ValidationError{Field: "annuityStartAge", Message: "annuity cannot start before it is purchased"}
	}
	return nil
}

func validateAnnuityKind(k AnnuityKind) error {
	if k != AnnuityDeferred && k != AnnuityImmediate {
		return ValidationError{Field: "kind", Message: fmt.Sprintf("unknown annuity kind %q", k)}
	}
	return nil
}

func validateGender(g Gender) error {
	if g != GenderMale && g != GenderFemale {
		return ValidationError{Field: "gender", Message: fmt.Sprintf("unknown gender %q", g)}
	}
	return nil
}

func (d AnnuityData) Edit(field, raw string) (ProductData, error) {
	var err error
	switch field {
	case "kind":
		d.Kind, err = parseChoice(field, raw, AnnuityDeferred, AnnuityImmediate)
	case "gender":
		d.Gender, err = parseChoice(field, raw, GenderMale, GenderFemale)
	case "annualContribution":
		d.AnnualContribution, err = ParseNumber(field, raw)
	case "contributionPeriod":
		d.ContributionPeriod, err = ParseCount(field, raw)
	case "contributionAmount":
		d.ContributionAmount, err = ParseNumber(field, raw)
	case "purchaseAge":
		d.PurchaseAge, err = ParseAge(field, raw)
	case "annuityStartAge":
		d.AnnuityStartAge, err = ParseAge(field, raw)
	case "lifeExpectancy":
		d.LifeExpectancy, err = ParseAge(field, raw)
	default:
		return nil, fmt.Errorf("%w: %s has no field %q", ErrUnknownField, d.SubType(), field)
	}
	if err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d AnnuityData) Fields() []FieldSpec {
	fields := []FieldSpec{
		{Name: "kind", Label: "Annuity type", Value: string(d.Kind), Options: stringOptions(AnnuityDeferred, AnnuityImmediate)},
		{Name: "gender", Label: "Gender", Value: string(d.Gender), Options: stringOptions(GenderMale, GenderFemale)},
	}
	if d.Kind == AnnuityImmediate {
		fields = append(fields,
			FieldSpec{Name: "contributionAmount", Label: "Lump sum premium (HK$)", Value: formatFieldFloat(d.ContributionAmount)})
	} else {
		fields = append(fields,
			FieldSpec{Name: "annualContribution", Label: "Annual contribution (HK$)", Value: formatFieldFloat(d.AnnualContribution)},
			FieldSpec{Name: "contributionPeriod", Label: "Contribution period (years)", Value: formatFieldInt(d.ContributionPeriod)})
	}
	return append(fields,
		FieldSpec{Name: "purchaseAge", Label: "Purchase age", Value: formatFieldInt(d.PurchaseAge)},
		FieldSpec{Name: "annuityStartAge", Label: "Annuity start age", Value: formatFieldInt(d.AnnuityStartAge)},
		FieldSpec{Name: "lifeExpectancy", Label: "Life expectancy", Value: formatFieldInt(d.LifeExpectancy)},
	)
}
