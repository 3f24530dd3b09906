package main

import (
	"fmt"
	"math"
	"strings"
)

// BankKind selects between a regular saving account and a fixed deposit
type BankKind string

const (
	BankSaving       BankKind = "saving"
	BankFixedDeposit BankKind = "fixed_deposit"
)

// BankData is a bank deposit product. Saving accounts use the existing amount,
// monthly contribution and period; fixed deposits use contribution and lock-in.
type BankData struct {
	Kind                BankKind `yaml:"kind" json:"kind"`
	StartAge            int      `yaml:"start_age" json:"startAge"`
	ExistingAmount      float64  `yaml:"existing_amount" json:"existingAmount"`
	MonthlyContribution float64  `yaml:"monthly_contribution" json:"monthlyContribution"`
	InterestRate        float64  `yaml:"interest_rate" json:"interestRate"` // %/yr
	PeriodYears         int      `yaml:"period_years" json:"periodYears"`
	Contribution        float64  `yaml:"contribution" json:"contribution"`   // fixed deposit principal
	LockInPeriod        int      `yaml:"lock_in_period" json:"lockInPeriod"` // months
}

// DefaultBank returns the defaults for a new bank product
func DefaultBank() BankData {
	return BankData{
		Kind:                BankSaving,
		StartAge:            30,
		ExistingAmount:      50000,
		MonthlyContribution: 1000,
		InterestRate:        1,
		PeriodYears:         10,
		Contribution:        50000,
		LockInPeriod:        12,
	}
}

func (d BankData) SubType() SubType { return SubTypeBank }

func (d BankData) Bucket() AllocationBucket { return BucketCash }

func (d BankData) IncomeCategory() IncomeCategory { return IncomeOther }

func (d BankData) ValueAtAge(age int) float64 {
	if age < d.StartAge {
		return 0
	}
	if d.Kind == BankFixedDeposit {
		months := min((age-d.StartAge)*12, d.LockInPeriod)
		return compound(d.Contribution, d.InterestRate, float64(months)/12)
	}
	years := float64(min(age-d.StartAge, d.PeriodYears))
	total := d.ExistingAmount + d.MonthlyContribution*12*years
	return total + total*d.InterestRate/100*years
}

func (d BankData) IncomeAtAge(int) float64 { return 0 }

func (d BankData) LiabilityAtAge(int) float64 { return 0 }

// MaturityAge is the age the deposit stops accruing
func (d BankData) MaturityAge() int {
	if d.Kind == BankFixedDeposit {
		return d.StartAge + int(math.Ceil(float64(d.LockInPeriod)/12))
	}
	return d.StartAge + d.PeriodYears
}

func (d BankData) Summary() string {
	var b strings.Builder
	if d.Kind == BankFixedDeposit {
		fmt.Fprintf(&b, "Fixed deposit from age %d: %s at %.2f%% p.a., locked for %d months\n",
			d.StartAge, FormatHKD(d.Contribution), d.InterestRate, d.LockInPeriod)
	} else {
		fmt.Fprintf(&b, "Saving account from age %d: %s plus %s/month at %.2f%% p.a. for %d years\n",
			d.StartAge, FormatHKD(d.ExistingAmount), FormatHKD(d.MonthlyContribution), d.InterestRate, d.PeriodYears)
	}
	fmt.Fprintf(&b, "Value at maturity (age %d): %s", d.MaturityAge(), FormatHKD(d.ValueAtAge(d.MaturityAge())))
	return b.String()
}

func (d BankData) Validate() error {
	return firstError(
		validateBankKind(d.Kind),
		validateAge(d.StartAge, "startAge"),
		validateMoney(d.ExistingAmount, "existingAmount"),
		validateMoney(d.MonthlyContribution, "monthlyContribution"),
		validateRate(d.InterestRate, "interestRate"),
		validateCount(d.PeriodYears, "periodYears"),
		validateMoney(d.Contribution, "contribution"),
		validateCount(d.LockInPeriod, "lockInPeriod"),
	)
}

func validateBankKind(k BankKind) error {
	if k != BankSaving && k != BankFixedDeposit {
		return ValidationError{Field: "kind", Message: fmt.Sprintf("unknown bank product kind %q", k)}
	}
	return nil
}

func (d BankData) Edit(field, raw string) (ProductData, error) {
	var err error
	switch field {
	case "kind":
		d.Kind, err = parseChoice(field, raw, BankSaving, BankFixedDeposit)
	case "startAge":
		d.StartAge, err = ParseAge(field, raw)
	case "existingAmount":
		d.ExistingAmount, err = ParseNumber(field, raw)
	case "monthlyContribution":
		d.MonthlyContribution, err = ParseNumber(field, raw)
	case "interestRate":
		d.InterestRate, err = ParseNumber(field, raw)
	case "periodYears":
		d.PeriodYears, err = ParseCount(field, raw)
	case "contribution":
		d.Contribution, err = ParseNumber(field, raw)
	case "lockInPeriod":
		d.LockInPeriod, err = ParseCount(field, raw)
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

func (d BankData) Fields() []FieldSpec {
	fields := []FieldSpec{
		{Name: "kind", Label: "Product kind", Value: string(d.Kind), Options: stringOptions(BankSaving, BankFixedDeposit)},
		{Name: "startAge", Label: "Start age", Value: formatFieldInt(d.StartAge)},
		{Name: "interestRate", Label: "Interest rate (%)", Value: formatFieldFloat(d.InterestRate)},
	}
	if d.Kind == BankFixedDeposit {
		return append(fields,
			FieldSpec{Name: "contribution", Label: "Deposit amount (HK$)", Value: formatFieldFloat(d.Contribution)},
			FieldSpec{Name: "lockInPeriod", Label: "Lock-in period (months)", Value: formatFieldInt(d.LockInPeriod)},
		)
	}
	return append(fields,
		FieldSpec{Name: "existingAmount", Label: "Existing amount (HK$)", Value: formatFieldFloat(d.ExistingAmount)},
		FieldSpec{Name: "monthlyContribution", Label: "Monthly contribution (HK$)", Value: formatFieldFloat(d.MonthlyContribution)},
		FieldSpec{Name: "periodYears", Label: "Saving period (years)", Value: formatFieldInt(d.PeriodYears)},
	)
}
