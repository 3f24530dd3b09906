package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParsePlan_PercentOnlyOnRates(t *testing.T) {
	plan := `
client_name: "100% Trust Ltd"
recommendations: |
  Target: 15% savings rate
  20% of income to savings
assumptions:
  inflation_rate: 2.5%
products:
  - sub_type: bank
    data:
      kind: saving
      interest_rate: 0.5%
  - sub_type: own_living
    data:
      down_payment: 30 %
`
	s, err := ParsePlan([]byte(plan))
	if err != nil {
		t.Fatal(err)
	}
	if s.ClientName != "100% Trust Ltd" {
		t.Errorf("client name = %q", s.ClientName)
	}
	if want := "Target: 15% savings rate\n20% of income to savings\n"; s.Recommendations != want {
		t.Errorf("recommendations = %q, want %q", s.Recommendations, want)
	}
	if s.Assumptions.InflationRate != 2.5 {
		t.Errorf("inflation = %v, want 2.5", s.Assumptions.InflationRate)
	}
	if got := s.Products[0].Data.(BankData).InterestRate; got != 0.5 {
		t.Errorf("interest rate = %v, want 0.5", got)
	}
	if got := s.Products[1].Data.(OwnLivingData).DownPayment; got != 30 {
		t.Errorf("down payment = %v, want 30", got)
	}

	// a percent sign on a non-rate field is not silently dropped
	if _, err := ParsePlan([]byte("assumptions:\n  retirement_age: 65%\n")); err == nil {
		t.Error("percent on an age should be rejected")
	}
}

func TestLoadExamplePlan(t *testing.T) {
	s, err := LoadExamplePlan()
	if err != nil {
		t.Fatalf("example plan should parse: %v", err)
	}
	if s.ClientName == "" {
		t.Error("example plan should name a client")
	}
	if s.Assumptions.InflationRate != 2 {
		t.Errorf("inflation = %v, want 2", s.Assumptions.InflationRate)
	}

	seen := map[SubType]bool{}
	for _, p := range s.Products {
		seen[p.SubType()] = true
		if p.ID == "" || p.Summary == "" {
			t.Errorf("%s decoded without id or summary", p.SubType())
		}
	}
	for _, st := range AllSubTypes {
		if !seen[st] {
			t.Errorf("example plan has no %s product", st)
		}
	}
	for _, e := range s.Expenses {
		if e.ID == "" {
			t.Error("expense phases should be given ids")
		}
	}
}

func TestParsePlan_DefaultsAndPercent(t *testing.T) {
	plan := `
client_name: Test
products:
  - sub_type: funds
    data:
      expected_return: 8%
  - sub_type: rental
`
	s, err := ParsePlan([]byte(plan))
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(s.Products))
	}
	fund := s.Products[0].Data.(FundsData)
	if fund.ExpectedReturn != 8 {
		t.Errorf("expected return = %v, want 8", fund.ExpectedReturn)
	}
	if fund.InvestmentAmount != DefaultFunds().InvestmentAmount {
		t.Errorf("missing investment amount should keep the default, got %v", fund.InvestmentAmount)
	}
	if s.Products[1].Data != DefaultRental() {
		t.Error("product without data should take every default")
	}
	if s.Assumptions != DefaultAssumptions() {
		t.Errorf("assumptions should default, got %+v", s.Assumptions)
	}
}

func TestParsePlan_Rejects(t *testing.T) {
	tests := []struct {
		desc string
		plan string
		want error
	}{
		{"unknown subtype", "products:\n  - sub_type: crypto\n", ErrUnknownSubType},
		{"inverted phase", "expenses:\n  - from_age: 70\n    to_age: 60\n    monthly_expenses: 100\n", nil},
		{"bad rate", "products:\n  - sub_type: bank\n    data:\n      interest_rate: 150\n", nil},
	}
	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := ParsePlan([]byte(tc.plan))
			if err == nil {
				t.Fatal("plan should be rejected")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestSaveAndLoadPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	s := sampleSession().
		WithClientName("Chan 50% Holdings").
		WithRecommendations("Target: 15% savings rate\nIncrease MPF voluntary contributions to 10%")

	if err := SavePlan(s, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(raw), "# Financial Plan") {
		t.Error("saved plan should start with the header comment")
	}

	loaded, err := LoadPlan(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want, _ := EncodeSession(s)
	got, _ := EncodeSession(loaded)
	if string(want) != string(got) {
		t.Errorf("plan round trip changed the session\nwant %s\ngot  %s", want, got)
	}
}

func TestLoadPlan_MissingFile(t *testing.T) {
	_, err := LoadPlan(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
