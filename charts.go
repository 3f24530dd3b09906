package main

// TrendPoint is one age on the net worth trend chart. Income and expenses are annualised.
type TrendPoint struct {
	Age           int     `json:"age"`
	NetWorth      float64 `json:"netWorth"`
	PassiveIncome float64 `json:"passiveIncome"`
	Expenses      float64 `json:"expenses"`
}

// TrendSeries converts projection rows into chart points
func TrendSeries(rows []ProjectionRow) []TrendPoint {
	points := make([]TrendPoint, len(rows))
	for i, r := range rows {
		points[i] = TrendPoint{
			Age:           r.Age,
			NetWorth:      r.NetWorth,
			PassiveIncome: r.PassiveIncome * 12,
			Expenses:      r.TotalExpenses * 12,
		}
	}
	return points
}

// AllocationSlice is one wedge of the allocation pie
type AllocationSlice struct {
	Bucket  AllocationBucket `json:"bucket"`
	Label   string           `json:"label"`
	Amount  float64          `json:"amount"`
	Percent float64          `json:"percent"`
}

var allocationOrder = []AllocationBucket{BucketProperty, BucketCash, BucketInvestments, BucketOther}

// AllocationSlices returns the four buckets at age in fixed order
func AllocationSlices(products []Product, age int, t Translator) []AllocationSlice {
	t = orEnglish(t)
	amounts := AllocationAmounts(products, age)
	pct := AllocationAt(products, age)
	out := make([]AllocationSlice, len(allocationOrder))
	for i, b := range allocationOrder {
		out[i] = AllocationSlice{
			Bucket:  b,
			Label:   t(string(b)),
			Amount:  amounts.Get(b),
			Percent: pct.Get(b),
		}
	}
	return out
}

// IncomeBar is one bar of the income-source chart
type IncomeBar struct {
	Category IncomeCategory `json:"category"`
	Label    string         `json:"label"`
	Monthly  float64        `json:"monthly"`
}

// IncomeBars labels the income sources at age
func IncomeBars(s PlanningSession, age int, t Translator) []IncomeBar {
	t = orEnglish(t)
	sources := IncomeSourcesAt(s, age)
	bars := make([]IncomeBar, len(sources))
	for i, src := range sources {
		bars[i] = IncomeBar{Category: src.Category, Label: t(string(src.Category)), Monthly: src.Monthly}
	}
	return bars
}

var tableColumns = []string{
	"age", "totalIncome", "totalExpenses", "netCashFlow", "totalAssets",
	"totalLiabilities", "netWorth", "cashReserve", "withdrawalRate", "outlivingRisk",
}

// TableHeaders returns the projection table column titles
func TableHeaders(t Translator) []string {
	t = orEnglish(t)
	headers := make([]string, len(tableColumns))
	for i, c := range tableColumns {
		headers[i] = t(c)
	}
	return headers
}

// TableRows formats projection rows for display, money in HKD
func TableRows(rows []ProjectionRow, t Translator) [][]string {
	t = orEnglish(t)
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			formatFieldInt(r.Age),
			FormatHKD(r.TotalIncome),
			FormatHKD(r.TotalExpenses),
			FormatHKD(r.NetCashFlow),
			FormatHKD(r.TotalAssets),
			FormatHKD(r.TotalLiabilities),
			FormatHKD(r.NetWorth),
			FormatMonths(r.CashReserve),
			FormatPercent(r.WithdrawalRate),
			t(string(r.OutlivingRisk)),
		}
	}
	return out
}
