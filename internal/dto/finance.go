package dto

// FinanceSummaryResponse is the finance page payload.
type FinanceSummaryResponse struct {
	KPIs            FinanceKPIs      `json:"kpis"`
	RevenueByMonth  []MonthlyRevenue `json:"revenueByMonth"`
	StatusBreakdown []StatusSlice    `json:"statusBreakdown"`
}

// FinanceKPIs carries the scalar financial indicators plus the satisfaction
// block sourced from monthly snapshots. Deltas are newest month minus the
// month before.
type FinanceKPIs struct {
	TotalRevenue     float64 `json:"totalRevenue"`
	Received         float64 `json:"received"`
	Pending          float64 `json:"pending"`
	DelinquencyRate  float64 `json:"delinquencyRate"`
	NPS              float64 `json:"nps"`
	NPSDelta         float64 `json:"npsDelta"`
	HealthScore      float64 `json:"healthScore"`
	HealthScoreDelta float64 `json:"healthScoreDelta"`
}

// MonthlyRevenue splits billing per reference month for the line chart.
type MonthlyRevenue struct {
	Month    string  `json:"month"`
	Billed   float64 `json:"billed"`
	Received float64 `json:"received"`
	Pending  float64 `json:"pending"`
}

// StatusSlice counts and sums invoices per payment status.
type StatusSlice struct {
	Status string  `json:"status"`
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}
