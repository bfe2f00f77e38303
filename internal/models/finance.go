package models

import (
	"database/sql"
	"time"
)

// Invoice payment status values.
const (
	InvoiceStatusPaid    = "paid"
	InvoiceStatusLate    = "late"
	InvoiceStatusPending = "pending"
)

// RevenueSummaryRow is the single-row billing aggregate.
type RevenueSummaryRow struct {
	TotalBilled   sql.NullFloat64 `db:"total_billed"`
	Received      sql.NullFloat64 `db:"received"`
	Pending       sql.NullFloat64 `db:"pending"`
	InvoiceCount  int             `db:"invoice_count"`
	LateInvoices  int             `db:"late_invoices"`
	BilledClients int             `db:"billed_clients"`
}

// MonthlyRevenueRow splits billing per reference month.
type MonthlyRevenueRow struct {
	ReferenceMonth time.Time       `db:"reference_month"`
	Billed         sql.NullFloat64 `db:"billed"`
	Received       sql.NullFloat64 `db:"received"`
	Pending        sql.NullFloat64 `db:"pending"`
}

// InvoiceStatusRow counts and sums invoices per payment status.
type InvoiceStatusRow struct {
	Status string          `db:"status"`
	Count  int             `db:"count"`
	Amount sql.NullFloat64 `db:"amount"`
}

// SnapshotRow is one monthly scalar snapshot (nps, health_score).
type SnapshotRow struct {
	ReferenceMonth time.Time `db:"reference_month"`
	Value          float64   `db:"value"`
}
