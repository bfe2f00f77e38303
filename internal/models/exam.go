package models

import "database/sql"

// Exam subject area codes, in the order the dashboard charts them.
var ExamAreas = []string{"cn", "ch", "lc", "mt", "red"}

// ExamAreaLabels maps area codes to chart labels.
var ExamAreaLabels = map[string]string{
	"cn":  "Ciências da Natureza",
	"ch":  "Ciências Humanas",
	"lc":  "Linguagens e Códigos",
	"mt":  "Matemática",
	"red": "Redação",
}

// ExamBreakdownRequest scopes the city drilldown. UF is the two-letter state
// code; TpEscola follows the wildcard convention.
type ExamBreakdownRequest struct {
	UF       string `validate:"required,len=2,alpha"`
	TpEscola string `validate:"omitempty,max=40"`
}

// ExamStatRow is one pre-aggregated national-exam group: a (region,
// school-type) pair carrying, per subject area, the average score and the
// participant count. Raw per-candidate scores are not queryable; every
// cross-group average must be recombined from these (avg, count) pairs. An
// average of exactly 0 is the upstream sentinel for "no valid participants".
type ExamStatRow struct {
	UF       string          `db:"uf"`
	City     string          `db:"municipio"`
	TpEscola string          `db:"tp_escola"`
	MediaCN  sql.NullFloat64 `db:"media_cn"`
	QtdCN    sql.NullFloat64 `db:"qtd_cn"`
	MediaCH  sql.NullFloat64 `db:"media_ch"`
	QtdCH    sql.NullFloat64 `db:"qtd_ch"`
	MediaLC  sql.NullFloat64 `db:"media_lc"`
	QtdLC    sql.NullFloat64 `db:"qtd_lc"`
	MediaMT  sql.NullFloat64 `db:"media_mt"`
	QtdMT    sql.NullFloat64 `db:"qtd_mt"`
	MediaRed sql.NullFloat64 `db:"media_red"`
	QtdRed   sql.NullFloat64 `db:"qtd_red"`
}

// Area returns the (average, count) pair for one subject area.
func (r ExamStatRow) Area(code string) (avg, count float64) {
	switch code {
	case "cn":
		return nullToZero(r.MediaCN), nullToZero(r.QtdCN)
	case "ch":
		return nullToZero(r.MediaCH), nullToZero(r.QtdCH)
	case "lc":
		return nullToZero(r.MediaLC), nullToZero(r.QtdLC)
	case "mt":
		return nullToZero(r.MediaMT), nullToZero(r.QtdMT)
	case "red":
		return nullToZero(r.MediaRed), nullToZero(r.QtdRed)
	}
	return 0, 0
}

func nullToZero(v sql.NullFloat64) float64 {
	if !v.Valid {
		return 0
	}
	return v.Float64
}
