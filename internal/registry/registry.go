// Package registry maps metric identifiers to their SQL template, parameter
// binder and row transform. The set is closed: no dynamic registration, no
// user-supplied SQL. An unknown metric is a lookup miss, decided before any
// query is issued.
package registry

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/painelescolar/bi-api/internal/aggregate"
	"github.com/painelescolar/bi-api/internal/models"
)

// Spec describes one metric: the parameterized query, the binder that turns a
// filter into positional args, and the transform that shapes one raw row into
// the uniform metric record.
type Spec struct {
	Query     string
	Bind      func(f models.MetricFilter) []interface{}
	Transform func(row map[string]interface{}) models.MetricRow
}

// Registry is the closed metric lookup table.
type Registry struct {
	specs map[string]Spec
}

const studentGroupQuery = `SELECT s.unit_id, s.unit_name, s.segment_id, s.segment_name, s.class_id, s.class_name,
        EXTRACT(YEAR FROM CURRENT_DATE)::int AS year,
        %s AS value
        FROM students s
        WHERE ($1::text IS NULL OR s.unit_id = $1)
          AND ($2::text IS NULL OR s.segment_id = $2)
          AND ($3::text IS NULL OR s.class_id = $3)
        GROUP BY s.unit_id, s.unit_name, s.segment_id, s.segment_name, s.class_id, s.class_name
        ORDER BY s.unit_id, s.segment_id, s.class_id`

const academicGroupQuery = `SELECT s.unit_id, s.unit_name, s.segment_id, s.segment_name, s.class_id, s.class_name,
        ar.subject_id, ar.subject_name, ar.school_year AS year,
        %s AS value
        FROM academic_records ar
        JOIN students s ON s.id = ar.student_id
        WHERE ($1::text IS NULL OR s.unit_id = $1)
          AND ($2::text IS NULL OR s.segment_id = $2)
          AND ($3::text IS NULL OR s.class_id = $3)
        GROUP BY s.unit_id, s.unit_name, s.segment_id, s.segment_name, s.class_id, s.class_name, ar.subject_id, ar.subject_name, ar.school_year
        ORDER BY s.unit_id, s.segment_id, s.class_id, ar.subject_id, ar.school_year`

const snapshotQuery = `SELECT metric_type, EXTRACT(YEAR FROM reference_month)::int AS year, value
        FROM monthly_snapshots
        WHERE metric_type = $1
        ORDER BY reference_month DESC
        LIMIT 1`

// New builds the registry. Occupancy is computed against the configured class
// capacity, bound as a query argument rather than interpolated.
func New(classCapacity int) *Registry {
	if classCapacity <= 0 {
		classCapacity = 40
	}

	specs := map[string]Spec{
		"total-students": {
			Query:     expand(studentGroupQuery, "COUNT(*)"),
			Bind:      bindStudentFilter,
			Transform: studentRow,
		},
		"scholarships": {
			Query:     expand(studentGroupQuery, "COUNT(*) FILTER (WHERE s.scholarship)"),
			Bind:      bindStudentFilter,
			Transform: studentRow,
		},
		"siblings-rate": {
			Query:     expand(studentGroupQuery, "100.0 * COUNT(*) FILTER (WHERE s.has_sibling) / NULLIF(COUNT(*), 0)"),
			Bind:      bindStudentFilter,
			Transform: studentRow,
		},
		"occupancy": {
			Query: expand(studentGroupQuery, "100.0 * COUNT(*) / $4"),
			Bind: func(f models.MetricFilter) []interface{} {
				return append(bindStudentFilter(f), classCapacity)
			},
			Transform: studentRow,
		},
		"dropout-rate": {
			Query:     expand(studentGroupQuery, "100.0 * COUNT(*) FILTER (WHERE s.status = 'withdrawn') / NULLIF(COUNT(*), 0)"),
			Bind:      bindStudentFilter,
			Transform: studentRow,
		},
		"average-grade": {
			Query:     expand(academicGroupQuery, "AVG(ar.final_grade)"),
			Bind:      bindStudentFilter,
			Transform: academicRow,
		},
		"attendance": {
			Query:     expand(academicGroupQuery, "AVG(ar.attendance_pct)"),
			Bind:      bindStudentFilter,
			Transform: academicRow,
		},
		"approval-rate": {
			Query:     expand(academicGroupQuery, "100.0 * COUNT(*) FILTER (WHERE ar.final_grade >= 6.0 AND ar.attendance_pct >= 75) / NULLIF(COUNT(*), 0)"),
			Bind:      bindStudentFilter,
			Transform: academicRow,
		},
		"nps": {
			Query:     snapshotQuery,
			Bind:      bindSnapshot(models.SnapshotNPS),
			Transform: snapshotRow,
		},
		"health-score": {
			Query:     snapshotQuery,
			Bind:      bindSnapshot(models.SnapshotHealthScore),
			Transform: snapshotRow,
		},
	}

	return &Registry{specs: specs}
}

// Lookup resolves a metric identifier.
func (r *Registry) Lookup(metric string) (Spec, bool) {
	spec, ok := r.specs[metric]
	return spec, ok
}

// Metrics lists the registered identifiers in stable order.
func (r *Registry) Metrics() []string {
	ids := make([]string, 0, len(r.specs))
	for id := range r.specs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Wildcard reports whether a filter value means "no filter applied". Such
// values are bound as SQL NULL, which the templates treat as a match-all via
// "$n IS NULL OR col = $n". Binding the literal instead would filter to
// nothing.
func Wildcard(value string) bool {
	switch strings.TrimSpace(value) {
	case "", "All", "Todas", "Todos":
		return true
	}
	return false
}

func nullable(value string) interface{} {
	if Wildcard(value) {
		return nil
	}
	return strings.TrimSpace(value)
}

func bindStudentFilter(f models.MetricFilter) []interface{} {
	return []interface{}{nullable(f.Unit), nullable(f.Segment), nullable(f.Class)}
}

func bindSnapshot(metricType string) func(models.MetricFilter) []interface{} {
	return func(models.MetricFilter) []interface{} {
		return []interface{}{metricType}
	}
}

func studentRow(row map[string]interface{}) models.MetricRow {
	m := models.MetricRow{
		UnitID:       text(row["unit_id"]),
		UnitLabel:    text(row["unit_name"]),
		SegmentID:    text(row["segment_id"]),
		SegmentLabel: text(row["segment_name"]),
		ClassID:      text(row["class_id"]),
		ClassLabel:   text(row["class_name"]),
		Year:         int(aggregate.Normalize(row["year"])),
		Value:        aggregate.Normalize(row["value"]),
	}
	m.ID = rowID(m)
	return m
}

func academicRow(row map[string]interface{}) models.MetricRow {
	m := studentRow(row)
	m.SubjectID = text(row["subject_id"])
	m.SubjectLabel = text(row["subject_name"])
	m.ID = rowID(m)
	return m
}

func snapshotRow(row map[string]interface{}) models.MetricRow {
	m := models.MetricRow{
		SubjectID: text(row["metric_type"]),
		Year:      int(aggregate.Normalize(row["year"])),
		Value:     aggregate.Normalize(row["value"]),
	}
	m.ID = rowID(m)
	return m
}

// rowID derives a stable identifier from the grouping dimensions so repeated
// requests yield byte-identical payloads and chart keys never churn.
func rowID(m models.MetricRow) string {
	return strings.Join([]string{m.UnitID, m.SegmentID, m.ClassID, m.SubjectID, strconv.Itoa(m.Year)}, "|")
}

func expand(template, value string) string {
	return fmt.Sprintf(template, value)
}

func text(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}
