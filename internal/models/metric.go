package models

// MetricFilter scopes a registry metric request. Unit, segment and class are
// wildcard filters: absent, empty or the literal "All"/"Todas"/"Todos" mean
// "no filter applied".
type MetricFilter struct {
	Metric  string `form:"metric" binding:"required"`
	Unit    string `form:"unidade"`
	Segment string `form:"segmento"`
	Class   string `form:"turma"`
}

// MetricRow is the uniform per-group record every registry metric produces.
// ID is deterministic, derived from the grouping dimensions, so identical
// requests against an unchanged store are byte-identical.
type MetricRow struct {
	ID           string  `json:"id"`
	UnitID       string  `json:"unitId"`
	UnitLabel    string  `json:"unitLabel"`
	SegmentID    string  `json:"segmentId"`
	SegmentLabel string  `json:"segmentLabel"`
	ClassID      string  `json:"classId"`
	ClassLabel   string  `json:"classLabel"`
	SubjectID    string  `json:"subjectId"`
	SubjectLabel string  `json:"subjectLabel"`
	Year         int     `json:"year"`
	Value        float64 `json:"value"`
}

// Student status values as stored in the students table.
const (
	StudentStatusActive     = "active"
	StudentStatusDelinquent = "delinquent"
	StudentStatusWithdrawn  = "withdrawn"
)

// Monthly snapshot metric types.
const (
	SnapshotNPS         = "nps"
	SnapshotHealthScore = "health_score"
)
