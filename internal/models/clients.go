package models

import "database/sql"

// ClientsKPIRow is the single-row headline aggregate for the clients page.
// Averages come back as SQL NULL when the school has no students, hence the
// nullable columns.
type ClientsKPIRow struct {
	TotalStudents      int             `db:"total_students"`
	ActiveStudents     int             `db:"active_students"`
	DelinquentStudents int             `db:"delinquent_students"`
	WithdrawnStudents  int             `db:"withdrawn_students"`
	ScholarshipCount   int             `db:"scholarship_count"`
	SiblingCount       int             `db:"sibling_count"`
	AverageAge         sql.NullFloat64 `db:"average_age"`
}

// SegmentOccupancyRow aggregates enrollment per segment.
type SegmentOccupancyRow struct {
	SegmentID    string `db:"segment_id"`
	SegmentLabel string `db:"segment_name"`
	Students     int    `db:"students"`
	Classes      int    `db:"classes"`
}

// DistributionRow is one slice of a categorical breakdown (gender, city,
// race, income bracket, age band).
type DistributionRow struct {
	Label string `db:"label"`
	Count int    `db:"count"`
}
