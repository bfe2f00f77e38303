package dto

// ClientsSummaryResponse is the clients page payload: headline KPIs plus the
// named arrays each chart consumes.
type ClientsSummaryResponse struct {
	KPIs               ClientsKPIs         `json:"kpis"`
	OccupancyBySegment []SegmentOccupancy  `json:"occupancyBySegment"`
	GenderData         []DistributionSlice `json:"genderData"`
	GeoData            []DistributionSlice `json:"geoData"`
	RaceData           []DistributionSlice `json:"raceData"`
	IncomeData         []DistributionSlice `json:"incomeData"`
	AgeData            []DistributionSlice `json:"ageData"`
}

// ClientsKPIs carries the scalar headline numbers.
type ClientsKPIs struct {
	TotalStudents      int     `json:"totalStudents"`
	ActiveStudents     int     `json:"activeStudents"`
	DelinquentStudents int     `json:"delinquentStudents"`
	WithdrawnStudents  int     `json:"withdrawnStudents"`
	ScholarshipRate    float64 `json:"scholarshipRate"`
	Siblings           int     `json:"siblings"`
	AverageAge         float64 `json:"averageAge"`
}

// SegmentOccupancy reports enrollment pressure per segment.
type SegmentOccupancy struct {
	SegmentID    string  `json:"segmentId"`
	SegmentLabel string  `json:"segmentLabel"`
	Students     int     `json:"students"`
	Occupancy    float64 `json:"occupancy"`
}

// DistributionSlice is one slice of a categorical pie/bar chart.
type DistributionSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}
