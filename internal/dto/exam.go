package dto

// ExamNationalResponse is the national-exam stats page payload. Every numeric
// field is a finite number; medias and counts are keyed by subject area code.
type ExamNationalResponse struct {
	Total    float64            `json:"total"`
	Medias   map[string]float64 `json:"medias"`
	Counts   map[string]float64 `json:"counts"`
	Areas    []ExamAreaStat     `json:"areas"`
	Estados  []ExamStateStat    `json:"estados"`
	ListaUFs []string           `json:"listaUFs"`
}

// ExamAreaStat is the per-subject-area breakdown for the bar chart.
type ExamAreaStat struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Media float64 `json:"media"`
	Count float64 `json:"count"`
}

// ExamStateStat aggregates one state across its school-type groups.
type ExamStateStat struct {
	UF     string             `json:"uf"`
	Media  float64            `json:"media"`
	Total  float64            `json:"total"`
	Medias map[string]float64 `json:"medias"`
}

// ExamCityBreakdownResponse is the city drilldown for one state.
type ExamCityBreakdownResponse struct {
	UF         string         `json:"uf"`
	Estado     *ExamStateStat `json:"estado"`
	TopCidades []ExamCityStat `json:"topCidades"`
}

// ExamCityStat aggregates one municipality.
type ExamCityStat struct {
	Municipio string             `json:"municipio"`
	Media     float64            `json:"media"`
	Total     float64            `json:"total"`
	Medias    map[string]float64 `json:"medias"`
}
