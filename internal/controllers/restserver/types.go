package restserver

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status     string `json:"status"`
	Components int    `json:"components"`
}

// ComponentResponse describes one configured component.
type ComponentResponse struct {
	Name            string              `json:"name"`
	Characteristics []CharacteristicDoc `json:"characteristics"`
	ScoringPattern  []string            `json:"scoring_pattern"`
	SuccessPattern  bool                `json:"success_pattern"`
	Columns         []string            `json:"columns"`
}

// CharacteristicDoc names a characteristic and the raw parameters it was
// configured with.
type CharacteristicDoc struct {
	Name       string `json:"name"`
	Parameters []any  `json:"parameters"`
}

// ComponentsResponse is returned by GET /components.
type ComponentsResponse struct {
	StartOfWaterYear int                 `json:"start_of_water_year"`
	Components       []ComponentResponse `json:"components"`
}
