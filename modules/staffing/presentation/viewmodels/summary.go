package viewmodels

type StaffingSummary struct {
	RunID        string   `json:"run_id"`
	Structure    string   `json:"structure"`
	Nodes        int      `json:"nodes"`
	Roots        int      `json:"roots"`
	Positions    int      `json:"positions"`
	Rejected     int      `json:"rejected"`
	TariffMisses int64    `json:"tariff_misses"`
	MissedKeys   []string `json:"missed_keys,omitempty"`
	TotalValue   string   `json:"total_value"`
	TotalPoints  string   `json:"total_points"`
}

type SkippedRow struct {
	Structure string `json:"structure"`
	Line      int    `json:"line"`
	Field     string `json:"field,omitempty"`
	Value     string `json:"value,omitempty"`
	Error     string `json:"error"`
}

type ComparisonReport struct {
	RunID        string       `json:"run_id"`
	Output       string       `json:"output"`
	CurrentRows  int          `json:"current_rows"`
	ProposedRows int          `json:"proposed_rows"`
	Skipped      []SkippedRow `json:"skipped"`
}
