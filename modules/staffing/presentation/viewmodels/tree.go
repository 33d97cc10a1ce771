package viewmodels

type StaffingTreeNode struct {
	Code            string `json:"code"`
	ParentCode      string `json:"parent_code,omitempty"`
	Acronym         string `json:"acronym"`
	Denomination    string `json:"denomination"`
	Path            string `json:"path"`
	Depth           int    `json:"depth"`
	Indent          int    `json:"indent"`
	Positions       int    `json:"positions"`
	OwnValue        string `json:"own_value"`
	OwnPoints       string `json:"own_points"`
	CumulativeValue string `json:"cumulative_value"`
	CumulativePts   string `json:"cumulative_points"`
}

type StaffingTree struct {
	Structure   string             `json:"structure"`
	Nodes       []StaffingTreeNode `json:"nodes"`
	TotalValue  string             `json:"total_value"`
	TotalPoints string             `json:"total_points"`
	Rejected    int                `json:"rejected"`
}
