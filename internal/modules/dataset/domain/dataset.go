package domain

import "time"

// Summary is the server-computed aggregate view of one uploaded CSV. The
// client never recomputes any of it; list order and the last-5 cap are the
// server's decisions.
type Summary struct {
	ID               int            `json:"id"`
	Filename         string         `json:"filename"`
	UploadDate       time.Time      `json:"upload_date"`
	TotalCount       int            `json:"total_count"`
	AvgFlowrate      float64        `json:"avg_flowrate"`
	AvgPressure      float64        `json:"avg_pressure"`
	AvgTemperature   float64        `json:"avg_temperature"`
	TypeDistribution map[string]int `json:"type_distribution"`
}

// Equipment is one row of the uploaded CSV as the server stored it.
type Equipment struct {
	ID          int     `json:"id"`
	Name        string  `json:"equipment_name"`
	Type        string  `json:"equipment_type"`
	Flowrate    float64 `json:"flowrate"`
	Pressure    float64 `json:"pressure"`
	Temperature float64 `json:"temperature"`
}

// Detail is a Summary plus its row-level records, fetched lazily per id.
type Detail struct {
	Summary
	Equipment []Equipment `json:"equipment"`
}
