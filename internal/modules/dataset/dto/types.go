package dto

import "time"

type SummaryOutput struct {
	ID               int
	Filename         string
	UploadDate       time.Time
	TotalCount       int
	AvgFlowrate      float64
	AvgPressure      float64
	AvgTemperature   float64
	TypeDistribution map[string]int
}

type EquipmentOutput struct {
	ID          int
	Name        string
	Type        string
	Flowrate    float64
	Pressure    float64
	Temperature float64
}

type DetailOutput struct {
	SummaryOutput
	Equipment []EquipmentOutput
}

type UploadInput struct {
	Path string
}

type UploadOutput struct {
	ID         int
	Filename   string
	TotalCount int
}

type ReportOutput struct {
	Path  string
	Pages int
}
