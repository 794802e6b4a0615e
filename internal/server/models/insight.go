package models

import "time"

// InsightRecord is a derived insight summary for one file. Each generation
// mints a new record id; the record is stored under "insights:<id>" and
// republished under "file_insights:<fileId>", which always points at the
// latest generation.
type InsightRecord struct {
	ID          string    `json:"id"`
	FileID      string    `json:"fileId"`
	UserID      string    `json:"userId"`
	Insights    []string  `json:"insights"`
	GeneratedAt time.Time `json:"generatedAt"`
}
