package models

// ChartDataset is the tabular projection of a file's content, produced fresh
// per request and never persisted. Column ordering is significant and
// defines projection order; each row maps a column name to a scalar value.
type ChartDataset struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"data"`
}
