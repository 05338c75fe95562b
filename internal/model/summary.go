package model

import "time"

// ClassSummary captures metrics for one class replacement.
type ClassSummary struct {
	Class    string
	Fetched  int
	Produced int
	Dropped  int
	Deleted  int64
	Inserted int64
	Duration time.Duration
}

// RunSummary captures metrics from a single clean run.
type RunSummary struct {
	RunID         string
	DryRun        bool
	Classes       []ClassSummary
	DurationTotal time.Duration
}

// LoadSummary captures metrics from a bulk load.
type LoadSummary struct {
	FilePath     string
	FileSHA256   string
	Table        string
	RowsRead     int64
	RowsLoaded   int64
	RowsRejected int64
	Duration     time.Duration
}
