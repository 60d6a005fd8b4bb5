package domain

import "time"

// SyncStats holds statistics about a sync run.
type SyncStats struct {
	RunID      string
	LeaseSkip  bool
	Fetched    int
	Private    int
	Published  int
	Edited     int
	Unchanged  int
	CursorFrom int64
	CursorTo   int64
	Duration   time.Duration
}
