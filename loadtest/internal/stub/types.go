package stub

// FailureConfig controls which batch saves the stub rejects.
type FailureConfig struct {
	// RejectPrefix rejects every record whose id starts with it.
	RejectPrefix string `json:"reject_prefix"`
	// FailureRate rejects each remaining record with this probability.
	FailureRate float64 `json:"failure_rate"`
	// Outage answers every batch save with 503.
	Outage bool `json:"outage"`
}

type StatsResponse struct {
	RunID        string `json:"run_id"`
	RecordCount  int    `json:"record_count"`
	BatchCount   int    `json:"batch_count"`
	RejectCount  int    `json:"reject_count"`
	OutageCount  int    `json:"outage_count"`
	DuplicateIDs int    `json:"duplicate_ids"`
}
