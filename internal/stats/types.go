package stats

// #region buckets
const (
	// BucketParseError counts records whose flags payload could not be decoded.
	BucketParseError = "parse_error"
	// BucketUnknown counts flag entries that carry no type.
	BucketUnknown = "unknown"
)

// #endregion buckets

// #region record
// Record is one persisted assessment as read back from storage. The score
// comes from its own column; FlagsPayload is the serialized assessment.
type Record struct {
	DisagreementScore float64
	FlagsPayload      string
}

// #endregion record

// #region summary
// SummaryStats is recomputed from the full record set on every call.
type SummaryStats struct {
	TotalRuns       int            `json:"total_runs"`
	AvgDisagreement float64        `json:"avg_disagreement"`
	FlagCounts      map[string]int `json:"flag_counts"`
}

// #endregion summary
