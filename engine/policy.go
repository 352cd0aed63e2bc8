package engine

// Policy holds the tunable thresholds the engine aggregates under.
type Policy struct {
	// Cells with resolved capacity at or below this threshold count at
	// most one occupant toward utilization, however many feed rows land
	// on them. Larger cells count every row.
	CapacityExclusiveThreshold int

	// Absolute-difference bounds for discrepancy severity grading.
	SeverityMinorBelow    int64
	SeverityModerateBelow int64
	SeverityHighBelow     int64

	// DiscrepancyTopN caps the reported discrepancy list after sorting
	// by absolute difference.
	DiscrepancyTopN int

	// TopMaterials caps the per-warehouse material summary.
	TopMaterials int
}

// DefaultPolicy returns the standard thresholds.
func DefaultPolicy() Policy {
	return Policy{
		CapacityExclusiveThreshold: 1,
		SeverityMinorBelow:         10,
		SeverityModerateBelow:      100,
		SeverityHighBelow:          1000,
		DiscrepancyTopN:            100,
		TopMaterials:               20,
	}
}
