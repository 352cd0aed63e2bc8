package engine

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Jun0zo/SDS-Inventory-sub000/models"
)

// Severity buckets for cross-feed differences.
const (
	SeverityMatch    = "match"
	SeverityMinor    = "minor"
	SeverityModerate = "moderate"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Discrepancy is the signed difference between the two feeds'
// aggregated quantities for one (partition, item, lot) line.
type Discrepancy struct {
	SourceID    string          `json:"source_id"`
	ItemCode    string          `json:"item_code"`
	LotKey      string          `json:"lot_key"`
	LocationQty decimal.Decimal `json:"location_qty"`
	StatusQty   decimal.Decimal `json:"status_qty"`
	Difference  decimal.Decimal `json:"difference"`
	PercentDiff float64         `json:"percent_diff"`
	Severity    string          `json:"severity"`
}

// Detector cross-compares the two feeds after aggregating each
// independently by composite line key.
type Detector struct {
	policy Policy
}

// NewDetector creates a Detector with the given policy thresholds.
func NewDetector(policy Policy) *Detector {
	return &Detector{policy: policy}
}

// Detect performs a full outer join of the two feed aggregates and
// grades each difference. Rows whose partition has no binding, or
// whose binding carries the other feed type, are excluded the same way
// the snapshot builders exclude them. The result is sorted by absolute
// difference and truncated to the policy's top-N cap; callers needing
// the full set must recompute rather than query the snapshot.
func (d *Detector) Detect(ds *Dataset) []Discrepancy {
	resolver := NewBindingResolver(ds.Bindings, ds.Warehouses)

	locAgg := make(map[FeedLineKey]decimal.Decimal)
	for i := range ds.LocationRows {
		row := &ds.LocationRows[i]
		binding, ok := resolver.Resolve(row.SourceID, row.SplitKey)
		if !ok || binding.FeedType != models.FeedTypeLocation {
			continue
		}
		key := FeedLineKey{
			SourceID: row.SourceID,
			ItemCode: NormalizeCode(row.ItemCode),
			LotKey:   LotKeyOf(row),
		}
		locAgg[key] = locAgg[key].Add(RowQuantity(row))
	}

	statAgg := make(map[FeedLineKey]decimal.Decimal)
	for i := range ds.StatusRows {
		row := &ds.StatusRows[i]
		binding, ok := resolver.Resolve(row.SourceID, row.SplitKey)
		if !ok || binding.FeedType != models.FeedTypeStatus {
			continue
		}
		lot := NoLotKey
		if row.Batch != nil && *row.Batch != "" {
			lot = *row.Batch
		}
		key := FeedLineKey{
			SourceID: row.SourceID,
			ItemCode: NormalizeCode(row.ItemCode),
			LotKey:   lot,
		}
		statAgg[key] = statAgg[key].Add(decimal.NewFromFloat(row.TotalQty()))
	}

	keys := make(map[FeedLineKey]struct{}, len(locAgg)+len(statAgg))
	for key := range locAgg {
		keys[key] = struct{}{}
	}
	for key := range statAgg {
		keys[key] = struct{}{}
	}

	out := make([]Discrepancy, 0, len(keys))
	for key := range keys {
		loc := locAgg[key]
		stat := statAgg[key]
		diff := stat.Sub(loc)
		out = append(out, Discrepancy{
			SourceID:    key.SourceID,
			ItemCode:    key.ItemCode,
			LotKey:      key.LotKey,
			LocationQty: loc,
			StatusQty:   stat,
			Difference:  diff,
			PercentDiff: percentDiff(diff, loc, stat),
			Severity:    d.severity(diff.Abs()),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		ai, aj := out[i].Difference.Abs(), out[j].Difference.Abs()
		if !ai.Equal(aj) {
			return ai.GreaterThan(aj)
		}
		if out[i].SourceID != out[j].SourceID {
			return out[i].SourceID < out[j].SourceID
		}
		if out[i].ItemCode != out[j].ItemCode {
			return out[i].ItemCode < out[j].ItemCode
		}
		return out[i].LotKey < out[j].LotKey
	})
	if d.policy.DiscrepancyTopN > 0 && len(out) > d.policy.DiscrepancyTopN {
		out = out[:d.policy.DiscrepancyTopN]
	}
	return out
}

func (d *Detector) severity(abs decimal.Decimal) string {
	switch {
	case abs.IsZero():
		return SeverityMatch
	case abs.LessThan(decimal.NewFromInt(d.policy.SeverityMinorBelow)):
		return SeverityMinor
	case abs.LessThan(decimal.NewFromInt(d.policy.SeverityModerateBelow)):
		return SeverityModerate
	case abs.LessThan(decimal.NewFromInt(d.policy.SeverityHighBelow)):
		return SeverityHigh
	default:
		return SeverityCritical
	}
}

func percentDiff(diff, loc, stat decimal.Decimal) float64 {
	if loc.IsPositive() {
		pct, _ := diff.Div(loc).Mul(decimal.NewFromInt(100)).Round(2).Float64()
		return pct
	}
	if stat.IsPositive() {
		return 100
	}
	return 0
}
