package engine

import "github.com/Jun0zo/SDS-Inventory-sub000/models"

// Binding is the resolved warehouse/zone context for one feed partition.
type Binding struct {
	WarehouseID   uint
	WarehouseCode string
	ZoneCode      string
	FeedType      string
}

// BindingResolver maps (source id, split value) pairs to their bound
// warehouse context. A missing binding is expected during onboarding
// and excludes the row from every snapshot; it is surfaced only as a
// coverage metric, never as an error.
type BindingResolver struct {
	byKey map[BindingKey]Binding
}

// NewBindingResolver builds the lookup table from configured bindings.
// Exclusivity of (source, split) pairs is enforced at write time, so a
// duplicate here simply keeps the last entry.
func NewBindingResolver(bindings []models.SourceBinding, warehouses []models.Warehouse) *BindingResolver {
	codes := make(map[uint]string, len(warehouses))
	for _, w := range warehouses {
		codes[w.WarehouseID] = w.WarehouseCode
	}

	byKey := make(map[BindingKey]Binding, len(bindings))
	for _, b := range bindings {
		split := ""
		if b.SplitValue != nil {
			split = *b.SplitValue
		}
		byKey[BindingKey{SourceID: b.SourceID, SplitValue: split}] = Binding{
			WarehouseID:   b.WarehouseID,
			WarehouseCode: codes[b.WarehouseID],
			ZoneCode:      b.ZoneCode,
			FeedType:      b.FeedType,
		}
	}
	return &BindingResolver{byKey: byKey}
}

// Resolve looks up the binding for a feed partition.
func (r *BindingResolver) Resolve(sourceID string, splitValue *string) (Binding, bool) {
	split := ""
	if splitValue != nil {
		split = *splitValue
	}
	b, ok := r.byKey[BindingKey{SourceID: sourceID, SplitValue: split}]
	return b, ok
}

// CoversZone reports whether the binding's zone value names the given
// zone once both are normalized.
func (b Binding) CoversZone(zoneCode string) bool {
	return NormalizeCode(b.ZoneCode) == NormalizeCode(zoneCode)
}
