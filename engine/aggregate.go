package engine

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Jun0zo/SDS-Inventory-sub000/models"
)

// NoLotKey groups rows that carry no lot identifier.
const NoLotKey = "NO_LOT"

// LotShare is one lot's contribution to an item or zone rollup.
type LotShare struct {
	LotKey   string          `json:"lot_key"`
	Quantity decimal.Decimal `json:"quantity"`
	Rows     int             `json:"rows"`
}

// MaterialLine is one item code's contribution, ranked by quantity.
type MaterialLine struct {
	ItemCode      string          `json:"item_code"`
	MajorCategory string          `json:"major_category,omitempty"`
	MinorCategory string          `json:"minor_category,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	Rows          int             `json:"rows"`
}

// StatusBreakdown splits status-feed quantity into its four buckets.
type StatusBreakdown struct {
	Unrestricted decimal.Decimal `json:"unrestricted"`
	Inspection   decimal.Decimal `json:"inspection"`
	Blocked      decimal.Decimal `json:"blocked"`
	Returned     decimal.Decimal `json:"returned"`
}

// Total sums all four buckets.
func (sb StatusBreakdown) Total() decimal.Decimal {
	return sb.Unrestricted.Add(sb.Inspection).Add(sb.Blocked).Add(sb.Returned)
}

// ItemSnapshot is the per-storage-item rollup.
type ItemSnapshot struct {
	ItemID        uint   `json:"item_id"`
	ZoneID        uint   `json:"zone_id"`
	ZoneCode      string `json:"zone_code"`
	WarehouseID   uint   `json:"warehouse_id"`
	LocationCode  string `json:"location_code"`
	Kind          string `json:"kind"`
	TotalCapacity int    `json:"total_capacity"`

	OccupiedCount  int     `json:"occupied_count"`
	MisplacedCount int     `json:"misplaced_count"`
	UtilizationPct float64 `json:"utilization_pct"`

	TotalQuantity   decimal.Decimal `json:"total_quantity"`
	SKUCount        int             `json:"sku_count"`
	LotDistribution []LotShare      `json:"lot_distribution"`
	TopMaterials    []MaterialLine  `json:"top_materials"`

	// Materials is the full ranked list TopMaterials is cut from. The
	// zone and warehouse rollups read it so their SKU sets and material
	// totals stay exact past the display cap.
	Materials []MaterialLine `json:"-"`

	Rows        []models.LocationRow `json:"rows"`
	LastUpdated time.Time            `json:"last_updated"`
}

// ZoneSnapshot is the per-zone rollup across its storage items.
type ZoneSnapshot struct {
	ZoneID        uint   `json:"zone_id"`
	ZoneCode      string `json:"zone_code"`
	WarehouseID   uint   `json:"warehouse_id"`
	WarehouseCode string `json:"warehouse_code"`
	LayoutVersion int    `json:"layout_version"`
	ItemCount     int    `json:"item_count"`

	TotalCapacity  int     `json:"total_capacity"`
	OccupiedCount  int     `json:"occupied_count"`
	MisplacedCount int     `json:"misplaced_count"`
	UtilizationPct float64 `json:"utilization_pct"`

	TotalQuantity decimal.Decimal `json:"total_quantity"`
	SKUCount      int             `json:"sku_count"`
	LastUpdated   time.Time       `json:"last_updated"`
}

// WarehouseSnapshot is the per-warehouse rollup across both feeds.
type WarehouseSnapshot struct {
	WarehouseID   uint   `json:"warehouse_id"`
	WarehouseCode string `json:"warehouse_code"`
	WarehouseName string `json:"warehouse_name"`
	ZoneCount     int    `json:"zone_count"`

	TotalCapacity  int     `json:"total_capacity"`
	OccupiedCount  int     `json:"occupied_count"`
	UtilizationPct float64 `json:"utilization_pct"`

	TotalQuantity decimal.Decimal `json:"total_quantity"`
	SKUCount      int             `json:"sku_count"`
	Status        StatusBreakdown `json:"status"`
	TopMaterials  []MaterialLine  `json:"top_materials"`

	// BoundPartitions counts distinct feed partitions whose rows
	// resolved to this warehouse, a coverage metric for onboarding.
	BoundPartitions int       `json:"bound_partitions"`
	LastUpdated     time.Time `json:"last_updated"`
}

// RowQuantity extracts the effective quantity of a location-feed row.
// Available quantity wins over total; a row carrying neither counts as
// one physical unit.
func RowQuantity(row *models.LocationRow) decimal.Decimal {
	if row.AvailableQty != nil {
		return decimal.NewFromFloat(*row.AvailableQty)
	}
	if row.TotalQty != nil {
		return decimal.NewFromFloat(*row.TotalQty)
	}
	return decimal.NewFromInt(1)
}

// LotKeyOf returns the lot grouping key for a location-feed row.
func LotKeyOf(row *models.LocationRow) string {
	if row.LotNo != nil && *row.LotNo != "" {
		return *row.LotNo
	}
	return NoLotKey
}

// Utilization computes occupied/capacity as a percentage rounded to two
// decimal places. Zero capacity reports zero so dashboards stay
// renderable.
func Utilization(occupied, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}
	pct, _ := decimal.NewFromInt(int64(occupied) * 100).
		Div(decimal.NewFromInt(int64(capacity))).
		Round(2).Float64()
	return pct
}

// Builder folds bound, matched, restriction-checked rows into item,
// zone and warehouse snapshots. Builders are stateless apart from the
// shared pattern cache and safe for concurrent use.
type Builder struct {
	policy  Policy
	matcher *Matcher
}

// NewBuilder creates a Builder with the given policy.
func NewBuilder(policy Policy) *Builder {
	return &Builder{policy: policy, matcher: NewMatcher()}
}

type lotAcc struct {
	qty  decimal.Decimal
	rows int
}

type materialAcc struct {
	qty  decimal.Decimal
	rows int
}

type itemAcc struct {
	item     *models.StorageItem
	zone     *models.Zone
	grid     *CellGrid
	cellRows map[CellKey]int
	occupied int
	misfit   int
	qty      decimal.Decimal
	lots     map[string]*lotAcc
	mats     map[string]*materialAcc
	rows     []models.LocationRow
	latest   time.Time
}

// BuildItemSnapshots matches every current location-feed row to its
// storage item and produces one snapshot per item, including items no
// row landed on.
func (b *Builder) BuildItemSnapshots(ds *Dataset) []ItemSnapshot {
	resolver := NewBindingResolver(ds.Bindings, ds.Warehouses)
	catalog := NewCatalogIndex(ds.Catalog)

	zonesByID := make(map[uint]*models.Zone, len(ds.Zones))
	for i := range ds.Zones {
		zonesByID[ds.Zones[i].ZoneID] = &ds.Zones[i]
	}

	// Items grouped under their zone's normalized code per warehouse,
	// so a binding's zone value finds them in one hop.
	type zoneSlot struct {
		items []*models.StorageItem
	}
	type whZone struct {
		warehouseID uint
		code        string
	}
	slots := make(map[whZone]*zoneSlot)
	accs := make(map[uint]*itemAcc, len(ds.Items))
	for i := range ds.Items {
		item := &ds.Items[i]
		zone := zonesByID[item.ZoneID]
		if zone == nil {
			continue
		}
		key := whZone{warehouseID: zone.WarehouseID, code: NormalizeCode(zone.ZoneCode)}
		slot := slots[key]
		if slot == nil {
			slot = &zoneSlot{}
			slots[key] = slot
		}
		slot.items = append(slot.items, item)

		acc := &itemAcc{
			item: item,
			zone: zone,
			qty:  decimal.Zero,
			lots: make(map[string]*lotAcc),
			mats: make(map[string]*materialAcc),
		}
		if item.IsRack() {
			acc.grid = NewCellGrid(item)
			acc.cellRows = make(map[CellKey]int)
		}
		accs[item.ItemID] = acc
	}

	for i := range ds.LocationRows {
		row := &ds.LocationRows[i]
		binding, ok := resolver.Resolve(row.SourceID, row.SplitKey)
		if !ok || binding.FeedType != models.FeedTypeLocation {
			continue
		}
		slot := slots[whZone{warehouseID: binding.WarehouseID, code: NormalizeCode(binding.ZoneCode)}]
		if slot == nil {
			continue
		}

		for _, item := range slot.items {
			acc := accs[item.ItemID]
			if item.IsRack() {
				cell, ok := b.matcher.MatchCell(item, row.CellNo)
				if !ok {
					continue
				}
				acc.cellRows[cell]++
				b.foldRow(acc, row, acc.grid.ResolveCell(cell).Restriction, catalog)
			} else {
				if !LocationEqual(item.LocationCode, row.CellNo) {
					continue
				}
				acc.occupied++
				b.foldRow(acc, row, restrictionFromModel(item.Restriction), catalog)
			}
			break
		}
	}

	out := make([]ItemSnapshot, 0, len(accs))
	for _, acc := range accs {
		if acc.item.IsRack() {
			for cell, n := range acc.cellRows {
				if acc.grid.ResolveCell(cell).Capacity <= b.policy.CapacityExclusiveThreshold && n > 1 {
					n = 1
				}
				acc.occupied += n
			}
		}
		out = append(out, b.finishItem(acc, catalog))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ZoneID != out[j].ZoneID {
			return out[i].ZoneID < out[j].ZoneID
		}
		return out[i].LocationCode < out[j].LocationCode
	})
	return out
}

func (b *Builder) foldRow(acc *itemAcc, row *models.LocationRow, restriction *Restriction, catalog CatalogIndex) {
	major, minor := catalog.Categories(row.ItemCode)
	if !restriction.Matches(row.ItemCode, major, minor) {
		acc.misfit++
	}

	qty := RowQuantity(row)
	acc.qty = acc.qty.Add(qty)

	lotKey := LotKeyOf(row)
	lot := acc.lots[lotKey]
	if lot == nil {
		lot = &lotAcc{qty: decimal.Zero}
		acc.lots[lotKey] = lot
	}
	lot.qty = lot.qty.Add(qty)
	lot.rows++

	code := NormalizeCode(row.ItemCode)
	mat := acc.mats[code]
	if mat == nil {
		mat = &materialAcc{qty: decimal.Zero}
		acc.mats[code] = mat
	}
	mat.qty = mat.qty.Add(qty)
	mat.rows++

	acc.rows = append(acc.rows, *row)
	if row.FetchedAt.After(acc.latest) {
		acc.latest = row.FetchedAt
	}
}

func (b *Builder) finishItem(acc *itemAcc, catalog CatalogIndex) ItemSnapshot {
	snap := ItemSnapshot{
		ItemID:         acc.item.ItemID,
		ZoneID:         acc.zone.ZoneID,
		ZoneCode:       acc.zone.ZoneCode,
		WarehouseID:    acc.zone.WarehouseID,
		LocationCode:   acc.item.LocationCode,
		Kind:           acc.item.Kind,
		TotalCapacity:  ItemTotalCapacity(acc.item),
		OccupiedCount:  acc.occupied,
		MisplacedCount: acc.misfit,
		TotalQuantity:  acc.qty,
		SKUCount:       len(acc.mats),
		Rows:           acc.rows,
		LastUpdated:    acc.latest,
	}
	snap.UtilizationPct = Utilization(snap.OccupiedCount, snap.TotalCapacity)
	snap.LotDistribution = sortedLots(acc.lots)
	snap.Materials = rankedMaterials(acc.mats, catalog, 0)
	snap.TopMaterials = snap.Materials
	if limit := b.policy.TopMaterials; limit > 0 && len(snap.TopMaterials) > limit {
		snap.TopMaterials = snap.TopMaterials[:limit]
	}
	return snap
}

func sortedLots(lots map[string]*lotAcc) []LotShare {
	out := make([]LotShare, 0, len(lots))
	for key, acc := range lots {
		out = append(out, LotShare{LotKey: key, Quantity: acc.qty, Rows: acc.rows})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Quantity.Equal(out[j].Quantity) {
			return out[i].Quantity.GreaterThan(out[j].Quantity)
		}
		return out[i].LotKey < out[j].LotKey
	})
	return out
}

func rankedMaterials(mats map[string]*materialAcc, catalog CatalogIndex, limit int) []MaterialLine {
	out := make([]MaterialLine, 0, len(mats))
	for code, acc := range mats {
		major, minor := catalog.Categories(code)
		out = append(out, MaterialLine{
			ItemCode:      code,
			MajorCategory: major,
			MinorCategory: minor,
			Quantity:      acc.qty,
			Rows:          acc.rows,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Quantity.Equal(out[j].Quantity) {
			return out[i].Quantity.GreaterThan(out[j].Quantity)
		}
		return out[i].ItemCode < out[j].ItemCode
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// BuildZoneSnapshots rolls item snapshots up to their zones. Zones
// without items still appear with zero occupancy.
func (b *Builder) BuildZoneSnapshots(ds *Dataset, items []ItemSnapshot) []ZoneSnapshot {
	codes := make(map[uint]string, len(ds.Warehouses))
	for _, w := range ds.Warehouses {
		codes[w.WarehouseID] = w.WarehouseCode
	}

	byZone := make(map[uint]*ZoneSnapshot, len(ds.Zones))
	order := make([]uint, 0, len(ds.Zones))
	for i := range ds.Zones {
		z := &ds.Zones[i]
		byZone[z.ZoneID] = &ZoneSnapshot{
			ZoneID:        z.ZoneID,
			ZoneCode:      z.ZoneCode,
			WarehouseID:   z.WarehouseID,
			WarehouseCode: codes[z.WarehouseID],
			LayoutVersion: z.LayoutVersion,
			TotalQuantity: decimal.Zero,
		}
		order = append(order, z.ZoneID)
	}

	skus := make(map[uint]map[string]struct{})
	for i := range items {
		it := &items[i]
		zs := byZone[it.ZoneID]
		if zs == nil {
			continue
		}
		zs.ItemCount++
		zs.TotalCapacity += it.TotalCapacity
		zs.OccupiedCount += it.OccupiedCount
		zs.MisplacedCount += it.MisplacedCount
		zs.TotalQuantity = zs.TotalQuantity.Add(it.TotalQuantity)
		if it.LastUpdated.After(zs.LastUpdated) {
			zs.LastUpdated = it.LastUpdated
		}
		set := skus[it.ZoneID]
		if set == nil {
			set = make(map[string]struct{})
			skus[it.ZoneID] = set
		}
		for _, m := range it.Materials {
			set[m.ItemCode] = struct{}{}
		}
	}

	out := make([]ZoneSnapshot, 0, len(order))
	for _, id := range order {
		zs := byZone[id]
		zs.SKUCount = len(skus[id])
		zs.UtilizationPct = Utilization(zs.OccupiedCount, zs.TotalCapacity)
		out = append(out, *zs)
	}
	return out
}

// BuildWarehouseSnapshots rolls zones up to warehouses and folds in the
// status feed's bucket totals and source coverage.
func (b *Builder) BuildWarehouseSnapshots(ds *Dataset, items []ItemSnapshot, zones []ZoneSnapshot) []WarehouseSnapshot {
	resolver := NewBindingResolver(ds.Bindings, ds.Warehouses)
	catalog := NewCatalogIndex(ds.Catalog)

	byWH := make(map[uint]*WarehouseSnapshot, len(ds.Warehouses))
	order := make([]uint, 0, len(ds.Warehouses))
	for i := range ds.Warehouses {
		w := &ds.Warehouses[i]
		byWH[w.WarehouseID] = &WarehouseSnapshot{
			WarehouseID:   w.WarehouseID,
			WarehouseCode: w.WarehouseCode,
			WarehouseName: w.WarehouseName,
			TotalQuantity: decimal.Zero,
		}
		order = append(order, w.WarehouseID)
	}

	for i := range zones {
		z := &zones[i]
		ws := byWH[z.WarehouseID]
		if ws == nil {
			continue
		}
		ws.ZoneCount++
		ws.TotalCapacity += z.TotalCapacity
		ws.OccupiedCount += z.OccupiedCount
		ws.TotalQuantity = ws.TotalQuantity.Add(z.TotalQuantity)
		if z.LastUpdated.After(ws.LastUpdated) {
			ws.LastUpdated = z.LastUpdated
		}
	}

	mats := make(map[uint]map[string]*materialAcc)
	skus := make(map[uint]map[string]struct{})
	for i := range items {
		it := &items[i]
		ws := byWH[it.WarehouseID]
		if ws == nil {
			continue
		}
		m := mats[it.WarehouseID]
		if m == nil {
			m = make(map[string]*materialAcc)
			mats[it.WarehouseID] = m
		}
		set := skus[it.WarehouseID]
		if set == nil {
			set = make(map[string]struct{})
			skus[it.WarehouseID] = set
		}
		for _, line := range it.Materials {
			set[line.ItemCode] = struct{}{}
			acc := m[line.ItemCode]
			if acc == nil {
				acc = &materialAcc{qty: decimal.Zero}
				m[line.ItemCode] = acc
			}
			acc.qty = acc.qty.Add(line.Quantity)
			acc.rows += line.Rows
		}
	}

	partitions := make(map[uint]map[BindingKey]struct{})
	seen := func(warehouseID uint, key BindingKey) {
		set := partitions[warehouseID]
		if set == nil {
			set = make(map[BindingKey]struct{})
			partitions[warehouseID] = set
		}
		set[key] = struct{}{}
	}

	for i := range ds.LocationRows {
		row := &ds.LocationRows[i]
		if binding, ok := resolver.Resolve(row.SourceID, row.SplitKey); ok {
			seen(binding.WarehouseID, bindingKeyOf(row.SourceID, row.SplitKey))
		}
	}
	for i := range ds.StatusRows {
		row := &ds.StatusRows[i]
		binding, ok := resolver.Resolve(row.SourceID, row.SplitKey)
		if !ok || binding.FeedType != models.FeedTypeStatus {
			continue
		}
		seen(binding.WarehouseID, bindingKeyOf(row.SourceID, row.SplitKey))
		ws := byWH[binding.WarehouseID]
		if ws == nil {
			continue
		}
		ws.Status.Unrestricted = ws.Status.Unrestricted.Add(decimal.NewFromFloat(row.UnrestrictedQty))
		ws.Status.Inspection = ws.Status.Inspection.Add(decimal.NewFromFloat(row.InspectionQty))
		ws.Status.Blocked = ws.Status.Blocked.Add(decimal.NewFromFloat(row.BlockedQty))
		ws.Status.Returned = ws.Status.Returned.Add(decimal.NewFromFloat(row.ReturnedQty))
		if row.FetchedAt.After(ws.LastUpdated) {
			ws.LastUpdated = row.FetchedAt
		}
	}

	out := make([]WarehouseSnapshot, 0, len(order))
	for _, id := range order {
		ws := byWH[id]
		ws.SKUCount = len(skus[id])
		ws.TopMaterials = rankedMaterials(orEmptyMats(mats[id]), catalog, b.policy.TopMaterials)
		ws.BoundPartitions = len(partitions[id])
		ws.UtilizationPct = Utilization(ws.OccupiedCount, ws.TotalCapacity)
		out = append(out, *ws)
	}
	return out
}

// UnboundPartitions lists distinct feed partitions observed in the raw
// rows that no binding covers, the onboarding coverage gap.
func (b *Builder) UnboundPartitions(ds *Dataset) []BindingKey {
	resolver := NewBindingResolver(ds.Bindings, ds.Warehouses)
	missing := make(map[BindingKey]struct{})
	for i := range ds.LocationRows {
		key := bindingKeyOf(ds.LocationRows[i].SourceID, ds.LocationRows[i].SplitKey)
		if _, ok := resolver.Resolve(ds.LocationRows[i].SourceID, ds.LocationRows[i].SplitKey); !ok {
			missing[key] = struct{}{}
		}
	}
	for i := range ds.StatusRows {
		key := bindingKeyOf(ds.StatusRows[i].SourceID, ds.StatusRows[i].SplitKey)
		if _, ok := resolver.Resolve(ds.StatusRows[i].SourceID, ds.StatusRows[i].SplitKey); !ok {
			missing[key] = struct{}{}
		}
	}
	out := make([]BindingKey, 0, len(missing))
	for key := range missing {
		out = append(out, key)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SourceID != out[j].SourceID {
			return out[i].SourceID < out[j].SourceID
		}
		return out[i].SplitValue < out[j].SplitValue
	})
	return out
}

func bindingKeyOf(sourceID string, splitValue *string) BindingKey {
	key := BindingKey{SourceID: sourceID}
	if splitValue != nil {
		key.SplitValue = *splitValue
	}
	return key
}

func orEmptyMats(m map[string]*materialAcc) map[string]*materialAcc {
	if m == nil {
		return map[string]*materialAcc{}
	}
	return m
}
