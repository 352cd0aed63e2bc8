package engine

import "github.com/Jun0zo/SDS-Inventory-sub000/models"

// DefaultCellCapacity is the system fallback when neither cell, floor
// nor item specifies a capacity.
const DefaultCellCapacity = 1

// CellAttrs is the fully resolved state of one rack cell.
type CellAttrs struct {
	Capacity    int
	Available   bool
	Restriction *Restriction
}

type overrideAttrs struct {
	capacity    *int
	available   *bool
	restriction *Restriction
}

// CellGrid resolves per-cell attributes for a rack item. Each attribute
// resolves independently through the priority chain cell override,
// floor override, item default, system default; a level that sets only
// capacity does not shadow a restriction set one level below it.
type CellGrid struct {
	item   *models.StorageItem
	floors map[int]overrideAttrs
	cells  map[CellKey]overrideAttrs
}

// NewCellGrid indexes an item's overrides for cell resolution. Safe to
// call for flat items; ResolveCell then always reports out of bounds.
func NewCellGrid(item *models.StorageItem) *CellGrid {
	g := &CellGrid{
		item:   item,
		floors: make(map[int]overrideAttrs, len(item.FloorOverrides)),
		cells:  make(map[CellKey]overrideAttrs, len(item.CellOverrides)),
	}
	for i := range item.FloorOverrides {
		fo := &item.FloorOverrides[i]
		g.floors[fo.FloorIdx] = overrideAttrs{
			capacity:    fo.Capacity,
			available:   fo.Available,
			restriction: restrictionFromModel(fo.Restriction),
		}
	}
	for i := range item.CellOverrides {
		co := &item.CellOverrides[i]
		g.cells[CellKey{Floor: co.FloorIdx, Col: co.ColIdx}] = overrideAttrs{
			capacity:    co.Capacity,
			available:   co.Available,
			restriction: restrictionFromModel(co.Restriction),
		}
	}
	return g
}

// InBounds reports whether the key addresses a cell inside the item's
// declared dimensions.
func (g *CellGrid) InBounds(key CellKey) bool {
	if !g.item.IsRack() {
		return false
	}
	if key.Floor < 1 || key.Floor > g.item.Floors {
		return false
	}
	slots := g.item.SlotsPerFloor()
	return key.Col >= 1 && key.Col <= slots
}

// ResolveCell resolves the attributes of one cell. Out-of-bounds keys
// resolve to the system default (capacity 1, available, unrestricted)
// so a feed row naming a cell beyond the drawn layout still counts
// against occupancy instead of disappearing.
func (g *CellGrid) ResolveCell(key CellKey) CellAttrs {
	attrs := CellAttrs{Capacity: DefaultCellCapacity, Available: true}
	if !g.InBounds(key) {
		return attrs
	}

	if g.item.DefaultCellCapacity != nil {
		attrs.Capacity = *g.item.DefaultCellCapacity
	}
	if g.item.DefaultAvailable != nil {
		attrs.Available = *g.item.DefaultAvailable
	}
	attrs.Restriction = restrictionFromModel(g.item.Restriction)

	for _, o := range []overrideAttrs{g.floors[key.Floor], g.cells[key]} {
		if o.capacity != nil {
			attrs.Capacity = *o.capacity
		}
		if o.available != nil {
			attrs.Available = *o.available
		}
		if o.restriction != nil {
			attrs.Restriction = o.restriction
		}
	}
	return attrs
}

// TotalCapacity sums resolved capacities over every in-bounds cell of a
// rack item, so floor and cell overrides change the total.
func (g *CellGrid) TotalCapacity() int {
	if !g.item.IsRack() {
		return 0
	}
	total := 0
	slots := g.item.SlotsPerFloor()
	for f := 1; f <= g.item.Floors; f++ {
		for c := 1; c <= slots; c++ {
			total += g.ResolveCell(CellKey{Floor: f, Col: c}).Capacity
		}
	}
	return total
}

// ItemTotalCapacity returns the storage capacity of any item. Rack
// capacity is the sum of resolved cell capacities; flat capacity is the
// declared maximum, falling back to rows x cols when unset.
func ItemTotalCapacity(item *models.StorageItem) int {
	if item.IsRack() {
		return NewCellGrid(item).TotalCapacity()
	}
	if item.MaxCapacity != nil {
		return *item.MaxCapacity
	}
	if item.Rows > 0 && item.Cols > 0 {
		return item.Rows * item.Cols
	}
	return 0
}
