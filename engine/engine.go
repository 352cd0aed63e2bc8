package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot names, in dependency order. Items feed zones, zones feed
// warehouses, and the dashboard rollup joins across everything.
const (
	SnapshotItems         = "items"
	SnapshotZones         = "zones"
	SnapshotWarehouses    = "warehouses"
	SnapshotDiscrepancies = "discrepancies"
	SnapshotDashboard     = "dashboard"
)

// DashboardStats is the cross-warehouse rollup backing the dashboard
// landing page.
type DashboardStats struct {
	Warehouses int `json:"warehouses"`
	Zones      int `json:"zones"`
	Items      int `json:"items"`

	TotalCapacity  int     `json:"total_capacity"`
	OccupiedCount  int     `json:"occupied_count"`
	UtilizationPct float64 `json:"utilization_pct"`

	TotalQuantity decimal.Decimal `json:"total_quantity"`
	Status        StatusBreakdown `json:"status"`

	Discrepancies     int          `json:"discrepancies"`
	UnboundPartitions []BindingKey `json:"unbound_partitions"`
	GeneratedAt       time.Time    `json:"generated_at"`
}

// Engine is the reconciliation engine facade: the snapshot store, the
// orchestrator that rebuilds it and the read-only query surface the web
// layer consumes.
type Engine struct {
	policy   Policy
	store    *SnapshotStore
	builder  *Builder
	detector *Detector
	orch     *Orchestrator
}

// New wires an Engine over a data source. Snapshots start empty; call
// Refresh (or let the notifier trigger it) to populate them.
func New(source DataSource, policy Policy) *Engine {
	e := &Engine{
		policy:   policy,
		store:    NewSnapshotStore(),
		builder:  NewBuilder(policy),
		detector: NewDetector(policy),
	}
	e.orch = NewOrchestrator(source, e.store, e.defs())
	return e
}

func (e *Engine) defs() []SnapshotDef {
	return []SnapshotDef{
		{Name: SnapshotItems, Build: func(ds *Dataset, _ *SnapshotStore) (interface{}, error) {
			return e.builder.BuildItemSnapshots(ds), nil
		}},
		{Name: SnapshotZones, Build: func(ds *Dataset, prior *SnapshotStore) (interface{}, error) {
			return e.builder.BuildZoneSnapshots(ds, itemsFrom(prior, e.builder, ds)), nil
		}},
		{Name: SnapshotWarehouses, Build: func(ds *Dataset, prior *SnapshotStore) (interface{}, error) {
			items := itemsFrom(prior, e.builder, ds)
			zones := zonesFrom(prior, e.builder, ds, items)
			return e.builder.BuildWarehouseSnapshots(ds, items, zones), nil
		}},
		{Name: SnapshotDiscrepancies, Build: func(ds *Dataset, _ *SnapshotStore) (interface{}, error) {
			return e.detector.Detect(ds), nil
		}},
		{Name: SnapshotDashboard, Build: func(ds *Dataset, prior *SnapshotStore) (interface{}, error) {
			return e.buildDashboard(ds, prior), nil
		}},
	}
}

// itemsFrom reads the item snapshot installed earlier in the pass,
// rebuilding inline when a prior failure left it missing. Cross
// snapshot staleness is acceptable; a missing base is not.
func itemsFrom(prior *SnapshotStore, b *Builder, ds *Dataset) []ItemSnapshot {
	if snap, ok := prior.Get(SnapshotItems); ok {
		if items, ok := snap.Data.([]ItemSnapshot); ok {
			return items
		}
	}
	return b.BuildItemSnapshots(ds)
}

func zonesFrom(prior *SnapshotStore, b *Builder, ds *Dataset, items []ItemSnapshot) []ZoneSnapshot {
	if snap, ok := prior.Get(SnapshotZones); ok {
		if zones, ok := snap.Data.([]ZoneSnapshot); ok {
			return zones
		}
	}
	return b.BuildZoneSnapshots(ds, items)
}

func (e *Engine) buildDashboard(ds *Dataset, prior *SnapshotStore) DashboardStats {
	stats := DashboardStats{
		Warehouses:        len(ds.Warehouses),
		Zones:             len(ds.Zones),
		Items:             len(ds.Items),
		TotalQuantity:     decimal.Zero,
		UnboundPartitions: e.builder.UnboundPartitions(ds),
		GeneratedAt:       time.Now(),
	}

	if snap, ok := prior.Get(SnapshotWarehouses); ok {
		if whs, ok := snap.Data.([]WarehouseSnapshot); ok {
			for i := range whs {
				stats.TotalCapacity += whs[i].TotalCapacity
				stats.OccupiedCount += whs[i].OccupiedCount
				stats.TotalQuantity = stats.TotalQuantity.Add(whs[i].TotalQuantity)
				stats.Status.Unrestricted = stats.Status.Unrestricted.Add(whs[i].Status.Unrestricted)
				stats.Status.Inspection = stats.Status.Inspection.Add(whs[i].Status.Inspection)
				stats.Status.Blocked = stats.Status.Blocked.Add(whs[i].Status.Blocked)
				stats.Status.Returned = stats.Status.Returned.Add(whs[i].Status.Returned)
			}
		}
	}
	stats.UtilizationPct = Utilization(stats.OccupiedCount, stats.TotalCapacity)

	if snap, ok := prior.Get(SnapshotDiscrepancies); ok {
		if list, ok := snap.Data.([]Discrepancy); ok {
			stats.Discrepancies = len(list)
		}
	}
	return stats
}

// Refresh rebuilds every snapshot in dependency order and returns the
// structured report.
func (e *Engine) Refresh() (*RefreshReport, error) {
	return e.orch.RefreshAll()
}

// Store exposes the snapshot store for direct version queries.
func (e *Engine) Store() *SnapshotStore {
	return e.store
}

// Policy returns the thresholds the engine was built with.
func (e *Engine) Policy() Policy {
	return e.policy
}

// ItemSnapshots returns the current per-item snapshot set.
func (e *Engine) ItemSnapshots() ([]ItemSnapshot, error) {
	snap, ok := e.store.Get(SnapshotItems)
	if !ok {
		return nil, fmt.Errorf("snapshot %s not built yet", SnapshotItems)
	}
	return snap.Data.([]ItemSnapshot), nil
}

// ZoneSnapshots returns the current per-zone snapshot set.
func (e *Engine) ZoneSnapshots() ([]ZoneSnapshot, error) {
	snap, ok := e.store.Get(SnapshotZones)
	if !ok {
		return nil, fmt.Errorf("snapshot %s not built yet", SnapshotZones)
	}
	return snap.Data.([]ZoneSnapshot), nil
}

// WarehouseSnapshots returns the current per-warehouse snapshot set.
func (e *Engine) WarehouseSnapshots() ([]WarehouseSnapshot, error) {
	snap, ok := e.store.Get(SnapshotWarehouses)
	if !ok {
		return nil, fmt.Errorf("snapshot %s not built yet", SnapshotWarehouses)
	}
	return snap.Data.([]WarehouseSnapshot), nil
}

// Discrepancies returns the current top-N discrepancy list.
func (e *Engine) Discrepancies() ([]Discrepancy, error) {
	snap, ok := e.store.Get(SnapshotDiscrepancies)
	if !ok {
		return nil, fmt.Errorf("snapshot %s not built yet", SnapshotDiscrepancies)
	}
	return snap.Data.([]Discrepancy), nil
}

// Dashboard returns the current cross-warehouse rollup.
func (e *Engine) Dashboard() (DashboardStats, error) {
	snap, ok := e.store.Get(SnapshotDashboard)
	if !ok {
		return DashboardStats{}, fmt.Errorf("snapshot %s not built yet", SnapshotDashboard)
	}
	return snap.Data.(DashboardStats), nil
}
