package engine

import (
	"fmt"
	"log"
	"time"
)

// BuildFunc produces the data for one snapshot from a loaded dataset.
// prior gives read access to snapshots built earlier in the same pass.
type BuildFunc func(ds *Dataset, prior *SnapshotStore) (interface{}, error)

// SnapshotDef names one derived snapshot and its build function. Defs
// are executed in slice order, which encodes the dependency order.
type SnapshotDef struct {
	Name  string
	Build BuildFunc
}

// SnapshotResult reports one snapshot's outcome within a refresh pass.
type SnapshotResult struct {
	Name     string        `json:"name"`
	OK       bool          `json:"ok"`
	Version  uint64        `json:"version,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// RefreshReport summarizes a whole refresh pass.
type RefreshReport struct {
	Attempted int              `json:"attempted"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Results   []SnapshotResult `json:"results"`
	Duration  time.Duration    `json:"duration"`
}

// Orchestrator rebuilds every registered snapshot in dependency order,
// isolating per-snapshot failures. A failed rebuild leaves the prior
// version of that snapshot installed and queryable; the batch always
// runs to completion.
type Orchestrator struct {
	source DataSource
	store  *SnapshotStore
	defs   []SnapshotDef
}

// NewOrchestrator wires a data source, a store and the ordered
// snapshot definitions.
func NewOrchestrator(source DataSource, store *SnapshotStore, defs []SnapshotDef) *Orchestrator {
	return &Orchestrator{source: source, store: store, defs: defs}
}

// RefreshAll loads one dataset and rebuilds every snapshot against it.
// A dataset load failure fails the whole pass, since nothing can be
// built without base data; every later failure is per snapshot.
func (o *Orchestrator) RefreshAll() (*RefreshReport, error) {
	start := time.Now()

	ds, err := o.source.Load()
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}

	report := &RefreshReport{Attempted: len(o.defs)}
	for _, def := range o.defs {
		res := o.rebuild(ds, def)
		if res.OK {
			report.Succeeded++
		} else {
			report.Failed++
			log.Printf("snapshot %s rebuild failed: %s", def.Name, res.Error)
		}
		report.Results = append(report.Results, res)
	}
	report.Duration = time.Since(start)
	return report, nil
}

func (o *Orchestrator) rebuild(ds *Dataset, def SnapshotDef) (res SnapshotResult) {
	res.Name = def.Name
	start := time.Now()
	defer func() {
		res.Duration = time.Since(start)
		if r := recover(); r != nil {
			res.OK = false
			res.Error = fmt.Sprintf("panic: %v", r)
		}
	}()

	unlock := o.store.Lock(def.Name)
	defer unlock()

	data, err := def.Build(ds, o.store)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	snap := o.store.Install(def.Name, data)
	res.OK = true
	res.Version = snap.Version
	return res
}
