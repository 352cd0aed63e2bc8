package engine

import "github.com/Jun0zo/SDS-Inventory-sub000/models"

// Dataset is one consistent read of everything a refresh cycle needs.
// Feed rows are pre-filtered to the newest batch per partition, so a
// build never mixes rows from two fetches of the same source.
type Dataset struct {
	Warehouses []models.Warehouse
	Zones      []models.Zone
	Items      []models.StorageItem
	Bindings   []models.SourceBinding
	Catalog    []models.MaterialCatalogEntry

	LocationRows []models.LocationRow
	StatusRows   []models.StatusRow
}

// DataSource loads a Dataset for the refresh orchestrator.
type DataSource interface {
	Load() (*Dataset, error)
}

// CatalogIndex maps normalized item codes to their catalog categories.
type CatalogIndex map[string]models.MaterialCatalogEntry

// NewCatalogIndex builds the lookup used for restriction checks and
// material summaries.
func NewCatalogIndex(entries []models.MaterialCatalogEntry) CatalogIndex {
	idx := make(CatalogIndex, len(entries))
	for _, e := range entries {
		idx[NormalizeCode(e.ItemCode)] = e
	}
	return idx
}

// Categories returns the major/minor pair for an item code, empty when
// the code is not cataloged.
func (ci CatalogIndex) Categories(itemCode string) (major, minor string) {
	e, ok := ci[NormalizeCode(itemCode)]
	if !ok {
		return "", ""
	}
	if e.MajorCategory != nil {
		major = *e.MajorCategory
	}
	if e.MinorCategory != nil {
		minor = *e.MinorCategory
	}
	return major, minor
}
