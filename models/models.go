package models

// AllModels returns all model structs for auto-migration
// IMPORTANT: Order matters! Parent tables must be created before child tables
func AllModels() []interface{} {
	return []interface{}{
		// 1. Independent tables (no foreign keys)
		&Warehouse{},
		&MaterialCatalogEntry{},

		// 2. Tables with single dependencies
		&Zone{},          // depends on: Warehouse
		&SourceBinding{}, // depends on: Warehouse

		// 3. Layout tables
		&StorageItem{},   // depends on: Zone
		&FloorOverride{}, // depends on: StorageItem
		&CellOverride{},  // depends on: StorageItem

		// 4. Append-only feed tables (no foreign keys; rows may arrive
		// before their partition is bound to a warehouse)
		&LocationRow{},
		&StatusRow{},

		// 5. Operational audit
		&RefreshLog{},
	}
}
