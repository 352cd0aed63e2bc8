package models

import "time"

// Warehouse represents warehouses table
type Warehouse struct {
	WarehouseID   uint      `gorm:"primaryKey;column:warehouse_id" json:"warehouse_id"`
	WarehouseCode string    `gorm:"type:varchar(20);not null;unique" json:"warehouse_code"`
	WarehouseName string    `gorm:"type:varchar(100);not null" json:"warehouse_name"`
	Location      *string   `gorm:"type:varchar(200)" json:"location,omitempty"`
	ManagerName   *string   `gorm:"type:varchar(100)" json:"manager_name,omitempty"`
	// Which feed types this warehouse consumes
	ConsumesLocationFeed bool      `gorm:"default:true" json:"consumes_location_feed"`
	ConsumesStatusFeed   bool      `gorm:"default:true" json:"consumes_status_feed"`
	CreatedAt            time.Time `json:"created_at"`

	// Relationships - commented out to avoid circular dependency issues during migration
	// Zones          []Zone          `gorm:"foreignKey:WarehouseID" json:"zones,omitempty"`
	// SourceBindings []SourceBinding `gorm:"foreignKey:WarehouseID" json:"source_bindings,omitempty"`
}

// TableName specifies the table name for Warehouse
func (Warehouse) TableName() string {
	return "warehouses"
}

// Zone represents zones table. A zone belongs to exactly one warehouse
// and carries a versioned grid/layout configuration.
type Zone struct {
	ZoneID        uint      `gorm:"primaryKey;column:zone_id" json:"zone_id"`
	WarehouseID   uint      `gorm:"not null" json:"warehouse_id"`
	ZoneCode      string    `gorm:"type:varchar(30);not null" json:"zone_code"`
	ZoneName      *string   `gorm:"type:varchar(100)" json:"zone_name,omitempty"`
	LayoutVersion int       `gorm:"not null;default:1" json:"layout_version"`
	GridRows      *int      `json:"grid_rows,omitempty"`
	GridCols      *int      `json:"grid_cols,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relationships
	Warehouse Warehouse `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
}

// TableName specifies the table name for Zone
func (Zone) TableName() string {
	return "zones"
}
