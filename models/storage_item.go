package models

import "time"

// Storage item kinds
const (
	ItemKindFlat = "flat"
	ItemKindRack = "rack"
)

// PlacementRestriction limits which materials may be placed in a cell,
// floor, or item. An explicit item-code allow-list (comma separated)
// takes precedence over the category pair; "any" is a wildcard.
type PlacementRestriction struct {
	MajorCategory *string `gorm:"type:varchar(50)" json:"major_category,omitempty"`
	MinorCategory *string `gorm:"type:varchar(50)" json:"minor_category,omitempty"`
	ItemCodes     *string `gorm:"type:varchar(500)" json:"item_codes,omitempty"`
}

// StorageItem represents storage_items table - a physical storage unit
// in a zone's layout. Flat items hold a single capacity value; rack
// items are subdivided into floor x column cells, each with its own
// capacity, availability and restriction.
type StorageItem struct {
	ItemID       uint   `gorm:"primaryKey;column:item_id" json:"item_id"`
	ZoneID       uint   `gorm:"not null" json:"zone_id"`
	LocationCode string `gorm:"type:varchar(40);not null" json:"location_code"`
	Kind         string `gorm:"type:varchar(10);not null" json:"kind"`

	// Flat items: single scalar capacity
	MaxCapacity *int `json:"max_capacity,omitempty"`

	// Rack items: physical dimensions. PerFloorSlots is the number of
	// addressable cells per floor and defaults to Rows x Cols.
	Floors        int  `gorm:"default:0" json:"floors"`
	Rows          int  `gorm:"default:0" json:"rows"`
	Cols          int  `gorm:"default:0" json:"cols"`
	PerFloorSlots *int `json:"per_floor_slots,omitempty"`

	// Item-level defaults for the override priority chain
	DefaultCellCapacity *int                 `json:"default_cell_capacity,omitempty"`
	DefaultAvailable    *bool                `json:"default_available,omitempty"`
	Restriction         PlacementRestriction `gorm:"embedded;embeddedPrefix:restrict_" json:"restriction"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Zone           Zone            `gorm:"foreignKey:ZoneID;references:ZoneID" json:"zone,omitempty"`
	FloorOverrides []FloorOverride `gorm:"foreignKey:ItemID;references:ItemID" json:"floor_overrides,omitempty"`
	CellOverrides  []CellOverride  `gorm:"foreignKey:ItemID;references:ItemID" json:"cell_overrides,omitempty"`
}

// TableName specifies the table name for StorageItem
func (StorageItem) TableName() string {
	return "storage_items"
}

// IsRack returns true for subdivided rack items
func (si *StorageItem) IsRack() bool {
	return si.Kind == ItemKindRack
}

// SlotsPerFloor returns the number of addressable cells on one floor
func (si *StorageItem) SlotsPerFloor() int {
	if si.PerFloorSlots != nil && *si.PerFloorSlots > 0 {
		return *si.PerFloorSlots
	}
	if si.Rows > 0 && si.Cols > 0 {
		return si.Rows * si.Cols
	}
	return 0
}

// FloorOverride represents floor_overrides table - attribute overrides
// covering a whole rack floor. FloorIdx is 1-based.
type FloorOverride struct {
	OverrideID  uint                 `gorm:"primaryKey;column:override_id" json:"override_id"`
	ItemID      uint                 `gorm:"not null;column:item_id" json:"item_id"`
	FloorIdx    int                  `gorm:"not null" json:"floor_idx"`
	Capacity    *int                 `json:"capacity,omitempty"`
	Available   *bool                `json:"available,omitempty"`
	Restriction PlacementRestriction `gorm:"embedded;embeddedPrefix:restrict_" json:"restriction"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// TableName specifies the table name for FloorOverride
func (FloorOverride) TableName() string {
	return "floor_overrides"
}

// CellOverride represents cell_overrides table - attribute overrides for
// a single rack cell. Indices are 1-based, matching feed conventions.
type CellOverride struct {
	OverrideID  uint                 `gorm:"primaryKey;column:override_id" json:"override_id"`
	ItemID      uint                 `gorm:"not null;column:item_id" json:"item_id"`
	FloorIdx    int                  `gorm:"not null" json:"floor_idx"`
	ColIdx      int                  `gorm:"not null" json:"col_idx"`
	Capacity    *int                 `json:"capacity,omitempty"`
	Available   *bool                `json:"available,omitempty"`
	Restriction PlacementRestriction `gorm:"embedded;embeddedPrefix:restrict_" json:"restriction"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// TableName specifies the table name for CellOverride
func (CellOverride) TableName() string {
	return "cell_overrides"
}
