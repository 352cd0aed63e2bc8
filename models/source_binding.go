package models

import "time"

// Feed types a source binding can carry
const (
	FeedTypeLocation = "location"
	FeedTypeStatus   = "status"
)

// SourceBinding represents source_bindings table - maps a feed source
// partition (plus optional split value) to a warehouse and zone context.
// Each (source_id, split_value) pair binds to at most one warehouse;
// exclusivity is enforced at write time.
type SourceBinding struct {
	BindingID   uint      `gorm:"primaryKey;column:binding_id" json:"binding_id"`
	WarehouseID uint      `gorm:"not null" json:"warehouse_id"`
	SourceID    string    `gorm:"type:varchar(64);not null" json:"source_id"`
	SplitValue  *string   `gorm:"type:varchar(100)" json:"split_value,omitempty"`
	FeedType    string    `gorm:"type:varchar(10);not null" json:"feed_type"`
	ZoneCode    string    `gorm:"type:varchar(30);not null" json:"zone_code"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Warehouse Warehouse `gorm:"foreignKey:WarehouseID;references:WarehouseID" json:"warehouse,omitempty"`
}

// TableName specifies the table name for SourceBinding
func (SourceBinding) TableName() string {
	return "source_bindings"
}
