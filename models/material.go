package models

import "time"

// MaterialCatalogEntry represents material_catalog table - item code to
// category classification, maintained by the catalog collaborator and
// read-only to the reconciliation engine.
type MaterialCatalogEntry struct {
	EntryID       uint      `gorm:"primaryKey;column:entry_id" json:"entry_id"`
	ItemCode      string    `gorm:"type:varchar(60);not null;unique" json:"item_code"`
	MajorCategory *string   `gorm:"type:varchar(50)" json:"major_category,omitempty"`
	MinorCategory *string   `gorm:"type:varchar(50)" json:"minor_category,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for MaterialCatalogEntry
func (MaterialCatalogEntry) TableName() string {
	return "material_catalog"
}
