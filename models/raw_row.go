package models

import "time"

// LocationRow represents location_rows table - an append-only fact row
// from the location-tracking feed. Rows are immutable once fetched; a
// new fetch cycle appends rows under a new batch id, and "current" data
// is derived by most-recent-batch filtering at read time.
type LocationRow struct {
	RowID        uint       `gorm:"primaryKey;column:row_id" json:"row_id"`
	SourceID     string     `gorm:"type:varchar(64);not null;index" json:"source_id"`
	SplitKey     *string    `gorm:"type:varchar(100)" json:"split_key,omitempty"`
	ItemCode     string     `gorm:"type:varchar(60);not null" json:"item_code"`
	ZoneCode     string     `gorm:"type:varchar(30)" json:"zone_code"`
	CellNo       string     `gorm:"type:varchar(60);not null;index" json:"cell_no"`
	LotNo        *string    `gorm:"type:varchar(60)" json:"lot_no,omitempty"`
	AvailableQty *float64   `json:"available_qty,omitempty"`
	TotalQty     *float64   `json:"total_qty,omitempty"`
	InbDate      *time.Time `gorm:"type:date" json:"inb_date,omitempty"`
	ValidDate    *time.Time `gorm:"type:date" json:"valid_date,omitempty"`
	ProdDate     *time.Time `gorm:"type:date" json:"prod_date,omitempty"`
	FetchedAt    time.Time  `gorm:"not null;index" json:"fetched_at"`
	BatchID      string     `gorm:"type:varchar(64);not null;index" json:"batch_id"`
}

// TableName specifies the table name for LocationRow
func (LocationRow) TableName() string {
	return "location_rows"
}

// StatusRow represents status_rows table - an append-only fact row from
// the status-tracking feed, with quantity broken into four status buckets.
type StatusRow struct {
	RowID           uint      `gorm:"primaryKey;column:row_id" json:"row_id"`
	SourceID        string    `gorm:"type:varchar(64);not null;index" json:"source_id"`
	SplitKey        *string   `gorm:"type:varchar(100)" json:"split_key,omitempty"`
	ItemCode        string    `gorm:"type:varchar(60);not null" json:"item_code"`
	StorageLocation string    `gorm:"type:varchar(60)" json:"storage_location"`
	Batch           *string   `gorm:"type:varchar(60)" json:"batch,omitempty"`
	UnrestrictedQty float64   `gorm:"default:0" json:"unrestricted_qty"`
	InspectionQty   float64   `gorm:"default:0" json:"inspection_qty"`
	BlockedQty      float64   `gorm:"default:0" json:"blocked_qty"`
	ReturnedQty     float64   `gorm:"default:0" json:"returned_qty"`
	FetchedAt       time.Time `gorm:"not null;index" json:"fetched_at"`
	BatchID         string    `gorm:"type:varchar(64);not null;index" json:"batch_id"`
}

// TableName specifies the table name for StatusRow
func (StatusRow) TableName() string {
	return "status_rows"
}

// TotalQty returns the sum of all four status buckets
func (sr *StatusRow) TotalQty() float64 {
	return sr.UnrestrictedQty + sr.InspectionQty + sr.BlockedQty + sr.ReturnedQty
}
