package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/Jun0zo/SDS-Inventory-sub000/engine"
)

// currentLocationRowsSQL selects the newest batch per feed partition.
// History is append-only; "current" is derived at read time rather than
// by mutating old rows.
const currentLocationRowsSQL = `
	WITH latest AS (
		SELECT DISTINCT ON (source_id, COALESCE(split_key, ''))
			source_id, COALESCE(split_key, '') AS sk, batch_id
		FROM location_rows
		ORDER BY source_id, COALESCE(split_key, ''), fetched_at DESC
	)
	SELECT lr.* FROM location_rows lr
	JOIN latest l
		ON lr.source_id = l.source_id
		AND COALESCE(lr.split_key, '') = l.sk
		AND lr.batch_id = l.batch_id
`

const currentStatusRowsSQL = `
	WITH latest AS (
		SELECT DISTINCT ON (source_id, COALESCE(split_key, ''))
			source_id, COALESCE(split_key, '') AS sk, batch_id
		FROM status_rows
		ORDER BY source_id, COALESCE(split_key, ''), fetched_at DESC
	)
	SELECT sr.* FROM status_rows sr
	JOIN latest l
		ON sr.source_id = l.source_id
		AND COALESCE(sr.split_key, '') = l.sk
		AND sr.batch_id = l.batch_id
`

// EngineSource loads a refresh dataset from the database. It is the
// engine's only read path into base data; the engine never writes
// through it.
type EngineSource struct {
	db *gorm.DB
}

// NewEngineSource creates an EngineSource over a connection.
func NewEngineSource(db *gorm.DB) *EngineSource {
	return &EngineSource{db: db}
}

// Load reads layout, bindings, catalog and the current batch of both
// feeds into one dataset.
func (s *EngineSource) Load() (*engine.Dataset, error) {
	ds := &engine.Dataset{}

	if err := s.db.Find(&ds.Warehouses).Error; err != nil {
		return nil, fmt.Errorf("loading warehouses: %w", err)
	}
	if err := s.db.Find(&ds.Zones).Error; err != nil {
		return nil, fmt.Errorf("loading zones: %w", err)
	}
	if err := s.db.Preload("FloorOverrides").Preload("CellOverrides").Find(&ds.Items).Error; err != nil {
		return nil, fmt.Errorf("loading storage items: %w", err)
	}
	if err := s.db.Find(&ds.Bindings).Error; err != nil {
		return nil, fmt.Errorf("loading source bindings: %w", err)
	}
	if err := s.db.Find(&ds.Catalog).Error; err != nil {
		return nil, fmt.Errorf("loading material catalog: %w", err)
	}

	if err := s.db.Raw(currentLocationRowsSQL).Scan(&ds.LocationRows).Error; err != nil {
		return nil, fmt.Errorf("loading current location rows: %w", err)
	}
	if err := s.db.Raw(currentStatusRowsSQL).Scan(&ds.StatusRows).Error; err != nil {
		return nil, fmt.Errorf("loading current status rows: %w", err)
	}

	return ds, nil
}

var _ engine.DataSource = (*EngineSource)(nil)

// ExpiringItem is one lot nearing its validity date, for the dashboard
// expiry widget.
type ExpiringItem struct {
	ItemCode  string  `json:"item_code"`
	LotNo     *string `json:"lot_no,omitempty"`
	CellNo    string  `json:"cell_no"`
	ZoneCode  string  `json:"zone_code"`
	Quantity  float64 `json:"quantity"`
	ValidDate string  `json:"valid_date"`
	DaysLeft  int     `json:"days_left"`
}

// ExpiringItems lists current-batch location rows whose validity date
// falls within the next `days` days.
func ExpiringItems(db *gorm.DB, days int) ([]ExpiringItem, error) {
	var out []ExpiringItem
	query := `
		WITH latest AS (
			SELECT DISTINCT ON (source_id, COALESCE(split_key, ''))
				source_id, COALESCE(split_key, '') AS sk, batch_id
			FROM location_rows
			ORDER BY source_id, COALESCE(split_key, ''), fetched_at DESC
		)
		SELECT
			lr.item_code,
			lr.lot_no,
			lr.cell_no,
			lr.zone_code,
			COALESCE(lr.available_qty, lr.total_qty, 1) AS quantity,
			TO_CHAR(lr.valid_date, 'YYYY-MM-DD') AS valid_date,
			(lr.valid_date - CURRENT_DATE) AS days_left
		FROM location_rows lr
		JOIN latest l
			ON lr.source_id = l.source_id
			AND COALESCE(lr.split_key, '') = l.sk
			AND lr.batch_id = l.batch_id
		WHERE lr.valid_date IS NOT NULL
			AND lr.valid_date <= CURRENT_DATE + ?::int
		ORDER BY lr.valid_date ASC, lr.item_code ASC
	`
	if err := db.Raw(query, days).Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("loading expiring items: %w", err)
	}
	return out, nil
}
