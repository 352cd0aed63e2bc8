package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Jun0zo/SDS-Inventory-sub000/database"
	"github.com/Jun0zo/SDS-Inventory-sub000/models"
)

// LocationRowPayload is one incoming location-feed row.
type LocationRowPayload struct {
	ItemCode     string   `json:"item_code"`
	ZoneCode     string   `json:"zone_code"`
	CellNo       string   `json:"cell_no"`
	LotNo        *string  `json:"lot_no"`
	AvailableQty *float64 `json:"available_qty"`
	TotalQty     *float64 `json:"total_qty"`
	InbDate      *string  `json:"inb_date"`
	ValidDate    *string  `json:"valid_date"`
	ProdDate     *string  `json:"prod_date"`
}

// StatusRowPayload is one incoming status-feed row.
type StatusRowPayload struct {
	ItemCode        string  `json:"item_code"`
	StorageLocation string  `json:"storage_location"`
	Batch           *string `json:"batch"`
	UnrestrictedQty float64 `json:"unrestricted_qty"`
	InspectionQty   float64 `json:"inspection_qty"`
	BlockedQty      float64 `json:"blocked_qty"`
	ReturnedQty     float64 `json:"returned_qty"`
}

// IngestRequest is one feed batch for a single partition.
type IngestRequest struct {
	SourceID     string               `json:"source_id"`
	SplitKey     *string              `json:"split_key"`
	FeedType     string               `json:"feed_type"`
	LocationRows []LocationRowPayload `json:"location_rows"`
	StatusRows   []StatusRowPayload   `json:"status_rows"`
}

// IngestResult reports what a batch load accepted. Rows are append
// only; the batch id is how this load is found again.
type IngestResult struct {
	BatchID  string   `json:"batch_id"`
	Accepted int      `json:"accepted"`
	Rejected int      `json:"rejected"`
	Errors   []string `json:"errors,omitempty"`
}

// IngestBatch appends one batch of feed rows and signals the refresh
// notifier. Rows with no item code are rejected individually; the rest
// of the batch still lands.
func IngestBatch(c *fiber.Ctx) error {
	var req IngestRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.SourceID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "source_id is required")
	}
	if req.FeedType != models.FeedTypeLocation && req.FeedType != models.FeedTypeStatus {
		return fiber.NewError(fiber.StatusBadRequest, "feed_type must be 'location' or 'status'")
	}

	now := time.Now()
	result := IngestResult{
		BatchID: fmt.Sprintf("%s-%s", req.SourceID, now.Format("20060102T150405.000")),
	}

	db := database.GetDB()

	switch req.FeedType {
	case models.FeedTypeLocation:
		rows := make([]models.LocationRow, 0, len(req.LocationRows))
		for i, p := range req.LocationRows {
			if p.ItemCode == "" || p.CellNo == "" {
				result.Rejected++
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: item_code and cell_no are required", i))
				continue
			}
			row := models.LocationRow{
				SourceID:     req.SourceID,
				SplitKey:     req.SplitKey,
				ItemCode:     p.ItemCode,
				ZoneCode:     p.ZoneCode,
				CellNo:       p.CellNo,
				LotNo:        p.LotNo,
				AvailableQty: p.AvailableQty,
				TotalQty:     p.TotalQty,
				FetchedAt:    now,
				BatchID:      result.BatchID,
			}
			row.InbDate = parseDate(p.InbDate)
			row.ValidDate = parseDate(p.ValidDate)
			row.ProdDate = parseDate(p.ProdDate)
			rows = append(rows, row)
		}
		if len(rows) > 0 {
			if err := db.CreateInBatches(rows, 500).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("failed to store location rows: %v", err))
			}
			result.Accepted = len(rows)
		}

	case models.FeedTypeStatus:
		rows := make([]models.StatusRow, 0, len(req.StatusRows))
		for i, p := range req.StatusRows {
			if p.ItemCode == "" {
				result.Rejected++
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: item_code is required", i))
				continue
			}
			rows = append(rows, models.StatusRow{
				SourceID:        req.SourceID,
				SplitKey:        req.SplitKey,
				ItemCode:        p.ItemCode,
				StorageLocation: p.StorageLocation,
				Batch:           p.Batch,
				UnrestrictedQty: p.UnrestrictedQty,
				InspectionQty:   p.InspectionQty,
				BlockedQty:      p.BlockedQty,
				ReturnedQty:     p.ReturnedQty,
				FetchedAt:       now,
				BatchID:         result.BatchID,
			})
		}
		if len(rows) > 0 {
			if err := db.CreateInBatches(rows, 500).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("failed to store status rows: %v", err))
			}
			result.Accepted = len(rows)
		}
	}

	if result.Accepted > 0 && Notifier != nil {
		Notifier.MarkDirty()
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func parseDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return &t
}
