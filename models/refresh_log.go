package models

import (
	"time"
)

// RefreshLog represents refresh_logs table - one row per refresh batch,
// persisted so operators can audit snapshot rebuild history.
type RefreshLog struct {
	LogID     uint      `gorm:"primaryKey;column:log_id" json:"log_id"`
	Trigger   string    `gorm:"type:varchar(20);not null" json:"trigger"`
	Attempted int       `gorm:"not null" json:"attempted"`
	Succeeded int       `gorm:"not null" json:"succeeded"`
	Failed    int       `gorm:"not null" json:"failed"`
	Detail    string    `gorm:"type:text" json:"detail"`
	DurationMs int64    `gorm:"not null" json:"duration_ms"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for RefreshLog
func (RefreshLog) TableName() string {
	return "refresh_logs"
}

// Refresh trigger constants
const (
	RefreshTriggerManual = "MANUAL"
	RefreshTriggerChange = "CHANGE"
	RefreshTriggerBoot   = "BOOT"
)
