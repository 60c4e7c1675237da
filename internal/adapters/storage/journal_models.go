package storage

import "time"

// EventModel is the GORM model for the events journal table
type EventModel struct {
	Action           string `gorm:"not null;default:''"`
	CreatedAt        time.Time
	ID               uint      `gorm:"primaryKey"`
	Kind             string    `gorm:"not null;index:idx_kind"`
	NotificationType string    `gorm:"default:''"`
	ObservedAt       time.Time `gorm:"not null;index:idx_observed_at"`
	SessionID        string    `gorm:"not null;index:idx_session_id"`
	ToolName         string    `gorm:"default:''"`
}

// TableName specifies the table name for GORM
func (EventModel) TableName() string { return "events" }
