package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Alert types raised by the lifecycle itself; clients may create others.
const (
	AlertTypeRequestRejected = "request_rejected"
	AlertTypeStockDepleted   = "stock_depleted"
)

// Alert is a dashboard notice. Settling is one-way: settled flips from false
// to true once, stamping SettledTime.
type Alert struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Type        string         `gorm:"size:50;not null" json:"type"`
	Message     string         `gorm:"type:text;not null" json:"message"`
	Date        time.Time      `gorm:"not null" json:"date"`
	Settled     bool           `gorm:"not null;default:false;index" json:"settled"`
	SettledTime *time.Time     `json:"settled_time,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
