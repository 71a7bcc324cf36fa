package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryItem is warehouse stock keyed by ItemCode. Quantity only moves
// through stock entries (additive upsert) and dispatch creation (conditional
// decrement inside the dispatch transaction).
type InventoryItem struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ItemCode       string         `gorm:"size:50;uniqueIndex;not null" json:"item_code"`
	ItemName       string         `gorm:"size:255;not null" json:"item_name"`
	Quantity       int64          `gorm:"not null;default:0" json:"quantity"`
	Description    string         `gorm:"type:text" json:"description"`
	StockEntryTime time.Time      `json:"stock_entry_time"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
