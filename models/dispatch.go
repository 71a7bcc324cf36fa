package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Dispatch records goods sent from inventory toward a project. At most one
// per stock request (unique index on RequestID). The two confirmations are
// one-way timestamp sets; once stamped they never change.
type Dispatch struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestID       uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"request_id"`
	ManagerID       uuid.UUID  `gorm:"type:uuid;not null" json:"manager_id"`
	Manager         *User      `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	DriverID        uuid.UUID  `gorm:"type:uuid;not null" json:"driver_id"`
	Driver          *User      `gorm:"foreignKey:DriverID" json:"driver,omitempty"`
	ItemsDispatched string     `gorm:"type:text;not null" json:"items_dispatched"`
	DispatchedQty   int64      `gorm:"not null" json:"dispatched_qty"`
	DispatchDate    time.Time  `gorm:"not null" json:"dispatch_date"`

	DriverConfirmation     *time.Time `json:"driver_confirmation,omitempty"`
	SiteWorkerConfirmation *time.Time `json:"site_worker_confirmation,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
