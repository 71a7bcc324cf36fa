package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project statuses. Free-form in the legacy data; new writes stick to these.
const (
	ProjectStatusPlanned   = "Planned"
	ProjectStatusActive    = "Active"
	ProjectStatusCompleted = "Completed"
	ProjectStatusOverdue   = "Overdue"
)

// Project is a tracked job. JobID is the human-assigned business key and is
// immutable once created; everything downstream (forms, stock requests)
// references it instead of the UUID.
type Project struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	JobID           string         `gorm:"size:50;uniqueIndex;not null" json:"job_id"`
	QuotationNumber string         `gorm:"size:100" json:"quotation_number"`
	Address         string         `gorm:"type:text" json:"address"`
	ManagerID       *uuid.UUID     `gorm:"type:uuid" json:"manager_id,omitempty"`
	Manager         *User          `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	DutyStaff       pq.StringArray `gorm:"type:text[]" json:"duty_staff"`
	HoursRequired   float64        `json:"hours_required"`
	StartDate       *time.Time     `json:"start_date,omitempty"`
	PlannedEndDate  *time.Time     `json:"planned_end_date,omitempty"`
	Status          string         `gorm:"size:50;not null;default:'Planned'" json:"status"`
	KeyCode         string         `gorm:"size:100" json:"key_code"`
	CompanyID       *uuid.UUID     `gorm:"type:uuid" json:"company_id,omitempty"`
	Company         *Company       `gorm:"foreignKey:CompanyID" json:"company,omitempty"`

	// Optional GeoJSON polygon of the site; used to sanity-check
	// delivery confirmations.
	SiteBoundary datatypes.JSON `gorm:"type:jsonb" json:"site_boundary,omitempty"`

	CreatedBy string         `gorm:"size:255" json:"created_by,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
