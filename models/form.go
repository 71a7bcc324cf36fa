package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Known form types. The server stores all of them identically; the type tag
// exists so a project carries at most one form of each kind.
const (
	FormTypeBT          = "bt-form"
	FormTypeQuotation   = "quotation-form"
	FormTypeKeyHandover = "key-handover-form"
)

// ProjectForm stores one captured form per (JobID, FormType). FormData is an
// opaque JSON document; PUT overwrites it wholesale, no versioning.
type ProjectForm struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	JobID         string         `gorm:"size:50;not null;uniqueIndex:idx_forms_job_type" json:"job_id"`
	FormType      string         `gorm:"size:50;not null;uniqueIndex:idx_forms_job_type" json:"form_type"`
	FormData      datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'" json:"form_data"`
	AttachedFiles datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'" json:"attached_files"`
	UpdatedBy     string         `gorm:"size:255" json:"updated_by,omitempty"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// FormAttachment is the JSON shape of one element of AttachedFiles.
// Data carries the base64 payload; Size is the decoded byte count.
type FormAttachment struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Data        string `json:"data,omitempty"`
	URL         string `json:"url,omitempty"`
}
