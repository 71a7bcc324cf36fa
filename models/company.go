package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company is a client organisation that projects are executed for.
type Company struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string         `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Address      string         `gorm:"type:text" json:"address"`
	ContactName  string         `gorm:"size:100" json:"contact_name"`
	ContactEmail string         `gorm:"size:100" json:"contact_email"`
	ContactPhone string         `gorm:"size:20" json:"contact_phone"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Company) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
