// models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role names form a closed set; seeding guarantees one Role row per name.
const (
	RoleAdministrator    = "Administrator"
	RoleManager          = "Manager"
	RoleInventoryManager = "InventoryManager"
	RoleSiteWorker       = "SiteWorker"
	RoleDriver           = "Driver"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string     `gorm:"size:100;not null" json:"name"`
	Email        string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone        string     `gorm:"size:15;uniqueIndex;not null" json:"phone"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	Role         string     `gorm:"size:50;not null;default:'SiteWorker'" json:"role"`
	RoleID       *uuid.UUID `gorm:"type:uuid" json:"role_id,omitempty"`
	RoleModel    *Role      `gorm:"foreignKey:RoleID" json:"-"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// HasPermission checks if user has a specific permission through their role
func (u *User) HasPermission(permissionName string) bool {
	if u.RoleModel != nil {
		return u.RoleModel.HasPermission(permissionName)
	}
	return false
}

// AllPermissions collects the permission names granted by the user's role
func (u *User) AllPermissions() []string {
	if u.Role == RoleAdministrator {
		return []string{"*:*:*"}
	}
	if u.RoleModel == nil {
		return []string{}
	}
	perms := make([]string, 0, len(u.RoleModel.Permissions))
	for _, p := range u.RoleModel.Permissions {
		perms = append(perms, p.Name)
	}
	return perms
}
