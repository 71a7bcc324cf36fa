package config

import (
	"errors"
	"log"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"p9e.in/fieldops/models"
)

// defaultPermissions is the closed permission catalog. Names use the
// resource:action format understood by utils.MatchesPermission.
func defaultPermissions() []models.Permission {
	return []models.Permission{
		// Administrator wildcard
		{ID: uuid.New(), Name: "*:*:*", Resource: "*", Action: "*", Description: "Administrator wildcard - all permissions"},

		// Projects
		{ID: uuid.New(), Name: "project:create", Resource: "project", Action: "create", Description: "Create project"},
		{ID: uuid.New(), Name: "project:read", Resource: "project", Action: "read", Description: "View project details"},
		{ID: uuid.New(), Name: "project:update", Resource: "project", Action: "update", Description: "Edit project"},
		{ID: uuid.New(), Name: "project:delete", Resource: "project", Action: "delete", Description: "Delete project"},

		// Companies
		{ID: uuid.New(), Name: "company:create", Resource: "company", Action: "create", Description: "Create company"},
		{ID: uuid.New(), Name: "company:read", Resource: "company", Action: "read", Description: "View companies"},
		{ID: uuid.New(), Name: "company:update", Resource: "company", Action: "update", Description: "Edit company"},
		{ID: uuid.New(), Name: "company:delete", Resource: "company", Action: "delete", Description: "Delete company"},

		// Inventory
		{ID: uuid.New(), Name: "inventory:create", Resource: "inventory", Action: "create", Description: "Record stock entry"},
		{ID: uuid.New(), Name: "inventory:read", Resource: "inventory", Action: "read", Description: "View inventory"},
		{ID: uuid.New(), Name: "inventory:delete", Resource: "inventory", Action: "delete", Description: "Remove inventory item"},

		// Stock requests
		{ID: uuid.New(), Name: "stock_request:create", Resource: "stock_request", Action: "create", Description: "Raise stock request"},
		{ID: uuid.New(), Name: "stock_request:read", Resource: "stock_request", Action: "read", Description: "View stock requests"},
		{ID: uuid.New(), Name: "stock_request:approve", Resource: "stock_request", Action: "approve", Description: "Approve or reject stock requests"},

		// Dispatches
		{ID: uuid.New(), Name: "dispatch:create", Resource: "dispatch", Action: "create", Description: "Dispatch approved requests"},
		{ID: uuid.New(), Name: "dispatch:read", Resource: "dispatch", Action: "read", Description: "View dispatches"},
		{ID: uuid.New(), Name: "dispatch:confirm_delivery", Resource: "dispatch", Action: "confirm_delivery", Description: "Driver delivery confirmation"},
		{ID: uuid.New(), Name: "dispatch:confirm_receipt", Resource: "dispatch", Action: "confirm_receipt", Description: "Site worker receipt confirmation"},

		// Forms
		{ID: uuid.New(), Name: "form:read", Resource: "form", Action: "read", Description: "View project forms"},
		{ID: uuid.New(), Name: "form:write", Resource: "form", Action: "write", Description: "Create or overwrite project forms"},
		{ID: uuid.New(), Name: "form:delete", Resource: "form", Action: "delete", Description: "Delete project forms"},

		// Alerts
		{ID: uuid.New(), Name: "alert:create", Resource: "alert", Action: "create", Description: "Raise alert"},
		{ID: uuid.New(), Name: "alert:read", Resource: "alert", Action: "read", Description: "View alerts"},
		{ID: uuid.New(), Name: "alert:settle", Resource: "alert", Action: "settle", Description: "Settle alert"},

		// Dashboards, exports, files
		{ID: uuid.New(), Name: "kpi:read", Resource: "kpi", Action: "read", Description: "View dashboard KPIs"},
		{ID: uuid.New(), Name: "export:read", Resource: "export", Action: "read", Description: "Download spreadsheet exports"},
		{ID: uuid.New(), Name: "file:create", Resource: "file", Action: "create", Description: "Upload files"},

		// User administration
		{ID: uuid.New(), Name: "user:create", Resource: "user", Action: "create", Description: "Create user"},
		{ID: uuid.New(), Name: "user:read", Resource: "user", Action: "read", Description: "View users"},
		{ID: uuid.New(), Name: "user:update", Resource: "user", Action: "update", Description: "Edit user"},
		{ID: uuid.New(), Name: "user:delete", Resource: "user", Action: "delete", Description: "Delete user"},
	}
}

// rolePermissionNames maps each seeded role to its grants.
func rolePermissionNames() map[string][]string {
	return map[string][]string{
		models.RoleAdministrator: {"*:*:*"},
		models.RoleManager: {
			"project:*", "company:read", "company:create", "company:update",
			"inventory:read", "stock_request:read", "stock_request:approve",
			"dispatch:create", "dispatch:read", "form:read", "form:write",
			"form:delete", "alert:read", "alert:settle", "kpi:read", "export:read",
			"file:create", "user:read",
		},
		models.RoleInventoryManager: {
			"inventory:*", "stock_request:read", "stock_request:approve",
			"dispatch:create", "dispatch:read", "alert:read", "alert:settle",
			"kpi:read", "export:read", "file:create",
		},
		models.RoleSiteWorker: {
			"project:read", "stock_request:create", "stock_request:read",
			"dispatch:read", "dispatch:confirm_receipt", "form:read",
			"form:write", "file:create",
		},
		models.RoleDriver: {
			"dispatch:read", "dispatch:confirm_delivery",
		},
	}
}

// SeedRolesAndAdmin makes the permission catalog, the five roles and the
// bootstrap admin exist. Idempotent: existing rows are left alone.
func SeedRolesAndAdmin(db *gorm.DB) error {
	// Permissions
	for _, perm := range defaultPermissions() {
		var existing models.Permission
		err := db.Where("name = ?", perm.Name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&perm).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}

	// Wildcard grants ("project:*") are stored as permission rows too so the
	// role association below stays a plain name lookup.
	for roleName, grants := range rolePermissionNames() {
		for _, name := range grants {
			var existing models.Permission
			err := db.Where("name = ?", name).First(&existing).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				resource, action := splitPermissionName(name)
				perm := models.Permission{
					ID: uuid.New(), Name: name,
					Resource: resource, Action: action,
					Description: "Wildcard grant for " + roleName,
				}
				if err := db.Create(&perm).Error; err != nil {
					return err
				}
			} else if err != nil {
				return err
			}
		}
	}

	// Roles with their permission associations
	for roleName, grants := range rolePermissionNames() {
		var role models.Role
		err := db.Where("name = ?", roleName).First(&role).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			role = models.Role{ID: uuid.New(), Name: roleName, IsActive: true}
			if err := db.Create(&role).Error; err != nil {
				return err
			}
			var perms []models.Permission
			if err := db.Where("name IN ?", grants).Find(&perms).Error; err != nil {
				return err
			}
			if err := db.Model(&role).Association("Permissions").Append(&perms); err != nil {
				return err
			}
			log.Printf("✅ Seeded role %s with %d permissions", roleName, len(perms))
		} else if err != nil {
			return err
		}
	}

	return seedAdminUser(db)
}

// seedAdminUser creates the bootstrap administrator from ADMIN_EMAIL /
// ADMIN_PASSWORD. Skipped when the env is absent or the user already exists.
func seedAdminUser(db *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var adminRole models.Role
	if err := db.Where("name = ?", models.RoleAdministrator).First(&adminRole).Error; err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		ID:           uuid.New(),
		Name:         "Administrator",
		Email:        email,
		Phone:        os.Getenv("ADMIN_PHONE"),
		PasswordHash: string(hash),
		Role:         models.RoleAdministrator,
		RoleID:       &adminRole.ID,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("✅ Seeded admin user %s", email)
	return nil
}

func splitPermissionName(name string) (resource, action string) {
	for i := 0; i < len(name); i++ {
		if name[i] == ':' {
			return name[:i], name[i+1:]
		}
	}
	return name, ""
}
