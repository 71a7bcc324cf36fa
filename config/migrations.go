package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
	"p9e.in/fieldops/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250812_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.Company{}, &models.Project{},
					&models.InventoryItem{}, &models.StockRequest{}, &models.Dispatch{},
					&models.ProjectForm{}, &models.Alert{})
			},
		},
		{
			ID: "20250812_add_rbac_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Permission{}, &models.Role{}, &models.RolePermission{})
			},
		},
		{
			ID: "20250819_add_request_transitions",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.RequestTransition{})
			},
		},
		{
			ID: "20250826_request_quantity_positive",
			Migrate: func(tx *gorm.DB) error {
				// Guard rail the ORM tags can't express. The constraint may
				// already exist on a restored dump, so the error is ignored.
				tx.Exec("ALTER TABLE stock_requests ADD CONSTRAINT chk_stock_requests_quantity_positive CHECK (quantity > 0)")
				return nil
			},
		},
		{
			ID: "20250826_inventory_quantity_nonnegative",
			Migrate: func(tx *gorm.DB) error {
				tx.Exec("ALTER TABLE inventory_items ADD CONSTRAINT chk_inventory_items_quantity_nonnegative CHECK (quantity >= 0)")
				return nil
			},
		},
	})
	return m.Migrate()
}
