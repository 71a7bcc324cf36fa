package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"p9e.in/fieldops/config"
	"p9e.in/fieldops/models"
)

// StockEntryRequest is one stock entry submission.
type StockEntryRequest struct {
	ItemCode    string `json:"item_code"`
	ItemName    string `json:"item_name"`
	Quantity    int64  `json:"quantity"`
	Description string `json:"description"`
}

// validationError marks failures the client caused; handlers map it to 400.
type validationError string

func (e validationError) Error() string { return string(e) }

// ValidateStockEntry applies the create-or-append rules for a stock entry
// against the existing item (nil when the code is new). For an existing code
// the name and description in the payload are ignored, not trusted — the UI
// locks those inputs but the server decides.
func ValidateStockEntry(req *StockEntryRequest, existing *models.InventoryItem) error {
	if req.ItemCode == "" {
		return validationError("item_code is required")
	}
	if req.Quantity <= 0 {
		return validationError("quantity must be positive")
	}
	if existing == nil && req.ItemName == "" {
		return validationError("item_name is required for a new item")
	}
	return nil
}

// CreateStockEntry is an upsert by item_code: a known code only gains
// quantity; an unknown code creates the item. Runs in one transaction with
// the row locked so two concurrent entries both land.
func CreateStockEntry(w http.ResponseWriter, r *http.Request) {
	var req StockEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var result models.InventoryItem
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.InventoryItem
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("item_code = ?", req.ItemCode).First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if verr := ValidateStockEntry(&req, nil); verr != nil {
				return verr
			}
			item := models.InventoryItem{
				ItemCode:       req.ItemCode,
				ItemName:       req.ItemName,
				Quantity:       req.Quantity,
				Description:    req.Description,
				StockEntryTime: time.Now(),
			}
			if cerr := tx.Create(&item).Error; cerr != nil {
				return cerr
			}
			result = item
			return nil
		case err != nil:
			return err
		default:
			if verr := ValidateStockEntry(&req, &existing); verr != nil {
				return verr
			}
			// Field locking: only quantity moves for a known code.
			existing.Quantity += req.Quantity
			existing.StockEntryTime = time.Now()
			if serr := tx.Save(&existing).Error; serr != nil {
				return serr
			}
			result = existing
			return nil
		}
	})
	if err != nil {
		var verr validationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		log.Printf("❌ Stock entry failed for %s: %v", req.ItemCode, err)
		writeError(w, http.StatusInternalServerError, "stock entry failed")
		return
	}

	log.Printf("✅ Stock entry %s: quantity now %d", result.ItemCode, result.Quantity)
	writeJSON(w, http.StatusCreated, result)
}

// GetAllInventory lists stock, optionally only items below a threshold.
func GetAllInventory(w http.ResponseWriter, r *http.Request) {
	query := config.DB.Model(&models.InventoryItem{})
	if r.URL.Query().Get("low_stock") == "true" {
		query = query.Where("quantity <= ?", lowStockThreshold)
	}

	var items []models.InventoryItem
	if err := query.Order("item_code").Find(&items).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch inventory")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

// GetInventoryItem fetches one item by item_code.
func GetInventoryItem(w http.ResponseWriter, r *http.Request) {
	var item models.InventoryItem
	if err := config.DB.Where("item_code = ?", mux.Vars(r)["item_code"]).First(&item).Error; err != nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// DeleteInventoryItem soft deletes an item.
func DeleteInventoryItem(w http.ResponseWriter, r *http.Request) {
	var item models.InventoryItem
	if err := config.DB.Where("item_code = ?", mux.Vars(r)["item_code"]).First(&item).Error; err != nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	if err := config.DB.Delete(&item).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "item deleted"})
}
