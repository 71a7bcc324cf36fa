package handlers

import (
	"testing"

	"p9e.in/fieldops/models"
)

func TestValidateStockEntry(t *testing.T) {
	existing := &models.InventoryItem{ItemCode: "CEM-001", ItemName: "Cement 50kg", Quantity: 40}

	tests := []struct {
		name     string
		req      StockEntryRequest
		existing *models.InventoryItem
		wantErr  bool
	}{
		{
			name:    "new item with full payload",
			req:     StockEntryRequest{ItemCode: "CEM-001", ItemName: "Cement 50kg", Quantity: 100},
			wantErr: false,
		},
		{
			name:    "missing item_code",
			req:     StockEntryRequest{ItemName: "Cement 50kg", Quantity: 100},
			wantErr: true,
		},
		{
			name:    "zero quantity",
			req:     StockEntryRequest{ItemCode: "CEM-001", ItemName: "Cement 50kg", Quantity: 0},
			wantErr: true,
		},
		{
			name:    "negative quantity",
			req:     StockEntryRequest{ItemCode: "CEM-001", ItemName: "Cement 50kg", Quantity: -5},
			wantErr: true,
		},
		{
			name:    "new item without name",
			req:     StockEntryRequest{ItemCode: "CEM-002", Quantity: 10},
			wantErr: true,
		},
		{
			name:     "existing item without name is fine",
			req:      StockEntryRequest{ItemCode: "CEM-001", Quantity: 10},
			existing: existing,
			wantErr:  false,
		},
		{
			name:     "existing item ignores conflicting name",
			req:      StockEntryRequest{ItemCode: "CEM-001", ItemName: "Something Else", Quantity: 10},
			existing: existing,
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStockEntry(&tt.req, tt.existing)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStockEntry() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
