package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"p9e.in/fieldops/config"
	"p9e.in/fieldops/models"
)

// These tests exercise the guards that live in SQL (conditional updates, the
// unique dispatch index, the atomic decrement) and therefore need a real
// database. Point TEST_DB_DSN at a scratch Postgres to run them.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set; skipping database tests")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := config.Migrations(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	config.DB = db
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, role string) models.User {
	t.Helper()
	suffix := uuid.NewString()[:8]
	u := models.User{
		Name:         name,
		Email:        fmt.Sprintf("%s-%s@test.example", name, suffix),
		Phone:        suffix,
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedItem(t *testing.T, db *gorm.DB, qty int64) models.InventoryItem {
	t.Helper()
	item := models.InventoryItem{
		ItemCode:       "ITM-" + uuid.NewString()[:8],
		ItemName:       "Test Item",
		Quantity:       qty,
		StockEntryTime: time.Now(),
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return item
}

func seedProject(t *testing.T, db *gorm.DB) models.Project {
	t.Helper()
	p := models.Project{
		JobID:   "JOB-" + uuid.NewString()[:8],
		Address: "1 Test Lane",
		Status:  models.ProjectStatusActive,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return p
}

func seedRequest(t *testing.T, db *gorm.DB, jobID, itemCode, status string, qty int64, requestor string) models.StockRequest {
	t.Helper()
	req := models.StockRequest{
		SiteWorker:       "Test Worker",
		RequestDate:      models.JSONTime(time.Now()),
		ItemCode:         itemCode,
		ItemName:         "Test Item",
		Quantity:         qty,
		DeliveryLocation: "gate 3",
		Urgency:          "normal",
		JobID:            jobID,
		RequestorEmail:   requestor,
		RequestType:      models.RequestTypeStock,
		ApprovalStatus:   status,
	}
	if err := db.Create(&req).Error; err != nil {
		t.Fatalf("seed request: %v", err)
	}
	return req
}

func TestDecideRejectsSecondDecision(t *testing.T) {
	db := testDB(t)
	project := seedProject(t, db)
	item := seedItem(t, db, 100)

	decidedBy := "First Manager"
	request := seedRequest(t, db, project.JobID, item.ItemCode, models.ApprovalApproved, 10, "worker@test.example")
	db.Model(&request).Updates(map[string]interface{}{"decision_by": decidedBy, "decision_time": time.Now()})

	engine := NewLifecycleEngine()
	_, err := engine.Decide(request.ID, false, Actor{ID: uuid.NewString(), Name: "Second Manager", Role: models.RoleManager}, "changed my mind")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("Decide on decided request: err = %v, want ErrConflict", err)
	}

	var reloaded models.StockRequest
	if err := db.First(&reloaded, "id = ?", request.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.ApprovalStatus != models.ApprovalApproved {
		t.Errorf("approval_status = %q, want %q", reloaded.ApprovalStatus, models.ApprovalApproved)
	}
	if reloaded.DecisionBy == nil || *reloaded.DecisionBy != decidedBy {
		t.Errorf("decision_by changed: %v", reloaded.DecisionBy)
	}
}

func TestDispatchIsUniqueAndDecrementsStock(t *testing.T) {
	db := testDB(t)
	project := seedProject(t, db)
	item := seedItem(t, db, 100)
	manager := seedUser(t, db, "manager", models.RoleManager)
	driver := seedUser(t, db, "driver", models.RoleDriver)
	request := seedRequest(t, db, project.JobID, item.ItemCode, models.ApprovalApproved, 40, "worker@test.example")

	engine := NewLifecycleEngine()
	actor := Actor{ID: manager.ID.String(), Name: manager.Name, Role: models.RoleManager}

	if _, err := engine.CreateDispatch(request.ID, manager.ID, driver.ID, item.ItemName, 40, actor); err != nil {
		t.Fatalf("first dispatch: %v", err)
	}

	var after models.InventoryItem
	if err := db.First(&after, "id = ?", item.ID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if after.Quantity != 60 {
		t.Errorf("quantity after dispatch = %d, want 60", after.Quantity)
	}

	// A second dispatch for the same request must lose.
	if _, err := engine.CreateDispatch(request.ID, manager.ID, driver.ID, item.ItemName, 5, actor); !errors.Is(err, ErrConflict) {
		t.Errorf("second dispatch: err = %v, want ErrConflict", err)
	}

	// A dispatch bigger than what's on hand must not go negative.
	big := seedRequest(t, db, project.JobID, item.ItemCode, models.ApprovalApproved, 1000, "worker@test.example")
	if _, err := engine.CreateDispatch(big.ID, manager.ID, driver.ID, item.ItemName, 1000, actor); !errors.Is(err, ErrInsufficientStock) {
		t.Errorf("oversized dispatch: err = %v, want ErrInsufficientStock", err)
	}
	if err := db.First(&after, "id = ?", item.ID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if after.Quantity != 60 {
		t.Errorf("quantity after failed dispatch = %d, want 60", after.Quantity)
	}
}

func TestConfirmationsAreActorBoundAndOrdered(t *testing.T) {
	db := testDB(t)
	project := seedProject(t, db)
	item := seedItem(t, db, 100)
	manager := seedUser(t, db, "manager", models.RoleManager)
	driver := seedUser(t, db, "driver", models.RoleDriver)
	requestor := "asha@test.example"
	request := seedRequest(t, db, project.JobID, item.ItemCode, models.ApprovalApproved, 10, requestor)

	engine := NewLifecycleEngine()
	dispatch, err := engine.CreateDispatch(request.ID, manager.ID, driver.ID, item.ItemName, 10,
		Actor{ID: manager.ID.String(), Name: manager.Name, Role: models.RoleManager})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	requestorActor := Actor{ID: uuid.NewString(), Name: "Asha", Email: requestor, Role: models.RoleSiteWorker}
	strangerActor := Actor{ID: uuid.NewString(), Name: "Stranger", Email: "stranger@test.example", Role: models.RoleSiteWorker}
	driverActor := Actor{ID: driver.ID.String(), Name: driver.Name, Role: models.RoleDriver}

	// Receipt before the driver confirms is refused.
	if _, err := engine.ConfirmReceipt(dispatch.ID, requestorActor); !errors.Is(err, ErrConflict) {
		t.Errorf("receipt before delivery: err = %v, want ErrConflict", err)
	}

	// Only the assigned driver may confirm delivery.
	if _, err := engine.ConfirmDelivery(dispatch.ID, Actor{ID: uuid.NewString(), Name: "Not The Driver", Role: models.RoleDriver}); !errors.Is(err, ErrForbidden) {
		t.Errorf("delivery by wrong driver: err = %v, want ErrForbidden", err)
	}
	if _, err := engine.ConfirmDelivery(dispatch.ID, driverActor); err != nil {
		t.Fatalf("delivery by assigned driver: %v", err)
	}
	if _, err := engine.ConfirmDelivery(dispatch.ID, driverActor); !errors.Is(err, ErrConflict) {
		t.Errorf("second delivery confirmation: err = %v, want ErrConflict", err)
	}

	// A site worker with no tie to the job cannot confirm receipt.
	if _, err := engine.ConfirmReceipt(dispatch.ID, strangerActor); !errors.Is(err, ErrForbidden) {
		t.Errorf("receipt by stranger: err = %v, want ErrForbidden", err)
	}
	if _, err := engine.ConfirmReceipt(dispatch.ID, requestorActor); err != nil {
		t.Fatalf("receipt by requestor: %v", err)
	}
	if _, err := engine.ConfirmReceipt(dispatch.ID, requestorActor); !errors.Is(err, ErrConflict) {
		t.Errorf("second receipt confirmation: err = %v, want ErrConflict", err)
	}
}

func TestCreateStockRequestRejectsUnfillableQuantity(t *testing.T) {
	db := testDB(t)
	project := seedProject(t, db)
	item := seedItem(t, db, 5)

	body, _ := json.Marshal(map[string]interface{}{
		"site_worker":       "Test Worker",
		"item_code":         item.ItemCode,
		"item_name":         item.ItemName,
		"quantity":          50,
		"delivery_location": "gate 3",
		"job_id":            project.JobID,
	})
	r := httptest.NewRequest(http.MethodPost, "/api/v1/stock-requests", bytes.NewReader(body))
	w := httptest.NewRecorder()
	CreateStockRequest(w, r)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusConflict, w.Body.String())
	}
	var count int64
	db.Model(&models.StockRequest{}).Where("job_id = ?", project.JobID).Count(&count)
	if count != 0 {
		t.Errorf("request row created despite conflict")
	}
}

func TestCreateProjectRejectsDuplicateJobID(t *testing.T) {
	db := testDB(t)
	existing := seedProject(t, db)

	body, _ := json.Marshal(map[string]interface{}{
		"job_id":  existing.JobID,
		"address": "2 Other Road",
	})
	r := httptest.NewRequest(http.MethodPost, "/api/v1/projects", bytes.NewReader(body))
	w := httptest.NewRecorder()
	NewProjectHandler().CreateProject(w, r)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusConflict, w.Body.String())
	}
	var count int64
	db.Model(&models.Project{}).Where("job_id = ?", existing.JobID).Count(&count)
	if count != 1 {
		t.Errorf("duplicate job_id row created, count = %d", count)
	}
}
