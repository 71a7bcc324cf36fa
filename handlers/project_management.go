package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"p9e.in/fieldops/config"
	"p9e.in/fieldops/middleware"
	"p9e.in/fieldops/models"
	"p9e.in/fieldops/utils"
)

// ProjectHandler handles project management operations
type ProjectHandler struct {
	db *gorm.DB
}

// NewProjectHandler creates a new project handler
func NewProjectHandler() *ProjectHandler {
	return &ProjectHandler{db: config.DB}
}

// CreateProjectRequest represents the request to create a project
type CreateProjectRequest struct {
	JobID           string          `json:"job_id"`
	QuotationNumber string          `json:"quotation_number"`
	Address         string          `json:"address"`
	ManagerID       *uuid.UUID      `json:"manager_id"`
	DutyStaff       []string        `json:"duty_staff"`
	HoursRequired   float64         `json:"hours_required"`
	StartDate       *time.Time      `json:"start_date"`
	PlannedEndDate  *time.Time      `json:"planned_end_date"`
	Status          string          `json:"status"`
	KeyCode         string          `json:"key_code"`
	CompanyID       *uuid.UUID      `json:"company_id"`
	SiteBoundary    json.RawMessage `json:"site_boundary"`
}

// UpdateProjectRequest represents the request to update a project.
// JobID is deliberately absent: the business key is immutable.
type UpdateProjectRequest struct {
	QuotationNumber string          `json:"quotation_number"`
	Address         string          `json:"address"`
	ManagerID       *uuid.UUID      `json:"manager_id"`
	DutyStaff       []string        `json:"duty_staff"`
	HoursRequired   *float64        `json:"hours_required"`
	StartDate       *time.Time      `json:"start_date"`
	PlannedEndDate  *time.Time      `json:"planned_end_date"`
	Status          string          `json:"status"`
	KeyCode         string          `json:"key_code"`
	CompanyID       *uuid.UUID      `json:"company_id"`
	SiteBoundary    json.RawMessage `json:"site_boundary"`
}

var validProjectStatuses = map[string]bool{
	models.ProjectStatusPlanned:   true,
	models.ProjectStatusActive:    true,
	models.ProjectStatusCompleted: true,
	models.ProjectStatusOverdue:   true,
}

// CreateProject creates a new project. job_id uniqueness is enforced by the
// database, not by a pre-flight list, so concurrent creates can't both win.
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.JobID == "" || req.Address == "" {
		writeError(w, http.StatusBadRequest, "job_id and address are required")
		return
	}
	if req.Status != "" && !validProjectStatuses[req.Status] {
		writeError(w, http.StatusBadRequest, "unknown status: "+req.Status)
		return
	}
	if len(req.SiteBoundary) > 0 {
		if _, err := utils.ParseBoundary(req.SiteBoundary); err != nil {
			writeError(w, http.StatusBadRequest, "invalid site boundary: "+err.Error())
			return
		}
	}

	createdBy := ""
	if claims := middleware.GetClaims(r); claims != nil {
		createdBy = claims.UserID
	}

	project := models.Project{
		JobID:           req.JobID,
		QuotationNumber: req.QuotationNumber,
		Address:         req.Address,
		ManagerID:       req.ManagerID,
		DutyStaff:       pq.StringArray(req.DutyStaff),
		HoursRequired:   req.HoursRequired,
		StartDate:       req.StartDate,
		PlannedEndDate:  req.PlannedEndDate,
		Status:          req.Status,
		KeyCode:         req.KeyCode,
		CompanyID:       req.CompanyID,
		SiteBoundary:    datatypes.JSON(req.SiteBoundary),
		CreatedBy:       createdBy,
	}
	if project.Status == "" {
		project.Status = models.ProjectStatusPlanned
	}

	if err := h.db.Create(&project).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			writeError(w, http.StatusConflict, "job_id already exists: "+req.JobID)
			return
		}
		log.Printf("❌ Failed to create project: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create project")
		return
	}

	log.Printf("✅ Created project %s (job %s)", project.ID, project.JobID)
	writeJSON(w, http.StatusCreated, project)
}

// GetProject retrieves a project by ID or job_id
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["id"]

	var project models.Project
	query := h.db.Preload("Manager").Preload("Company")
	if _, err := uuid.Parse(key); err == nil {
		query = query.Where("id = ?", key)
	} else {
		query = query.Where("job_id = ?", key)
	}
	if err := query.First(&project).Error; err != nil {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// ListProjects lists all projects with filters
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	query := h.db.Preload("Company")

	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if managerID := r.URL.Query().Get("manager_id"); managerID != "" {
		query = query.Where("manager_id = ?", managerID)
	}
	if companyID := r.URL.Query().Get("company_id"); companyID != "" {
		query = query.Where("company_id = ?", companyID)
	}

	var projects []models.Project
	if err := query.Order("created_at DESC").Find(&projects).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch projects")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"projects": projects,
		"count":    len(projects),
	})
}

// UpdateProject updates a project in place. Attempts to change job_id are
// rejected rather than ignored so clients learn about the contract.
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["id"]

	var raw map[string]json.RawMessage
	body, err := decodeBodyMap(r, &raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if _, ok := raw["job_id"]; ok {
		writeError(w, http.StatusBadRequest, "job_id is immutable")
		return
	}

	var req UpdateProjectRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var project models.Project
	if err := h.db.First(&project, "id = ?", projectID).Error; err != nil {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}

	if req.QuotationNumber != "" {
		project.QuotationNumber = req.QuotationNumber
	}
	if req.Address != "" {
		project.Address = req.Address
	}
	if req.ManagerID != nil {
		project.ManagerID = req.ManagerID
	}
	if req.DutyStaff != nil {
		project.DutyStaff = pq.StringArray(req.DutyStaff)
	}
	if req.HoursRequired != nil {
		project.HoursRequired = *req.HoursRequired
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
	}
	if req.PlannedEndDate != nil {
		project.PlannedEndDate = req.PlannedEndDate
	}
	if req.Status != "" {
		if !validProjectStatuses[req.Status] {
			writeError(w, http.StatusBadRequest, "unknown status: "+req.Status)
			return
		}
		project.Status = req.Status
	}
	if req.KeyCode != "" {
		project.KeyCode = req.KeyCode
	}
	if req.CompanyID != nil {
		project.CompanyID = req.CompanyID
	}
	if len(req.SiteBoundary) > 0 {
		if _, err := utils.ParseBoundary(req.SiteBoundary); err != nil {
			writeError(w, http.StatusBadRequest, "invalid site boundary: "+err.Error())
			return
		}
		project.SiteBoundary = datatypes.JSON(req.SiteBoundary)
	}

	if err := h.db.Save(&project).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update project")
		return
	}

	log.Printf("✅ Updated project %s", project.ID)
	writeJSON(w, http.StatusOK, project)
}

// DeleteProject soft deletes a project
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["id"]

	var project models.Project
	if err := h.db.First(&project, "id = ?", projectID).Error; err != nil {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}

	if err := h.db.Delete(&project).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete project")
		return
	}

	log.Printf("✅ Deleted project %s", projectID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "project deleted"})
}

// GetProjectStats retrieves request/dispatch statistics for one project
func (h *ProjectHandler) GetProjectStats(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["id"]

	var project models.Project
	if err := h.db.First(&project, "id = ?", projectID).Error; err != nil {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}

	var requestStats []struct {
		ApprovalStatus string
		Count          int64
	}
	h.db.Model(&models.StockRequest{}).
		Select("approval_status, count(*) as count").
		Where("job_id = ?", project.JobID).
		Group("approval_status").
		Scan(&requestStats)

	var formCount int64
	h.db.Model(&models.ProjectForm{}).Where("job_id = ?", project.JobID).Count(&formCount)

	var dispatchCount int64
	h.db.Model(&models.Dispatch{}).
		Joins("JOIN stock_requests ON stock_requests.id = dispatches.request_id").
		Where("stock_requests.job_id = ?", project.JobID).
		Count(&dispatchCount)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"project_id":         project.ID,
		"job_id":             project.JobID,
		"status":             project.Status,
		"requests_by_status": requestStats,
		"dispatch_count":     dispatchCount,
		"form_count":         formCount,
	})
}

// decodeBodyMap reads the body once, returning both the raw bytes and the
// key set so handlers can distinguish "absent" from "zero".
func decodeBodyMap(r *http.Request, raw *map[string]json.RawMessage) ([]byte, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, raw); err != nil {
		return nil, err
	}
	return body, nil
}
