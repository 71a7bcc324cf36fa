package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm/clause"
	"p9e.in/fieldops/config"
	"p9e.in/fieldops/middleware"
	"p9e.in/fieldops/models"
)

const (
	maxAttachmentBytes = 10 << 20 // decoded, per file
	maxAttachmentCount = 10
)

var allowedAttachmentTypes = map[string]bool{
	"image/png":       true,
	"image/jpeg":      true,
	"image/webp":      true,
	"application/pdf": true,
}

var validFormTypes = map[string]bool{
	models.FormTypeBT:          true,
	models.FormTypeQuotation:   true,
	models.FormTypeKeyHandover: true,
}

type formUpsertReq struct {
	FormData      json.RawMessage         `json:"form_data"`
	AttachedFiles []models.FormAttachment `json:"attached_files"`
}

// ValidateAttachments checks a form's attachment list against the upload
// limits. Size is computed from the base64 payload when present, otherwise
// the declared Size field is trusted (URL-only entries).
func ValidateAttachments(files []models.FormAttachment) error {
	if len(files) > maxAttachmentCount {
		return validationError(fmt.Sprintf("at most %d attachments allowed", maxAttachmentCount))
	}
	for i, f := range files {
		if f.Name == "" {
			return validationError(fmt.Sprintf("attachment %d has no name", i))
		}
		if !allowedAttachmentTypes[f.ContentType] {
			return validationError(fmt.Sprintf("attachment %q: content type %q not allowed", f.Name, f.ContentType))
		}
		size := f.Size
		if f.Data != "" {
			decoded, err := base64.StdEncoding.DecodeString(f.Data)
			if err != nil {
				return validationError(fmt.Sprintf("attachment %q: invalid base64 payload", f.Name))
			}
			size = int64(len(decoded))
		}
		if size > maxAttachmentBytes {
			return validationError(fmt.Sprintf("attachment %q exceeds %d bytes", f.Name, maxAttachmentBytes))
		}
	}
	return nil
}

// UpsertForm godoc
// @Summary Create or replace a form for a job
// @Tags forms
// @Router /api/v1/jobs/{job_id}/forms/{form_type} [put]
func UpsertForm(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	jobID := vars["job_id"]
	formType := vars["form_type"]

	if !validFormTypes[formType] {
		writeError(w, http.StatusBadRequest, "unknown form_type")
		return
	}

	var project models.Project
	if err := config.DB.Where("job_id = ?", jobID).First(&project).Error; err != nil {
		writeError(w, http.StatusNotFound, "unknown job_id")
		return
	}

	var req formUpsertReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.FormData) == 0 || !json.Valid(req.FormData) {
		writeError(w, http.StatusBadRequest, "form_data must be a JSON document")
		return
	}
	if err := ValidateAttachments(req.AttachedFiles); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	attached, err := json.Marshal(req.AttachedFiles)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode attachments")
		return
	}
	if req.AttachedFiles == nil {
		attached = []byte("[]")
	}

	updatedBy := ""
	if claims := middleware.GetClaims(r); claims != nil {
		updatedBy = claims.Email
	}

	form := models.ProjectForm{
		JobID:         jobID,
		FormType:      formType,
		FormData:      []byte(req.FormData),
		AttachedFiles: attached,
		UpdatedBy:     updatedBy,
	}
	// Upsert on (job_id, form_type); the PUT replaces the document wholesale.
	err = config.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "job_id"}, {Name: "form_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"form_data", "attached_files", "updated_by", "updated_at"}),
	}).Create(&form).Error
	if err != nil {
		log.Printf("❌ Failed to save %s for job %s: %v", formType, jobID, err)
		writeError(w, http.StatusInternalServerError, "failed to save form")
		return
	}

	var saved models.ProjectForm
	if err := config.DB.Where("job_id = ? AND form_type = ?", jobID, formType).First(&saved).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reload form")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// GetForm godoc
// @Summary Get one form for a job
// @Tags forms
// @Router /api/v1/jobs/{job_id}/forms/{form_type} [get]
func GetForm(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var form models.ProjectForm
	if err := config.DB.Where("job_id = ? AND form_type = ?", vars["job_id"], vars["form_type"]).
		First(&form).Error; err != nil {
		writeError(w, http.StatusNotFound, "form not found")
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// ListForms godoc
// @Summary List all forms captured for a job
// @Tags forms
// @Router /api/v1/jobs/{job_id}/forms [get]
func ListForms(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["job_id"]

	var project models.Project
	if err := config.DB.Where("job_id = ?", jobID).First(&project).Error; err != nil {
		writeError(w, http.StatusNotFound, "unknown job_id")
		return
	}

	var forms []models.ProjectForm
	if err := config.DB.Where("job_id = ?", jobID).Order("form_type ASC").Find(&forms).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list forms")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"job_id": jobID,
		"forms":  forms,
		"total":  len(forms),
	})
}

// DeleteForm godoc
// @Summary Delete a form
// @Tags forms
// @Router /api/v1/jobs/{job_id}/forms/{form_type} [delete]
func DeleteForm(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	res := config.DB.Where("job_id = ? AND form_type = ?", vars["job_id"], vars["form_type"]).
		Delete(&models.ProjectForm{})
	if res.Error != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete form")
		return
	}
	if res.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "form not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
