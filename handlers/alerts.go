package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/fieldops/config"
	"p9e.in/fieldops/models"
)

type createAlertReq struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// CreateAlert godoc
// @Summary Raise an alert
// @Tags alerts
// @Router /api/v1/alerts [post]
func CreateAlert(w http.ResponseWriter, r *http.Request) {
	var req createAlertReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Type == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "type and message are required")
		return
	}

	alert := models.Alert{
		Type:    req.Type,
		Message: req.Message,
		Date:    time.Now(),
	}
	if err := config.DB.Create(&alert).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create alert")
		return
	}
	writeJSON(w, http.StatusCreated, alert)
}

// GetAllAlerts godoc
// @Summary List alerts, newest first
// @Tags alerts
// @Router /api/v1/alerts [get]
func GetAllAlerts(w http.ResponseWriter, r *http.Request) {
	q := config.DB.Model(&models.Alert{})

	switch r.URL.Query().Get("settled") {
	case "true":
		q = q.Where("settled = ?", true)
	case "false":
		q = q.Where("settled = ?", false)
	}
	if alertType := r.URL.Query().Get("type"); alertType != "" {
		q = q.Where("type = ?", alertType)
	}

	var alerts []models.Alert
	if err := q.Order("date DESC").Find(&alerts).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list alerts")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": alerts,
		"total":  len(alerts),
	})
}

// SettleAlert godoc
// @Summary Mark an alert as settled
// @Tags alerts
// @Router /api/v1/alerts/{id}/settle [post]
func SettleAlert(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid alert id")
		return
	}

	now := time.Now()
	res := config.DB.Model(&models.Alert{}).
		Where("id = ? AND settled = ?", id, false).
		Updates(map[string]interface{}{"settled": true, "settled_time": now})
	if res.Error != nil {
		writeError(w, http.StatusInternalServerError, "failed to settle alert")
		return
	}
	if res.RowsAffected == 0 {
		var alert models.Alert
		if err := config.DB.First(&alert, "id = ?", id).Error; err != nil {
			writeError(w, http.StatusNotFound, "alert not found")
			return
		}
		writeError(w, http.StatusConflict, "alert already settled")
		return
	}

	var alert models.Alert
	if err := config.DB.First(&alert, "id = ?", id).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reload alert")
		return
	}
	writeJSON(w, http.StatusOK, alert)
}
