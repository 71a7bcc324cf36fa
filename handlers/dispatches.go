package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/fieldops/config"
	"p9e.in/fieldops/middleware"
	"p9e.in/fieldops/models"
)

type createDispatchReq struct {
	RequestID       string `json:"request_id"`
	DriverID        string `json:"driver_id"`
	ItemsDispatched string `json:"items_dispatched"`
	DispatchedQty   int64  `json:"dispatched_qty"`
}

// CreateDispatch godoc
// @Summary Dispatch an approved stock request
// @Tags dispatches
// @Router /api/v1/dispatches [post]
func CreateDispatch(w http.ResponseWriter, r *http.Request) {
	var req createDispatchReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	requestID, err := uuid.Parse(req.RequestID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request_id")
		return
	}
	driverID, err := uuid.Parse(req.DriverID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid driver_id")
		return
	}
	if req.DispatchedQty <= 0 {
		writeError(w, http.StatusBadRequest, "dispatched_qty must be positive")
		return
	}

	claims := middleware.GetClaims(r)
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing credentials")
		return
	}
	managerID, err := uuid.Parse(claims.UserID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token subject")
		return
	}

	dispatch, err := NewLifecycleEngine().CreateDispatch(
		requestID, managerID, driverID, req.ItemsDispatched, req.DispatchedQty, actorFromRequest(r))
	if err != nil {
		writeLifecycleError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dispatch)
}

// GetAllDispatches godoc
// @Summary List dispatches
// @Tags dispatches
// @Router /api/v1/dispatches [get]
func GetAllDispatches(w http.ResponseWriter, r *http.Request) {
	q := config.DB.Model(&models.Dispatch{}).Preload("Driver")

	if driverID := r.URL.Query().Get("driver_id"); driverID != "" {
		q = q.Where("driver_id = ?", driverID)
	}
	switch r.URL.Query().Get("pending") {
	case "delivery":
		q = q.Where("driver_confirmation IS NULL")
	case "receipt":
		q = q.Where("driver_confirmation IS NOT NULL AND site_worker_confirmation IS NULL")
	}

	var dispatches []models.Dispatch
	if err := q.Order("dispatch_date DESC").Find(&dispatches).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list dispatches")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"dispatches": dispatches,
		"total":      len(dispatches),
	})
}

// GetDispatch godoc
// @Summary Get one dispatch
// @Tags dispatches
// @Router /api/v1/dispatches/{id} [get]
func GetDispatch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid dispatch id")
		return
	}

	var dispatch models.Dispatch
	if err := config.DB.Preload("Driver").First(&dispatch, "id = ?", id).Error; err != nil {
		writeError(w, http.StatusNotFound, "dispatch not found")
		return
	}

	writeJSON(w, http.StatusOK, dispatch)
}

// ConfirmDelivery godoc
// @Summary Driver confirms goods were delivered
// @Tags dispatches
// @Router /api/v1/dispatches/{id}/confirm-delivery [post]
func ConfirmDelivery(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid dispatch id")
		return
	}

	dispatch, err := NewLifecycleEngine().ConfirmDelivery(id, actorFromRequest(r))
	if err != nil {
		writeLifecycleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dispatch)
}

// ConfirmReceipt godoc
// @Summary Site worker confirms goods were received
// @Tags dispatches
// @Router /api/v1/dispatches/{id}/confirm-receipt [post]
func ConfirmReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid dispatch id")
		return
	}

	dispatch, err := NewLifecycleEngine().ConfirmReceipt(id, actorFromRequest(r))
	if err != nil {
		writeLifecycleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dispatch)
}
