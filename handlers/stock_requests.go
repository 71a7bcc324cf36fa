package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"p9e.in/fieldops/config"
	"p9e.in/fieldops/middleware"
	"p9e.in/fieldops/models"
	"p9e.in/fieldops/utils"
)

var validUrgencies = map[string]bool{
	"low":    true,
	"normal": true,
	"high":   true,
	"urgent": true,
}

var validRequestTypes = map[string]bool{
	models.RequestTypeStock:  true,
	models.RequestTypePickup: true,
	models.RequestTypeBoth:   true,
}

type createRequestReq struct {
	SiteWorker       string           `json:"site_worker"`
	RequestDate      *models.JSONTime `json:"request_date"`
	ItemCode         string           `json:"item_code"`
	ItemName         string           `json:"item_name"`
	Quantity         int64            `json:"quantity"`
	DeliveryLocation string           `json:"delivery_location"`
	DeliveryLat      *float64         `json:"delivery_lat"`
	DeliveryLng      *float64         `json:"delivery_lng"`
	Urgency          string           `json:"urgency"`
	JobID            string           `json:"job_id"`
	RequestType      string           `json:"request_type"`
	PickupLocation   *string          `json:"pickup_location"`
	PickupTime       *models.JSONTime `json:"pickup_time"`
}

// stockRequestView is the read shape: the stored row plus the derived state
// so clients never have to reimplement the lifecycle rules.
type stockRequestView struct {
	models.StockRequest
	State string `json:"state"`
}

func requestView(req models.StockRequest) stockRequestView {
	return stockRequestView{StockRequest: req, State: models.LifecycleState(&req, req.Dispatch)}
}

// CreateStockRequest godoc
// @Summary Create a stock or pickup request
// @Tags stock-requests
// @Router /api/v1/stock-requests [post]
func CreateStockRequest(w http.ResponseWriter, r *http.Request) {
	var req createRequestReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ItemCode == "" || req.ItemName == "" || req.JobID == "" {
		writeError(w, http.StatusBadRequest, "item_code, item_name and job_id are required")
		return
	}
	if req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}
	if req.Urgency == "" {
		req.Urgency = "normal"
	}
	if !validUrgencies[req.Urgency] {
		writeError(w, http.StatusBadRequest, "urgency must be one of low, normal, high, urgent")
		return
	}
	if req.RequestType == "" {
		req.RequestType = models.RequestTypeStock
	}
	if !validRequestTypes[req.RequestType] {
		writeError(w, http.StatusBadRequest, "request_type must be one of stock, pickup, both")
		return
	}
	if req.RequestType != models.RequestTypeStock && (req.PickupLocation == nil || *req.PickupLocation == "") {
		writeError(w, http.StatusBadRequest, "pickup_location is required for pickup requests")
		return
	}
	if req.DeliveryLocation == "" && req.RequestType != models.RequestTypePickup {
		writeError(w, http.StatusBadRequest, "delivery_location is required")
		return
	}
	if (req.DeliveryLat == nil) != (req.DeliveryLng == nil) {
		writeError(w, http.StatusBadRequest, "delivery_lat and delivery_lng must be provided together")
		return
	}
	if req.DeliveryLat != nil {
		if err := utils.ValidateCoordinate(*req.DeliveryLat, *req.DeliveryLng); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	var project models.Project
	if err := config.DB.Where("job_id = ?", req.JobID).First(&project).Error; err != nil {
		writeError(w, http.StatusBadRequest, "unknown job_id")
		return
	}

	// Delivery point, when given, must fall inside the site boundary.
	if req.DeliveryLat != nil && len(project.SiteBoundary) > 0 {
		area, err := utils.ParseBoundary(project.SiteBoundary)
		if err == nil && !utils.BoundaryContains(area, *req.DeliveryLat, *req.DeliveryLng) {
			writeError(w, http.StatusBadRequest, "delivery point is outside the project site boundary")
			return
		}
	}

	// Advisory availability check. The authoritative guard is the conditional
	// decrement at dispatch time, but an obviously unfillable request is
	// rejected up front.
	if req.RequestType != models.RequestTypePickup {
		var item models.InventoryItem
		err := config.DB.Where("item_code = ?", req.ItemCode).First(&item).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			writeError(w, http.StatusBadRequest, "unknown item_code")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "failed to check inventory")
			return
		case item.Quantity < req.Quantity:
			writeError(w, http.StatusConflict, "requested quantity exceeds available stock")
			return
		}
	}

	claims := middleware.GetClaims(r)
	siteWorker := req.SiteWorker
	if siteWorker == "" && claims != nil {
		siteWorker = claims.Name
	}
	requestorEmail := ""
	if claims != nil {
		requestorEmail = claims.Email
	}

	requestDate := models.JSONTime(time.Now())
	if req.RequestDate != nil {
		requestDate = *req.RequestDate
	}

	request := models.StockRequest{
		SiteWorker:       siteWorker,
		RequestDate:      requestDate,
		ItemCode:         req.ItemCode,
		ItemName:         req.ItemName,
		Quantity:         req.Quantity,
		DeliveryLocation: req.DeliveryLocation,
		DeliveryLat:      req.DeliveryLat,
		DeliveryLng:      req.DeliveryLng,
		Urgency:          req.Urgency,
		JobID:            req.JobID,
		RequestorEmail:   requestorEmail,
		RequestType:      req.RequestType,
		PickupLocation:   req.PickupLocation,
		PickupTime:       req.PickupTime,
		ApprovalStatus:   models.ApprovalPending,
	}
	if err := config.DB.Create(&request).Error; err != nil {
		log.Printf("❌ Failed to create stock request: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create stock request")
		return
	}

	writeJSON(w, http.StatusCreated, requestView(request))
}

// GetAllStockRequests godoc
// @Summary List stock requests with optional filters
// @Tags stock-requests
// @Router /api/v1/stock-requests [get]
func GetAllStockRequests(w http.ResponseWriter, r *http.Request) {
	q := config.DB.Model(&models.StockRequest{}).Preload("Dispatch")

	if status := r.URL.Query().Get("approval_status"); status != "" {
		q = q.Where("approval_status = ?", status)
	}
	if jobID := r.URL.Query().Get("job_id"); jobID != "" {
		q = q.Where("job_id = ?", jobID)
	}
	if requestor := r.URL.Query().Get("requestor"); requestor != "" {
		q = q.Where("requestor_email = ?", requestor)
	}
	if urgency := r.URL.Query().Get("urgency"); urgency != "" {
		q = q.Where("urgency = ?", urgency)
	}

	var requests []models.StockRequest
	if err := q.Order("created_at DESC").Find(&requests).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list stock requests")
		return
	}

	// Derived-state filtering happens after the fetch; the state is not a
	// stored column.
	stateFilter := r.URL.Query().Get("state")
	views := make([]stockRequestView, 0, len(requests))
	for _, req := range requests {
		v := requestView(req)
		if stateFilter != "" && v.State != stateFilter {
			continue
		}
		views = append(views, v)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"requests": views,
		"total":    len(views),
	})
}

// GetStockRequest godoc
// @Summary Get one stock request with its transition history
// @Tags stock-requests
// @Router /api/v1/stock-requests/{id} [get]
func GetStockRequest(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var request models.StockRequest
	if err := config.DB.Preload("Dispatch").Preload("Dispatch.Driver").
		First(&request, "id = ?", id).Error; err != nil {
		writeError(w, http.StatusNotFound, "stock request not found")
		return
	}

	history, err := NewLifecycleEngine().History(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"request": requestView(request),
		"history": history,
	})
}

type decisionReq struct {
	Comment string `json:"comment"`
}

// ApproveStockRequest godoc
// @Summary Approve a pending stock request
// @Tags stock-requests
// @Router /api/v1/stock-requests/{id}/approve [post]
func ApproveStockRequest(w http.ResponseWriter, r *http.Request) {
	decideStockRequest(w, r, true)
}

// RejectStockRequest godoc
// @Summary Reject a pending stock request
// @Tags stock-requests
// @Router /api/v1/stock-requests/{id}/reject [post]
func RejectStockRequest(w http.ResponseWriter, r *http.Request) {
	decideStockRequest(w, r, false)
}

func decideStockRequest(w http.ResponseWriter, r *http.Request, approve bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var body decisionReq
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	if !approve && body.Comment == "" {
		writeError(w, http.StatusBadRequest, "a comment is required when rejecting")
		return
	}

	request, err := NewLifecycleEngine().Decide(id, approve, actorFromRequest(r), body.Comment)
	if err != nil {
		writeLifecycleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestView(*request))
}

func actorFromRequest(r *http.Request) Actor {
	claims := middleware.GetClaims(r)
	if claims == nil {
		return Actor{}
	}
	return Actor{ID: claims.UserID, Name: claims.Name, Email: claims.Email, Role: claims.Role}
}

func writeLifecycleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrConflict), errors.Is(err, ErrInsufficientStock):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		log.Printf("❌ Lifecycle operation failed: %v", err)
		writeError(w, http.StatusInternalServerError, "operation failed")
	}
}
