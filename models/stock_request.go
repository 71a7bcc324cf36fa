package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Approval statuses on a stock request. A request leaves Pending exactly once.
const (
	ApprovalPending  = "Pending"
	ApprovalApproved = "Approved"
	ApprovalRejected = "Rejected"
)

// Request types
const (
	RequestTypeStock  = "stock"
	RequestTypePickup = "pickup"
	RequestTypeBoth   = "both"
)

// Derived lifecycle states exposed on reads. Only ApprovalStatus and the two
// confirmation timestamps are stored; the rest falls out of LifecycleState.
const (
	StatePending         = "Pending"
	StateApproved        = "Approved"
	StateRejected        = "Rejected"
	StateDispatched      = "Dispatched"
	StateDriverConfirmed = "DriverConfirmed"
	StateDelivered       = "Delivered"
)

// StockRequest is a site worker's ask for material (or a pickup, or both).
type StockRequest struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SiteWorker       string    `gorm:"size:100;not null" json:"site_worker"`
	RequestDate      JSONTime  `gorm:"not null" json:"request_date"`
	ItemCode         string    `gorm:"size:50;index;not null" json:"item_code"`
	ItemName         string    `gorm:"size:255;not null" json:"item_name"`
	Quantity         int64     `gorm:"not null" json:"quantity"`
	DeliveryLocation string    `gorm:"type:text;not null" json:"delivery_location"`
	DeliveryLat      *float64  `json:"delivery_lat,omitempty"`
	DeliveryLng      *float64  `json:"delivery_lng,omitempty"`
	Urgency          string    `gorm:"size:50;not null;default:'normal'" json:"urgency"`
	JobID            string    `gorm:"size:50;index;not null" json:"job_id"`
	RequestorEmail   string    `gorm:"size:100;not null" json:"requestor_email"`
	RequestType      string    `gorm:"size:20;not null;default:'stock'" json:"request_type"`
	PickupLocation   *string   `gorm:"type:text" json:"pickup_location,omitempty"`
	PickupTime       *JSONTime `json:"pickup_time,omitempty"`

	ApprovalStatus string     `gorm:"size:20;index;not null;default:'Pending'" json:"approval_status"`
	DecisionBy     *string    `gorm:"size:255" json:"decision_by,omitempty"`
	DecisionTime   *time.Time `json:"decision_time,omitempty"`
	DecisionNote   *string    `gorm:"type:text" json:"decision_note,omitempty"`

	Dispatch *Dispatch `gorm:"foreignKey:RequestID" json:"dispatch,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// RequestTransition is the audit trail for lifecycle moves. Written in the
// same transaction as the state change it records.
type RequestTransition struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestID      uuid.UUID `gorm:"type:uuid;index;not null" json:"request_id"`
	FromState      string    `gorm:"size:50;not null" json:"from_state"`
	ToState        string    `gorm:"size:50;not null" json:"to_state"`
	Action         string    `gorm:"size:50;not null" json:"action"`
	ActorID        string    `gorm:"size:255;not null" json:"actor_id"`
	ActorName      string    `gorm:"size:255" json:"actor_name"`
	ActorRole      string    `gorm:"size:100" json:"actor_role"`
	Comment        string    `gorm:"type:text" json:"comment,omitempty"`
	TransitionedAt time.Time `gorm:"not null" json:"transitioned_at"`
}

// LifecycleState derives the exposed state from the request row and its
// dispatch (nil when none exists yet).
func LifecycleState(req *StockRequest, d *Dispatch) string {
	switch req.ApprovalStatus {
	case ApprovalRejected:
		return StateRejected
	case ApprovalPending:
		return StatePending
	}
	if d == nil {
		return StateApproved
	}
	if d.SiteWorkerConfirmation != nil {
		return StateDelivered
	}
	if d.DriverConfirmation != nil {
		return StateDriverConfirmed
	}
	return StateDispatched
}
