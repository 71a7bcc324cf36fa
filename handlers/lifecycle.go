package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"p9e.in/fieldops/config"
	"p9e.in/fieldops/models"
)

// Sentinel errors the endpoints translate into status codes.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrForbidden         = errors.New("forbidden")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Actor identifies who is driving a transition, for the audit trail and for
// binding confirmations to the people the dispatch actually concerns.
type Actor struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// LifecycleEngine moves stock requests through their states. Every mutation
// is a conditional write inside a transaction, paired with a transition row;
// a second actor racing the same move loses with ErrConflict instead of
// silently re-stamping the decision.
type LifecycleEngine struct {
	db *gorm.DB
}

func NewLifecycleEngine() *LifecycleEngine {
	return &LifecycleEngine{db: config.DB}
}

// Decide approves or rejects a Pending request. The guard is the
// WHERE approval_status = 'Pending' clause: zero rows affected means someone
// else decided first (or the request never existed).
func (e *LifecycleEngine) Decide(requestID uuid.UUID, approve bool, actor Actor, comment string) (*models.StockRequest, error) {
	decision := models.ApprovalApproved
	action := "approve"
	if !approve {
		decision = models.ApprovalRejected
		action = "reject"
	}
	now := time.Now()

	var request models.StockRequest
	err := e.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"approval_status": decision,
			"decision_by":     actor.Name,
			"decision_time":   now,
		}
		if comment != "" {
			updates["decision_note"] = comment
		}
		res := tx.Model(&models.StockRequest{}).
			Where("id = ? AND approval_status = ?", requestID, models.ApprovalPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var existing models.StockRequest
			if err := tx.First(&existing, "id = ?", requestID).Error; err != nil {
				return fmt.Errorf("%w: stock request %s", ErrNotFound, requestID)
			}
			return fmt.Errorf("%w: request already %s", ErrConflict, existing.ApprovalStatus)
		}

		transition := models.RequestTransition{
			RequestID:      requestID,
			FromState:      models.StatePending,
			ToState:        decision,
			Action:         action,
			ActorID:        actor.ID,
			ActorName:      actor.Name,
			ActorRole:      actor.Role,
			Comment:        comment,
			TransitionedAt: now,
		}
		if err := tx.Create(&transition).Error; err != nil {
			return err
		}

		if err := tx.First(&request, "id = ?", requestID).Error; err != nil {
			return err
		}

		if !approve {
			alert := models.Alert{
				Type:    models.AlertTypeRequestRejected,
				Message: fmt.Sprintf("Stock request for %s (job %s) rejected by %s", request.ItemCode, request.JobID, actor.Name),
				Date:    now,
			}
			return tx.Create(&alert).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Request %s: Pending -> %s by %s", requestID, decision, actor.Name)
	return &request, nil
}

// CreateDispatch dispatches an Approved request. One transaction: the request
// row is locked, the single-dispatch rule checked, and the inventory decrement
// happens as a conditional UPDATE so stock can't go negative under races.
func (e *LifecycleEngine) CreateDispatch(
	requestID uuid.UUID,
	managerID uuid.UUID,
	driverID uuid.UUID,
	items string,
	qty int64,
	actor Actor,
) (*models.Dispatch, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: dispatched quantity must be positive", ErrConflict)
	}
	now := time.Now()

	var dispatch models.Dispatch
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var request models.StockRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&request, "id = ?", requestID).Error; err != nil {
			return fmt.Errorf("%w: stock request %s", ErrNotFound, requestID)
		}
		if request.ApprovalStatus != models.ApprovalApproved {
			return fmt.Errorf("%w: request is %s, only Approved requests can be dispatched", ErrConflict, request.ApprovalStatus)
		}

		var existing int64
		if err := tx.Model(&models.Dispatch{}).Where("request_id = ?", requestID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return fmt.Errorf("%w: request already dispatched", ErrConflict)
		}

		var driver models.User
		if err := tx.First(&driver, "id = ?", driverID).Error; err != nil {
			return fmt.Errorf("%w: driver %s", ErrNotFound, driverID)
		}
		if driver.Role != models.RoleDriver {
			return fmt.Errorf("%w: user %s is not a driver", ErrForbidden, driver.Name)
		}

		// Pickup-only requests don't touch warehouse stock.
		if request.RequestType != models.RequestTypePickup {
			res := tx.Model(&models.InventoryItem{}).
				Where("item_code = ? AND quantity >= ?", request.ItemCode, qty).
				Update("quantity", gorm.Expr("quantity - ?", qty))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: %s has less than %d on hand", ErrInsufficientStock, request.ItemCode, qty)
			}

			var item models.InventoryItem
			if err := tx.Where("item_code = ?", request.ItemCode).First(&item).Error; err == nil && item.Quantity == 0 {
				alert := models.Alert{
					Type:    models.AlertTypeStockDepleted,
					Message: fmt.Sprintf("Inventory for %s (%s) depleted by dispatch", item.ItemCode, item.ItemName),
					Date:    now,
				}
				if err := tx.Create(&alert).Error; err != nil {
					return err
				}
			}
		}

		dispatch = models.Dispatch{
			RequestID:       requestID,
			ManagerID:       managerID,
			DriverID:        driverID,
			ItemsDispatched: items,
			DispatchedQty:   qty,
			DispatchDate:    now,
		}
		if err := tx.Create(&dispatch).Error; err != nil {
			return err
		}

		transition := models.RequestTransition{
			RequestID:      requestID,
			FromState:      models.StateApproved,
			ToState:        models.StateDispatched,
			Action:         "dispatch",
			ActorID:        actor.ID,
			ActorName:      actor.Name,
			ActorRole:      actor.Role,
			TransitionedAt: now,
		}
		return tx.Create(&transition).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Dispatched request %s (driver %s, qty %d)", requestID, driverID, qty)
	return &dispatch, nil
}

// ConfirmDelivery stamps the driver confirmation. Only the assigned driver
// may confirm, and only once; the timestamp never moves afterwards.
func (e *LifecycleEngine) ConfirmDelivery(dispatchID uuid.UUID, actor Actor) (*models.Dispatch, error) {
	now := time.Now()

	var dispatch models.Dispatch
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&dispatch, "id = ?", dispatchID).Error; err != nil {
			return fmt.Errorf("%w: dispatch %s", ErrNotFound, dispatchID)
		}
		if dispatch.DriverID.String() != actor.ID {
			return fmt.Errorf("%w: only the assigned driver can confirm delivery", ErrForbidden)
		}

		res := tx.Model(&models.Dispatch{}).
			Where("id = ? AND driver_confirmation IS NULL", dispatchID).
			Update("driver_confirmation", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: delivery already confirmed", ErrConflict)
		}
		dispatch.DriverConfirmation = &now

		transition := models.RequestTransition{
			RequestID:      dispatch.RequestID,
			FromState:      models.StateDispatched,
			ToState:        models.StateDriverConfirmed,
			Action:         "confirm_delivery",
			ActorID:        actor.ID,
			ActorName:      actor.Name,
			ActorRole:      actor.Role,
			TransitionedAt: now,
		}
		return tx.Create(&transition).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Driver confirmed dispatch %s", dispatchID)
	return &dispatch, nil
}

// canConfirmReceipt reports whether the actor may stamp the site-worker
// confirmation: the requestor, anyone on the project's duty staff, or an
// administrator. Duty staff entries may be names or emails.
func canConfirmReceipt(request *models.StockRequest, project *models.Project, actor Actor) bool {
	if actor.Role == models.RoleAdministrator {
		return true
	}
	if actor.Email != "" && strings.EqualFold(actor.Email, request.RequestorEmail) {
		return true
	}
	if project != nil {
		for _, member := range project.DutyStaff {
			if strings.EqualFold(member, actor.Email) || member == actor.Name {
				return true
			}
		}
	}
	return false
}

// ConfirmReceipt stamps the site-worker confirmation. Only the requestor or
// a duty-staff member of the job may confirm, the driver confirmation must
// exist first, and the stamp is one-way; the ordering guards live in the
// WHERE clause.
func (e *LifecycleEngine) ConfirmReceipt(dispatchID uuid.UUID, actor Actor) (*models.Dispatch, error) {
	now := time.Now()

	var dispatch models.Dispatch
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&dispatch, "id = ?", dispatchID).Error; err != nil {
			return fmt.Errorf("%w: dispatch %s", ErrNotFound, dispatchID)
		}

		var request models.StockRequest
		if err := tx.First(&request, "id = ?", dispatch.RequestID).Error; err != nil {
			return fmt.Errorf("%w: stock request %s", ErrNotFound, dispatch.RequestID)
		}
		var project *models.Project
		var p models.Project
		if err := tx.Where("job_id = ?", request.JobID).First(&p).Error; err == nil {
			project = &p
		}
		if !canConfirmReceipt(&request, project, actor) {
			return fmt.Errorf("%w: only the requestor or site staff of job %s can confirm receipt", ErrForbidden, request.JobID)
		}

		res := tx.Model(&models.Dispatch{}).
			Where("id = ? AND site_worker_confirmation IS NULL AND driver_confirmation IS NOT NULL", dispatchID).
			Update("site_worker_confirmation", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if dispatch.DriverConfirmation == nil {
				return fmt.Errorf("%w: driver has not confirmed delivery yet", ErrConflict)
			}
			return fmt.Errorf("%w: receipt already confirmed", ErrConflict)
		}
		dispatch.SiteWorkerConfirmation = &now

		transition := models.RequestTransition{
			RequestID:      dispatch.RequestID,
			FromState:      models.StateDriverConfirmed,
			ToState:        models.StateDelivered,
			Action:         "confirm_receipt",
			ActorID:        actor.ID,
			ActorName:      actor.Name,
			ActorRole:      actor.Role,
			TransitionedAt: now,
		}
		return tx.Create(&transition).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Site worker confirmed dispatch %s", dispatchID)
	return &dispatch, nil
}

// History returns the transition trail for a request, oldest first.
func (e *LifecycleEngine) History(requestID uuid.UUID) ([]models.RequestTransition, error) {
	var transitions []models.RequestTransition
	if err := e.db.
		Where("request_id = ?", requestID).
		Order("transitioned_at ASC").
		Find(&transitions).Error; err != nil {
		return nil, err
	}
	return transitions, nil
}
