package handlers

import (
	"net/http/httptest"
	"testing"
	"time"

	"p9e.in/fieldops/models"
)

func TestLifecycleState(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		request  models.StockRequest
		dispatch *models.Dispatch
		want     string
	}{
		{
			name:    "pending request",
			request: models.StockRequest{ApprovalStatus: models.ApprovalPending},
			want:    models.StatePending,
		},
		{
			name:    "rejected request",
			request: models.StockRequest{ApprovalStatus: models.ApprovalRejected},
			want:    models.StateRejected,
		},
		{
			name:    "approved without dispatch",
			request: models.StockRequest{ApprovalStatus: models.ApprovalApproved},
			want:    models.StateApproved,
		},
		{
			name:     "dispatched, no confirmations",
			request:  models.StockRequest{ApprovalStatus: models.ApprovalApproved},
			dispatch: &models.Dispatch{},
			want:     models.StateDispatched,
		},
		{
			name:     "driver confirmed",
			request:  models.StockRequest{ApprovalStatus: models.ApprovalApproved},
			dispatch: &models.Dispatch{DriverConfirmation: &now},
			want:     models.StateDriverConfirmed,
		},
		{
			name:    "both confirmations",
			request: models.StockRequest{ApprovalStatus: models.ApprovalApproved},
			dispatch: &models.Dispatch{
				DriverConfirmation:     &now,
				SiteWorkerConfirmation: &now,
			},
			want: models.StateDelivered,
		},
		{
			// A rejected request stays Rejected no matter what rows exist.
			name:     "rejection wins over stale dispatch",
			request:  models.StockRequest{ApprovalStatus: models.ApprovalRejected},
			dispatch: &models.Dispatch{DriverConfirmation: &now},
			want:     models.StateRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := models.LifecycleState(&tt.request, tt.dispatch)
			if got != tt.want {
				t.Errorf("LifecycleState() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequestViewDerivesState(t *testing.T) {
	now := time.Now()
	req := models.StockRequest{
		ApprovalStatus: models.ApprovalApproved,
		Dispatch:       &models.Dispatch{DriverConfirmation: &now},
	}

	v := requestView(req)
	if v.State != models.StateDriverConfirmed {
		t.Errorf("requestView state = %q, want %q", v.State, models.StateDriverConfirmed)
	}
}

func TestCanConfirmReceipt(t *testing.T) {
	request := &models.StockRequest{
		JobID:          "JOB-100",
		RequestorEmail: "asha@site.example",
	}
	project := &models.Project{
		JobID:     "JOB-100",
		DutyStaff: []string{"ravi@site.example", "Meena Pillai"},
	}

	tests := []struct {
		name    string
		project *models.Project
		actor   Actor
		want    bool
	}{
		{
			name:    "requestor confirms own dispatch",
			project: project,
			actor:   Actor{Email: "asha@site.example", Role: models.RoleSiteWorker},
			want:    true,
		},
		{
			name:    "requestor email match is case insensitive",
			project: project,
			actor:   Actor{Email: "Asha@Site.Example", Role: models.RoleSiteWorker},
			want:    true,
		},
		{
			name:    "duty staff member by email",
			project: project,
			actor:   Actor{Email: "ravi@site.example", Role: models.RoleSiteWorker},
			want:    true,
		},
		{
			name:    "duty staff member by name",
			project: project,
			actor:   Actor{Name: "Meena Pillai", Email: "meena@site.example", Role: models.RoleSiteWorker},
			want:    true,
		},
		{
			name:    "unrelated site worker cannot confirm",
			project: project,
			actor:   Actor{Name: "Someone Else", Email: "other@site.example", Role: models.RoleSiteWorker},
			want:    false,
		},
		{
			name:    "unrelated worker still blocked when project row is missing",
			project: nil,
			actor:   Actor{Email: "other@site.example", Role: models.RoleSiteWorker},
			want:    false,
		},
		{
			name:    "administrator may always confirm",
			project: project,
			actor:   Actor{Email: "admin@hq.example", Role: models.RoleAdministrator},
			want:    true,
		},
		{
			name:    "actor with no email is blocked",
			project: nil,
			actor:   Actor{Role: models.RoleSiteWorker},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := canConfirmReceipt(request, tt.project, tt.actor)
			if got != tt.want {
				t.Errorf("canConfirmReceipt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWriteLifecycleErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", ErrNotFound, 404},
		{"conflict", ErrConflict, 409},
		{"insufficient stock", ErrInsufficientStock, 409},
		{"forbidden", ErrForbidden, 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeLifecycleError(rec, tt.err)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
