package handlers

import (
	"net/http"
	"time"

	"p9e.in/fieldops/config"
	"p9e.in/fieldops/models"
)

// Items at or below this quantity count as low stock.
const lowStockThreshold = 10

type statusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// GetRequestKPIs godoc
// @Summary Stock request counts by lifecycle state and urgency
// @Tags kpis
// @Router /api/v1/kpi/requests [get]
func GetRequestKPIs(w http.ResponseWriter, r *http.Request) {
	var requests []models.StockRequest
	if err := config.DB.Preload("Dispatch").Find(&requests).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load requests")
		return
	}

	byState := map[string]int64{
		models.StatePending:         0,
		models.StateApproved:        0,
		models.StateRejected:        0,
		models.StateDispatched:      0,
		models.StateDriverConfirmed: 0,
		models.StateDelivered:       0,
	}
	byUrgency := map[string]int64{}
	for _, req := range requests {
		byState[models.LifecycleState(&req, req.Dispatch)]++
		byUrgency[req.Urgency]++
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total":      len(requests),
		"by_state":   byState,
		"by_urgency": byUrgency,
	})
}

// GetProjectKPIs godoc
// @Summary Project counts by status plus overdue projects
// @Tags kpis
// @Router /api/v1/kpi/projects [get]
func GetProjectKPIs(w http.ResponseWriter, r *http.Request) {
	var counts []statusCount
	if err := config.DB.Model(&models.Project{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&counts).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to aggregate projects")
		return
	}

	byStatus := map[string]int64{}
	var total int64
	for _, c := range counts {
		byStatus[c.Status] = c.Count
		total += c.Count
	}

	// Overdue: planned end date in the past and the work not completed.
	var overdue []models.Project
	if err := config.DB.
		Where("planned_end_date IS NOT NULL AND planned_end_date < ? AND status NOT IN ?",
			time.Now(), []string{models.ProjectStatusCompleted}).
		Order("planned_end_date ASC").
		Find(&overdue).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load overdue projects")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total":         total,
		"by_status":     byStatus,
		"overdue":       overdue,
		"overdue_count": len(overdue),
	})
}

// GetInventoryKPIs godoc
// @Summary Inventory totals and low-stock items
// @Tags kpis
// @Router /api/v1/kpi/inventory [get]
func GetInventoryKPIs(w http.ResponseWriter, r *http.Request) {
	var totalItems int64
	if err := config.DB.Model(&models.InventoryItem{}).Count(&totalItems).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count inventory")
		return
	}

	var totalQuantity int64
	if err := config.DB.Model(&models.InventoryItem{}).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&totalQuantity).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to sum inventory")
		return
	}

	var lowStock []models.InventoryItem
	if err := config.DB.
		Where("quantity <= ?", lowStockThreshold).
		Order("quantity ASC").
		Find(&lowStock).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load low stock items")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_items":     totalItems,
		"total_quantity":  totalQuantity,
		"low_stock":       lowStock,
		"low_stock_count": len(lowStock),
		"threshold":       lowStockThreshold,
	})
}

type assignmentLoad struct {
	ManagerID      string `json:"manager_id"`
	ManagerName    string `json:"manager_name"`
	ActiveProjects int64  `json:"active_projects"`
	OpenRequests   int64  `json:"open_requests"`
}

// GetAssignmentKPIs godoc
// @Summary Per-manager workload across projects and open requests
// @Tags kpis
// @Router /api/v1/admin/kpis/assignments [get]
func GetAssignmentKPIs(w http.ResponseWriter, r *http.Request) {
	var managers []models.User
	if err := config.DB.Where("role = ? AND is_active = ?", models.RoleManager, true).
		Find(&managers).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load managers")
		return
	}

	loads := make([]assignmentLoad, 0, len(managers))
	for _, m := range managers {
		var projects int64
		if err := config.DB.Model(&models.Project{}).
			Where("manager_id = ? AND status IN ?", m.ID,
				[]string{models.ProjectStatusPlanned, models.ProjectStatusActive}).
			Count(&projects).Error; err != nil {
			writeError(w, http.StatusInternalServerError, "failed to count projects")
			return
		}
		var open int64
		if err := config.DB.Model(&models.StockRequest{}).
			Joins("JOIN projects ON projects.job_id = stock_requests.job_id").
			Where("projects.manager_id = ? AND stock_requests.approval_status = ?", m.ID, models.ApprovalPending).
			Count(&open).Error; err != nil {
			writeError(w, http.StatusInternalServerError, "failed to count open requests")
			return
		}
		loads = append(loads, assignmentLoad{
			ManagerID:      m.ID.String(),
			ManagerName:    m.Name,
			ActiveProjects: projects,
			OpenRequests:   open,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"assignments": loads,
		"total":       len(loads),
	})
}
