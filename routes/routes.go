package routes

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	_ "p9e.in/fieldops/docs"
	"p9e.in/fieldops/handlers"
	"p9e.in/fieldops/middleware"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/login", handlers.Login).Methods("POST")
	r.Handle("/token", middleware.JWTMiddleware(
		http.HandlerFunc(handlers.GetCurrentUser))).Methods("GET")
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir("./uploads"))),
	)

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.JWTMiddleware)

	api.HandleFunc("/profile", handleProfile).Methods("GET")
	api.HandleFunc("/change-password", handlers.ChangePassword).Methods("POST")

	registerProjectRoutes(api)
	registerCompanyRoutes(api)
	registerInventoryRoutes(api)
	registerStockRequestRoutes(api)
	registerDispatchRoutes(api)
	registerFormRoutes(api)
	registerAlertRoutes(api)
	registerKPIRoutes(api)
	registerExportRoutes(api)
	registerFileRoutes(api)

	// =====================================================
	// Admin Routes (require admin permissions)
	// =====================================================
	admin := api.PathPrefix("/admin").Subrouter()
	registerAdminRoutes(admin)

	return r
}

// handleProfile returns user profile information
func handleProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	user := middleware.GetUser(r)
	permissions := middleware.GetUserPermissions(r)

	var globalRoleName string
	if user.RoleModel != nil {
		globalRoleName = user.RoleModel.Name
	}

	response := map[string]interface{}{
		"userID":      claims.UserID,
		"name":        user.Name,
		"email":       user.Email,
		"phone":       user.Phone,
		"role":        user.Role,
		"role_id":     user.RoleID,
		"global_role": globalRoleName,
		"permissions": permissions,
	}
	json.NewEncoder(w).Encode(response)
}

func registerProjectRoutes(api *mux.Router) {
	h := handlers.NewProjectHandler()

	api.Handle("/projects", middleware.RequirePermission("project:read")(
		http.HandlerFunc(h.ListProjects))).Methods("GET")
	api.Handle("/projects", middleware.RequirePermission("project:create")(
		http.HandlerFunc(h.CreateProject))).Methods("POST")
	api.Handle("/projects/{id}", middleware.RequirePermission("project:read")(
		http.HandlerFunc(h.GetProject))).Methods("GET")
	api.Handle("/projects/{id}", middleware.RequirePermission("project:update")(
		http.HandlerFunc(h.UpdateProject))).Methods("PUT")
	api.Handle("/projects/{id}", middleware.RequirePermission("project:delete")(
		http.HandlerFunc(h.DeleteProject))).Methods("DELETE")
	api.Handle("/projects/{id}/stats", middleware.RequirePermission("project:read")(
		http.HandlerFunc(h.GetProjectStats))).Methods("GET")
}

func registerCompanyRoutes(api *mux.Router) {
	api.Handle("/companies", middleware.RequirePermission("company:read")(
		http.HandlerFunc(handlers.GetAllCompanies))).Methods("GET")
	api.Handle("/companies", middleware.RequirePermission("company:create")(
		http.HandlerFunc(handlers.CreateCompany))).Methods("POST")
	api.Handle("/companies/{id}", middleware.RequirePermission("company:read")(
		http.HandlerFunc(handlers.GetCompany))).Methods("GET")
	api.Handle("/companies/{id}", middleware.RequirePermission("company:update")(
		http.HandlerFunc(handlers.UpdateCompany))).Methods("PUT")
	api.Handle("/companies/{id}", middleware.RequirePermission("company:delete")(
		http.HandlerFunc(handlers.DeleteCompany))).Methods("DELETE")
}

func registerInventoryRoutes(api *mux.Router) {
	api.Handle("/inventory", middleware.RequirePermission("inventory:read")(
		http.HandlerFunc(handlers.GetAllInventory))).Methods("GET")
	api.Handle("/inventory/stock-entry", middleware.RequirePermission("inventory:create")(
		http.HandlerFunc(handlers.CreateStockEntry))).Methods("POST")
	api.Handle("/inventory/{item_code}", middleware.RequirePermission("inventory:read")(
		http.HandlerFunc(handlers.GetInventoryItem))).Methods("GET")
	api.Handle("/inventory/{item_code}", middleware.RequirePermission("inventory:delete")(
		http.HandlerFunc(handlers.DeleteInventoryItem))).Methods("DELETE")
}

func registerStockRequestRoutes(api *mux.Router) {
	api.Handle("/stock-requests", middleware.RequirePermission("stock_request:read")(
		http.HandlerFunc(handlers.GetAllStockRequests))).Methods("GET")
	api.Handle("/stock-requests", middleware.RequirePermission("stock_request:create")(
		http.HandlerFunc(handlers.CreateStockRequest))).Methods("POST")
	api.Handle("/stock-requests/{id}", middleware.RequirePermission("stock_request:read")(
		http.HandlerFunc(handlers.GetStockRequest))).Methods("GET")
	api.Handle("/stock-requests/{id}/approve", middleware.RequirePermission("stock_request:approve")(
		http.HandlerFunc(handlers.ApproveStockRequest))).Methods("POST")
	api.Handle("/stock-requests/{id}/reject", middleware.RequirePermission("stock_request:approve")(
		http.HandlerFunc(handlers.RejectStockRequest))).Methods("POST")
}

func registerDispatchRoutes(api *mux.Router) {
	api.Handle("/dispatches", middleware.RequirePermission("dispatch:read")(
		http.HandlerFunc(handlers.GetAllDispatches))).Methods("GET")
	api.Handle("/dispatches", middleware.RequirePermission("dispatch:create")(
		http.HandlerFunc(handlers.CreateDispatch))).Methods("POST")
	api.Handle("/dispatches/{id}", middleware.RequirePermission("dispatch:read")(
		http.HandlerFunc(handlers.GetDispatch))).Methods("GET")
	api.Handle("/dispatches/{id}/confirm-delivery", middleware.RequirePermission("dispatch:confirm_delivery")(
		http.HandlerFunc(handlers.ConfirmDelivery))).Methods("POST")
	api.Handle("/dispatches/{id}/confirm-receipt", middleware.RequirePermission("dispatch:confirm_receipt")(
		http.HandlerFunc(handlers.ConfirmReceipt))).Methods("POST")
}

func registerFormRoutes(api *mux.Router) {
	api.Handle("/jobs/{job_id}/forms", middleware.RequirePermission("form:read")(
		http.HandlerFunc(handlers.ListForms))).Methods("GET")
	api.Handle("/jobs/{job_id}/forms/{form_type}", middleware.RequirePermission("form:read")(
		http.HandlerFunc(handlers.GetForm))).Methods("GET")
	api.Handle("/jobs/{job_id}/forms/{form_type}", middleware.RequirePermission("form:write")(
		http.HandlerFunc(handlers.UpsertForm))).Methods("PUT")
	api.Handle("/jobs/{job_id}/forms/{form_type}", middleware.RequirePermission("form:delete")(
		http.HandlerFunc(handlers.DeleteForm))).Methods("DELETE")
}

func registerAlertRoutes(api *mux.Router) {
	api.Handle("/alerts", middleware.RequirePermission("alert:read")(
		http.HandlerFunc(handlers.GetAllAlerts))).Methods("GET")
	api.Handle("/alerts", middleware.RequirePermission("alert:create")(
		http.HandlerFunc(handlers.CreateAlert))).Methods("POST")
	api.Handle("/alerts/{id}/settle", middleware.RequirePermission("alert:settle")(
		http.HandlerFunc(handlers.SettleAlert))).Methods("POST")
}

func registerKPIRoutes(api *mux.Router) {
	api.Handle("/kpi/requests", middleware.RequirePermission("kpi:read")(
		http.HandlerFunc(handlers.GetRequestKPIs))).Methods("GET")
	api.Handle("/kpi/projects", middleware.RequirePermission("kpi:read")(
		http.HandlerFunc(handlers.GetProjectKPIs))).Methods("GET")
	api.Handle("/kpi/inventory", middleware.RequirePermission("kpi:read")(
		http.HandlerFunc(handlers.GetInventoryKPIs))).Methods("GET")
}

func registerExportRoutes(api *mux.Router) {
	api.Handle("/exports/stock-requests", middleware.RequirePermission("export:read")(
		http.HandlerFunc(handlers.ExportStockRequests))).Methods("GET")
	api.Handle("/exports/projects", middleware.RequirePermission("export:read")(
		http.HandlerFunc(handlers.ExportProjects))).Methods("GET")
	api.Handle("/exports/inventory", middleware.RequirePermission("export:read")(
		http.HandlerFunc(handlers.ExportInventory))).Methods("GET")
}

func registerFileRoutes(api *mux.Router) {
	// Form authors upload attachments too, without a separate file grant.
	api.Handle("/files/upload", middleware.RequireAnyPermission([]string{"file:create", "form:write"})(
		http.HandlerFunc(handlers.UploadFileHandler))).Methods("POST")
}

// registerAdminRoutes registers admin-only routes
func registerAdminRoutes(admin *mux.Router) {
	admin.Handle("/register", middleware.RequirePermission("user:create")(
		http.HandlerFunc(handlers.Register))).Methods("POST")

	admin.Handle("/users", middleware.RequirePermission("user:read")(
		http.HandlerFunc(handlers.GetAllUsers))).Methods("GET")
	admin.Handle("/users/{id}", middleware.RequirePermission("user:read")(
		http.HandlerFunc(handlers.GetUserByID))).Methods("GET")
	admin.Handle("/users/{id}", middleware.RequirePermission("user:update")(
		http.HandlerFunc(handlers.UpdateUser))).Methods("PUT")
	admin.Handle("/users/{id}", middleware.RequirePermission("user:delete")(
		http.HandlerFunc(handlers.DeleteUser))).Methods("DELETE")

	admin.Handle("/kpis/assignments", middleware.RequirePermission("kpi:read")(
		http.HandlerFunc(handlers.GetAssignmentKPIs))).Methods("GET")
}
