package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/fieldops/config"
	"p9e.in/fieldops/middleware"
	"p9e.in/fieldops/models"
)

// GetAllUsers lists active users, paginated, admin role excluded.
func GetAllUsers(w http.ResponseWriter, r *http.Request) {
	page := 1
	limit := 10
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}
	offset := (page - 1) * limit

	query := config.DB.Model(&models.User{}).
		Where("is_active = ?", true).
		Where("role <> ?", models.RoleAdministrator)
	if role := r.URL.Query().Get("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "db count error: "+err.Error())
		return
	}

	var users []models.User
	if err := query.Limit(limit).Offset(offset).Order("name").Find(&users).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}

	out := make([]userPayload, len(users))
	for i, u := range users {
		out[i] = userPayload{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Role: u.Role}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total": total,
		"page":  page,
		"limit": limit,
		"data":  out,
	})
}

func GetUserByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var user models.User
	if err := config.DB.Preload("RoleModel.Permissions").First(&user, "id = ?", id).Error; err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	writeJSON(w, http.StatusOK, userPayload{
		ID: user.ID, Name: user.Name, Email: user.Email,
		Phone: user.Phone, Role: user.Role, Permissions: user.AllPermissions(),
	})
}

type updateUserReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active"`
}

// UpdateUser allows admins to update user information
func UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var req updateUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", id).Error; err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Role != "" {
		if !validRoles[req.Role] {
			writeError(w, http.StatusBadRequest, "unknown role: "+req.Role)
			return
		}
		var role models.Role
		if err := config.DB.Where("name = ?", req.Role).First(&role).Error; err != nil {
			writeError(w, http.StatusInternalServerError, "role not seeded: "+req.Role)
			return
		}
		user.Role = req.Role
		user.RoleID = &role.ID
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := config.DB.Save(&user).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update user: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, userPayload{
		ID: user.ID, Name: user.Name, Email: user.Email, Phone: user.Phone, Role: user.Role,
	})
}

// DeleteUser deactivates a user. Rows are kept for audit references.
func DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", id).Error; err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	// Prevent self-deletion
	if claims := middleware.GetClaims(r); claims != nil && claims.UserID == id.String() {
		writeError(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	user.IsActive = false
	if err := config.DB.Save(&user).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete user: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
