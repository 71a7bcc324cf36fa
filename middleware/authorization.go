package middleware

import (
	"net/http"

	"p9e.in/fieldops/config"
	"p9e.in/fieldops/models"
	"p9e.in/fieldops/utils"
)

// RequirePermission checks that the authenticated user's role grants the
// required permission. Grants may be wildcards ("stock_request:*", "*:*:*");
// matching is delegated to utils.MatchesPermission.
func RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r)
			if claims == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if claims.Role == models.RoleAdministrator {
				next.ServeHTTP(w, r)
				return
			}

			var user models.User
			if err := config.DB.Preload("RoleModel.Permissions").First(&user, "id = ?", claims.UserID).Error; err != nil {
				http.Error(w, "user not found", http.StatusUnauthorized)
				return
			}
			if !user.IsActive {
				http.Error(w, "account disabled", http.StatusForbidden)
				return
			}

			for _, granted := range user.AllPermissions() {
				if utils.MatchesPermission(granted, permission) {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "insufficient permissions", http.StatusForbidden)
		})
	}
}

// RequireAnyPermission checks if user has any of the provided permissions
func RequireAnyPermission(permissions []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r)
			if claims == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if claims.Role == models.RoleAdministrator {
				next.ServeHTTP(w, r)
				return
			}

			var user models.User
			if err := config.DB.Preload("RoleModel.Permissions").First(&user, "id = ?", claims.UserID).Error; err != nil {
				http.Error(w, "user not found", http.StatusUnauthorized)
				return
			}

			granted := user.AllPermissions()
			for _, permission := range permissions {
				for _, g := range granted {
					if utils.MatchesPermission(g, permission) {
						next.ServeHTTP(w, r)
						return
					}
				}
			}
			http.Error(w, "insufficient permissions", http.StatusForbidden)
		})
	}
}

// GetUserPermissions returns all permission names for the current user
func GetUserPermissions(r *http.Request) []string {
	claims := GetClaims(r)
	if claims == nil {
		return []string{}
	}

	var user models.User
	if err := config.DB.Preload("RoleModel.Permissions").First(&user, "id = ?", claims.UserID).Error; err != nil {
		return []string{}
	}
	return user.AllPermissions()
}
