package utils

import "testing"

func TestMatchesPermission(t *testing.T) {
	tests := []struct {
		name         string
		userPerm     string
		requiredPerm string
		expected     bool
	}{
		// Exact matches
		{"exact match same permission", "stock_request:approve", "stock_request:approve", true},
		{"exact match different action", "stock_request:approve", "stock_request:read", false},
		{"exact match different resource", "stock_request:create", "dispatch:create", false},

		// Full wildcard tests
		{"full wildcard *:*:*", "*:*:*", "project:create", true},
		{"full wildcard *", "*", "anything:goes", true},
		{"full wildcard matches confirmations", "*:*:*", "dispatch:confirm_delivery", true},

		// Resource wildcard tests
		{"resource wildcard matches create", "inventory:*", "inventory:create", true},
		{"resource wildcard matches read", "inventory:*", "inventory:read", true},
		{"resource wildcard matches delete", "inventory:*", "inventory:delete", true},
		{"resource wildcard doesn't cross resources", "inventory:*", "dispatch:create", false},

		// Action wildcard tests
		{"action wildcard matches project", "*:read", "project:read", true},
		{"action wildcard matches alerts", "*:read", "alert:read", true},
		{"action wildcard doesn't match other action", "*:read", "project:create", false},

		// Complex patterns
		{"resource wildcard custom action", "dispatch:*", "dispatch:confirm_receipt", true},
		{"action wildcard custom resource", "*:settle", "alert:settle", true},

		// Old format backward compatibility
		{"old format exact match", "read_reports", "read_reports", true},
		{"old format no match", "read_reports", "create_reports", false},
		{"old format covered by wildcard", "*:*:*", "old_format_perm", true},

		// Edge cases
		{"empty required permission", "project:create", "", false},
		{"empty user permission", "", "project:create", false},
		{"both empty", "", "", true},
		{"single part permission", "admin", "admin", true},
		{"single part vs multi-part", "admin", "admin:read", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MatchesPermission(tt.userPerm, tt.requiredPerm)
			if result != tt.expected {
				t.Errorf("MatchesPermission(%q, %q) = %v, expected %v",
					tt.userPerm, tt.requiredPerm, result, tt.expected)
			}
		})
	}
}

func TestMatchesPermission_RoleGrants(t *testing.T) {
	tests := []struct {
		name      string
		role      string
		userPerms []string
		required  string
		expected  bool
	}{
		{
			name:      "administrator has all access",
			role:      "Administrator",
			userPerms: []string{"*:*:*"},
			required:  "project:delete",
			expected:  true,
		},
		{
			name:      "manager can approve stock requests",
			role:      "Manager",
			userPerms: []string{"project:*", "stock_request:approve", "dispatch:create"},
			required:  "stock_request:approve",
			expected:  true,
		},
		{
			name:      "manager cannot manage users",
			role:      "Manager",
			userPerms: []string{"project:*", "stock_request:approve"},
			required:  "user:create",
			expected:  false,
		},
		{
			name:      "inventory manager owns inventory",
			role:      "InventoryManager",
			userPerms: []string{"inventory:*"},
			required:  "inventory:create",
			expected:  true,
		},
		{
			name:      "driver can only confirm delivery",
			role:      "Driver",
			userPerms: []string{"dispatch:read", "dispatch:confirm_delivery"},
			required:  "dispatch:confirm_receipt",
			expected:  false,
		},
		{
			name:      "site worker cannot approve own request",
			role:      "SiteWorker",
			userPerms: []string{"stock_request:create", "stock_request:read"},
			required:  "stock_request:approve",
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hasPermission := false
			for _, userPerm := range tt.userPerms {
				if MatchesPermission(userPerm, tt.required) {
					hasPermission = true
					break
				}
			}

			if hasPermission != tt.expected {
				t.Errorf("Role %q with grants %v: expected %v for %q, got %v",
					tt.role, tt.userPerms, tt.expected, tt.required, hasPermission)
			}
		})
	}
}

func BenchmarkMatchesPermission_ExactMatch(b *testing.B) {
	for i := 0; i < b.N; i++ {
		MatchesPermission("stock_request:approve", "stock_request:approve")
	}
}

func BenchmarkMatchesPermission_WildcardMatch(b *testing.B) {
	for i := 0; i < b.N; i++ {
		MatchesPermission("*:*:*", "stock_request:approve")
	}
}
