package utils

import "strings"

// MatchesPermission checks if a granted permission matches the required one.
// Supports wildcard patterns:
//
//   - "*:*:*" or "*" matches everything (Administrator wildcard)
//   - "stock_request:*" matches all actions on the stock_request resource
//   - "*:read" matches read on all resources
//   - "stock_request:approve" exact match
//
// Permission format: "resource:action" or "resource:action:scope".
func MatchesPermission(userPerm, requiredPerm string) bool {
	// Exact match (fastest path)
	if userPerm == requiredPerm {
		return true
	}

	// Full wildcard - grants everything
	if userPerm == "*:*:*" || userPerm == "*" {
		return true
	}

	userParts := strings.Split(userPerm, ":")
	reqParts := strings.Split(requiredPerm, ":")

	// Ensure both have at least 2 parts (resource:action)
	if len(userParts) < 2 || len(reqParts) < 2 {
		// Old single-word grants only match exactly
		return userPerm == requiredPerm
	}

	resourceMatch := userParts[0] == "*" || userParts[0] == reqParts[0]
	actionMatch := userParts[1] == "*" || userParts[1] == reqParts[1]

	return resourceMatch && actionMatch
}
