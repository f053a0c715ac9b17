// Package constant holds cross-module identifiers shared by the authorization
// layer, most importantly the casbin object and action names.
package constant

// Permission objects, the "obj" argument of casbin's Enforce.
const (
	PermIdentityMgmtUsers = "identity.mgmt.users"
	PermNotifications     = "notifications"
)

// Permission actions, the "act" argument of casbin's Enforce.
const (
	PermActRead   = "read"
	PermActWrite  = "write"
	PermActExport = "export"
)
