package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Verified bearer token of an active user
	SecurityAdmin                       // Access plus the admin role
)

// EndpointSecurityConfig maps named HTTP routes to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Public
	"health":             SecurityPublic,
	"metrics":            SecurityPublic,
	"properties.list":    SecurityPublic,
	"properties.get":     SecurityPublic,
	"settings.gcash.get": SecurityPublic,
	"quotes.create":      SecurityPublic,

	// Profile
	"me.get":    SecurityAccess,
	"me.update": SecurityAccess,

	// Rentals
	"rentals.checkout": SecurityAccess,
	"rentals.mine":     SecurityAccess,
	"rentals.lendings": SecurityAccess,
	"rentals.get":      SecurityAccess,
	"rentals.status":   SecurityAccess,
	"rentals.cancel":   SecurityAccess,
	"rentals.return":   SecurityAccess,
	"rentals.delete":   SecurityAccess,

	// Listings (owner)
	"properties.mine":   SecurityAccess,
	"properties.create": SecurityAccess,
	"properties.update": SecurityAccess,
	"properties.delete": SecurityAccess,

	// Ledger
	"ledger.balance":      SecurityAccess,
	"ledger.transactions": SecurityAccess,
	"ledger.summary":      SecurityAccess,

	// Withdrawals
	"withdrawals.request": SecurityAccess,
	"withdrawals.mine":    SecurityAccess,

	// Messages
	"messages.send":         SecurityAccess,
	"messages.inbox":        SecurityAccess,
	"messages.conversation": SecurityAccess,
	"ws":                    SecurityAccess,

	// Admin
	"admin.summary":             SecurityAdmin,
	"admin.rentals":             SecurityAdmin,
	"admin.rentals.overdue":     SecurityAdmin,
	"admin.users":               SecurityAdmin,
	"admin.users.block":         SecurityAdmin,
	"admin.users.role":          SecurityAdmin,
	"admin.users.delete":        SecurityAdmin,
	"admin.properties":          SecurityAdmin,
	"admin.properties.review":   SecurityAdmin,
	"admin.properties.remove":   SecurityAdmin,
	"admin.withdrawals":         SecurityAdmin,
	"admin.withdrawals.approve": SecurityAdmin,
	"admin.withdrawals.reject":  SecurityAdmin,
	"admin.messages":            SecurityAdmin,
	"admin.messages.delete":     SecurityAdmin,
	"admin.settings.gcash":      SecurityAdmin,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAdmin
}
