package user

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// Capability names a business surface a user may operate on.
type Capability string

const (
	CapabilityDuelazo  Capability = "duelazo"
	CapabilityNosotros Capability = "nosotros"
	CapabilitySpacebox Capability = "spacebox"
	CapabilityStyly    Capability = "styly"
)

func AllCapabilities() []Capability {
	return []Capability{CapabilityDuelazo, CapabilityNosotros, CapabilitySpacebox, CapabilityStyly}
}

func ParseCapability(s string) (Capability, bool) {
	switch Capability(s) {
	case CapabilityDuelazo, CapabilityNosotros, CapabilitySpacebox, CapabilityStyly:
		return Capability(s), true
	}
	return "", false
}

type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Capabilities []Capability
	Status       Status
	AvatarURL    string
	CreatedAt    time.Time
}

// Principal is the authenticated caller carried through request context.
type Principal struct {
	UserID       int64
	Name         string
	Email        string
	Role         Role
	Capabilities []Capability
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Allows reports whether the principal may use the named business surface.
// Admins are granted every capability implicitly.
func (p Principal) Allows(c Capability) bool {
	if p.IsAdmin() {
		return true
	}
	for _, granted := range p.Capabilities {
		if granted == c {
			return true
		}
	}
	return false
}
