package user

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of operator roles.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleSportManager Role = "SPORT_MANAGER"
	RoleEditor       Role = "EDITOR"
	RoleUser         Role = "USER"
)

func ParseRole(value string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(value)))
	switch role {
	case RoleAdmin, RoleSportManager, RoleEditor, RoleUser:
		return role, nil
	default:
		return "", fmt.Errorf("unknown role %q", value)
	}
}

type User struct {
	ID           string
	Username     string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	SportType    string
	IsActive     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal returns the caller identity carried in session tokens.
func (u User) Principal() Principal {
	return Principal{
		UserID:    u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Role:      u.Role,
		SportType: u.SportType,
	}
}

// Principal is the verified caller of an operation.
type Principal struct {
	UserID    string
	Username  string
	Name      string
	Role      Role
	SportType string
}

// Validate enforces that the role is known and that sport managers carry a scope.
func (p Principal) Validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return fmt.Errorf("principal user id is required")
	}
	if _, err := ParseRole(string(p.Role)); err != nil {
		return err
	}
	if p.Role == RoleSportManager && strings.TrimSpace(p.SportType) == "" {
		return fmt.Errorf("sport manager %s has no sport scope", p.UserID)
	}
	return nil
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanManageSport reports whether the caller may act on matches of sportType.
func (p Principal) CanManageSport(sportType string) bool {
	if p.IsAdmin() {
		return true
	}
	if p.Role != RoleSportManager {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(p.SportType), strings.TrimSpace(sportType))
}

// HasAnyRole reports whether the caller holds one of roles.
func (p Principal) HasAnyRole(roles ...Role) bool {
	for _, role := range roles {
		if p.Role == role {
			return true
		}
	}
	return false
}

// DisplayName prefers the full name over the username.
func (p Principal) DisplayName() string {
	if strings.TrimSpace(p.Name) != "" {
		return p.Name
	}
	return p.Username
}
