package identity

import (
	"context"
	"strings"
)

const (
	GroupAdmins   = "Admins"
	GroupLabelers = "Labelers"
	GroupViewers  = "Viewers"

	RoleAdmin   = "Admin"
	RoleLabeler = "Labeler"
	RoleViewer  = "Viewer"

	defaultName = "Anonymous"
)

// Identity is the caller as decoded from upstream-verified token claims.
type Identity struct {
	Sub    string   `json:"sub"`
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	Groups []string `json:"groups"`
}

func IsInGroup(id *Identity, group string) bool {
	if id == nil {
		return false
	}
	for _, g := range id.Groups {
		if g == group {
			return true
		}
	}
	return false
}

func IsAdmin(id *Identity) bool {
	return IsInGroup(id, GroupAdmins)
}

// IsLabeler reports whether id may submit labels. Admins always can.
func IsLabeler(id *Identity) bool {
	return IsInGroup(id, GroupLabelers) || IsAdmin(id)
}

// RoleOf maps group memberships to the single directory role, highest first.
func RoleOf(groups []string) string {
	has := func(want string) bool {
		for _, g := range groups {
			if g == want {
				return true
			}
		}
		return false
	}
	switch {
	case has(GroupAdmins):
		return RoleAdmin
	case has(GroupLabelers):
		return RoleLabeler
	case has(GroupViewers):
		return RoleViewer
	default:
		return ""
	}
}

// ValidRole reports whether role is one of Admin, Labeler, Viewer.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleLabeler, RoleViewer:
		return true
	}
	return false
}

// DisplayName prefers the name claim, then the email.
func (id *Identity) DisplayName() string {
	if id == nil {
		return ""
	}
	if n := strings.TrimSpace(id.Name); n != "" && n != defaultName {
		return n
	}
	if id.Email != "" {
		return id.Email
	}
	return id.Name
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the caller attached by the identity middleware, if any.
func FromContext(ctx context.Context) (*Identity, bool) {
	if ctx == nil {
		return nil, false
	}
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}
