package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// SystemUserID identifies requests authenticated with the API key
var SystemUserID = uuid.Nil

// UserContext holds authenticated user information
type UserContext struct {
	UserID      uuid.UUID
	DisplayName string
	Email       string
	IsStaff     bool
	// IsSystem is set for API key requests, which act with staff rights but no user
	IsSystem bool
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// MustFromContext extracts user context or panics
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in context")
	}
	return user
}

// ActingUserID returns the ID of the human user behind the request, nil for system or anonymous requests
func ActingUserID(ctx context.Context) *uuid.UUID {
	user, ok := FromContext(ctx)
	if !ok || user.IsSystem || user.UserID == uuid.Nil {
		return nil
	}
	id := user.UserID
	return &id
}

// CanManage reports whether the user may manage master data and other users
func (u *UserContext) CanManage() bool {
	return u.IsStaff || u.IsSystem
}

// GetDisplayNameInitials returns initials from the display name (e.g., "John Doe" -> "JD")
func (u *UserContext) GetDisplayNameInitials() string {
	if u.DisplayName == "" {
		return ""
	}
	parts := strings.Fields(u.DisplayName)
	initials := ""
	for _, part := range parts {
		if len(part) > 0 {
			initials += strings.ToUpper(string(part[0]))
		}
	}
	return initials
}
