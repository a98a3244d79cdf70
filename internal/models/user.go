package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type UserGroup string

const (
	GroupUser  UserGroup = "user"
	GroupAdmin UserGroup = "admin"
)

// Profile mirrors the profiles record kept by the auth collaborator. The push
// token column is nullable; at most one token is active per profile and a
// refresh overwrites it.
type Profile struct {
	ID            uuid.UUID `json:"id"`
	Group         UserGroup `json:"group"`
	Email         string    `json:"email,omitempty"`
	ExpoPushToken *string   `json:"expo_push_token,omitempty"`
}

type SavePushTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// JWT claims issued by the auth collaborator; this service only consumes them.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Group  UserGroup `json:"group"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	return c.Group == GroupAdmin
}
