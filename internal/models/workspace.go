package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleOwner  = "owner"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role string) bool {
	switch role {
	case RoleOwner, RoleEditor, RoleViewer:
		return true
	}
	return false
}

type Workspace struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	OwnerID     uuid.UUID         `json:"ownerId"`
	TeamID      *uuid.UUID        `json:"teamId,omitempty"`
	Users       []WorkspaceMember `json:"users,omitempty"`
	Collections []CollectionRef   `json:"collections,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// WorkspaceMember is one roster entry; a user appears at most once per
// workspace.
type WorkspaceMember struct {
	UserID    uuid.UUID `json:"userId"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// CollectionRef links a workspace to a collection held in the
// collection store. The name is copied at import time and is not kept
// in sync afterwards.
type CollectionRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
