package dto

import (
	"time"

	"github.com/google/uuid"
)

type WorkspaceResponse struct {
	ID          uuid.UUID               `json:"id"`
	Name        string                  `json:"name"`
	OwnerID     uuid.UUID               `json:"ownerId"`
	TeamID      *uuid.UUID              `json:"teamId"`
	Users       []MemberResponse        `json:"users"`
	Collections []CollectionRefResponse `json:"collections"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
}

type MemberResponse struct {
	UserID uuid.UUID `json:"userId"`
	Role   string    `json:"role"`
}
