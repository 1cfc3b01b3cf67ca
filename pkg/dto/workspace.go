package dto

import "github.com/google/uuid"

type CreateWorkspaceRequest struct {
	Name   string     `json:"name" validate:"required,min=1,max=255"`
	TeamID *uuid.UUID `json:"teamId"`
}

type UpdateWorkspaceRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=255"`
}

type AddWorkspaceUsersRequest struct {
	Users []uuid.UUID `json:"users" validate:"required,min=1"`
	Role  string      `json:"role" validate:"required"`
}

type ChangeUserRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type ImportCollectionRequest struct {
	URL string `json:"url" validate:"required,url"`
}
