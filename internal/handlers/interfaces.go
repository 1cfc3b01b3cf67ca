package handlers

import (
	"context"

	"github.com/aviary-hq/aviary-api/internal/hub"
	"github.com/aviary-hq/aviary-api/internal/models"
	"github.com/google/uuid"
)

// WorkspaceServiceInterface defines the methods used by handlers from WorkspaceService
type WorkspaceServiceInterface interface {
	Create(ctx context.Context, name string, ownerID uuid.UUID, teamID *uuid.UUID) (*models.Workspace, error)
	GetByID(ctx context.Context, workspaceID uuid.UUID) (*models.Workspace, error)
	GetUserWorkspaces(ctx context.Context, userID uuid.UUID) ([]models.Workspace, error)
	GetTeamWorkspaces(ctx context.Context, teamID uuid.UUID) ([]models.Workspace, error)
	Update(ctx context.Context, workspaceID uuid.UUID, name *string) (*models.Workspace, error)
	Delete(ctx context.Context, workspaceID uuid.UUID) (*models.Workspace, error)
	GetMembers(ctx context.Context, workspaceID uuid.UUID) ([]models.WorkspaceMember, error)
	AddUsers(ctx context.Context, workspaceID uuid.UUID, userIDs []uuid.UUID, role string) error
	ChangeRole(ctx context.Context, workspaceID, userID uuid.UUID, role string) error
	RemoveUser(ctx context.Context, workspaceID, userID uuid.UUID) error
}

// CollectionServiceInterface defines the methods used by handlers from CollectionService
type CollectionServiceInterface interface {
	GetByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]models.Collection, error)
}

// ImportServiceInterface defines the methods used by handlers from ImportService
type ImportServiceInterface interface {
	ImportFile(ctx context.Context, workspaceID, userID uuid.UUID, mediaType string, raw []byte) (*models.Collection, error)
	ImportURL(ctx context.Context, workspaceID, userID uuid.UUID, rawURL string) (*models.Collection, error)
	ImportInline(ctx context.Context, workspaceID, userID uuid.UUID, mediaType string, raw []byte) (*models.Collection, error)
}

// HubInterface defines the methods used by handlers from the Hub
type HubInterface interface {
	Register(client *hub.Client)
	Unregister(client *hub.Client)
	SubscribeToWorkspace(clientID string, workspaceID uuid.UUID)
	UnsubscribeFromWorkspace(clientID string, workspaceID uuid.UUID)
	BroadcastCollectionImported(workspaceID, collectionID, importedBy uuid.UUID, name string)
	BroadcastMemberAdded(workspaceID, userID uuid.UUID, role string)
	BroadcastMemberRoleChanged(workspaceID, userID uuid.UUID, role string)
	BroadcastMemberRemoved(workspaceID, userID uuid.UUID)
	BroadcastWorkspaceUpdated(workspaceID uuid.UUID, name string)
}
