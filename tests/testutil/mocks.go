package testutil

import (
	"context"

	"github.com/aviary-hq/aviary-api/internal/hub"
	"github.com/aviary-hq/aviary-api/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockWorkspaceService mocks the WorkspaceService
type MockWorkspaceService struct {
	mock.Mock
}

func (m *MockWorkspaceService) Create(ctx context.Context, name string, ownerID uuid.UUID, teamID *uuid.UUID) (*models.Workspace, error) {
	args := m.Called(ctx, name, ownerID, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) GetByID(ctx context.Context, workspaceID uuid.UUID) (*models.Workspace, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) GetUserWorkspaces(ctx context.Context, userID uuid.UUID) ([]models.Workspace, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) GetTeamWorkspaces(ctx context.Context, teamID uuid.UUID) ([]models.Workspace, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) Update(ctx context.Context, workspaceID uuid.UUID, name *string) (*models.Workspace, error) {
	args := m.Called(ctx, workspaceID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) Delete(ctx context.Context, workspaceID uuid.UUID) (*models.Workspace, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) GetMembers(ctx context.Context, workspaceID uuid.UUID) ([]models.WorkspaceMember, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WorkspaceMember), args.Error(1)
}

func (m *MockWorkspaceService) AddUsers(ctx context.Context, workspaceID uuid.UUID, userIDs []uuid.UUID, role string) error {
	args := m.Called(ctx, workspaceID, userIDs, role)
	return args.Error(0)
}

func (m *MockWorkspaceService) ChangeRole(ctx context.Context, workspaceID, userID uuid.UUID, role string) error {
	args := m.Called(ctx, workspaceID, userID, role)
	return args.Error(0)
}

func (m *MockWorkspaceService) RemoveUser(ctx context.Context, workspaceID, userID uuid.UUID) error {
	args := m.Called(ctx, workspaceID, userID)
	return args.Error(0)
}

// MockCollectionService mocks the CollectionService
type MockCollectionService struct {
	mock.Mock
}

func (m *MockCollectionService) GetByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]models.Collection, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Collection), args.Error(1)
}

// MockImportService mocks the ImportService
type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) ImportFile(ctx context.Context, workspaceID, userID uuid.UUID, mediaType string, raw []byte) (*models.Collection, error) {
	args := m.Called(ctx, workspaceID, userID, mediaType, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockImportService) ImportURL(ctx context.Context, workspaceID, userID uuid.UUID, rawURL string) (*models.Collection, error) {
	args := m.Called(ctx, workspaceID, userID, rawURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockImportService) ImportInline(ctx context.Context, workspaceID, userID uuid.UUID, mediaType string, raw []byte) (*models.Collection, error) {
	args := m.Called(ctx, workspaceID, userID, mediaType, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

// MockHub mocks the event hub
type MockHub struct {
	mock.Mock
}

func (m *MockHub) Register(client *hub.Client) {
	m.Called(client)
}

func (m *MockHub) Unregister(client *hub.Client) {
	m.Called(client)
}

func (m *MockHub) SubscribeToWorkspace(clientID string, workspaceID uuid.UUID) {
	m.Called(clientID, workspaceID)
}

func (m *MockHub) UnsubscribeFromWorkspace(clientID string, workspaceID uuid.UUID) {
	m.Called(clientID, workspaceID)
}

func (m *MockHub) BroadcastCollectionImported(workspaceID, collectionID, importedBy uuid.UUID, name string) {
	m.Called(workspaceID, collectionID, importedBy, name)
}

func (m *MockHub) BroadcastMemberAdded(workspaceID, userID uuid.UUID, role string) {
	m.Called(workspaceID, userID, role)
}

func (m *MockHub) BroadcastMemberRoleChanged(workspaceID, userID uuid.UUID, role string) {
	m.Called(workspaceID, userID, role)
}

func (m *MockHub) BroadcastMemberRemoved(workspaceID, userID uuid.UUID) {
	m.Called(workspaceID, userID)
}

func (m *MockHub) BroadcastWorkspaceUpdated(workspaceID uuid.UUID, name string) {
	m.Called(workspaceID, name)
}
