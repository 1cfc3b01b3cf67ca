package integration

import (
	"context"
	"testing"

	"github.com/aviary-hq/aviary-api/internal/models"
	"github.com/aviary-hq/aviary-api/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceService_Integration_CreateSeedsOwner(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewWorkspaceService(tdb.DB)
	ctx := context.Background()

	ownerID := uuid.New()

	ws, err := svc.Create(ctx, "My Workspace", ownerID, nil)
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, ws.ID)
	require.NoError(t, err)
	assert.Equal(t, "My Workspace", got.Name)
	require.Len(t, got.Users, 1)
	assert.Equal(t, ownerID, got.Users[0].UserID)
	assert.Equal(t, "owner", got.Users[0].Role)
	assert.Empty(t, got.Collections)
}

func TestWorkspaceService_Integration_AddUsersOverwritesRole(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewWorkspaceService(tdb.DB)
	ctx := context.Background()

	ownerID := uuid.New()
	memberID := uuid.New()

	ws, err := svc.Create(ctx, "Shared", ownerID, nil)
	require.NoError(t, err)

	require.NoError(t, svc.AddUsers(ctx, ws.ID, []uuid.UUID{memberID}, "viewer"))
	// Re-adding overwrites the role instead of duplicating the entry.
	require.NoError(t, svc.AddUsers(ctx, ws.ID, []uuid.UUID{memberID}, "editor"))

	members, err := svc.GetMembers(ctx, ws.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)

	roles := map[uuid.UUID]string{}
	for _, m := range members {
		roles[m.UserID] = m.Role
	}
	assert.Equal(t, "owner", roles[ownerID])
	assert.Equal(t, "editor", roles[memberID])
}

func TestWorkspaceService_Integration_LastOwnerProtection(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewWorkspaceService(tdb.DB)
	ctx := context.Background()

	ownerID := uuid.New()
	viewerID := uuid.New()

	ws, err := svc.Create(ctx, "Guarded", ownerID, nil)
	require.NoError(t, err)
	require.NoError(t, svc.AddUsers(ctx, ws.ID, []uuid.UUID{viewerID}, "viewer"))

	// Demoting or removing the only owner must fail and leave the
	// roster untouched.
	err = svc.ChangeRole(ctx, ws.ID, ownerID, "viewer")
	assert.ErrorIs(t, err, services.ErrLastOwner)

	err = svc.RemoveUser(ctx, ws.ID, ownerID)
	assert.ErrorIs(t, err, services.ErrLastOwner)

	members, err := svc.GetMembers(ctx, ws.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	for _, m := range members {
		if m.UserID == ownerID {
			assert.Equal(t, "owner", m.Role)
		}
	}

	// With a second owner enrolled, the original owner may leave.
	require.NoError(t, svc.AddUsers(ctx, ws.ID, []uuid.UUID{viewerID}, "owner"))
	require.NoError(t, svc.RemoveUser(ctx, ws.ID, ownerID))

	members, err = svc.GetMembers(ctx, ws.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, viewerID, members[0].UserID)
}

func TestWorkspaceService_Integration_RemoveAbsentUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewWorkspaceService(tdb.DB)
	ctx := context.Background()

	ws, err := svc.Create(ctx, "Strict", uuid.New(), nil)
	require.NoError(t, err)

	err = svc.RemoveUser(ctx, ws.ID, uuid.New())
	assert.ErrorIs(t, err, services.ErrUserNotInWorkspace)

	err = svc.RemoveUser(ctx, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, services.ErrWorkspaceNotFound)
}

func TestWorkspaceService_Integration_CollectionRefsKeepOrderAndDuplicates(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	wsSvc := services.NewWorkspaceService(tdb.DB)
	colSvc := services.NewCollectionService(tdb.DB)
	ctx := context.Background()

	ws, err := wsSvc.Create(ctx, "Ordered", uuid.New(), nil)
	require.NoError(t, err)

	first, err := colSvc.Create(ctx, "First", []byte(`{"name":"First"}`), nil)
	require.NoError(t, err)
	second, err := colSvc.Create(ctx, "Second", []byte(`{"name":"Second"}`), nil)
	require.NoError(t, err)

	require.NoError(t, wsSvc.AppendCollectionRef(ctx, ws.ID, models.CollectionRef{ID: first.ID, Name: first.Name}))
	require.NoError(t, wsSvc.AppendCollectionRef(ctx, ws.ID, models.CollectionRef{ID: second.ID, Name: second.Name}))
	require.NoError(t, wsSvc.AppendCollectionRef(ctx, ws.ID, models.CollectionRef{ID: first.ID, Name: first.Name}))

	got, err := wsSvc.GetByID(ctx, ws.ID)
	require.NoError(t, err)
	require.Len(t, got.Collections, 3)
	assert.Equal(t, first.ID, got.Collections[0].ID)
	assert.Equal(t, second.ID, got.Collections[1].ID)
	assert.Equal(t, first.ID, got.Collections[2].ID)
}

func TestWorkspaceService_Integration_DeleteKeepsCollections(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	wsSvc := services.NewWorkspaceService(tdb.DB)
	colSvc := services.NewCollectionService(tdb.DB)
	ctx := context.Background()

	ws, err := wsSvc.Create(ctx, "Doomed", uuid.New(), nil)
	require.NoError(t, err)

	col, err := colSvc.Create(ctx, "Survivor", []byte(`{"name":"Survivor"}`), nil)
	require.NoError(t, err)
	require.NoError(t, wsSvc.AppendCollectionRef(ctx, ws.ID, models.CollectionRef{ID: col.ID, Name: col.Name}))

	removed, err := wsSvc.Delete(ctx, ws.ID)
	require.NoError(t, err)
	assert.Equal(t, ws.ID, removed.ID)

	_, err = wsSvc.GetByID(ctx, ws.ID)
	assert.ErrorIs(t, err, services.ErrWorkspaceNotFound)

	// The reference dies with the workspace; the collection does not.
	survivor, err := colSvc.GetByID(ctx, col.ID)
	require.NoError(t, err)
	assert.Equal(t, "Survivor", survivor.Name)
}
