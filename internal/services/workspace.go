package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/aviary-hq/aviary-api/internal/database"
	"github.com/aviary-hq/aviary-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrWorkspaceNotFound  = errors.New("workspace not found")
	ErrUserNotInWorkspace = errors.New("user is not a member of this workspace")
	ErrInvalidRole        = errors.New("invalid role")
	ErrLastOwner          = errors.New("workspace must keep at least one owner")
)

type WorkspaceService struct {
	db *database.DB
}

func NewWorkspaceService(db *database.DB) *WorkspaceService {
	return &WorkspaceService{db: db}
}

// Create inserts the workspace and enrolls the creator as its owner in
// one transaction, so a workspace is never observable without an owner.
func (s *WorkspaceService) Create(ctx context.Context, name string, ownerID uuid.UUID, teamID *uuid.UUID) (*models.Workspace, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var workspace models.Workspace
	err = tx.QueryRow(ctx, `
		INSERT INTO workspaces (name, owner_id, team_id)
		VALUES ($1, $2, $3)
		RETURNING id, name, owner_id, team_id, created_at, updated_at
	`, name, ownerID, teamID).Scan(
		&workspace.ID, &workspace.Name, &workspace.OwnerID, &workspace.TeamID,
		&workspace.CreatedAt, &workspace.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO workspace_members (workspace_id, user_id, role)
		VALUES ($1, $2, $3)
	`, workspace.ID, ownerID, models.RoleOwner)
	if err != nil {
		return nil, fmt.Errorf("failed to add owner as member: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &workspace, nil
}

// GetByID returns the enriched workspace view: base record, roster and
// the ordered collection reference list.
func (s *WorkspaceService) GetByID(ctx context.Context, workspaceID uuid.UUID) (*models.Workspace, error) {
	var workspace models.Workspace
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, name, owner_id, team_id, created_at, updated_at
		FROM workspaces WHERE id = $1
	`, workspaceID).Scan(
		&workspace.ID, &workspace.Name, &workspace.OwnerID, &workspace.TeamID,
		&workspace.CreatedAt, &workspace.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, err
	}

	members, err := s.loadMembers(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	workspace.Users = members

	refs, err := s.loadCollectionRefs(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	workspace.Collections = refs

	return &workspace, nil
}

func (s *WorkspaceService) GetUserWorkspaces(ctx context.Context, userID uuid.UUID) ([]models.Workspace, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT w.id, w.name, w.owner_id, w.team_id, w.created_at, w.updated_at
		FROM workspaces w
		JOIN workspace_members wm ON w.id = wm.workspace_id
		WHERE wm.user_id = $1
		ORDER BY w.created_at DESC, w.id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWorkspaces(rows)
}

func (s *WorkspaceService) GetTeamWorkspaces(ctx context.Context, teamID uuid.UUID) ([]models.Workspace, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, name, owner_id, team_id, created_at, updated_at
		FROM workspaces
		WHERE team_id = $1
		ORDER BY created_at DESC, id
	`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWorkspaces(rows)
}

// Update applies a partial update; nil fields are left unchanged.
func (s *WorkspaceService) Update(ctx context.Context, workspaceID uuid.UUID, name *string) (*models.Workspace, error) {
	var workspace models.Workspace
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE workspaces
		SET name = COALESCE($1, name), updated_at = NOW()
		WHERE id = $2
		RETURNING id, name, owner_id, team_id, created_at, updated_at
	`, name, workspaceID).Scan(
		&workspace.ID, &workspace.Name, &workspace.OwnerID, &workspace.TeamID,
		&workspace.CreatedAt, &workspace.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, err
	}
	return &workspace, nil
}

// Delete removes the workspace and returns the removed record. Member
// rows and collection references go with it; the collections themselves
// survive in their own store.
func (s *WorkspaceService) Delete(ctx context.Context, workspaceID uuid.UUID) (*models.Workspace, error) {
	var workspace models.Workspace
	err := s.db.Pool.QueryRow(ctx, `
		DELETE FROM workspaces WHERE id = $1
		RETURNING id, name, owner_id, team_id, created_at, updated_at
	`, workspaceID).Scan(
		&workspace.ID, &workspace.Name, &workspace.OwnerID, &workspace.TeamID,
		&workspace.CreatedAt, &workspace.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, err
	}
	return &workspace, nil
}

func (s *WorkspaceService) GetMembers(ctx context.Context, workspaceID uuid.UUID) ([]models.WorkspaceMember, error) {
	exists, err := s.workspaceExists(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrWorkspaceNotFound
	}
	return s.loadMembers(ctx, workspaceID)
}

// AddUsers enrolls every given user with the given role. Re-adding an
// existing member overwrites its role (last write wins); no duplicate
// roster entries are ever created. The whole batch is one transaction
// and is rejected if it would leave the workspace without an owner.
func (s *WorkspaceService) AddUsers(ctx context.Context, workspaceID uuid.UUID, userIDs []uuid.UUID, role string) error {
	if !models.ValidRole(role) {
		return ErrInvalidRole
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// An empty batch is a no-op, but an unknown workspace still fails.
	exists, err := workspaceExistsTx(ctx, tx, workspaceID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrWorkspaceNotFound
	}

	for _, userID := range userIDs {
		_, err = tx.Exec(ctx, `
			INSERT INTO workspace_members (workspace_id, user_id, role)
			VALUES ($1, $2, $3)
			ON CONFLICT (workspace_id, user_id) DO UPDATE SET role = EXCLUDED.role
		`, workspaceID, userID, role)
		if err != nil {
			return fmt.Errorf("failed to add user %s: %w", userID, err)
		}
	}

	owners, err := countOwnersTx(ctx, tx, workspaceID)
	if err != nil {
		return err
	}
	if owners == 0 {
		return ErrLastOwner
	}

	return tx.Commit(ctx)
}

// ChangeRole overwrites a member's role atomically; no intermediate
// roster state is observable.
func (s *WorkspaceService) ChangeRole(ctx context.Context, workspaceID, userID uuid.UUID, role string) error {
	if !models.ValidRole(role) {
		return ErrInvalidRole
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE workspace_members SET role = $1
		WHERE workspace_id = $2 AND user_id = $3
	`, role, workspaceID, userID)
	if err != nil {
		return fmt.Errorf("failed to change role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		exists, err := workspaceExistsTx(ctx, tx, workspaceID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrWorkspaceNotFound
		}
		return ErrUserNotInWorkspace
	}

	owners, err := countOwnersTx(ctx, tx, workspaceID)
	if err != nil {
		return err
	}
	if owners == 0 {
		return ErrLastOwner
	}

	return tx.Commit(ctx)
}

// RemoveUser removes a roster entry. Removing an absent user is an
// explicit failure, not a no-op.
func (s *WorkspaceService) RemoveUser(ctx context.Context, workspaceID, userID uuid.UUID) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var removedRole string
	err = tx.QueryRow(ctx, `
		DELETE FROM workspace_members
		WHERE workspace_id = $1 AND user_id = $2
		RETURNING role
	`, workspaceID, userID).Scan(&removedRole)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			exists, existsErr := workspaceExistsTx(ctx, tx, workspaceID)
			if existsErr != nil {
				return existsErr
			}
			if !exists {
				return ErrWorkspaceNotFound
			}
			return ErrUserNotInWorkspace
		}
		return fmt.Errorf("failed to remove user: %w", err)
	}

	if removedRole == models.RoleOwner {
		owners, err := countOwnersTx(ctx, tx, workspaceID)
		if err != nil {
			return err
		}
		if owners == 0 {
			return ErrLastOwner
		}
	}

	return tx.Commit(ctx)
}

// AppendCollectionRef appends one {id, name} reference to the
// workspace's ordered collection list. Duplicate collection ids are
// permitted.
func (s *WorkspaceService) AppendCollectionRef(ctx context.Context, workspaceID uuid.UUID, ref models.CollectionRef) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// The row lock serializes concurrent appends to one workspace, so
	// two imports never compute the same position.
	var lockedID uuid.UUID
	err = tx.QueryRow(ctx, `
		SELECT id FROM workspaces WHERE id = $1 FOR UPDATE
	`, workspaceID).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrWorkspaceNotFound
		}
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO workspace_collections (workspace_id, collection_id, name, position)
		SELECT $1, $2, $3, COALESCE(MAX(position), 0) + 1
		FROM workspace_collections WHERE workspace_id = $1
	`, workspaceID, ref.ID, ref.Name)
	if err != nil {
		return fmt.Errorf("failed to append collection reference: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *WorkspaceService) workspaceExists(ctx context.Context, workspaceID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM workspaces WHERE id = $1)
	`, workspaceID).Scan(&exists)
	return exists, err
}

func (s *WorkspaceService) loadMembers(ctx context.Context, workspaceID uuid.UUID) ([]models.WorkspaceMember, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT user_id, role, created_at
		FROM workspace_members
		WHERE workspace_id = $1
		ORDER BY created_at, user_id
	`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.WorkspaceMember
	for rows.Next() {
		var m models.WorkspaceMember
		if err := rows.Scan(&m.UserID, &m.Role, &m.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *WorkspaceService) loadCollectionRefs(ctx context.Context, workspaceID uuid.UUID) ([]models.CollectionRef, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT collection_id, name
		FROM workspace_collections
		WHERE workspace_id = $1
		ORDER BY position, created_at, id
	`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []models.CollectionRef
	for rows.Next() {
		var ref models.CollectionRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func workspaceExistsTx(ctx context.Context, tx pgx.Tx, workspaceID uuid.UUID) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM workspaces WHERE id = $1)
	`, workspaceID).Scan(&exists)
	return exists, err
}

func countOwnersTx(ctx context.Context, tx pgx.Tx, workspaceID uuid.UUID) (int, error) {
	var owners int
	err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM workspace_members
		WHERE workspace_id = $1 AND role = $2
	`, workspaceID, models.RoleOwner).Scan(&owners)
	return owners, err
}

func scanWorkspaces(rows pgx.Rows) ([]models.Workspace, error) {
	var workspaces []models.Workspace
	for rows.Next() {
		var w models.Workspace
		if err := rows.Scan(&w.ID, &w.Name, &w.OwnerID, &w.TeamID, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		workspaces = append(workspaces, w)
	}
	return workspaces, rows.Err()
}
