package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aviary-hq/aviary-api/internal/database"
	"github.com/aviary-hq/aviary-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrCollectionNotFound = errors.New("collection not found")

type CollectionService struct {
	db *database.DB
}

func NewCollectionService(db *database.DB) *CollectionService {
	return &CollectionService{db: db}
}

func (s *CollectionService) Create(ctx context.Context, name string, data json.RawMessage, createdBy *uuid.UUID) (*models.Collection, error) {
	var collection models.Collection
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO collections (name, data, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, name, data, version, created_by, created_at, updated_at
	`, name, data, createdBy).Scan(
		&collection.ID, &collection.Name, &collection.Data, &collection.Version,
		&collection.CreatedBy, &collection.CreatedAt, &collection.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}
	return &collection, nil
}

func (s *CollectionService) GetByID(ctx context.Context, collectionID uuid.UUID) (*models.Collection, error) {
	var collection models.Collection
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, name, data, version, created_by, created_at, updated_at
		FROM collections WHERE id = $1
	`, collectionID).Scan(
		&collection.ID, &collection.Name, &collection.Data, &collection.Version,
		&collection.CreatedBy, &collection.CreatedAt, &collection.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCollectionNotFound
		}
		return nil, err
	}
	return &collection, nil
}

// GetByWorkspace returns the collections referenced by a workspace, in
// reference order. A collection referenced twice appears twice.
func (s *CollectionService) GetByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]models.Collection, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT c.id, c.name, c.data, c.version, c.created_by, c.created_at, c.updated_at
		FROM collections c
		JOIN workspace_collections wc ON c.id = wc.collection_id
		WHERE wc.workspace_id = $1
		ORDER BY wc.position, wc.created_at, wc.id
	`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collections []models.Collection
	for rows.Next() {
		var c models.Collection
		if err := rows.Scan(&c.ID, &c.Name, &c.Data, &c.Version, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}

func (s *CollectionService) Delete(ctx context.Context, collectionID uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM collections WHERE id = $1`, collectionID)
	if err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCollectionNotFound
	}
	return nil
}
