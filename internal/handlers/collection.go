package handlers

import (
	"context"

	"github.com/aviary-hq/aviary-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type CollectionHandler struct {
	workspaceService  WorkspaceServiceInterface
	collectionService CollectionServiceInterface
}

func NewCollectionHandler(workspaceService WorkspaceServiceInterface, collectionService CollectionServiceInterface) *CollectionHandler {
	return &CollectionHandler{
		workspaceService:  workspaceService,
		collectionService: collectionService,
	}
}

// ListByWorkspace returns the full collections referenced by a
// workspace, in reference order.
func (h *CollectionHandler) ListByWorkspace(c *drift.Context) {
	workspaceID, err := uuid.Parse(c.Param("workspaceId"))
	if err != nil {
		respondBadRequest(c, "invalid workspace id")
		return
	}

	ctx := context.Background()

	if _, err := h.workspaceService.GetMembers(ctx, workspaceID); err != nil {
		respondError(c, err)
		return
	}

	collections, err := h.collectionService.GetByWorkspace(ctx, workspaceID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]dto.CollectionResponse, len(collections))
	for i := range collections {
		response[i] = toCollectionResponse(&collections[i])
	}

	respondOK(c, "Success", response)
}
