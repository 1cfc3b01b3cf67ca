package handlers

import (
	"context"
	"io"

	"github.com/aviary-hq/aviary-api/internal/middleware"
	"github.com/aviary-hq/aviary-api/internal/models"
	"github.com/aviary-hq/aviary-api/pkg/dto"
	"github.com/aviary-hq/aviary-api/pkg/validate"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type ImportHandler struct {
	importService ImportServiceInterface
	hub           HubInterface
}

func NewImportHandler(importService ImportServiceInterface, hub HubInterface) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		hub:           hub,
	}
}

// ImportFile imports a collection from an uploaded file. The file's
// own content type decides the JSON/YAML branch.
func (h *ImportHandler) ImportFile(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	workspaceID, err := uuid.Parse(c.Param("workspaceId"))
	if err != nil {
		respondBadRequest(c, "invalid workspace id")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondBadRequest(c, "file is required")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		respondBadRequest(c, "failed to read file")
		return
	}

	collection, err := h.importService.ImportFile(context.Background(), workspaceID, userID, header.Header.Get("Content-Type"), raw)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.BroadcastCollectionImported(workspaceID, collection.ID, userID, collection.Name)
	respondOK(c, "Collection Imported", toCollectionResponse(collection))
}

// ImportURL imports a collection fetched from a remote URL. The
// response's Content-Type decides the JSON/YAML branch.
func (h *ImportHandler) ImportURL(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	workspaceID, err := uuid.Parse(c.Param("workspaceId"))
	if err != nil {
		respondBadRequest(c, "invalid workspace id")
		return
	}

	var req dto.ImportCollectionRequest
	if err := c.BindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	collection, err := h.importService.ImportURL(context.Background(), workspaceID, userID, req.URL)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.BroadcastCollectionImported(workspaceID, collection.ID, userID, collection.Name)
	respondOK(c, "Collection Imported", toCollectionResponse(collection))
}

// ImportInline imports a collection from the raw request body. The
// request's Content-Type decides the JSON/YAML branch.
func (h *ImportHandler) ImportInline(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	workspaceID, err := uuid.Parse(c.Param("workspaceId"))
	if err != nil {
		respondBadRequest(c, "invalid workspace id")
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondBadRequest(c, "failed to read request body")
		return
	}
	if len(raw) == 0 {
		respondBadRequest(c, "request body is required")
		return
	}

	collection, err := h.importService.ImportInline(context.Background(), workspaceID, userID, c.GetHeader("Content-Type"), raw)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.BroadcastCollectionImported(workspaceID, collection.ID, userID, collection.Name)
	respondOK(c, "Collection Imported", toCollectionResponse(collection))
}

func toCollectionResponse(c *models.Collection) dto.CollectionResponse {
	return dto.CollectionResponse{
		ID:        c.ID,
		Name:      c.Name,
		Data:      c.Data,
		Version:   c.Version,
		CreatedBy: c.CreatedBy,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
