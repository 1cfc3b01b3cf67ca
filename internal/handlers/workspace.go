package handlers

import (
	"context"
	"net/http"

	"github.com/aviary-hq/aviary-api/internal/middleware"
	"github.com/aviary-hq/aviary-api/internal/models"
	"github.com/aviary-hq/aviary-api/pkg/dto"
	"github.com/aviary-hq/aviary-api/pkg/validate"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type WorkspaceHandler struct {
	workspaceService WorkspaceServiceInterface
	hub              HubInterface
}

func NewWorkspaceHandler(workspaceService WorkspaceServiceInterface, hub HubInterface) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
		hub:              hub,
	}
}

func (h *WorkspaceHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateWorkspaceRequest
	if err := c.BindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	ctx := context.Background()

	workspace, err := h.workspaceService.Create(ctx, req.Name, userID, req.TeamID)
	if err != nil {
		respondError(c, err)
		return
	}

	// Re-read so the response carries the roster the create produced.
	created, err := h.workspaceService.GetByID(ctx, workspace.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, http.StatusCreated, "Workspace Created", toWorkspaceResponse(created))
}

func (h *WorkspaceHandler) Get(c *drift.Context) {
	workspaceID, err := uuid.Parse(c.Param("workspaceId"))
	if err != nil {
		respondBadRequest(c, "invalid workspace id")
		return
	}

	workspace, err := h.workspaceService.GetByID(context.Background(), workspaceID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Success", toWorkspaceResponse(workspace))
}

func (h *WorkspaceHandler) ListByUser(c *drift.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		respondBadRequest(c, "invalid user id")
		return
	}

	workspaces, err := h.workspaceService.GetUserWorkspaces(context.Background(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Success", toWorkspaceResponses(workspaces))
}

func (h *WorkspaceHandler) ListByTeam(c *drift.Context) {
	teamID, err := uuid.Parse(c.Param("teamId"))
	if err != nil {
		respondBadRequest(c, "invalid team id")
		return
	}

	workspaces, err := h.workspaceService.GetTeamWorkspaces(context.Background(), teamID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Success", toWorkspaceResponses(workspaces))
}

func (h *WorkspaceHandler) GetUsers(c *drift.Context) {
	workspaceID, err := uuid.Parse(c.Param("workspaceId"))
	if err != nil {
		respondBadRequest(c, "invalid workspace id")
		return
	}

	members, err := h.workspaceService.GetMembers(context.Background(), workspaceID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Success", toMemberResponses(members))
}

func (h *WorkspaceHandler) Update(c *drift.Context) {
	workspaceID, err := uuid.Parse(c.Param("workspaceId"))
	if err != nil {
		respondBadRequest(c, "invalid workspace id")
		return
	}

	var req dto.UpdateWorkspaceRequest
	if err := c.BindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	ctx := context.Background()

	workspace, err := h.workspaceService.Update(ctx, workspaceID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.workspaceService.GetByID(ctx, workspace.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.BroadcastWorkspaceUpdated(workspaceID, updated.Name)
	respondOK(c, "Workspace Updated", toWorkspaceResponse(updated))
}

func (h *WorkspaceHandler) Delete(c *drift.Context) {
	workspaceID, err := uuid.Parse(c.Param("workspaceId"))
	if err != nil {
		respondBadRequest(c, "invalid workspace id")
		return
	}

	removed, err := h.workspaceService.Delete(context.Background(), workspaceID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Workspace Deleted", toWorkspaceResponse(removed))
}

func (h *WorkspaceHandler) AddUsers(c *drift.Context) {
	workspaceID, err := uuid.Parse(c.Param("workspaceId"))
	if err != nil {
		respondBadRequest(c, "invalid workspace id")
		return
	}

	var req dto.AddWorkspaceUsersRequest
	if err := c.BindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	ctx := context.Background()

	if err := h.workspaceService.AddUsers(ctx, workspaceID, req.Users, req.Role); err != nil {
		respondError(c, err)
		return
	}

	workspace, err := h.workspaceService.GetByID(ctx, workspaceID)
	if err != nil {
		respondError(c, err)
		return
	}

	for _, userID := range req.Users {
		h.hub.BroadcastMemberAdded(workspaceID, userID, req.Role)
	}

	respond(c, http.StatusCreated, http.StatusOK, "User Added", toWorkspaceResponse(workspace))
}

func (h *WorkspaceHandler) ChangeRole(c *drift.Context) {
	workspaceID, err := uuid.Parse(c.Param("workspaceId"))
	if err != nil {
		respondBadRequest(c, "invalid workspace id")
		return
	}
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		respondBadRequest(c, "invalid user id")
		return
	}

	var req dto.ChangeUserRoleRequest
	if err := c.BindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	ctx := context.Background()

	if err := h.workspaceService.ChangeRole(ctx, workspaceID, userID, req.Role); err != nil {
		respondError(c, err)
		return
	}

	workspace, err := h.workspaceService.GetByID(ctx, workspaceID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.BroadcastMemberRoleChanged(workspaceID, userID, req.Role)
	respond(c, http.StatusCreated, http.StatusOK, "Role Changed", toWorkspaceResponse(workspace))
}

func (h *WorkspaceHandler) RemoveUser(c *drift.Context) {
	workspaceID, err := uuid.Parse(c.Param("workspaceId"))
	if err != nil {
		respondBadRequest(c, "invalid workspace id")
		return
	}
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		respondBadRequest(c, "invalid user id")
		return
	}

	ctx := context.Background()

	if err := h.workspaceService.RemoveUser(ctx, workspaceID, userID); err != nil {
		respondError(c, err)
		return
	}

	workspace, err := h.workspaceService.GetByID(ctx, workspaceID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.BroadcastMemberRemoved(workspaceID, userID)
	respond(c, http.StatusCreated, http.StatusOK, "User Removed", toWorkspaceResponse(workspace))
}

func toWorkspaceResponse(w *models.Workspace) dto.WorkspaceResponse {
	return dto.WorkspaceResponse{
		ID:          w.ID,
		Name:        w.Name,
		OwnerID:     w.OwnerID,
		TeamID:      w.TeamID,
		Users:       toMemberResponses(w.Users),
		Collections: toCollectionRefResponses(w.Collections),
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func toWorkspaceResponses(workspaces []models.Workspace) []dto.WorkspaceResponse {
	response := make([]dto.WorkspaceResponse, len(workspaces))
	for i := range workspaces {
		response[i] = toWorkspaceResponse(&workspaces[i])
	}
	return response
}

func toMemberResponses(members []models.WorkspaceMember) []dto.MemberResponse {
	response := make([]dto.MemberResponse, len(members))
	for i, m := range members {
		response[i] = dto.MemberResponse{UserID: m.UserID, Role: m.Role}
	}
	return response
}

func toCollectionRefResponses(refs []models.CollectionRef) []dto.CollectionRefResponse {
	response := make([]dto.CollectionRefResponse, len(refs))
	for i, ref := range refs {
		response[i] = dto.CollectionRefResponse{ID: ref.ID, Name: ref.Name}
	}
	return response
}
