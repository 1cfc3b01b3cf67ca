package handlers

import (
	"context"

	"github.com/aviary-hq/aviary-api/internal/hub"
	"github.com/aviary-hq/aviary-api/internal/middleware"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type EventsHandler struct {
	hub              HubInterface
	workspaceService WorkspaceServiceInterface
}

func NewEventsHandler(h HubInterface, workspaceService WorkspaceServiceInterface) *EventsHandler {
	return &EventsHandler{
		hub:              h,
		workspaceService: workspaceService,
	}
}

// Connect opens an SSE stream scoped to one workspace.
func (h *EventsHandler) Connect(c *drift.Context) {
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

	if _, err := h.workspaceService.GetMembers(context.Background(), workspaceID); err != nil {
		respondError(c, err)
		return
	}

	sseCtx := c.SSE()

	clientID := uuid.New().String()
	client := &hub.Client{
		ID:         clientID,
		UserID:     userID,
		Workspaces: map[uuid.UUID]bool{workspaceID: true},
		Send:       make(chan []byte, 256),
	}

	h.hub.Register(client)
	defer h.hub.Unregister(client)

	if err := sseCtx.SendJSON(map[string]string{
		"type":     "connected",
		"clientId": clientID,
	}, "system", ""); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		<-c.Request.Context().Done()
		close(done)
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := sseCtx.Send(string(msg), "message", ""); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
