package hub

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type CollectionImportedEvent struct {
	CollectionID uuid.UUID `json:"collectionId"`
	WorkspaceID  uuid.UUID `json:"workspaceId"`
	Name         string    `json:"name"`
	ImportedBy   uuid.UUID `json:"importedBy"`
}

type MemberEvent struct {
	WorkspaceID uuid.UUID `json:"workspaceId"`
	UserID      uuid.UUID `json:"userId"`
	Role        string    `json:"role,omitempty"`
}

type WorkspaceUpdatedEvent struct {
	WorkspaceID uuid.UUID `json:"workspaceId"`
	Name        string    `json:"name"`
}

type Client struct {
	ID         string
	UserID     uuid.UUID
	Workspaces map[uuid.UUID]bool
	Send       chan []byte
}

type WorkspaceMessage struct {
	WorkspaceID uuid.UUID
	Event       Event
}

type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *WorkspaceMessage
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *WorkspaceMessage, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Event)
			for _, client := range h.clients {
				if client.Workspaces[msg.WorkspaceID] {
					select {
					case client.Send <- data:
					default:
						// Client buffer full, skip
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) SubscribeToWorkspace(clientID string, workspaceID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		client.Workspaces[workspaceID] = true
	}
}

func (h *Hub) UnsubscribeFromWorkspace(clientID string, workspaceID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		delete(client.Workspaces, workspaceID)
	}
}

func (h *Hub) BroadcastCollectionImported(workspaceID, collectionID, importedBy uuid.UUID, name string) {
	h.broadcast <- &WorkspaceMessage{
		WorkspaceID: workspaceID,
		Event: Event{
			Type: "collection_imported",
			Data: CollectionImportedEvent{
				CollectionID: collectionID,
				WorkspaceID:  workspaceID,
				Name:         name,
				ImportedBy:   importedBy,
			},
		},
	}
}

func (h *Hub) BroadcastMemberAdded(workspaceID, userID uuid.UUID, role string) {
	h.broadcast <- &WorkspaceMessage{
		WorkspaceID: workspaceID,
		Event: Event{
			Type: "member_added",
			Data: MemberEvent{WorkspaceID: workspaceID, UserID: userID, Role: role},
		},
	}
}

func (h *Hub) BroadcastMemberRoleChanged(workspaceID, userID uuid.UUID, role string) {
	h.broadcast <- &WorkspaceMessage{
		WorkspaceID: workspaceID,
		Event: Event{
			Type: "member_role_changed",
			Data: MemberEvent{WorkspaceID: workspaceID, UserID: userID, Role: role},
		},
	}
}

func (h *Hub) BroadcastMemberRemoved(workspaceID, userID uuid.UUID) {
	h.broadcast <- &WorkspaceMessage{
		WorkspaceID: workspaceID,
		Event: Event{
			Type: "member_removed",
			Data: MemberEvent{WorkspaceID: workspaceID, UserID: userID},
		},
	}
}

func (h *Hub) BroadcastWorkspaceUpdated(workspaceID uuid.UUID, name string) {
	h.broadcast <- &WorkspaceMessage{
		WorkspaceID: workspaceID,
		Event: Event{
			Type: "workspace_updated",
			Data: WorkspaceUpdatedEvent{WorkspaceID: workspaceID, Name: name},
		},
	}
}
