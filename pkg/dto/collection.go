package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type CollectionResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
	Version   int             `json:"version"`
	CreatedBy *uuid.UUID      `json:"createdBy"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type CollectionRefResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
