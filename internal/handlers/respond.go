package handlers

import (
	"errors"
	"net/http"

	"github.com/aviary-hq/aviary-api/internal/services"
	"github.com/aviary-hq/aviary-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

// respond writes the uniform envelope. wireStatus and the envelope's
// httpStatusCode usually agree; membership mutations answer 201 on the
// wire with a 200 envelope, so they are passed separately.
func respond(c *drift.Context, wireStatus, envelopeStatus int, message string, data any) {
	_ = c.JSON(wireStatus, dto.NewEnvelope(message, envelopeStatus, data))
}

func respondOK(c *drift.Context, message string, data any) {
	respond(c, http.StatusOK, http.StatusOK, message, data)
}

// respondError maps a service error onto the envelope. Unknown errors
// collapse to a generic 500 so internals never leak to clients.
func respondError(c *drift.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, services.ErrWorkspaceNotFound),
		errors.Is(err, services.ErrCollectionNotFound),
		errors.Is(err, services.ErrUserNotInWorkspace):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrLastOwner),
		errors.Is(err, services.ErrImportRejected),
		errors.Is(err, services.ErrMalformedJSON),
		errors.Is(err, services.ErrMalformedYAML),
		errors.Is(err, services.ErrMalformedEncoding):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, services.ErrFetchFailed):
		status = http.StatusBadGateway
		message = err.Error()
	}

	respond(c, status, status, message, nil)
}

func respondBadRequest(c *drift.Context, message string) {
	respond(c, http.StatusBadRequest, http.StatusBadRequest, message, nil)
}
