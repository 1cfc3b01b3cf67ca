package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/aviary-hq/aviary-api/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var (
	ErrMalformedJSON     = errors.New("body is not valid JSON")
	ErrMalformedYAML     = errors.New("body is not valid YAML")
	ErrMalformedEncoding = errors.New("body is not valid UTF-8 text")
	ErrFetchFailed       = errors.New("failed to fetch remote document")
)

// CollectionStore is the collection persistence surface the importer
// needs.
type CollectionStore interface {
	Create(ctx context.Context, name string, data json.RawMessage, createdBy *uuid.UUID) (*models.Collection, error)
	GetByID(ctx context.Context, collectionID uuid.UUID) (*models.Collection, error)
	Delete(ctx context.Context, collectionID uuid.UUID) error
}

// WorkspaceLinker attaches a collection reference to a workspace.
type WorkspaceLinker interface {
	AppendCollectionRef(ctx context.Context, workspaceID uuid.UUID, ref models.CollectionRef) error
}

// CollectionParser turns a decoded document into a canonical
// collection.
type CollectionParser interface {
	Parse(doc any) (*ParsedCollection, error)
}

type ImportService struct {
	collections   CollectionStore
	workspaces    WorkspaceLinker
	parser        CollectionParser
	client        *http.Client
	maxFetchBytes int64
	log           *logrus.Logger
}

func NewImportService(collections CollectionStore, workspaces WorkspaceLinker, parser CollectionParser, client *http.Client, maxFetchBytes int64, log *logrus.Logger) *ImportService {
	return &ImportService{
		collections:   collections,
		workspaces:    workspaces,
		parser:        parser,
		client:        client,
		maxFetchBytes: maxFetchBytes,
		log:           log,
	}
}

// DecodePayload decodes raw bytes into a document, branching on the
// declared media type: JSON for application/json, YAML for everything
// else. The content is never sniffed.
func DecodePayload(raw []byte, mediaType string) (any, error) {
	if !utf8.Valid(raw) {
		return nil, ErrMalformedEncoding
	}

	declared := mediaType
	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		declared = parsed
	}

	if strings.EqualFold(declared, "application/json") {
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
		}
		return doc, nil
	}

	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedYAML, err)
	}
	return normalizeYAML(doc), nil
}

// normalizeYAML rewrites yaml.v3's map[string]any trees so nested keys
// behave identically to JSON-decoded documents.
func normalizeYAML(doc any) any {
	switch v := doc.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, value := range v {
			out[key] = normalizeYAML(value)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, value := range v {
			out[i] = normalizeYAML(value)
		}
		return out
	default:
		return v
	}
}

// ImportFile imports an uploaded file's contents under its declared
// content type.
func (s *ImportService) ImportFile(ctx context.Context, workspaceID, userID uuid.UUID, mediaType string, raw []byte) (*models.Collection, error) {
	doc, err := DecodePayload(raw, mediaType)
	if err != nil {
		return nil, err
	}
	return s.register(ctx, workspaceID, userID, doc)
}

// ImportURL fetches a remote document and imports it under the
// response's declared content type. The fetch is bounded in both time
// (client timeout plus ctx) and size.
func (s *ImportService) ImportURL(ctx context.Context, workspaceID, userID uuid.UUID, rawURL string) (*models.Collection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: remote returned status %d", ErrFetchFailed, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, s.maxFetchBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if int64(len(raw)) > s.maxFetchBytes {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", ErrFetchFailed, s.maxFetchBytes)
	}

	doc, err := DecodePayload(raw, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	return s.register(ctx, workspaceID, userID, doc)
}

// ImportInline imports a raw request body under the request's declared
// content type.
func (s *ImportService) ImportInline(ctx context.Context, workspaceID, userID uuid.UUID, mediaType string, raw []byte) (*models.Collection, error) {
	doc, err := DecodePayload(raw, mediaType)
	if err != nil {
		return nil, err
	}
	return s.register(ctx, workspaceID, userID, doc)
}

// register runs the shared tail of every import: parse, persist the
// collection, link it into the workspace. If linking fails, the freshly
// created collection is deleted again so no orphan survives a partial
// import.
func (s *ImportService) register(ctx context.Context, workspaceID, userID uuid.UUID, doc any) (*models.Collection, error) {
	parsed, err := s.parser.Parse(doc)
	if err != nil {
		return nil, err
	}

	collection, err := s.collections.Create(ctx, parsed.Name, parsed.Data, &userID)
	if err != nil {
		return nil, err
	}

	ref := models.CollectionRef{ID: collection.ID, Name: collection.Name}
	if err := s.workspaces.AppendCollectionRef(ctx, workspaceID, ref); err != nil {
		if delErr := s.collections.Delete(ctx, collection.ID); delErr != nil {
			s.log.WithFields(logrus.Fields{
				"collectionId": collection.ID,
				"workspaceId":  workspaceID,
				"error":        delErr,
			}).Warn("failed to clean up collection after link failure")
		}
		return nil, err
	}

	return s.collections.GetByID(ctx, collection.ID)
}
