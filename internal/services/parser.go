package services

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrImportRejected marks a decoded document that does not describe a
// collection in any supported format.
var ErrImportRejected = errors.New("document is not a recognized collection format")

// ParsedCollection is the canonical result of parsing an import
// payload, whatever its source format.
type ParsedCollection struct {
	Name string
	Data json.RawMessage
}

type ParserService struct {
	openapi *OpenAPIService
}

func NewParserService(openapi *OpenAPIService) *ParserService {
	return &ParserService{openapi: openapi}
}

// Parse validates a decoded document and produces the canonical
// collection. OpenAPI documents are detected by their top-level
// "openapi" or "swagger" key and converted; anything else must already
// be in the native shape with a non-empty name.
func (p *ParserService) Parse(doc any) (*ParsedCollection, error) {
	root, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top level must be an object", ErrImportRejected)
	}

	if _, isOpenAPI := root["openapi"]; isOpenAPI {
		return p.parseOpenAPI(root)
	}
	if _, isSwagger := root["swagger"]; isSwagger {
		return p.parseOpenAPI(root)
	}

	name, ok := root["name"].(string)
	if !ok || name == "" {
		return nil, fmt.Errorf("%w: missing collection name", ErrImportRejected)
	}

	if requests, present := root["requests"]; present {
		if _, ok := requests.([]any); !ok {
			return nil, fmt.Errorf("%w: requests must be a list", ErrImportRejected)
		}
	}

	data, err := json.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("failed to encode collection: %w", err)
	}

	return &ParsedCollection{Name: name, Data: data}, nil
}

func (p *ParserService) parseOpenAPI(root map[string]any) (*ParsedCollection, error) {
	raw, err := json.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("failed to encode OpenAPI document: %w", err)
	}

	doc, err := p.openapi.ParseSpec(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportRejected, err)
	}

	name, data, err := p.openapi.ConvertToCollection(doc)
	if err != nil {
		return nil, err
	}
	return &ParsedCollection{Name: name, Data: data}, nil
}
