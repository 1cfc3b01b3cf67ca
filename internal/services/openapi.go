package services

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

type OpenAPIService struct{}

func NewOpenAPIService() *OpenAPIService {
	return &OpenAPIService{}
}

// ParseSpec loads an OpenAPI document from raw bytes, accepting either
// JSON or YAML.
func (s *OpenAPIService) ParseSpec(content []byte) (*openapi3.T, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(content)
	if err == nil && doc.OpenAPI != "" {
		return doc, nil
	}

	// The loader only understands JSON; go through YAML explicitly.
	var yamlDoc map[string]any
	if yamlErr := yaml.Unmarshal(content, &yamlDoc); yamlErr != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document: %w", yamlErr)
	}
	jsonBytes, err := json.Marshal(yamlDoc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert YAML document: %w", err)
	}
	doc, err = loader.LoadFromData(jsonBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document: %w", err)
	}
	return doc, nil
}

type openAPIRequest struct {
	Name   string `json:"name"`
	Method string `json:"method"`
	URL    string `json:"url"`
}

type openAPICollection struct {
	Name     string           `json:"name"`
	Requests []openAPIRequest `json:"requests"`
}

// ConvertToCollection flattens an OpenAPI document into the canonical
// collection shape: a name plus one request per path/method pair.
func (s *OpenAPIService) ConvertToCollection(doc *openapi3.T) (string, json.RawMessage, error) {
	name := "Imported Collection"
	if doc.Info != nil && doc.Info.Title != "" {
		name = doc.Info.Title
	}

	baseURL := ""
	if len(doc.Servers) > 0 {
		baseURL = doc.Servers[0].URL
	}

	collection := openAPICollection{
		Name:     name,
		Requests: []openAPIRequest{},
	}

	if doc.Paths != nil {
		paths := make([]string, 0, doc.Paths.Len())
		for path := range doc.Paths.Map() {
			paths = append(paths, path)
		}
		sort.Strings(paths)

		for _, path := range paths {
			item := doc.Paths.Value(path)
			for method, op := range item.Operations() {
				reqName := op.Summary
				if reqName == "" {
					reqName = method + " " + path
				}
				collection.Requests = append(collection.Requests, openAPIRequest{
					Name:   reqName,
					Method: method,
					URL:    baseURL + path,
				})
			}
		}
	}

	data, err := json.Marshal(collection)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode collection: %w", err)
	}
	return name, data, nil
}
