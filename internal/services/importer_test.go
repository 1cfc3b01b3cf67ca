package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aviary-hq/aviary-api/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCollectionStore struct {
	mock.Mock
}

func (m *mockCollectionStore) Create(ctx context.Context, name string, data json.RawMessage, createdBy *uuid.UUID) (*models.Collection, error) {
	args := m.Called(ctx, name, data, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *mockCollectionStore) GetByID(ctx context.Context, collectionID uuid.UUID) (*models.Collection, error) {
	args := m.Called(ctx, collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *mockCollectionStore) Delete(ctx context.Context, collectionID uuid.UUID) error {
	args := m.Called(ctx, collectionID)
	return args.Error(0)
}

type mockWorkspaceLinker struct {
	mock.Mock
}

func (m *mockWorkspaceLinker) AppendCollectionRef(ctx context.Context, workspaceID uuid.UUID, ref models.CollectionRef) error {
	args := m.Called(ctx, workspaceID, ref)
	return args.Error(0)
}

func newTestImportService(store *mockCollectionStore, linker *mockWorkspaceLinker) *ImportService {
	log := logrus.New()
	log.SetOutput(&strings.Builder{})
	parser := NewParserService(NewOpenAPIService())
	return NewImportService(store, linker, parser, http.DefaultClient, 1<<20, log)
}

func TestDecodePayload_JSON(t *testing.T) {
	doc, err := DecodePayload([]byte(`{"name":"Pets"}`), "application/json")

	require.NoError(t, err)
	root, ok := doc.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Pets", root["name"])
}

func TestDecodePayload_JSONWithCharset(t *testing.T) {
	doc, err := DecodePayload([]byte(`{"name":"Pets"}`), "application/json; charset=utf-8")

	require.NoError(t, err)
	_, ok := doc.(map[string]any)
	assert.True(t, ok)
}

func TestDecodePayload_InvalidJSON(t *testing.T) {
	_, err := DecodePayload([]byte(`{"name":`), "application/json")

	assert.ErrorIs(t, err, ErrMalformedJSON)
}

func TestDecodePayload_YAML(t *testing.T) {
	raw := []byte("name: Pets\nrequests:\n  - name: List\n    method: GET\n")

	doc, err := DecodePayload(raw, "application/yaml")

	require.NoError(t, err)
	root, ok := doc.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Pets", root["name"])
}

// A declared non-JSON type always takes the YAML branch, even when the
// bytes happen to be JSON.
func TestDecodePayload_JSONBodyDeclaredYAML(t *testing.T) {
	doc, err := DecodePayload([]byte(`{"name":"Pets"}`), "text/yaml")

	require.NoError(t, err)
	root, ok := doc.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Pets", root["name"])
}

func TestDecodePayload_InvalidYAML(t *testing.T) {
	_, err := DecodePayload([]byte("name: [unclosed"), "application/yaml")

	assert.ErrorIs(t, err, ErrMalformedYAML)
}

func TestDecodePayload_InvalidUTF8(t *testing.T) {
	_, err := DecodePayload([]byte{0xff, 0xfe, 0xfd}, "application/json")

	assert.ErrorIs(t, err, ErrMalformedEncoding)
}

func TestImportService_ImportInline(t *testing.T) {
	store := &mockCollectionStore{}
	linker := &mockWorkspaceLinker{}
	svc := newTestImportService(store, linker)

	workspaceID := uuid.New()
	userID := uuid.New()
	collectionID := uuid.New()
	created := &models.Collection{ID: collectionID, Name: "Pets"}

	store.On("Create", mock.Anything, "Pets", mock.Anything, &userID).Return(created, nil)
	linker.On("AppendCollectionRef", mock.Anything, workspaceID, models.CollectionRef{ID: collectionID, Name: "Pets"}).Return(nil)
	store.On("GetByID", mock.Anything, collectionID).Return(created, nil)

	collection, err := svc.ImportInline(context.Background(), workspaceID, userID, "application/json", []byte(`{"name":"Pets"}`))

	require.NoError(t, err)
	assert.Equal(t, collectionID, collection.ID)
	store.AssertExpectations(t)
	linker.AssertExpectations(t)
}

// A failed link must delete the collection it just created; a rejected
// import never leaves an orphan behind.
func TestImportService_ImportInline_LinkFailureCleansUp(t *testing.T) {
	store := &mockCollectionStore{}
	linker := &mockWorkspaceLinker{}
	svc := newTestImportService(store, linker)

	workspaceID := uuid.New()
	userID := uuid.New()
	collectionID := uuid.New()
	created := &models.Collection{ID: collectionID, Name: "Pets"}

	store.On("Create", mock.Anything, "Pets", mock.Anything, &userID).Return(created, nil)
	linker.On("AppendCollectionRef", mock.Anything, workspaceID, mock.Anything).Return(ErrWorkspaceNotFound)
	store.On("Delete", mock.Anything, collectionID).Return(nil)

	_, err := svc.ImportInline(context.Background(), workspaceID, userID, "application/json", []byte(`{"name":"Pets"}`))

	assert.ErrorIs(t, err, ErrWorkspaceNotFound)
	store.AssertExpectations(t)
	linker.AssertExpectations(t)
}

func TestImportService_ImportInline_Rejected(t *testing.T) {
	store := &mockCollectionStore{}
	linker := &mockWorkspaceLinker{}
	svc := newTestImportService(store, linker)

	_, err := svc.ImportInline(context.Background(), uuid.New(), uuid.New(), "application/json", []byte(`{"title":"no name here"}`))

	assert.ErrorIs(t, err, ErrImportRejected)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestImportService_ImportURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write([]byte("name: Remote Pets\n"))
	}))
	defer server.Close()

	store := &mockCollectionStore{}
	linker := &mockWorkspaceLinker{}
	svc := newTestImportService(store, linker)

	workspaceID := uuid.New()
	userID := uuid.New()
	collectionID := uuid.New()
	created := &models.Collection{ID: collectionID, Name: "Remote Pets"}

	store.On("Create", mock.Anything, "Remote Pets", mock.Anything, &userID).Return(created, nil)
	linker.On("AppendCollectionRef", mock.Anything, workspaceID, mock.Anything).Return(nil)
	store.On("GetByID", mock.Anything, collectionID).Return(created, nil)

	collection, err := svc.ImportURL(context.Background(), workspaceID, userID, server.URL)

	require.NoError(t, err)
	assert.Equal(t, "Remote Pets", collection.Name)
	store.AssertExpectations(t)
}

func TestImportService_ImportURL_RemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	store := &mockCollectionStore{}
	linker := &mockWorkspaceLinker{}
	svc := newTestImportService(store, linker)

	_, err := svc.ImportURL(context.Background(), uuid.New(), uuid.New(), server.URL)

	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestImportService_ImportURL_TooLarge(t *testing.T) {
	big := strings.Repeat("a", 2<<20)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(big))
	}))
	defer server.Close()

	store := &mockCollectionStore{}
	linker := &mockWorkspaceLinker{}
	svc := newTestImportService(store, linker)

	_, err := svc.ImportURL(context.Background(), uuid.New(), uuid.New(), server.URL)

	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestImportService_ImportURL_Unreachable(t *testing.T) {
	store := &mockCollectionStore{}
	linker := &mockWorkspaceLinker{}
	svc := newTestImportService(store, linker)

	_, err := svc.ImportURL(context.Background(), uuid.New(), uuid.New(), "http://127.0.0.1:1/nothing")

	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestImportService_ImportFile_YAMLOpenAPI(t *testing.T) {
	store := &mockCollectionStore{}
	linker := &mockWorkspaceLinker{}
	svc := newTestImportService(store, linker)

	workspaceID := uuid.New()
	userID := uuid.New()
	collectionID := uuid.New()
	created := &models.Collection{ID: collectionID, Name: "Petstore"}

	store.On("Create", mock.Anything, "Petstore", mock.Anything, &userID).Return(created, nil)
	linker.On("AppendCollectionRef", mock.Anything, workspaceID, mock.Anything).Return(nil)
	store.On("GetByID", mock.Anything, collectionID).Return(created, nil)

	raw := []byte("openapi: 3.0.0\ninfo:\n  title: Petstore\n  version: 1.0.0\npaths: {}\n")

	collection, err := svc.ImportFile(context.Background(), workspaceID, userID, "application/yaml", raw)

	require.NoError(t, err)
	assert.Equal(t, "Petstore", collection.Name)
	store.AssertExpectations(t)
}

func TestImportService_ImportInline_StoreFailure(t *testing.T) {
	store := &mockCollectionStore{}
	linker := &mockWorkspaceLinker{}
	svc := newTestImportService(store, linker)

	storeErr := errors.New("connection refused")
	store.On("Create", mock.Anything, "Pets", mock.Anything, mock.Anything).Return(nil, storeErr)

	_, err := svc.ImportInline(context.Background(), uuid.New(), uuid.New(), "application/json", []byte(`{"name":"Pets"}`))

	assert.ErrorIs(t, err, storeErr)
	linker.AssertNotCalled(t, "AppendCollectionRef", mock.Anything, mock.Anything, mock.Anything)
}
