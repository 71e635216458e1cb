package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/api"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/config"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/snapshot"
)

func testConfig() *config.Config {
	return &config.Config{
		Search:  config.SearchSection{DefaultK: 10},
		Resolve: config.ResolveSection{MaxBytes: 65536, MaxNodes: 128},
	}
}

func newTestRouter(registry *snapshot.Registry) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return api.NewHandler(testConfig(), registry).RegisterRoutes()
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeResult(t *testing.T, recorder *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var envelope api.SuccessResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	require.True(t, envelope.Ok)
	require.NoError(t, json.Unmarshal(envelope.Result, out))
}

func TestApiRejectsBeforeFirstIngest(t *testing.T) {
	router := newTestRouter(snapshot.NewRegistry())

	recorder := postJSON(t, router, "/v1/search", api.SearchRequest{Query: "helper"})
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	var envelope api.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	require.False(t, envelope.Ok)
	require.Equal(t, http.StatusServiceUnavailable, envelope.ErrorCode)
}

func TestApiSearch(t *testing.T) {
	registry, _, _ := runFixturePipeline(t)
	router := newTestRouter(registry)

	recorder := postJSON(t, router, "/v1/search", api.SearchRequest{Query: "helper scales"})
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp api.SearchResponse
	decodeResult(t, recorder, &resp)
	require.Equal(t, registry.Current().ID, resp.SnapshotID)
	require.NotEmpty(t, resp.Results)
	require.Equal(t, "helper", resp.Results[0].Name)
}

func TestApiSearchEmptyQuery(t *testing.T) {
	registry, _, _ := runFixturePipeline(t)
	router := newTestRouter(registry)

	recorder := postJSON(t, router, "/v1/search", api.SearchRequest{Query: "   "})
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestApiSearchNoMatchesReturnsEmptyList(t *testing.T) {
	registry, _, _ := runFixturePipeline(t)
	router := newTestRouter(registry)

	recorder := postJSON(t, router, "/v1/search", api.SearchRequest{Query: "zzzzunknown"})
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp api.SearchResponse
	decodeResult(t, recorder, &resp)
	require.NotNil(t, resp.Results)
	require.Empty(t, resp.Results)
}

func TestApiResolve(t *testing.T) {
	registry, _, _ := runFixturePipeline(t)
	router := newTestRouter(registry)

	recorder := postJSON(t, router, "/v1/resolve", api.ResolveRequest{Target: "module_b.main"})
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp api.ResolveResponse
	decodeResult(t, recorder, &resp)
	require.Equal(t, registry.Current().ID, resp.SnapshotID)
	require.NotNil(t, resp.Bundle)
	require.Contains(t, resp.Bundle.Code, "def main():")
	require.Len(t, resp.Bundle.Manifest, 3)
}

func TestApiResolveUnknownTarget(t *testing.T) {
	registry, _, _ := runFixturePipeline(t)
	router := newTestRouter(registry)

	recorder := postJSON(t, router, "/v1/resolve", api.ResolveRequest{Target: "module_x.missing"})
	require.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestApiResolveMissingTarget(t *testing.T) {
	registry, _, _ := runFixturePipeline(t)
	router := newTestRouter(registry)

	recorder := postJSON(t, router, "/v1/resolve", api.ResolveRequest{})
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestApiSnapshotInfo(t *testing.T) {
	registry, _, _ := runFixturePipeline(t)
	router := newTestRouter(registry)

	req := httptest.NewRequest(http.MethodGet, "/v1/snapshot", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp api.SnapshotInfoResponse
	decodeResult(t, recorder, &resp)
	require.Equal(t, registry.Current().ID, resp.SnapshotID)
	require.Equal(t, 3, resp.Snippets)
	require.Equal(t, 2, resp.Symbols)
}

func TestApiGetSnippet(t *testing.T) {
	registry, _, _ := runFixturePipeline(t)
	router := newTestRouter(registry)
	want := registry.Current().Snippets[0]

	req := httptest.NewRequest(http.MethodGet, "/v1/snippets/"+want.ID, nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)

	var got map[string]interface{}
	decodeResult(t, recorder, &got)
	require.Equal(t, want.ID, got["id"])

	req = httptest.NewRequest(http.MethodGet, "/v1/snippets/nope", nil)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusNotFound, recorder.Code)
}
