package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ip-tracker/internal/api"
	"ip-tracker/internal/config"
	"ip-tracker/internal/lookup"
	"ip-tracker/internal/query"
)

type stubService struct{}

func (stubService) Lookup(ctx context.Context, q query.LookupQuery) (*lookup.LocationRecord, error) {
	return &lookup.LocationRecord{IP: q.Value}, nil
}

func TestHandler_Mounts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>tracker</html>"), 0o644))

	cfg := config.Config{APIBase: "/api", UIDist: dir, RateLimitQPS: 200}
	h := Handler(cfg, api.Deps{Lookup: stubService{}})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/lookup?q=8.8.8.8", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ip":"8.8.8.8"`)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/config.js", nil))
	assert.Equal(t, "window.__API_BASE__='/api'\n", w.Body.String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, w.Body.String(), "tracker")
}

func TestBuildLookup_Online(t *testing.T) {
	s, err := BuildLookup(config.Config{LookupAPIKey: "k", LookupBaseURL: lookup.DefaultBaseURL}, nil)
	require.NoError(t, err)
	defer s.Close()
	_, ok := s.Lookup.(*lookup.Client)
	assert.True(t, ok)
}

func TestBuildLookup_OfflineMissingFile(t *testing.T) {
	_, err := BuildLookup(config.Config{GeoIPCityPath: filepath.Join(t.TempDir(), "missing.mmdb")}, nil)
	assert.Error(t, err)
}
