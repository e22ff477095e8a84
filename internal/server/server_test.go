package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-backend/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(url string) *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "Blog API",
			Environment: "test",
			Port:        "0",
		},
		Storage: config.StorageConfig{
			URL:            url,
			Timeout:        5 * time.Second,
			ConnectTimeout: time.Second,
			MaxRetries:     1,
			RetryDelay:     10 * time.Millisecond,
		},
		Database: config.DatabaseConfig{MaxConns: 4},
	}
}

func startServer(t *testing.T, cfg *config.Config) (*Server, string) {
	t.Helper()

	srv := New(cfg)
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Stop(ctx)
	})

	_, port, err := net.SplitHostPort(srv.Addr())
	require.NoError(t, err)
	return srv, "http://127.0.0.1:" + port
}

type apiResponse struct {
	Status int
	Body   map[string]interface{}
	Raw    string
}

func call(t *testing.T, method, url string, body interface{}) apiResponse {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := apiResponse{Status: resp.StatusCode, Raw: string(raw)}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out.Body), "body: %s", raw)
	}
	return out
}

func listIDs(t *testing.T, base string) []string {
	t.Helper()

	res := call(t, http.MethodGet, base+"/posts", nil)
	require.Equal(t, http.StatusOK, res.Status)

	posts, ok := res.Body["posts"].([]interface{})
	require.True(t, ok, "posts must be an array: %s", res.Raw)

	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.(map[string]interface{})["id"].(string))
	}
	return ids
}

var newPost = map[string]interface{}{
	"title":   "T",
	"content": "C",
	"author":  []map[string]string{{"firstName": "A", "lastName": "B"}},
}

// ========================================
// LIFECYCLE
// ========================================

func TestServer_Lifecycle(t *testing.T) {
	srv := New(testConfig("memory://"))
	assert.Empty(t, srv.Addr())
	assert.Nil(t, srv.Handler())
	assert.NoError(t, srv.Stop(context.Background()), "stopping an unstarted server is a no-op")

	require.NoError(t, srv.Start(context.Background()))
	addr := srv.Addr()
	assert.NotEmpty(t, addr)
	assert.NotNil(t, srv.Handler())
	assert.Error(t, srv.Start(context.Background()), "second start must fail")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
	assert.Empty(t, srv.Addr())

	_, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	_, err = net.DialTimeout("tcp", "127.0.0.1:"+port, 500*time.Millisecond)
	assert.Error(t, err, "listener must be closed")
}

func TestServer_StartFailsWhenPortIsTaken(t *testing.T) {
	_, base := startServer(t, testConfig("memory://"))
	_, port, err := net.SplitHostPort(base[len("http://"):])
	require.NoError(t, err)

	cfg := testConfig("memory://")
	cfg.App.Port = port

	err = New(cfg).Start(context.Background())
	assert.Error(t, err)
}

func TestServer_StartFailsWhenStorageIsUnavailable(t *testing.T) {
	err := New(testConfig("bolt://")).Start(context.Background())
	assert.Error(t, err)
}

// ========================================
// HTTP CONTRACT
// ========================================

func TestServer_CreateAndFetch(t *testing.T) {
	_, base := startServer(t, testConfig("memory://"))

	created := call(t, http.MethodPost, base+"/posts", newPost)
	require.Equal(t, http.StatusCreated, created.Status)
	assert.Equal(t, "T", created.Body["title"])
	assert.Equal(t, "C", created.Body["content"])
	assert.Equal(t, []interface{}{map[string]interface{}{"firstName": "A", "lastName": "B"}}, created.Body["author"])
	id, _ := created.Body["id"].(string)
	require.NotEmpty(t, id)
	assert.NotEmpty(t, created.Body["created"])

	fetched := call(t, http.MethodGet, base+"/posts/"+id, nil)
	require.Equal(t, http.StatusOK, fetched.Status)
	assert.Equal(t, created.Body, fetched.Body)

	assert.Equal(t, []string{id}, listIDs(t, base))
}

func TestServer_CreateMissingFieldPersistsNothing(t *testing.T) {
	_, base := startServer(t, testConfig("memory://"))

	for _, field := range []string{"title", "content", "author"} {
		body := map[string]interface{}{}
		for k, v := range newPost {
			if k != field {
				body[k] = v
			}
		}

		res := call(t, http.MethodPost, base+"/posts", body)
		assert.Equal(t, http.StatusBadRequest, res.Status)
		assert.Equal(t, "Missing `"+field+"` in request body", res.Body["message"])
	}

	assert.Empty(t, listIDs(t, base))
}

func TestServer_UpdateIsIdempotent(t *testing.T) {
	_, base := startServer(t, testConfig("memory://"))

	created := call(t, http.MethodPost, base+"/posts", newPost)
	id := created.Body["id"].(string)

	update := map[string]interface{}{"id": id, "title": "U"}
	for i := 0; i < 2; i++ {
		res := call(t, http.MethodPut, base+"/posts/"+id, update)
		assert.Equal(t, http.StatusNoContent, res.Status)
		assert.Empty(t, res.Raw)
	}

	fetched := call(t, http.MethodGet, base+"/posts/"+id, nil)
	assert.Equal(t, "U", fetched.Body["title"])
	assert.Equal(t, "C", fetched.Body["content"])
	assert.Equal(t, created.Body["created"], fetched.Body["created"])
}

func TestServer_UpdateMismatchedIDs(t *testing.T) {
	_, base := startServer(t, testConfig("memory://"))

	created := call(t, http.MethodPost, base+"/posts", newPost)
	id := created.Body["id"].(string)

	res := call(t, http.MethodPut, base+"/posts/"+id, map[string]interface{}{"id": "other", "title": "X"})
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "Request path id ("+id+") and request body id (other) must match", res.Body["message"])

	res = call(t, http.MethodPut, base+"/posts/"+id, map[string]interface{}{"title": "X"})
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "Request path id ("+id+") and request body id (undefined) must match", res.Body["message"])

	fetched := call(t, http.MethodGet, base+"/posts/"+id, nil)
	assert.Equal(t, "T", fetched.Body["title"])
}

func TestServer_DeleteRemovesFromList(t *testing.T) {
	_, base := startServer(t, testConfig("memory://"))

	first := call(t, http.MethodPost, base+"/posts", newPost).Body["id"].(string)
	second := call(t, http.MethodPost, base+"/posts", newPost).Body["id"].(string)

	res := call(t, http.MethodDelete, base+"/posts/"+first, nil)
	assert.Equal(t, http.StatusNoContent, res.Status)
	assert.Empty(t, res.Raw)

	assert.Equal(t, []string{second}, listIDs(t, base))
}

func TestServer_UnknownRoutes(t *testing.T) {
	_, base := startServer(t, testConfig("memory://"))

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/"},
		{http.MethodGet, "/health"},
		{http.MethodPatch, "/posts/abc"},
		{http.MethodGet, "/posts/abc/comments"},
		{http.MethodGet, "/posts/"},
		{http.MethodPost, "/posts/"},
		{http.MethodPut, "/posts/abc/"},
	} {
		res := call(t, tc.method, base+tc.path, nil)
		assert.Equal(t, http.StatusNotFound, res.Status, "%s %s", tc.method, tc.path)
		assert.Equal(t, "Not Found", res.Body["message"])
	}
}

func TestServer_RequestIDIsEchoed(t *testing.T) {
	_, base := startServer(t, testConfig("memory://"))

	req, err := http.NewRequest(http.MethodGet, base+"/posts", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}

// The walk-through: create, list, update, fetch, delete, fetch again.
func TestServer_Scenario(t *testing.T) {
	tests := []struct {
		name          string
		strict        bool
		afterDelete   int
		missingUpdate int
	}{
		{"compatible", false, http.StatusInternalServerError, http.StatusNoContent},
		{"strict", true, http.StatusNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig("memory://")
			cfg.App.StrictNotFound = tt.strict
			_, base := startServer(t, cfg)

			created := call(t, http.MethodPost, base+"/posts", newPost)
			require.Equal(t, http.StatusCreated, created.Status)
			id := created.Body["id"].(string)

			assert.Contains(t, listIDs(t, base), id)

			res := call(t, http.MethodPut, base+"/posts/"+id, map[string]interface{}{"id": id, "title": "U"})
			assert.Equal(t, http.StatusNoContent, res.Status)

			res = call(t, http.MethodGet, base+"/posts/"+id, nil)
			assert.Equal(t, "U", res.Body["title"])

			res = call(t, http.MethodDelete, base+"/posts/"+id, nil)
			assert.Equal(t, http.StatusNoContent, res.Status)

			res = call(t, http.MethodGet, base+"/posts/"+id, nil)
			assert.Equal(t, tt.afterDelete, res.Status)

			res = call(t, http.MethodPut, base+"/posts/"+id, map[string]interface{}{"id": id, "title": "again"})
			assert.Equal(t, tt.missingUpdate, res.Status)

			res = call(t, http.MethodDelete, base+"/posts/"+id, nil)
			assert.Equal(t, tt.missingUpdate, res.Status)
		})
	}
}

// ========================================
// BOLT PERSISTENCE
// ========================================

func TestServer_BoltSurvivesRestart(t *testing.T) {
	url := "bolt://" + filepath.Join(t.TempDir(), "data", "blog.db")

	first := New(testConfig(url))
	require.NoError(t, first.Start(context.Background()))
	_, port, err := net.SplitHostPort(first.Addr())
	require.NoError(t, err)

	created := call(t, http.MethodPost, "http://127.0.0.1:"+port+"/posts", newPost)
	require.Equal(t, http.StatusCreated, created.Status)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, first.Stop(ctx))

	_, base := startServer(t, testConfig(url))
	fetched := call(t, http.MethodGet, base+"/posts/"+created.Body["id"].(string), nil)
	require.Equal(t, http.StatusOK, fetched.Status)
	assert.Equal(t, created.Body, fetched.Body)
}
