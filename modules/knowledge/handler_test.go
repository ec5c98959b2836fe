package knowledge_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	module "github.com/klinehq/communication/modules/knowledge"
	"github.com/klinehq/communication/pkg/knowledge"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := knowledge.NewService(knowledge.NewMemoryStorage(), log)
	h := module.NewHandler(svc, module.WithLogger(log))

	r := chi.NewRouter()
	r.Mount("/", module.Router(h))
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func doAs(t *testing.T, server *httptest.Server, user, method, path string, body any) *http.Response {
	t.Helper()

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, server.URL+path, payload)
	require.NoError(t, err)
	if user != "" {
		req.Header.Set("X-User-Name", user)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func createArticle(t *testing.T, server *httptest.Server, owner string) map[string]any {
	t.Helper()

	resp := doAs(t, server, owner, http.MethodPost, "/articles/", map[string]string{
		"title":    "VPN setup",
		"category": "it",
		"content":  "Install the client and sign in.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHandler_CreateAndGet(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	created := createArticle(t, server, "alice")
	assert.Equal(t, true, created["editable"])

	id := created["ID"].(string)

	t.Run("owner sees editable", func(t *testing.T) {
		resp := doAs(t, server, "alice", http.MethodGet, "/articles/"+id, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, true, out["editable"])
	})

	t.Run("other user sees read-only", func(t *testing.T) {
		resp := doAs(t, server, "bob", http.MethodGet, "/articles/"+id, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, false, out["editable"])
	})
}

func TestHandler_UpdatePermissions(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	created := createArticle(t, server, "alice")
	id := created["ID"].(string)
	payload := map[string]string{
		"title":    "VPN setup",
		"category": "it",
		"content":  "Updated steps.",
	}

	resp := doAs(t, server, "bob", http.MethodPut, "/articles/"+id, payload)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doAs(t, server, "alice", http.MethodPut, "/articles/"+id, payload)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandler_ValidationErrors(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	resp := doAs(t, server, "alice", http.MethodPost, "/articles/", map[string]string{
		"title": "", "category": "it", "content": "x",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, knowledge.ErrTitleRequired.Error(), out["error"])
}

func TestHandler_Documents(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	created := createArticle(t, server, "alice")
	id := created["ID"].(string)

	resp := doAs(t, server, "bob", http.MethodPost, "/articles/"+id+"/documents", map[string]string{
		"ref": "refs/howto.pdf", "filename": "howto.pdf",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doAs(t, server, "alice", http.MethodPost, "/articles/"+id+"/documents", map[string]string{
		"ref": "refs/howto.pdf", "filename": "howto.pdf",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doAs(t, server, "alice", http.MethodGet, "/articles/"+id+"/documents", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var docs []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&docs))
	assert.Len(t, docs, 1)
}

func TestHandler_DeleteAndNotFound(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	created := createArticle(t, server, "alice")
	id := created["ID"].(string)

	resp := doAs(t, server, "bob", http.MethodDelete, "/articles/"+id, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doAs(t, server, "alice", http.MethodDelete, "/articles/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doAs(t, server, "alice", http.MethodGet, "/articles/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doAs(t, server, "alice", http.MethodGet, "/articles/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_RequiresUser(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	resp := doAs(t, server, "", http.MethodPost, "/articles/", map[string]string{
		"title": "t", "category": "c", "content": "x",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
