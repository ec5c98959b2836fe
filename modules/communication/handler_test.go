package communication_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klinehq/communication/modules/communication"
	"github.com/klinehq/communication/pkg/attachment"
	"github.com/klinehq/communication/pkg/notification"
	"github.com/klinehq/communication/pkg/template"
	"github.com/klinehq/communication/pkg/transaction"
)

type stubGateway struct {
	err  error
	sent []notification.Message
}

func (g *stubGateway) Send(_ context.Context, msg notification.Message) (notification.DeliveryReceipt, error) {
	if g.err != nil {
		return notification.DeliveryReceipt{}, g.err
	}
	g.sent = append(g.sent, msg)
	return notification.DeliveryReceipt{MessageID: "msg-1", Provider: "stub"}, nil
}

type testEnv struct {
	server    *httptest.Server
	recorder  *transaction.MemoryRecorder
	templates *template.MemoryStorage
	store     *attachment.LocalStore
	gateway   *stubGateway
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := attachment.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	recorder := transaction.NewMemoryRecorder()
	gateway := &stubGateway{}
	adapter := communication.NewStoreAdapter(store)
	workflow := notification.NewWorkflow(
		recorder,
		notification.NewComposer(adapter),
		map[notification.Channel]notification.TransportGateway{
			notification.ChannelEmail: gateway,
			notification.ChannelSMS:   gateway,
		},
		notification.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	templates := template.NewMemoryStorage()
	h := communication.NewHandler(workflow, templates, recorder, store,
		communication.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	r := chi.NewRouter()
	r.Mount("/", communication.Router(h))
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &testEnv{
		server:    server,
		recorder:  recorder,
		templates: templates,
		store:     store,
		gateway:   gateway,
	}
}

func asUser(req *http.Request) *http.Request {
	req.Header.Set("X-User-Id", "u-1")
	req.Header.Set("X-User-Name", "alice")
	req.Header.Set("X-User-Email", "alice@example.com")
	return req
}

func (e *testEnv) do(t *testing.T, method, path string, body any, authed bool) *http.Response {
	t.Helper()

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, e.server.URL+path, payload)
	require.NoError(t, err)
	if authed {
		asUser(req)
	}

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHandler_SendEmail(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		resp := env.do(t, http.MethodPost, "/email/send", map[string]any{
			"to":      "bob@example.com",
			"subject": "Quarterly report",
			"body":    "Attached below.",
		}, true)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		out := decode[map[string]any](t, resp)
		assert.Equal(t, "Email sent successfully", out["notice"])
		assert.NotEmpty(t, out["transaction_id"])

		require.Len(t, env.recorder.All(), 1)
		rec := env.recorder.All()[0]
		assert.Equal(t, transaction.StatusSuccess, rec.Status)
		assert.Equal(t, "alice", rec.Owner)
	})

	t.Run("validation failure returns message and no record", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		resp := env.do(t, http.MethodPost, "/email/send", map[string]any{
			"to":   "not-an-address",
			"body": "hi",
		}, true)
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Empty(t, env.recorder.All())
	})

	t.Run("transport failure stays opaque", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.gateway.err = errors.New("smtp down")

		resp := env.do(t, http.MethodPost, "/email/send", map[string]any{
			"to":      "bob@example.com",
			"subject": "s",
			"body":    "b",
		}, true)
		require.Equal(t, http.StatusBadGateway, resp.StatusCode)

		out := decode[map[string]string](t, resp)
		assert.NotContains(t, out["error"], "smtp down")

		require.Len(t, env.recorder.All(), 1)
		rec := env.recorder.All()[0]
		assert.Equal(t, transaction.StatusFail, rec.Status)
		assert.Equal(t, "smtp down", rec.StatusDetail)
	})

	t.Run("rejects anonymous requests", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		resp := env.do(t, http.MethodPost, "/email/send", map[string]any{
			"to": "bob@example.com", "subject": "s", "body": "b",
		}, false)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestHandler_SendSMS(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/sms/send", map[string]any{
		"to":   "+15551234567",
		"body": "Your order shipped.",
	}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[map[string]any](t, resp)
	assert.Equal(t, "SMS sent successfully", out["notice"])
}

func TestHandler_Compose(t *testing.T) {
	t.Parallel()

	t.Run("returns sender identity", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		resp := env.do(t, http.MethodGet, "/compose", nil, true)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		out := decode[map[string]string](t, resp)
		assert.Equal(t, "alice@example.com", out["from"])
	})

	t.Run("profile without email", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		req, err := http.NewRequest(http.MethodGet, env.server.URL+"/compose", nil)
		require.NoError(t, err)
		req.Header.Set("X-User-Id", "u-2")
		req.Header.Set("X-User-Name", "carol")

		resp, err := env.server.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		out := decode[map[string]string](t, resp)
		assert.Equal(t, notification.ErrMissingSenderIdentity.Error(), out["error"])
	})
}

func TestHandler_Templates(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	created, err := env.templates.Create(context.Background(), template.Template{
		Channel: notification.ChannelEmail,
		Name:    "welcome",
		Subject: "Welcome aboard",
		Body:    "Glad to have you.",
	})
	require.NoError(t, err)

	resp := env.do(t, http.MethodGet, "/templates/", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]template.Template](t, resp), 1)

	resp = env.do(t, http.MethodGet, "/templates/"+created.ID.String(), nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/templates/"+created.ID.String()+"/apply", map[string]any{
		"to": "bob@example.com",
	}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	applied := decode[map[string]any](t, resp)
	assert.Equal(t, "bob@example.com", applied["to"])
	assert.Equal(t, "Welcome aboard", applied["subject"])

	resp = env.do(t, http.MethodGet, "/templates/"+uuid.NewString(), nil, true)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_Transactions(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	sendResp := env.do(t, http.MethodPost, "/email/send", map[string]any{
		"to": "bob@example.com", "subject": "s", "body": "b",
	}, true)
	require.Equal(t, http.StatusOK, sendResp.StatusCode)
	sent := decode[map[string]any](t, sendResp)

	resp := env.do(t, http.MethodGet, "/transactions/"+sent["transaction_id"].(string), nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/transactions/", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]transaction.Record](t, resp), 1)

	resp = env.do(t, http.MethodGet, "/transactions/"+uuid.NewString(), nil, true)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_UploadAttachment(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "report.txt")
	require.NoError(t, err)
	_, err = io.Copy(fw, strings.NewReader("quarterly numbers"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/attachments", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	asUser(req)

	resp, err := env.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	out := decode[map[string]string](t, resp)
	require.NotEmpty(t, out["ref"])
	assert.True(t, env.store.Exists(context.Background(), out["ref"]))
}
