package communication

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/klinehq/communication/pkg/attachment"
	"github.com/klinehq/communication/pkg/notification"
	"github.com/klinehq/communication/pkg/template"
	"github.com/klinehq/communication/pkg/transaction"
)

// maxUploadSize caps one attachment upload at 25 MB, matching the limit
// common email providers enforce per message.
const maxUploadSize = 25 << 20

// TransactionFinder reads back recorded transactions for inspection.
type TransactionFinder interface {
	Find(ctx context.Context, id uuid.UUID) (*transaction.Record, error)
	ListByOwner(ctx context.Context, owner string, limit int) ([]transaction.Record, error)
}

// UserResolver extracts the acting user from the request. The handler
// never falls back to an implicit ambient identity.
type UserResolver func(r *http.Request) (notification.User, error)

// ErrNoUser is returned when the request carries no user identity.
var ErrNoUser = errors.New("communication: no authenticated user on request")

// HeaderUserResolver reads the identity headers set by the upstream
// auth proxy.
func HeaderUserResolver(r *http.Request) (notification.User, error) {
	u := notification.User{
		ID:    r.Header.Get("X-User-Id"),
		Name:  r.Header.Get("X-User-Name"),
		Email: r.Header.Get("X-User-Email"),
	}
	if u.ID == "" {
		return notification.User{}, ErrNoUser
	}
	return u, nil
}

// Handler serves the messaging endpoints: compose preload, email and
// SMS send, message templates, attachment uploads, and transaction
// lookups.
type Handler struct {
	workflow    *notification.Workflow
	templates   template.Storage
	records     TransactionFinder
	attachments attachment.Store
	resolveUser UserResolver
	log         *slog.Logger
}

// HandlerOption configures optional handler collaborators.
type HandlerOption func(*Handler)

// WithUserResolver replaces the default header-based identity lookup.
func WithUserResolver(fn UserResolver) HandlerOption {
	return func(h *Handler) { h.resolveUser = fn }
}

// WithLogger sets the handler logger.
func WithLogger(log *slog.Logger) HandlerOption {
	return func(h *Handler) { h.log = log }
}

// NewHandler wires the messaging endpoints. All four collaborators are
// required; it panics on nil since that is a wiring bug.
func NewHandler(
	workflow *notification.Workflow,
	templates template.Storage,
	records TransactionFinder,
	attachments attachment.Store,
	opts ...HandlerOption,
) *Handler {
	if workflow == nil {
		panic("communication: workflow cannot be nil")
	}
	if templates == nil {
		panic("communication: template storage cannot be nil")
	}
	if records == nil {
		panic("communication: transaction finder cannot be nil")
	}
	if attachments == nil {
		panic("communication: attachment store cannot be nil")
	}

	h := &Handler{
		workflow:    workflow,
		templates:   templates,
		records:     records,
		attachments: attachments,
		resolveUser: HeaderUserResolver,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type sendRequest struct {
	To          string   `json:"to"`
	CC          string   `json:"cc,omitempty"`
	BCC         string   `json:"bcc,omitempty"`
	Subject     string   `json:"subject,omitempty"`
	Body        string   `json:"body"`
	Attachments []string `json:"attachments,omitempty"`

	// Retained for callers still sending the old form fields; neither
	// affects the send.
	SecondaryTo string `json:"to_2,omitempty"`
	FreeText    bool   `json:"free_text,omitempty"`
}

type sendResponse struct {
	Notice        string               `json:"notice"`
	TransactionID uuid.UUID            `json:"transaction_id"`
	MessageID     string               `json:"message_id,omitempty"`
	Provider      string               `json:"provider,omitempty"`
	Reset         sendRequest          `json:"reset"`
	Channel       notification.Channel `json:"channel"`
}

func (h *Handler) sendEmail(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, notification.ChannelEmail)
}

func (h *Handler) sendSMS(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, notification.ChannelSMS)
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request, ch notification.Channel) {
	user, err := h.resolveUser(r)
	if err != nil {
		h.writeError(w, r, http.StatusUnauthorized, err)
		return
	}

	var payload sendRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, r, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	result, err := h.workflow.Send(r.Context(), user, notification.RawInput{
		Channel:     ch,
		To:          payload.To,
		CC:          payload.CC,
		BCC:         payload.BCC,
		Subject:     payload.Subject,
		Body:        payload.Body,
		Attachments: payload.Attachments,
		SecondaryTo: payload.SecondaryTo,
		FreeText:    payload.FreeText,
	})
	if err != nil {
		h.writeError(w, r, sendErrorStatus(err), err)
		return
	}

	h.writeJSON(w, http.StatusOK, sendResponse{
		Notice:        result.Notice,
		TransactionID: result.Record.ID,
		MessageID:     result.Receipt.MessageID,
		Provider:      result.Receipt.Provider,
		Reset:         sendRequest{},
		Channel:       ch,
	})
}

// compose is the form-load hook: it hands the client the sender
// identity the message will go out under, failing early when the
// profile has no email address.
func (h *Handler) compose(w http.ResponseWriter, r *http.Request) {
	user, err := h.resolveUser(r)
	if err != nil {
		h.writeError(w, r, http.StatusUnauthorized, err)
		return
	}
	if user.Email == "" {
		h.writeError(w, r, http.StatusUnprocessableEntity, notification.ErrMissingSenderIdentity)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{
		"from":      user.Email,
		"from_name": user.Name,
	})
}

func (h *Handler) listTemplates(w http.ResponseWriter, r *http.Request) {
	ch := notification.Channel(r.URL.Query().Get("channel"))
	items, err := h.templates.List(r.Context(), ch)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, items)
}

func (h *Handler) getTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, errors.New("invalid template id"))
		return
	}
	t, err := h.templates.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, templateErrorStatus(err), err)
		return
	}
	h.writeJSON(w, http.StatusOK, t)
}

// applyTemplate prefills a draft from a stored template, keeping the
// recipient the user already typed.
func (h *Handler) applyTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, errors.New("invalid template id"))
		return
	}
	t, err := h.templates.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, templateErrorStatus(err), err)
		return
	}

	var draft sendRequest
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.writeError(w, r, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	applied := template.Apply(t, notification.RawInput{
		To:      draft.To,
		CC:      draft.CC,
		BCC:     draft.BCC,
		Subject: draft.Subject,
		Body:    draft.Body,
	})
	h.writeJSON(w, http.StatusOK, sendRequest{
		To:      applied.To,
		CC:      applied.CC,
		BCC:     applied.BCC,
		Subject: applied.Subject,
		Body:    applied.Body,
	})
}

func (h *Handler) getTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, errors.New("invalid transaction id"))
		return
	}
	rec, err := h.records.Find(r.Context(), id)
	if err != nil {
		if errors.Is(err, transaction.ErrRecordNotFound) {
			h.writeError(w, r, http.StatusNotFound, err)
			return
		}
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	user, err := h.resolveUser(r)
	if err != nil {
		h.writeError(w, r, http.StatusUnauthorized, err)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.writeError(w, r, http.StatusBadRequest, errors.New("invalid limit"))
			return
		}
		limit = n
	}

	recs, err := h.records.ListByOwner(r.Context(), user.Name, limit)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, recs)
}

func (h *Handler) uploadAttachment(w http.ResponseWriter, r *http.Request) {
	if _, err := h.resolveUser(r); err != nil {
		h.writeError(w, r, http.StatusUnauthorized, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, errors.New("missing file upload"))
		return
	}
	defer file.Close()

	ref, err := h.attachments.Save(r.Context(), header.Filename, file)
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to store attachment", slog.Any("error", err))
		h.writeError(w, r, http.StatusInternalServerError, errors.New("failed to store attachment"))
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]string{
		"ref":      ref,
		"filename": header.Filename,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("failed to encode response", slog.Any("error", err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.log.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func sendErrorStatus(err error) int {
	switch {
	case errors.Is(err, notification.ErrValidation),
		errors.Is(err, notification.ErrMissingSenderIdentity):
		return http.StatusUnprocessableEntity
	case errors.Is(err, notification.ErrPersistence):
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

func templateErrorStatus(err error) int {
	if errors.Is(err, template.ErrTemplateNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
