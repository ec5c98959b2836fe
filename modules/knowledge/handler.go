package knowledge

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/klinehq/communication/pkg/knowledge"
)

// UserResolver extracts the acting user's name from the request.
type UserResolver func(r *http.Request) (string, error)

// ErrNoUser is returned when the request carries no user identity.
var ErrNoUser = errors.New("knowledge: no authenticated user on request")

// HeaderUserResolver reads the identity header set by the upstream
// auth proxy.
func HeaderUserResolver(r *http.Request) (string, error) {
	name := r.Header.Get("X-User-Name")
	if name == "" {
		return "", ErrNoUser
	}
	return name, nil
}

// Handler serves the knowledge base endpoints.
type Handler struct {
	service     *knowledge.Service
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

// NewHandler wires the knowledge base endpoints.
func NewHandler(service *knowledge.Service, opts ...HandlerOption) *Handler {
	if service == nil {
		panic("knowledge: service cannot be nil")
	}
	h := &Handler{
		service:     service,
		resolveUser: HeaderUserResolver,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type articlePayload struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Content  string `json:"content"`
}

type articleResponse struct {
	knowledge.Article
	Editable bool `json:"editable"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, err := h.resolveUser(r)
	if err != nil {
		h.writeError(w, r, http.StatusUnauthorized, err)
		return
	}

	var payload articlePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, r, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	a, err := h.service.Create(r.Context(), actor, knowledge.Article{
		Title:    payload.Title,
		Category: payload.Category,
		Content:  payload.Content,
	})
	if err != nil {
		h.writeError(w, r, articleErrorStatus(err), err)
		return
	}
	h.writeJSON(w, http.StatusCreated, articleResponse{Article: a, Editable: true})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, items)
}

// get returns one article along with whether the acting user may edit
// it, so the client can open the form read-only for non-owners.
func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, errors.New("invalid article id"))
		return
	}
	a, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, articleErrorStatus(err), err)
		return
	}

	actor, _ := h.resolveUser(r)
	h.writeJSON(w, http.StatusOK, articleResponse{
		Article:  a,
		Editable: knowledge.CanEdit(actor, a),
	})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	actor, err := h.resolveUser(r)
	if err != nil {
		h.writeError(w, r, http.StatusUnauthorized, err)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, errors.New("invalid article id"))
		return
	}

	var payload articlePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, r, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	a, err := h.service.Update(r.Context(), actor, knowledge.Article{
		ID:       id,
		Title:    payload.Title,
		Category: payload.Category,
		Content:  payload.Content,
	})
	if err != nil {
		h.writeError(w, r, articleErrorStatus(err), err)
		return
	}
	h.writeJSON(w, http.StatusOK, articleResponse{Article: a, Editable: true})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	actor, err := h.resolveUser(r)
	if err != nil {
		h.writeError(w, r, http.StatusUnauthorized, err)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, errors.New("invalid article id"))
		return
	}
	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		h.writeError(w, r, articleErrorStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listDocuments(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, errors.New("invalid article id"))
		return
	}
	docs, err := h.service.Documents(r.Context(), id)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, docs)
}

type documentPayload struct {
	Ref      string `json:"ref"`
	Filename string `json:"filename"`
}

func (h *Handler) attachDocument(w http.ResponseWriter, r *http.Request) {
	actor, err := h.resolveUser(r)
	if err != nil {
		h.writeError(w, r, http.StatusUnauthorized, err)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, errors.New("invalid article id"))
		return
	}

	var payload documentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Ref == "" {
		h.writeError(w, r, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	doc, err := h.service.AttachDocument(r.Context(), actor, id, payload.Ref, payload.Filename)
	if err != nil {
		h.writeError(w, r, articleErrorStatus(err), err)
		return
	}
	h.writeJSON(w, http.StatusCreated, doc)
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

func articleErrorStatus(err error) int {
	switch {
	case errors.Is(err, knowledge.ErrArticleNotFound):
		return http.StatusNotFound
	case errors.Is(err, knowledge.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, knowledge.ErrTitleRequired),
		errors.Is(err, knowledge.ErrCategoryRequired),
		errors.Is(err, knowledge.ErrContentRequired):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
