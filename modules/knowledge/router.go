package knowledge

import (
	"github.com/go-chi/chi/v5"
)

// Router mounts the knowledge base endpoints.
//
// Example:
//
//	h := knowledge.NewHandler(service)
//	r := chi.NewRouter()
//	r.Mount("/knowledge", knowledge.Router(h))
func Router(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Route("/articles", func(ar chi.Router) {
		ar.Get("/", h.list)
		ar.Post("/", h.create)
		ar.Get("/{id}", h.get)
		ar.Put("/{id}", h.update)
		ar.Delete("/{id}", h.delete)
		ar.Get("/{id}/documents", h.listDocuments)
		ar.Post("/{id}/documents", h.attachDocument)
	})

	return r
}
