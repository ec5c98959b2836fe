package communication

import (
	"github.com/go-chi/chi/v5"
)

// Router mounts the messaging endpoints.
//
// Example:
//
//	h := communication.NewHandler(workflow, templates, recorder, store)
//	r := chi.NewRouter()
//	r.Mount("/communication", communication.Router(h))
func Router(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/compose", h.compose)
	r.Post("/email/send", h.sendEmail)
	r.Post("/sms/send", h.sendSMS)

	r.Route("/templates", func(tr chi.Router) {
		tr.Get("/", h.listTemplates)
		tr.Get("/{id}", h.getTemplate)
		tr.Post("/{id}/apply", h.applyTemplate)
	})

	r.Route("/transactions", func(tr chi.Router) {
		tr.Get("/", h.listTransactions)
		tr.Get("/{id}", h.getTransaction)
	})

	r.Post("/attachments", h.uploadAttachment)

	return r
}
