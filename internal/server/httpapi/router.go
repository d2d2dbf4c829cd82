package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter mounts every endpoint. Everything under /data requires a
// session; every unsafe method requires the CSRF header.
func NewRouter(h *Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestLogger(logger))
	r.Use(CSRF)

	r.Get("/health", h.Health)
	r.Post("/accounts/login/", h.Login)

	r.Route("/data", func(r chi.Router) {
		r.Use(Session(h.accounts))

		r.Post("/runs/shared_access_signature", h.RunSignature)

		r.Route("/{project}", func(r chi.Router) {
			r.Get("/image_storage", h.ImageStorage)

			r.Get("/documents", h.ListDocuments)
			r.Post("/documents/shared_access_signature", h.DocumentSignature)
			r.Delete("/documents/{name}", h.DeleteDocument)

			r.Get("/runs/{run}/comments", h.GetComments)
			r.Post("/runs/{run}/comments", h.SaveComments)
			r.Get("/runs/{run}/{kind}", h.ListRunFiles)
			r.Delete("/runs/{run}/{kind}/{name}", h.DeleteRunFile)
		})
	})

	return r
}
