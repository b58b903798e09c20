package alerts

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/auth"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/middleware"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := auth.SessionInfo{}

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Get("/", ListAlertsHandler)
		r.Post("/", CreateAlertHandler)
		r.Patch("/{id}/resolve", ResolveAlertHandler)
	})

	return r
}
