package positions

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
		r.Post("/start", StartHandler)
		r.Post("/stop", StopHandler)
		r.Get("/status", StatusHandler)
	})

	return r
}
