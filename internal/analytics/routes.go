package analytics

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
		r.Get("/alerts", AlertAnalyticsHandler)
		r.Get("/farms", FarmAnalyticsHandler)

		// Regional risk spans every owner's farms, so it is admin-only.
		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminMiddleware(sessionFetcher))
			r.Get("/regions", RegionalRiskHandler)
		})
	})

	return r
}
