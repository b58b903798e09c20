package herd

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
		r.Post("/farms", CreateFarmHandler)
		r.Get("/farms", ListFarmsHandler)
		r.Patch("/farms/{id}", UpdateFarmHandler)
		r.Get("/farms/{id}/boundary", FarmBoundaryHandler)
		r.Post("/animals", CreateAnimalHandler)
		r.Get("/animals", ListAnimalsHandler)
		r.Delete("/animals/{id}", DeleteAnimalHandler)
	})

	return r
}
