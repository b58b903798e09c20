package auth

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/middleware"
)

func portSet() bool {
	return os.Getenv("PORT") != ""
}

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := SessionInfo{}

	r.Post("/register", RegisterHandler)
	r.Post("/login", LoginHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Post("/logout", LogoutHandler)
		r.Get("/me", MeHandler)
	})

	return r
}
