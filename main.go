package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/alerts"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/analytics"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/auth"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/db"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/herd"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/middleware"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/notify"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/positions"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "HerdGuard is up!")
}

func main() {
	_ = godotenv.Load(".env.local")
	db.Connect()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}

	auth.Init()
	herd.Init()
	alerts.Init()
	notify.Init()
	analytics.Init()
	positions.Init()

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)

	r.Mount("/auth", auth.SetupRoutes())
	r.Mount("/herd", herd.SetupRoutes())
	r.Mount("/alerts", alerts.SetupRoutes())
	r.Mount("/monitor", positions.SetupRoutes())
	r.Mount("/notify", notify.SetupRoutes())
	r.Mount("/analytics", analytics.SetupRoutes())

	fmt.Println("Server listening on port :" + port + "...")

	http.ListenAndServe("0.0.0.0:"+port, r)
}
