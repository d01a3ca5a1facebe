package http

import (
	"net/http"

	"github.com/LavaJover/shvark-bonus-service/internal/delivery/http/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	ruleHandler *handlers.RuleHandler,
	engineHandler *handlers.EngineHandler,
	reportHandler *handlers.ReportHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Route("/rules", func(r chi.Router) {
		r.Post("/", ruleHandler.CreateRule)
		r.Get("/", ruleHandler.ListRules)
		r.Get("/{id}", ruleHandler.GetRule)
		r.Put("/{id}", ruleHandler.UpdateRule)
		r.Patch("/{id}/active", ruleHandler.SetRuleActive)
		r.Post("/{id}/clone", ruleHandler.CloneRule)
		r.Get("/{id}/preview", engineHandler.Preview)
	})

	r.Route("/engine", func(r chi.Router) {
		r.Post("/run", engineHandler.Run)
	})

	r.Get("/awards", reportHandler.ListAwards)
	r.Get("/progress", reportHandler.ListProgress)
	r.Get("/runs", engineHandler.ListRuns)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
