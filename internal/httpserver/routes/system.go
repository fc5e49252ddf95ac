package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/DiasPedroQA/bookmark-converter/internal/httpserver/deps"
	"github.com/DiasPedroQA/bookmark-converter/internal/httpserver/handlers"
	"github.com/DiasPedroQA/bookmark-converter/internal/httpserver/mw"
)

func init() { Register(registerSystem) }

func registerSystem(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))
	r.Get("/readyz", handlers.Readyz(d))
	r.Get("/infra", handlers.Infra(d))
	r.With(mw.EnforceHost(d.AllowedHosts, d.Logger)).Post("/api/cache/flush", handlers.FlushCache(d))
}
