package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/DiasPedroQA/bookmark-converter/internal/httpserver/deps"
	"github.com/DiasPedroQA/bookmark-converter/internal/httpserver/handlers"
	"github.com/DiasPedroQA/bookmark-converter/internal/httpserver/mw"
)

func init() { Register(registerConvert) }

func registerConvert(r chi.Router, d deps.Deps) {
	sub := r.With(mw.EnforceHost(d.AllowedHosts, d.Logger))
	if d.RateLimitBurst > 0 {
		sub = sub.With(mw.RateLimit(mw.RateLimitConfig{
			Burst:             d.RateLimitBurst,
			RefillPerIPPerMin: d.RateLimitPerMin,
			TrustProxy:        d.TrustProxy,
		}))
	}
	sub.Post("/api/convert", handlers.Convert(d))
}
