package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/DiasPedroQA/bookmark-converter/internal/httpserver/deps"
	"github.com/DiasPedroQA/bookmark-converter/internal/logger"
)

type flushResponse struct {
	Flushed bool   `json:"flushed"`
	Error   string `json:"error,omitempty"`
}

// FlushCache handles POST /api/cache/flush and empties the result cache.
func FlushCache(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if d.Store == nil {
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(flushResponse{Flushed: false, Error: "cache not configured"})
			return
		}

		if err := d.Store.FlushResults(r.Context()); err != nil {
			d.Logger.Warn("cache flush failed", logger.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(flushResponse{Flushed: false, Error: err.Error()})
			return
		}

		d.Logger.Info("result cache flushed")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(flushResponse{Flushed: true})
	}
}
