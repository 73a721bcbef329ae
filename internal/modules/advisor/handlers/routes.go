package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all portfolio routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/portfolio/analyze", h.HandleAnalyze)
	r.Post("/optimize-portfolio", h.HandleOptimize)
	r.Post("/stock-data", h.HandleStockData)
	r.Get("/stock-info/{symbol}", func(w http.ResponseWriter, r *http.Request) {
		symbol := chi.URLParam(r, "symbol")
		h.HandleStockInfo(w, r, symbol)
	})
}
