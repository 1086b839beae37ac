package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"replyflow/internal/app"
	"replyflow/internal/domain"
)

type Handlers struct {
	D *app.Dispatcher
	Q *app.QueryService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type processRequest struct {
	ProductID       string   `json:"productId"`
	SourceReviewIDs []string `json:"sourceReviewIds"`
}

type processResponse struct {
	Accepted []string `json:"accepted"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/reviews/process", h.processReviews)
	s.mux.Get("/v1/reviews/{id}/processed", h.getProcessed)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// processReviews accepts a batch and returns 202 immediately; per-review
// outcomes are observable only through the store and logs.
func (h *Handlers) processReviews(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "body must be JSON with productId and sourceReviewIds")
		return
	}
	if req.ProductID == "" || len(req.SourceReviewIDs) == 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "productId and sourceReviewIds are required")
		return
	}

	accepted, err := h.D.Submit(r.Context(), req.ProductID, req.SourceReviewIDs)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProductNotFound):
			writeProblem(w, http.StatusNotFound, "Not Found", "product not found")
		case errors.Is(err, domain.ErrReviewMismatch):
			writeProblem(w, http.StatusNotFound, "Not Found", "some reviews not found or do not belong to the given product")
		default:
			log.Error().Err(err).Msg("submit failed")
			writeProblem(w, http.StatusInternalServerError, "Internal Error", "failed to submit reviews for processing")
		}
		return
	}
	writeJSON(w, http.StatusAccepted, processResponse{Accepted: accepted})
}

func (h *Handlers) getProcessed(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pr, err := h.Q.GetProcessed(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "processed review not found")
			return
		}
		log.Error().Err(err).Str("review", id).Msg("get processed failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "failed to load processed review")
		return
	}
	writeJSON(w, http.StatusOK, pr)
}
