package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/vbonduro/groupr/internal/seed"
)

const maxSeedBody = 64 * 1024

type seedRequest struct {
	CaptainEmail   string `json:"captainEmail"`
	CaptainClerkID string `json:"captainClerkId"`
}

type seedResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Groups  []seed.Result `json:"groups"`
}

func (s *Server) handleSeedUsage(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"message": seed.Usage})
}

func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	var req seedRequest
	var results []seed.Result
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSeedBody)).Decode(&req)
	if err != nil {
		err = fmt.Errorf("decode request: %w", err)
	} else {
		results, err = s.seeder.Seed(r.Context(), req.CaptainEmail, req.CaptainClerkID, nil)
	}
	if errors.Is(err, seed.ErrMissingCaptain) {
		s.metrics.seedRuns.WithLabelValues("rejected").Inc()
		writeJSONError(w, http.StatusBadRequest, "Captain email and clerkId are required")
		return
	}
	if err != nil {
		s.metrics.seedRuns.WithLabelValues("failed").Inc()
		s.logger.Error("seed failed", "groups_written", len(results), "error", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Failed to seed database",
			"details": err.Error(),
		})
		return
	}

	s.metrics.seedRuns.WithLabelValues("ok").Inc()
	s.writeJSON(w, http.StatusOK, seedResponse{
		Success: true,
		Message: fmt.Sprintf("Created %d mock groups", len(results)),
		Groups:  results,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write json failed", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
