package server

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/edgeorch/rater/metrics"
	"github.com/edgeorch/rater/scoring"
)

// StrategiesResponse lists the registered strategy names.
type StrategiesResponse struct {
	Strategies []string `json:"strategies"`
}

// ScoreResponse is a single on-demand score.
// Score is null when the strategy produced NaN or an infinity.
type ScoreResponse struct {
	Strategy string   `json:"strategy"`
	Score    *float64 `json:"score"`
	Finite   bool     `json:"finite"`
}

// ErrorResponse describes a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) listStrategies(resp http.ResponseWriter, req *http.Request) {
	writeJSON(resp, http.StatusOK, StrategiesResponse{Strategies: s.registry.Names()})
}

func (s *Server) score(resp http.ResponseWriter, req *http.Request) {
	name := req.PathValue("name")
	if name == "" {
		name = s.bound
	}
	strategy, err := s.registry.Get(name)
	if errors.Is(err, scoring.ErrUnknownStrategy) {
		writeError(resp, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.log.Error("Looking up strategy", "strategy", name, "error", err)
		writeError(resp, http.StatusInternalServerError, err.Error())
		return
	}

	strategy = metrics.Instrument(name, scoring.Logged(name, strategy, s.log))
	score := strategy.Score(s.query)

	out := ScoreResponse{Strategy: name}
	if !math.IsNaN(score) && !math.IsInf(score, 0) {
		out.Score = &score
		out.Finite = true
	}
	writeJSON(resp, http.StatusOK, out)
}

func writeJSON(resp http.ResponseWriter, code int, v interface{}) {
	resp.Header().Set("Content-Type", "application/json")
	resp.WriteHeader(code)
	json.NewEncoder(resp).Encode(v)
}

func writeError(resp http.ResponseWriter, code int, msg string) {
	writeJSON(resp, code, ErrorResponse{Error: msg})
}
