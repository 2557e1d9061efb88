package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/sawpanic/courtline/internal/engine"
	"github.com/sawpanic/courtline/internal/explain"
	"github.com/sawpanic/courtline/internal/snapshot"
	"github.com/sawpanic/courtline/internal/tracker"
	"github.com/sawpanic/courtline/internal/validate"
)

// fairLineRequest asks for one matchup. Market is optional; without it the
// response carries no stake.
type fairLineRequest struct {
	Away   string   `json:"away"`
	Home   string   `json:"home"`
	Market *float64 `json:"market,omitempty"`
}

type fairLineResponse struct {
	FairLine   *engine.FairLine `json:"fair_line"`
	Stake      *engine.Stake    `json:"stake,omitempty"`
	Confidence string           `json:"confidence"`
	Reason     string           `json:"reason"`
}

func decodeMatchup(w http.ResponseWriter, r *http.Request) (*fairLineRequest, bool) {
	var req fairLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if req.Away == "" || req.Home == "" {
		writeError(w, http.StatusBadRequest, "away and home are required")
		return nil, false
	}
	return &req, true
}

func (s *Server) handleFairLine(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeMatchup(w, r)
	if !ok {
		return
	}

	timer := s.metrics.StartCompute("fairline")
	snaps, err := s.loadSnapshots(r.Context())
	if err != nil {
		timer.Stop("error")
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	f, err := engine.ComputeFairLine(req.Away, req.Home, snaps, s.cfg.Model)
	if err != nil {
		timer.Stop("error")
		status := http.StatusInternalServerError
		if errors.Is(err, engine.ErrTeamNotFound) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err.Error())
		return
	}
	timer.Stop("ok")

	grade, reason := engine.Confidence(f)
	resp := fairLineResponse{FairLine: f, Confidence: grade, Reason: reason}

	market := req.Market
	if market == nil {
		if line, found := snaps.Odds.MarketLine(f.AwayTeam, f.HomeTeam); found {
			market = &line
		}
	}
	if market != nil {
		stake := engine.ComputeEdgeAndStake(f.Value, *market, s.cfg.Model)
		resp.Stake = &stake
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDecompose(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeMatchup(w, r)
	if !ok {
		return
	}

	timer := s.metrics.StartCompute("decompose")
	snaps, err := s.loadSnapshots(r.Context())
	if err != nil {
		timer.Stop("error")
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	d, err := explain.Decompose(req.Away, req.Home, req.Market, snaps, s.cfg.Model)
	if err != nil {
		timer.Stop("error")
		status := http.StatusInternalServerError
		if errors.Is(err, engine.ErrTeamNotFound) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err.Error())
		return
	}
	timer.Stop("ok")

	writeJSON(w, http.StatusOK, d)
}

// validateRequest optionally narrows the audit to one tracker file name.
type validateRequest struct {
	File string `json:"file,omitempty"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	files, err := tracker.Files(s.cfg.Data.Dir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var summary validate.Summary
	for _, path := range files {
		if req.File != "" && filepath.Base(path) != req.File {
			continue
		}
		records, err := tracker.ReadFile(path)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		summary.Add(path, records, s.cfg.Model)
	}

	s.metrics.RecordValidation(summary.Errors, summary.Warnings, summary.Infos)
	writeJSON(w, http.StatusOK, map[string]any{
		"summary": &summary,
		"verdict": summary.Verdict(),
	})
}

type healthResponse struct {
	Status  string              `json:"status"`
	Version string              `json:"version"`
	Time    time.Time           `json:"time"`
	Caches  []snapshot.CacheAge `json:"caches"`
	Metrics map[string]float64  `json:"metrics,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	caches := s.cacheStaleness(r.Context(), now)

	status := "ok"
	for _, cache := range caches {
		result := "ok"
		switch {
		case cache.Missing:
			result = "missing"
		case cache.Stale:
			result = "stale"
		}
		s.metrics.CacheLoads.WithLabelValues(cache.Name, result).Inc()
		if result != "ok" {
			status = "degraded"
		}
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:  status,
		Version: Version,
		Time:    now,
		Caches:  caches,
		Metrics: s.metrics.Gathered(),
	})
}
