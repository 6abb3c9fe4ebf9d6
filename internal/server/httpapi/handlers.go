package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/amyzhang-commits/spanish-cards/internal/common"
	"github.com/amyzhang-commits/spanish-cards/internal/models"
)

type uploadRequest struct {
	DeviceID string         `json:"device_id"`
	Cards    []*models.Card `json:"cards"`
}

type uploadResponse struct {
	Success   bool  `json:"success"`
	Uploaded  int   `json:"uploaded"`
	Timestamp int64 `json:"timestamp"`
}

type downloadResponse struct {
	Success   bool           `json:"success"`
	Cards     []*models.Card `json:"cards"`
	Count     int            `json:"count"`
	Timestamp int64          `json:"timestamp"`
}

type statsResponse struct {
	TotalCards   int64 `json:"total_cards"`
	TotalDevices int64 `json:"total_devices"`
	Timestamp    int64 `json:"timestamp"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, common.ErrValidation) {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err.Error())
	s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Timestamp: s.now().UnixMilli()})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	// A missing cards field decodes to nil; reject before touching storage.
	if req.DeviceID == "" || req.Cards == nil {
		s.writeJSON(w, http.StatusBadRequest,
			errorResponse{Error: "invalid request: cards array and device_id required"})
		return
	}

	uploaded, err := s.cards.Push(r.Context(), req.DeviceID, req.Cards)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "upload applied", "device_id", req.DeviceID, "uploaded", uploaded)
	s.writeJSON(w, http.StatusOK, uploadResponse{
		Success:   true,
		Uploaded:  uploaded,
		Timestamp: s.now().UnixMilli(),
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	deviceID := r.PathValue("device_id")

	var since int64
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid since parameter"})
			return
		}
		since = parsed
	}

	cards, err := s.cards.Pull(r.Context(), deviceID, since)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if cards == nil {
		cards = []*models.Card{}
	}

	s.writeJSON(w, http.StatusOK, downloadResponse{
		Success:   true,
		Cards:     cards,
		Count:     len(cards),
		Timestamp: s.now().UnixMilli(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.cards.Stats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, statsResponse{
		TotalCards:   stats.TotalCards,
		TotalDevices: stats.TotalDevices,
		Timestamp:    s.now().UnixMilli(),
	})
}
