package railtracker

import (
	"encoding/json"
	"net/http"
)

type healthResponse struct {
	Status          string `json:"status"`
	SessionID       string `json:"session_id"`
	Samples         uint64 `json:"samples"`
	LatestSampleUTC string `json:"latest_sample,omitempty"`
	Clients         int    `json:"ws_clients"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	m := s.session.Metrics()
	resp := healthResponse{
		Status:          "ok",
		SessionID:       s.session.ID.String(),
		Samples:         s.session.Samples(),
		LatestSampleUTC: NewDisplay(m).SampledAt,
		Clients:         s.hub.count(),
	}
	_ = json.NewEncoder(w).Encode(resp)
}
