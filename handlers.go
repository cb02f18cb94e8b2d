package railtracker

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/theoremus-urban-solutions/railtracker/formatter"
	"github.com/theoremus-urban-solutions/railtracker/route"
	"github.com/theoremus-urban-solutions/railtracker/sampler"
	"github.com/theoremus-urban-solutions/railtracker/session"
)

type errorPayload struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorPayload{Error: err.Error()})
}

type stationsResponse struct {
	Selected string           `json:"selected"`
	Stations []route.Waypoint `json:"stations"`
}

func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stationsResponse{
		Selected: s.session.Selected().Name,
		Stations: s.session.Model().Stations(),
	})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, errors.New("use POST"))
		return
	}
	name := r.URL.Query().Get("name")
	if err := s.session.Select(name); err != nil {
		if errors.Is(err, session.ErrTargetNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, NewDisplay(s.session.Metrics()))
}

// handleMetrics returns display figures for the selected station, or for
// ?station= without changing the selection.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("station"); name != "" {
		m, err := s.session.MetricsFor(name)
		if err != nil {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeJSON(w, http.StatusOK, NewDisplay(m))
		return
	}
	writeJSON(w, http.StatusOK, NewDisplay(s.session.Metrics()))
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, errors.New("use POST"))
		return
	}
	if s.push == nil {
		writeError(w, http.StatusConflict, errors.New("position push is disabled for this source"))
		return
	}
	var fix sampler.Fix
	if err := json.NewDecoder(r.Body).Decode(&fix); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.push.Push(fix); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) vehicleRef() string {
	if s.cfg.Publish.VehicleRef != "" {
		return s.cfg.Publish.VehicleRef
	}
	return s.session.ID.String()
}

func (s *Server) vehicleMonitoring(format string) ([]byte, error) {
	return s.cache.Get(func() ([]byte, error) {
		res := BuildVehicleMonitoringResponse(s.session.Metrics(), s.cfg.Publish, s.vehicleRef(), s.cfg.SampleInterval(), s.now())
		return formatter.NewResponseBuilder().Build(res, format)
	}, "vm", format)
}

func (s *Server) handleVehicleMonitoringJSON(w http.ResponseWriter, r *http.Request) {
	buf, err := s.vehicleMonitoring("json")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf)
}

func (s *Server) handleVehicleMonitoringXML(w http.ResponseWriter, r *http.Request) {
	buf, err := s.vehicleMonitoring("xml")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	_, _ = w.Write(buf)
}

func (s *Server) handleVehiclePositions(w http.ResponseWriter, r *http.Request) {
	buf, err := s.cache.Get(func() ([]byte, error) {
		return MarshalVehiclePositionFeed(s.session.Metrics(), s.session.ID.String(), s.vehicleRef(), s.now())
	}, "gtfsrt")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/x-protobuf")
	_, _ = w.Write(buf)
}
