package sampler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/railtracker/route"
	"github.com/theoremus-urban-solutions/railtracker/tracking"
)

// GTFSRTSource follows one vehicle in a VehiclePositions feed.
type GTFSRTSource struct {
	url        string
	vehicleID  string
	httpClient *http.Client
	lastStamp  uint64
}

func NewGTFSRTSource(url, vehicleID string, timeout time.Duration) *GTFSRTSource {
	return &GTFSRTSource{
		url:        url,
		vehicleID:  vehicleID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *GTFSRTSource) Fetch(ctx context.Context) (tracking.Sample, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return tracking.Sample{}, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return tracking.Sample{}, fmt.Errorf("failed to fetch %s: %w", s.url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return tracking.Sample{}, fmt.Errorf("HTTP %d from %s", resp.StatusCode, s.url)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return tracking.Sample{}, err
	}
	var feed gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(body, &feed); err != nil {
		return tracking.Sample{}, fmt.Errorf("decode feed: %w", err)
	}
	return s.pick(&feed)
}

// pick finds the configured vehicle. A fix whose timestamp did not advance
// is reported as ErrNoFix so the tracker never sees the same sample twice.
func (s *GTFSRTSource) pick(feed *gtfsrtpb.FeedMessage) (tracking.Sample, error) {
	for _, ent := range feed.GetEntity() {
		vp := ent.GetVehicle()
		if vp == nil || vp.GetPosition() == nil {
			continue
		}
		if vp.GetVehicle().GetId() != s.vehicleID && ent.GetId() != s.vehicleID {
			continue
		}
		ts := vp.GetTimestamp()
		if ts == 0 {
			ts = feed.GetHeader().GetTimestamp()
		}
		if ts != 0 && ts == s.lastStamp {
			return tracking.Sample{}, ErrNoFix
		}
		s.lastStamp = ts
		pos := vp.GetPosition()
		sample := tracking.Sample{
			Position: route.Position{
				Longitude: float64(pos.GetLongitude()),
				Latitude:  float64(pos.GetLatitude()),
			},
		}
		if ts != 0 {
			sample.Time = time.Unix(int64(ts), 0)
		}
		return sample, nil
	}
	return tracking.Sample{}, fmt.Errorf("%w: vehicle %s not in feed", ErrNoFix, s.vehicleID)
}
