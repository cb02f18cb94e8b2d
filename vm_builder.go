package railtracker

import (
	"math"
	"time"

	"github.com/theoremus-urban-solutions/railtracker/config"
	"github.com/theoremus-urban-solutions/railtracker/estimate"
	"github.com/theoremus-urban-solutions/railtracker/formatter"
	"github.com/theoremus-urban-solutions/railtracker/siri"
	"github.com/theoremus-urban-solutions/railtracker/utils"
)

// BuildVehicleMonitoring describes the observer as one SIRI VehicleActivity
// whose MonitoredCall is the selected station.
func BuildVehicleMonitoring(m estimate.Metrics, pub config.PublishConfig, vehicleRef string, interval time.Duration, now time.Time) siri.VehicleMonitoring {
	recorded := m.SampledAt
	if recorded.IsZero() {
		recorded = now
	}
	mvj := siri.MonitoredVehicleJourney{
		LineRef:         pub.LineRef,
		VehicleMode:     "rail",
		DestinationRef:  m.Target.Name,
		DestinationName: m.Target.Name,
		Monitored:       m.Sampled,
		DataSource:      pub.DataSource,
		VehicleRef:      vehicleRef,
		MonitoredCall:   buildMonitoredCall(m, now),
	}
	if m.Sampled {
		lat, lon := m.Position.Latitude, m.Position.Longitude
		mvj.VehicleLocation = &siri.VehicleLocation{Latitude: &lat, Longitude: &lon}
		v := int(math.Round(m.SpeedKMH))
		mvj.Velocity = &v
	} else {
		mvj.ProgressStatus = "noProgress"
	}
	return siri.VehicleMonitoring{
		ResponseTimestamp: utils.Iso8601(now),
		ValidUntil:        utils.ValidUntilFrom(now, interval),
		VehicleActivity: []siri.VehicleActivityEntry{{
			RecordedAtTime:          utils.Iso8601(recorded),
			ValidUntilTime:          utils.ValidUntilFrom(recorded, interval),
			MonitoredVehicleJourney: mvj,
		}},
	}
}

func buildMonitoredCall(m estimate.Metrics, now time.Time) *siri.MonitoredCall {
	atStop := utils.AtStop(m.RemainingKM)
	return &siri.MonitoredCall{
		StopPointRef:        m.Target.Name,
		StopPointName:       m.Target.Name,
		VehicleAtStop:       &atStop,
		ExpectedArrivalTime: utils.Iso8601(now.Add(m.ETA)),
		Extensions: &siri.CallExtensions{Distances: siri.Distances{
			PresentableDistance:  utils.PresentableDistance(m.RemainingKM),
			DistanceFromCall:     m.RemainingKM * 1000,
			StraightLineDistance: m.AbsoluteKM * 1000,
			SecondsToArrival:     int64(m.ETA.Round(time.Second) / time.Second),
		}},
	}
}

// BuildVehicleMonitoringResponse wraps the delivery for serialization.
func BuildVehicleMonitoringResponse(m estimate.Metrics, pub config.PublishConfig, vehicleRef string, interval time.Duration, now time.Time) *siri.SiriResponse {
	vm := BuildVehicleMonitoring(m, pub, vehicleRef, interval, now)
	return formatter.WrapVehicleMonitoringResponse(vm, now, pub.ProducerRef)
}
