package railtracker

import (
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/railtracker/estimate"
	"github.com/theoremus-urban-solutions/railtracker/utils"
)

// BuildVehiclePositionFeed publishes the observer as a single-entity
// GTFS-Realtime VehiclePositions feed. stop_id carries the selected station.
// An unsampled observer yields an entity without a position.
func BuildVehiclePositionFeed(m estimate.Metrics, entityID, vehicleRef string, now time.Time) *gtfsrtpb.FeedMessage {
	status := gtfsrtpb.VehiclePosition_IN_TRANSIT_TO
	if utils.AtStop(m.RemainingKM) {
		status = gtfsrtpb.VehiclePosition_STOPPED_AT
	}
	vp := &gtfsrtpb.VehiclePosition{
		Vehicle:       &gtfsrtpb.VehicleDescriptor{Id: proto.String(vehicleRef)},
		StopId:        proto.String(m.Target.Name),
		CurrentStatus: status.Enum(),
	}
	if m.Sampled {
		vp.Position = &gtfsrtpb.Position{
			Latitude:  proto.Float32(float32(m.Position.Latitude)),
			Longitude: proto.Float32(float32(m.Position.Longitude)),
			Speed:     proto.Float32(float32(m.SpeedKMH / 3.6)),
		}
		if !m.SampledAt.IsZero() {
			vp.Timestamp = proto.Uint64(uint64(m.SampledAt.Unix()))
		}
	}
	return &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Incrementality:      gtfsrtpb.FeedHeader_FULL_DATASET.Enum(),
			Timestamp:           proto.Uint64(uint64(now.Unix())),
		},
		Entity: []*gtfsrtpb.FeedEntity{{
			Id:      proto.String(entityID),
			Vehicle: vp,
		}},
	}
}

// MarshalVehiclePositionFeed is BuildVehiclePositionFeed encoded as protobuf.
func MarshalVehiclePositionFeed(m estimate.Metrics, entityID, vehicleRef string, now time.Time) ([]byte, error) {
	return proto.Marshal(BuildVehiclePositionFeed(m, entityID, vehicleRef, now))
}
