package siri

// VehicleMonitoring represents the VehicleMonitoring delivery
type VehicleMonitoring struct {
	ResponseTimestamp string                 `json:"ResponseTimestamp"`
	ValidUntil        string                 `json:"ValidUntil,omitempty"`
	VehicleActivity   []VehicleActivityEntry `json:"VehicleActivity"`
}

// VehicleActivityEntry represents a single vehicle's activity
type VehicleActivityEntry struct {
	RecordedAtTime          string                  `json:"RecordedAtTime"`
	ValidUntilTime          string                  `json:"ValidUntilTime,omitempty"`
	MonitoredVehicleJourney MonitoredVehicleJourney `json:"MonitoredVehicleJourney"`
}

// MonitoredVehicleJourney describes the observer's journey
type MonitoredVehicleJourney struct {
	LineRef         string           `json:"LineRef,omitempty"`
	VehicleMode     string           `json:"VehicleMode,omitempty"`
	DestinationRef  string           `json:"DestinationRef,omitempty"`
	DestinationName string           `json:"DestinationName,omitempty"`
	Monitored       bool             `json:"Monitored"`
	DataSource      string           `json:"DataSource"`
	VehicleLocation *VehicleLocation `json:"VehicleLocation,omitempty"`
	Velocity        *int             `json:"Velocity,omitempty"` // km/h, rounded
	ProgressStatus  string           `json:"ProgressStatus,omitempty"`
	VehicleRef      string           `json:"VehicleRef"`
	MonitoredCall   *MonitoredCall   `json:"MonitoredCall,omitempty"`
}

// VehicleLocation represents the geographical location of a vehicle
type VehicleLocation struct {
	Latitude  *float64 `json:"Latitude"`
	Longitude *float64 `json:"Longitude"`
}

// MonitoredCall is the selected station
type MonitoredCall struct {
	StopPointRef        string          `json:"StopPointRef"`
	StopPointName       string          `json:"StopPointName,omitempty"`
	VehicleAtStop       *bool           `json:"VehicleAtStop,omitempty"`
	ExpectedArrivalTime string          `json:"ExpectedArrivalTime,omitempty"`
	Extensions          *CallExtensions `json:"Extensions,omitempty"`
}

// CallExtensions carries the distance figures towards the call
type CallExtensions struct {
	Distances Distances `json:"Distances"`
}

// Distances in meters, plus a rider-facing summary
type Distances struct {
	PresentableDistance  string  `json:"PresentableDistance"`
	DistanceFromCall     float64 `json:"DistanceFromCall"`
	StraightLineDistance float64 `json:"StraightLineDistance"`
	SecondsToArrival     int64   `json:"SecondsToArrival"`
}
