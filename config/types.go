package config

// ServerConfig contains server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0,lte=65535"`
}

// Coordinate is a lon/lat pair in degrees
type Coordinate struct {
	Longitude float64 `yaml:"longitude" validate:"longitude"`
	Latitude  float64 `yaml:"latitude" validate:"latitude"`
}

// RouteConfig points to the line and station data
type RouteConfig struct {
	LineFile            string  `yaml:"lineFile" validate:"required_without=GTFSFile"`
	StationsFile        string  `yaml:"stationsFile" validate:"required_with=LineFile"`
	StationNameProperty string  `yaml:"stationNameProperty" validate:"required"`
	GTFSFile            string  `yaml:"gtfsFile"`
	ShapeID             string  `yaml:"shapeID" validate:"required_with=GTFSFile"`
	MaxStationOffsetKM  float64 `yaml:"maxStationOffsetKM" validate:"gte=0"`
	ProjectionCacheSize int     `yaml:"projectionCacheSize" validate:"gte=0"`
}

// TrackingConfig contains sampling and ETA heuristic settings
type TrackingConfig struct {
	SampleIntervalMS  int        `yaml:"sampleIntervalMS" validate:"gt=0"`
	SpeedThresholdKMH float64    `yaml:"speedThresholdKMH" validate:"gt=0"`
	DefaultSpeedKMH   float64    `yaml:"defaultSpeedKMH" validate:"gt=0"`
	Origin            Coordinate `yaml:"origin"`
	InitialStation    string     `yaml:"initialStation"`
}

// GTFSRTSourceConfig selects one vehicle from a VehiclePositions feed
type GTFSRTSourceConfig struct {
	VehiclePositionsURL string `yaml:"vehiclePositionsURL" validate:"omitempty,url"`
	VehicleID           string `yaml:"vehicleID"`
	TimeoutMS           int    `yaml:"timeoutMS" validate:"gte=0"`
}

// ReplaySourceConfig replays recorded positions from a GeoJSON file
type ReplaySourceConfig struct {
	File string `yaml:"file"`
	Loop bool   `yaml:"loop"`
}

// SourceConfig chooses where position samples come from
type SourceConfig struct {
	Kind   string             `yaml:"kind" validate:"oneof=gtfsrt replay push"`
	GTFSRT GTFSRTSourceConfig `yaml:"gtfsrt"`
	Replay ReplaySourceConfig `yaml:"replay"`
}

// PublishConfig contains identifiers used in SIRI and GTFS-RT output
type PublishConfig struct {
	ProducerRef string `yaml:"producerRef"`
	LineRef     string `yaml:"lineRef"`
	DataSource  string `yaml:"dataSource"`
	VehicleRef  string `yaml:"vehicleRef"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Route    RouteConfig    `yaml:"route"`
	Tracking TrackingConfig `yaml:"tracking"`
	Source   SourceConfig   `yaml:"source"`
	Publish  PublishConfig  `yaml:"publish"`
}
