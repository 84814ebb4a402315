package schema

const (
	TelemetryCollection = "telemetry"
)

// TelemetryData carries the sensor readings of a single point. Health metrics
// are pointers so an absent reading is distinguishable from a zero one.
type TelemetryData struct {
	Latitude         float64  `bson:"latitude" json:"latitude"`
	Longitude        float64  `bson:"longitude" json:"longitude"`
	Altitude         float64  `bson:"altitude" json:"altitude"`
	SpeedX           float64  `bson:"speed_x" json:"speed_x"`
	SpeedY           float64  `bson:"speed_y" json:"speed_y"`
	SpeedZ           float64  `bson:"speed_z" json:"speed_z"`
	HeartRate        *float64 `bson:"heart_rate,omitempty" json:"heart_rate,omitempty"`
	CaloriesBurned   *float64 `bson:"calories_burned,omitempty" json:"calories_burned,omitempty"`
	O2Saturation     *float64 `bson:"o2_saturation,omitempty" json:"o2_saturation,omitempty"`
	DistanceTraveled float64  `bson:"distance_traveled" json:"distance_traveled"`
}

// TelemetryPoint - one per-user sensor point, identified by (point_id, user_id)
type TelemetryPoint struct {
	PointID   string        `bson:"point_id" json:"point_id"`
	UserID    string        `bson:"user_id" json:"user_id"`
	TripID    string        `bson:"trip_id" json:"trip_id"`
	Timestamp string        `bson:"timestamp" json:"timestamp"`
	Data      TelemetryData `bson:"data" json:"data"`
}
