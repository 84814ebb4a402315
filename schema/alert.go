package schema

import "fmt"

const (
	AlertCollection = "alerts"
)

type AlertType string

const (
	AlertTypeHealth     AlertType = "health"
	AlertTypePharmacy   AlertType = "pharmacy"
	AlertTypeRestaurant AlertType = "restaurant"
	AlertTypeGym        AlertType = "gym"
	AlertTypeLocation   AlertType = "location"
)

// AlertTypes is the closed set of accepted alert types.
var AlertTypes = map[AlertType]bool{
	AlertTypeHealth:     true,
	AlertTypePharmacy:   true,
	AlertTypeRestaurant: true,
	AlertTypeGym:        true,
	AlertTypeLocation:   true,
}

type AlertSeverity string

const (
	AlertSeverityLow    AlertSeverity = "low"
	AlertSeverityMedium AlertSeverity = "medium"
	AlertSeverityHigh   AlertSeverity = "high"
)

// AlertSeverities is the closed set of accepted severities.
var AlertSeverities = map[AlertSeverity]bool{
	AlertSeverityLow:    true,
	AlertSeverityMedium: true,
	AlertSeverityHigh:   true,
}

type AlertMetadata struct {
	Type        AlertType     `bson:"type" json:"type"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description" json:"description"`
	Severity    AlertSeverity `bson:"severity" json:"severity"`
	Latitude    *float64      `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude   *float64      `bson:"longitude,omitempty" json:"longitude,omitempty"`

	// IsSevere carries the raw verdict of the risk assessment so consumers
	// can filter always-inform health alerts. Unset on other alert types.
	IsSevere *bool `bson:"is_severe,omitempty" json:"is_severe,omitempty"`
}

type Alert struct {
	ID        string        `bson:"alert_id" json:"alert_id"`
	UserID    string        `bson:"user_id" json:"user_id"`
	Timestamp string        `bson:"timestamp" json:"timestamp"`
	Metadata  AlertMetadata `bson:"metadata" json:"metadata"`
}

// AlertID derives the deterministic identity of an alert. Any change to the
// user or the timestamp yields a distinct identity.
func AlertID(userID, timestamp string) string {
	return fmt.Sprintf("alert-%s-%s", userID, timestamp)
}
