package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bitmark-inc/wayfarer-api/schema"
)

var (
	ErrInvalidAlertType     = fmt.Errorf("invalid alert type")
	ErrInvalidAlertSeverity = fmt.Errorf("invalid alert severity")
)

// Alert - validated alert persistence
type Alert interface {
	AlertAdd(userID, timestamp string, metadata schema.AlertMetadata) error
	AlertListByUser(userID string) ([]schema.Alert, error)
}

// AlertAdd validates the metadata against the fixed type and severity
// vocabularies and stores the alert under its deterministic identity,
// replacing any record already held under that identity. An invalid metadata
// rejects the whole write with no persistence.
func (m *mongoDB) AlertAdd(userID, timestamp string, metadata schema.AlertMetadata) error {
	if !schema.AlertTypes[metadata.Type] {
		return fmt.Errorf("%w: %q", ErrInvalidAlertType, metadata.Type)
	}
	if !schema.AlertSeverities[metadata.Severity] {
		return fmt.Errorf("%w: %q", ErrInvalidAlertSeverity, metadata.Severity)
	}

	alert := schema.Alert{
		ID:        schema.AlertID(userID, timestamp),
		UserID:    userID,
		Timestamp: timestamp,
		Metadata:  metadata,
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	c := m.client.Database(m.database).Collection(schema.AlertCollection)

	_, err := c.ReplaceOne(ctx, bson.M{"alert_id": alert.ID}, alert, options.Replace().SetUpsert(true))
	return err
}

// AlertListByUser returns every alert of a user, in no guaranteed order.
func (m *mongoDB) AlertListByUser(userID string) ([]schema.Alert, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	c := m.client.Database(m.database).Collection(schema.AlertCollection)

	cursor, err := c.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}

	alerts := make([]schema.Alert, 0)
	for cursor.Next(ctx) {
		var a schema.Alert
		if err := cursor.Decode(&a); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}

	return alerts, nil
}
