package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bitmark-inc/wayfarer-api/schema"
)

// Telemetry - per-user sensor point operations
type Telemetry interface {
	TelemetryPut(point schema.TelemetryPoint) error
	TelemetryList(userID string) ([]schema.TelemetryPoint, error)
	TelemetryListByTrip(userID, tripID string) ([]schema.TelemetryPoint, error)
}

// TelemetryPut stores a point, replacing any record held under the same
// (point_id, user_id) identity. The replace is a single upsert, so concurrent
// writers of the same identity resolve last-writer-wins.
func (m *mongoDB) TelemetryPut(point schema.TelemetryPoint) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	c := m.client.Database(m.database).Collection(schema.TelemetryCollection)

	query := bson.M{
		"point_id": point.PointID,
		"user_id":  point.UserID,
	}
	_, err := c.ReplaceOne(ctx, query, point, options.Replace().SetUpsert(true))
	return err
}

// TelemetryList returns every stored point of a user, in no guaranteed order.
func (m *mongoDB) TelemetryList(userID string) ([]schema.TelemetryPoint, error) {
	return m.telemetryFind(bson.M{"user_id": userID})
}

// TelemetryListByTrip returns every stored point of a user within one trip.
func (m *mongoDB) TelemetryListByTrip(userID, tripID string) ([]schema.TelemetryPoint, error) {
	return m.telemetryFind(bson.M{"user_id": userID, "trip_id": tripID})
}

func (m *mongoDB) telemetryFind(query bson.M) ([]schema.TelemetryPoint, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	c := m.client.Database(m.database).Collection(schema.TelemetryCollection)

	cursor, err := c.Find(ctx, query)
	if err != nil {
		return nil, err
	}

	points := make([]schema.TelemetryPoint, 0)
	for cursor.Next(ctx) {
		var p schema.TelemetryPoint
		if err := cursor.Decode(&p); err != nil {
			return nil, err
		}
		points = append(points, p)
	}

	return points, nil
}
