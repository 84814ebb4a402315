package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bitmark-inc/wayfarer-api/schema"
)

var ErrNoBaselineSnapshot = fmt.Errorf("no baseline snapshot for user")

// BaselineSnapshot - cached baseline persistence
type BaselineSnapshot interface {
	BaselineSnapshotSave(snapshot schema.BaselineSnapshot) error
	BaselineSnapshotGet(userID string) (*schema.BaselineSnapshot, error)
}

func (m *mongoDB) BaselineSnapshotSave(snapshot schema.BaselineSnapshot) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	c := m.client.Database(m.database).Collection(schema.BaselineCollection)

	_, err := c.ReplaceOne(ctx, bson.M{"user_id": snapshot.UserID}, snapshot, options.Replace().SetUpsert(true))
	return err
}

func (m *mongoDB) BaselineSnapshotGet(userID string) (*schema.BaselineSnapshot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	c := m.client.Database(m.database).Collection(schema.BaselineCollection)

	var snapshot schema.BaselineSnapshot
	if err := c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&snapshot); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNoBaselineSnapshot
		}
		return nil, err
	}

	return &snapshot, nil
}
