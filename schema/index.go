package schema

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDBIndexer struct {
	ctx      context.Context
	dbName   string
	Client   *mongo.Client
	Database *mongo.Database
}

func NewMongoDBIndexer(connectionString, dbName string) *MongoDBIndexer {
	ctx := context.Background()
	opts := options.Client().ApplyURI(connectionString)
	client, err := mongo.NewClient(opts)
	if err != nil {
		panic(err)
	}
	if err := client.Connect(ctx); err != nil {
		panic(err)
	}

	return &MongoDBIndexer{
		ctx:      ctx,
		dbName:   dbName,
		Client:   client,
		Database: client.Database(dbName),
	}
}

func (m *MongoDBIndexer) createIndex(collection string, index mongo.IndexModel) error {
	c := m.Database.Collection(collection)
	_, err := c.Indexes().CreateOne(m.ctx, index)
	return err
}

func panicIfError(err error) {
	if err != nil {
		panic(err)
	}
}

func (m *MongoDBIndexer) IndexAll() {
	panicIfError(m.IndexTelemetryCollection())
	panicIfError(m.IndexAlertCollection())
	panicIfError(m.IndexBaselineCollection())
}

func (m *MongoDBIndexer) IndexTelemetryCollection() error {
	if err := m.createIndex(TelemetryCollection, mongo.IndexModel{
		Keys: bson.D{
			{Key: "point_id", Value: 1},
			{Key: "user_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}

	return m.createIndex(TelemetryCollection, mongo.IndexModel{
		Keys: bson.M{
			"trip_id": 1,
		},
	})
}

func (m *MongoDBIndexer) IndexAlertCollection() error {
	if err := m.createIndex(AlertCollection, mongo.IndexModel{
		Keys: bson.M{
			"alert_id": 1,
		},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}

	return m.createIndex(AlertCollection, mongo.IndexModel{
		Keys: bson.M{
			"user_id": 1,
		},
	})
}

func (m *MongoDBIndexer) IndexBaselineCollection() error {
	return m.createIndex(BaselineCollection, mongo.IndexModel{
		Keys: bson.M{
			"user_id": 1,
		},
		Options: options.Index().SetUnique(true),
	})
}
