package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultConnectionString = "mongodb://localhost:27017/"
	DefaultDatabase         = "journeyplanner"

	connectTimeout = 30 * time.Second
)

type MongoInstance struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// Connect opens the database, checks it answers and makes sure the dataset indexes exist
func Connect(ctx context.Context, connectionString string, databaseName string) (*MongoInstance, error) {
	if connectionString == "" {
		connectionString = DefaultConnectionString
	}
	if databaseName == "" {
		databaseName = DefaultDatabase
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(connectionString))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongodb")
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "pinging mongodb")
	}

	instance := &MongoInstance{
		Client:   client,
		Database: client.Database(databaseName),
	}

	instance.createIndexes(ctx)

	log.Info().Str("database", databaseName).Msg("Connected to mongodb")

	return instance, nil
}

func (m *MongoInstance) GetCollection(collectionName string) *mongo.Collection {
	return m.Database.Collection(collectionName)
}

func (m *MongoInstance) Disconnect(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
