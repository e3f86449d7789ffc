package database

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	StopsCollection  = "stops"
	RoutesCollection = "routes"
)

func (m *MongoInstance) createIndexes(ctx context.Context) {
	for _, collectionName := range []string{StopsCollection, RoutesCollection} {
		_, err := m.GetCollection(collectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		}, options.CreateIndexes())
		if err != nil {
			log.Error().Err(err).Str("collection", collectionName).Msg("Creating Index")
		}
	}

	_, err := m.GetCollection(RoutesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "transporttype", Value: 1}},
	})
	if err != nil {
		log.Error().Err(err).Str("collection", RoutesCollection).Msg("Creating Index")
	}
}

func (m *MongoInstance) LoadStops(ctx context.Context) ([]ctdf.Stop, error) {
	return findAll[ctdf.Stop](ctx, m.GetCollection(StopsCollection))
}

func (m *MongoInstance) LoadRoutes(ctx context.Context) ([]ctdf.Route, error) {
	return findAll[ctdf.Route](ctx, m.GetCollection(RoutesCollection))
}

// UpsertStops replaces every stop by id, inserting the ones not stored yet
func (m *MongoInstance) UpsertStops(ctx context.Context, stops []ctdf.Stop) (int64, error) {
	return bulkUpsert(ctx, m.GetCollection(StopsCollection), upsertModels(stops, func(stop ctdf.Stop) int64 { return stop.ID }))
}

func (m *MongoInstance) UpsertRoutes(ctx context.Context, routes []ctdf.Route) (int64, error) {
	return bulkUpsert(ctx, m.GetCollection(RoutesCollection), upsertModels(routes, func(route ctdf.Route) int64 { return route.ID }))
}

func findAll[T any](ctx context.Context, collection *mongo.Collection) ([]T, error) {
	cursor, err := collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, errors.Wrapf(err, "querying %s", collection.Name())
	}

	var records []T
	if err := cursor.All(ctx, &records); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", collection.Name())
	}

	return records, nil
}

func upsertModels[T any](records []T, id func(T) int64) []mongo.WriteModel {
	operations := make([]mongo.WriteModel, 0, len(records))

	for _, record := range records {
		replaceModel := mongo.NewReplaceOneModel()
		replaceModel.SetFilter(bson.M{"id": id(record)})
		replaceModel.SetReplacement(record)
		replaceModel.SetUpsert(true)

		operations = append(operations, replaceModel)
	}

	return operations
}

func bulkUpsert(ctx context.Context, collection *mongo.Collection, operations []mongo.WriteModel) (int64, error) {
	if len(operations) == 0 {
		return 0, nil
	}

	result, err := collection.BulkWrite(ctx, operations, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, errors.Wrapf(err, "writing %s", collection.Name())
	}

	return result.UpsertedCount + result.ModifiedCount, nil
}
