package database

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/travigo/gtfs-loader/pkg/gtfs"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName maps a table file to its collection, "stop_times.txt"
// becomes "gtfs_stop_times".
func CollectionName(file string) string {
	return "gtfs_" + strings.TrimSuffix(file, ".txt")
}

func createIndexes() {
	for _, file := range gtfs.TableFiles {
		collection := GetCollection(CollectionName(file))

		_, err := collection.Indexes().CreateMany(context.Background(), TableIndexes(), options.CreateIndexes())
		if err != nil {
			log.Error().Err(err).Str("collection", collection.Name()).Msg("Creating Index")
		}
	}
}

// TableIndexes are shared by every table collection. Records are keyed by
// dataset and primary key, and stale records are found by version.
func TableIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "datasetid", Value: 1},
				{Key: "key", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "datasetid", Value: 1},
				{Key: "version", Value: 1},
			},
		},
	}
}
