// Package mongoimport upserts a decoded feed into one MongoDB collection per
// table and removes records that a newer import no longer contains.
package mongoimport

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/gtfs-loader/pkg/database"
	"github.com/travigo/gtfs-loader/pkg/dataimporter/export"
	"github.com/travigo/gtfs-loader/pkg/gtfs"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultBatchSize = 1000

// Collection is the part of *mongo.Collection the importer writes through.
type Collection interface {
	BulkWrite(ctx context.Context, models []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error)
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// Document wraps a row with the bookkeeping needed to upsert it.
type Document[T any] struct {
	DatasetID  string    `bson:"datasetid"`
	Key        string    `bson:"key"`
	Version    string    `bson:"version"`
	ImportedAt time.Time `bson:"importedat"`
	Record     T         `bson:"record"`
}

type TableStats struct {
	Records  int
	Upserted int64
	Modified int64
	Deleted  int64
}

type Store struct {
	Collection     func(name string) Collection
	BatchSize      int
	MaxConcurrency int
}

// NewStore writes to the collections of the connected global database.
func NewStore() *Store {
	return &Store{
		Collection: func(name string) Collection {
			return database.GetCollection(name)
		},
		BatchSize: defaultBatchSize,
	}
}

// Import writes every table of feed under datasetID. version tags this
// import; documents carrying any other version are deleted after all tables
// are written. An empty version gets a random one.
func (s *Store) Import(ctx context.Context, datasetID string, version string, feed *gtfs.Feed) (map[string]TableStats, error) {
	if version == "" {
		version = uuid.NewString()
	}

	importedAt := time.Now()
	batchSize := s.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	writers := map[string]func(context.Context, Collection) (TableStats, error){
		gtfs.AgencyFile: func(ctx context.Context, collection Collection) (TableStats, error) {
			rows := export.Rows(feed.Agencies, export.AgencyRow)
			return writeTable(ctx, collection, datasetID, version, importedAt, batchSize, rows, agencyKey)
		},
		gtfs.RoutesFile: func(ctx context.Context, collection Collection) (TableStats, error) {
			rows := export.Rows(feed.Routes, export.RouteRow)
			return writeTable(ctx, collection, datasetID, version, importedAt, batchSize, rows, func(r export.Route) string { return r.ID })
		},
		gtfs.StopsFile: func(ctx context.Context, collection Collection) (TableStats, error) {
			rows := export.Rows(feed.Stops, export.StopRow)
			return writeTable(ctx, collection, datasetID, version, importedAt, batchSize, rows, func(r export.Stop) string { return r.ID })
		},
		gtfs.TripsFile: func(ctx context.Context, collection Collection) (TableStats, error) {
			rows := export.Rows(feed.Trips, export.TripRow)
			return writeTable(ctx, collection, datasetID, version, importedAt, batchSize, rows, func(r export.Trip) string { return r.ID })
		},
		gtfs.StopTimesFile: func(ctx context.Context, collection Collection) (TableStats, error) {
			rows := export.Rows(feed.StopTimes, export.StopTimeRow)
			return writeTable(ctx, collection, datasetID, version, importedAt, batchSize, rows, stopTimeKey)
		},
		gtfs.CalendarDatesFile: func(ctx context.Context, collection Collection) (TableStats, error) {
			rows := export.Rows(feed.CalendarDates, export.CalendarDateRow)
			return writeTable(ctx, collection, datasetID, version, importedAt, batchSize, rows, func(r export.CalendarDate) string { return r.ServiceID + ":" + r.Date })
		},
		gtfs.CalendarFile: func(ctx context.Context, collection Collection) (TableStats, error) {
			rows := export.Rows(feed.Calendars, export.CalendarRow)
			return writeTable(ctx, collection, datasetID, version, importedAt, batchSize, rows, func(r export.Calendar) string { return r.ServiceID })
		},
	}

	var statsMutex sync.Mutex
	stats := map[string]TableStats{}

	workers := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	if s.MaxConcurrency > 0 {
		workers = workers.WithMaxGoroutines(s.MaxConcurrency)
	}

	for _, file := range gtfs.TableFiles {
		name := database.CollectionName(file)
		write := writers[file]

		workers.Go(func(ctx context.Context) error {
			tableStats, err := write(ctx, s.Collection(name))
			if err != nil {
				return fmt.Errorf("importing %s: %w", file, err)
			}

			statsMutex.Lock()
			stats[file] = tableStats
			statsMutex.Unlock()

			return nil
		})
	}

	if err := workers.Wait(); err != nil {
		return nil, err
	}

	// Stale records are removed only after every table has been written.
	for _, file := range gtfs.TableFiles {
		name := database.CollectionName(file)

		deleted, err := deleteStale(ctx, s.Collection(name), datasetID, version)
		if err != nil {
			return nil, fmt.Errorf("removing stale %s: %w", file, err)
		}

		tableStats := stats[file]
		tableStats.Deleted = deleted
		stats[file] = tableStats

		log.Info().
			Str("dataset", datasetID).
			Str("collection", name).
			Int("records", tableStats.Records).
			Int64("upserted", tableStats.Upserted).
			Int64("deleted", tableStats.Deleted).
			Msg("Imported table")
	}

	return stats, nil
}

func writeTable[T any](ctx context.Context, collection Collection, datasetID string, version string, importedAt time.Time, batchSize int, rows []T, key func(T) string) (TableStats, error) {
	stats := TableStats{Records: len(rows)}
	bulkOptions := options.BulkWrite().SetOrdered(false)

	batch := make([]mongo.WriteModel, 0, min(batchSize, len(rows)))
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}

		result, err := collection.BulkWrite(ctx, batch, bulkOptions)
		if err != nil {
			return err
		}
		stats.Upserted += result.UpsertedCount
		stats.Modified += result.ModifiedCount

		batch = make([]mongo.WriteModel, 0, batchSize)
		return nil
	}

	for _, row := range rows {
		document := Document[T]{
			DatasetID:  datasetID,
			Key:        key(row),
			Version:    version,
			ImportedAt: importedAt,
			Record:     row,
		}

		batch = append(batch, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"datasetid": datasetID, "key": document.Key}).
			SetUpdate(bson.M{"$set": document}).
			SetUpsert(true))

		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}

	if err := flush(); err != nil {
		return stats, err
	}

	return stats, nil
}

func deleteStale(ctx context.Context, collection Collection, datasetID string, version string) (int64, error) {
	deleted, err := collection.DeleteMany(ctx, bson.M{
		"datasetid": datasetID,
		"version":   bson.M{"$ne": version},
	})
	if err != nil {
		return 0, err
	}

	return deleted.DeletedCount, nil
}

func agencyKey(row export.Agency) string {
	if row.ID != "" {
		return row.ID
	}

	return row.Name
}

func stopTimeKey(row export.StopTime) string {
	return row.TripID + ":" + strconv.FormatUint(uint64(row.StopSequence), 10)
}
