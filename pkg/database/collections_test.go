package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/travigo/gtfs-loader/pkg/gtfs"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCollectionName(t *testing.T) {
	assert.Equal(t, "gtfs_stop_times", CollectionName(gtfs.StopTimesFile))
	assert.Equal(t, "gtfs_agency", CollectionName(gtfs.AgencyFile))
	assert.Equal(t, "gtfs_calendar_dates", CollectionName(gtfs.CalendarDatesFile))
}

func TestTableIndexes(t *testing.T) {
	indexes := TableIndexes()

	assert.Len(t, indexes, 2)
	assert.Equal(t, bson.D{{Key: "datasetid", Value: 1}, {Key: "key", Value: 1}}, indexes[0].Keys)
	if assert.NotNil(t, indexes[0].Options.Unique) {
		assert.True(t, *indexes[0].Options.Unique)
	}
}

func TestTableIndexesVersion(t *testing.T) {
	indexes := TableIndexes()

	assert.Equal(t, bson.D{{Key: "datasetid", Value: 1}, {Key: "version", Value: 1}}, indexes[1].Keys)
	assert.Nil(t, indexes[1].Options)
}
