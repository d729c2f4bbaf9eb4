package dataimporter

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/gtfs-loader/pkg/dataimporter/archive"
	"github.com/travigo/gtfs-loader/pkg/dataimporter/datasets"
	"github.com/travigo/gtfs-loader/pkg/dataimporter/mongoimport"
	"github.com/travigo/gtfs-loader/pkg/dataimporter/versions"
	"github.com/travigo/gtfs-loader/pkg/gtfs"
)

// Importer fetches and decodes datasets. Versions and Store are optional:
// without Versions every import runs, without Store the decoded feed is only
// returned.
type Importer struct {
	Versions *versions.Tracker
	Store    *mongoimport.Store
	Archive  archive.Options
}

type Result struct {
	Feed     *gtfs.Feed
	Checksum string
	// Skipped is set when the archive matched the last imported version and
	// nothing was decoded.
	Skipped bool
	Tables  map[string]mongoimport.TableStats
}

func (i *Importer) ImportDataset(ctx context.Context, dataset datasets.DataSet, force bool) (Result, error) {
	log.Info().Str("dataset", dataset.Identifier).Str("provider", dataset.Provider.Name).Msg("Importing dataset")

	loadOptions, err := dataset.LoadOptions()
	if err != nil {
		return Result{}, err
	}

	source, err := dataset.ResolvedSource()
	if err != nil {
		return Result{}, err
	}

	archiveOptions := i.Archive
	archiveOptions.Headers = dataset.RequestHeaders()

	bundle, err := archive.Fetch(ctx, source, archiveOptions)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if err := bundle.Close(); err != nil {
			log.Error().Err(err).Str("dataset", dataset.Identifier).Msg("Failed to clean up feed bundle")
		}
	}()

	result := Result{Checksum: bundle.Checksum}
	tracked := i.Versions != nil && bundle.Checksum != ""

	if tracked && !force {
		changed, err := i.Versions.Changed(ctx, dataset.Identifier, bundle.Checksum)
		if err != nil {
			return Result{}, err
		}
		if !changed {
			log.Info().Str("dataset", dataset.Identifier).Str("checksum", bundle.Checksum).Msg("Dataset unchanged, skipping")
			result.Skipped = true
			return result, nil
		}
	}

	startTime := time.Now()

	result.Feed, err = gtfs.Load(ctx, bundle.FS(), loadOptions)
	if err != nil {
		return Result{}, err
	}

	log.Info().Str("dataset", dataset.Identifier).Str("timezone", result.Feed.Timezone().String()).Dur("duration", time.Since(startTime)).Msg("Decoded dataset")

	if i.Store != nil {
		result.Tables, err = i.Store.Import(ctx, dataset.Identifier, bundle.Checksum, result.Feed)
		if err != nil {
			return Result{}, err
		}
	}

	if tracked {
		if err := i.Versions.Record(ctx, dataset.Identifier, bundle.Checksum); err != nil {
			return Result{}, err
		}
	}

	return result, nil
}
