package dataimporter

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/gtfs-loader/pkg/database"
	"github.com/travigo/gtfs-loader/pkg/dataimporter/archive"
	"github.com/travigo/gtfs-loader/pkg/dataimporter/datasets"
	"github.com/travigo/gtfs-loader/pkg/dataimporter/export"
	"github.com/travigo/gtfs-loader/pkg/dataimporter/mongoimport"
	"github.com/travigo/gtfs-loader/pkg/dataimporter/versions"
	"github.com/travigo/gtfs-loader/pkg/gtfs"
	"github.com/travigo/gtfs-loader/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

const defaultDatasourcesDir = "data/datasources/"

func sourceFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		&cli.StringFlag{
			Name:     "source",
			Usage:    "Feed directory, .zip file or http(s) URL of a .zip file",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "timezone",
			Usage: "Timezone for stop times when the feed has no agency",
		},
		&cli.StringSliceFlag{
			Name:  "require",
			Usage: "Table file that must be present, can be repeated",
		},
		&cli.BoolFlag{
			Name:  "lenient-header",
			Usage: "Ignore unrecognised header columns",
		},
	)
}

func datasourcesFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "datasources",
		Usage: "Directory of data source definitions",
		Value: defaultDatasourcesDir,
	}
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "data-importer",
		Usage: "Decode GTFS schedule feeds and import them",
		Subcommands: []*cli.Command{
			{
				Name:  "load",
				Usage: "Decode a feed and report the records of every table",
				Flags: sourceFlags(),
				Action: func(c *cli.Context) error {
					result, err := loadSource(c)
					if err != nil {
						return err
					}

					for _, file := range gtfs.TableFiles {
						rows, _ := export.TableRows(result.Feed, file)
						fmt.Fprintf(c.App.Writer, "%-20s %d\n", file, rowCount(rows))
					}
					fmt.Fprintf(c.App.Writer, "%-20s %s\n", "timezone", result.Feed.Timezone())

					return nil
				},
			},
			{
				Name:  "dump",
				Usage: "Print the records of one table",
				Flags: sourceFlags(
					&cli.StringFlag{
						Name:     "table",
						Usage:    "Table file to print, for example stops.txt",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format, text or json",
						Value: string(DumpFormatText),
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of records to print",
					},
					&cli.BoolFlag{
						Name:  "detailed",
						Usage: "Include optional columns in json output",
					},
				),
				Action: func(c *cli.Context) error {
					if !gtfs.IsTableFile(c.String("table")) {
						return fmt.Errorf("unknown table %q", c.String("table"))
					}

					result, err := loadSource(c)
					if err != nil {
						return err
					}

					return Dump(c.App.Writer, result.Feed, c.String("table"), DumpOptions{
						Format:   DumpFormat(c.String("format")),
						Limit:    c.Int("limit"),
						Detailed: c.Bool("detailed"),
					})
				},
			},
			{
				Name:  "export",
				Usage: "Decode a feed and write it back out as CSV files",
				Flags: sourceFlags(
					&cli.StringFlag{
						Name:     "output",
						Usage:    "Directory to write the table files to",
						Required: true,
					},
				),
				Action: func(c *cli.Context) error {
					result, err := loadSource(c)
					if err != nil {
						return err
					}

					return export.WriteDirectory(result.Feed, c.String("output"))
				},
			},
			{
				Name:  "list",
				Usage: "List the registered datasets",
				Flags: []cli.Flag{datasourcesFlag()},
				Action: func(c *cli.Context) error {
					registry, err := datasets.LoadDirectory(c.String("datasources"))
					if err != nil {
						return err
					}

					for _, dataset := range registry.All() {
						fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\n", dataset.Identifier, dataset.Provider.Name, dataset.Source)
					}

					return nil
				},
			},
			{
				Name:  "dataset",
				Usage: "Import a registered dataset",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "ID of the dataset",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "repeat-every",
						Usage:    "Repeat this import every duration, for example 6h",
						Required: false,
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Import even when the archive is unchanged",
					},
					&cli.BoolFlag{
						Name:  "refresh",
						Usage: "Repeat this import at the refresh interval of the dataset",
					},
					&cli.BoolFlag{
						Name:  "mongo",
						Usage: "Write the decoded tables to MongoDB and track versions in Redis",
					},
					datasourcesFlag(),
				},
				Action: func(c *cli.Context) error {
					registry, err := datasets.LoadDirectory(c.String("datasources"))
					if err != nil {
						return err
					}

					dataset, err := registry.Get(c.String("id"))
					if err != nil {
						return err
					}

					importer := &Importer{
						Archive: archiveOptions(),
					}

					if c.Bool("mongo") {
						if err := database.ConnectMongoDB(); err != nil {
							return err
						}
						defer database.Disconnect(c.Context)

						if err := redis_client.Connect(); err != nil {
							log.Fatal().Err(err).Msg("Failed to connect to Redis")
						}

						importer.Store = mongoimport.NewStore()
						importer.Versions = versions.NewTracker(redis_client.Client, 0)
					}

					forceImport := c.Bool("force")

					repeatEvery := c.String("repeat-every")
					repeat := repeatEvery != "" || c.Bool("refresh")
					var repeatDuration time.Duration
					if repeatEvery != "" {
						repeatDuration, err = time.ParseDuration(repeatEvery)
						if err != nil {
							return err
						}
					} else if repeat {
						if dataset.RefreshInterval <= 0 {
							return fmt.Errorf("dataset %s has no refresh interval", dataset.Identifier)
						}
						repeatDuration = dataset.RefreshInterval
					}

					for {
						startTime := time.Now()

						result, err := importer.ImportDataset(c.Context, dataset, forceImport)
						if err != nil {
							return err
						}
						if !result.Skipped {
							log.Info().Str("dataset", dataset.Identifier).Str("checksum", result.Checksum).Msg("Dataset imported")
						}

						if !repeat {
							break
						}

						executionDuration := time.Since(startTime)
						log.Info().Msgf("Operation took %s", executionDuration.String())

						waitTime := repeatDuration - executionDuration

						if waitTime.Seconds() > 0 {
							select {
							case <-c.Context.Done():
								return c.Context.Err()
							case <-time.After(waitTime):
							}
						}

						forceImport = false
					}

					return nil
				},
			},
		},
	}
}

// loadSource decodes the feed named by the source flags.
func loadSource(c *cli.Context) (Result, error) {
	dataset := datasets.DataSet{
		Identifier:    "command-line",
		Source:        c.String("source"),
		Timezone:      c.String("timezone"),
		RequiredFiles: c.StringSlice("require"),
		LenientHeader: c.Bool("lenient-header"),
	}

	importer := &Importer{
		Archive: archiveOptions(),
	}

	return importer.ImportDataset(c.Context, dataset, true)
}

func archiveOptions() archive.Options {
	return archive.Options{TempDir: os.Getenv("GTFS_TEMP_DIR")}
}
