package redis_client

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/travigo/gtfs-loader/pkg/util"
)

var Client *redis.Client

const defaultConnectionAddress = "localhost:6379"
const defaultConnectionPassword = ""
const defaultDatabase = 0

// Options reads the GTFS_REDIS_* environment variables.
func Options() (*redis.Options, error) {
	address := defaultConnectionAddress
	password := defaultConnectionPassword
	database := defaultDatabase

	env := util.GetEnvironmentVariables()

	if env["GTFS_REDIS_ADDRESS"] != "" {
		address = env["GTFS_REDIS_ADDRESS"]
	}

	if env["GTFS_REDIS_PASSWORD"] != "" {
		password = env["GTFS_REDIS_PASSWORD"]
	}

	if env["GTFS_REDIS_DATABASE"] != "" {
		if n, err := strconv.Atoi(env["GTFS_REDIS_DATABASE"]); err == nil {
			database = n
		} else {
			return nil, err
		}
	}

	return &redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	}, nil
}

func Connect() error {
	options, err := Options()
	if err != nil {
		return err
	}

	Client = redis.NewClient(options)

	return Client.Ping(context.Background()).Err()
}
