package util

import (
	"os"
	"strings"
)

// GetEnvironmentVariables snapshots the process environment.
func GetEnvironmentVariables() map[string]string {
	environmentVariables := map[string]string{}

	for _, variable := range os.Environ() {
		name, value, _ := strings.Cut(variable, "=")

		environmentVariables[name] = value
	}

	return environmentVariables
}

// GetEnvironmentFlag reports whether the variable is set to YES, the way the
// GTFS_* switches are written.
func GetEnvironmentFlag(name string) bool {
	return strings.EqualFold(os.Getenv(name), "YES")
}
