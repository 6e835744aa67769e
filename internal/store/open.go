package store

import (
	"fmt"
	"strings"

	"github.com/yungbote/maiopinion/internal/platform/logger"
)

type Options struct {
	Driver      string
	CSVPath     string
	SQLitePath  string
	PostgresDSN string
}

// Open returns the configured store. The CSV file is the default.
func Open(opts Options, log *logger.Logger) (PatientStore, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", DriverCSV:
		return NewCSVStore(opts.CSVPath, log), nil
	case DriverSQLite:
		return OpenGorm(DriverSQLite, opts.SQLitePath, log)
	case DriverPostgres:
		return OpenGorm(DriverPostgres, opts.PostgresDSN, log)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", opts.Driver)
	}
}
