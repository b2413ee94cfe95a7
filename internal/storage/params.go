package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"pagebuilder/internal/domain"
)

// Driver selects the backing store for page slots.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverMySQL    Driver = "mysql"
	DriverMongoDB  Driver = "mongodb"
	DriverFile     Driver = "file"
)

// Params describes how to reach a slot store. Only the fields relevant to
// the chosen driver are read.
type Params struct {
	Driver   Driver
	Path     string // sqlite database file, or directory for the file driver
	URI      string // full connection string; overrides the discrete fields
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// Open connects to the slot store described by p.
func Open(ctx context.Context, p Params, log *zap.Logger) (domain.SlotStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("storage").With(zap.String("driver", string(p.Driver)))

	var (
		store domain.SlotStore
		err   error
	)
	switch p.Driver {
	case DriverSQLite, "":
		store, err = New(p.Path)
	case DriverPostgres:
		dsn := p.URI
		if dsn == "" {
			dsn = buildPostgresDSN(p)
		}
		store, err = NewSQL("postgres", dsn, postgresDialect)
	case DriverMySQL:
		dsn := p.URI
		if dsn == "" {
			dsn = buildMySQLDSN(p)
		}
		store, err = NewSQL("mysql", dsn, mysqlDialect)
	case DriverMongoDB:
		store, err = NewMongo(ctx, p, log)
	case DriverFile:
		store, err = NewFileSlots(p.Path)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", p.Driver)
	}
	if err != nil {
		return nil, err
	}
	log.Info("slot store opened")
	return store, nil
}
