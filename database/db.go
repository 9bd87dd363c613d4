/*
Copyright 2024 Noba Payments Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package database

import (
	"database/sql"
	"embed"
	"sync"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/sirupsen/logrus"

	"github.com/noba/transaction-intake/config"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Datasource wraps the PostgreSQL connection pool. One instance is shared
// process-wide.
type Datasource struct {
	Conn *sql.DB
}

var (
	instance *Datasource
	once     sync.Once
)

func NewDataSource(configuration *config.Configuration) (Repository, error) {
	return getDBConnection(configuration)
}

// getDBConnection initializes the shared connection on first use.
func getDBConnection(configuration *config.Configuration) (*Datasource, error) {
	var err error
	once.Do(func() {
		conn, errConn := ConnectDB(configuration.DataSource.Dns)
		if errConn != nil {
			err = errConn
			return
		}
		instance = &Datasource{Conn: conn}
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

// OpenDB opens the pool and verifies connectivity without touching the
// schema.
func OpenDB(dns string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dns)
	if err != nil {
		return nil, errors.Wrap(err, "opening database connection")
	}
	if err := db.Ping(); err != nil {
		logrus.WithError(err).Error("database connection failed")
		return nil, errors.Wrap(err, "pinging database")
	}
	return db, nil
}

// ConnectDB opens the pool and applies any pending migrations.
func ConnectDB(dns string) (*sql.DB, error) {
	db, err := OpenDB(dns)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// MigrationSource exposes the embedded schema migrations.
func MigrationSource() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{FileSystem: migrationFiles, Root: "migrations"}
}

// RunMigrations applies the embedded schema migrations in order.
func RunMigrations(db *sql.DB) error {
	applied, err := migrate.Exec(db, "postgres", MigrationSource(), migrate.Up)
	if err != nil {
		return errors.Wrap(err, "running database migrations")
	}
	if applied > 0 {
		logrus.WithField("applied", applied).Info("database migrations applied")
	}
	return nil
}
