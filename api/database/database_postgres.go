//go:build databases.postgres || databases.all
// +build databases.postgres databases.all

package database

import (
	"github.com/lordralex/downtimepoll/api/env"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Postgres struct {
	Dialect
}

func (*Postgres) Load() gorm.Dialector {
	connString := env.Get("database.url")

	if connString == "" {
		connString = "host=localhost user=discord password=discord dbname=discord sslmode=disable"
	}

	return postgres.Open(connString)
}

func init() {
	dialects["postgres"] = &Postgres{}
}
