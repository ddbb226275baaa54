package database

import (
	"errors"
	"github.com/lordralex/downtimepoll/api/env"
	"github.com/lordralex/downtimepoll/api/logger"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"sync"
	"time"
)

// Dialect opens the gorm dialector for one SQL backend. Backends register
// themselves from build-tagged files.
type Dialect interface {
	Load() gorm.Dialector
}

var ErrNoDialect = errors.New("no database dialect available")

var dialects = make(map[string]Dialect)
var databaseConn *gorm.DB
var locker sync.Mutex

// Get returns the shared connection, opening it on first use. A failed open is
// not kept, the next call tries again.
func Get() (*gorm.DB, error) {
	locker.Lock()
	defer locker.Unlock()
	if databaseConn != nil {
		return databaseConn, nil
	}

	db, err := load()
	if err != nil {
		return nil, err
	}
	databaseConn = db
	return databaseConn, nil
}

func Close() {
	locker.Lock()
	defer locker.Unlock()
	if databaseConn == nil {
		return
	}
	if sqlDb, err := databaseConn.DB(); err == nil {
		_ = sqlDb.Close()
	}
	databaseConn = nil
}

func load() (*gorm.DB, error) {
	name := env.GetOr("database.dialect", "mysql")
	dialect, exists := dialects[name]
	if !exists {
		return nil, ErrNoDialect
	}

	gormLog := gormlogger.New(logger.Debug(), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
	if env.GetBool("database.debug") {
		gormLog = gormLog.LogMode(gormlogger.Info)
	}

	db, err := gorm.Open(dialect.Load(), &gorm.Config{Logger: gormLog, TranslateError: true})
	if err != nil {
		return nil, err
	}

	sqlDb, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDb.SetConnMaxLifetime(time.Second * 10)
	sqlDb.SetMaxIdleConns(0)
	sqlDb.SetMaxOpenConns(env.GetIntOr("database.connections", 10))
	return db, nil
}
