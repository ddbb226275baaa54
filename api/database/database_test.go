package database

import (
	"errors"
	"testing"

	"github.com/lordralex/downtimepoll/api/env"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

var errRefused = errors.New("connection refused")

type refusingDialector struct {
	gorm.Dialector
	opens int
}

func (*refusingDialector) Name() string {
	return "refusing"
}

func (d *refusingDialector) Initialize(*gorm.DB) error {
	d.opens++
	return errRefused
}

type refusingDialect struct {
	dialector *refusingDialector
}

func (d *refusingDialect) Load() gorm.Dialector {
	return d.dialector
}

func TestGet_FailedOpenIsNotKept(t *testing.T) {
	dialect := &refusingDialect{dialector: &refusingDialector{}}
	dialects["refusing"] = dialect
	env.Set("database.dialect", "refusing")
	defer func() {
		delete(dialects, "refusing")
		env.Unset("database.dialect")
		Close()
	}()

	for i := 0; i < 2; i++ {
		db, err := Get()
		assert.ErrorIs(t, err, errRefused)
		assert.Nil(t, db)
		assert.Nil(t, databaseConn)
	}
	assert.Equal(t, 2, dialect.dialector.opens, "every Get retries the open")
}

func TestGet_NoDialect(t *testing.T) {
	env.Set("database.dialect", "missing")
	defer env.Unset("database.dialect")

	db, err := Get()
	assert.ErrorIs(t, err, ErrNoDialect)
	assert.Nil(t, db)
	assert.Nil(t, databaseConn)
}
