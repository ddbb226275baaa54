package storage

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Needs a MySQL DSN, e.g. "discord:discord@/discord_test?parseTime=True".
func TestDatabaseStore(t *testing.T) {
	dsn := os.Getenv("DOWNTIMEPOLL_TEST_DATABASE")
	if dsn == "" {
		t.Skip("DOWNTIMEPOLL_TEST_DATABASE not set")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	testStore(t, NewDatabaseStore(db), fmt.Sprintf("t%d-", time.Now().UnixNano()))
}
