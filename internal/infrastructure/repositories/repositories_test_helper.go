package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createMerchantTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE merchants (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		public_id TEXT NOT NULL UNIQUE,
		country_code TEXT DEFAULT 'USA',
		state TEXT,
		encrypted_braintree_access_token TEXT,
		encrypted_braintree_refresh_token TEXT,
		braintree_id TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}
