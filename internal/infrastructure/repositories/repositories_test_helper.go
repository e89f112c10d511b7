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

func createRegisteredTokenTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE registered_tokens (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		symbol TEXT NOT NULL,
		contract_address TEXT NOT NULL UNIQUE,
		standard TEXT NOT NULL,
		total_supply TEXT,
		decimals INTEGER NOT NULL DEFAULT 18,
		deployer_address TEXT NOT NULL,
		deployment_tx_hash TEXT,
		deployed_at DATETIME,
		block_number INTEGER,
		mintable BOOLEAN DEFAULT 0,
		burnable BOOLEAN DEFAULT 1,
		pausable BOOLEAN DEFAULT 0,
		max_supply TEXT,
		base_uri TEXT,
		royalty_percentage REAL DEFAULT 0,
		royalty_recipient TEXT,
		ai_optimization_enabled BOOLEAN DEFAULT 1,
		quantum_resistant BOOLEAN DEFAULT 1,
		mev_protection BOOLEAN DEFAULT 1,
		holders INTEGER DEFAULT 0,
		transaction_count INTEGER DEFAULT 0,
		volume24h TEXT DEFAULT '0',
		status TEXT NOT NULL DEFAULT 'pending',
		verified BOOLEAN DEFAULT 0,
		security_score INTEGER DEFAULT 0,
		verified_at DATETIME,
		deployment_source TEXT NOT NULL DEFAULT 'token-factory',
		deployment_mode TEXT NOT NULL DEFAULT 'wallet',
		created_at DATETIME,
		updated_at DATETIME
	);`)
}
