package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := fromLookup(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, LedgerModeMemory, cfg.Ledger.Mode)
	assert.Equal(t, StoreBackendMemory, cfg.Store.Backend)
	assert.Equal(t, uint64(1), cfg.Ledger.Confirmations)
	assert.Equal(t, 2*time.Minute, cfg.Ledger.ConfirmTimeout)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, 5*time.Minute, cfg.LockTTL)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := fromLookup(lookupFrom(map[string]string{
		"LEDGER_MODE":              "Ethereum",
		"LEDGER_RPC_URL":           "http://localhost:8545",
		"LEDGER_FACTORY_ADDRESS":   "0x00000000000000000000000000000000000000f1",
		"LEDGER_SEMAPHORE_ADDRESS": "0x00000000000000000000000000000000000000f2",
		"LEDGER_PRIVATE_KEY":       "0xabc",
		"LEDGER_CONFIRMATIONS":     "3",
		"STORE_BACKEND":            "postgres",
		"DATABASE_URL":             "postgres://localhost/condovote",
		"KAFKA_BROKERS":            "k1:9092, k2:9092,",
		"RECONCILE_INTERVAL":       "1m",
	}))
	require.NoError(t, err)

	assert.Equal(t, LedgerModeEthereum, cfg.Ledger.Mode)
	assert.Equal(t, uint64(3), cfg.Ledger.Confirmations)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, time.Minute, cfg.Reconcile.Interval)
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	t.Run("malformed duration", func(t *testing.T) {
		_, err := fromLookup(lookupFrom(map[string]string{"LEDGER_CONFIRM_TIMEOUT": "soon"}))
		assert.ErrorContains(t, err, "LEDGER_CONFIRM_TIMEOUT")
	})

	t.Run("ethereum mode without endpoints", func(t *testing.T) {
		_, err := fromLookup(lookupFrom(map[string]string{"LEDGER_MODE": "ethereum"}))
		assert.ErrorContains(t, err, "LEDGER_RPC_URL")
		assert.ErrorContains(t, err, "LEDGER_PRIVATE_KEY")
	})

	t.Run("postgres without dsn", func(t *testing.T) {
		_, err := fromLookup(lookupFrom(map[string]string{"STORE_BACKEND": "postgres"}))
		assert.ErrorContains(t, err, "DATABASE_URL")
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := fromLookup(lookupFrom(map[string]string{"STORE_BACKEND": "sqlite"}))
		assert.ErrorContains(t, err, "sqlite")
	})
}
