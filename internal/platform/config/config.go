// Package config builds the process configuration from the environment once
// at start-up. Nothing else in the module reads environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	LedgerModeEthereum = "ethereum"
	LedgerModeMemory   = "memory"

	StoreBackendPostgres = "postgres"
	StoreBackendMongo    = "mongo"
	StoreBackendMemory   = "memory"
)

// Config is the explicit configuration object handed to constructors.
type Config struct {
	Server    Server
	Ledger    Ledger
	Store     Store
	Redis     RedisConfig
	Kafka     Kafka
	Reconcile Reconcile
	// LockTTL bounds how long a provisioning lock is held if its owner dies.
	LockTTL time.Duration
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	AdminToken    string
	JWTSigningKey string
	JWTIssuer     string
	LogLevel      string
}

// Ledger selects and configures the ledger backend.
type Ledger struct {
	Mode             string
	RPCURL           string
	FactoryAddress   string
	SemaphoreAddress string
	PrivateKey       string
	ChainID          int64
	Confirmations    uint64
	ConfirmTimeout   time.Duration
	PollInterval     time.Duration
	DeployBlock      uint64
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

// Store selects the record store backend.
type Store struct {
	Backend       string
	PostgresDSN   string
	MongoURI      string
	MongoDatabase string
}

// RedisConfig configures the client used for distributed locks. An empty URL
// means locks are process-local.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka configures the audit event sink. No brokers means no sink.
type Kafka struct {
	Brokers []string
	Topic   string
}

// Reconcile configures the pending action sweeper.
type Reconcile struct {
	Interval    time.Duration
	BatchSize   int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	e := env{lookup: lookup}
	cfg := Config{
		Server: Server{
			Addr:          e.str("CONDOVOTE_ADDR", ":8080"),
			AdminToken:    e.str("ADMIN_API_TOKEN", ""),
			JWTSigningKey: e.str("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			JWTIssuer:     e.str("JWT_ISSUER", "condovote"),
			LogLevel:      e.str("LOG_LEVEL", "info"),
		},
		Ledger: Ledger{
			Mode:             strings.ToLower(e.str("LEDGER_MODE", LedgerModeMemory)),
			RPCURL:           e.str("LEDGER_RPC_URL", ""),
			FactoryAddress:   e.str("LEDGER_FACTORY_ADDRESS", ""),
			SemaphoreAddress: e.str("LEDGER_SEMAPHORE_ADDRESS", ""),
			PrivateKey:       e.str("LEDGER_PRIVATE_KEY", ""),
			ChainID:          e.int64("LEDGER_CHAIN_ID", 31337),
			Confirmations:    uint64(e.int64("LEDGER_CONFIRMATIONS", 1)),
			ConfirmTimeout:   e.duration("LEDGER_CONFIRM_TIMEOUT", 2*time.Minute),
			PollInterval:     e.duration("LEDGER_POLL_INTERVAL", time.Second),
			DeployBlock:      uint64(e.int64("LEDGER_DEPLOY_BLOCK", 0)),
			BreakerThreshold: int(e.int64("LEDGER_BREAKER_THRESHOLD", 5)),
			BreakerCooldown:  e.duration("LEDGER_BREAKER_COOLDOWN", 30*time.Second),
		},
		Store: Store{
			Backend:       strings.ToLower(e.str("STORE_BACKEND", StoreBackendMemory)),
			PostgresDSN:   e.str("DATABASE_URL", ""),
			MongoURI:      e.str("MONGO_URI", ""),
			MongoDatabase: e.str("MONGO_DATABASE", "condovote"),
		},
		Redis: RedisConfig{
			URL:          e.str("REDIS_URL", ""),
			PoolSize:     int(e.int64("REDIS_POOL_SIZE", 10)),
			MinIdleConns: int(e.int64("REDIS_MIN_IDLE_CONNS", 2)),
			DialTimeout:  e.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  e.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: e.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: Kafka{
			Brokers: e.list("KAFKA_BROKERS"),
			Topic:   e.str("KAFKA_AUDIT_TOPIC", "condovote.audit"),
		},
		Reconcile: Reconcile{
			Interval:    e.duration("RECONCILE_INTERVAL", 30*time.Second),
			BatchSize:   int(e.int64("RECONCILE_BATCH_SIZE", 50)),
			BaseBackoff: e.duration("RECONCILE_BASE_BACKOFF", 10*time.Second),
			MaxBackoff:  e.duration("RECONCILE_MAX_BACKOFF", 30*time.Minute),
		},
		LockTTL: e.duration("PROVISION_LOCK_TTL", 5*time.Minute),
	}
	if len(e.errs) > 0 {
		return Config{}, errors.Join(e.errs...)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects combinations that cannot start.
func (c Config) Validate() error {
	var errs []error
	switch c.Ledger.Mode {
	case LedgerModeMemory:
	case LedgerModeEthereum:
		if c.Ledger.RPCURL == "" {
			errs = append(errs, errors.New("LEDGER_RPC_URL is required in ethereum mode"))
		}
		if c.Ledger.FactoryAddress == "" {
			errs = append(errs, errors.New("LEDGER_FACTORY_ADDRESS is required in ethereum mode"))
		}
		if c.Ledger.SemaphoreAddress == "" {
			errs = append(errs, errors.New("LEDGER_SEMAPHORE_ADDRESS is required in ethereum mode"))
		}
		if c.Ledger.PrivateKey == "" {
			errs = append(errs, errors.New("LEDGER_PRIVATE_KEY is required in ethereum mode"))
		}
		if c.Ledger.ChainID <= 0 {
			errs = append(errs, errors.New("LEDGER_CHAIN_ID must be positive"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LEDGER_MODE %q", c.Ledger.Mode))
	}

	switch c.Store.Backend {
	case StoreBackendMemory:
	case StoreBackendPostgres:
		if c.Store.PostgresDSN == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	case StoreBackendMongo:
		if c.Store.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is required for the mongo store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend))
	}

	if c.Reconcile.Interval <= 0 || c.Reconcile.BatchSize <= 0 {
		errs = append(errs, errors.New("reconcile interval and batch size must be positive"))
	}
	if c.Reconcile.BaseBackoff <= 0 || c.Reconcile.MaxBackoff < c.Reconcile.BaseBackoff {
		errs = append(errs, errors.New("reconcile backoff must be positive and max >= base"))
	}
	if c.LockTTL <= 0 {
		errs = append(errs, errors.New("PROVISION_LOCK_TTL must be positive"))
	}
	return errors.Join(errs...)
}

type env struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (e *env) str(key, def string) string {
	if v, ok := e.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (e *env) int64(key string, def int64) int64 {
	v := e.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		e.errs = append(e.errs, fmt.Errorf("%s: invalid integer %q", key, v))
		return def
	}
	return n
}

func (e *env) duration(key string, def time.Duration) time.Duration {
	v := e.str(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: invalid duration %q", key, v))
		return def
	}
	return d
}

func (e *env) list(key string) []string {
	var out []string
	for _, part := range strings.Split(e.str(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
