package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"condovote/internal/condominium/service"
	condostore "condovote/internal/condominium/store/condominium"
	"condovote/internal/condominium/store/pending"
	userstore "condovote/internal/condominium/store/user"
	"condovote/internal/identity"
	"condovote/internal/ledger"
	"condovote/internal/platform/config"
	"condovote/internal/platform/lock"
	"condovote/internal/platform/mongodb"
	"condovote/internal/platform/postgres"
	"condovote/internal/platform/redis"
	"condovote/pkg/platform/audit"
	"condovote/pkg/platform/audit/publisher"
	"condovote/pkg/platform/audit/store/kafka"
	auditmemory "condovote/pkg/platform/audit/store/memory"
	auditpostgres "condovote/pkg/platform/audit/store/postgres"
	"condovote/pkg/platform/circuit"
)

const (
	connectTimeout = 10 * time.Second
	localLockWait  = 10 * time.Second
	auditBuffer    = 1024
)

type userStore interface {
	service.UserStore
	identity.UserStore
	identity.CommitmentStore
}

type condominiumStore interface {
	service.CondominiumStore
	identity.RosterStore
}

// dependencies are the infrastructure adapters chosen by configuration.
type dependencies struct {
	condos    condominiumStore
	users     userStore
	pending   service.PendingStore
	registry  *identity.Registry
	ledger    service.Ledger
	locker    service.Locker
	publisher *publisher.Publisher
	checks    map[string]func(context.Context) error
	closers   []func()
}

func (d *dependencies) close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

func wire(ctx context.Context, cfg config.Config, log *slog.Logger) (_ *dependencies, err error) {
	deps := &dependencies{checks: make(map[string]func(context.Context) error)}
	defer func() {
		if err != nil {
			deps.close()
		}
	}()

	auditStore, err := openStores(ctx, cfg, deps)
	if err != nil {
		return nil, err
	}
	deps.registry = identity.NewRegistry(deps.users, deps.condos)

	if deps.ledger, err = openLedger(ctx, cfg.Ledger, log); err != nil {
		return nil, err
	}

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	if rdb != nil {
		deps.closers = append(deps.closers, func() { _ = rdb.Close() })
		deps.checks["redis"] = rdb.Health
		deps.locker = lock.NewRedis(rdb.Client, cfg.LockTTL)
	} else {
		deps.locker = lock.NewLocal(localLockWait)
	}

	pubOpts := []publisher.Option{publisher.WithAsyncBuffer(auditBuffer), publisher.WithLogger(log)}
	if len(cfg.Kafka.Brokers) > 0 {
		client, err := kafka.NewClient(cfg.Kafka.Brokers)
		if err != nil {
			return nil, err
		}
		deps.closers = append(deps.closers, client.Close)
		if err := kafka.EnsureTopic(ctx, client, cfg.Kafka.Topic, 3, 1); err != nil {
			log.Warn("audit topic bootstrap failed", "topic", cfg.Kafka.Topic, "error", err)
		}
		pubOpts = append(pubOpts, publisher.WithSink(kafka.NewSink(client, cfg.Kafka.Topic)))
	}
	deps.publisher = publisher.NewPublisher(auditStore, pubOpts...)
	deps.closers = append(deps.closers, deps.publisher.Close)
	return deps, nil
}

// openStores selects the record store backend and returns the matching
// audit store.
func openStores(ctx context.Context, cfg config.Config, deps *dependencies) (audit.Store, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		db, err := postgres.Open(ctx, cfg.Store.PostgresDSN)
		if err != nil {
			return nil, err
		}
		deps.closers = append(deps.closers, func() { _ = db.Close() })
		deps.checks["postgres"] = db.PingContext
		if err := postgres.Migrate(ctx, db); err != nil {
			return nil, err
		}
		deps.condos = condostore.NewPostgres(db)
		deps.users = userstore.NewPostgres(db)
		deps.pending = pending.NewPostgres(db)
		return auditpostgres.New(db), nil

	case config.StoreBackendMongo:
		client, db, err := mongodb.Connect(ctx, cfg.Store.MongoURI, cfg.Store.MongoDatabase, connectTimeout)
		if err != nil {
			return nil, err
		}
		deps.closers = append(deps.closers, func() { _ = client.Disconnect(context.Background()) })
		deps.checks["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			return nil, err
		}
		deps.condos = condostore.NewMongo(db)
		deps.users = userstore.NewMongo(db)
		deps.pending = pending.NewMongo(db)
		return auditmemory.NewInMemoryStore(), nil

	default:
		deps.condos = condostore.NewInMemory()
		deps.users = userstore.NewInMemory()
		deps.pending = pending.NewInMemory()
		return auditmemory.NewInMemoryStore(), nil
	}
}

func openLedger(ctx context.Context, cfg config.Ledger, log *slog.Logger) (service.Ledger, error) {
	if cfg.Mode != config.LedgerModeEthereum {
		log.Warn("using the in-memory ledger; votes are not anchored on chain")
		return ledger.NewInMemory(), nil
	}
	backend, err := ledger.Dial(ctx, cfg.RPCURL)
	if err != nil {
		return nil, err
	}
	breaker := circuit.New("ledger",
		circuit.WithFailureThreshold(cfg.BreakerThreshold),
		circuit.WithCooldown(cfg.BreakerCooldown),
	)
	client, err := ledger.NewEthClient(backend, ledger.Config{
		FactoryAddress:   cfg.FactoryAddress,
		SemaphoreAddress: cfg.SemaphoreAddress,
		PrivateKeyHex:    cfg.PrivateKey,
		ChainID:          cfg.ChainID,
		Confirmations:    cfg.Confirmations,
		ConfirmTimeout:   cfg.ConfirmTimeout,
		PollInterval:     cfg.PollInterval,
		DeployBlock:      cfg.DeployBlock,
	}, ledger.WithLogger(log), ledger.WithBreaker(breaker))
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("ledger client: %w", err)
	}
	return client, nil
}
