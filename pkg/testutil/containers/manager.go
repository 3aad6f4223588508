//go:build integration

// Package containers starts shared testcontainers for integration suites.
// Containers are started once per test binary and reused; Ryuk removes them
// when the process exits.
package containers

import (
	"sync"
	"testing"
)

// Manager hands out lazily started, shared containers.
type Manager struct {
	pgOnce    sync.Once
	postgres  *PostgresContainer
	pgErr     string
	redisOnce sync.Once
	redis     *RedisContainer
	redisErr  string
}

var (
	managerOnce sync.Once
	manager     *Manager
)

// GetManager returns the process-wide manager.
func GetManager() *Manager {
	managerOnce.Do(func() { manager = &Manager{} })
	return manager
}

// GetPostgres starts Postgres with the schema applied on first use.
func (m *Manager) GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	m.pgOnce.Do(func() {
		pg, err := startPostgres()
		if err != nil {
			m.pgErr = err.Error()
			return
		}
		m.postgres = pg
	})
	if m.postgres == nil {
		t.Fatalf("postgres container unavailable: %s", m.pgErr)
	}
	return m.postgres
}

// GetRedis starts Redis on first use.
func (m *Manager) GetRedis(t *testing.T) *RedisContainer {
	t.Helper()
	m.redisOnce.Do(func() {
		rc, err := startRedis()
		if err != nil {
			m.redisErr = err.Error()
			return
		}
		m.redis = rc
	})
	if m.redis == nil {
		t.Fatalf("redis container unavailable: %s", m.redisErr)
	}
	return m.redis
}
