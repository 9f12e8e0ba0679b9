// Package sessions хранит отозванные токены и кэш справочников. Основная реализация
// на Redis, запасная в памяти процесса.
package sessions

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss — ключа нет в кэше или срок его жизни истёк.
var ErrCacheMiss = errors.New("cache miss")

// RevocationStore помнит идентификаторы (jti) отозванных токенов до истечения их срока.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Cache — кэш JSON-сериализуемых значений.
type Cache interface {
	Get(ctx context.Context, key string, dst interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Store объединяет оба интерфейса: одна реализация обслуживает и токены, и кэш.
type Store interface {
	RevocationStore
	Cache
	Ping(ctx context.Context) error
	Close() error
}

const (
	revokedPrefix = "revoked:"
	cachePrefix   = "cache:"
)
