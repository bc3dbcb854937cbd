package kvstore

import (
	"context"
	"fmt"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// OpenBackend builds the backend named by kind. path is used by sqlite and
// addr by redis.
func OpenBackend(ctx context.Context, kind, path, addr string) (Backend, error) {
	switch kind {
	case BackendSQLite, "":
		return NewSQLiteBackend(path)
	case BackendRedis:
		return NewRedisBackend(ctx, addr)
	case BackendMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", kind)
	}
}
