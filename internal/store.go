package internal

import (
	"context"
	"time"
)

// Backend is a string key/value store that reports its failures
type Backend interface {
	Name() string
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

const defaultStoreTimeout = 5 * time.Second

// Store is the best-effort view over a Backend. None of its methods fail:
// backend errors are logged at debug level and turn into misses or dropped writes.
type Store struct {
	backend Backend
	timeout time.Duration
}

// NewStore wraps a backend
func NewStore(backend Backend) *Store {
	return &Store{backend: backend, timeout: defaultStoreTimeout}
}

// Backend returns the wrapped backend
func (s *Store) Backend() Backend {
	return s.backend
}

func (s *Store) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// Read returns the stored value and whether it was present
func (s *Store) Read(key string) (value string, ok bool) {
	if s == nil || s.backend == nil {
		return "", false
	}
	defer func() {
		if r := recover(); r != nil {
			LogDebug("store read %s recovered: %v", key, r)
			value, ok = "", false
		}
	}()

	ctx, cancel := s.ctx()
	defer cancel()
	value, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		LogDebug("%v", &StorageError{Backend: s.backend.Name(), Op: "get", Key: key, Err: err})
		return "", false
	}
	return value, ok
}

// Write stores value under key, dropping the write on failure
func (s *Store) Write(key, value string) {
	if s == nil || s.backend == nil {
		return
	}
	defer s.recoverOp("set", key)

	ctx, cancel := s.ctx()
	defer cancel()
	if err := s.backend.Set(ctx, key, value); err != nil {
		LogDebug("%v", &StorageError{Backend: s.backend.Name(), Op: "set", Key: key, Err: err})
	}
}

// Remove deletes key, dropping the removal on failure
func (s *Store) Remove(key string) {
	if s == nil || s.backend == nil {
		return
	}
	defer s.recoverOp("delete", key)

	ctx, cancel := s.ctx()
	defer cancel()
	if err := s.backend.Delete(ctx, key); err != nil {
		LogDebug("%v", &StorageError{Backend: s.backend.Name(), Op: "delete", Key: key, Err: err})
	}
}

// ListKeys returns the keys starting with prefix, or nil on failure
func (s *Store) ListKeys(prefix string) (keys []string) {
	if s == nil || s.backend == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			LogDebug("store keys %s recovered: %v", prefix, r)
			keys = nil
		}
	}()

	ctx, cancel := s.ctx()
	defer cancel()
	keys, err := s.backend.Keys(ctx, prefix)
	if err != nil {
		LogDebug("%v", &StorageError{Backend: s.backend.Name(), Op: "keys", Key: prefix, Err: err})
		return nil
	}
	return keys
}

// Close closes the backend
func (s *Store) Close() error {
	if s == nil || s.backend == nil {
		return nil
	}
	return s.backend.Close()
}

func (s *Store) recoverOp(op, key string) {
	if r := recover(); r != nil {
		LogDebug("store %s %s recovered: %v", op, key, r)
	}
}
