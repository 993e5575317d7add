package redis

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"
)

// memClient is an in-memory RedisClient for unit tests.
type memClient struct {
	mu      sync.Mutex
	vals    map[string]string
	ttls    map[string]time.Duration
	failAll bool
}

var _ RedisClient = (*memClient)(nil)

func newMemClient() *memClient {
	return &memClient{vals: map[string]string{}, ttls: map[string]time.Duration{}}
}

var errDown = errors.New("redis down")

func (m *memClient) Ping(context.Context) error { return nil }

func (m *memClient) Set(_ context.Context, key string, value interface{}, exp time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return errDown
	}
	switch v := value.(type) {
	case []byte:
		m.vals[key] = string(v)
	case string:
		m.vals[key] = v
	}
	m.ttls[key] = exp
	return nil
}

func (m *memClient) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return "", errDown
	}
	v, ok := m.vals[key]
	if !ok {
		return "", Nil
	}
	return v, nil
}

func (m *memClient) Incr(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return 0, errDown
	}
	n, _ := strconv.ParseInt(m.vals[key], 10, 64)
	n++
	m.vals[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (m *memClient) Expire(_ context.Context, key string, exp time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ttls[key] = exp
	return nil
}

func (m *memClient) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return errDown
	}
	for _, k := range keys {
		delete(m.vals, k)
		delete(m.ttls, k)
	}
	return nil
}

func (m *memClient) Close() error { return nil }
