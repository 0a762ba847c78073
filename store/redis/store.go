// Package redis is a store.Store on Redis. Each account is one list of
// JSON-encoded records; RPUSH appends atomically and LRANGE reads the list
// in append order.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/xraph/carbon/record"
	"github.com/xraph/carbon/store"
)

// DefaultPrefix is the key prefix used when none is configured.
const DefaultPrefix = "carbon:ledger:"

// compile-time interface check
var _ store.Store = (*Store)(nil)

// Store implements store.Store on a go-redis client.
type Store struct {
	client redis.UniversalClient
	prefix string
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets the key prefix for account lists.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// New creates a store over client. The store owns the client and closes it
// in Close.
func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Client returns the underlying redis client.
func (s *Store) Client() redis.UniversalClient { return s.client }

func (s *Store) key(account string) string {
	return s.prefix + account
}

// Append pushes rec onto the tail of its account's list.
func (s *Store) Append(ctx context.Context, rec record.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("carbon/redis: encode record: %w", err)
	}
	if err := s.client.RPush(ctx, s.key(rec.Account), data).Err(); err != nil {
		return fmt.Errorf("carbon/redis: append: %w", err)
	}
	return nil
}

// History reads the account's whole list.
func (s *Store) History(ctx context.Context, account string) ([]record.Record, error) {
	raw, err := s.client.LRange(ctx, s.key(account), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("carbon/redis: history: %w", err)
	}

	result := make([]record.Record, len(raw))
	for i, item := range raw {
		if err := json.Unmarshal([]byte(item), &result[i]); err != nil {
			return nil, fmt.Errorf("carbon/redis: decode record %d of %q: %w", i, account, err)
		}
	}
	return result, nil
}

// Migrate is a no-op; lists are created by the first RPUSH.
func (s *Store) Migrate(_ context.Context) error {
	return nil
}

// Ping checks server connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}
