package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/threshold/pkg/domain"
	"github.com/cenkalti/backoff/v4"
	backend "github.com/redis/go-redis/v9"
)

const (
	defaultKey        = "threshold:journal"
	defaultMaxEntries = 1000
	defaultRetries    = 3
)

// Journal implements ports.Journal on a capped Redis list, newest report at the head.
type Journal struct {
	client     *backend.Client
	key        string
	maxEntries int64
	ttl        time.Duration
	retries    uint64
}

// Option configures the Redis journal.
type Option func(*Journal)

// WithKey sets the list key. Use distinct keys to keep several sites on one server.
func WithKey(key string) Option {
	return func(j *Journal) {
		if key != "" {
			j.key = key
		}
	}
}

// WithMaxEntries caps the list length.
func WithMaxEntries(n int) Option {
	return func(j *Journal) {
		if n > 0 {
			j.maxEntries = int64(n)
		}
	}
}

// WithTTL expires the whole journal after a period without appends.
func WithTTL(ttl time.Duration) Option {
	return func(j *Journal) {
		j.ttl = ttl
	}
}

// WithRetries sets how many times a failed append is retried.
func WithRetries(n uint64) Option {
	return func(j *Journal) {
		j.retries = n
	}
}

// New creates a journal connected to addr.
func New(addr string, opts ...Option) *Journal {
	return NewFromClient(backend.NewClient(&backend.Options{Addr: addr}), opts...)
}

// NewFromClient creates a journal on an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Journal {
	j := &Journal{
		client:     client,
		key:        defaultKey,
		maxEntries: defaultMaxEntries,
		retries:    defaultRetries,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Append pushes report to the head of the list and trims the tail.
// Transient failures are retried with exponential backoff.
func (j *Journal) Append(ctx context.Context, report *domain.CycleReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	op := func() error {
		pipe := j.client.TxPipeline()
		pipe.LPush(ctx, j.key, data)
		pipe.LTrim(ctx, j.key, 0, j.maxEntries-1)
		if j.ttl > 0 {
			pipe.Expire(ctx, j.key, j.ttl)
		}
		_, err := pipe.Exec(ctx)
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), j.retries),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		return fmt.Errorf("failed to append report %s: %w", report.ID, err)
	}
	return nil
}

// List returns up to limit reports, most recent first.
func (j *Journal) List(ctx context.Context, limit int) ([]domain.CycleReport, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	raw, err := j.client.LRange(ctx, j.key, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	reports := make([]domain.CycleReport, 0, len(raw))
	for _, item := range raw {
		var report domain.CycleReport
		if err := json.Unmarshal([]byte(item), &report); err != nil {
			return nil, fmt.Errorf("failed to decode report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// Ping checks the connection.
func (j *Journal) Ping(ctx context.Context) error {
	return j.client.Ping(ctx).Err()
}

// Close releases the client.
func (j *Journal) Close() error {
	return j.client.Close()
}
