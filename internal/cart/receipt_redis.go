package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultReceiptTTL = 24 * time.Hour
	maxReceiptJitter  = 60 // minutes
)

type RedisReceiptStore struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisReceiptStore(client *redis.Client, ttl time.Duration) *RedisReceiptStore {
	if ttl <= 0 {
		ttl = defaultReceiptTTL
	}
	return &RedisReceiptStore{client: client, baseTTL: ttl}
}

func (s *RedisReceiptStore) Save(ctx context.Context, r Receipt) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal receipt failed: %w", err)
	}

	ttl := s.baseTTL + time.Duration(rand.Intn(maxReceiptJitter))*time.Minute
	listKey := receiptListKey(r.CustomerID)

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, receiptKey(r.CustomerID, r.ID), payload, ttl)
		p.RPush(ctx, listKey, r.ID)
		p.Expire(ctx, listKey, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save receipt failed: %w", err)
	}
	return nil
}

func (s *RedisReceiptStore) Get(ctx context.Context, customerID, id string) (Receipt, error) {
	data, err := s.client.Get(ctx, receiptKey(customerID, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Receipt{}, ErrReceiptNotFound
	}
	if err != nil {
		return Receipt{}, fmt.Errorf("redis get receipt failed: %w", err)
	}

	var r Receipt
	if err := json.Unmarshal(data, &r); err != nil {
		return Receipt{}, fmt.Errorf("unmarshal receipt failed: %w", err)
	}
	return r, nil
}

func (s *RedisReceiptStore) List(ctx context.Context, customerID string) ([]string, error) {
	ids, err := s.client.LRange(ctx, receiptListKey(customerID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list receipts failed: %w", err)
	}
	return ids, nil
}

func (s *RedisReceiptStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Key segments are query-escaped so a ':' inside a customer id cannot make two
// customers share a key.
func receiptKey(customerID, id string) string {
	return fmt.Sprintf("receipt:%s:%s", url.QueryEscape(customerID), url.QueryEscape(id))
}

func receiptListKey(customerID string) string {
	return fmt.Sprintf("receipts:%s", url.QueryEscape(customerID))
}
