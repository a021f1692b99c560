package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupReceiptRedis(t *testing.T) (*RedisReceiptStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisReceiptStore(client, time.Hour), mr
}

func sampleReceipt(t *testing.T, customerID string) Receipt {
	t.Helper()

	c := NewCart(customerID)
	require.NoError(t, c.AddItem(NewProduct(1, "Teclado"), price("49.90"), 2))
	require.NoError(t, c.AddItem(NewProduct(2, "Mouse"), price("19.90"), 1))
	return NewReceipt(c.Snapshot(), time.Now())
}

func TestRedisReceiptStore_SaveAndGet(t *testing.T) {
	store, mr := setupReceiptRedis(t)
	ctx := context.Background()
	r := sampleReceipt(t, "user123")

	require.NoError(t, store.Save(ctx, r))
	assert.True(t, mr.Exists(receiptKey("user123", r.ID)))

	got, err := store.Get(ctx, "user123", r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
	assert.Len(t, got.Items, 2)
	assert.True(t, dec("119.70").Equal(got.Total))
	assert.Equal(t, "Teclado", got.Items[0].Product.Description)
}

func TestRedisReceiptStore_TTL(t *testing.T) {
	store, mr := setupReceiptRedis(t)
	r := sampleReceipt(t, "user456")

	require.NoError(t, store.Save(context.Background(), r))

	ttl := mr.TTL(receiptKey("user456", r.ID))
	assert.True(t, ttl >= time.Hour, "ttl should be at least base ttl, got %s", ttl)
	assert.True(t, ttl < 2*time.Hour, "ttl should be base + max jitter, got %s", ttl)
}

func TestRedisReceiptStore_ListKeepsOrder(t *testing.T) {
	store, _ := setupReceiptRedis(t)
	ctx := context.Background()
	first := sampleReceipt(t, "user789")
	second := sampleReceipt(t, "user789")

	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	ids, err := store.List(ctx, "user789")
	require.NoError(t, err)
	assert.Equal(t, []string{first.ID, second.ID}, ids)

	ids, err = store.List(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRedisReceiptStore_Miss(t *testing.T) {
	store, _ := setupReceiptRedis(t)

	_, err := store.Get(context.Background(), "user123", "r_missing")
	assert.ErrorIs(t, err, ErrReceiptNotFound)
}

func TestRedisReceiptStore_ScopedByCustomer(t *testing.T) {
	store, _ := setupReceiptRedis(t)
	ctx := context.Background()
	r := sampleReceipt(t, "owner")
	require.NoError(t, store.Save(ctx, r))

	_, err := store.Get(ctx, "intruder", r.ID)
	assert.ErrorIs(t, err, ErrReceiptNotFound)
}

func TestRedisReceiptStore_InvalidJSON(t *testing.T) {
	store, mr := setupReceiptRedis(t)
	require.NoError(t, mr.Set(receiptKey("user123", "r_bad"), `{"id":`))

	_, err := store.Get(context.Background(), "user123", "r_bad")
	require.ErrorContains(t, err, "unmarshal receipt failed")
}

func TestRedisReceiptStore_PingFailsWhenDown(t *testing.T) {
	store, mr := setupReceiptRedis(t)
	require.NoError(t, store.Ping(context.Background()))

	mr.Close()
	assert.Error(t, store.Ping(context.Background()))
}

func TestMemReceiptStore(t *testing.T) {
	store := NewMemReceiptStore()
	ctx := context.Background()
	r := sampleReceipt(t, "c1")

	require.NoError(t, store.Save(ctx, r))

	got, err := store.Get(ctx, "c1", r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)

	_, err = store.Get(ctx, "c2", r.ID)
	assert.ErrorIs(t, err, ErrReceiptNotFound)

	ids, err := store.List(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{r.ID}, ids)
}

func TestReceiptKeyFormat(t *testing.T) {
	assert.Equal(t, "receipt:c1:r_1", receiptKey("c1", "r_1"))
	assert.Equal(t, "receipts:c1", receiptListKey("c1"))
}

func TestReceiptKey_ColonInCustomerID(t *testing.T) {
	assert.NotEqual(t, receiptKey("a:b", "c"), receiptKey("a", "b:c"))
	assert.Equal(t, "receipt:a%3Ab:c", receiptKey("a:b", "c"))
	assert.Equal(t, "receipts:a%3Ab", receiptListKey("a:b"))

	store, _ := setupReceiptRedis(t)
	ctx := context.Background()
	r := sampleReceipt(t, "a:b")
	require.NoError(t, store.Save(ctx, r))

	_, err := store.Get(ctx, "a", "b:"+r.ID)
	assert.ErrorIs(t, err, ErrReceiptNotFound)

	ids, err := store.List(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, ids)

	got, err := store.Get(ctx, "a:b", r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
}
