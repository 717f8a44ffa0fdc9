package tonindexer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "", 5*time.Second, zap.NewNop()), srv
}

func TestListRecentTransactionsFlattensTransfers(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/accounts/0:wallet/events", r.URL.Path)
		fmt.Fprint(w, `{
			"events": [
				{
					"event_id": "ev1",
					"timestamp": 1700000000,
					"is_scam": false,
					"actions": [
						{"type": "TonTransfer", "TonTransfer": {
							"sender": {"address": "0:abc"},
							"amount": 2000000000,
							"comment": "abc123"
						}},
						{"type": "NftItemTransfer"}
					]
				},
				{
					"event_id": "ev2",
					"timestamp": 1700000100,
					"is_scam": true,
					"actions": [
						{"type": "TonTransfer", "TonTransfer": {
							"sender": {"address": "0:bad"},
							"amount": 1,
							"comment": "scam"
						}}
					]
				}
			]
		}`)
	})

	txs := c.ListRecentTransactions(context.Background(), "0:wallet", 100, 1)

	require.Len(t, txs, 1)
	assert.Equal(t, "ev1", txs[0].Hash)
	assert.Equal(t, int64(2_000_000_000), txs[0].AmountNano)
	assert.Equal(t, "abc123", txs[0].Comment)
	assert.Equal(t, "0:abc", txs[0].SenderAddress)
	assert.Equal(t, int64(1700000000), txs[0].Timestamp)
}

func TestListRecentTransactionsSoftFailsToEmpty(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	txs := c.ListRecentTransactions(context.Background(), "0:wallet", 100, 1)
	assert.Empty(t, txs)
}

func TestListRecentTransactionsCachesResult(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"events": [{"event_id": "ev1", "timestamp": 1, "actions": [
			{"type": "TonTransfer", "TonTransfer": {"sender": {"address": "0:a"}, "amount": 5, "comment": ""}}
		]}]}`)
	})

	first := c.ListRecentTransactions(context.Background(), "0:wallet", 100, 1)
	second := c.ListRecentTransactions(context.Background(), "0:wallet", 100, 1)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestCheckConfirmation(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/blockchain/transactions/tx1", r.URL.Path)
		fmt.Fprint(w, `{"hash": "tx1", "success": true}`)
	})

	conf := c.CheckConfirmation(context.Background(), "tx1", time.Second)
	assert.True(t, conf.OK)
	assert.True(t, conf.IsConfirmed)
}

func TestCheckConfirmationUnreachable(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	conf := c.CheckConfirmation(context.Background(), "tx1", 100*time.Millisecond)
	assert.False(t, conf.OK)
	assert.False(t, conf.IsConfirmed)
}

func TestGetBalance(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"address": "0:wallet", "balance": 123456789, "status": "active"}`)
	})

	balance, err := c.GetBalance(context.Background(), "0:wallet")
	require.NoError(t, err)
	assert.Equal(t, int64(123456789), balance)
}

func TestHealthCheck(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"address": "0:wallet", "balance": 1, "status": "active"}`)
	})

	health := c.HealthCheck(context.Background(), "0:wallet")
	assert.Equal(t, "healthy", health.Status)
	assert.Empty(t, health.Error)
}

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	b := newCircuitBreaker(3, time.Hour)

	for i := 0; i < 3; i++ {
		assert.True(t, b.allow())
		b.onFailure()
	}
	assert.False(t, b.allow())
}

func TestCircuitBreakerHalfOpenRecovery(t *testing.T) {
	b := newCircuitBreaker(1, 10*time.Millisecond)

	b.onFailure()
	assert.False(t, b.allow())

	time.Sleep(20 * time.Millisecond)
	assert.True(t, b.allow()) // half-open probe

	b.onSuccess()
	assert.True(t, b.allow())
}

func TestTTLCacheExpiry(t *testing.T) {
	cache := newTTLCache()

	cache.set("k", 42, 10*time.Millisecond)
	v, ok := cache.get("k")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	time.Sleep(20 * time.Millisecond)
	_, ok = cache.get("k")
	assert.False(t, ok)
}

func TestNormalizeAddressPassthrough(t *testing.T) {
	assert.Equal(t, "", NormalizeAddress(""))
	assert.Equal(t, "garbage", NormalizeAddress("garbage"))
}

func TestNanoToTON(t *testing.T) {
	assert.InDelta(t, 2.0, NanoToTON(2_000_000_000), 1e-9)
	assert.InDelta(t, 0.5, NanoToTON(500_000_000), 1e-9)
}
