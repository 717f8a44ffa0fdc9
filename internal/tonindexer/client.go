package tonindexer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	listingCacheTTL = 30 * time.Second
	balanceCacheTTL = 30 * time.Second
	// Confirmation state changes faster than listings; a stale
	// "unconfirmed" must not block a real match for long.
	confirmationCacheTTL = 10 * time.Second

	breakerFailureThreshold = 5
	breakerRecoveryTimeout  = 60 * time.Second

	pageSize = 100 // indexer hard limit per request
)

// Client is a fault-tolerant adapter over the tonapi.io indexer.
// Every call retries with backoff; exhausted retries fail soft so the
// reconciliation loop can continue on the next cycle.
type Client struct {
	r       *resty.Client
	logger  *zap.Logger
	cache   *ttlCache
	breaker *circuitBreaker
}

// New creates an indexer client.
func New(apiBase, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	r := resty.New().
		SetBaseURL(strings.TrimSuffix(apiBase, "/")).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return resp.StatusCode() == 429 || resp.StatusCode() >= 500
		})
	if apiKey != "" {
		r.SetAuthToken(apiKey)
	}

	return &Client{
		r:       r,
		logger:  logger,
		cache:   newTTLCache(),
		breaker: newCircuitBreaker(breakerFailureThreshold, breakerRecoveryTimeout),
	}
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, out interface{}) error {
	if !c.breaker.allow() {
		return ErrCircuitOpen
	}

	req := c.r.R().SetContext(ctx).SetResult(out)
	if params != nil {
		req.SetQueryParams(params)
	}

	resp, err := req.Get(path)
	if err != nil {
		c.breaker.onFailure()
		return fmt.Errorf("indexer request %s failed: %w", path, err)
	}
	if resp.IsError() {
		c.breaker.onFailure()
		return fmt.Errorf("indexer request %s returned HTTP %d", path, resp.StatusCode())
	}

	c.breaker.onSuccess()
	return nil
}

// ListRecentTransactions fetches incoming transfers newest-first,
// paginating up to maxPages. It returns an empty slice instead of an
// error once retries are exhausted: the caller's loop must continue on
// the next cycle regardless.
func (c *Client) ListRecentTransactions(ctx context.Context, address string, limit, maxPages int) []RawTx {
	cacheKey := "events:" + address
	if cached, ok := c.cache.get(cacheKey); ok {
		return cached.([]RawTx)
	}

	if limit <= 0 || limit > pageSize {
		limit = pageSize
	}
	if maxPages <= 0 {
		maxPages = 1
	}

	var all []RawTx
	offset := 0
	for page := 0; page < maxPages; page++ {
		var resp eventsResponse
		err := c.get(ctx, "/v2/accounts/"+address+"/events", map[string]string{
			"limit":  fmt.Sprintf("%d", limit),
			"offset": fmt.Sprintf("%d", offset),
		}, &resp)
		if err != nil {
			c.logger.Warn("Transaction listing failed",
				zap.Int("page", page+1),
				zap.Error(err),
			)
			break
		}

		if len(resp.Events) == 0 {
			break
		}

		for _, ev := range resp.Events {
			if ev.IsScam {
				continue
			}
			for _, act := range ev.Actions {
				if act.Type != "TonTransfer" || act.TonTransfer == nil {
					continue
				}
				all = append(all, RawTx{
					Hash:          ev.EventID,
					AmountNano:    act.TonTransfer.Amount,
					Comment:       act.TonTransfer.Comment,
					SenderAddress: act.TonTransfer.Sender.Address,
					Timestamp:     ev.Timestamp,
				})
			}
		}

		offset += len(resp.Events)
		if len(resp.Events) < limit {
			break
		}
	}

	if len(all) > 0 {
		c.cache.set(cacheKey, all, listingCacheTTL)
	}
	return all
}

// CheckConfirmation queries finality for one transaction. The call
// carries its own short timeout since it runs inside a loop over many
// candidates and must not stall the whole cycle.
func (c *Client) CheckConfirmation(ctx context.Context, txHash string, timeout time.Duration) Confirmation {
	cacheKey := "confirm:" + txHash
	if cached, ok := c.cache.get(cacheKey); ok {
		return cached.(Confirmation)
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var resp transactionResponse
	if err := c.get(callCtx, "/v2/blockchain/transactions/"+txHash, nil, &resp); err != nil {
		c.logger.Debug("Confirmation check failed",
			zap.String("tx_hash", txHash),
			zap.Error(err),
		)
		return Confirmation{OK: false}
	}

	result := Confirmation{OK: true, IsConfirmed: resp.Success}
	c.cache.set(cacheKey, result, confirmationCacheTTL)
	return result
}

// GetBalance fetches the wallet balance in nano-units. Informational,
// used for periodic health reporting.
func (c *Client) GetBalance(ctx context.Context, address string) (int64, error) {
	cacheKey := "balance:" + address
	if cached, ok := c.cache.get(cacheKey); ok {
		return cached.(int64), nil
	}

	var resp accountResponse
	if err := c.get(ctx, "/v2/accounts/"+address, nil, &resp); err != nil {
		return 0, err
	}

	c.cache.set(cacheKey, resp.Balance, balanceCacheTTL)
	return resp.Balance, nil
}

// HealthCheck probes the indexer with the configured wallet address.
func (c *Client) HealthCheck(ctx context.Context, address string) Health {
	start := time.Now()
	_, err := c.GetBalance(ctx, address)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		return Health{Status: "unhealthy", ResponseTime: elapsed, Error: err.Error()}
	}
	return Health{Status: "healthy", ResponseTime: elapsed}
}
