package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"literary-flow/internal/domain"
	"literary-flow/internal/infra/memory"
)

// BankCache caches question banks in Redis and falls back to a loader on cache miss.
// Items are stored as: HSET bank:{bankID}:items {itemID} {item JSON}
// The title is stored as: SET bank:{bankID}:title {title}
type BankCache struct {
	client *redis.Client
	loader memory.BankLoader
	ttl    time.Duration
	sf     singleflight.Group
	rndMu  sync.Mutex
	rnd    *rand.Rand
}

func NewBankCache(client *redis.Client, loader memory.BankLoader, ttl time.Duration) *BankCache {
	return &BankCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// LoadBank implements memory.BankLoader so the cache can sit behind the in-process TTL cache.
func (c *BankCache) LoadBank(ctx context.Context, bankID string) (domain.Bank, error) {
	if bank, ok := c.cached(ctx, bankID); ok {
		return bank, nil
	}

	result, err, _ := c.sf.Do(bankID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if bank, ok := c.cached(ctx, bankID); ok {
			return bank, nil
		}

		bank, err := c.loader.LoadBank(ctx, bankID)
		if err != nil {
			return domain.Bank{}, err
		}
		c.store(ctx, bank)
		return bank, nil
	})
	if err != nil {
		return domain.Bank{}, err
	}
	return result.(domain.Bank), nil
}

// Invalidate removes a bank from Redis, e.g. after reseeding.
func (c *BankCache) Invalidate(ctx context.Context, bankID string) error {
	return c.client.Del(ctx, itemsKey(bankID), titleKey(bankID)).Err()
}

func (c *BankCache) cached(ctx context.Context, bankID string) (domain.Bank, bool) {
	raw, err := c.client.HGetAll(ctx, itemsKey(bankID)).Result()
	if err != nil || len(raw) == 0 {
		return domain.Bank{}, false
	}
	items := make([]domain.QuestionItem, 0, len(raw))
	for _, data := range raw {
		var item domain.QuestionItem
		if err := json.Unmarshal([]byte(data), &item); err != nil {
			// A corrupt entry invalidates the whole cached bank.
			return domain.Bank{}, false
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	title, _ := c.client.Get(ctx, titleKey(bankID)).Result()
	return domain.Bank{ID: bankID, Title: title, Items: items}, true
}

func (c *BankCache) store(ctx context.Context, bank domain.Bank) {
	ttl := c.ttlWithJitter()
	pipe := c.client.Pipeline()
	for _, item := range bank.Items {
		data, err := json.Marshal(item)
		if err != nil {
			continue
		}
		pipe.HSet(ctx, itemsKey(bank.ID), item.ID, data)
	}
	pipe.Set(ctx, titleKey(bank.ID), bank.Title, ttl)
	if ttl > 0 {
		pipe.Expire(ctx, itemsKey(bank.ID), ttl)
	}
	// best-effort: a failed write only costs a reload next time
	_, _ = pipe.Exec(ctx)
}

func itemsKey(bankID string) string {
	return "bank:" + bankID + ":items"
}

func titleKey(bankID string) string {
	return "bank:" + bankID + ":title"
}

func (c *BankCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
