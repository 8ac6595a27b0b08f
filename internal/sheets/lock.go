package sheets

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	tabLockPrefix   = "sheets:lock:" // sheets:lock:{spreadsheet_id}:{tab}
	tabLockTTL      = 15 * time.Second
	tabLockWait     = 5 * time.Second
	tabLockInterval = 100 * time.Millisecond
)

// TabLock serializes whole-collection writers per tab through Redis. The
// read-modify-write design is last-writer-wins by nature; when Redis is
// configured the lock closes that window within one deployment. It is
// best-effort: if the lock cannot be acquired before tabLockWait the write
// proceeds anyway, and the TTL bounds the damage of a crashed holder.
type TabLock struct {
	client *redis.Client
}

// NewTabLock returns nil when client is nil; a nil TabLock is a no-op.
func NewTabLock(client *redis.Client) *TabLock {
	if client == nil {
		return nil
	}
	return &TabLock{client: client}
}

// Acquire blocks until the tab lock is held, the wait budget runs out, or ctx
// is done. It always returns a release func safe to call.
func (l *TabLock) Acquire(ctx context.Context, spreadsheetID, tabName string) func() {
	if l == nil || l.client == nil {
		return func() {}
	}

	key := tabLockPrefix + spreadsheetID + ":" + tabName
	deadline := time.Now().Add(tabLockWait)

	for {
		ok, err := l.client.SetNX(ctx, key, "1", tabLockTTL).Result()
		if err != nil {
			log.Printf("[sheets] tab lock %s unavailable: %v", key, err)
			return func() {}
		}
		if ok {
			return func() {
				if err := l.client.Del(context.Background(), key).Err(); err != nil {
					log.Printf("[sheets] tab lock %s release: %v", key, err)
				}
			}
		}
		if time.Now().After(deadline) {
			log.Printf("[sheets] tab lock %s contended past deadline, proceeding", key)
			return func() {}
		}

		select {
		case <-ctx.Done():
			return func() {}
		case <-time.After(tabLockInterval):
		}
	}
}
