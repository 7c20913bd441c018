package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"inducthub/internal/model"
)

// StaleAfter is how long a saved progress record stays recoverable.
const StaleAfter = 24 * time.Hour

// ProgressStore is the durable store for in-progress session work, one
// record per assignment. Load treats stale or unreadable records as
// absent and removes them; Save discards writes whose sequence is older
// than the one already persisted.
type ProgressStore interface {
	Save(ctx context.Context, assignmentID string, rec *model.ProgressRecord) error
	Load(ctx context.Context, assignmentID string) (*model.ProgressRecord, error)
	Clear(ctx context.Context, assignmentID string) error
}

type progressCache struct {
	client *redis.Client
	clock  Clock
	ttl    time.Duration
}

// NewProgressCache creates a Redis-backed progress store.
func NewProgressCache(client *redis.Client) ProgressStore {
	return &progressCache{
		client: client,
		clock:  RealClock(),
		ttl:    StaleAfter,
	}
}

// NewProgressCacheWithClock is NewProgressCache with an injected clock.
func NewProgressCacheWithClock(client *redis.Client, clock Clock) ProgressStore {
	return &progressCache{client: client, clock: clock, ttl: StaleAfter}
}

func (c *progressCache) key(assignmentID string) string {
	return "progress:" + assignmentID
}

func (c *progressCache) Save(ctx context.Context, assignmentID string, rec *model.ProgressRecord) error {
	existing, err := c.rawLoad(ctx, assignmentID)
	if err == nil && existing != nil && existing.Seq > rec.Seq {
		// A fresher write already landed; drop this one.
		return nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	return c.client.Set(ctx, c.key(assignmentID), data, c.ttl).Err()
}

func (c *progressCache) Load(ctx context.Context, assignmentID string) (*model.ProgressRecord, error) {
	rec, err := c.rawLoad(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	return normalizeRecord(rec, c.clock.Now(), func() {
		if delErr := c.client.Del(ctx, c.key(assignmentID)).Err(); delErr != nil {
			log.Printf("progress cache: failed to drop stale record for %s: %v", assignmentID, delErr)
		}
	}), nil
}

// rawLoad reads and decodes without staleness handling. A record that
// fails to decode is deleted and reported as absent.
func (c *progressCache) rawLoad(ctx context.Context, assignmentID string) (*model.ProgressRecord, error) {
	data, err := c.client.Get(ctx, c.key(assignmentID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec model.ProgressRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		log.Printf("progress cache: corrupted record for %s, dropping: %v", assignmentID, err)
		c.client.Del(ctx, c.key(assignmentID))
		return nil, nil
	}
	return &rec, nil
}

func (c *progressCache) Clear(ctx context.Context, assignmentID string) error {
	return c.client.Del(ctx, c.key(assignmentID)).Err()
}

// normalizeRecord applies the shared load rules: records older than
// StaleAfter are dropped (via drop) and reported absent, future
// timestamps are clamped to now, and missing maps are defaulted.
func normalizeRecord(rec *model.ProgressRecord, now time.Time, drop func()) *model.ProgressRecord {
	if now.Sub(rec.LastUpdated) > StaleAfter {
		drop()
		return nil
	}
	if rec.LastUpdated.After(now) {
		rec.LastUpdated = now
	}
	if rec.Answers == nil {
		rec.Answers = make(map[string]model.AnswerValue)
	}
	if rec.Answered == nil {
		rec.Answered = make(map[string]bool)
	}
	if rec.CurrentIndex < 0 {
		rec.CurrentIndex = 0
	}
	return rec
}
