// Package cache keeps the latest diagnosis per company in Redis in front of
// the diagnosis repository.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"lawbix/internal/domain"
	"lawbix/internal/ports"
)

const keyPrefix = "lawbix:diagnosis:latest:"

// storeNewer writes the entry only when its version sorts after the cached
// one, so a slow read-through cannot replace a diagnosis saved meanwhile.
var storeNewer = redis.NewScript(`
local t = redis.call('TYPE', KEYS[1])['ok']
if t ~= 'hash' and t ~= 'none' then
	redis.call('DEL', KEYS[1])
end
local cur = redis.call('HGET', KEYS[1], 'v')
if cur and cur >= ARGV[1] then
	return 0
end
redis.call('HSET', KEYS[1], 'v', ARGV[1], 'd', ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return 1
`)

type Options struct {
	URL            string
	ConnectTimeout time.Duration
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, opts Options) (*redis.Client, error) {
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	redisOpts.DialTimeout = opts.ConnectTimeout

	client := redis.NewClient(redisOpts)
	pingCtx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

// Diagnoses decorates a DiagnosisRepository. Cache failures are logged and
// the call falls through to the wrapped repository.
type Diagnoses struct {
	ports.DiagnosisRepository
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewDiagnoses(inner ports.DiagnosisRepository, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *Diagnoses {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Diagnoses{DiagnosisRepository: inner, rdb: rdb, ttl: ttl, logger: logger}
}

func key(companyID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, companyID)
}

// version orders diagnoses by (created_at, id) as fixed-width text.
func version(d domain.Diagnosis) string {
	return fmt.Sprintf("%020d:%020d", d.CreatedAt.UnixNano(), d.ID)
}

// SaveDiagnosis writes through. When the new entry cannot be cached the old
// one is dropped so it is not served past the save.
func (c *Diagnoses) SaveDiagnosis(ctx context.Context, companyID int64, res domain.DiagnosisResult, answers []domain.Answer) (domain.Diagnosis, error) {
	d, err := c.DiagnosisRepository.SaveDiagnosis(ctx, companyID, res, answers)
	if err != nil {
		return d, err
	}
	if !c.store(ctx, companyID, d) {
		if err := c.Invalidate(ctx, companyID); err != nil {
			c.logger.WarnContext(ctx, "diagnosis cache invalidation failed", "company_id", companyID, "error", err)
		}
	}
	return d, nil
}

func (c *Diagnoses) LatestDiagnosis(ctx context.Context, companyID int64) (domain.Diagnosis, bool, error) {
	raw, err := c.rdb.HGet(ctx, key(companyID), "d").Bytes()
	switch {
	case err == nil:
		var d domain.Diagnosis
		if jerr := json.Unmarshal(raw, &d); jerr == nil {
			return d, true, nil
		}
		c.logger.WarnContext(ctx, "dropping undecodable cached diagnosis", "company_id", companyID)
		_ = c.rdb.Del(ctx, key(companyID)).Err()
	case !errors.Is(err, redis.Nil):
		c.logger.WarnContext(ctx, "diagnosis cache read failed", "company_id", companyID, "error", err)
	}

	d, found, err := c.DiagnosisRepository.LatestDiagnosis(ctx, companyID)
	if err != nil || !found {
		return d, found, err
	}
	c.store(ctx, companyID, d)
	return d, true, nil
}

// Invalidate drops the cached entry for a company.
func (c *Diagnoses) Invalidate(ctx context.Context, companyID int64) error {
	return c.rdb.Del(ctx, key(companyID)).Err()
}

// store reports false when the cache could not be written. An entry skipped
// because a newer one is cached counts as stored.
func (c *Diagnoses) store(ctx context.Context, companyID int64, d domain.Diagnosis) bool {
	data, err := json.Marshal(d)
	if err != nil {
		return false
	}
	err = storeNewer.Run(ctx, c.rdb, []string{key(companyID)}, version(d), data, c.ttl.Milliseconds()).Err()
	if err != nil {
		c.logger.WarnContext(ctx, "diagnosis cache write failed", "company_id", companyID, "error", err)
		return false
	}
	return true
}

var _ ports.DiagnosisRepository = (*Diagnoses)(nil)
