package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const onlineKey = "online_users"

// Presence tracks which users currently hold at least one live socket
// connection. Counters per user handle multiple connections from one account.
type Presence struct {
	rdb    *redis.Client
	prefix string
}

func NewPresence(rdb *redis.Client, prefix string) *Presence {
	return &Presence{rdb: rdb, prefix: prefix}
}

func (p *Presence) key(parts ...string) string {
	k := p.prefix
	for _, s := range parts {
		k += ":" + s
	}
	return k
}

func (p *Presence) MarkOnline(ctx context.Context, userID string) error {
	n, err := p.rdb.Incr(ctx, p.key("conns", userID)).Result()
	if err != nil {
		return err
	}
	if n == 1 {
		return p.rdb.SAdd(ctx, p.key(onlineKey), userID).Err()
	}
	return nil
}

func (p *Presence) MarkOffline(ctx context.Context, userID string) error {
	n, err := p.rdb.Decr(ctx, p.key("conns", userID)).Result()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	p.rdb.Del(ctx, p.key("conns", userID))
	if err := p.rdb.SRem(ctx, p.key(onlineKey), userID).Err(); err != nil {
		return err
	}
	return p.rdb.Set(ctx, p.key("last_seen", userID), time.Now().Unix(), 0).Err()
}

func (p *Presence) IsOnline(ctx context.Context, userID string) (bool, error) {
	return p.rdb.SIsMember(ctx, p.key(onlineKey), userID).Result()
}

func (p *Presence) LastSeen(ctx context.Context, userID string) (time.Time, error) {
	val, err := p.rdb.Get(ctx, p.key("last_seen", userID)).Result()
	if err != nil {
		return time.Time{}, err
	}
	ts, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(ts, 0), nil
}
