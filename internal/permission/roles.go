package permission

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RoleSource resolves a role name to the capabilities it grants.
type RoleSource interface {
	Grants(ctx context.Context, role string) (Set, error)
}

// StaticRoleSource resolves roles from an in-memory table. Unknown roles
// grant nothing.
type StaticRoleSource map[string][]Capability

// Grants implements RoleSource.
func (s StaticRoleSource) Grants(_ context.Context, role string) (Set, error) {
	return NewSet(s[role]...), nil
}

// DefaultRoleGrants is the standard role table: customers manage their own
// book, support sees everyone's defaults, admins manage every book.
func DefaultRoleGrants() StaticRoleSource {
	return StaticRoleSource{
		"customer": {EditOwn, DeleteOwn},
		"support":  {ViewAllDefaults},
		"admin":    {EditAll, DeleteAll},
	}
}

// CachedRoleSource wraps a RoleSource with a Redis cache. Cache failures are
// logged and fall through to the underlying source, so Redis being down
// never breaks permission checks.
type CachedRoleSource struct {
	client *redis.Client
	source RoleSource
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedRoleSource creates a caching role source with the given TTL.
func NewCachedRoleSource(client *redis.Client, source RoleSource, ttl time.Duration, logger *slog.Logger) *CachedRoleSource {
	return &CachedRoleSource{client: client, source: source, ttl: ttl, logger: logger}
}

func grantsKey(role string) string {
	return fmt.Sprintf("addressbook:grants:%s", role)
}

// Grants implements RoleSource.
func (c *CachedRoleSource) Grants(ctx context.Context, role string) (Set, error) {
	key := grantsKey(role)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var caps []Capability
		if err := json.Unmarshal(data, &caps); err == nil {
			return NewSet(caps...), nil
		}
		c.logger.WarnContext(ctx, "corrupt grants cache entry",
			slog.String("key", key),
		)
	} else if err != redis.Nil {
		c.logger.WarnContext(ctx, "grants cache read failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}

	caps, err := c.source.Grants(ctx, role)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(caps.List())
	if err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "grants cache write failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}
	return caps, nil
}

// Invalidate drops the cached grants of a role.
func (c *CachedRoleSource) Invalidate(ctx context.Context, role string) error {
	return c.client.Del(ctx, grantsKey(role)).Err()
}
