package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/husainf4l/gixat/internal/config"
	"github.com/redis/go-redis/v9"
)

// Cache wraps redis for the two hot read paths: dashboard aggregates and
// per-user capability lists. Both are invalidated explicitly on writes; a
// cold or unreachable redis degrades to direct reads.
type Cache struct {
	rdb            *redis.Client
	dashboardTTL   time.Duration
	permissionsTTL time.Duration
}

func NewCache(rdb *redis.Client, cfg *config.Config) *Cache {
	dashboardTTL := cfg.Cache.DashboardTTL
	if dashboardTTL <= 0 {
		dashboardTTL = 5 * time.Minute
	}
	permissionsTTL := cfg.Cache.PermissionsTTL
	if permissionsTTL <= 0 {
		permissionsTTL = 30 * time.Minute
	}
	return &Cache{
		rdb:            rdb,
		dashboardTTL:   dashboardTTL,
		permissionsTTL: permissionsTTL,
	}
}

func dashboardKey(orgID string) string {
	return fmt.Sprintf("dashboard:stats:%s", orgID)
}

func permissionsKey(userID string) string {
	return fmt.Sprintf("user:permissions:%s", userID)
}

// GetDashboard loads cached dashboard stats into dest. Returns false on
// miss or any redis error.
func (c *Cache) GetDashboard(ctx context.Context, orgID string, dest interface{}) bool {
	if c.rdb == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, dashboardKey(orgID)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (c *Cache) SetDashboard(ctx context.Context, orgID string, value interface{}) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, dashboardKey(orgID), raw, c.dashboardTTL)
}

// InvalidateDashboard drops the cached stats after any write that changes
// session, inventory, or inspection state.
func (c *Cache) InvalidateDashboard(ctx context.Context, orgID string) {
	if c.rdb == nil {
		return
	}
	c.rdb.Del(ctx, dashboardKey(orgID))
}

func (c *Cache) GetPermissions(ctx context.Context, userID string) ([]string, bool) {
	if c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, permissionsKey(userID)).Bytes()
	if err != nil {
		return nil, false
	}
	var perms []string
	if err := json.Unmarshal(raw, &perms); err != nil {
		return nil, false
	}
	return perms, true
}

func (c *Cache) SetPermissions(ctx context.Context, userID string, perms []string) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(perms)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, permissionsKey(userID), raw, c.permissionsTTL)
}

// InvalidatePermissions drops the cached capability list after a role or
// activation change.
func (c *Cache) InvalidatePermissions(ctx context.Context, userID string) {
	if c.rdb == nil {
		return
	}
	c.rdb.Del(ctx, permissionsKey(userID))
}
