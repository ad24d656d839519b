package osuapi

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/OsuLink_Go/internal/domain"
)

// userCache keeps recent public profile lookups. Entries are keyed by the
// requested user and mode because the statistics block differs per mode.
type userCache struct {
	lru *expirable.LRU[string, *UserExtended]
}

func newUserCache(size int, ttl time.Duration) *userCache {
	return &userCache{
		lru: expirable.NewLRU[string, *UserExtended](size, nil, ttl),
	}
}

func cacheKey(user string, mode domain.GameMode) string {
	return user + "|" + mode.String()
}

func (c *userCache) Get(user string, mode domain.GameMode) (*UserExtended, bool) {
	return c.lru.Get(cacheKey(user, mode))
}

func (c *userCache) Set(user string, mode domain.GameMode, u *UserExtended) {
	c.lru.Add(cacheKey(user, mode), u)
}
