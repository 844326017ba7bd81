package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SessionKey returns the cache key holding the active token id of an account.
func (r *CacheKeyStruct) SessionKey(accountID string) string {
	return fmt.Sprintf("session:%s", accountID)
}

// SubmissionLockKey returns the key guarding an in-flight result submission.
func (r *CacheKeyStruct) SubmissionLockKey(accountID, paperID string) string {
	return fmt.Sprintf("submit:%s:%s", accountID, paperID)
}

// RateLimitKey returns the fixed-window counter key for a client on a route scope.
func (r *CacheKeyStruct) RateLimitKey(scope, clientIP string, window int64) string {
	return fmt.Sprintf("ratelimit:%s:%s:%d", scope, clientIP, window)
}

var CacheKey = NewCacheKeyStruct()
