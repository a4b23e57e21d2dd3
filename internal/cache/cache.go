package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching encoded analysis results
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from the analyzed text and its input format
func Key(format, text string) string {
	hash := sha256.Sum256([]byte(format + "\x00" + text))
	return "credence:v1:" + hex.EncodeToString(hash[:])
}
