package models

import "time"

// CacheEntry stores a cached completion.
type CacheEntry struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	AccessSeq int64     `json:"access_seq"`
	CreatedAt time.Time `json:"created_at"`
}

// CacheStats reports cache size and performance metrics.
type CacheStats struct {
	Entries   int64 `json:"entries"`
	Capacity  int   `json:"capacity"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}
