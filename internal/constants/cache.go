package constants

import "time"

const (
	AnalyticsCachePrefix = "analytics" // Report caches by report name and filter (CacheBuilder adds colon)
	AnalyticsCacheExpiry = 2 * time.Minute
)
