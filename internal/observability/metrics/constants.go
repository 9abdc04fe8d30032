package metrics

// Histogram bucket parameters shared across metric families.
const (
	// BucketStart1ms is the smallest latency bucket.
	BucketStart1ms = 0.001
	// BucketFactor2 doubles each successive bucket.
	BucketFactor2 = 2.0
	// BucketCount15 spans 1ms to roughly 16s.
	BucketCount15 = 15
)
