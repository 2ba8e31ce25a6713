package orderbook

import "math"

const (
	// EngineVersion is the current version of the order book
	EngineVersion = "v1.0.0"

	// DefaultPriceLevelsDepth caps PriceLevels, which is otherwise unlimited.
	DefaultPriceLevelsDepth = 1000

	// MaxOrderQuantity bounds both an order's quantity and a level's aggregate,
	// so every size also fits the signed DepthChange diff.
	MaxOrderQuantity uint64 = math.MaxInt64

	// initial capacity of the per-call event and trade slices
	defaultLogCapacity = 8
)
