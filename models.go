package orderbook

import (
	"github.com/quagmt/udecimal"
)

type Side int8

const (
	Buy  Side = 1
	Sell Side = 2
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	}
	return "unknown"
}

// Opposite returns the side an order on s trades against.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

type OrderType string

const (
	Market OrderType = "market"
	Limit  OrderType = "limit"
)

// Order represents the state of an order in the order book.
// Quantity is the remaining unfilled amount and is reduced as the order trades.
type Order struct {
	ID        string           `json:"id"`
	Side      Side             `json:"side"`
	Type      OrderType        `json:"type"`
	Price     udecimal.Decimal `json:"price"` // ignored for market orders
	Quantity  uint64           `json:"quantity"`
	Timestamp int64            `json:"timestamp"` // monotonic nano, admission time

	// Intrusive FIFO pointers within a price level (ignored by JSON)
	next *Order
	prev *Order
}

// Trade is an immutable execution record. Price is always the maker's price.
type Trade struct {
	BuyOrderID  string           `json:"buy_order_id"`
	SellOrderID string           `json:"sell_order_id"`
	Price       udecimal.Decimal `json:"price"`
	Quantity    uint64           `json:"quantity"`
	Timestamp   int64            `json:"timestamp"`
}

// PriceLevel is the aggregate of all resting orders at one price on one side.
type PriceLevel struct {
	Price         udecimal.Decimal `json:"price"`
	TotalQuantity uint64           `json:"total_quantity"`
	OrderCount    int64            `json:"order_count"`
}

// BookStats contains statistics about both sides of the book.
type BookStats struct {
	AskDepthCount int64 `json:"ask_depth_count"`
	AskOrderCount int64 `json:"ask_order_count"`
	BidDepthCount int64 `json:"bid_depth_count"`
	BidOrderCount int64 `json:"bid_order_count"`
}

// DepthChange represents a change in the order book depth.
type DepthChange struct {
	Side     Side
	Price    udecimal.Decimal
	SizeDiff int64
}
