package scenario

import (
	"fmt"

	"github.com/0x5487/orderbook"
	"github.com/quagmt/udecimal"
)

// Aggressive is one of the built-in crossing scenarios.
type Aggressive int

const (
	MarketBuy Aggressive = iota + 1
	MarketSell
	AggressiveLimitBuy
	AggressiveLimitSell
)

const (
	marketQuantity     uint64 = 500
	aggressiveQuantity uint64 = 800
)

var aggressiveOffset = udecimal.MustFromInt64(3, 1)

// Quoter exposes the best prices of a book.
type Quoter interface {
	BestBid() (udecimal.Decimal, bool)
	BestAsk() (udecimal.Decimal, bool)
}

func (a Aggressive) String() string {
	switch a {
	case MarketBuy:
		return "Market Buy Order"
	case MarketSell:
		return "Market Sell Order"
	case AggressiveLimitBuy:
		return "Aggressive Limit Buy (Cross Spread)"
	case AggressiveLimitSell:
		return "Aggressive Limit Sell (Cross Spread)"
	}
	return fmt.Sprintf("Aggressive(%d)", int(a))
}

// Order builds the scenario's order against the current quotes. Both sides of
// the book must be populated. The order has no ID; the caller assigns one.
func (a Aggressive) Order(book Quoter) (*orderbook.Order, error) {
	bestBid, hasBid := book.BestBid()
	bestAsk, hasAsk := book.BestAsk()
	if !hasBid || !hasAsk {
		return nil, ErrEmptyBook
	}

	switch a {
	case MarketBuy:
		return &orderbook.Order{Side: orderbook.Buy, Type: orderbook.Market, Quantity: marketQuantity}, nil
	case MarketSell:
		return &orderbook.Order{Side: orderbook.Sell, Type: orderbook.Market, Quantity: marketQuantity}, nil
	case AggressiveLimitBuy:
		return &orderbook.Order{
			Side:     orderbook.Buy,
			Type:     orderbook.Limit,
			Price:    bestAsk.Add(aggressiveOffset),
			Quantity: aggressiveQuantity,
		}, nil
	case AggressiveLimitSell:
		return &orderbook.Order{
			Side:     orderbook.Sell,
			Type:     orderbook.Limit,
			Price:    bestBid.Sub(aggressiveOffset),
			Quantity: aggressiveQuantity,
		}, nil
	}

	return nil, fmt.Errorf("unknown scenario %d: %w", int(a), ErrInvalidStep)
}
