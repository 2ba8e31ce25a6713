package orderbook

import (
	"fmt"
	"sync/atomic"

	"github.com/igrmk/treemap/v2"
	"github.com/quagmt/udecimal"
)

// AggregatedBook maintains a simplified view of the order book,
// tracking only price levels and their aggregated sizes (depth).
// It is designed for downstream consumers that rebuild depth from the
// BookLog stream published by an OrderBook.
type AggregatedBook struct {
	seqID atomic.Uint64 // last applied SequenceID for gap detection and deduplication
	ask   *treemap.TreeMap[udecimal.Decimal, uint64]
	bid   *treemap.TreeMap[udecimal.Decimal, uint64]
}

// NewAggregatedBook creates a new AggregatedBook instance with empty ask and bid sides.
func NewAggregatedBook() *AggregatedBook {
	return &AggregatedBook{
		ask: newPriceTree(),
		bid: newPriceTree(),
	}
}

func newPriceTree() *treemap.TreeMap[udecimal.Decimal, uint64] {
	return treemap.NewWithKeyCompare[udecimal.Decimal, uint64](func(a, b udecimal.Decimal) bool {
		return a.LessThan(b)
	})
}

// SequenceID returns the last applied sequence ID.
func (ab *AggregatedBook) SequenceID() uint64 {
	return ab.seqID.Load()
}

// Replay applies a BookLog event to the aggregated book.
// Events at or below the current sequence ID are ignored. An event that skips
// ahead returns ErrSequenceGap and is not applied. Reject events change no
// depth but still advance the sequence ID.
func (ab *AggregatedBook) Replay(log *BookLog) error {
	if log == nil {
		return ErrInvalidParam
	}

	current := ab.seqID.Load()
	if log.SequenceID <= current {
		return nil
	}
	if log.SequenceID != current+1 {
		return fmt.Errorf("expected seq_id %d, got %d: %w", current+1, log.SequenceID, ErrSequenceGap)
	}

	for _, change := range CalculateDepthChanges(log) {
		ab.apply(change)
	}

	ab.seqID.Store(log.SequenceID)
	return nil
}

// Rebuild resets the aggregated book to a depth snapshot taken at seqID.
// Events after seqID can then be replayed on top of it.
func (ab *AggregatedBook) Rebuild(seqID uint64, bids []PriceLevel, asks []PriceLevel) {
	ab.bid.Clear()
	ab.ask.Clear()

	for _, level := range bids {
		if level.TotalQuantity > 0 {
			ab.bid.Set(level.Price, level.TotalQuantity)
		}
	}
	for _, level := range asks {
		if level.TotalQuantity > 0 {
			ab.ask.Set(level.Price, level.TotalQuantity)
		}
	}

	ab.seqID.Store(seqID)
}

// Depth returns the aggregated size at a specific price level for the given side.
// Returns zero if the price level does not exist.
func (ab *AggregatedBook) Depth(side Side, price udecimal.Decimal) uint64 {
	size, _ := ab.tree(side).Get(price)
	return size
}

// Levels returns up to limit levels in side order: bids from the highest
// price, asks from the lowest. OrderCount is not tracked and is always zero.
func (ab *AggregatedBook) Levels(side Side, limit int) []PriceLevel {
	result := make([]PriceLevel, 0)
	if limit <= 0 {
		return result
	}

	if side == Buy {
		for it := ab.bid.Reverse(); it.Valid() && len(result) < limit; it.Next() {
			result = append(result, PriceLevel{Price: it.Key(), TotalQuantity: it.Value()})
		}
		return result
	}

	for it := ab.ask.Iterator(); it.Valid() && len(result) < limit; it.Next() {
		result = append(result, PriceLevel{Price: it.Key(), TotalQuantity: it.Value()})
	}
	return result
}

func (ab *AggregatedBook) apply(change DepthChange) {
	tree := ab.tree(change.Side)
	current, _ := tree.Get(change.Price)

	if change.SizeDiff < 0 {
		diff := uint64(-change.SizeDiff)
		if diff >= current {
			tree.Del(change.Price)
			return
		}
		tree.Set(change.Price, current-diff)
		return
	}
	size := current + uint64(change.SizeDiff)
	if size == 0 {
		tree.Del(change.Price)
		return
	}
	tree.Set(change.Price, size)
}

func (ab *AggregatedBook) tree(side Side) *treemap.TreeMap[udecimal.Decimal, uint64] {
	if side == Buy {
		return ab.bid
	}
	return ab.ask
}
