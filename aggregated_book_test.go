package orderbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregatedBookReplay(t *testing.T) {
	book := NewAggregatedBook()

	logs := []*BookLog{
		{SequenceID: 1, Type: LogTypeOpen, Side: Buy, Price: dec("99"), Size: 5},
		{SequenceID: 2, Type: LogTypeOpen, Side: Buy, Price: dec("100"), Size: 3},
		{SequenceID: 3, Type: LogTypeOpen, Side: Sell, Price: dec("101"), Size: 4},
		{SequenceID: 4, Type: LogTypeOpen, Side: Sell, Price: dec("102"), Size: 6},
		{SequenceID: 5, Type: LogTypeMatch, Side: Buy, Price: dec("101"), Size: 4},
		{SequenceID: 6, Type: LogTypeReject, Side: Buy, Price: dec("0"), Size: 2, RejectReason: RejectReasonNoLiquidity},
		{SequenceID: 7, Type: LogTypeAmend, Side: Buy, Price: dec("98"), Size: 2, OldPrice: dec("99"), OldSize: 5},
	}
	for _, log := range logs {
		require.NoError(t, book.Replay(log))
	}

	assert.Equal(t, uint64(7), book.SequenceID())
	assert.Equal(t, uint64(0), book.Depth(Sell, dec("101")))
	assert.Equal(t, uint64(6), book.Depth(Sell, dec("102")))
	assert.Equal(t, uint64(0), book.Depth(Buy, dec("99")))
	assert.Equal(t, uint64(2), book.Depth(Buy, dec("98")))

	bids := book.Levels(Buy, 10)
	assert.Equal(t, []string{"100", "98"}, prices(bids))
	asks := book.Levels(Sell, 10)
	assert.Equal(t, []string{"102"}, prices(asks))

	assert.Len(t, book.Levels(Buy, 1), 1)
	assert.Empty(t, book.Levels(Buy, 0))
}

func TestAggregatedBookSequence(t *testing.T) {
	t.Run("duplicate is ignored", func(t *testing.T) {
		book := NewAggregatedBook()
		log := &BookLog{SequenceID: 1, Type: LogTypeOpen, Side: Buy, Price: dec("100"), Size: 5}

		require.NoError(t, book.Replay(log))
		require.NoError(t, book.Replay(log))
		assert.Equal(t, uint64(5), book.Depth(Buy, dec("100")))
	})

	t.Run("gap returns error", func(t *testing.T) {
		book := NewAggregatedBook()
		require.NoError(t, book.Replay(&BookLog{SequenceID: 1, Type: LogTypeOpen, Side: Buy, Price: dec("100"), Size: 5}))

		err := book.Replay(&BookLog{SequenceID: 3, Type: LogTypeOpen, Side: Buy, Price: dec("100"), Size: 5})
		require.ErrorIs(t, err, ErrSequenceGap)
		assert.Equal(t, uint64(1), book.SequenceID())
		assert.Equal(t, uint64(5), book.Depth(Buy, dec("100")))
	})

	t.Run("nil log", func(t *testing.T) {
		book := NewAggregatedBook()
		assert.ErrorIs(t, book.Replay(nil), ErrInvalidParam)
	})
}

func TestAggregatedBookRebuild(t *testing.T) {
	orderBook, publishLog := createTestOrderBook(t)
	bids, asks := orderBook.PriceLevels()

	book := NewAggregatedBook()
	book.Rebuild(orderBook.SequenceID(), bids, asks)
	assert.Equal(t, orderBook.SequenceID(), book.SequenceID())

	orderBook.AddOrder(limitOrder("b-new", Buy, "110", 2))
	orderBook.CancelOrder("buy-1")

	for _, log := range publishLog.All() {
		require.NoError(t, book.Replay(log))
	}

	bids, asks = orderBook.PriceLevels()
	assertSameDepth(t, bids, book.Levels(Buy, DefaultPriceLevelsDepth))
	assertSameDepth(t, asks, book.Levels(Sell, DefaultPriceLevelsDepth))
}

func TestAggregatedBookLargeSizes(t *testing.T) {
	book := NewAggregatedBook()

	logs := []*BookLog{
		{SequenceID: 1, Type: LogTypeOpen, Side: Sell, Price: dec("100"), Size: MaxOrderQuantity},
		{SequenceID: 2, Type: LogTypeOpen, Side: Buy, Price: dec("90"), Size: 1 << 62},
		{SequenceID: 3, Type: LogTypeAmend, Side: Buy, Price: dec("90"), Size: MaxOrderQuantity, OldPrice: dec("90"), OldSize: 1 << 62},
	}
	for _, log := range logs {
		require.NoError(t, book.Replay(log))
	}
	assert.Equal(t, MaxOrderQuantity, book.Depth(Sell, dec("100")))
	assert.Equal(t, MaxOrderQuantity, book.Depth(Buy, dec("90")))

	require.NoError(t, book.Replay(&BookLog{SequenceID: 4, Type: LogTypeMatch, Side: Buy, Price: dec("100"), Size: MaxOrderQuantity - 1}))
	assert.Equal(t, uint64(1), book.Depth(Sell, dec("100")))

	require.NoError(t, book.Replay(&BookLog{SequenceID: 5, Type: LogTypeCancel, Side: Buy, Price: dec("90"), Size: MaxOrderQuantity}))
	assert.Empty(t, book.Levels(Buy, 10))
}
