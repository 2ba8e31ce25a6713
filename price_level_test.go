package orderbook

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/quagmt/udecimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBidIndex(t *testing.T) {
	s := newBidIndex()

	s.add(limitOrder("101", Buy, "10", 1))
	s.add(limitOrder("201", Buy, "20", 10))
	s.add(limitOrder("301", Buy, "30", 10))
	s.add(limitOrder("202", Buy, "20", 100))

	assert.Equal(t, int64(4), s.orderCount())
	assert.Equal(t, int64(3), s.depthCount())

	best, ok := s.bestPrice()
	require.True(t, ok)
	assert.Equal(t, "30", best.String())

	levels := s.depth(10)
	require.Len(t, levels, 3)
	assert.Equal(t, []string{"30", "20", "10"}, prices(levels))
	assert.Equal(t, uint64(110), levels[1].TotalQuantity)
	assert.Equal(t, int64(2), levels[1].OrderCount)

	unit := s.unit(dec("20"))
	require.NotNil(t, unit)
	assert.Equal(t, "201", unit.head.ID)
	assert.Equal(t, "202", unit.tail.ID)
}

func TestAskIndex(t *testing.T) {
	s := newAskIndex()

	s.add(limitOrder("101", Sell, "10", 1))
	s.add(limitOrder("201", Sell, "20", 10))
	s.add(limitOrder("301", Sell, "30", 10))

	best, ok := s.bestPrice()
	require.True(t, ok)
	assert.Equal(t, "10", best.String())
	assert.Equal(t, []string{"10", "20", "30"}, prices(s.depth(10)))
	assert.Equal(t, []string{"10", "20"}, prices(s.depth(2)))
}

func TestIndexReduce(t *testing.T) {
	t.Run("partial reduce keeps level and count", func(t *testing.T) {
		s := newAskIndex()
		s.add(limitOrder("a", Sell, "10", 5))

		s.reduce(dec("10"), 3)

		levels := s.depth(10)
		require.Len(t, levels, 1)
		assert.Equal(t, uint64(2), levels[0].TotalQuantity)
		assert.Equal(t, int64(1), levels[0].OrderCount)
	})

	t.Run("reduce to zero removes level", func(t *testing.T) {
		s := newAskIndex()
		order := limitOrder("a", Sell, "10", 5)
		s.add(order)

		s.reduce(dec("10"), 5)

		assert.Empty(t, s.depth(10))
		assert.Equal(t, int64(0), s.orderCount())
		_, ok := s.bestPrice()
		assert.False(t, ok)

		// count removal after the level is gone is harmless
		s.removeOrderCount(order)
		assert.Nil(t, order.next)
		assert.Nil(t, order.prev)
		assert.Equal(t, int64(0), s.orderCount())
	})

	t.Run("reduce unknown price", func(t *testing.T) {
		s := newAskIndex()
		s.reduce(dec("10"), 5)
		assert.Empty(t, s.depth(10))
	})
}

func TestIndexRemoveOrderCount(t *testing.T) {
	s := newBidIndex()
	a := limitOrder("a", Buy, "10", 1)
	b := limitOrder("b", Buy, "10", 2)
	c := limitOrder("c", Buy, "10", 3)
	s.add(a)
	s.add(b)
	s.add(c)

	// middle
	s.reduce(b.Price, b.Quantity)
	s.removeOrderCount(b)
	unit := s.unit(dec("10"))
	require.NotNil(t, unit)
	assert.Equal(t, a, unit.head)
	assert.Equal(t, c, unit.tail)
	assert.Equal(t, c, a.next)
	assert.Equal(t, a, c.prev)
	assert.Equal(t, int64(2), unit.count)
	assert.Equal(t, uint64(4), unit.totalQuantity)

	// head
	s.reduce(a.Price, a.Quantity)
	s.removeOrderCount(a)
	assert.Equal(t, c, unit.head)
	assert.Equal(t, c, unit.tail)
	assert.Nil(t, c.prev)

	// last order removes the level even with quantity left
	s.removeOrderCount(c)
	assert.Nil(t, s.unit(dec("10")))
	assert.Equal(t, int64(0), s.depthCount())
}

func TestIndexResize(t *testing.T) {
	s := newAskIndex()
	a := limitOrder("a", Sell, "10", 5)
	b := limitOrder("b", Sell, "10", 5)
	s.add(a)
	s.add(b)

	s.resize(a, 2)

	unit := s.unit(dec("10"))
	require.NotNil(t, unit)
	assert.Equal(t, uint64(7), unit.totalQuantity)
	assert.Equal(t, int64(2), unit.count)
	assert.Equal(t, uint64(2), a.Quantity)
	assert.Equal(t, a, unit.head)
}

func TestIndexMaxQuantity(t *testing.T) {
	s := newBidIndex()
	s.add(limitOrder("a", Buy, "10", 5))
	s.add(limitOrder("b", Buy, "11", 7))
	s.add(limitOrder("c", Buy, "10", 4))
	s.refreshMaxQuantity()
	assert.Equal(t, uint64(9), s.maxQuantity)

	s.reduce(dec("10"), 9)
	s.refreshMaxQuantity()
	assert.Equal(t, uint64(7), s.maxQuantity)
}

func BenchmarkIndexAdd(b *testing.B) {
	s := newBidIndex()
	rng := rand.New(rand.NewSource(42))

	orders := make([]*Order, b.N)
	for i := 0; i < b.N; i++ {
		orders[i] = &Order{
			ID:       strconv.Itoa(i),
			Side:     Buy,
			Type:     Limit,
			Price:    udecimal.MustFromInt64(int64(rng.Intn(10000)), 0),
			Quantity: 1,
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.add(orders[i])
	}
}
