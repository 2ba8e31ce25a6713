package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/0x5487/orderbook"
	"github.com/quagmt/udecimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const sample = `
name: crossing
steps:
  - action: add
    id: "1"
    side: sell
    price: "100.5"
    quantity: 10
  - action: add
    id: "2"
    side: sell
    type: limit
    price: "101"
    quantity: 5
  - action: add
    id: "3"
    side: buy
    type: market
    quantity: 12
  - action: amend
    id: "2"
    price: "102"
    quantity: 1
  - action: cancel
    id: "9"
  - action: snapshot
    depth: 5
`

func TestParse(t *testing.T) {
	sc, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, "crossing", sc.Name)
	require.Len(t, sc.Steps, 6)
	assert.Equal(t, ActionAdd, sc.Steps[0].Action)
	assert.Equal(t, uint64(12), sc.Steps[2].Quantity)

	tests := []struct {
		name string
		data string
	}{
		{"unknown action", "steps:\n  - action: fly\n"},
		{"unknown side", "steps:\n  - action: add\n    side: up\n    price: \"1\"\n    quantity: 1\n"},
		{"unknown type", "steps:\n  - action: add\n    side: buy\n    type: stop\n    quantity: 1\n"},
		{"bad price", "steps:\n  - action: add\n    side: buy\n    price: abc\n    quantity: 1\n"},
		{"cancel without id", "steps:\n  - action: cancel\n"},
		{"amend bad price", "steps:\n  - action: amend\n    id: \"1\"\n    price: x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.ErrorIs(t, err, ErrInvalidStep)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	sc, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, sc.Steps, 6)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun(t *testing.T) {
	sc, err := Parse([]byte(sample))
	require.NoError(t, err)

	book := orderbook.NewOrderBook()
	results, err := Run(book, sc.Steps)
	require.NoError(t, err)
	require.Len(t, results, 6)

	require.Len(t, results[2].Trades, 2)
	assert.Equal(t, "1", results[2].Trades[0].SellOrderID)
	assert.Equal(t, uint64(10), results[2].Trades[0].Quantity)
	assert.Equal(t, "2", results[2].Trades[1].SellOrderID)
	assert.Equal(t, uint64(2), results[2].Trades[1].Quantity)

	assert.True(t, results[3].OK)
	assert.False(t, results[4].OK)

	assert.Empty(t, results[5].Bids)
	require.Len(t, results[5].Asks, 1)
	assert.True(t, results[5].Asks[0].Price.Equal(udecimal.MustFromInt64(102, 0)))
	assert.Equal(t, uint64(1), results[5].Asks[0].TotalQuantity)
}

func TestRunStopsAtInvalidStep(t *testing.T) {
	book := orderbook.NewOrderBook()
	steps := []Step{
		{Action: ActionAdd, ID: "1", Side: "buy", Price: "10", Quantity: 1},
		{Action: "fly"},
		{Action: ActionAdd, ID: "2", Side: "buy", Price: "10", Quantity: 1},
	}

	results, err := Run(book, steps)
	require.ErrorIs(t, err, ErrInvalidStep)
	assert.Len(t, results, 1)
	assert.Equal(t, 1, book.OrderCount())
}

type AggressiveTestSuite struct {
	suite.Suite
	book *orderbook.OrderBook
}

func TestAggressiveTestSuite(t *testing.T) {
	suite.Run(t, new(AggressiveTestSuite))
}

func (s *AggressiveTestSuite) SetupTest() {
	s.book = orderbook.NewOrderBook()
	results, err := Run(s.book, DefaultMarket(Sequence(1)))
	s.Require().NoError(err)
	for _, result := range results {
		s.Require().Empty(result.Trades)
	}
	s.Require().Equal(25, s.book.OrderCount())
}

func (s *AggressiveTestSuite) TestDefaultMarket() {
	bids, asks := s.book.Snapshot(20)
	s.Len(bids, 11)
	s.Len(asks, 10)

	s.True(bids[5].Price.Equal(udecimal.MustFromInt64(995, 1)))
	s.Equal(uint64(1700), bids[5].TotalQuantity)
	s.Equal(int64(3), bids[5].OrderCount)
	s.True(asks[9].Price.Equal(udecimal.MustFromInt64(101, 0)))
	s.Equal(uint64(1950), asks[9].TotalQuantity)

	order, ok := s.book.Order("25")
	s.Require().True(ok)
	s.Equal(uint64(350), order.Quantity)
}

func (s *AggressiveTestSuite) TestMarketBuy() {
	order, err := MarketBuy.Order(s.book)
	s.Require().NoError(err)
	order.ID = "26"

	trades := s.book.AddOrder(order)
	s.Require().Len(trades, 2)
	s.Equal("100.1", trades[0].Price.String())
	s.Equal(uint64(200), trades[0].Quantity)
	s.Equal("100.2", trades[1].Price.String())
	s.Equal(uint64(300), trades[1].Quantity)
}

func (s *AggressiveTestSuite) TestMarketSell() {
	order, err := MarketSell.Order(s.book)
	s.Require().NoError(err)

	trades := s.book.AddOrder(order)
	s.Require().Len(trades, 1)
	s.True(trades[0].Price.Equal(udecimal.MustFromInt64(100, 0)))
	s.Equal(uint64(500), trades[0].Quantity)
}

func (s *AggressiveTestSuite) TestAggressiveLimitBuy() {
	order, err := AggressiveLimitBuy.Order(s.book)
	s.Require().NoError(err)
	s.True(order.Price.Equal(udecimal.MustFromInt64(1004, 1)))

	trades := s.book.AddOrder(order)
	var filled uint64
	for _, trade := range trades {
		filled += trade.Quantity
	}
	s.Equal(uint64(800), filled)
	s.Len(trades, 3)

	best, ok := s.book.BestAsk()
	s.Require().True(ok)
	s.Equal("100.3", best.String())
}

func (s *AggressiveTestSuite) TestAggressiveLimitSell() {
	order, err := AggressiveLimitSell.Order(s.book)
	s.Require().NoError(err)
	s.True(order.Price.Equal(udecimal.MustFromInt64(997, 1)))

	trades := s.book.AddOrder(order)
	s.Require().Len(trades, 1)
	s.Equal(uint64(800), trades[0].Quantity)

	// the rest of the 100.0 bid stays at the top
	best, ok := s.book.BestBid()
	s.Require().True(ok)
	s.True(best.Equal(udecimal.MustFromInt64(100, 0)))
}

func (s *AggressiveTestSuite) TestEmptyBook() {
	_, err := MarketBuy.Order(orderbook.NewOrderBook())
	s.ErrorIs(err, ErrEmptyBook)
}
