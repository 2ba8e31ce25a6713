package orderbook

import (
	"github.com/quagmt/udecimal"
	"go.uber.org/zap"
)

// OrderBook is a single-instrument limit order book.
//
// It is not safe for concurrent use. Every call runs to completion; hosts that
// share a book between goroutines must serialize access themselves.
type OrderBook struct {
	seqID      uint64 // last BookLog sequence ID
	tradeID    uint64 // last trade ID, only incremented for Match events
	lastTime   int64
	clock      Clock
	ledger     *orderLedger
	bidIndex   *sideIndex
	askIndex   *sideIndex
	publishLog PublishLog
}

// Option configures an OrderBook.
type Option func(*OrderBook)

// WithPublishLog sets the publisher that receives every BookLog.
func WithPublishLog(publishLog PublishLog) Option {
	return func(book *OrderBook) {
		if publishLog != nil {
			book.publishLog = publishLog
		}
	}
}

// WithClock replaces the monotonic nanosecond clock used for timestamps.
func WithClock(clock Clock) Option {
	return func(book *OrderBook) {
		if clock != nil {
			book.clock = clock
		}
	}
}

// NewOrderBook creates a new, empty order book.
func NewOrderBook(opts ...Option) *OrderBook {
	book := &OrderBook{
		clock:      monotonicClock(),
		ledger:     newOrderLedger(),
		bidIndex:   newBidIndex(),
		askIndex:   newAskIndex(),
		publishLog: NewDiscardPublishLog(),
	}

	for _, opt := range opts {
		opt(book)
	}

	return book
}

// CancelOrder removes a resting order. It returns false if the ID is unknown.
func (book *OrderBook) CancelOrder(id string) bool {
	order, ok := book.ledger.lookup(id)
	if !ok {
		return false
	}

	if order.Type == Limit {
		book.withdraw(order)
		book.refreshMaxQuantities()
	}
	book.ledger.remove(id)

	book.publish(newCancelLog(book.nextSeqID(), order, book.now()))
	return true
}

// AmendOrder changes the price and quantity of a resting order. It returns
// false if the ID is unknown.
//
// The amended order is never matched, even if it now crosses the book.
// Reducing the quantity at an unchanged price keeps the order's place in the
// queue; any other change moves it to the back of the new level. A quantity
// of zero withdraws the order as CancelOrder does. An amend that would push
// the target level past MaxOrderQuantity returns false and changes nothing.
func (book *OrderBook) AmendOrder(id string, price udecimal.Decimal, quantity uint64) bool {
	order, ok := book.ledger.lookup(id)
	if !ok {
		return false
	}

	if order.Type != Limit {
		return true
	}

	if quantity == 0 {
		return book.CancelOrder(id)
	}

	myIndex := book.index(order.Side)
	if !myIndex.fits(price, quantity, order) {
		return false
	}

	now := book.now()
	oldPrice := order.Price
	oldQuantity := order.Quantity

	if oldPrice.Equal(price) && quantity < oldQuantity {
		myIndex.resize(order, quantity)
	} else {
		book.withdraw(order)
		order.Price = price
		order.Quantity = quantity
		order.Timestamp = now
		myIndex.add(order)
	}
	book.refreshMaxQuantities()

	book.publish(newAmendLog(book.nextSeqID(), order, oldPrice, oldQuantity, now))
	return true
}

// withdraw takes a resting order's full quantity and count out of the index.
// The ledger is left untouched.
func (book *OrderBook) withdraw(order *Order) {
	myIndex := book.index(order.Side)
	myIndex.reduce(order.Price, order.Quantity)
	myIndex.removeOrderCount(order)
}

// Snapshot returns at most depth levels per side. Bids are ordered from the
// highest price, asks from the lowest.
func (book *OrderBook) Snapshot(depth int) (bids []PriceLevel, asks []PriceLevel) {
	return book.bidIndex.depth(depth), book.askIndex.depth(depth)
}

// PriceLevels returns every level on both sides, capped at DefaultPriceLevelsDepth.
func (book *OrderBook) PriceLevels() (bids []PriceLevel, asks []PriceLevel) {
	return book.Snapshot(DefaultPriceLevelsDepth)
}

// BestBid returns the highest bid price. ok is false when there are no bids.
func (book *OrderBook) BestBid() (price udecimal.Decimal, ok bool) {
	return book.bidIndex.bestPrice()
}

// BestAsk returns the lowest ask price. ok is false when there are no asks.
func (book *OrderBook) BestAsk() (price udecimal.Decimal, ok bool) {
	return book.askIndex.bestPrice()
}

// OrderExists reports whether an order with the ID is resting in the book.
func (book *OrderBook) OrderExists(id string) bool {
	_, ok := book.ledger.lookup(id)
	return ok
}

// Order returns a copy of a resting order.
func (book *OrderBook) Order(id string) (Order, bool) {
	order, ok := book.ledger.lookup(id)
	if !ok {
		return Order{}, false
	}
	cpy := *order
	cpy.next = nil
	cpy.prev = nil
	return cpy, true
}

// OrderCount returns the number of resting orders.
func (book *OrderBook) OrderCount() int {
	return book.ledger.len()
}

// MaxQuantity returns the largest level aggregate on the side. It is meant
// for scaling depth bars, not for matching.
func (book *OrderBook) MaxQuantity(side Side) uint64 {
	return book.index(side).maxQuantity
}

// Stats returns level and order counts for both sides.
func (book *OrderBook) Stats() BookStats {
	return BookStats{
		AskDepthCount: book.askIndex.depthCount(),
		AskOrderCount: book.askIndex.orderCount(),
		BidDepthCount: book.bidIndex.depthCount(),
		BidOrderCount: book.bidIndex.orderCount(),
	}
}

// SequenceID returns the sequence ID of the last published BookLog.
func (book *OrderBook) SequenceID() uint64 {
	return book.seqID
}

func (book *OrderBook) index(side Side) *sideIndex {
	if side == Buy {
		return book.bidIndex
	}
	return book.askIndex
}

func (book *OrderBook) refreshMaxQuantities() {
	book.bidIndex.refreshMaxQuantity()
	book.askIndex.refreshMaxQuantity()
}

func (book *OrderBook) nextSeqID() uint64 {
	book.seqID++
	return book.seqID
}

// now reads the clock, never returning less than a previous reading.
func (book *OrderBook) now() int64 {
	t := book.clock()
	if t < book.lastTime {
		t = book.lastTime
	}
	book.lastTime = t
	return t
}

func (book *OrderBook) publish(logs ...*BookLog) {
	if len(logs) == 0 {
		return
	}

	book.publishLog.Publish(logs...)
	for _, log := range logs {
		if log.Type == LogTypeReject {
			logger.Debug("orderbook: order rejected",
				zap.String("order_id", log.OrderID),
				zap.String("reason", string(log.RejectReason)),
				zap.Uint64("size", log.Size),
			)
		}
		releaseBookLog(log)
	}
}
