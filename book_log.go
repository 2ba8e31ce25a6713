package orderbook

import (
	"sync"

	"github.com/quagmt/udecimal"
)

type LogType string

const (
	LogTypeOpen   LogType = "open"
	LogTypeMatch  LogType = "match"
	LogTypeCancel LogType = "cancel"
	LogTypeAmend  LogType = "amend"
	LogTypeReject LogType = "reject"
)

// RejectReason represents the reason why an order was rejected.
type RejectReason string

const (
	RejectReasonNone             RejectReason = ""
	RejectReasonDuplicateOrderID RejectReason = "duplicate_order_id" // ID already known to the book
	RejectReasonInvalidOrder     RejectReason = "invalid_order"      // zero quantity, unknown side or type
	RejectReasonNoLiquidity      RejectReason = "no_liquidity"       // Market: remainder discarded
)

// BookLog represents an event in the order book.
// SequenceID increases by one for every event and is used by downstream
// consumers for ordering, deduplication and gap detection.
// Open, Match, Cancel and Amend affect book state; Reject does not.
type BookLog struct {
	SequenceID   uint64           `json:"seq_id"`
	TradeID      uint64           `json:"trade_id,omitempty"` // only set for Match events
	Type         LogType          `json:"type"`
	Side         Side             `json:"side"` // taker side for Match events
	Price        udecimal.Decimal `json:"price"`
	Size         uint64           `json:"size"`
	OldPrice     udecimal.Decimal `json:"old_price,omitempty"`
	OldSize      uint64           `json:"old_size,omitempty"`
	OrderID      string           `json:"order_id"`
	OrderType    OrderType        `json:"order_type,omitempty"`
	MakerOrderID string           `json:"maker_order_id,omitempty"`
	RejectReason RejectReason     `json:"reject_reason,omitempty"`
	CreatedAt    int64            `json:"created_at"` // book clock, nano
}

var bookLogPool = sync.Pool{
	New: func() any {
		return new(BookLog)
	},
}

func acquireBookLog() *BookLog {
	return bookLogPool.Get().(*BookLog)
}

func releaseBookLog(log *BookLog) {
	*log = BookLog{}
	bookLogPool.Put(log)
}

func newOpenLog(seqID uint64, order *Order, now int64) *BookLog {
	log := acquireBookLog()
	log.SequenceID = seqID
	log.Type = LogTypeOpen
	log.Side = order.Side
	log.Price = order.Price
	log.Size = order.Quantity
	log.OrderID = order.ID
	log.OrderType = order.Type
	log.CreatedAt = now
	return log
}

func newMatchLog(seqID uint64, tradeID uint64, taker *Order, maker *Order, trade *Trade) *BookLog {
	log := acquireBookLog()
	log.SequenceID = seqID
	log.TradeID = tradeID
	log.Type = LogTypeMatch
	log.Side = taker.Side
	log.Price = trade.Price
	log.Size = trade.Quantity
	log.OrderID = taker.ID
	log.OrderType = taker.Type
	log.MakerOrderID = maker.ID
	log.CreatedAt = trade.Timestamp
	return log
}

func newCancelLog(seqID uint64, order *Order, now int64) *BookLog {
	log := acquireBookLog()
	log.SequenceID = seqID
	log.Type = LogTypeCancel
	log.Side = order.Side
	log.Price = order.Price
	log.Size = order.Quantity
	log.OrderID = order.ID
	log.OrderType = order.Type
	log.CreatedAt = now
	return log
}

func newAmendLog(seqID uint64, order *Order, oldPrice udecimal.Decimal, oldSize uint64, now int64) *BookLog {
	log := acquireBookLog()
	log.SequenceID = seqID
	log.Type = LogTypeAmend
	log.Side = order.Side
	log.Price = order.Price
	log.Size = order.Quantity
	log.OldPrice = oldPrice
	log.OldSize = oldSize
	log.OrderID = order.ID
	log.OrderType = order.Type
	log.CreatedAt = now
	return log
}

func newRejectLog(seqID uint64, order *Order, size uint64, reason RejectReason, now int64) *BookLog {
	log := acquireBookLog()
	log.SequenceID = seqID
	log.Type = LogTypeReject
	log.Side = order.Side
	log.Price = order.Price
	log.Size = size
	log.OrderID = order.ID
	log.OrderType = order.Type
	log.RejectReason = reason
	log.CreatedAt = now
	return log
}
