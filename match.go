package orderbook

import (
	"github.com/quagmt/udecimal"
	"github.com/rs/xid"
)

// AddOrder submits an order and returns the trades it produced, in execution order.
//
// If order.ID is empty a new ID is allocated and written back to order.ID.
// An order whose ID is already resting in the book is dropped and nil is
// returned, as is an order with zero quantity, a quantity above
// MaxOrderQuantity, or an unknown side or type. A limit order that would push
// its own level past MaxOrderQuantity is dropped the same way; such an order
// cannot trade, since a resting level at its price means it does not cross.
// The caller's order is never mutated beyond ID and Timestamp; the book keeps
// its own copy of any unfilled remainder.
//
// Market orders trade against the opposite side until filled or until the
// side is empty; any remainder is discarded. Limit orders trade while they are
// marketable and rest the remainder at their own price.
func (book *OrderBook) AddOrder(order *Order) []Trade {
	if order == nil {
		return nil
	}

	if len(order.ID) == 0 {
		order.ID = xid.New().String()
	}

	now := book.now()

	if _, ok := book.ledger.lookup(order.ID); ok {
		book.publish(newRejectLog(book.nextSeqID(), order, order.Quantity, RejectReasonDuplicateOrderID, now))
		return nil
	}

	if !isValidOrder(order) || (order.Type == Limit && !book.index(order.Side).fits(order.Price, order.Quantity, nil)) {
		book.publish(newRejectLog(book.nextSeqID(), order, order.Quantity, RejectReasonInvalidOrder, now))
		return nil
	}

	order.Timestamp = now
	taker := &Order{
		ID:        order.ID,
		Side:      order.Side,
		Type:      order.Type,
		Price:     order.Price,
		Quantity:  order.Quantity,
		Timestamp: now,
	}

	var trades []Trade
	logs := make([]*BookLog, 0, defaultLogCapacity)
	targetIndex := book.index(taker.Side.Opposite())

	for taker.Quantity > 0 {
		bestPrice, ok := targetIndex.bestPrice()
		if !ok {
			break
		}

		if taker.Type == Limit && !isMarketable(taker, bestPrice) {
			break
		}

		trades, logs = book.matchAtPrice(taker, targetIndex, bestPrice, trades, logs)
	}

	if taker.Quantity > 0 {
		switch taker.Type {
		case Limit:
			book.ledger.insert(taker)
			book.index(taker.Side).add(taker)
			book.refreshMaxQuantities()
			logs = append(logs, newOpenLog(book.nextSeqID(), taker, now))
		case Market:
			logs = append(logs, newRejectLog(book.nextSeqID(), taker, taker.Quantity, RejectReasonNoLiquidity, book.now()))
		}
	}

	book.publish(logs...)
	return trades
}

// matchAtPrice fills the taker against the resting orders at exactly price,
// oldest first, until the taker is filled or the level is exhausted.
func (book *OrderBook) matchAtPrice(taker *Order, targetIndex *sideIndex, price udecimal.Decimal, trades []Trade, logs []*BookLog) ([]Trade, []*BookLog) {
	unit := targetIndex.unit(price)
	if unit == nil {
		return trades, logs
	}

	for maker := unit.head; maker != nil && taker.Quantity > 0; {
		next := maker.next

		quantity := min(taker.Quantity, maker.Quantity)
		trade := Trade{
			Price:     price,
			Quantity:  quantity,
			Timestamp: book.now(),
		}
		if taker.Side == Buy {
			trade.BuyOrderID = taker.ID
			trade.SellOrderID = maker.ID
		} else {
			trade.BuyOrderID = maker.ID
			trade.SellOrderID = taker.ID
		}
		trades = append(trades, trade)

		taker.Quantity -= quantity
		maker.Quantity -= quantity
		targetIndex.reduce(price, quantity)

		if maker.Quantity == 0 {
			book.ledger.remove(maker.ID)
			targetIndex.removeOrderCount(maker)
		}

		book.tradeID++
		logs = append(logs, newMatchLog(book.nextSeqID(), book.tradeID, taker, maker, &trade))

		maker = next
	}

	book.refreshMaxQuantities()
	return trades, logs
}

// isMarketable reports whether a limit order crosses the opposite best price.
func isMarketable(order *Order, bestPrice udecimal.Decimal) bool {
	if order.Side == Buy {
		return bestPrice.Cmp(order.Price) <= 0
	}
	return bestPrice.Cmp(order.Price) >= 0
}

func isValidOrder(order *Order) bool {
	if order.Quantity == 0 || order.Quantity > MaxOrderQuantity {
		return false
	}
	if order.Side != Buy && order.Side != Sell {
		return false
	}
	return order.Type == Limit || order.Type == Market
}
