package orderbook

import (
	"github.com/huandu/skiplist"
	"github.com/quagmt/udecimal"
)

// priceUnit is a single price level. Orders at the level are kept in arrival
// order through the intrusive next/prev pointers on Order.
type priceUnit struct {
	price         udecimal.Decimal
	totalQuantity uint64
	count         int64
	head          *Order
	tail          *Order
}

// sideIndex is the price-sorted aggregate for one side of the book.
type sideIndex struct {
	side        Side
	totalOrders int64
	maxQuantity uint64
	levels      *skiplist.SkipList
}

// newBidIndex creates the index for buy orders.
// Levels are sorted by price in descending order (highest price first).
func newBidIndex() *sideIndex {
	return &sideIndex{
		side: Buy,
		levels: skiplist.New(skiplist.GreaterThanFunc(func(lhs, rhs any) int {
			d1, _ := lhs.(udecimal.Decimal)
			d2, _ := rhs.(udecimal.Decimal)
			return d2.Cmp(d1)
		})),
	}
}

// newAskIndex creates the index for sell orders.
// Levels are sorted by price in ascending order (lowest price first).
func newAskIndex() *sideIndex {
	return &sideIndex{
		side: Sell,
		levels: skiplist.New(skiplist.GreaterThanFunc(func(lhs, rhs any) int {
			d1, _ := lhs.(udecimal.Decimal)
			d2, _ := rhs.(udecimal.Decimal)
			return d1.Cmp(d2)
		})),
	}
}

// unit returns the level at price, or nil. Lookup goes through the skiplist
// comparator, so prices that differ only in trailing zeros share a level.
func (s *sideIndex) unit(price udecimal.Decimal) *priceUnit {
	el := s.levels.Get(price)
	if el == nil {
		return nil
	}
	unit, _ := el.Value.(*priceUnit)
	return unit
}

// bestPrice returns the first price in side order.
func (s *sideIndex) bestPrice() (udecimal.Decimal, bool) {
	el := s.levels.Front()
	if el == nil {
		return udecimal.Zero, false
	}
	unit, _ := el.Value.(*priceUnit)
	return unit.price, true
}

// add appends the order to the back of its price level, creating the level if
// needed. The aggregate grows by the order's quantity and the count by one.
func (s *sideIndex) add(order *Order) {
	unit := s.unit(order.Price)
	if unit == nil {
		unit = &priceUnit{price: order.Price}
		s.levels.Set(order.Price, unit)
	}

	order.prev = unit.tail
	order.next = nil
	if unit.tail != nil {
		unit.tail.next = order
	}
	unit.tail = order
	if unit.head == nil {
		unit.head = order
	}

	unit.totalQuantity += order.Quantity
	unit.count++
	s.totalOrders++
}

// reduce decrements the aggregate at price by qty. A level whose aggregate
// reaches zero is removed entirely. The order count is left to the caller.
func (s *sideIndex) reduce(price udecimal.Decimal, qty uint64) {
	el := s.levels.Get(price)
	if el == nil {
		return
	}
	unit, _ := el.Value.(*priceUnit)

	if unit.totalQuantity <= qty {
		s.removeLevel(el)
		return
	}
	unit.totalQuantity -= qty
}

// removeOrderCount unlinks the order from its level and decrements the count.
// If the count would drop to zero the level is removed.
func (s *sideIndex) removeOrderCount(order *Order) {
	el := s.levels.Get(order.Price)
	if el == nil {
		// level already withdrawn by reduce
		order.next = nil
		order.prev = nil
		return
	}
	unit, _ := el.Value.(*priceUnit)

	if order.prev != nil {
		order.prev.next = order.next
	} else if unit.head == order {
		unit.head = order.next
	}

	if order.next != nil {
		order.next.prev = order.prev
	} else if unit.tail == order {
		unit.tail = order.prev
	}

	order.next = nil
	order.prev = nil

	unit.count--
	s.totalOrders--

	if unit.count <= 0 {
		s.removeLevel(el)
	}
}

// fits reports whether quantity can join the level at price without the
// aggregate exceeding MaxOrderQuantity. A resting order being moved or resized
// is passed as except and its current quantity is not counted.
func (s *sideIndex) fits(price udecimal.Decimal, quantity uint64, except *Order) bool {
	if quantity > MaxOrderQuantity {
		return false
	}

	unit := s.unit(price)
	if unit == nil {
		return true
	}

	total := unit.totalQuantity
	if except != nil && except.Price.Equal(price) {
		total -= except.Quantity
	}
	return quantity <= MaxOrderQuantity-total
}

// resize changes a resting order's quantity in place, keeping its position in
// the level. The level's count is unchanged.
func (s *sideIndex) resize(order *Order, quantity uint64) {
	unit := s.unit(order.Price)
	if unit == nil {
		return
	}
	unit.totalQuantity = unit.totalQuantity - order.Quantity + quantity
	order.Quantity = quantity
}

func (s *sideIndex) removeLevel(el *skiplist.Element) {
	unit, _ := el.Value.(*priceUnit)

	for o := unit.head; o != nil; {
		next := o.next
		o.next = nil
		o.prev = nil
		o = next
	}

	s.totalOrders -= unit.count
	s.levels.RemoveElement(el)
}

// depth returns up to limit levels in side order.
func (s *sideIndex) depth(limit int) []PriceLevel {
	if limit <= 0 {
		return []PriceLevel{}
	}

	size := s.levels.Len()
	if limit < size {
		size = limit
	}
	result := make([]PriceLevel, 0, size)

	for el := s.levels.Front(); el != nil && len(result) < limit; el = el.Next() {
		unit, _ := el.Value.(*priceUnit)
		result = append(result, PriceLevel{
			Price:         unit.price,
			TotalQuantity: unit.totalQuantity,
			OrderCount:    unit.count,
		})
	}

	return result
}

// refreshMaxQuantity rescans every level for the largest aggregate.
func (s *sideIndex) refreshMaxQuantity() {
	var largest uint64
	for el := s.levels.Front(); el != nil; el = el.Next() {
		unit, _ := el.Value.(*priceUnit)
		if unit.totalQuantity > largest {
			largest = unit.totalQuantity
		}
	}
	s.maxQuantity = largest
}

// orderCount returns the total number of orders on this side.
func (s *sideIndex) orderCount() int64 {
	return s.totalOrders
}

// depthCount returns the number of price levels on this side.
func (s *sideIndex) depthCount() int64 {
	return int64(s.levels.Len())
}
