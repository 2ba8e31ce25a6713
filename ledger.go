package orderbook

// orderLedger owns the canonical state of every resting order, keyed by order ID.
type orderLedger struct {
	orders map[string]*Order
}

func newOrderLedger() *orderLedger {
	return &orderLedger{
		orders: make(map[string]*Order),
	}
}

// insert stores the order. It returns false and leaves the ledger untouched
// if the ID is already present.
func (l *orderLedger) insert(order *Order) bool {
	if _, ok := l.orders[order.ID]; ok {
		return false
	}
	l.orders[order.ID] = order
	return true
}

func (l *orderLedger) lookup(id string) (*Order, bool) {
	order, ok := l.orders[id]
	return order, ok
}

func (l *orderLedger) remove(id string) {
	delete(l.orders, id)
}

func (l *orderLedger) len() int {
	return len(l.orders)
}
