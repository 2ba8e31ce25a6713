package scenario

import "strconv"

type seed struct {
	side     string
	price    string
	quantity uint64
}

// key bid/ask levels plus clusters at the 99.5 support and 101.0 resistance
var defaultMarket = []seed{
	{"buy", "100.0", 1000},
	{"buy", "99.9", 250},
	{"buy", "99.8", 500},
	{"buy", "99.7", 750},
	{"buy", "99.6", 300},
	{"buy", "99.5", 1200},
	{"buy", "99.4", 400},
	{"buy", "99.3", 600},
	{"buy", "99.2", 200},
	{"buy", "99.1", 450},
	{"buy", "99.0", 800},

	{"sell", "100.1", 200},
	{"sell", "100.2", 450},
	{"sell", "100.3", 600},
	{"sell", "100.4", 300},
	{"sell", "100.5", 800},
	{"sell", "100.6", 400},
	{"sell", "100.7", 950},
	{"sell", "100.8", 250},
	{"sell", "100.9", 550},
	{"sell", "101.0", 1200},

	{"buy", "99.5", 300},
	{"buy", "99.5", 200},
	{"sell", "101.0", 400},
	{"sell", "101.0", 350},
}

// DefaultMarket returns the seed orders as add steps with IDs assigned from
// nextID upward.
func DefaultMarket(nextID func() string) []Step {
	steps := make([]Step, 0, len(defaultMarket))
	for _, s := range defaultMarket {
		steps = append(steps, Step{
			Action:   ActionAdd,
			ID:       nextID(),
			Side:     s.side,
			Type:     "limit",
			Price:    s.price,
			Quantity: s.quantity,
		})
	}
	return steps
}

// Sequence returns an ID generator counting up from start.
func Sequence(start uint64) func() string {
	next := start
	return func() string {
		id := strconv.FormatUint(next, 10)
		next++
		return id
	}
}
