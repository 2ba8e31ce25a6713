package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/0x5487/orderbook"
	"github.com/0x5487/orderbook/internal/config"
	"github.com/0x5487/orderbook/internal/render"
	"github.com/0x5487/orderbook/internal/scenario"
	"github.com/gammazero/deque"
	"github.com/quagmt/udecimal"
	"go.uber.org/zap"
)

// Console drives an order book from line-oriented input. Order IDs are
// assigned sequentially from 1.
type Console struct {
	book     *orderbook.OrderBook
	renderer *render.Renderer
	in       *bufio.Scanner
	out      io.Writer
	depth    int
	seed     bool
	nextID   func() string
	tape     *deque.Deque[orderbook.Trade]
	tapeSize int
}

func New(book *orderbook.OrderBook, cfg *config.AppConfig, in io.Reader, out io.Writer) *Console {
	return &Console{
		book:     book,
		renderer: render.New(out, cfg.Color),
		in:       bufio.NewScanner(in),
		out:      out,
		depth:    cfg.Depth,
		seed:     cfg.SeedDefaultOrders,
		nextID:   scenario.Sequence(1),
		tape:     new(deque.Deque[orderbook.Trade]),
		tapeSize: cfg.TradeTapeSize,
	}
}

// Run seeds the book if configured and serves the menu until Q or end of
// input.
func (c *Console) Run() error {
	if c.seed {
		if err := c.seedDefaultOrders(); err != nil {
			return err
		}
	}

	c.printf("=== INTERACTIVE ORDER BOOK %s ===\n", orderbook.EngineVersion)
	c.renderer.Book(c.book, c.depth)

	for {
		c.printMenu()
		input, ok := c.readLine()
		if !ok {
			return c.in.Err()
		}
		if input == "" {
			continue
		}

		switch strings.ToLower(input[:1]) {
		case "a":
			c.addOrder()
		case "c":
			c.cancelOrder()
		case "m":
			c.amendOrder()
		case "v":
			c.renderer.Book(c.book, c.depth)
		case "t":
			c.testScenario()
		case "r":
			c.recentTrades()
		case "q":
			c.printf("Bye.\n")
			return nil
		default:
			c.printf("Invalid choice. Please try again.\n")
		}
	}
}

func (c *Console) seedDefaultOrders() error {
	steps := scenario.DefaultMarket(c.nextID)
	c.printf("Loading %d default orders...\n", len(steps))

	results, err := scenario.Run(c.book, steps)
	if err != nil {
		return fmt.Errorf("seed default orders: %w", err)
	}
	for _, result := range results {
		c.record(result.Trades)
	}

	c.printf("Market initialized with %d orders\n", len(steps))
	return nil
}

func (c *Console) printMenu() {
	c.printf("\n=== MENU ===\n")
	c.printf("A - Add new order\n")
	c.printf("C - Cancel order\n")
	c.printf("M - Amend order\n")
	c.printf("V - View order book\n")
	c.printf("T - Test matching scenario\n")
	c.printf("R - Recent trades\n")
	c.printf("Q - Quit\n")
	c.printf("Choice: ")
}

func (c *Console) addOrder() {
	c.printf("\n=== ADD NEW ORDER ===\n")
	order := &orderbook.Order{}

	c.printf("Order type (M for Market, L for Limit): ")
	switch c.readChoice() {
	case "m":
		order.Type = orderbook.Market
		c.printf("Creating MARKET order\n")
	case "l":
		order.Type = orderbook.Limit
		c.printf("Creating LIMIT order\n")
	default:
		c.printf("Invalid order type.\n")
		return
	}

	c.printf("Order side (B for Buy, S for Sell): ")
	switch c.readChoice() {
	case "b":
		order.Side = orderbook.Buy
		c.printf("Creating BUY order\n")
	case "s":
		order.Side = orderbook.Sell
		c.printf("Creating SELL order\n")
	default:
		c.printf("Invalid order side.\n")
		return
	}

	if order.Type == orderbook.Limit {
		c.printf("Price: ")
		price, err := c.readPrice()
		if err != nil {
			c.printf("Invalid price.\n")
			return
		}
		order.Price = price
	} else if order.Side == orderbook.Buy {
		c.printf("Market BUY will execute at best ask: %s\n", quote(c.book.BestAsk()))
	} else {
		c.printf("Market SELL will execute at best bid: %s\n", quote(c.book.BestBid()))
	}

	c.printf("Quantity: ")
	quantity, err := c.readQuantity()
	if err != nil || quantity == 0 {
		c.printf("Invalid quantity.\n")
		return
	}
	order.Quantity = quantity

	order.ID = c.nextID()
	c.printf("Adding order ID: %s (%s)\n", order.ID, strings.ToUpper(string(order.Type)))

	trades := c.submit(order)
	if len(trades) == 0 {
		if order.Type == orderbook.Market {
			c.printf("Market order fully executed or no liquidity available.\n")
		} else {
			c.printf("Limit order placed in the book.\n")
		}
	}

	c.renderer.Book(c.book, c.depth)
}

func (c *Console) cancelOrder() {
	c.printf("\n=== CANCEL ORDER ===\n")
	c.printf("Order ID to cancel: ")

	id, err := c.readID()
	if err != nil {
		c.printf("Invalid order ID.\n")
	} else if c.book.CancelOrder(id) {
		c.printf("Order %s cancelled successfully.\n", id)
	} else {
		c.printf("Order %s not found.\n", id)
	}

	c.renderer.Book(c.book, c.depth)
}

func (c *Console) amendOrder() {
	c.printf("\n=== AMEND ORDER ===\n")
	c.printf("Order ID to amend: ")

	id, err := c.readID()
	if err != nil {
		c.printf("Invalid input.\n")
		c.renderer.Book(c.book, c.depth)
		return
	}
	if !c.book.OrderExists(id) {
		c.printf("Order %s not found.\n", id)
		return
	}

	c.printf("New price: ")
	price, err := c.readPrice()
	if err != nil {
		c.printf("Invalid input.\n")
		c.renderer.Book(c.book, c.depth)
		return
	}

	c.printf("New quantity: ")
	quantity, err := c.readQuantity()
	if err != nil {
		c.printf("Invalid input.\n")
		c.renderer.Book(c.book, c.depth)
		return
	}

	if c.book.AmendOrder(id, price, quantity) {
		c.printf("Order %s amended successfully.\n", id)
	} else {
		c.printf("Failed to amend order %s.\n", id)
	}

	c.renderer.Book(c.book, c.depth)
}

func (c *Console) testScenario() {
	c.printf("\n=== TEST MATCHING SCENARIOS ===\n")
	for a := scenario.MarketBuy; a <= scenario.AggressiveLimitSell; a++ {
		c.printf("%d. %s\n", int(a), a)
	}
	c.printf("Choice: ")

	input, _ := c.readLine()
	n, err := strconv.Atoi(input)
	if err != nil || n < int(scenario.MarketBuy) || n > int(scenario.AggressiveLimitSell) {
		c.printf("Invalid choice.\n")
		return
	}

	order, err := scenario.Aggressive(n).Order(c.book)
	if errors.Is(err, scenario.ErrEmptyBook) {
		c.printf("No bids or asks in the book.\n")
		return
	}
	if err != nil {
		c.printf("%v\n", err)
		return
	}
	order.ID = c.nextID()

	if order.Type == orderbook.Market {
		c.printf("Adding MARKET %s for %d units\n", strings.ToUpper(order.Side.String()), order.Quantity)
	} else {
		c.printf("Adding aggressive LIMIT %s at %s for %d units\n", strings.ToUpper(order.Side.String()), order.Price, order.Quantity)
	}

	c.submit(order)
	c.renderer.Book(c.book, c.depth)
}

func (c *Console) recentTrades() {
	if c.tape.Len() == 0 {
		c.printf("No trades yet.\n")
		return
	}

	trades := make([]orderbook.Trade, 0, c.tape.Len())
	for i := 0; i < c.tape.Len(); i++ {
		trades = append(trades, c.tape.At(i))
	}
	c.renderer.Trades(trades)
}

func (c *Console) submit(order *orderbook.Order) []orderbook.Trade {
	trades := c.book.AddOrder(order)
	zap.L().Debug("order submitted",
		zap.String("order_id", order.ID),
		zap.String("side", order.Side.String()),
		zap.String("type", string(order.Type)),
		zap.Uint64("quantity", order.Quantity),
		zap.Int("trades", len(trades)),
	)

	if len(trades) > 0 {
		c.renderer.Trades(trades)
		c.record(trades)
	}
	return trades
}

// record keeps the last tapeSize trades.
func (c *Console) record(trades []orderbook.Trade) {
	for _, trade := range trades {
		c.tape.PushBack(trade)
		for c.tape.Len() > c.tapeSize {
			c.tape.PopFront()
		}
	}
}

func (c *Console) readLine() (string, bool) {
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *Console) readChoice() string {
	input, _ := c.readLine()
	if input == "" {
		return ""
	}
	return strings.ToLower(input[:1])
}

func (c *Console) readID() (string, error) {
	input, _ := c.readLine()
	if _, err := strconv.ParseUint(input, 10, 64); err != nil {
		return "", err
	}
	return input, nil
}

func (c *Console) readPrice() (udecimal.Decimal, error) {
	input, _ := c.readLine()
	return udecimal.Parse(input)
}

func (c *Console) readQuantity() (uint64, error) {
	input, _ := c.readLine()
	return strconv.ParseUint(input, 10, 64)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func quote(price udecimal.Decimal, ok bool) string {
	if !ok {
		return "none"
	}
	return price.String()
}
