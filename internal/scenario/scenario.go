package scenario

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/0x5487/orderbook"
	"github.com/quagmt/udecimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidStep = errors.New("invalid scenario step")
	ErrEmptyBook   = errors.New("no bids or asks in the book")
)

type Action string

const (
	ActionAdd      Action = "add"
	ActionCancel   Action = "cancel"
	ActionAmend    Action = "amend"
	ActionSnapshot Action = "snapshot"
)

const defaultSnapshotDepth = 10

type Scenario struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

type Step struct {
	Action   Action `yaml:"action"`
	ID       string `yaml:"id"`
	Side     string `yaml:"side"`
	Type     string `yaml:"type"`
	Price    string `yaml:"price"`
	Quantity uint64 `yaml:"quantity"`
	Depth    int    `yaml:"depth"`
}

// StepResult is what a single step produced. OK reports the boolean result of
// cancel and amend; adds are always OK.
type StepResult struct {
	Step   Step
	OK     bool
	Trades []orderbook.Trade
	Bids   []orderbook.PriceLevel
	Asks   []orderbook.PriceLevel
}

// Book is the subset of the order book a scenario drives.
type Book interface {
	AddOrder(order *orderbook.Order) []orderbook.Trade
	CancelOrder(id string) bool
	AmendOrder(id string, price udecimal.Decimal, quantity uint64) bool
	Snapshot(depth int) (bids []orderbook.PriceLevel, asks []orderbook.PriceLevel)
}

func Load(filePath string) (*Scenario, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", filePath, err)
	}
	return Parse(data)
}

// Parse decodes a scenario and checks every step before anything runs.
func Parse(data []byte) (*Scenario, error) {
	sc := &Scenario{}
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	for i, step := range sc.Steps {
		if err := step.validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return sc, nil
}

func (s Step) validate() error {
	switch s.Action {
	case ActionAdd:
		_, err := s.order()
		return err
	case ActionCancel:
		if s.ID == "" {
			return fmt.Errorf("cancel without id: %w", ErrInvalidStep)
		}
	case ActionAmend:
		if s.ID == "" {
			return fmt.Errorf("amend without id: %w", ErrInvalidStep)
		}
		if _, err := parsePrice(s.Price); err != nil {
			return err
		}
	case ActionSnapshot:
		if s.Depth < 0 {
			return fmt.Errorf("negative depth %d: %w", s.Depth, ErrInvalidStep)
		}
	default:
		return fmt.Errorf("unknown action %q: %w", s.Action, ErrInvalidStep)
	}
	return nil
}

func (s Step) order() (*orderbook.Order, error) {
	order := &orderbook.Order{
		ID:       s.ID,
		Quantity: s.Quantity,
	}

	switch strings.ToLower(s.Side) {
	case "buy", "b":
		order.Side = orderbook.Buy
	case "sell", "s":
		order.Side = orderbook.Sell
	default:
		return nil, fmt.Errorf("unknown side %q: %w", s.Side, ErrInvalidStep)
	}

	switch strings.ToLower(s.Type) {
	case "", "limit", "l":
		order.Type = orderbook.Limit
		price, err := parsePrice(s.Price)
		if err != nil {
			return nil, err
		}
		order.Price = price
	case "market", "m":
		order.Type = orderbook.Market
	default:
		return nil, fmt.Errorf("unknown order type %q: %w", s.Type, ErrInvalidStep)
	}

	return order, nil
}

func parsePrice(s string) (udecimal.Decimal, error) {
	price, err := udecimal.Parse(s)
	if err != nil {
		return udecimal.Zero, fmt.Errorf("bad price %q: %w", s, ErrInvalidStep)
	}
	return price, nil
}

// Run executes steps in order against book. It stops at the first invalid
// step and returns the results gathered so far.
func Run(book Book, steps []Step) ([]StepResult, error) {
	results := make([]StepResult, 0, len(steps))

	for i, step := range steps {
		if err := step.validate(); err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		result := StepResult{Step: step, OK: true}
		switch step.Action {
		case ActionAdd:
			order, _ := step.order()
			result.Trades = book.AddOrder(order)
		case ActionCancel:
			result.OK = book.CancelOrder(step.ID)
		case ActionAmend:
			price, _ := parsePrice(step.Price)
			result.OK = book.AmendOrder(step.ID, price, step.Quantity)
		case ActionSnapshot:
			depth := step.Depth
			if depth == 0 {
				depth = defaultSnapshotDepth
			}
			result.Bids, result.Asks = book.Snapshot(depth)
		}

		zap.L().Debug("scenario step",
			zap.Int("step", i+1),
			zap.String("action", string(step.Action)),
			zap.String("id", step.ID),
			zap.Bool("ok", result.OK),
			zap.Int("trades", len(result.Trades)),
		)
		results = append(results, result)
	}

	return results, nil
}
