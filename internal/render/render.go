package render

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/0x5487/orderbook"
	"github.com/0x5487/orderbook/internal/config"
	"github.com/mattn/go-isatty"
	"github.com/quagmt/udecimal"
)

const (
	cyan    = "\033[36m"
	magenta = "\033[35m"
	gray    = "\033[90m"
	white   = "\033[97m"
	bold    = "\033[1m"
	reset   = "\033[0m"
)

const (
	barWidth = 20
	barGlyph = "•"
)

// Book is the read-only view the renderer needs.
type Book interface {
	Snapshot(depth int) (bids []orderbook.PriceLevel, asks []orderbook.PriceLevel)
	BestBid() (udecimal.Decimal, bool)
	BestAsk() (udecimal.Decimal, bool)
	OrderCount() int
	MaxQuantity(side orderbook.Side) uint64
}

type Renderer struct {
	w     io.Writer
	color bool
	now   func() time.Time
}

// New creates a renderer writing to w. In auto mode colors are enabled only
// when w is a terminal.
func New(w io.Writer, colorMode string) *Renderer {
	return &Renderer{
		w:     w,
		color: useColor(w, colorMode),
		now:   time.Now,
	}
}

func useColor(w io.Writer, colorMode string) bool {
	switch colorMode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}

	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (r *Renderer) paint(code string, s string) string {
	if !r.color {
		return s
	}
	return code + s + reset
}

// Book prints a depth-limited view of the book: a header, the best prices
// with spread, then asks from the highest price down followed by bids.
func (r *Renderer) Book(book Book, depth int) {
	bids, asks := book.Snapshot(depth)

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(r.paint(bold+white, "══════════════════════════════ ORDER BOOK SNAPSHOT ══════════════════════════════"))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%s%s%s%s%s%s\n\n",
		r.paint(gray, "Captured at: "), r.paint(white, r.now().Format(time.ANSIC)),
		r.paint(gray, " | Depth: "), r.paint(white, strconv.Itoa(depth)),
		r.paint(gray, " | Total Orders: "), r.paint(white, strconv.Itoa(book.OrderCount())),
	)

	bestBid, hasBid := book.BestBid()
	bestAsk, hasAsk := book.BestAsk()
	if hasBid && hasAsk {
		spread := bestAsk.Sub(bestBid)
		spreadText := fmt.Sprintf("  |  Spread: %.2f", toFloat(spread))
		// no percentage against a zero bid
		if !bestBid.IsZero() {
			spreadText += fmt.Sprintf(" (%.2f%%)", toFloat(spread)/toFloat(bestBid)*100.0)
		}
		fmt.Fprintf(&sb, "%s%s%s%s%s%s\n\n",
			r.paint(bold+cyan, "Best Bid "), r.paint(white, bestBid.String()),
			r.paint(gray, "  |  "), r.paint(magenta, "Best Ask "), r.paint(white, bestAsk.String()),
			r.paint(gray, spreadText),
		)
	}

	sb.WriteString(r.paint(bold+magenta, "─── ASK SIDE (SELLERS)"))
	sb.WriteString("\n")
	sb.WriteString(r.paint(gray, "Price        Qty        Orders       Depth"))
	sb.WriteString("\n")
	if len(asks) == 0 {
		sb.WriteString(r.paint(gray, "  No active asks"))
		sb.WriteString("\n")
	}
	maxAsk := book.MaxQuantity(orderbook.Sell)
	for i := len(asks) - 1; i >= 0; i-- {
		r.writeLevel(&sb, asks[i], maxAsk, magenta)
	}

	sb.WriteString("\n")
	sb.WriteString(r.paint(bold+cyan, "─── BID SIDE (BUYERS)"))
	sb.WriteString("\n")
	sb.WriteString(r.paint(gray, "Price        Qty        Orders       Depth"))
	sb.WriteString("\n")
	if len(bids) == 0 {
		sb.WriteString(r.paint(gray, "  No active bids"))
		sb.WriteString("\n")
	}
	maxBid := book.MaxQuantity(orderbook.Buy)
	for _, level := range bids {
		r.writeLevel(&sb, level, maxBid, cyan)
	}

	_, _ = io.WriteString(r.w, sb.String())
}

func (r *Renderer) writeLevel(sb *strings.Builder, level orderbook.PriceLevel, maxQuantity uint64, code string) {
	fmt.Fprintf(sb, "%s%s%s%s\n",
		r.paint(code, fmt.Sprintf("%8.2f  ", toFloat(level.Price))),
		r.paint(white, fmt.Sprintf("%8d   ", level.TotalQuantity)),
		r.paint(gray, fmt.Sprintf("%4d    ", level.OrderCount)),
		r.paint(code, Bar(level.TotalQuantity, maxQuantity)),
	)
}

// Trades prints executed trades in a framed block. Nothing is printed for an
// empty slice.
func (r *Renderer) Trades(trades []orderbook.Trade) {
	if len(trades) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString("*************** TRADES EXECUTED ***************\n")
	for _, trade := range trades {
		fmt.Fprintf(&sb, "* BUY: %6s SELL: %6s PRICE: %8.2f QTY: %6d *\n",
			trade.BuyOrderID, trade.SellOrderID, toFloat(trade.Price), trade.Quantity)
	}
	sb.WriteString("***********************************************\n")

	_, _ = io.WriteString(r.w, sb.String())
}

// Bar returns the depth bar for a level, scaled so the largest level on
// the side is barWidth glyphs wide.
func Bar(quantity uint64, maxQuantity uint64) string {
	if maxQuantity == 0 {
		return ""
	}
	if quantity > maxQuantity {
		quantity = maxQuantity
	}
	// float keeps quantity*barWidth from overflowing
	return strings.Repeat(barGlyph, int(float64(quantity)/float64(maxQuantity)*barWidth))
}

// toFloat is for display formatting only.
func toFloat(d udecimal.Decimal) float64 {
	f, _ := strconv.ParseFloat(d.String(), 64)
	return f
}
