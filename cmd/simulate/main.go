// Command simulate feeds a batch of random orders into a fresh exchange and
// reports every submission, the trades it produced, the book after it, and
// a final summary.
package main

import (
	"flag"
	"fmt"
	"time"

	"matchbox/bots"
	"matchbox/engine"
	"matchbox/exchange"
)

func main() {
	orders := flag.Int("orders", 10, "number of random orders to submit")
	basePrice := flag.Float64("base-price", 100, "price the random flow clusters around")
	priceRange := flag.Float64("price-range", 2, "half-width of the limit price band")
	seed := flag.Int64("seed", time.Now().UnixNano(), "seed for the random order stream")
	flag.Parse()

	ex := exchange.New()
	defer ex.Stop()

	trader := bots.NewRandomTrader(*seed)
	trader.BasePrice = *basePrice
	trader.PriceRange = *priceRange

	for i := 0; i < *orders; i++ {
		order := trader.Next()
		fmt.Printf("Submitting order %d: %s\n", i+1, describeOrder(order))

		trades := ex.Submit(order)
		if len(trades) == 0 {
			fmt.Println("No trade.")
		}
		for _, trade := range trades {
			fmt.Printf("Trade occurred! buy=%d sell=%d price=%.2f qty=%.4f\n",
				trade.BuyOrderID, trade.SellOrderID, trade.Price, trade.Quantity)
		}

		printBook(ex.BookSnapshot())
		fmt.Println("---")
	}

	stats := ex.Stats()
	fmt.Println("===================")
	fmt.Println("Summary:")
	fmt.Printf("Total trades: %d\n", stats.TotalTrades)
	fmt.Printf("Total buy volume: %.4f\n", stats.TotalVolume)
	fmt.Printf("Total sell volume: %.4f\n", stats.TotalVolume)
	fmt.Printf("Net buy P&L: %.2f\n", stats.BuyNotional)
	fmt.Printf("Net sell P&L: %.2f\n", stats.SellNotional)
}

func describeOrder(order engine.Order) string {
	if order.Type == engine.Limit {
		return fmt.Sprintf("%s %s %.2f x %.4f", order.Side, order.Type, order.Price, order.Quantity)
	}
	return fmt.Sprintf("%s %s x %.4f", order.Side, order.Type, order.Quantity)
}

func printBook(snap engine.BookSnapshot) {
	fmt.Print("Book bids: ")
	printSide(snap.Bids)
	fmt.Print("Book asks: ")
	printSide(snap.Asks)
}

func printSide(levels []engine.LevelSnapshot) {
	if len(levels) == 0 {
		fmt.Println("(empty)")
		return
	}
	for i, lvl := range levels {
		if i > 0 {
			fmt.Print(", ")
		}
		fmt.Printf("%.2f:[", lvl.Price)
		for j, o := range lvl.Orders {
			if j > 0 {
				fmt.Print(" ")
			}
			fmt.Printf("#%d %.4f", o.ID, o.Quantity)
		}
		fmt.Print("]")
	}
	fmt.Println()
}
