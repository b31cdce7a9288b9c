// Command loadgen measures matching throughput by pumping a deterministic
// random order stream through an exchange.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime/pprof"
	"time"

	"matchbox/engine"
	"matchbox/exchange"
)

func main() {
	totalOrders := flag.Int("orders", 500000, "number of orders to submit")
	basePrice := flag.Float64("base-price", 10000, "mid price used for randomization")
	priceWidth := flag.Float64("price-width", 100, "price band around the mid")
	marketRatio := flag.Int("market-ratio", 5, "1 in N orders will be market instead of limit")
	seed := flag.Int64("seed", time.Now().UnixNano(), "seed for deterministic random streams")
	cpuProfile := flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile := flag.String("memprofile", "", "write heap profile to file")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			panic(err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer pprof.StopCPUProfile()
	}

	ex := exchange.New()

	matches := 0
	start := time.Now()
	for i := 0; i < *totalOrders; i++ {
		order := nextRandomOrder(rng, *basePrice, *priceWidth, *marketRatio)
		matches += len(ex.Submit(order))
	}
	elapsed := time.Since(start)

	stats := ex.Stats()
	ex.Stop()

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err == nil {
			defer f.Close()
			_ = pprof.WriteHeapProfile(f)
		}
	}

	ordersPerSec := float64(*totalOrders) / elapsed.Seconds()
	tradesPerSec := float64(matches) / elapsed.Seconds()

	fmt.Printf("submitted %d orders in %s (%.0f orders/s)\n", *totalOrders, elapsed.Truncate(time.Millisecond), ordersPerSec)
	fmt.Printf("matched %d trades (%.0f trades/s), volume %.0f\n", matches, tradesPerSec, stats.TotalVolume)
	fmt.Printf("config: base=%.0f width=%.0f market-ratio=1/%d seed=%d\n", *basePrice, *priceWidth, *marketRatio, *seed)
}

func nextRandomOrder(rng *rand.Rand, mid, width float64, marketRatio int) engine.Order {
	side := engine.Side(rng.Intn(2))

	var price float64
	if side == engine.Buy {
		price = mid + rng.Float64()*width
	} else {
		price = mid - rng.Float64()*width
		if price <= 0 {
			price = 0.01
		}
	}

	otype := engine.Limit
	if marketRatio > 0 && rng.Intn(marketRatio) == 0 {
		otype = engine.Market
		price = 0
	}

	return engine.Order{
		Side:     side,
		Type:     otype,
		Price:    price,
		Quantity: float64(rng.Int63n(5) + 1),
	}
}
