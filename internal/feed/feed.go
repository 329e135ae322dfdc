// Package feed generates the synthetic live gold price stream.
package feed

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

const eventName = "gold-price-update"

// Quote is one synthetic price event, shaped for the front end's
// EventSource consumer.
type Quote struct {
	Event     string `json:"event"`
	GoldPrice string `json:"goldPrice"`
}

// Feed emits pseudo-random gold prices in [BasePrice, BasePrice+PriceRange)
// on a fixed cadence. Subscribers are fully independent; a Feed carries no
// state between ticks.
type Feed struct {
	BasePrice  float64
	PriceRange float64
	Interval   time.Duration
}

func New(basePrice, priceRange float64, interval time.Duration) *Feed {
	return &Feed{
		BasePrice:  basePrice,
		PriceRange: priceRange,
		Interval:   interval,
	}
}

// Subscribe registers one subscriber and returns its quote channel. The
// first quote is available immediately; one more follows per interval
// until ctx is done. The subscriber's ticker is stopped and the channel
// closed exactly once on teardown, and no send is ever attempted after
// close.
func (f *Feed) Subscribe(ctx context.Context) <-chan Quote {
	out := make(chan Quote, 1)
	out <- f.quote()

	go func() {
		defer close(out)
		ticker := time.NewTicker(f.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case out <- f.quote():
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

func (f *Feed) quote() Quote {
	price := f.BasePrice + rand.Float64()*f.PriceRange
	return Quote{
		Event:     eventName,
		GoldPrice: fmt.Sprintf("%.2f", price),
	}
}
