package types

// Candle is a single kline as returned by the exchange. Time is the open time
// in epoch milliseconds, kept exactly as the exchange reported it.
type Candle struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// PriceQuote holds the best bid and ask for a symbol.
type PriceQuote struct {
	Bid float64 `json:"bid"`
	Ask float64 `json:"ask"`
}

// Spread returns ask minus bid.
func (q PriceQuote) Spread() float64 {
	return q.Ask - q.Bid
}

// Balance is the per-asset account balance.
type Balance struct {
	Asset     string  `json:"asset"`
	Available float64 `json:"available"`
	Locked    float64 `json:"locked"`
}

