package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ducminhle1904/futures-connector/internal/exchange/binance"
)

func buildOrderRequest(f *cliFlags) (binance.OrderRequest, error) {
	qty, err := decimal.NewFromString(f.quantity)
	if err != nil {
		return binance.OrderRequest{}, fmt.Errorf("invalid -qty %q: %w", f.quantity, err)
	}

	req := binance.OrderRequest{
		Symbol:      strings.ToUpper(f.symbol),
		Side:        binance.OrderSide(strings.ToUpper(f.side)),
		Type:        binance.OrderType(strings.ToUpper(f.orderType)),
		Quantity:    qty,
		TimeInForce: binance.TimeInForce(strings.ToUpper(f.timeInForce)),
	}

	if f.price != "" {
		price, err := decimal.NewFromString(f.price)
		if err != nil {
			return binance.OrderRequest{}, fmt.Errorf("invalid -price %q: %w", f.price, err)
		}
		req.Price = &price
	}

	// LIMIT orders are rejected without a time in force
	if req.Type == binance.OrderTypeLimit && req.TimeInForce == "" {
		req.TimeInForce = binance.TimeInForceGTC
	}

	return req, req.Validate()
}
