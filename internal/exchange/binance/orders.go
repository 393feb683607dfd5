package binance

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ducminhle1904/futures-connector/internal/monitoring"
)

const pathOrder = "/fapi/v1/order"

// ErrInvalidOrder is returned by PlaceOrder for a request that cannot be sent.
var ErrInvalidOrder = errors.New("invalid order request")

// Validate checks the fields every order type needs.
func (r OrderRequest) Validate() error {
	if strings.TrimSpace(r.Symbol) == "" {
		return errors.Wrap(ErrInvalidOrder, "symbol is required")
	}
	if r.Side != OrderSideBuy && r.Side != OrderSideSell {
		return errors.Wrapf(ErrInvalidOrder, "unknown side %q", r.Side)
	}
	if r.Type == "" {
		return errors.Wrap(ErrInvalidOrder, "order type is required")
	}
	if !r.Quantity.IsPositive() {
		return errors.Wrapf(ErrInvalidOrder, "quantity must be positive, got %s", r.Quantity)
	}
	return nil
}

func (r OrderRequest) params() Params {
	params := Params{}.
		Add("symbol", r.Symbol).
		Add("side", string(r.Side)).
		Add("type", string(r.Type)).
		Add("quantity", r.Quantity.String())

	if r.Price != nil {
		params = params.Add("price", r.Price.String())
	}
	if r.TimeInForce != "" {
		params = params.Add("timeInForce", string(r.TimeInForce))
	}
	return params
}

// GetOrderStatus queries an order by exchange order id.
func (c *Client) GetOrderStatus(ctx context.Context, orderID int64, symbol string) (*Order, error) {
	params := Params{}.
		Add("orderId", strconv.FormatInt(orderID, 10)).
		Add("symbol", symbol)

	body, err := c.signedRequest(ctx, http.MethodGet, pathOrder, params)
	if err != nil {
		return nil, err
	}
	return decodeOrder(body)
}

// PlaceOrder submits a new order. It is never retried; a nil order means the
// exchange did not accept it.
func (c *Client) PlaceOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body, err := c.signedRequest(ctx, http.MethodPost, pathOrder, req.params())
	if err != nil {
		monitoring.RecordOrder(req.Symbol, string(req.Side), "failed")
		return nil, err
	}

	order, err := decodeOrder(body)
	if err != nil {
		monitoring.RecordOrder(req.Symbol, string(req.Side), "failed")
		c.logger.WithError(err).WithField("symbol", req.Symbol).Error("Failed to place order")
		return nil, err
	}

	monitoring.RecordOrder(req.Symbol, string(req.Side), "placed")
	c.logger.WithFields(logrus.Fields{
		"orderId":  order.OrderID,
		"symbol":   order.Symbol,
		"side":     order.Side,
		"type":     order.Type,
		"quantity": order.OrigQty.String(),
		"price":    order.Price.String(),
		"status":   order.Status,
	}).Info("Order placed successfully")

	return order, nil
}

// CancelOrder cancels an open order by exchange order id.
func (c *Client) CancelOrder(ctx context.Context, symbol string, orderID int64) (*Order, error) {
	params := Params{}.
		Add("symbol", symbol).
		Add("orderId", strconv.FormatInt(orderID, 10))

	body, err := c.signedRequest(ctx, http.MethodDelete, pathOrder, params)
	if err != nil {
		return nil, err
	}

	order, err := decodeOrder(body)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"orderId": order.OrderID,
		"symbol":  order.Symbol,
		"status":  order.Status,
	}).Info("Order cancelled")

	return order, nil
}

func decodeOrder(body []byte) (*Order, error) {
	var order Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, errors.Wrap(err, "failed to decode order")
	}
	return &order, nil
}
