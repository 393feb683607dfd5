package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ducminhle1904/futures-connector/internal/monitoring"
)

const pathServerTime = "/fapi/v1/time"

// ServerTime fetches the exchange clock in epoch milliseconds.
func (c *Client) ServerTime(ctx context.Context) (int64, error) {
	body, err := c.Execute(ctx, http.MethodGet, pathServerTime, nil)
	if err != nil {
		return 0, err
	}

	var resp struct {
		ServerTime int64 `json:"serverTime"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, errors.Wrap(err, "failed to decode server time")
	}
	if resp.ServerTime == 0 {
		return 0, errors.New("server time missing from response")
	}

	return resp.ServerTime, nil
}

// SyncTime measures serverTime - localTime and stores it as the offset used
// to stamp every signed request. It runs automatically before the first
// signed request; call it again to refresh a stale offset.
func (c *Client) SyncTime(ctx context.Context) (int64, error) {
	serverTime, err := c.ServerTime(ctx)
	localTime := c.nowMillis()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrClockSync, err)
	}

	offset := serverTime - localTime

	c.mu.Lock()
	c.timeOffset = offset
	c.offsetSet = true
	c.mu.Unlock()

	monitoring.SetClockOffset(offset)

	c.logger.WithFields(logrus.Fields{
		"server_time": serverTime,
		"local_time":  localTime,
		"difference":  fmt.Sprintf("%dms", offset),
	}).Info("Server time synchronized")

	return offset, nil
}

// TimeOffset returns the stored offset and whether it has been resolved.
func (c *Client) TimeOffset() (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeOffset, c.offsetSet
}

func (c *Client) ensureTimeOffset(ctx context.Context) (int64, error) {
	if offset, ok := c.TimeOffset(); ok {
		return offset, nil
	}
	return c.SyncTime(ctx)
}
