package binance

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ducminhle1904/futures-connector/internal/monitoring"
)

const formContentType = "application/x-www-form-urlencoded"

// Execute sends an HTTP request to path and returns the body of a 200
// response. GET params travel in the query string, POST and DELETE params in
// a form-encoded body; params are written in their given order either way.
//
// Any non-200 status is logged once and returned as a *RequestError. Nothing
// is retried.
func (c *Client) Execute(ctx context.Context, method, path string, params Params) ([]byte, error) {
	req := c.http.R().
		SetContext(ctx).
		SetHeader(APIKeyHeader, c.creds.APIKey)

	target := path
	switch method {
	case http.MethodGet:
		if query := params.Encode(); query != "" {
			target += "?" + query
		}
	case http.MethodPost, http.MethodDelete:
		req.SetHeader("Content-Type", formContentType).
			SetBody(params.Encode())
	default:
		return nil, errors.Wrapf(ErrInvalidMethod, "%s %s", method, path)
	}

	fields := logrus.Fields{
		"method": method,
		"path":   path,
	}

	start := time.Now()
	resp, err := req.Execute(method, target)
	monitoring.ObserveRequestDuration(method, path, time.Since(start))

	if err != nil {
		monitoring.RecordRequest(method, path, "error")
		c.logger.WithFields(fields).WithError(err).Error("Request failed")
		return nil, errors.Wrapf(err, "%s request to %s", method, path)
	}

	monitoring.RecordRequest(method, path, strconv.Itoa(resp.StatusCode()))

	if resp.StatusCode() != http.StatusOK {
		reqErr := &RequestError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode(),
			Body:       string(resp.Body()),
		}
		fields["status"] = reqErr.StatusCode
		fields["response"] = reqErr.Body
		c.logger.WithFields(fields).Error("Request failed")
		return nil, reqErr
	}

	fields["status"] = resp.StatusCode()
	c.logger.WithFields(fields).Debug("Request succeeded")

	return resp.Body(), nil
}

// signedRequest stamps params with the skew-corrected timestamp, appends the
// signature over everything added so far, and executes the request.
func (c *Client) signedRequest(ctx context.Context, method, path string, params Params) ([]byte, error) {
	offset, err := c.ensureTimeOffset(ctx)
	if err != nil {
		return nil, err
	}

	signed := make(Params, 0, len(params)+2)
	signed = append(signed, params...)
	signed = signed.Add("timestamp", strconv.FormatInt(c.nowMillis()+offset, 10))
	signed = signed.Add("signature", Sign(signed, c.creds.SecretKey))

	return c.Execute(ctx, method, path, signed)
}
