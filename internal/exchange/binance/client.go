package binance

import (
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/ducminhle1904/futures-connector/pkg/types"
)

const (
	MainnetBaseURL = "https://fapi.binance.com"
	TestnetBaseURL = "https://testnet.binancefuture.com"

	APIKeyHeader = "X-MBX-APIKEY"

	defaultTimeout = 30 * time.Second
)

// Credentials is the API key pair used to authenticate requests.
type Credentials struct {
	APIKey    string
	SecretKey string
}

// Config holds the configuration for the futures client
type Config struct {
	Credentials Credentials
	Testnet     bool

	// BaseURL overrides the network URL selected by Testnet.
	BaseURL string
	Timeout time.Duration
	Logger  logrus.FieldLogger
}

// Client is a REST client for the Binance USDⓈ-M futures API. A Client owns
// its clock offset and quote cache; give each account its own instance.
type Client struct {
	creds   Credentials
	baseURL string
	testnet bool
	http    *resty.Client
	logger  logrus.FieldLogger
	now     func() time.Time

	mu         sync.Mutex
	timeOffset int64
	offsetSet  bool
	prices     map[string]types.PriceQuote
}

// NewClient creates a new futures client
func NewClient(config Config) (*Client, error) {
	if strings.TrimSpace(config.Credentials.APIKey) == "" || strings.TrimSpace(config.Credentials.SecretKey) == "" {
		return nil, ErrMissingCredentials
	}

	baseURL := MainnetBaseURL
	if config.Testnet {
		baseURL = TestnetBaseURL
	}
	if config.BaseURL != "" {
		baseURL = config.BaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetLogger(logger)

	c := &Client{
		creds: Credentials{
			APIKey:    strings.TrimSpace(config.Credentials.APIKey),
			SecretKey: strings.TrimSpace(config.Credentials.SecretKey),
		},
		baseURL: baseURL,
		testnet: config.Testnet,
		http:    httpClient,
		logger:  logger.WithField("component", "binance-futures"),
		now:     time.Now,
		prices:  make(map[string]types.PriceQuote),
	}

	c.logger.WithFields(logrus.Fields{
		"base_url":    baseURL,
		"environment": c.GetEnvironment(),
	}).Info("Binance Futures client created")

	return c, nil
}

// BaseURL returns the URL requests are sent to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// IsTestnet returns whether the client is configured for testnet
func (c *Client) IsTestnet() bool {
	return c.testnet
}

// GetEnvironment returns a string describing the current environment
func (c *Client) GetEnvironment() string {
	if c.testnet {
		return "testnet"
	}
	return "mainnet"
}

func (c *Client) nowMillis() int64 {
	return c.now().UnixMilli()
}
