// Package eodhd fetches closing prices, symbols and company profiles from EOD Historical Data.
package eodhd

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/etnz/heatmap/date"
)

// nice to redirect to https://eodhd.com/financial-summary/PKN.WAR

const (
	// DefaultBaseURL is the EODHD API root.
	DefaultBaseURL = "https://eodhd.com/api"
	// DefaultExchange is the EODHD code of the Warsaw Stock Exchange.
	DefaultExchange = "WAR"
)

// Config holds the client settings. Zero values are replaced by defaults.
type Config struct {
	APIKey   string
	BaseURL  string
	Exchange string         // preferred exchange when resolving identifiers
	CacheDir string         // directory of the response cache, empty to disable it
	Location *time.Location // timezone used to expire the cache, default time.Local
	Rate     rate.Limit     // maximum requests per second, default 5
	Burst    int            // default 1
}

// Client is an EODHD API client, safe for concurrent use.
type Client struct {
	cfg     Config
	daily   *http.Client // for prices and searches
	monthly *http.Client // for slow-changing lists
	limiter *rate.Limiter
	log     *zap.Logger
}

// New returns a Client. A nil logger discards all logs.
func New(cfg Config, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if cfg.Exchange == "" {
		cfg.Exchange = DefaultExchange
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Rate == 0 {
		cfg.Rate = 5
	}
	if cfg.Burst == 0 {
		cfg.Burst = 1
	}
	return &Client{
		cfg:     cfg,
		daily:   newCachingClient(cfg.CacheDir, date.Daily, cfg.Location, log),
		monthly: newCachingClient(cfg.CacheDir, date.Monthly, cfg.Location, log),
		limiter: rate.NewLimiter(cfg.Rate, cfg.Burst),
		log:     log,
	}
}

// Exchange returns the preferred exchange code.
func (c *Client) Exchange() string { return c.cfg.Exchange }

// addr builds the address of an API endpoint. path segments are escaped.
func (c *Client) addr(params url.Values, path ...string) string {
	escaped := make([]string, len(path))
	for i, p := range path {
		escaped[i] = url.PathEscape(p)
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("fmt", "json")
	params.Set("api_token", c.cfg.APIKey)
	return c.cfg.BaseURL + "/" + strings.Join(escaped, "/") + "?" + params.Encode()
}
