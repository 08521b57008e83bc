// Package regiondir proxies region and village listings from an external directory.
package regiondir

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Response is an upstream body relayed verbatim
type Response struct {
	ContentType string
	Body        []byte
}

// Client calls the regions directory API
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// Options configures the directory client
type Options struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	RetryCount int
}

// NewClient creates a new directory client
func NewClient(opts Options, logger *zap.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Accept", "application/json")
	if opts.Token != "" {
		client.SetAuthToken(opts.Token)
	}

	logger.Info("Region directory client configured", zap.String("base_url", opts.BaseURL))

	return &Client{
		httpClient: client,
		logger:     logger,
	}
}

// FetchRegions returns the directory's region listing
func (c *Client) FetchRegions(ctx context.Context) (*Response, error) {
	return c.get(ctx, "/v1/regions", nil)
}

// FetchVillages returns the villages the directory lists for a region
func (c *Client) FetchVillages(ctx context.Context, regionID string) (*Response, error) {
	return c.get(ctx, "/v1/regions/{regionId}/villages", map[string]string{"regionId": regionID})
}

func (c *Client) get(ctx context.Context, path string, params map[string]string) (*Response, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParams(params).
		Get(path)
	if err != nil {
		c.logger.Error("Region directory call failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("failed to call region directory: %w", err)
	}

	if resp.IsError() {
		c.logger.Error("Region directory returned error",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode()),
		)
		return nil, fmt.Errorf("region directory returned status %d", resp.StatusCode())
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	return &Response{
		ContentType: contentType,
		Body:        resp.Body(),
	}, nil
}
