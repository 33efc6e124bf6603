package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type Response struct {
	StatusCode int
	Body       []byte
}

type Interface interface {
	Get(ctx context.Context, path string) (*Response, error)
}

type Client struct {
	baseURL    string
	headers    map[string]string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
	GetFunc    func(ctx context.Context, path string) (*Response, error)
}

type Options struct {
	BaseURL string
	Headers map[string]string
	Timeout time.Duration
	// MaxRetries is the number of extra attempts after the first one.
	// Zero disables retries.
	MaxRetries int
	Backoff    time.Duration
}

var _ Interface = (*Client)(nil)

func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}

	if opts.Backoff == 0 {
		opts.Backoff = 100 * time.Millisecond
	}

	headers := make(map[string]string, len(opts.Headers))
	for k, v := range opts.Headers {
		headers[k] = v
	}

	return &Client{
		baseURL: opts.BaseURL,
		headers: headers,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
	}
}

// Get issues a GET request, retrying transport failures and 5xx responses
// with exponential backoff. The last response or error is returned.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	if c.GetFunc != nil {
		return c.GetFunc(ctx, path)
	}

	var fullURL string
	if c.baseURL == "" {
		fullURL = path // If no base URL, treat path as full URL
	} else {
		fullURL = c.baseURL + path
	}

	var resp *Response
	var err error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(1<<(attempt-1)) * c.backoff
			log.Debug().Str("url", fullURL).Int("attempt", attempt+1).Dur("delay", delay).Msg("Retrying request")
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("request canceled after %d attempts: %w", attempt, ctx.Err())
			case <-time.After(delay):
			}
		}

		resp, err = c.do(ctx, fullURL)
		if err == nil && resp.StatusCode < http.StatusInternalServerError {
			return resp, nil
		}
	}

	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, fullURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			return
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}
