package http_client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const DefaultUserAgent = "journeyplanner/1.0"

var ErrUnexpectedStatus = errors.New("unexpected response status")

// Transport performs one logical request and returns the response body.
// Provider adapters depend on this rather than on a shared client.
type Transport interface {
	Do(ctx context.Context, request Request) ([]byte, error)
}

type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

type Client struct {
	HTTP      *http.Client
	UserAgent string

	// Timeout applies to each attempt. Zero leaves only the context deadline.
	Timeout time.Duration

	// MaxRetries is the number of extra attempts after network errors, 429 or 5xx responses
	MaxRetries uint64

	// InitialInterval of the exponential backoff between attempts
	InitialInterval time.Duration
}

func New(timeout time.Duration, maxRetries int) *Client {
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		HTTP:            &http.Client{},
		UserAgent:       DefaultUserAgent,
		Timeout:         timeout,
		MaxRetries:      uint64(maxRetries),
		InitialInterval: 250 * time.Millisecond,
	}
}

func (c *Client) Do(ctx context.Context, request Request) ([]byte, error) {
	retryBackoff := backoff.NewExponentialBackOff()
	if c.InitialInterval > 0 {
		retryBackoff.InitialInterval = c.InitialInterval
	}

	var body []byte
	attempt := 0

	operation := func() error {
		attempt++

		var err error
		body, err = c.attempt(ctx, request)
		if err != nil && attempt <= int(c.MaxRetries) {
			log.Debug().Err(err).Str("url", request.URL).Int("attempt", attempt).Msg("Retrying request")
		}
		return err
	}

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(retryBackoff, c.MaxRetries), ctx))
	if err != nil {
		return nil, err
	}

	return body, nil
}

func (c *Client) attempt(ctx context.Context, request Request) ([]byte, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	method := request.Method
	if method == "" {
		method = http.MethodGet
	}

	var requestBody io.Reader
	if request.Body != nil {
		requestBody = bytes.NewReader(request.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, request.URL, requestBody)
	if err != nil {
		return nil, backoff.Permanent(errors.Wrap(err, "building request"))
	}

	for key, values := range request.Header {
		req.Header[key] = values
	}

	userAgent := c.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", userAgent)
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, backoff.Permanent(err)
		}
		return nil, errors.Wrap(err, "performing request")
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := errors.Wrapf(ErrUnexpectedStatus, "%s returned %d", request.URL, resp.StatusCode)

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}

	return responseBody, nil
}
