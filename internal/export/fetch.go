package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/niksmo/choco-shop/pkg/retry"
)

var errTransient = errors.New("transient failure")

// A Fetcher reads JSON snapshots from the live API.
type Fetcher struct {
	apiURL string
	client *http.Client
	retry  retry.RetryConfig
}

func NewFetcher(apiURL string, client *http.Client) Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return Fetcher{
		apiURL: apiURL,
		client: client,
		retry: retry.RetryConfig{
			MaxAttempts: 3,
			Backoff:     retry.ExponentialBackoff(200 * time.Millisecond),
			ShouldRetry: func(err error) bool { return errors.Is(err, errTransient) },
		},
	}
}

func (f Fetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	const op = "Fetcher.Fetch"

	body, err := retry.DoWithResult(ctx, f.retry, func() ([]byte, error) {
		return f.get(ctx, path)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, path, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%s: %s: response is not json", op, path)
	}
	return body, nil
}

func (f Fetcher) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.apiURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errTransient, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errTransient, err)
	}

	switch {
	case res.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", errTransient, res.StatusCode)
	case res.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("status %d: %s", res.StatusCode, body)
	}
	return body, nil
}
