package mock

import (
	"context"

	"github.com/fwojciec/bogrep"
)

var _ bogrep.Client = (*Client)(nil)

// Client is a mock implementation of bogrep.Client.
type Client struct {
	FetchFn func(ctx context.Context, url string) (*bogrep.Response, error)
}

func (c *Client) Fetch(ctx context.Context, url string) (*bogrep.Response, error) {
	return c.FetchFn(ctx, url)
}
