// Package httpclient provides an HTTP-based implementation of
// bogrep.Client: a configurable transport with per-request timeout,
// idle-connection pooling, and content-type filtering.
package httpclient

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/bogrep"
	"github.com/fwojciec/bogrep/render/goquery"
)

var _ bogrep.Client = (*Client)(nil)

// rejectedContentTypePrefixes are bodies the renderer cannot usefully
// process; fetches with these content types fail fast with
// UnsupportedContentType before the body is fully read.
var rejectedContentTypePrefixes = []string{
	"application/",
	"image/",
	"audio/",
	"video/",
}

// Client implements bogrep.Client over net/http, configured from
// Settings: timeouts, idle-connection pool size and TTL. DNS and TLS
// use Go's defaults, so certificate verification runs against the
// system trust store.
type Client struct {
	http *http.Client
}

// Config configures a Client from bogrep.Settings.
type Config struct {
	RequestTimeout            time.Duration
	MaxIdleConnectionsPerHost int
	IdleConnectionsTimeout    time.Duration
}

// NewClient creates a Client from cfg.
func NewClient(cfg Config) *Client {
	transport := &http.Transport{
		MaxIdleConnsPerHost: cfg.MaxIdleConnectionsPerHost,
		IdleConnTimeout:     cfg.IdleConnectionsTimeout,
	}
	return &Client{
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.RequestTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

// Fetch issues a GET request for url and returns the response, rejecting
// unsupported content types before reading the full body.
func (c *Client) Fetch(ctx context.Context, url string) (*bogrep.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, bogrep.WrapOp("httpclient.Fetch", bogrep.Errorf(bogrep.ENETWORK, "build request: %v", err))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, bogrep.WrapOp("httpclient.Fetch", bogrep.Errorf(bogrep.ENETWORK, "%v", err))
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if isRejectedContentType(contentType) {
		return nil, bogrep.WrapOp("httpclient.Fetch", bogrep.Errorf(bogrep.ENETWORK, "unsupported content type %q", contentType))
	}

	if resp.StatusCode >= 400 {
		return nil, bogrep.WrapOp("httpclient.Fetch", bogrep.Errorf(bogrep.ENETWORK, "http status %d for %s", resp.StatusCode, url))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, bogrep.WrapOp("httpclient.Fetch", bogrep.Errorf(bogrep.ENETWORK, "read body: %v", err))
	}

	if contentType == "" && !goquery.LooksLikeHTML(body) {
		return nil, bogrep.WrapOp("httpclient.Fetch", bogrep.Errorf(bogrep.ENETWORK, "unsupported content type %q", "unknown"))
	}

	return &bogrep.Response{
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        body,
	}, nil
}

func isRejectedContentType(contentType string) bool {
	ct := strings.ToLower(contentType)
	for _, prefix := range rejectedContentTypePrefixes {
		if strings.HasPrefix(ct, prefix) {
			return true
		}
	}
	return false
}
