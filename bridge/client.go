package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zeu5/mixing-rl/mixing"
	"github.com/zeu5/mixing-rl/types"
)

// Client drives a remote simulator served by Server
type Client struct {
	base   string
	client *http.Client
}

var _ mixing.Simulator = &Client{}

// NewClient for a server at addr (host:port or a full URL). Only connection
// setup is bounded, a settling reset may take arbitrarily long.
func NewClient(addr string) *Client {
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}
	return &Client{
		base: strings.TrimSuffix(addr, "/"),
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   5 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
				MaxIdleConnsPerHost:   4,
			},
		},
	}
}

func episodePath(h mixing.Handle, suffix string) string {
	return "/episodes/" + url.PathEscape(string(h)) + suffix
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: marshaling request: %w", types.ErrEnvironmentUnavailable, err)
		}
		reader = bytes.NewReader(bs)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrEnvironmentUnavailable, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s %s: %w", types.ErrEnvironmentUnavailable, method, path, err)
	}
	defer resp.Body.Close()
	bs, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %w", types.ErrEnvironmentUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		e := errorResponse{}
		if json.Unmarshal(bs, &e) != nil || e.Error == "" {
			e.Error = strings.TrimSpace(string(bs))
		}
		switch resp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", mixing.ErrUnknownHandle, e.Error)
		case http.StatusBadRequest:
			return fmt.Errorf("%w: %s", types.ErrInvalidDirection, e.Error)
		}
		return fmt.Errorf("%w: status %d: %s", types.ErrEnvironmentUnavailable, resp.StatusCode, e.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(bs, out); err != nil {
		return fmt.Errorf("%w: malformed response: %w", types.ErrEnvironmentUnavailable, err)
	}
	return nil
}

func (c *Client) Reset(ctx context.Context) (mixing.Handle, error) {
	out := resetResponse{}
	if err := c.do(ctx, http.MethodPost, "/episodes", nil, &out); err != nil {
		return "", err
	}
	if out.Handle == "" {
		return "", fmt.Errorf("%w: empty episode handle", types.ErrEnvironmentUnavailable)
	}
	return mixing.Handle(out.Handle), nil
}

func (c *Client) Positions(ctx context.Context, h mixing.Handle) ([]mixing.Position, error) {
	out := positionsResponse{}
	if err := c.do(ctx, http.MethodGet, episodePath(h, "/positions"), nil, &out); err != nil {
		return nil, err
	}
	positions := make([]mixing.Position, len(out.Positions))
	for i, p := range out.Positions {
		positions[i] = mixing.Position{X: p[0], Y: p[1]}
	}
	return positions, nil
}

func (c *Client) Apply(ctx context.Context, h mixing.Handle, d mixing.Direction) error {
	if !d.Valid() {
		return fmt.Errorf("%w: %v", types.ErrInvalidDirection, d)
	}
	return c.do(ctx, http.MethodPost, episodePath(h, "/actions"), actionRequest{Direction: d.String()}, nil)
}

func (c *Client) Teardown(ctx context.Context, h mixing.Handle) error {
	return c.do(ctx, http.MethodDelete, episodePath(h, ""), nil, nil)
}
