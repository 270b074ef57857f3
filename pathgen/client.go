package pathgen

import (
	"context"
	"time"

	hpg "github.com/edwinhayes/halfsteps/msgs/halfsteps_pattern_generator"
	"github.com/edwinhayes/halfsteps/ros"
)

// PathService is the typed getPath adapter. Both methods fail with a
// *ros.ServiceFailure.
type PathService interface {
	AwaitReady(ctx context.Context) error
	GetPath(ctx context.Context, req *Request) (*Response, error)
}

// Client calls getPath through a ROS node.
type Client struct {
	client ros.ServiceClient
}

// NewClient resolves service once against node.
func NewClient(node ros.Node, service string) *Client {
	return &Client{client: node.NewServiceClient(service, hpg.SrvGetPath)}
}

// Service returns the resolved service name.
func (c *Client) Service() string {
	return c.client.Service()
}

func (c *Client) AwaitReady(ctx context.Context) error {
	return c.client.WaitForService(ctx)
}

func (c *Client) GetPath(ctx context.Context, req *Request) (*Response, error) {
	srv := &hpg.GetPath{Request: *req}
	if err := c.client.Call(ctx, srv); err != nil {
		return nil, err
	}
	return &srv.Response, nil
}

func (c *Client) Close() {
	c.client.Shutdown()
}

// CallOptions bounds the two steps of GetPathClient. Zero waits forever.
type CallOptions struct {
	WaitTimeout time.Duration
	CallTimeout time.Duration
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

// GetPathClient waits for svc, sends req and reports whether a path came
// back.
func GetPathClient(ctx context.Context, svc PathService, req *Request, opts CallOptions) (bool, error) {
	waitCtx, cancel := withTimeout(ctx, opts.WaitTimeout)
	err := svc.AwaitReady(waitCtx)
	cancel()
	if err != nil {
		return false, err
	}

	callCtx, cancel := withTimeout(ctx, opts.CallTimeout)
	defer cancel()
	resp, err := svc.GetPath(callCtx, req)
	if err != nil {
		return false, err
	}
	return HasPath(resp), nil
}
