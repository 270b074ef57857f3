package xmlrpc

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// Client performs XML-RPC calls over HTTP.
type Client struct {
	HTTPClient *http.Client
}

// DefaultClient is used by Call and CallContext.
var DefaultClient = &Client{HTTPClient: &http.Client{Timeout: 30 * time.Second}}

// Call invokes method on the XML-RPC server at url.
func Call(url string, method string, args ...interface{}) (interface{}, error) {
	return DefaultClient.Call(context.Background(), url, method, args...)
}

// CallContext is Call bound to ctx.
func CallContext(ctx context.Context, url string, method string, args ...interface{}) (interface{}, error) {
	return DefaultClient.Call(ctx, url, method, args...)
}

// Call invokes method on the XML-RPC server at url. A fault answer is
// returned as *Fault.
func (c *Client) Call(ctx context.Context, url string, method string, args ...interface{}) (interface{}, error) {
	var buffer bytes.Buffer
	if err := emitRequest(&buffer, method, args...); err != nil {
		return nil, errors.Wrapf(err, "building request for %s failed", method)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buffer)
	if err != nil {
		return nil, errors.Wrapf(err, "building request for %s failed", method)
	}
	req.Header.Set("Content-Type", "text/xml")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	res, err := httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "sending %s to %s failed", method, url)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("HTTP failed with code %v", res.Status)
	}

	result, err := parseResponse(res.Body)
	if err != nil {
		if _, ok := err.(*Fault); ok {
			return nil, err
		}
		return nil, errors.Wrapf(err, "parsing response of %s failed", method)
	}
	return result, nil
}
