package ros

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

type defaultServiceClient struct {
	logger       Logger
	service      string
	srvType      ServiceType
	masterURI    string
	nodeID       string
	ioTimeout    time.Duration
	pollInterval time.Duration
}

func newDefaultServiceClient(logger Logger, nodeID string, masterURI string, service string, srvType ServiceType, opts nodeOptions) *defaultServiceClient {
	return &defaultServiceClient{
		logger:       logger.WithField("service", service),
		service:      service,
		srvType:      srvType,
		masterURI:    masterURI,
		nodeID:       nodeID,
		ioTimeout:    opts.ioTimeout,
		pollInterval: opts.pollInterval,
	}
}

func (c *defaultServiceClient) Service() string {
	return c.service
}

func (c *defaultServiceClient) WaitForService(ctx context.Context) error {
	logger := c.logger
	logger.Debug("Waiting for service")
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return newServiceFailure(c.service, ctx.Err(), "timeout exceeded while waiting for service %s", c.service)
		case <-timer.C:
		}
		err := c.probe(ctx)
		if err == nil {
			logger.Debug("Service is available")
			return nil
		}
		logger.Debugf("Service not ready: %v", err)
		timer.Reset(c.pollInterval)
	}
}

// probe resolves the service and exchanges a probe header with it.
func (c *defaultServiceClient) probe(ctx context.Context) error {
	addr, err := c.lookup(ctx)
	if err != nil {
		return err
	}
	conn, err := c.dial(ctx, addr)
	if err != nil {
		return err
	}
	defer conn.Close()
	_, err = c.handshake(ctx, conn, true)
	return err
}

func (c *defaultServiceClient) lookup(ctx context.Context) (string, error) {
	result, err := callRosAPI(ctx, c.masterURI, "lookupService", c.nodeID, c.service)
	if err != nil {
		return "", err
	}
	serviceRawURL, ok := result.(string)
	if !ok {
		return "", errors.New("result of 'lookupService' is not a string")
	}
	serviceURL, err := url.Parse(serviceRawURL)
	if err != nil {
		return "", errors.Wrapf(err, "invalid service URI %q", serviceRawURL)
	}
	if serviceURL.Scheme != "rosrpc" || serviceURL.Host == "" {
		return "", errors.Errorf("invalid service URI %q", serviceRawURL)
	}
	return serviceURL.Host, nil
}

func (c *defaultServiceClient) dial(ctx context.Context, addr string) (net.Conn, error) {
	dialer := net.Dialer{Timeout: c.ioTimeout}
	return dialer.DialContext(ctx, "tcp", addr)
}

// deadline is the earlier of now+ioTimeout and ctx's deadline; zero means
// none.
func (c *defaultServiceClient) deadline(ctx context.Context, withIOTimeout bool) time.Time {
	var d time.Time
	if withIOTimeout && c.ioTimeout > 0 {
		d = time.Now().Add(c.ioTimeout)
	}
	if ctxDeadline, ok := ctx.Deadline(); ok && (d.IsZero() || ctxDeadline.Before(d)) {
		d = ctxDeadline
	}
	return d
}

func (c *defaultServiceClient) handshake(ctx context.Context, conn net.Conn, probe bool) (map[string]string, error) {
	logger := c.logger
	md5sum := c.srvType.MD5Sum()
	msgType := c.srvType.Name()
	headers := []header{
		{"callerid", c.nodeID},
		{"service", c.service},
		{"md5sum", md5sum},
		{"type", msgType},
	}
	if probe {
		headers = append(headers, header{"probe", "1"})
	}
	logger.Debug("TCPROS Connection Header")
	for _, h := range headers {
		logger.Debugf("  `%s` = `%s`", h.key, h.value)
	}
	conn.SetDeadline(c.deadline(ctx, true))
	if err := writeConnectionHeader(headers, conn); err != nil {
		return nil, errors.Wrap(err, "writing connection header failed")
	}
	resHeaders, err := readConnectionHeader(conn)
	if err != nil {
		return nil, errors.Wrap(err, "reading connection header failed")
	}
	resHeaderMap := headerMap(resHeaders)
	logger.Debug("TCPROS Response Header")
	for _, h := range resHeaders {
		logger.Debugf("  `%s` = `%s`", h.key, h.value)
	}
	if msg, ok := resHeaderMap["error"]; ok {
		return nil, errors.New(msg)
	}
	if remote := resHeaderMap["md5sum"]; remote != md5sum && remote != "*" {
		return nil, errors.Errorf("incompatible service type: local %s (%s), remote %s (%s)",
			msgType, md5sum, resHeaderMap["type"], remote)
	}
	return resHeaderMap, nil
}

func (c *defaultServiceClient) Call(ctx context.Context, srv Service) error {
	logger := c.logger

	addr, err := c.lookup(ctx)
	if err != nil {
		return newServiceFailure(c.service, err, "service [%s] unavailable: %v", c.service, err)
	}
	conn, err := c.dial(ctx, addr)
	if err != nil {
		return newServiceFailure(c.service, err, "unable to connect to service: %v", err)
	}
	defer conn.Close()

	// Unblock pending I/O as soon as ctx ends.
	stop := context.AfterFunc(ctx, func() {
		conn.SetDeadline(time.Unix(1, 0))
	})
	defer stop()

	if _, err := c.handshake(ctx, conn, false); err != nil {
		return c.ioFailure(ctx, err)
	}

	var buf bytes.Buffer
	if err := srv.ReqMessage().Serialize(&buf); err != nil {
		return newServiceFailure(c.service, err, "unable to serialize request: %v", err)
	}
	logger.Debugf("Sending request of %d bytes", buf.Len())
	conn.SetDeadline(c.deadline(ctx, true))
	if err := writeBlock(conn, nil, buf.Bytes()); err != nil {
		return c.ioFailure(ctx, err)
	}

	// The provider may compute for a long time: only ctx bounds the wait.
	conn.SetDeadline(c.deadline(ctx, false))
	var ok [1]byte
	if _, err := io.ReadFull(conn, ok[:]); err != nil {
		return c.ioFailure(ctx, err)
	}
	payload, err := readBlock(conn)
	if err != nil {
		return c.ioFailure(ctx, err)
	}
	if ok[0] == 0 {
		logger.Debugf("Service responded with an error: %s", payload)
		return newServiceFailure(c.service, nil, "service [%s] responded with an error: %s", c.service, payload)
	}
	logger.Debugf("Received response of %d bytes", len(payload))
	if err := srv.ResMessage().Deserialize(bytes.NewReader(payload)); err != nil {
		return newServiceFailure(c.service, err, "unable to deserialize response: %v", err)
	}
	return nil
}

func (c *defaultServiceClient) ioFailure(ctx context.Context, err error) error {
	ctxErr := ctx.Err()
	if dl, ok := ctx.Deadline(); ok && ctxErr == nil && !time.Now().Before(dl) {
		ctxErr = context.DeadlineExceeded
	}
	if ctxErr != nil {
		return newServiceFailure(c.service, ctxErr, "service call to %s aborted: %v", c.service, ctxErr)
	}
	return newServiceFailure(c.service, err, "transport error completing service call: %v", err)
}

func (*defaultServiceClient) Shutdown() {}
