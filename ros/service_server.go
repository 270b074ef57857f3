package ros

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"reflect"
	"sync"
	"time"

	"github.com/pkg/errors"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

type serviceResult struct {
	payload []byte
	err     error
}

type defaultServiceServer struct {
	node         *defaultNode
	logger       Logger
	service      string
	srvType      ServiceType
	handler      reflect.Value
	listener     net.Listener
	uri          string
	sessions     sync.WaitGroup
	conns        map[net.Conn]struct{}
	connsMutex   sync.Mutex
	shutdownChan chan struct{}
	shutdownOnce sync.Once
}

// checkServiceHandler verifies handler is a func(*Srv) error for srvType.
func checkServiceHandler(srvType ServiceType, handler interface{}) (reflect.Value, error) {
	fun := reflect.ValueOf(handler)
	if handler == nil || fun.Kind() != reflect.Func {
		return reflect.Value{}, errors.Errorf("service handler must be a func, got %T", handler)
	}
	t := fun.Type()
	srvPtr := reflect.TypeOf(srvType.NewService())
	if t.NumIn() != 1 || t.In(0) != srvPtr {
		return reflect.Value{}, errors.Errorf("service handler must take a single %v", srvPtr)
	}
	if t.NumOut() != 1 || t.Out(0) != errorType {
		return reflect.Value{}, errors.New("service handler must return 'error'")
	}
	return fun, nil
}

func newDefaultServiceServer(node *defaultNode, service string, srvType ServiceType, handler interface{}) (*defaultServiceServer, error) {
	fun, err := checkServiceHandler(srvType, handler)
	if err != nil {
		return nil, err
	}
	listener, port, err := listenEphemeral(node.listenIP)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to listen for service %s", service)
	}

	server := &defaultServiceServer{
		node:         node,
		logger:       node.logger.WithField("service", service),
		service:      service,
		srvType:      srvType,
		handler:      fun,
		listener:     listener,
		uri:          fmt.Sprintf("rosrpc://%s", net.JoinHostPort(node.hostname, port)),
		conns:        make(map[net.Conn]struct{}),
		shutdownChan: make(chan struct{}),
	}
	server.logger.Debugf("ServiceServer listen %s", server.uri)

	if _, err := node.callMaster("registerService", node.qualifiedName, service, server.uri, node.xmlrpcURI); err != nil {
		listener.Close()
		return nil, errors.Wrapf(err, "failed to register service %s", service)
	}

	node.waitGroup.Add(1)
	go server.start()
	return server, nil
}

func (s *defaultServiceServer) URI() string {
	return s.uri
}

// Shutdown unregisters the service, stops accepting calls and waits for
// open sessions to end.
func (s *defaultServiceServer) Shutdown() {
	s.shutdownOnce.Do(func() {
		logger := s.logger
		close(s.shutdownChan)
		s.listener.Close()
		if _, err := s.node.callMaster("unregisterService", s.node.qualifiedName, s.service, s.uri); err != nil {
			logger.Warnf("Failed unregisterService(%s): %v", s.service, err)
		}
		s.connsMutex.Lock()
		for conn := range s.conns {
			conn.Close()
		}
		s.connsMutex.Unlock()
		s.sessions.Wait()
		logger.Debug("Service server shut down")
	})
}

// accept loop
func (s *defaultServiceServer) start() {
	logger := s.logger
	defer s.node.waitGroup.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.shutdownChan:
				return
			default:
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			logger.Errorf("Accept failed: %v", err)
			return
		}
		logger.Debugf("Connected from %s", conn.RemoteAddr())
		// Shutdown closes registered conns under connsMutex, so a conn
		// registered after that point would never be closed.
		s.connsMutex.Lock()
		select {
		case <-s.shutdownChan:
			s.connsMutex.Unlock()
			conn.Close()
			return
		default:
		}
		s.conns[conn] = struct{}{}
		s.sessions.Add(1)
		s.connsMutex.Unlock()
		go s.serve(conn)
	}
}

func (s *defaultServiceServer) serve(conn net.Conn) {
	logger := s.logger
	defer func() {
		s.connsMutex.Lock()
		delete(s.conns, conn)
		s.connsMutex.Unlock()
		conn.Close()
		s.sessions.Done()
	}()
	ioTimeout := s.node.opts.ioTimeout
	setDeadline := func() {
		if ioTimeout > 0 {
			conn.SetDeadline(time.Now().Add(ioTimeout))
		}
	}

	// 1. Read request header
	setDeadline()
	reqHeaders, err := readConnectionHeader(conn)
	if err != nil {
		logger.Errorf("Reading connection header failed: %v", err)
		return
	}
	reqHeaderMap := headerMap(reqHeaders)
	for _, h := range reqHeaders {
		logger.Debugf("  `%s` = `%s`", h.key, h.value)
	}

	// 2. Write response header
	md5sum := s.srvType.MD5Sum()
	if remote := reqHeaderMap["md5sum"]; remote != md5sum && remote != "*" {
		msg := fmt.Sprintf("request from [%s]: md5sums do not match: [%s] vs. [%s]",
			reqHeaderMap["callerid"], remote, md5sum)
		logger.Warn(msg)
		writeConnectionHeader([]header{{"error", msg}}, conn)
		return
	}
	headers := []header{
		{"callerid", s.node.qualifiedName},
		{"md5sum", md5sum},
		{"type", s.srvType.Name()},
		{"request_type", s.srvType.RequestType().Name()},
		{"response_type", s.srvType.ResponseType().Name()},
	}
	if err := writeConnectionHeader(headers, conn); err != nil {
		logger.Errorf("Writing connection header failed: %v", err)
		return
	}
	if reqHeaderMap["probe"] == "1" {
		logger.Debug("TCPROS header 'probe' detected. Session closed")
		return
	}
	persistent := reqHeaderMap["persistent"] == "1"

	for first := true; first || persistent; first = false {
		// 3. Read request; persistent sessions idle without a deadline
		if first {
			setDeadline()
		} else {
			conn.SetDeadline(time.Time{})
		}
		reqMsg, err := readBlock(conn)
		if err != nil {
			if !first {
				logger.Debugf("Persistent session closed: %v", err)
			} else {
				logger.Errorf("Reading request failed: %v", err)
			}
			return
		}

		// 4. Write ok byte and response or error text
		result := s.dispatch(reqMsg)
		setDeadline()
		if result.err != nil {
			logger.Errorf("Service call failed: %v", result.err)
			err = writeBlock(conn, []byte{0}, []byte(result.err.Error()))
		} else {
			err = writeBlock(conn, []byte{1}, result.payload)
		}
		if err != nil {
			logger.Errorf("Writing response failed: %v", err)
			return
		}
	}
}

// dispatch runs the handler on the node's spinning goroutine and waits for
// its result.
func (s *defaultServiceServer) dispatch(reqMsg []byte) serviceResult {
	resultChan := make(chan serviceResult, 1)
	abandoned := make(chan struct{})
	job := func() {
		select {
		case <-abandoned:
			s.logger.Debug("Skipping service call the caller gave up on")
			return
		default:
		}
		resultChan <- s.invoke(reqMsg)
	}

	timeout := s.node.opts.callbackTimeout
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	select {
	case s.node.jobChan <- job:
	case <-ctx.Done():
		return serviceResult{err: errors.New("service job queue is full")}
	case <-s.shutdownChan:
		return serviceResult{err: errors.New("service is shutting down")}
	}
	select {
	case r := <-resultChan:
		return r
	case <-ctx.Done():
		close(abandoned)
		return serviceResult{err: errors.New("service callback timeout")}
	case <-s.shutdownChan:
		close(abandoned)
		return serviceResult{err: errors.New("service is shutting down")}
	}
}

func (s *defaultServiceServer) invoke(reqMsg []byte) (result serviceResult) {
	defer func() {
		if r := recover(); r != nil {
			result = serviceResult{err: errors.Errorf("service handler panicked: %v", r)}
		}
	}()
	srv := s.srvType.NewService()
	if err := srv.ReqMessage().Deserialize(bytes.NewReader(reqMsg)); err != nil {
		return serviceResult{err: errors.Wrap(err, "malformed request")}
	}
	results := s.handler.Call([]reflect.Value{reflect.ValueOf(srv)})
	if errValue := results[0]; !errValue.IsNil() {
		return serviceResult{err: errValue.Interface().(error)}
	}
	var buf bytes.Buffer
	if err := srv.ResMessage().Serialize(&buf); err != nil {
		return serviceResult{err: errors.Wrap(err, "unable to serialize response")}
	}
	return serviceResult{payload: buf.Bytes()}
}
