package ros_test

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/url"
	"os"
	"sync/atomic"
	"testing"
	"time"

	hpg "github.com/edwinhayes/halfsteps/msgs/halfsteps_pattern_generator"
	"github.com/edwinhayes/halfsteps/ros"
	"github.com/edwinhayes/halfsteps/rosmaster"
	"github.com/edwinhayes/halfsteps/xmlrpc"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func startMaster(t *testing.T) string {
	m := rosmaster.New(quietLogger())
	uri, err := m.Start("127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(m.Shutdown)
	return uri
}

func newNode(t *testing.T, name string, masterURI string, args ...string) ros.Node {
	args = append([]string{"__ip:=127.0.0.1"}, args...)
	node, err := ros.NewNode(name, args,
		ros.WithMasterURI(masterURI),
		ros.WithLogger(quietLogger()),
		ros.WithSignalHandling(false),
		ros.WithPollInterval(20*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(node.Shutdown)
	return node
}

func echoFootprints(srv *hpg.GetPath) error {
	srv.Response.Path = make([]hpg.PathPoint, len(srv.Request.Footprints))
	for i, fp := range srv.Request.Footprints {
		srv.Response.Path[i].Duration = fp.Footprint.Duration
	}
	return nil
}

func startServer(t *testing.T, masterURI string, handler interface{}) (ros.Node, ros.ServiceServer) {
	node := newNode(t, "server", masterURI)
	server, err := node.NewServiceServer("getPath", hpg.SrvGetPath, handler)
	require.NoError(t, err)
	go node.Spin()
	return node, server
}

func timeoutContext(t *testing.T, d time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	t.Cleanup(cancel)
	return ctx
}

func TestServiceCall(t *testing.T) {
	masterURI := startMaster(t)
	_, server := startServer(t, masterURI, echoFootprints)
	require.Contains(t, server.URI(), "rosrpc://127.0.0.1:")

	client := newNode(t, "client", masterURI).NewServiceClient("getPath", hpg.SrvGetPath)
	defer client.Shutdown()
	require.Equal(t, "/getPath", client.Service())
	require.NoError(t, client.WaitForService(timeoutContext(t, 5*time.Second)))

	srv := &hpg.GetPath{}
	srv.Request.Footprints = make([]hpg.Footprint, 3)
	srv.Request.Footprints[2].Footprint.Duration = ros.NewDuration(2, 0)
	require.NoError(t, client.Call(timeoutContext(t, 5*time.Second), srv))
	require.Len(t, srv.Response.Path, 3)
	require.Equal(t, ros.NewDuration(2, 0), srv.Response.Path[2].Duration)

	// Sessions are independent.
	srv = &hpg.GetPath{}
	require.NoError(t, client.Call(timeoutContext(t, 5*time.Second), srv))
	require.Empty(t, srv.Response.Path)
}

func TestServiceHandlerError(t *testing.T) {
	masterURI := startMaster(t)
	startServer(t, masterURI, func(srv *hpg.GetPath) error {
		return errors.New("no feasible path")
	})

	client := newNode(t, "client", masterURI).NewServiceClient("getPath", hpg.SrvGetPath)
	err := client.Call(timeoutContext(t, 5*time.Second), &hpg.GetPath{})
	failure, ok := ros.AsServiceFailure(err)
	require.True(t, ok, "%v", err)
	require.Equal(t, "/getPath", failure.Service)
	require.Equal(t, "service [/getPath] responded with an error: no feasible path", failure.Error())
}

func TestServiceHandlerPanic(t *testing.T) {
	masterURI := startMaster(t)
	startServer(t, masterURI, func(srv *hpg.GetPath) error {
		panic("index out of range")
	})

	client := newNode(t, "client", masterURI).NewServiceClient("getPath", hpg.SrvGetPath)
	err := client.Call(timeoutContext(t, 5*time.Second), &hpg.GetPath{})
	require.True(t, ros.IsServiceFailure(err))
	require.Contains(t, err.Error(), "service handler panicked: index out of range")
}

func TestWaitForServiceTimeout(t *testing.T) {
	masterURI := startMaster(t)
	client := newNode(t, "client", masterURI).NewServiceClient("getPath", hpg.SrvGetPath)

	start := time.Now()
	err := client.WaitForService(timeoutContext(t, 200*time.Millisecond))
	require.Less(t, time.Since(start), 2*time.Second)
	require.True(t, ros.IsServiceFailure(err))
	require.EqualError(t, err, "timeout exceeded while waiting for service /getPath")
	require.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestWaitForServiceBlocksUntilProvider(t *testing.T) {
	masterURI := startMaster(t)
	client := newNode(t, "client", masterURI).NewServiceClient("getPath", hpg.SrvGetPath)

	done := make(chan error, 1)
	go func() {
		done <- client.WaitForService(timeoutContext(t, 5*time.Second))
	}()
	time.Sleep(100 * time.Millisecond)
	select {
	case err := <-done:
		t.Fatalf("returned before the provider started: %v", err)
	default:
	}
	startServer(t, masterURI, echoFootprints)
	require.NoError(t, <-done)
}

func TestCallWithoutProvider(t *testing.T) {
	masterURI := startMaster(t)
	client := newNode(t, "client", masterURI).NewServiceClient("getPath", hpg.SrvGetPath)
	err := client.Call(timeoutContext(t, time.Second), &hpg.GetPath{})
	require.True(t, ros.IsServiceFailure(err))
	require.Contains(t, err.Error(), "service [/getPath] unavailable")
}

type otherGetPath struct {
	ros.ServiceType
}

func (otherGetPath) MD5Sum() string {
	return "00000000000000000000000000000000"
}

func TestServiceTypeMismatch(t *testing.T) {
	masterURI := startMaster(t)
	startServer(t, masterURI, echoFootprints)

	client := newNode(t, "client", masterURI).NewServiceClient("getPath", otherGetPath{hpg.SrvGetPath})
	err := client.Call(timeoutContext(t, 5*time.Second), &hpg.GetPath{})
	require.True(t, ros.IsServiceFailure(err))
	require.Contains(t, err.Error(), "md5sums do not match")

	// The probe fails the same way so the wait never succeeds.
	err = client.WaitForService(timeoutContext(t, 200*time.Millisecond))
	require.True(t, ros.IsServiceFailure(err))
}

func TestCallDeadline(t *testing.T) {
	masterURI := startMaster(t)
	release := make(chan struct{})
	startServer(t, masterURI, func(srv *hpg.GetPath) error {
		<-release
		return nil
	})
	defer close(release)

	client := newNode(t, "client", masterURI).NewServiceClient("getPath", hpg.SrvGetPath)
	err := client.Call(timeoutContext(t, 200*time.Millisecond), &hpg.GetPath{})
	require.True(t, ros.IsServiceFailure(err))
	require.EqualError(t, err, "service call to /getPath aborted: context deadline exceeded")
	require.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestServerShutdownUnregisters(t *testing.T) {
	masterURI := startMaster(t)
	_, server := startServer(t, masterURI, echoFootprints)
	client := newNode(t, "client", masterURI).NewServiceClient("getPath", hpg.SrvGetPath)
	require.NoError(t, client.WaitForService(timeoutContext(t, 5*time.Second)))

	server.Shutdown()
	server.Shutdown()
	err := client.WaitForService(timeoutContext(t, 200*time.Millisecond))
	require.True(t, ros.IsServiceFailure(err))
}

func TestInvalidHandler(t *testing.T) {
	masterURI := startMaster(t)
	node := newNode(t, "server", masterURI)

	_, err := node.NewServiceServer("getPath", hpg.SrvGetPath, nil)
	require.Error(t, err)
	_, err = node.NewServiceServer("getPath", hpg.SrvGetPath, func(n int) error { return nil })
	require.Error(t, err)
	_, err = node.NewServiceServer("getPath", hpg.SrvGetPath, func(srv *hpg.GetPath) {})
	require.Error(t, err)
}

func TestPrivateParameters(t *testing.T) {
	masterURI := startMaster(t)
	node := newNode(t, "walker", masterURI, "_com_height:=0.8", "_name:=halfsteps", "extra")

	value, err := node.GetParam("~com_height")
	require.NoError(t, err)
	require.Equal(t, 0.8, value)
	value, err = node.GetParam("/walker/name")
	require.NoError(t, err)
	require.Equal(t, "halfsteps", value)

	ok, err := node.HasParam("~missing")
	require.NoError(t, err)
	require.False(t, ok)
	_, err = node.GetParam("~missing")
	require.Error(t, err)

	require.NoError(t, node.SetParam("step_length", 0.25))
	value, err = node.GetParam("/step_length")
	require.NoError(t, err)
	require.Equal(t, 0.25, value)

	require.Equal(t, []string{"extra"}, node.NonRosArgs())
	require.Equal(t, "/walker", node.QualifiedName())
	require.Equal(t, "walker", node.Name())
}

func TestRemappedService(t *testing.T) {
	masterURI := startMaster(t)
	startServer(t, masterURI, echoFootprints)

	node := newNode(t, "client", masterURI, "plan:=/getPath")
	client := node.NewServiceClient("plan", hpg.SrvGetPath)
	require.Equal(t, "/getPath", client.Service())
	require.NoError(t, client.Call(timeoutContext(t, 5*time.Second), &hpg.GetPath{}))
}

func TestSlaveAPI(t *testing.T) {
	masterURI := startMaster(t)
	node, _ := startServer(t, masterURI, echoFootprints)

	result, err := xmlrpc.Call(masterURI, "lookupNode", "/test", "/server")
	require.NoError(t, err)
	slaveURI := result.([]interface{})[2].(string)

	result, err = xmlrpc.Call(slaveURI, "getPid", "/test")
	require.NoError(t, err)
	require.Equal(t, int32(os.Getpid()), result.([]interface{})[2])

	result, err = xmlrpc.Call(slaveURI, "getMasterUri", "/test")
	require.NoError(t, err)
	require.Equal(t, masterURI, result.([]interface{})[2])

	require.True(t, node.OK())
	_, err = xmlrpc.Call(slaveURI, "shutdown", "/test", "bye")
	require.NoError(t, err)
	require.False(t, node.OK())
}

func TestMissingMasterURI(t *testing.T) {
	t.Setenv("ROS_MASTER_URI", "")
	_, err := ros.NewNode("orphan", nil, ros.WithLogger(quietLogger()), ros.WithSignalHandling(false))
	require.Error(t, err)
	require.Contains(t, err.Error(), "ROS master URI is not set")
}

// rawRequest sends bytes as they are, whatever they declare.
type rawRequest []byte

func (r rawRequest) Type() ros.MessageType { return hpg.MsgGetPathRequest }
func (r rawRequest) Serialize(buf *bytes.Buffer) error { _, err := buf.Write(r); return err }
func (r rawRequest) Deserialize(buf *bytes.Reader) error { return nil }

type rawGetPath struct {
	request  rawRequest
	response hpg.GetPathResponse
}

func (s *rawGetPath) ReqMessage() ros.Message { return s.request }
func (s *rawGetPath) ResMessage() ros.Message { return &s.response }

func TestMalformedRequestIsRejected(t *testing.T) {
	masterURI := startMaster(t)
	startServer(t, masterURI, echoFootprints)
	client := newNode(t, "client", masterURI).NewServiceClient("getPath", hpg.SrvGetPath)

	var buf bytes.Buffer
	require.NoError(t, (&hpg.GetPathRequest{}).Serialize(&buf))
	data := buf.Bytes()
	copy(data[len(data)-4:], []byte{0xFF, 0xFF, 0xFF, 0xFF})

	err := client.Call(timeoutContext(t, 5*time.Second), &rawGetPath{request: data})
	require.True(t, ros.IsServiceFailure(err))
	require.EqualError(t, err, "service [/getPath] responded with an error: "+
		"malformed request: footprints: 4294967295 elements exceed 0 remaining bytes")

	// The provider survives and keeps answering.
	srv := &hpg.GetPath{}
	srv.Request.Footprints = make([]hpg.Footprint, 2)
	require.NoError(t, client.Call(timeoutContext(t, 5*time.Second), srv))
	require.Len(t, srv.Response.Path, 2)
}

func TestTimedOutCallbackIsSkipped(t *testing.T) {
	masterURI := startMaster(t)
	node, err := ros.NewNode("server", []string{"__ip:=127.0.0.1"},
		ros.WithMasterURI(masterURI),
		ros.WithLogger(quietLogger()),
		ros.WithSignalHandling(false),
		ros.WithCallbackTimeout(100*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(node.Shutdown)

	var calls int32
	_, err = node.NewServiceServer("getPath", hpg.SrvGetPath, func(srv *hpg.GetPath) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	require.NoError(t, err)

	// Nothing spins yet, so the queued job outlives the callback timeout.
	client := newNode(t, "client", masterURI).NewServiceClient("getPath", hpg.SrvGetPath)
	err = client.Call(timeoutContext(t, 5*time.Second), &hpg.GetPath{})
	require.EqualError(t, err, "service [/getPath] responded with an error: service callback timeout")

	go node.Spin()
	require.NoError(t, client.Call(timeoutContext(t, 5*time.Second), &hpg.GetPath{}))
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestShutdownClosesAcceptedConnections(t *testing.T) {
	masterURI := startMaster(t)
	for i := 0; i < 20; i++ {
		_, server := startServer(t, masterURI, echoFootprints)
		u, err := url.Parse(server.URI())
		require.NoError(t, err)

		conns := make(chan net.Conn, 64)
		dialing := make(chan struct{})
		go func() {
			defer close(conns)
			for {
				select {
				case <-dialing:
					return
				default:
				}
				conn, err := net.Dial("tcp", u.Host)
				if err != nil {
					return
				}
				conns <- conn
				if len(conns) == cap(conns) {
					return
				}
			}
		}()
		time.Sleep(time.Millisecond)
		server.Shutdown()
		close(dialing)

		// Every connection ends promptly instead of waiting out the I/O timeout.
		for conn := range conns {
			conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			_, err := conn.Read(make([]byte, 1))
			require.Error(t, err)
			ne, ok := err.(net.Error)
			require.False(t, ok && ne.Timeout(), "connection left open after shutdown")
			conn.Close()
		}
	}
}
