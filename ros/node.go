package ros

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/edwinhayes/halfsteps/xmlrpc"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultIOTimeout bounds each TCPROS handshake and request write.
	DefaultIOTimeout = 10 * time.Second
	// DefaultCallbackTimeout bounds a service callback on the server side.
	DefaultCallbackTimeout = 5 * time.Second
	// DefaultPollInterval is how often WaitForService retries.
	DefaultPollInterval = 100 * time.Millisecond

	jobQueueSize = 100
)

type nodeOptions struct {
	logger          Logger
	masterURI       string
	ioTimeout       time.Duration
	callbackTimeout time.Duration
	pollInterval    time.Duration
	handleSignals   bool
}

// NodeOption configures a node.
type NodeOption func(*nodeOptions)

// WithLogger replaces the logrus standard logger.
func WithLogger(logger Logger) NodeOption {
	return func(o *nodeOptions) { o.logger = logger }
}

// WithMasterURI overrides ROS_MASTER_URI. A __master:= argument still
// takes precedence.
func WithMasterURI(uri string) NodeOption {
	return func(o *nodeOptions) { o.masterURI = uri }
}

// WithIOTimeout bounds each TCPROS handshake and request write.
func WithIOTimeout(d time.Duration) NodeOption {
	return func(o *nodeOptions) { o.ioTimeout = d }
}

// WithCallbackTimeout bounds how long a service server waits for its
// callback. Zero waits forever.
func WithCallbackTimeout(d time.Duration) NodeOption {
	return func(o *nodeOptions) { o.callbackTimeout = d }
}

// WithPollInterval sets the WaitForService retry interval.
func WithPollInterval(d time.Duration) NodeOption {
	return func(o *nodeOptions) { o.pollInterval = d }
}

// WithSignalHandling controls whether SIGINT stops the node.
func WithSignalHandling(enabled bool) NodeOption {
	return func(o *nodeOptions) { o.handleSignals = enabled }
}

// *defaultNode implements Node interface.
type defaultNode struct {
	name          string
	namespace     string
	qualifiedName string
	masterURI     string
	xmlrpcURI     string
	xmlrpcServer  *http.Server
	xmlrpcHandler *xmlrpc.Handler
	servers       map[string]*defaultServiceServer
	serversMutex  sync.Mutex
	jobChan       chan func()
	interruptChan chan os.Signal
	doneChan      chan struct{}
	stopOnce      sync.Once
	shutdownOnce  sync.Once
	logger        Logger
	opts          nodeOptions
	waitGroup     sync.WaitGroup
	logDir        string
	hostname      string
	listenIP      string
	homeDir       string
	nameResolver  *NameResolver
	nonRosArgs    []string
}

func newDefaultNode(name string, args []string, opts ...NodeOption) (*defaultNode, error) {
	options := nodeOptions{
		ioTimeout:       DefaultIOTimeout,
		callbackTimeout: DefaultCallbackTimeout,
		pollInterval:    DefaultPollInterval,
		handleSignals:   true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	node := new(defaultNode)
	node.opts = options

	namespace, nodeName, err := qualifyNodeName(name)
	if err != nil {
		return nil, err
	}
	remapping, params, specials, rest := processArguments(args)

	node.homeDir = filepath.Join(os.Getenv("HOME"), ".ros")
	if homeDir := os.Getenv("ROS_HOME"); len(homeDir) > 0 {
		node.homeDir = homeDir
	}

	node.name = nodeName
	if value, ok := specials["__name"]; ok {
		node.name = value
	}

	node.namespace = namespace
	if ns := os.Getenv("ROS_NAMESPACE"); len(ns) > 0 {
		node.namespace = ns
	}
	if value, ok := specials["__ns"]; ok {
		node.namespace = value
	}
	node.namespace = canonicalizeNamespace(node.namespace)
	if !isValidNamespace(node.namespace) {
		return nil, errors.Errorf("invalid namespace %q", node.namespace)
	}

	node.logDir = filepath.Join(node.homeDir, "log")
	if logDir := os.Getenv("ROS_LOG_DIR"); len(logDir) > 0 {
		node.logDir = logDir
	}
	if value, ok := specials["__log"]; ok {
		node.logDir = value
	}

	var onlyLocalhost bool
	node.hostname, onlyLocalhost = determineHost()
	if value, ok := specials["__hostname"]; ok {
		node.hostname = value
		onlyLocalhost = value == "localhost"
	} else if value, ok := specials["__ip"]; ok {
		node.hostname = value
		onlyLocalhost = isLoopbackIP(value)
	}
	if onlyLocalhost {
		node.listenIP = "127.0.0.1"
	} else {
		node.listenIP = "0.0.0.0"
	}

	node.masterURI = os.Getenv("ROS_MASTER_URI")
	if options.masterURI != "" {
		node.masterURI = options.masterURI
	}
	if value, ok := specials["__master"]; ok {
		node.masterURI = value
	}
	if node.masterURI == "" {
		return nil, errors.New("ROS master URI is not set: use ROS_MASTER_URI or __master:=")
	}

	node.nameResolver = newNameResolver(node.namespace, node.name, remapping)
	node.nonRosArgs = rest
	node.qualifiedName = node.namespace + node.name
	node.servers = make(map[string]*defaultServiceServer)
	node.jobChan = make(chan func(), jobQueueSize)
	node.doneChan = make(chan struct{})

	logger := options.logger
	if logger == nil {
		logger = DefaultLogger()
	}
	node.logger = logger.WithField("node", node.qualifiedName)
	node.logger.Debugf("Master URI = %s", node.masterURI)

	for k, v := range params {
		value, err := loadParamFromString(v)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid value for parameter _%s", k)
		}
		if err := node.SetParam(PrivateNS+k, value); err != nil {
			return nil, errors.Wrapf(err, "failed to set parameter _%s", k)
		}
	}

	if err := node.startSlaveAPI(); err != nil {
		return nil, err
	}

	if options.handleSignals {
		node.interruptChan = make(chan os.Signal, 1)
		signal.Notify(node.interruptChan, os.Interrupt)
		go func() {
			select {
			case <-node.interruptChan:
				node.logger.Info("Interrupted")
				node.stop()
			case <-node.doneChan:
			}
		}()
	}

	node.logger.Debugf("Started %s", node.qualifiedName)
	return node, nil
}

func (node *defaultNode) startSlaveAPI() error {
	listener, port, err := listenEphemeral(node.listenIP)
	if err != nil {
		return errors.Wrap(err, "failed to listen for the slave API")
	}
	node.xmlrpcURI = fmt.Sprintf("http://%s/", net.JoinHostPort(node.hostname, port))
	node.logger.Debugf("listen on http://%s", listener.Addr().String())

	m := map[string]xmlrpc.Method{
		"getBusStats":      func(callerID string) (interface{}, error) { return node.getBusStats(callerID) },
		"getBusInfo":       func(callerID string) (interface{}, error) { return node.getBusInfo(callerID) },
		"getMasterUri":     func(callerID string) (interface{}, error) { return node.getMasterURI(callerID) },
		"shutdown":         func(callerID string, msg string) (interface{}, error) { return node.shutdown(callerID, msg) },
		"getPid":           func(callerID string) (interface{}, error) { return node.getPid(callerID) },
		"getSubscriptions": func(callerID string) (interface{}, error) { return buildRosAPIResult(1, "Success", []interface{}{}), nil },
		"getPublications":  func(callerID string) (interface{}, error) { return buildRosAPIResult(1, "Success", []interface{}{}), nil },
	}
	node.xmlrpcHandler = xmlrpc.NewHandler(m)
	node.xmlrpcServer = &http.Server{Handler: node.xmlrpcHandler}
	go node.xmlrpcServer.Serve(listener)
	return nil
}

// stop marks the node as no longer OK and releases Spin. It is safe to
// call from any goroutine, including slave API handlers.
func (node *defaultNode) stop() {
	node.stopOnce.Do(func() {
		close(node.doneChan)
	})
}

func (node *defaultNode) OK() bool {
	select {
	case <-node.doneChan:
		return false
	default:
		return true
	}
}

func (node *defaultNode) Name() string {
	return node.name
}

func (node *defaultNode) QualifiedName() string {
	return node.qualifiedName
}

func (node *defaultNode) getBusStats(callerID string) (interface{}, error) {
	return buildRosAPIResult(-1, "Not implemented", 0), nil
}

func (node *defaultNode) getBusInfo(callerID string) (interface{}, error) {
	return buildRosAPIResult(1, "Success", []interface{}{}), nil
}

func (node *defaultNode) getMasterURI(callerID string) (interface{}, error) {
	return buildRosAPIResult(1, "Success", node.masterURI), nil
}

func (node *defaultNode) shutdown(callerID string, msg string) (interface{}, error) {
	node.logger.Infof("Shutdown requested by %s: %s", callerID, msg)
	node.stop()
	return buildRosAPIResult(1, "Success", 0), nil
}

func (node *defaultNode) getPid(callerID string) (interface{}, error) {
	return buildRosAPIResult(1, "Success", os.Getpid()), nil
}

func (node *defaultNode) NewServiceClient(service string, srvType ServiceType) ServiceClient {
	name := node.nameResolver.remap(service)
	return newDefaultServiceClient(node.logger, node.qualifiedName, node.masterURI, name, srvType, node.opts)
}

func (node *defaultNode) NewServiceServer(service string, srvType ServiceType, handler interface{}) (ServiceServer, error) {
	name := node.nameResolver.remap(service)
	node.serversMutex.Lock()
	old, ok := node.servers[name]
	delete(node.servers, name)
	node.serversMutex.Unlock()
	if ok {
		old.Shutdown()
	}

	server, err := newDefaultServiceServer(node, name, srvType, handler)
	if err != nil {
		return nil, err
	}
	node.serversMutex.Lock()
	node.servers[name] = server
	node.serversMutex.Unlock()
	return server, nil
}

func (node *defaultNode) SpinOnce() {
	select {
	case job := <-node.jobChan:
		job()
	case <-time.After(10 * time.Millisecond):
	}
}

func (node *defaultNode) Spin() {
	for {
		select {
		case job := <-node.jobChan:
			node.logger.Debug("Execute job")
			job()
		case <-node.doneChan:
			return
		}
	}
}

func (node *defaultNode) Shutdown() {
	node.shutdownOnce.Do(func() {
		node.logger.Debug("Shutting node down")
		node.stop()
		if node.interruptChan != nil {
			signal.Stop(node.interruptChan)
		}

		node.serversMutex.Lock()
		servers := node.servers
		node.servers = make(map[string]*defaultServiceServer)
		node.serversMutex.Unlock()
		for _, s := range servers {
			s.Shutdown()
		}

		node.logger.Debug("Wait all goroutines")
		node.waitGroup.Wait()
		node.xmlrpcServer.Close()
		node.xmlrpcHandler.WaitForShutdown()
		node.logger.Debug("Shutting node down completed")
	})
}

// callMaster calls the master with the node's I/O timeout.
func (node *defaultNode) callMaster(method string, args ...interface{}) (interface{}, error) {
	ctx := context.Background()
	if node.opts.ioTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, node.opts.ioTimeout)
		defer cancel()
	}
	return callRosAPI(ctx, node.masterURI, method, args...)
}

func (node *defaultNode) GetParam(key string) (interface{}, error) {
	return node.callMaster("getParam", node.qualifiedName, node.nameResolver.remap(key))
}

func (node *defaultNode) SetParam(key string, value interface{}) error {
	_, err := node.callMaster("setParam", node.qualifiedName, node.nameResolver.remap(key), value)
	return err
}

func (node *defaultNode) HasParam(key string) (bool, error) {
	result, err := node.callMaster("hasParam", node.qualifiedName, node.nameResolver.remap(key))
	if err != nil {
		return false, err
	}
	hasParam, ok := result.(bool)
	if !ok {
		return false, errors.Errorf("hasParam returned %T", result)
	}
	return hasParam, nil
}

func (node *defaultNode) Logger() Logger {
	return node.logger
}

func (node *defaultNode) NonRosArgs() []string {
	return node.nonRosArgs
}

// loadParamFromString decodes a command line parameter value as YAML, the
// way rosparam does.
func loadParamFromString(s string) (interface{}, error) {
	var value interface{}
	if err := yaml.Unmarshal([]byte(s), &value); err != nil {
		return nil, err
	}
	return value, nil
}
