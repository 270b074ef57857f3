// Package rosmaster is a minimal in-process ROS master. It implements the
// service registry, node lookup and a flat parameter server, which is
// what service clients and providers need to find each other.
package rosmaster

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/edwinhayes/halfsteps/xmlrpc"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Status codes of the master API triplet. 0 (failure) is never produced
// here.
const (
	statusError   int32 = -1
	statusSuccess int32 = 1
)

type serviceEntry struct {
	provider   string
	serviceAPI string
}

// Master holds the registry state and serves the master API over XML-RPC.
type Master struct {
	logger   logrus.FieldLogger
	mutex    sync.Mutex
	services map[string]serviceEntry
	nodes    map[string]string
	params   map[string]interface{}
	handler  *xmlrpc.Handler
	server   *http.Server
	uri      string
}

// New returns a master that is not yet listening.
func New(logger logrus.FieldLogger) *Master {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	m := &Master{
		logger:   logger.WithField("component", "rosmaster"),
		services: make(map[string]serviceEntry),
		nodes:    make(map[string]string),
		params:   make(map[string]interface{}),
	}
	m.handler = xmlrpc.NewHandler(map[string]xmlrpc.Method{
		"registerService":   m.registerService,
		"unregisterService": m.unregisterService,
		"lookupService":     m.lookupService,
		"lookupNode":        m.lookupNode,
		"getUri":            m.getURI,
		"getPid":            m.getPid,
		"getSystemState":    m.getSystemState,
		"setParam":          m.setParam,
		"getParam":          m.getParam,
		"hasParam":          m.hasParam,
		"deleteParam":       m.deleteParam,
		"getParamNames":     m.getParamNames,
	})
	return m
}

// Start listens on addr (host:port, port may be 0) and returns the master
// URI.
func (m *Master) Start(addr string) (string, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", errors.Wrapf(err, "failed to listen on %s", addr)
	}
	m.uri = fmt.Sprintf("http://%s/", listener.Addr().String())
	m.server = &http.Server{Handler: m.handler}
	go m.server.Serve(listener)
	m.logger.Infof("Master listening on %s", m.uri)
	return m.uri, nil
}

// ServeHTTP lets the master be mounted on an existing server.
func (m *Master) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	m.handler.ServeHTTP(w, req)
}

// URI returns the address given by Start.
func (m *Master) URI() string {
	return m.uri
}

// Shutdown stops serving and waits for in-flight calls.
func (m *Master) Shutdown() {
	if m.server != nil {
		m.server.Close()
	}
	m.handler.WaitForShutdown()
}

func result(code int32, message string, value interface{}) interface{} {
	return []interface{}{code, message, value}
}

func (m *Master) registerService(callerID string, service string, serviceAPI string, callerAPI string) (interface{}, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.services[service] = serviceEntry{provider: callerID, serviceAPI: serviceAPI}
	m.nodes[callerID] = callerAPI
	m.logger.Debugf("%s registered service %s at %s", callerID, service, serviceAPI)
	return result(statusSuccess, fmt.Sprintf("Registered [%s] as provider of [%s]", callerID, service), 1), nil
}

func (m *Master) unregisterService(callerID string, service string, serviceAPI string) (interface{}, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	entry, ok := m.services[service]
	if !ok || entry.serviceAPI != serviceAPI {
		return result(statusSuccess, fmt.Sprintf("[%s] is not a provider of [%s]", callerID, service), 0), nil
	}
	delete(m.services, service)
	m.logger.Debugf("%s unregistered service %s", callerID, service)
	return result(statusSuccess, fmt.Sprintf("Unregistered [%s] as provider of [%s]", callerID, service), 1), nil
}

func (m *Master) lookupService(callerID string, service string) (interface{}, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	entry, ok := m.services[service]
	if !ok {
		return result(statusError, fmt.Sprintf("no provider for [%s]", service), ""), nil
	}
	return result(statusSuccess, fmt.Sprintf("rosrpc URI: [%s]", entry.serviceAPI), entry.serviceAPI), nil
}

func (m *Master) lookupNode(callerID string, node string) (interface{}, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	api, ok := m.nodes[node]
	if !ok {
		return result(statusError, fmt.Sprintf("unknown node [%s]", node), ""), nil
	}
	return result(statusSuccess, fmt.Sprintf("node api for [%s]", node), api), nil
}

func (m *Master) getURI(callerID string) (interface{}, error) {
	return result(statusSuccess, "", m.uri), nil
}

func (m *Master) getPid(callerID string) (interface{}, error) {
	return result(statusSuccess, "", os.Getpid()), nil
}

// getSystemState reports no topics, only services.
func (m *Master) getSystemState(callerID string) (interface{}, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	names := make([]string, 0, len(m.services))
	for name := range m.services {
		names = append(names, name)
	}
	sort.Strings(names)
	services := make([]interface{}, 0, len(names))
	for _, name := range names {
		services = append(services, []interface{}{name, []interface{}{m.services[name].provider}})
	}
	state := []interface{}{[]interface{}{}, []interface{}{}, services}
	return result(statusSuccess, "current system state", state), nil
}

func canonicalParam(key string) string {
	return "/" + strings.Trim(key, "/")
}

func (m *Master) setParam(callerID string, key string, value interface{}) (interface{}, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.params[canonicalParam(key)] = value
	return result(statusSuccess, fmt.Sprintf("parameter [%s] set", key), 0), nil
}

func (m *Master) getParam(callerID string, key string) (interface{}, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	value, ok := m.params[canonicalParam(key)]
	if !ok {
		return result(statusError, fmt.Sprintf("Parameter [%s] is not set", key), 0), nil
	}
	return result(statusSuccess, fmt.Sprintf("Parameter [%s]", key), value), nil
}

func (m *Master) hasParam(callerID string, key string) (interface{}, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	_, ok := m.params[canonicalParam(key)]
	return result(statusSuccess, key, ok), nil
}

func (m *Master) deleteParam(callerID string, key string) (interface{}, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	name := canonicalParam(key)
	if _, ok := m.params[name]; !ok {
		return result(statusError, fmt.Sprintf("parameter [%s] is not set", key), 0), nil
	}
	delete(m.params, name)
	return result(statusSuccess, fmt.Sprintf("parameter [%s] deleted", key), 0), nil
}

func (m *Master) getParamNames(callerID string) (interface{}, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	names := make([]string, 0, len(m.params))
	for name := range m.params {
		names = append(names, name)
	}
	sort.Strings(names)
	return result(statusSuccess, "Parameter names", names), nil
}
