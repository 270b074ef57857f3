package ros

import (
	"context"
)

// Node is a participant of the ROS graph. A Node must be created with
// NewNode and released with Shutdown.
type Node interface {
	NewServiceClient(service string, srvType ServiceType) ServiceClient
	// callback must be a func taking a pointer to the generated service
	// type and returning error. It runs on the goroutine that calls Spin
	// or SpinOnce; a non-nil error is sent to the caller as the failure
	// reason.
	NewServiceServer(service string, srvType ServiceType, callback interface{}) (ServiceServer, error)

	OK() bool
	SpinOnce()
	Spin()
	Shutdown()

	Name() string
	QualifiedName() string

	GetParam(name string) (interface{}, error)
	SetParam(name string, value interface{}) error
	HasParam(name string) (bool, error)

	Logger() Logger

	NonRosArgs() []string
}

// NewNode creates a node named name. args are command line arguments;
// ROS remappings and special keys (__master:=, __ns:=, __hostname:=, ...)
// are consumed and the rest is available from NonRosArgs.
func NewNode(name string, args []string, opts ...NodeOption) (Node, error) {
	return newDefaultNode(name, args, opts...)
}

type ServiceServer interface {
	// URI returns the rosrpc:// address the server accepts calls on.
	URI() string
	Shutdown()
}

// ServiceClient calls a named service. WaitForService and Call are
// separate so that readiness and call timeouts can be chosen
// independently.
type ServiceClient interface {
	// WaitForService blocks until the service is registered and its
	// provider answers a probe, or ctx is done.
	WaitForService(ctx context.Context) error
	// Call sends srv's request and fills srv's response. Every failure is
	// a *ServiceFailure.
	Call(ctx context.Context, srv Service) error
	Service() string
	Shutdown()
}
