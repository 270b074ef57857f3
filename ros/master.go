package ros

import (
	"context"

	"github.com/edwinhayes/halfsteps/xmlrpc"
	"github.com/pkg/errors"
)

const (
	//APIStatusError is an API call which returned an Error
	APIStatusError = -1
	//APIStatusFailure is a failed API call
	APIStatusFailure = 0
	//APIStatusSuccess is a successful API call
	APIStatusSuccess = 1
)

// callRosAPI performs an XML-RPC call against a ROS master or slave API and
// unpacks the [code, statusMessage, value] triplet.
func callRosAPI(ctx context.Context, calleeURI string, method string, args ...interface{}) (interface{}, error) {
	result, err := xmlrpc.CallContext(ctx, calleeURI, method, args...)
	if err != nil {
		return nil, err
	}

	xs, ok := result.([]interface{})
	if !ok {
		return nil, errors.New("malformed ROS API result")
	}
	if len(xs) != 3 {
		return nil, errors.Errorf("malformed ROS API result: length must be 3 but %d", len(xs))
	}
	code, ok := xs[0].(int32)
	if !ok {
		return nil, errors.New("status code is not int")
	}
	message, ok := xs[1].(string)
	if !ok {
		return nil, errors.New("message is not string")
	}
	if code != APIStatusSuccess {
		return nil, errors.Errorf("ROS API %s failed with code %d: %s", method, code, message)
	}
	return xs[2], nil
}

// buildRosAPIResult builds an XMLRPC ready array from a ROS API triplet.
func buildRosAPIResult(code int32, message string, value interface{}) interface{} {
	return []interface{}{code, message, value}
}
