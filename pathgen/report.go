package pathgen

import (
	"context"
	"fmt"
	"io"

	"github.com/edwinhayes/halfsteps/ros"
)

// Outcome of one harness run.
type Outcome int

const (
	PathFound Outcome = iota
	NoPath
	CallFailed
)

func (o Outcome) String() string {
	switch o {
	case PathFound:
		return "path found"
	case NoPath:
		return "no path"
	default:
		return "call failed"
	}
}

// HasPath only looks at emptiness; the samples themselves are opaque here.
func HasPath(resp *Response) bool {
	return resp != nil && len(resp.Path) > 0
}

// FailureMessage returns the diagnostic carried by err.
func FailureMessage(err error) string {
	if failure, ok := ros.AsServiceFailure(err); ok {
		return failure.Reason
	}
	return err.Error()
}

// Report prints True or False, or the failure line when err is not nil.
func Report(w io.Writer, hasPath bool, err error) Outcome {
	if err != nil {
		fmt.Fprintf(w, "Service call failed: %s\n", FailureMessage(err))
		return CallFailed
	}
	if hasPath {
		fmt.Fprintln(w, "True")
		return PathFound
	}
	fmt.Fprintln(w, "False")
	return NoPath
}

// Run is the whole harness: announce, call, report.
func Run(ctx context.Context, w io.Writer, svc PathService, req *Request, opts CallOptions) (Outcome, error) {
	fmt.Fprintln(w, "Requesting")
	hasPath, err := GetPathClient(ctx, svc, req, opts)
	return Report(w, hasPath, err), err
}
