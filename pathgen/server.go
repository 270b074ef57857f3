package pathgen

import (
	"math"

	"github.com/edwinhayes/halfsteps/msgs/geometry_msgs"
	hpg "github.com/edwinhayes/halfsteps/msgs/halfsteps_pattern_generator"
	"github.com/edwinhayes/halfsteps/ros"
	"github.com/pkg/errors"
)

const quaternionTolerance = 1e-3

// PathComputer turns a validated request into path samples.
type PathComputer interface {
	ComputePath(req *Request) ([]hpg.PathPoint, error)
}

// Validate rejects requests the generator cannot start from.
func Validate(req *Request) error {
	poses := []struct {
		name string
		pose geometry_msgs.Pose
	}{
		{"initial_left_foot_position", req.InitialLeftFootPosition},
		{"initial_right_foot_position", req.InitialRightFootPosition},
		{"final_left_foot_position", req.FinalLeftFootPosition},
		{"final_right_foot_position", req.FinalRightFootPosition},
	}
	for _, p := range poses {
		q := p.pose.Orientation
		norm := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
		if math.IsNaN(norm) || math.Abs(norm-1) > quaternionTolerance {
			return errors.Errorf("%s: orientation is not a unit quaternion (norm %g)", p.name, norm)
		}
	}
	if z := req.InitialCenterOfMassPosition.Z; !(z > 0) {
		return errors.Errorf("initial_center_of_mass_position: height must be positive, got %g", z)
	}
	if z := req.FinalCenterOfMassPosition.Z; !(z > 0) {
		return errors.Errorf("final_center_of_mass_position: height must be positive, got %g", z)
	}
	for i, fp := range req.Footprints {
		if fp.Footprint.Duration.Cmp(ros.Duration{}) < 0 {
			return errors.Errorf("footprints[%d]: negative duration %v s", i, fp.Footprint.Duration.ToSec())
		}
	}
	return nil
}

// KeyframeComputer emits one sample per footprint, with the moving foot
// placed on it and the other foot held, then one sample for the final
// stance. The centre of mass stays between the feet at the requested
// height and the ZMP lies under it.
type KeyframeComputer struct{}

func midpoint(a, b geometry_msgs.Point, z float64) geometry_msgs.Point {
	return geometry_msgs.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2, Z: z}
}

func keyframe(d ros.Duration, left, right geometry_msgs.Pose, height float64) hpg.PathPoint {
	com := midpoint(left.Position, right.Position, height)
	return hpg.PathPoint{
		Duration:     d,
		LeftFoot:     left,
		RightFoot:    right,
		CenterOfMass: com,
		Zmp:          geometry_msgs.Point{X: com.X, Y: com.Y},
	}
}

func (KeyframeComputer) ComputePath(req *Request) ([]hpg.PathPoint, error) {
	if len(req.Footprints) == 0 {
		return []hpg.PathPoint{}, nil
	}
	left := req.InitialLeftFootPosition
	right := req.InitialRightFootPosition
	height := req.InitialCenterOfMassPosition.Z
	moveLeft := req.StartWithLeftFoot

	path := make([]hpg.PathPoint, 0, len(req.Footprints)+1)
	for _, fp := range req.Footprints {
		placed := geometry_msgs.Pose{
			Position:    geometry_msgs.Point{X: fp.Footprint.X, Y: fp.Footprint.Y},
			Orientation: quaternionFromYaw(fp.Footprint.Theta),
		}
		if moveLeft {
			left = placed
		} else {
			right = placed
		}
		path = append(path, keyframe(fp.Footprint.Duration, left, right, height))
		moveLeft = !moveLeft
	}

	final := hpg.PathPoint{
		Duration:     ros.DurationFromSec(SamplingPeriod),
		LeftFoot:     req.FinalLeftFootPosition,
		RightFoot:    req.FinalRightFootPosition,
		CenterOfMass: req.FinalCenterOfMassPosition,
		Zmp: geometry_msgs.Point{
			X: req.FinalCenterOfMassPosition.X,
			Y: req.FinalCenterOfMassPosition.Y,
		},
	}
	return append(path, final), nil
}

// Handler answers getPath calls.
type Handler struct {
	computer PathComputer
	logger   ros.Logger
}

func NewHandler(computer PathComputer, logger ros.Logger) *Handler {
	if computer == nil {
		computer = KeyframeComputer{}
	}
	if logger == nil {
		logger = ros.DefaultLogger()
	}
	return &Handler{computer: computer, logger: logger}
}

// Handle is the service callback. Errors reach the caller as the failure
// reason.
func (h *Handler) Handle(srv *hpg.GetPath) error {
	req := &srv.Request
	if err := Validate(req); err != nil {
		h.logger.Warnf("Rejected getPath request: %v", err)
		return err
	}
	h.logger.Debugf("Half steps: %v", EncodeHalfSteps(req))
	path, err := h.computer.ComputePath(req)
	if err != nil {
		return errors.Wrap(err, "path computation failed")
	}
	srv.Response.Path = path
	h.logger.WithField("samples", len(path)).Info("Computed path")
	return nil
}

// Advertise registers h as the provider of service on node.
func Advertise(node ros.Node, service string, h *Handler) (ros.ServiceServer, error) {
	return node.NewServiceServer(service, hpg.SrvGetPath, h.Handle)
}
