package pathgen

import (
	"math"

	"github.com/edwinhayes/halfsteps/msgs/geometry_msgs"
)

const (
	// SamplingPeriod is the trajectory period of the halfsteps generator.
	SamplingPeriod = 0.005

	initialStepLen = 6
	halfStepLen    = 7
)

// pose2d is a planar foot placement.
type pose2d struct {
	x, y, theta float64
}

// yaw is atan2(R10, R00) of q's rotation matrix.
func yaw(q geometry_msgs.Quaternion) float64 {
	return math.Atan2(2*(q.W*q.Z+q.X*q.Y), 1-2*(q.Y*q.Y+q.Z*q.Z))
}

func quaternionFromYaw(theta float64) geometry_msgs.Quaternion {
	return geometry_msgs.Quaternion{Z: math.Sin(theta / 2), W: math.Cos(theta / 2)}
}

func projectPose(p geometry_msgs.Pose) pose2d {
	return pose2d{x: p.Position.X, y: p.Position.Y, theta: yaw(p.Orientation)}
}

// relativeTo returns p * prev^-1.
func (p pose2d) relativeTo(prev pose2d) pose2d {
	theta := p.theta - prev.theta
	c, s := math.Cos(theta), math.Sin(theta)
	return pose2d{
		x:     p.x - (c*prev.x - s*prev.y),
		y:     p.y - (s*prev.x + c*prev.y),
		theta: theta,
	}
}

// EncodeHalfSteps converts req into the step vector consumed by the
// halfsteps generator. The first six values describe the initial double
// support: half the foot separation, its opposite, and the right foot
// yaw. Each footprint then contributes slideUp, horizontalDistance,
// stepHeight, slideDown and its placement relative to the previous
// footprint (x, y, theta in degrees). The first footprint is relative to
// the foot that does not move first.
func EncodeHalfSteps(req *Request) []float64 {
	left := req.InitialLeftFootPosition.Position
	right := req.InitialRightFootPosition.Position
	dx := math.Abs(left.X-right.X) / 2
	dy := math.Abs(left.Y-right.Y) / 2

	steps := make([]float64, 0, initialStepLen+halfStepLen*len(req.Footprints))
	steps = append(steps, dx, dy, 0, -dx, -dy, yaw(req.InitialRightFootPosition.Orientation))

	previous := projectPose(req.InitialLeftFootPosition)
	if req.StartWithLeftFoot {
		previous = projectPose(req.InitialRightFootPosition)
	}
	for _, fp := range req.Footprints {
		next := pose2d{x: fp.Footprint.X, y: fp.Footprint.Y, theta: fp.Footprint.Theta}
		rel := next.relativeTo(previous)
		steps = append(steps,
			fp.SlideUp, fp.HorizontalDistance, fp.StepHeight, fp.SlideDown,
			rel.x, rel.y, rel.theta*180/math.Pi)
		previous = next
	}
	return steps
}
