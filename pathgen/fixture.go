// Package pathgen builds getPath requests, calls the halfsteps pattern
// generator service and reports its answer. It also holds the provider
// side: request validation, the half-step encoding and a path computer.
package pathgen

import (
	"github.com/edwinhayes/halfsteps/msgs/geometry_msgs"
	hpg "github.com/edwinhayes/halfsteps/msgs/halfsteps_pattern_generator"
	"github.com/edwinhayes/halfsteps/msgs/walk_msgs"
	"github.com/edwinhayes/halfsteps/ros"
)

type (
	Request  = hpg.GetPathRequest
	Response = hpg.GetPathResponse
)

const (
	footOffset = 0.19
	stepLength = 0.25
	comHeight  = 0.8

	slide              = -0.1
	horizontalDistance = 0.31
	stepHeight         = 0.15
)

var identity = geometry_msgs.Quaternion{W: 1}

// NewPose returns a pose at (x, y, z) with identity orientation.
func NewPose(x, y, z float64) geometry_msgs.Pose {
	return geometry_msgs.Pose{
		Position:    geometry_msgs.Point{X: x, Y: y, Z: z},
		Orientation: identity,
	}
}

func walkFootprint(x, y float64) hpg.Footprint {
	return hpg.Footprint{
		Footprint: walk_msgs.Footprint2d{
			// beginTime is left at zero.
			Duration: ros.NewDuration(0, 1e9),
			X:        x,
			Y:        y,
			Theta:    0,
		},
		SlideUp:            slide,
		SlideDown:          slide,
		HorizontalDistance: horizontalDistance,
		StepHeight:         stepHeight,
	}
}

// NewWalkForwardRequest returns the three step walk used to exercise the
// service: feet 0.38 apart, six footprints alternating left and right
// every 0.25 forward, starting with the left foot. Every call returns a
// fresh value.
func NewWalkForwardRequest() *Request {
	req := &Request{
		InitialLeftFootPosition:     NewPose(0, -footOffset, 0),
		InitialRightFootPosition:    NewPose(0, +footOffset, 0),
		InitialCenterOfMassPosition: geometry_msgs.Point{X: 0, Y: 0, Z: comHeight},
		FinalLeftFootPosition:       NewPose(3*stepLength, -footOffset, 0),
		FinalRightFootPosition:      NewPose(3*stepLength, +footOffset, 0),
		FinalCenterOfMassPosition:   geometry_msgs.Point{X: 0, Y: 0, Z: comHeight},
		StartWithLeftFoot:           true,
	}
	for i := 1; i <= 3; i++ {
		x := float64(i) * stepLength
		req.Footprints = append(req.Footprints,
			walkFootprint(x, -footOffset),
			walkFootprint(x, +footOffset))
	}
	return req
}
