// Automatically generated from the message definition "halfsteps_pattern_generator/GetPath.srv"
package halfsteps_pattern_generator

import (
	"github.com/edwinhayes/halfsteps/ros"
)

// Service type metadata
type _SrvGetPath struct {
	name    string
	md5sum  string
	text    string
	reqType ros.MessageType
	resType ros.MessageType
}

func (t *_SrvGetPath) Name() string                  { return t.name }
func (t *_SrvGetPath) MD5Sum() string                { return t.md5sum }
func (t *_SrvGetPath) Text() string                  { return t.text }
func (t *_SrvGetPath) RequestType() ros.MessageType  { return t.reqType }
func (t *_SrvGetPath) ResponseType() ros.MessageType { return t.resType }
func (t *_SrvGetPath) NewService() ros.Service {
	return new(GetPath)
}

var (
	SrvGetPath = &_SrvGetPath{
		"halfsteps_pattern_generator/GetPath",
		"dd9386faba8efcedfe65892c2c152f80",
		`geometry_msgs/Pose initial_left_foot_position
geometry_msgs/Pose initial_right_foot_position
geometry_msgs/Point initial_center_of_mass_position
geometry_msgs/Pose final_left_foot_position
geometry_msgs/Pose final_right_foot_position
geometry_msgs/Point final_center_of_mass_position
bool start_with_left_foot
Footprint[] footprints
---
PathPoint[] path
`,
		MsgGetPathRequest,
		MsgGetPathResponse,
	}
)

type GetPath struct {
	Request  GetPathRequest
	Response GetPathResponse
}

func (s *GetPath) ReqMessage() ros.Message { return &s.Request }
func (s *GetPath) ResMessage() ros.Message { return &s.Response }
