// Automatically generated from the message definition "halfsteps_pattern_generator/PathPoint.msg"
package halfsteps_pattern_generator

import (
	"bytes"
	"encoding/binary"

	"github.com/edwinhayes/halfsteps/msgs/geometry_msgs"
	"github.com/edwinhayes/halfsteps/ros"
)

type _MsgPathPoint struct {
	text   string
	name   string
	md5sum string
}

func (t *_MsgPathPoint) Text() string {
	return t.text
}

func (t *_MsgPathPoint) Name() string {
	return t.name
}

func (t *_MsgPathPoint) MD5Sum() string {
	return t.md5sum
}

func (t *_MsgPathPoint) NewMessage() ros.Message {
	m := new(PathPoint)
	m.Duration = ros.Duration{}
	m.LeftFoot = geometry_msgs.Pose{}
	m.RightFoot = geometry_msgs.Pose{}
	m.CenterOfMass = geometry_msgs.Point{}
	m.Zmp = geometry_msgs.Point{}
	return m
}

// pathPointWireSize is the encoded size of a PathPoint: a duration, two Poses and two Points.
const pathPointWireSize = 168

var (
	MsgPathPoint = &_MsgPathPoint{
		`duration duration
geometry_msgs/Pose left_foot
geometry_msgs/Pose right_foot
geometry_msgs/Point center_of_mass
geometry_msgs/Point zmp
`,
		"halfsteps_pattern_generator/PathPoint",
		"28e91a0a263042d9b062c8af3f779c01",
	}
)

type PathPoint struct {
	Duration     ros.Duration        `rosmsg:"duration:duration"`
	LeftFoot     geometry_msgs.Pose  `rosmsg:"left_foot:geometry_msgs/Pose"`
	RightFoot    geometry_msgs.Pose  `rosmsg:"right_foot:geometry_msgs/Pose"`
	CenterOfMass geometry_msgs.Point `rosmsg:"center_of_mass:geometry_msgs/Point"`
	Zmp          geometry_msgs.Point `rosmsg:"zmp:geometry_msgs/Point"`
}

func (m *PathPoint) Type() ros.MessageType {
	return MsgPathPoint
}

func (m *PathPoint) Serialize(buf *bytes.Buffer) error {
	var err error = nil
	binary.Write(buf, binary.LittleEndian, m.Duration.Sec)
	binary.Write(buf, binary.LittleEndian, m.Duration.NSec)
	if err = m.LeftFoot.Serialize(buf); err != nil {
		return err
	}
	if err = m.RightFoot.Serialize(buf); err != nil {
		return err
	}
	if err = m.CenterOfMass.Serialize(buf); err != nil {
		return err
	}
	if err = m.Zmp.Serialize(buf); err != nil {
		return err
	}
	return err
}

func (m *PathPoint) Deserialize(buf *bytes.Reader) error {
	var err error = nil
	{
		if err = binary.Read(buf, binary.LittleEndian, &m.Duration.Sec); err != nil {
			return err
		}

		if err = binary.Read(buf, binary.LittleEndian, &m.Duration.NSec); err != nil {
			return err
		}
	}
	if err = m.LeftFoot.Deserialize(buf); err != nil {
		return err
	}
	if err = m.RightFoot.Deserialize(buf); err != nil {
		return err
	}
	if err = m.CenterOfMass.Deserialize(buf); err != nil {
		return err
	}
	if err = m.Zmp.Deserialize(buf); err != nil {
		return err
	}
	return err
}
