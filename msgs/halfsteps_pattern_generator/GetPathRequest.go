// Automatically generated from the message definition "halfsteps_pattern_generator/GetPathRequest.msg"
package halfsteps_pattern_generator

import (
	"bytes"
	"encoding/binary"

	"github.com/edwinhayes/halfsteps/msgs/geometry_msgs"
	"github.com/edwinhayes/halfsteps/ros"
	"github.com/pkg/errors"
)

type _MsgGetPathRequest struct {
	text   string
	name   string
	md5sum string
}

func (t *_MsgGetPathRequest) Text() string {
	return t.text
}

func (t *_MsgGetPathRequest) Name() string {
	return t.name
}

func (t *_MsgGetPathRequest) MD5Sum() string {
	return t.md5sum
}

func (t *_MsgGetPathRequest) NewMessage() ros.Message {
	m := new(GetPathRequest)
	m.InitialLeftFootPosition = geometry_msgs.Pose{}
	m.InitialRightFootPosition = geometry_msgs.Pose{}
	m.InitialCenterOfMassPosition = geometry_msgs.Point{}
	m.FinalLeftFootPosition = geometry_msgs.Pose{}
	m.FinalRightFootPosition = geometry_msgs.Pose{}
	m.FinalCenterOfMassPosition = geometry_msgs.Point{}
	m.StartWithLeftFoot = false
	m.Footprints = []Footprint{}
	return m
}

var (
	MsgGetPathRequest = &_MsgGetPathRequest{
		`geometry_msgs/Pose initial_left_foot_position
geometry_msgs/Pose initial_right_foot_position
geometry_msgs/Point initial_center_of_mass_position
geometry_msgs/Pose final_left_foot_position
geometry_msgs/Pose final_right_foot_position
geometry_msgs/Point final_center_of_mass_position
bool start_with_left_foot
Footprint[] footprints
`,
		"halfsteps_pattern_generator/GetPathRequest",
		"e063e957046b30786d0c14db34db37f1",
	}
)

type GetPathRequest struct {
	InitialLeftFootPosition     geometry_msgs.Pose  `rosmsg:"initial_left_foot_position:geometry_msgs/Pose"`
	InitialRightFootPosition    geometry_msgs.Pose  `rosmsg:"initial_right_foot_position:geometry_msgs/Pose"`
	InitialCenterOfMassPosition geometry_msgs.Point `rosmsg:"initial_center_of_mass_position:geometry_msgs/Point"`
	FinalLeftFootPosition       geometry_msgs.Pose  `rosmsg:"final_left_foot_position:geometry_msgs/Pose"`
	FinalRightFootPosition      geometry_msgs.Pose  `rosmsg:"final_right_foot_position:geometry_msgs/Pose"`
	FinalCenterOfMassPosition   geometry_msgs.Point `rosmsg:"final_center_of_mass_position:geometry_msgs/Point"`
	StartWithLeftFoot           bool                `rosmsg:"start_with_left_foot:bool"`
	Footprints                  []Footprint         `rosmsg:"footprints:halfsteps_pattern_generator/Footprint[]"`
}

func (m *GetPathRequest) Type() ros.MessageType {
	return MsgGetPathRequest
}

func (m *GetPathRequest) Serialize(buf *bytes.Buffer) error {
	var err error = nil
	if err = m.InitialLeftFootPosition.Serialize(buf); err != nil {
		return err
	}
	if err = m.InitialRightFootPosition.Serialize(buf); err != nil {
		return err
	}
	if err = m.InitialCenterOfMassPosition.Serialize(buf); err != nil {
		return err
	}
	if err = m.FinalLeftFootPosition.Serialize(buf); err != nil {
		return err
	}
	if err = m.FinalRightFootPosition.Serialize(buf); err != nil {
		return err
	}
	if err = m.FinalCenterOfMassPosition.Serialize(buf); err != nil {
		return err
	}
	binary.Write(buf, binary.LittleEndian, m.StartWithLeftFoot)
	binary.Write(buf, binary.LittleEndian, uint32(len(m.Footprints)))
	for _, e := range m.Footprints {
		if err = e.Serialize(buf); err != nil {
			return err
		}
	}
	return err
}

func (m *GetPathRequest) Deserialize(buf *bytes.Reader) error {
	var err error = nil
	if err = m.InitialLeftFootPosition.Deserialize(buf); err != nil {
		return err
	}
	if err = m.InitialRightFootPosition.Deserialize(buf); err != nil {
		return err
	}
	if err = m.InitialCenterOfMassPosition.Deserialize(buf); err != nil {
		return err
	}
	if err = m.FinalLeftFootPosition.Deserialize(buf); err != nil {
		return err
	}
	if err = m.FinalRightFootPosition.Deserialize(buf); err != nil {
		return err
	}
	if err = m.FinalCenterOfMassPosition.Deserialize(buf); err != nil {
		return err
	}
	if err = binary.Read(buf, binary.LittleEndian, &m.StartWithLeftFoot); err != nil {
		return err
	}
	{
		var size uint32
		if err = binary.Read(buf, binary.LittleEndian, &size); err != nil {
			return err
		}
		if int64(size)*footprintWireSize > int64(buf.Len()) {
			return errors.Errorf("footprints: %d elements exceed %d remaining bytes", size, buf.Len())
		}
		m.Footprints = make([]Footprint, int(size))
		for i := 0; i < int(size); i++ {
			if err = m.Footprints[i].Deserialize(buf); err != nil {
				return err
			}
		}
	}
	return err
}
