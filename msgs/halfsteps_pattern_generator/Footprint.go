// Automatically generated from the message definition "halfsteps_pattern_generator/Footprint.msg"
package halfsteps_pattern_generator

import (
	"bytes"
	"encoding/binary"

	"github.com/edwinhayes/halfsteps/msgs/walk_msgs"
	"github.com/edwinhayes/halfsteps/ros"
)

type _MsgFootprint struct {
	text   string
	name   string
	md5sum string
}

func (t *_MsgFootprint) Text() string {
	return t.text
}

func (t *_MsgFootprint) Name() string {
	return t.name
}

func (t *_MsgFootprint) MD5Sum() string {
	return t.md5sum
}

func (t *_MsgFootprint) NewMessage() ros.Message {
	m := new(Footprint)
	m.Footprint = walk_msgs.Footprint2d{}
	m.SlideUp = 0.0
	m.SlideDown = 0.0
	m.HorizontalDistance = 0.0
	m.StepHeight = 0.0
	return m
}

// footprintWireSize is the encoded size of a Footprint: two temporals and seven float64s.
const footprintWireSize = 72

var (
	MsgFootprint = &_MsgFootprint{
		`walk_msgs/Footprint2d footprint
float64 slideUp
float64 slideDown
float64 horizontalDistance
float64 stepHeight
`,
		"halfsteps_pattern_generator/Footprint",
		"c0e358fe89a17f434cfecaf36056143a",
	}
)

type Footprint struct {
	Footprint          walk_msgs.Footprint2d `rosmsg:"footprint:walk_msgs/Footprint2d"`
	SlideUp            float64               `rosmsg:"slideUp:float64"`
	SlideDown          float64               `rosmsg:"slideDown:float64"`
	HorizontalDistance float64               `rosmsg:"horizontalDistance:float64"`
	StepHeight         float64               `rosmsg:"stepHeight:float64"`
}

func (m *Footprint) Type() ros.MessageType {
	return MsgFootprint
}

func (m *Footprint) Serialize(buf *bytes.Buffer) error {
	var err error = nil
	if err = m.Footprint.Serialize(buf); err != nil {
		return err
	}
	binary.Write(buf, binary.LittleEndian, m.SlideUp)
	binary.Write(buf, binary.LittleEndian, m.SlideDown)
	binary.Write(buf, binary.LittleEndian, m.HorizontalDistance)
	binary.Write(buf, binary.LittleEndian, m.StepHeight)
	return err
}

func (m *Footprint) Deserialize(buf *bytes.Reader) error {
	var err error = nil
	if err = m.Footprint.Deserialize(buf); err != nil {
		return err
	}
	if err = binary.Read(buf, binary.LittleEndian, &m.SlideUp); err != nil {
		return err
	}
	if err = binary.Read(buf, binary.LittleEndian, &m.SlideDown); err != nil {
		return err
	}
	if err = binary.Read(buf, binary.LittleEndian, &m.HorizontalDistance); err != nil {
		return err
	}
	if err = binary.Read(buf, binary.LittleEndian, &m.StepHeight); err != nil {
		return err
	}
	return err
}
