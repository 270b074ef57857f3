// Automatically generated from the message definition "walk_msgs/Footprint2d.msg"
package walk_msgs

import (
	"bytes"
	"encoding/binary"

	"github.com/edwinhayes/halfsteps/ros"
)

type _MsgFootprint2d struct {
	text   string
	name   string
	md5sum string
}

func (t *_MsgFootprint2d) Text() string {
	return t.text
}

func (t *_MsgFootprint2d) Name() string {
	return t.name
}

func (t *_MsgFootprint2d) MD5Sum() string {
	return t.md5sum
}

func (t *_MsgFootprint2d) NewMessage() ros.Message {
	m := new(Footprint2d)
	m.BeginTime = ros.Time{}
	m.Duration = ros.Duration{}
	m.X = 0.0
	m.Y = 0.0
	m.Theta = 0.0
	return m
}

var (
	MsgFootprint2d = &_MsgFootprint2d{
		`time beginTime
duration duration
float64 x
float64 y
float64 theta
`,
		"walk_msgs/Footprint2d",
		"eec7ee92e130c0823cfdeee9490b0167",
	}
)

type Footprint2d struct {
	BeginTime ros.Time     `rosmsg:"beginTime:time"`
	Duration  ros.Duration `rosmsg:"duration:duration"`
	X         float64      `rosmsg:"x:float64"`
	Y         float64      `rosmsg:"y:float64"`
	Theta     float64      `rosmsg:"theta:float64"`
}

func (m *Footprint2d) Type() ros.MessageType {
	return MsgFootprint2d
}

func (m *Footprint2d) Serialize(buf *bytes.Buffer) error {
	var err error = nil
	binary.Write(buf, binary.LittleEndian, m.BeginTime.Sec)
	binary.Write(buf, binary.LittleEndian, m.BeginTime.NSec)
	binary.Write(buf, binary.LittleEndian, m.Duration.Sec)
	binary.Write(buf, binary.LittleEndian, m.Duration.NSec)
	binary.Write(buf, binary.LittleEndian, m.X)
	binary.Write(buf, binary.LittleEndian, m.Y)
	binary.Write(buf, binary.LittleEndian, m.Theta)
	return err
}

func (m *Footprint2d) Deserialize(buf *bytes.Reader) error {
	var err error = nil
	{
		if err = binary.Read(buf, binary.LittleEndian, &m.BeginTime.Sec); err != nil {
			return err
		}

		if err = binary.Read(buf, binary.LittleEndian, &m.BeginTime.NSec); err != nil {
			return err
		}
	}
	{
		if err = binary.Read(buf, binary.LittleEndian, &m.Duration.Sec); err != nil {
			return err
		}

		if err = binary.Read(buf, binary.LittleEndian, &m.Duration.NSec); err != nil {
			return err
		}
	}
	if err = binary.Read(buf, binary.LittleEndian, &m.X); err != nil {
		return err
	}
	if err = binary.Read(buf, binary.LittleEndian, &m.Y); err != nil {
		return err
	}
	if err = binary.Read(buf, binary.LittleEndian, &m.Theta); err != nil {
		return err
	}
	return err
}
