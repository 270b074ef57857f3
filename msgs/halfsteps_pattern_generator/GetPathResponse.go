// Automatically generated from the message definition "halfsteps_pattern_generator/GetPathResponse.msg"
package halfsteps_pattern_generator

import (
	"bytes"
	"encoding/binary"

	"github.com/edwinhayes/halfsteps/ros"
	"github.com/pkg/errors"
)

type _MsgGetPathResponse struct {
	text   string
	name   string
	md5sum string
}

func (t *_MsgGetPathResponse) Text() string {
	return t.text
}

func (t *_MsgGetPathResponse) Name() string {
	return t.name
}

func (t *_MsgGetPathResponse) MD5Sum() string {
	return t.md5sum
}

func (t *_MsgGetPathResponse) NewMessage() ros.Message {
	m := new(GetPathResponse)
	m.Path = []PathPoint{}
	return m
}

var (
	MsgGetPathResponse = &_MsgGetPathResponse{
		`
PathPoint[] path
`,
		"halfsteps_pattern_generator/GetPathResponse",
		"d2bdb3af8ee25c7c46fff4f7b716ce23",
	}
)

type GetPathResponse struct {
	Path []PathPoint `rosmsg:"path:halfsteps_pattern_generator/PathPoint[]"`
}

func (m *GetPathResponse) Type() ros.MessageType {
	return MsgGetPathResponse
}

func (m *GetPathResponse) Serialize(buf *bytes.Buffer) error {
	var err error = nil
	binary.Write(buf, binary.LittleEndian, uint32(len(m.Path)))
	for _, e := range m.Path {
		if err = e.Serialize(buf); err != nil {
			return err
		}
	}
	return err
}

func (m *GetPathResponse) Deserialize(buf *bytes.Reader) error {
	var err error = nil
	{
		var size uint32
		if err = binary.Read(buf, binary.LittleEndian, &size); err != nil {
			return err
		}
		if int64(size)*pathPointWireSize > int64(buf.Len()) {
			return errors.Errorf("path: %d elements exceed %d remaining bytes", size, buf.Len())
		}
		m.Path = make([]PathPoint, int(size))
		for i := 0; i < int(size); i++ {
			if err = m.Path[i].Deserialize(buf); err != nil {
				return err
			}
		}
	}
	return err
}
