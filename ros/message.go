package ros

import (
	"bytes"
)

// MessageType describes a ROS message definition.
type MessageType interface {
	Text() string
	MD5Sum() string
	Name() string
	NewMessage() Message
}

// Message is a value with a ROS wire encoding.
type Message interface {
	Type() MessageType
	Serialize(buf *bytes.Buffer) error
	Deserialize(buf *bytes.Reader) error
}
