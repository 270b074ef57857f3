// Connection header
package ros

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

const (
	// maxHeaderSize bounds a TCPROS connection header.
	maxHeaderSize = 1 << 20
	// maxBlockSize bounds a service request or response payload.
	maxBlockSize = 64 << 20
)

type header struct {
	key   string
	value string
}

func readConnectionHeader(r io.Reader) ([]header, error) {
	var headerSize uint32
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, err
	}
	if headerSize > maxHeaderSize {
		return nil, errors.Errorf("connection header of %d bytes is too large", headerSize)
	}
	buf := make([]byte, int(headerSize))
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	var headers []header
	for len(buf) > 0 {
		if len(buf) < 4 {
			return nil, errors.New("header length overrun")
		}
		size := binary.LittleEndian.Uint32(buf[:4])
		buf = buf[4:]
		if uint32(len(buf)) < size {
			return nil, errors.New("header length overrun")
		}
		line := buf[:size]
		buf = buf[size:]
		sep := bytes.IndexByte(line, '=')
		if sep < 0 {
			return nil, errors.Errorf("malformed header field %q", line)
		}
		headers = append(headers, header{string(line[:sep]), string(line[sep+1:])})
	}
	return headers, nil
}

func writeConnectionHeader(headers []header, w io.Writer) error {
	var body bytes.Buffer
	for _, h := range headers {
		binary.Write(&body, binary.LittleEndian, uint32(len(h.key)+len(h.value)+1))
		body.WriteString(h.key)
		body.WriteByte('=')
		body.WriteString(h.value)
	}
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(body.Len()))
	body.WriteTo(&buf)
	_, err := w.Write(buf.Bytes())
	return err
}

func headerMap(headers []header) map[string]string {
	m := make(map[string]string, len(headers))
	for _, h := range headers {
		m[h.key] = h.value
	}
	return m
}

// readBlock reads a uint32 length-prefixed payload.
func readBlock(r io.Reader) ([]byte, error) {
	var size uint32
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return nil, err
	}
	if size > maxBlockSize {
		return nil, errors.Errorf("block of %d bytes is too large", size)
	}
	buf := make([]byte, int(size))
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// writeBlock writes an optional ok byte followed by a length-prefixed
// payload in a single write.
func writeBlock(w io.Writer, prefix []byte, payload []byte) error {
	var buf bytes.Buffer
	buf.Write(prefix)
	binary.Write(&buf, binary.LittleEndian, uint32(len(payload)))
	buf.Write(payload)
	_, err := w.Write(buf.Bytes())
	return err
}
