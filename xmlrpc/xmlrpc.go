// Package xmlrpc is a small XML-RPC codec, client and server used for the
// ROS master and slave APIs.
package xmlrpc

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Fault is the error returned by a peer that answered with <fault>.
type Fault struct {
	Code   int32
	String string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("XMLRPC Fault: code=%v string=%v", f.Code, f.String)
}

func xmlEscape(s string) string {
	var buffer bytes.Buffer
	xml.EscapeText(&buffer, []byte(s))
	return buffer.String()
}

// emitValue writes the body of a <value> element. A nil value writes
// nothing, which peers read back as an empty string.
func emitValue(buf *bytes.Buffer, value interface{}) error {
	if bs, ok := value.([]byte); ok {
		buf.WriteString("<base64>")
		buf.WriteString(base64.StdEncoding.EncodeToString(bs))
		buf.WriteString("</base64>")
		return nil
	}
	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return nil
	}
	switch val.Kind() {
	case reflect.Bool:
		if val.Bool() {
			buf.WriteString("<boolean>1</boolean>")
		} else {
			buf.WriteString("<boolean>0</boolean>")
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		buf.WriteString("<int>")
		buf.WriteString(strconv.FormatInt(val.Int(), 10))
		buf.WriteString("</int>")
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		buf.WriteString("<int>")
		buf.WriteString(strconv.FormatUint(val.Uint(), 10))
		buf.WriteString("</int>")
	case reflect.Float32, reflect.Float64:
		buf.WriteString("<double>")
		buf.WriteString(strconv.FormatFloat(val.Float(), 'g', -1, 64))
		buf.WriteString("</double>")
	case reflect.String:
		buf.WriteString("<string>")
		buf.WriteString(xmlEscape(val.String()))
		buf.WriteString("</string>")
	case reflect.Array, reflect.Slice:
		buf.WriteString("<array><data>")
		for i := 0; i < val.Len(); i++ {
			buf.WriteString("<value>")
			if err := emitValue(buf, val.Index(i).Interface()); err != nil {
				return err
			}
			buf.WriteString("</value>")
		}
		buf.WriteString("</data></array>")
	case reflect.Map:
		if val.Type().Key().Kind() != reflect.String {
			return errors.New("map key must be string")
		}
		keys := make([]string, 0, val.Len())
		for _, k := range val.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		buf.WriteString("<struct>")
		for _, k := range keys {
			buf.WriteString("<member><name>")
			buf.WriteString(xmlEscape(k))
			buf.WriteString("</name><value>")
			v := val.MapIndex(reflect.ValueOf(k).Convert(val.Type().Key()))
			if err := emitValue(buf, v.Interface()); err != nil {
				return err
			}
			buf.WriteString("</value></member>")
		}
		buf.WriteString("</struct>")
	default:
		return errors.Errorf("unsupported kind %v (%v)", val.Kind(), val.Type())
	}
	return nil
}

func emitRequest(buf *bytes.Buffer, method string, args ...interface{}) error {
	buf.WriteString(xml.Header)
	buf.WriteString("<methodCall><methodName>")
	buf.WriteString(xmlEscape(method))
	buf.WriteString("</methodName><params>")
	for _, arg := range args {
		buf.WriteString("<param><value>")
		if err := emitValue(buf, arg); err != nil {
			return err
		}
		buf.WriteString("</value></param>")
	}
	buf.WriteString("</params></methodCall>")
	return nil
}

func emitResponse(buf *bytes.Buffer, value interface{}) error {
	buf.WriteString(xml.Header)
	buf.WriteString("<methodResponse><params><param><value>")
	if err := emitValue(buf, value); err != nil {
		return err
	}
	buf.WriteString("</value></param></params></methodResponse>")
	return nil
}

func emitFault(buf *bytes.Buffer, code int32, message string) error {
	buf.WriteString(xml.Header)
	buf.WriteString("<methodResponse><fault><value>")
	fault := map[string]interface{}{
		"faultCode":   code,
		"faultString": message,
	}
	if err := emitValue(buf, fault); err != nil {
		return err
	}
	buf.WriteString("</value></fault></methodResponse>")
	return nil
}

// nextStart returns the next start element, skipping anything else.
func nextStart(d *xml.Decoder) (xml.StartElement, error) {
	for {
		token, err := d.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		if elem, ok := token.(xml.StartElement); ok {
			return elem, nil
		}
	}
}

func expectStart(d *xml.Decoder, name string) error {
	elem, err := nextStart(d)
	if err != nil {
		return err
	}
	if elem.Name.Local != name {
		return errors.Errorf("expected <%s> but got <%s>", name, elem.Name.Local)
	}
	return nil
}

// expectEnd consumes whitespace up to and including </name>.
func expectEnd(d *xml.Decoder, name string) error {
	for {
		token, err := d.Token()
		if err != nil {
			return err
		}
		switch t := token.(type) {
		case xml.EndElement:
			if t.Name.Local != name {
				return errors.Errorf("expected </%s> but got </%s>", name, t.Name.Local)
			}
			return nil
		case xml.StartElement:
			return errors.Errorf("expected </%s> but got <%s>", name, t.Name.Local)
		}
	}
}

// readText collects character data up to and including the end element
// closing the current one.
func readText(d *xml.Decoder) (string, error) {
	var sb strings.Builder
	for {
		token, err := d.Token()
		if err != nil {
			return "", err
		}
		switch t := token.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			return sb.String(), nil
		case xml.StartElement:
			return "", errors.Errorf("unexpected <%s> in scalar", t.Name.Local)
		}
	}
}

// parseValue parses a value after the <value> tag has been read. On
// success the closing </value> has been consumed too.
func parseValue(d *xml.Decoder) (interface{}, error) {
	var untyped strings.Builder
	for {
		token, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := token.(type) {
		case xml.CharData:
			untyped.Write(t)
		case xml.EndElement:
			// <value>text</value> is a string per the XML-RPC spec.
			return untyped.String(), nil
		case xml.StartElement:
			v, err := parseTyped(d, t.Name.Local)
			if err != nil {
				return nil, err
			}
			if err := expectEnd(d, "value"); err != nil {
				return nil, err
			}
			return v, nil
		}
	}
}

func parseTyped(d *xml.Decoder, kind string) (interface{}, error) {
	switch kind {
	case "array":
		return parseArray(d)
	case "struct":
		return parseStruct(d)
	}
	text, err := readText(d)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "boolean":
		switch strings.TrimSpace(text) {
		case "0":
			return false, nil
		case "1":
			return true, nil
		}
		return nil, errors.Errorf("invalid boolean %q", text)
	case "i4", "int":
		i, err := strconv.ParseInt(strings.TrimSpace(text), 10, 32)
		if err != nil {
			return nil, errors.Wrap(err, "invalid int")
		}
		return int32(i), nil
	case "double":
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return nil, errors.Wrap(err, "invalid double")
		}
		return f, nil
	case "string":
		return text, nil
	case "base64":
		bs, err := base64.StdEncoding.DecodeString(strings.TrimSpace(text))
		if err != nil {
			return nil, errors.Wrap(err, "invalid base64")
		}
		return bs, nil
	}
	return nil, errors.Errorf("unsupported value type <%s>", kind)
}

func parseArray(d *xml.Decoder) (interface{}, error) {
	if err := expectStart(d, "data"); err != nil {
		return nil, err
	}
	a := []interface{}{}
	for {
		token, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local != "value" {
				return nil, errors.Errorf("unexpected <%s> in array", t.Name.Local)
			}
			v, err := parseValue(d)
			if err != nil {
				return nil, err
			}
			a = append(a, v)
		case xml.EndElement:
			if err := expectEnd(d, "array"); err != nil {
				return nil, err
			}
			return a, nil
		}
	}
}

func parseStruct(d *xml.Decoder) (interface{}, error) {
	m := make(map[string]interface{})
	for {
		token, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local != "member" {
				return nil, errors.Errorf("unexpected <%s> in struct", t.Name.Local)
			}
			if err := expectStart(d, "name"); err != nil {
				return nil, err
			}
			name, err := readText(d)
			if err != nil {
				return nil, err
			}
			if err := expectStart(d, "value"); err != nil {
				return nil, err
			}
			v, err := parseValue(d)
			if err != nil {
				return nil, err
			}
			if err := expectEnd(d, "member"); err != nil {
				return nil, err
			}
			m[name] = v
		case xml.EndElement:
			return m, nil
		}
	}
}

func parseRequest(r io.Reader) (string, []interface{}, error) {
	d := xml.NewDecoder(r)
	if err := expectStart(d, "methodCall"); err != nil {
		return "", nil, err
	}
	if err := expectStart(d, "methodName"); err != nil {
		return "", nil, err
	}
	name, err := readText(d)
	if err != nil {
		return "", nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, errors.New("empty methodName")
	}
	var args []interface{}
	for {
		token, err := d.Token()
		if err == io.EOF {
			// <params> is optional for zero-argument calls.
			return name, args, nil
		}
		if err != nil {
			return "", nil, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "value" {
				v, err := parseValue(d)
				if err != nil {
					return "", nil, err
				}
				args = append(args, v)
			}
		case xml.EndElement:
			if t.Name.Local == "methodCall" {
				return name, args, nil
			}
		}
	}
}

// parseResponse returns the decoded value, or a *Fault as error when the
// peer answered with a fault.
func parseResponse(r io.Reader) (interface{}, error) {
	d := xml.NewDecoder(r)
	if err := expectStart(d, "methodResponse"); err != nil {
		return nil, err
	}
	elem, err := nextStart(d)
	if err != nil {
		return nil, err
	}
	switch elem.Name.Local {
	case "params":
		if err := expectStart(d, "param"); err != nil {
			return nil, err
		}
		if err := expectStart(d, "value"); err != nil {
			return nil, err
		}
		return parseValue(d)
	case "fault":
		if err := expectStart(d, "value"); err != nil {
			return nil, err
		}
		v, err := parseValue(d)
		if err != nil {
			return nil, err
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, errors.New("malformed XMLRPC fault response")
		}
		code, _ := m["faultCode"].(int32)
		msg, ok := m["faultString"].(string)
		if !ok {
			return nil, errors.New("malformed XMLRPC fault response")
		}
		return nil, &Fault{Code: code, String: msg}
	}
	return nil, errors.Errorf("unexpected <%s> in methodResponse", elem.Name.Local)
}
