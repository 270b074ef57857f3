// Package msgspec parses ROS .msg and .srv definitions and computes their
// MD5 sums, the values peers compare in the TCPROS connection header.
package msgspec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const (
	Sep         = "/"
	ConstChar   = "="
	CommentChar = "#"
	IoDelim     = "---"

	HeaderType     = "Header"
	HeaderFullName = "std_msgs/Header"
	TimeType       = "time"
	DurationType   = "duration"
)

var primitiveTypes = map[string]bool{
	"int8": true, "uint8": true, "int16": true, "uint16": true,
	"int32": true, "uint32": true, "int64": true, "uint64": true,
	"float32": true, "float64": true, "string": true, "bool": true,
	// deprecated
	"char": true, "byte": true,
}

var legalResourceName = regexp.MustCompile(`^[A-Za-z][\w/]*$`)

func isPrimitiveType(t string) bool {
	return primitiveTypes[t]
}

func isBuiltinType(t string) bool {
	return t == TimeType || t == DurationType || isPrimitiveType(t)
}

func isLegalResourceName(name string) bool {
	return !strings.Contains(name, "//") && legalResourceName.MatchString(name)
}

// SyntaxError locates a bad line of a definition.
type SyntaxError struct {
	FullName string
	Line     int
	Message  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("[%s@%d] %s", e.FullName, e.Line, e.Message)
}

// Field is one field declaration. Package is empty for builtin types.
type Field struct {
	Package  string
	Type     string
	Name     string
	IsArray  bool
	ArrayLen int // -1 for variable length
}

func (f Field) IsBuiltin() bool {
	return f.Package == ""
}

// FullType is pkg/Type, or the builtin type name.
func (f Field) FullType() string {
	if f.Package == "" {
		return f.Type
	}
	return f.Package + Sep + f.Type
}

// String renders the declaration the way it appears in MD5 text.
func (f Field) String() string {
	t := f.FullType()
	if f.IsArray {
		if f.ArrayLen < 0 {
			t += "[]"
		} else {
			t += fmt.Sprintf("[%d]", f.ArrayLen)
		}
	}
	return t + " " + f.Name
}

type Constant struct {
	Type      string
	Name      string
	Value     interface{}
	ValueText string
}

// MsgSpec is a parsed message definition.
type MsgSpec struct {
	FullName  string
	Package   string
	ShortName string
	Text      string
	Fields    []Field
	Constants []Constant
	MD5Sum    string
}

// SrvSpec is a parsed service definition.
type SrvSpec struct {
	FullName string
	Text     string
	Request  *MsgSpec
	Response *MsgSpec
	MD5Sum   string
}

// splitResourceName splits "pkg/Name"; a bare name has no package.
func splitResourceName(name string) (string, string, error) {
	components := strings.Split(name, Sep)
	switch len(components) {
	case 1:
		return "", name, nil
	case 2:
		return components[0], components[1], nil
	}
	return "", "", fmt.Errorf("invalid name %s", name)
}

func stripComment(line string) string {
	return strings.TrimSpace(strings.SplitN(line, CommentChar, 2)[0])
}

// convertConstantValue parses a constant literal of fieldType.
func convertConstantValue(fieldType string, literal string) (interface{}, error) {
	switch fieldType {
	case "float32":
		v, err := strconv.ParseFloat(literal, 32)
		return float32(v), err
	case "float64":
		return strconv.ParseFloat(literal, 64)
	case "string":
		return strings.TrimSpace(literal), nil
	case "int8", "byte":
		v, err := strconv.ParseInt(literal, 0, 8)
		return int8(v), err
	case "int16":
		v, err := strconv.ParseInt(literal, 0, 16)
		return int16(v), err
	case "int32":
		v, err := strconv.ParseInt(literal, 0, 32)
		return int32(v), err
	case "int64":
		return strconv.ParseInt(literal, 0, 64)
	case "uint8", "char":
		v, err := strconv.ParseUint(literal, 0, 8)
		return uint8(v), err
	case "uint16":
		v, err := strconv.ParseUint(literal, 0, 16)
		return uint16(v), err
	case "uint32":
		v, err := strconv.ParseUint(literal, 0, 32)
		return uint32(v), err
	case "uint64":
		return strconv.ParseUint(literal, 0, 64)
	case "bool":
		// genmsg evaluates the literal as Python.
		switch literal {
		case "True":
			return true, nil
		case "False", "None":
			return false, nil
		}
		v, err := strconv.ParseUint(literal, 10, 0)
		if err != nil {
			return nil, fmt.Errorf("invalid constant literal for bool: [%s]", literal)
		}
		return v != 0, nil
	}
	return nil, fmt.Errorf("invalid constant type: [%s]", fieldType)
}

func parseConstantLine(line string) (Constant, error) {
	cleanLine := stripComment(line)
	sepIndex := strings.IndexFunc(cleanLine, unicode.IsSpace)
	if sepIndex < 0 {
		return Constant{}, fmt.Errorf("could not find a constant name after the type name")
	}
	fieldType := cleanLine[:sepIndex]
	if !isPrimitiveType(fieldType) {
		return Constant{}, fmt.Errorf("[%s] is not a legal constant type", fieldType)
	}

	// String constants take everything right of '=', comments included.
	keyValue := strings.TrimSpace(cleanLine[sepIndex:])
	if fieldType == "string" {
		keyValue = strings.TrimSpace(line)[sepIndex:]
	}
	kv := strings.SplitN(keyValue, ConstChar, 2)
	if len(kv) != 2 {
		return Constant{}, fmt.Errorf("a constant definition requires its value")
	}
	name := strings.TrimSpace(kv[0])
	valueText := strings.TrimSpace(kv[1])
	if fieldType == "string" {
		valueText = strings.TrimLeftFunc(kv[1], unicode.IsSpace)
	}
	value, err := convertConstantValue(fieldType, valueText)
	if err != nil {
		return Constant{}, err
	}
	return Constant{Type: fieldType, Name: name, Value: value, ValueText: valueText}, nil
}

// parseType splits "pkg/Type[N]".
func parseType(msgType string) (pkg string, baseType string, isArray bool, arrayLen int, err error) {
	index := strings.Index(msgType, "[")
	if index < 0 {
		pkg, baseType, err = splitResourceName(msgType)
		return pkg, baseType, false, 0, err
	}
	if !strings.HasSuffix(msgType, "]") {
		return "", "", false, 0, fmt.Errorf("missing ']' in %s", msgType)
	}
	if pkg, baseType, err = splitResourceName(msgType[:index]); err != nil {
		return "", "", false, 0, err
	}
	bound := msgType[index+1 : len(msgType)-1]
	if bound == "" {
		return pkg, baseType, true, -1, nil
	}
	n, err := strconv.ParseUint(bound, 10, 31)
	if err != nil {
		return "", "", false, 0, fmt.Errorf("invalid array length in %s", msgType)
	}
	return pkg, baseType, true, int(n), nil
}

func parseFieldLine(line string, packageName string) (Field, error) {
	parts := strings.Fields(stripComment(line))
	if len(parts) != 2 {
		return Field{}, fmt.Errorf("invalid declaration: %s", line)
	}
	fieldType, name := parts[0], parts[1]
	if !isLegalResourceName(name) || strings.Contains(name, Sep) {
		return Field{}, fmt.Errorf("%s is not a legal message field name", name)
	}

	base := fieldType
	if i := strings.Index(fieldType, "["); i >= 0 {
		base = fieldType[:i]
	}
	if !isLegalResourceName(base) {
		return Field{}, fmt.Errorf("%s is not a legal message field type", fieldType)
	}
	switch {
	case base == HeaderType:
		fieldType = HeaderFullName + fieldType[len(base):]
	case !strings.Contains(base, Sep) && !isBuiltinType(base):
		if packageName == "" {
			return Field{}, fmt.Errorf("%s needs a package", fieldType)
		}
		fieldType = packageName + Sep + fieldType
	}

	pkg, baseType, isArray, arrayLen, err := parseType(fieldType)
	if err != nil {
		return Field{}, err
	}
	return Field{Package: pkg, Type: baseType, Name: name, IsArray: isArray, ArrayLen: arrayLen}, nil
}

// ParseMsg parses text as the definition of fullName. The MD5 sum is
// left empty; a Registry fills it in.
func ParseMsg(fullName string, text string) (*MsgSpec, error) {
	packageName, shortName, err := splitResourceName(fullName)
	if err != nil {
		return nil, err
	}
	spec := &MsgSpec{FullName: fullName, Package: packageName, ShortName: shortName, Text: text}
	for lineno, line := range strings.Split(text, "\n") {
		cleanLine := stripComment(line)
		switch {
		case cleanLine == "":
		case strings.Contains(cleanLine, ConstChar):
			c, err := parseConstantLine(line)
			if err != nil {
				return nil, &SyntaxError{fullName, lineno + 1, err.Error()}
			}
			spec.Constants = append(spec.Constants, c)
		default:
			f, err := parseFieldLine(line, packageName)
			if err != nil {
				return nil, &SyntaxError{fullName, lineno + 1, err.Error()}
			}
			spec.Fields = append(spec.Fields, f)
		}
	}
	return spec, nil
}
