package msgspec

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConvertConstantValue(t *testing.T) {
	var tests = []struct {
		fieldType    string
		valueLiteral string
		expected     interface{}
		expectError  bool
	}{
		{"bool", "0", false, false},
		{"bool", "1", true, false},
		{"bool", "2", true, false},
		{"bool", "-2", true, true},
		{"bool", "True", true, false},
		{"bool", "False", false, false},
		{"bool", "None", false, false},
		{"float32", "2.72", float32(2.72), false},
		{"float64", "-3.14", float64(-3.14), false},
		{"int8", "-129", 0, true},
		{"int8", "-128", int8(-128), false},
		{"int8", "127", int8(127), false},
		{"int8", "128", 0, true},
		{"int16", "32767", int16(32767), false},
		{"int16", "32768", 0, true},
		{"int32", "-2147483648", int32(-2147483648), false},
		{"int32", "2147483648", 0, true},
		{"int64", "-9223372036854775808", int64(-9223372036854775808), false},
		{"int64", "9223372036854775808", 0, true},
		{"uint8", "-1", 0, true},
		{"uint8", "255", uint8(255), false},
		{"uint8", "256", 0, true},
		{"uint16", "65535", uint16(65535), false},
		{"uint32", "4294967295", uint32(4294967295), false},
		{"uint32", "4294967296", 0, true},
		{"uint64", "18446744073709551615", uint64(18446744073709551615), false},
		{"uint64", "18446744073709551616", 0, true},
		{"string", "Lorem Ipsum", "Lorem Ipsum", false},
		{"time", "0", 0, true},
	}

	for _, test := range tests {
		result, e := convertConstantValue(test.fieldType, test.valueLiteral)
		if test.expectError {
			if e == nil {
				t.Errorf("INPUT(%s : %s) | should fail but succeeded", test.valueLiteral, test.fieldType)
			}
		} else {
			if e != nil {
				t.Errorf("INPUT(%s : %s) | %s", test.valueLiteral, test.fieldType, e.Error())
			} else if result != test.expected {
				format := "INPUT(%s : %s) | Expected: [%v: %v], Actual: [%v : %v]"
				t.Errorf(format, test.valueLiteral, test.fieldType, test.expected, reflect.TypeOf(test.expected), result, reflect.TypeOf(result))
			}
		}
	}
}

func TestParseType(t *testing.T) {
	var tests = []struct {
		input    string
		pkg      string
		base     string
		isArray  bool
		arrayLen int
	}{
		{"float64", "", "float64", false, 0},
		{"geometry_msgs/Pose", "geometry_msgs", "Pose", false, 0},
		{"halfsteps_pattern_generator/Footprint[]", "halfsteps_pattern_generator", "Footprint", true, -1},
		{"uint8[16]", "", "uint8", true, 16},
	}
	for _, test := range tests {
		pkg, base, isArray, arrayLen, err := parseType(test.input)
		require.NoError(t, err, test.input)
		require.Equal(t, test.pkg, pkg, test.input)
		require.Equal(t, test.base, base, test.input)
		require.Equal(t, test.isArray, isArray, test.input)
		require.Equal(t, test.arrayLen, arrayLen, test.input)
	}

	for _, bad := range []string{"a/b/c", "uint8[4", "uint8[x]"} {
		_, _, _, _, err := parseType(bad)
		require.Error(t, err, bad)
	}
}

func TestParseMsg(t *testing.T) {
	text := `# leading comment
Header header
uint8 LEFT=0   # left foot
string GREETING = hello # not a comment
float64 x
Footprint[] steps
geometry_msgs/Point[2] corners
duration d
`
	spec, err := ParseMsg("walk/Plan", text)
	require.NoError(t, err)
	require.Equal(t, "walk", spec.Package)
	require.Equal(t, "Plan", spec.ShortName)

	require.Len(t, spec.Constants, 2)
	require.Equal(t, Constant{Type: "uint8", Name: "LEFT", Value: uint8(0), ValueText: "0"}, spec.Constants[0])
	require.Equal(t, "GREETING", spec.Constants[1].Name)
	require.Equal(t, "hello # not a comment", spec.Constants[1].Value)

	var decls []string
	for _, f := range spec.Fields {
		decls = append(decls, f.String())
	}
	require.Equal(t, []string{
		"std_msgs/Header header",
		"float64 x",
		"walk/Footprint[] steps",
		"geometry_msgs/Point[2] corners",
		"duration d",
	}, decls)
	require.True(t, spec.Fields[1].IsBuiltin())
	require.False(t, spec.Fields[2].IsBuiltin())
}

func TestParseMsgSyntaxErrors(t *testing.T) {
	for _, text := range []string{
		"float64",
		"float64 x y",
		"float64 1x",
		"time STAMP=0",
		"int8 SMALL=300",
		"Footprint[ steps",
	} {
		_, err := ParseMsg("walk/Plan", "\n"+text)
		require.Error(t, err, text)
		syntaxErr, ok := err.(*SyntaxError)
		require.True(t, ok, text)
		require.Equal(t, 2, syntaxErr.Line, text)
	}

	_, err := ParseMsg("Plan", "Footprint steps")
	require.Error(t, err)
}
