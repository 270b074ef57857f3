package pathgen

import (
	"math"
	"os"
	"time"

	"github.com/buger/jsonparser"
	"github.com/edwinhayes/halfsteps/msgs/geometry_msgs"
	hpg "github.com/edwinhayes/halfsteps/msgs/halfsteps_pattern_generator"
	"github.com/edwinhayes/halfsteps/ros"
	"github.com/pkg/errors"
)

// LoadRequestFile reads a JSON request from path.
func LoadRequestFile(path string) (*Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read request file '%s'", path)
	}
	req, err := ParseRequestJSON(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid request file '%s'", path)
	}
	return req, nil
}

// ParseRequestJSON decodes a request laid out the way rosbridge encodes
// it: field names as in the message definitions, time and duration as
// {"secs", "nsecs"}. Absent numbers are zero and an absent orientation is
// the identity.
func ParseRequestJSON(data []byte) (*Request, error) {
	if _, dataType, _, err := jsonparser.Get(data); err != nil {
		return nil, errors.Wrap(err, "malformed JSON")
	} else if dataType != jsonparser.Object {
		return nil, errors.Errorf("request must be a JSON object, got %v", dataType)
	}

	var err error
	req := &Request{}
	poses := []struct {
		key  string
		pose *geometry_msgs.Pose
	}{
		{"initial_left_foot_position", &req.InitialLeftFootPosition},
		{"initial_right_foot_position", &req.InitialRightFootPosition},
		{"final_left_foot_position", &req.FinalLeftFootPosition},
		{"final_right_foot_position", &req.FinalRightFootPosition},
	}
	for _, p := range poses {
		if *p.pose, err = parsePose(data, p.key); err != nil {
			return nil, err
		}
	}
	if req.InitialCenterOfMassPosition, err = parsePoint(data, "initial_center_of_mass_position"); err != nil {
		return nil, err
	}
	if req.FinalCenterOfMassPosition, err = parsePoint(data, "final_center_of_mass_position"); err != nil {
		return nil, err
	}
	if req.StartWithLeftFoot, err = jsonparser.GetBoolean(data, "start_with_left_foot"); err != nil {
		if err != jsonparser.KeyPathNotFoundError {
			return nil, errors.Wrap(err, "start_with_left_foot")
		}
		req.StartWithLeftFoot = false
	}

	req.Footprints = []hpg.Footprint{}
	var itemErr error
	index := 0
	_, err = jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, offset int, err error) {
		if itemErr != nil {
			return
		}
		if err != nil {
			itemErr = err
			return
		}
		fp, err := parseFootprint(value)
		if err != nil {
			itemErr = errors.Wrapf(err, "footprints[%d]", index)
			return
		}
		req.Footprints = append(req.Footprints, fp)
		index++
	}, "footprints")
	if err != nil && err != jsonparser.KeyPathNotFoundError {
		return nil, errors.Wrap(err, "footprints")
	}
	if itemErr != nil {
		return nil, itemErr
	}
	return req, nil
}

// getFloat reads an optional number.
func getFloat(data []byte, keys ...string) (float64, error) {
	v, err := jsonparser.GetFloat(data, keys...)
	if err == jsonparser.KeyPathNotFoundError {
		return 0, nil
	}
	return v, err
}

func getFloats(data []byte, prefix []string, dst map[string]*float64) error {
	for name, ptr := range dst {
		keys := append(append([]string{}, prefix...), name)
		v, err := getFloat(data, keys...)
		if err != nil {
			return errors.Wrapf(err, "%v", keys)
		}
		*ptr = v
	}
	return nil
}

func parsePoint(data []byte, keys ...string) (geometry_msgs.Point, error) {
	var p geometry_msgs.Point
	err := getFloats(data, keys, map[string]*float64{"x": &p.X, "y": &p.Y, "z": &p.Z})
	return p, err
}

func parsePose(data []byte, key string) (geometry_msgs.Pose, error) {
	var pose geometry_msgs.Pose
	var err error
	if pose.Position, err = parsePoint(data, key, "position"); err != nil {
		return pose, err
	}
	if _, _, _, err := jsonparser.Get(data, key, "orientation"); err == jsonparser.KeyPathNotFoundError {
		pose.Orientation = identity
		return pose, nil
	}
	q := &pose.Orientation
	err = getFloats(data, []string{key, "orientation"},
		map[string]*float64{"x": &q.X, "y": &q.Y, "z": &q.Z, "w": &q.W})
	return pose, err
}

// getNSec reads {"secs", "nsecs"} at keys as total nanoseconds.
func getNSec(data []byte, keys ...string) (int64, error) {
	var total int64
	for _, unit := range []struct {
		name  string
		scale int64
	}{{"secs", 1e9}, {"nsecs", 1}} {
		path := append(append([]string{}, keys...), unit.name)
		v, err := jsonparser.GetInt(data, path...)
		if err == jsonparser.KeyPathNotFoundError {
			continue
		}
		if err != nil {
			return 0, errors.Wrapf(err, "%v", path)
		}
		if v < math.MinInt32 || v > math.MaxUint32 {
			return 0, errors.Errorf("%v out of range: %d", path, v)
		}
		total += v * unit.scale
	}
	return total, nil
}

func parseFootprint(data []byte) (hpg.Footprint, error) {
	var fp hpg.Footprint
	f2d := &fp.Footprint

	begin, err := getNSec(data, "footprint", "beginTime")
	if err != nil {
		return fp, err
	}
	if begin < 0 || begin/1e9 > math.MaxUint32 {
		return fp, errors.Errorf("beginTime out of range: %d ns", begin)
	}
	f2d.BeginTime = ros.NewTime(uint32(begin/1e9), uint32(begin%1e9))

	duration, err := getNSec(data, "footprint", "duration")
	if err != nil {
		return fp, err
	}
	if sec := duration / 1e9; sec <= math.MinInt32 || sec >= math.MaxInt32 {
		return fp, errors.Errorf("duration out of range: %d ns", duration)
	}
	f2d.Duration = ros.DurationFromGo(time.Duration(duration))

	if err := getFloats(data, []string{"footprint"},
		map[string]*float64{"x": &f2d.X, "y": &f2d.Y, "theta": &f2d.Theta}); err != nil {
		return fp, err
	}
	err = getFloats(data, nil, map[string]*float64{
		"slideUp":            &fp.SlideUp,
		"slideDown":          &fp.SlideDown,
		"horizontalDistance": &fp.HorizontalDistance,
		"stepHeight":         &fp.StepHeight,
	})
	return fp, err
}
