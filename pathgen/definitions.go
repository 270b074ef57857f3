package pathgen

import (
	"github.com/edwinhayes/halfsteps/msgs/geometry_msgs"
	hpg "github.com/edwinhayes/halfsteps/msgs/halfsteps_pattern_generator"
	"github.com/edwinhayes/halfsteps/msgs/msgspec"
	"github.com/edwinhayes/halfsteps/msgs/walk_msgs"
	"github.com/edwinhayes/halfsteps/ros"
	"github.com/pkg/errors"
)

var embeddedTypes = []ros.MessageType{
	geometry_msgs.MsgPoint,
	geometry_msgs.MsgQuaternion,
	geometry_msgs.MsgPose,
	walk_msgs.MsgFootprint2d,
	hpg.MsgFootprint,
	hpg.MsgPathPoint,
}

// CheckDefinitions recomputes the getPath MD5 sum from the message
// definitions compiled into this binary. Peers built from other
// definitions would be refused at the connection header.
func CheckDefinitions() error {
	registry := msgspec.NewRegistry()
	for _, mt := range embeddedTypes {
		registry.AddMsg(mt.Name(), mt.Text())
	}
	for _, mt := range embeddedTypes {
		spec, err := registry.LoadMsg(mt.Name())
		if err != nil {
			return err
		}
		if spec.MD5Sum != mt.MD5Sum() {
			return errors.Errorf("%s: definition hashes to %s, type reports %s", mt.Name(), spec.MD5Sum, mt.MD5Sum())
		}
	}
	srv, err := registry.LoadSrv(hpg.SrvGetPath.Name(), hpg.SrvGetPath.Text())
	if err != nil {
		return errors.Wrapf(err, "parsing %s", hpg.SrvGetPath.Name())
	}
	if srv.MD5Sum != hpg.SrvGetPath.MD5Sum() {
		return errors.Errorf("%s: definition hashes to %s, type reports %s", srv.FullName, srv.MD5Sum, hpg.SrvGetPath.MD5Sum())
	}
	return nil
}
