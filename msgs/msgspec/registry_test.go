package msgspec_test

import (
	"testing"

	"github.com/edwinhayes/halfsteps/msgs/geometry_msgs"
	hpg "github.com/edwinhayes/halfsteps/msgs/halfsteps_pattern_generator"
	"github.com/edwinhayes/halfsteps/msgs/msgspec"
	"github.com/edwinhayes/halfsteps/msgs/walk_msgs"
	"github.com/edwinhayes/halfsteps/ros"
	"github.com/stretchr/testify/require"
)

var messageTypes = []ros.MessageType{
	geometry_msgs.MsgPoint,
	geometry_msgs.MsgQuaternion,
	geometry_msgs.MsgPose,
	walk_msgs.MsgFootprint2d,
	hpg.MsgFootprint,
	hpg.MsgPathPoint,
	hpg.MsgGetPathRequest,
	hpg.MsgGetPathResponse,
}

func registryWithMessages() *msgspec.Registry {
	r := msgspec.NewRegistry()
	for _, mt := range messageTypes {
		r.AddMsg(mt.Name(), mt.Text())
	}
	return r
}

func TestMessageMD5Sums(t *testing.T) {
	r := registryWithMessages()
	for _, mt := range messageTypes {
		spec, err := r.LoadMsg(mt.Name())
		require.NoError(t, err, mt.Name())
		require.Equal(t, mt.MD5Sum(), spec.MD5Sum, mt.Name())
	}
}

func TestServiceMD5Sum(t *testing.T) {
	r := registryWithMessages()
	srv, err := r.LoadSrv(hpg.SrvGetPath.Name(), hpg.SrvGetPath.Text())
	require.NoError(t, err)
	require.Equal(t, hpg.SrvGetPath.MD5Sum(), srv.MD5Sum)
	require.Equal(t, hpg.MsgGetPathRequest.MD5Sum(), srv.Request.MD5Sum)
	require.Equal(t, hpg.MsgGetPathResponse.MD5Sum(), srv.Response.MD5Sum)
	require.Len(t, srv.Request.Fields, 8)
	require.Equal(t, "halfsteps_pattern_generator/Footprint[] footprints", srv.Request.Fields[7].String())
}

func TestRegistryErrors(t *testing.T) {
	r := msgspec.NewRegistry()
	_, err := r.LoadMsg("geometry_msgs/Pose")
	require.EqualError(t, err, "message definition of `geometry_msgs/Pose` is not found")

	r.AddMsg("geometry_msgs/Pose", geometry_msgs.MsgPose.Text())
	_, err = r.LoadMsg("geometry_msgs/Pose")
	require.Error(t, err)
	require.Contains(t, err.Error(), "geometry_msgs/Point")

	r.AddMsg("loop/A", "B b")
	r.AddMsg("loop/B", "A a")
	_, err = r.LoadMsg("loop/A")
	require.Error(t, err)
	require.Contains(t, err.Error(), "recursive definition: loop/A -> loop/B -> loop/A")

	_, err = r.LoadSrv("loop/Empty", "float64 x")
	require.Error(t, err)
}

func TestAddMsgReplacesDefinition(t *testing.T) {
	r := msgspec.NewRegistry()
	r.AddMsg("test/Value", "float64 x")
	first, err := r.LoadMsg("test/Value")
	require.NoError(t, err)

	r.AddMsg("test/Value", "float32 x")
	second, err := r.LoadMsg("test/Value")
	require.NoError(t, err)
	require.NotEqual(t, first.MD5Sum, second.MD5Sum)
}
