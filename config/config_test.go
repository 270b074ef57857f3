package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "halfsteps.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
node_name: walker
master_uri: http://127.0.0.1:11311
service: /robot/getPath
logging:
  level: debug
  log_path: /tmp/halfsteps
timeouts:
  wait_for_service_ms: 2500
  call_ms: 30000
request_file: walk.json
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "walker", cfg.NodeName)
	require.Equal(t, "http://127.0.0.1:11311", cfg.MasterURI)
	require.Equal(t, "/robot/getPath", cfg.Service)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "/tmp/halfsteps", cfg.Logging.LogPath)
	require.Equal(t, 2500*time.Millisecond, cfg.Timeouts.WaitForService())
	require.Equal(t, 30*time.Second, cfg.Timeouts.Call())
	require.Equal(t, "walk.json", cfg.RequestFile)

	// Unset keys keep their defaults.
	require.Equal(t, 10*time.Second, cfg.Timeouts.IO())
	require.Equal(t, 5*time.Second, cfg.Timeouts.Callback())
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ROS_MASTER_URI", "http://master:11311")
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "call_srv", cfg.NodeName)
	require.Equal(t, "getPath", cfg.Service)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, "http://master:11311", cfg.MasterURI)
	require.Zero(t, cfg.Timeouts.WaitForService())
	require.Zero(t, cfg.Timeouts.Call())
}

func TestFileMasterURIWins(t *testing.T) {
	t.Setenv("ROS_MASTER_URI", "http://master:11311")
	cfg, err := Load(writeConfig(t, "master_uri: http://other:11311\n"))
	require.NoError(t, err)
	require.Equal(t, "http://other:11311", cfg.MasterURI)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "error reading config file")

	_, err = Load(writeConfig(t, "timeouts: [1, 2]\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "error parsing config file")

	_, err = Load(writeConfig(t, "node_name: \"\"\n"))
	require.EqualError(t, err, "node_name must not be empty")

	_, err = Load(writeConfig(t, "timeouts:\n  call_ms: -1\n"))
	require.EqualError(t, err, "timeouts must not be negative")
}

func TestLoadWithDefaults(t *testing.T) {
	defaults := Default()
	defaults.NodeName = "getpath_server"
	cfg, err := LoadWithDefaults(writeConfig(t, "service: plan\n"), defaults)
	require.NoError(t, err)
	require.Equal(t, "getpath_server", cfg.NodeName)
	require.Equal(t, "plan", cfg.Service)
	require.Equal(t, "getpath_server", defaults.NodeName)
	require.Equal(t, "getPath", defaults.Service)
}
