// getpath_server provides the getPath service with the keyframe path
// computer.
package main

import (
	"flag"
	"os"

	"github.com/edwinhayes/halfsteps/config"
	"github.com/edwinhayes/halfsteps/pathgen"
	"github.com/edwinhayes/halfsteps/ros"
	"github.com/sirupsen/logrus"
)

func main() {
	fs := flag.NewFlagSet("getpath_server", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML configuration file")
	fs.Parse(os.Args[1:])

	defaults := config.Default()
	defaults.NodeName = "getpath_server"
	cfg, err := config.LoadWithDefaults(*configPath, defaults)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	logger, err := ros.NewLogger(cfg.Logging.Level, cfg.Logging.LogPath, cfg.NodeName+".log")
	if err != nil {
		logrus.Fatalf("Failed to set up logging: %v", err)
	}

	if err := pathgen.CheckDefinitions(); err != nil {
		logger.Fatalf("Message definitions are inconsistent: %v", err)
	}

	opts := []ros.NodeOption{
		ros.WithLogger(logger),
		ros.WithIOTimeout(cfg.Timeouts.IO()),
		ros.WithCallbackTimeout(cfg.Timeouts.Callback()),
	}
	if cfg.MasterURI != "" {
		opts = append(opts, ros.WithMasterURI(cfg.MasterURI))
	}
	node, err := ros.NewNode(cfg.NodeName, fs.Args(), opts...)
	if err != nil {
		logger.Fatalf("Failed to start node: %v", err)
	}
	defer node.Shutdown()

	handler := pathgen.NewHandler(pathgen.KeyframeComputer{}, node.Logger())
	server, err := pathgen.Advertise(node, cfg.Service, handler)
	if err != nil {
		logger.Errorf("Failed to advertise %s: %v", cfg.Service, err)
		return
	}
	defer server.Shutdown()
	logger.Infof("Serving %s at %s", cfg.Service, server.URI())
	node.Spin()
}
