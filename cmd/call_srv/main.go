// call_srv asks the getPath service for the three step walk (or a request
// loaded from JSON) and prints whether a path came back.
//
//	call_srv [-config file.yaml] [-request file.json] [ROS arguments...]
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"

	"github.com/edwinhayes/halfsteps/config"
	"github.com/edwinhayes/halfsteps/pathgen"
	"github.com/edwinhayes/halfsteps/ros"
	"github.com/sirupsen/logrus"
)

const (
	exitPathFound = 0
	exitNoPath    = 1
	exitFailure   = 2
	exitStartup   = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("call_srv", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML configuration file")
	requestPath := fs.String("request", "", "JSON request file, overrides request_file")
	if err := fs.Parse(args); err != nil {
		return exitStartup
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Errorf("Failed to load configuration: %v", err)
		return exitStartup
	}
	logger, err := ros.NewLogger(cfg.Logging.Level, cfg.Logging.LogPath, cfg.NodeName+".log")
	if err != nil {
		logrus.Errorf("Failed to set up logging: %v", err)
		return exitStartup
	}

	req := pathgen.NewWalkForwardRequest()
	if *requestPath != "" {
		cfg.RequestFile = *requestPath
	}
	if cfg.RequestFile != "" {
		if req, err = pathgen.LoadRequestFile(cfg.RequestFile); err != nil {
			logger.Error(err)
			return exitStartup
		}
	}

	opts := []ros.NodeOption{
		ros.WithLogger(logger),
		ros.WithIOTimeout(cfg.Timeouts.IO()),
		ros.WithSignalHandling(false),
	}
	if cfg.MasterURI != "" {
		opts = append(opts, ros.WithMasterURI(cfg.MasterURI))
	}
	node, err := ros.NewNode(cfg.NodeName, fs.Args(), opts...)
	if err != nil {
		logger.Errorf("Failed to start node: %v", err)
		return exitStartup
	}
	defer node.Shutdown()

	client := pathgen.NewClient(node, cfg.Service)
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	outcome, err := pathgen.Run(ctx, stdout, client, req, pathgen.CallOptions{
		WaitTimeout: cfg.Timeouts.WaitForService(),
		CallTimeout: cfg.Timeouts.Call(),
	})
	logger.WithField("service", client.Service()).Debugf("Outcome: %v", outcome)
	if err != nil {
		logger.Debugf("getPath failed: %+v", err)
	}
	switch outcome {
	case pathgen.PathFound:
		return exitPathFound
	case pathgen.NoPath:
		return exitNoPath
	default:
		return exitFailure
	}
}
