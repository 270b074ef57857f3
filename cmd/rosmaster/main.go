// rosmaster runs the minimal master until interrupted.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/edwinhayes/halfsteps/ros"
	"github.com/edwinhayes/halfsteps/rosmaster"
	"github.com/sirupsen/logrus"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:11311", "listen address")
	level := flag.String("log-level", "info", "logrus level")
	flag.Parse()

	logger, err := ros.NewLogger(*level, "", "")
	if err != nil {
		logrus.Fatal(err)
	}
	master := rosmaster.New(logger)
	if _, err := master.Start(*addr); err != nil {
		logger.Fatal(err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down master")
	master.Shutdown()
}
