// The server binary hosts the tracing service: program submissions arrive
// over HTTP or WebSocket, each runs in its own sandboxed session, and the
// event stream goes back to the client in emission order.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Darkripper214/js-visualizer-9000-server/internal/config"
	"github.com/Darkripper214/js-visualizer-9000-server/internal/logging"
	"github.com/Darkripper214/js-visualizer-9000-server/internal/server"
)

func main() {
	port := flag.String("port", "", "override listen port")
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *port != "" {
		cfg.Server.Port = *port
	}

	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}
	defer logger.Sync() //nolint:errcheck

	srv := server.New(cfg, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		logger.Info("shutting down")
		if err := srv.Close(); err != nil {
			logger.Error("shutdown error: " + err.Error())
		}
	case err := <-errChan:
		log.Fatalf("server error: %v", err)
	}
}
